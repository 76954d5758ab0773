// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.frontdesk/config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - Retrieval: confidence thresholds, top-k, embedder model
//   - Conversation: history window sizes for prompts and enrichment
//   - Escalation: helpdesk API base URL, poll interval, wait ceiling
//   - Storage: PostgreSQL connection for the vector index (see storage.go)
//   - Observability: Datadog APM tracing
//
// Error handling uses sentinel errors so callers can check with errors.Is().
// Sensitive values (passwords) are masked in MarshalJSON and String.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultEmbedderModel is the default Gemini embedder model.
	// gemini-embedding-001 supports truncation to 768 dimensions, which is
	// what the kb_entries pgvector schema stores; see vectorindex.Dimension.
	DefaultEmbedderModel = "gemini-embedding-001"

	// DefaultConfidenceHigh is the minimum score classified as high
	// confidence. High-confidence answers are spoken verbatim.
	DefaultConfidenceHigh = 0.75

	// DefaultConfidenceMedium is the minimum score classified as medium
	// confidence. Medium-confidence matches are fed to the LLM as context.
	DefaultConfidenceMedium = 0.55

	// DefaultTopK is the default number of knowledge matches per search.
	DefaultTopK = 3

	// DefaultPromptHistoryTurns is how many conversation turns are rendered
	// into the escalation context and LLM prompt.
	DefaultPromptHistoryTurns = 10

	// DefaultEnrichHistoryTurns is how many recent turns the query enricher
	// consults when resolving pronouns and elliptical questions.
	DefaultEnrichHistoryTurns = 5

	// DefaultPollInterval is how often the escalation coordinator checks
	// whether the supervisor has answered.
	DefaultPollInterval = 2 * time.Second

	// DefaultMaxWait is the ceiling on how long a caller is kept on hold
	// waiting for a supervisor before the coordinator gives up.
	DefaultMaxWait = 300 * time.Second
)

// Config stores application configuration.
// SECURITY: Sensitive fields are explicitly masked in MarshalJSON().
type Config struct {
	// Retrieval configuration
	EmbedderModel    string  `mapstructure:"embedder_model" json:"embedder_model"`
	ConfidenceHigh   float32 `mapstructure:"confidence_high" json:"confidence_high"`
	ConfidenceMedium float32 `mapstructure:"confidence_medium" json:"confidence_medium"`
	TopK             int     `mapstructure:"top_k" json:"top_k"`

	// Conversation history windows
	PromptHistoryTurns int `mapstructure:"prompt_history_turns" json:"prompt_history_turns"`
	EnrichHistoryTurns int `mapstructure:"enrich_history_turns" json:"enrich_history_turns"`

	// Escalation configuration
	HelpdeskBaseURL string        `mapstructure:"helpdesk_base_url" json:"helpdesk_base_url"`
	PollInterval    time.Duration `mapstructure:"poll_interval" json:"poll_interval"`
	MaxWait         time.Duration `mapstructure:"max_wait" json:"max_wait"`

	// Storage configuration (see storage.go for documentation)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Observability configuration
	Datadog DatadogConfig `mapstructure:"datadog" json:"datadog"`
}

// DatadogConfig holds Datadog APM settings for trace export.
type DatadogConfig struct {
	// AgentHost is the local Datadog Agent OTLP endpoint.
	AgentHost string `mapstructure:"agent_host" json:"agent_host"`
	// Environment tags traces with the deployment environment.
	Environment string `mapstructure:"environment" json:"environment"`
	// ServiceName is the service name shown in APM.
	ServiceName string `mapstructure:"service_name" json:"service_name"`
	// Enabled toggles trace export.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".frontdesk")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL, if set, overrides individual postgres_* settings
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	// Fail-fast: a misconfigured process must not take calls
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("embedder_model", DefaultEmbedderModel)
	viper.SetDefault("confidence_high", DefaultConfidenceHigh)
	viper.SetDefault("confidence_medium", DefaultConfidenceMedium)
	viper.SetDefault("top_k", DefaultTopK)

	viper.SetDefault("prompt_history_turns", DefaultPromptHistoryTurns)
	viper.SetDefault("enrich_history_turns", DefaultEnrichHistoryTurns)

	viper.SetDefault("helpdesk_base_url", "http://localhost:3000")
	viper.SetDefault("poll_interval", DefaultPollInterval)
	viper.SetDefault("max_wait", DefaultMaxWait)

	// PostgreSQL defaults (matching docker-compose.yml)
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "frontdesk")
	viper.SetDefault("postgres_password", "frontdesk_dev_password")
	viper.SetDefault("postgres_db_name", "frontdesk")
	viper.SetDefault("postgres_ssl_mode", "disable")

	viper.SetDefault("datadog.agent_host", "localhost:4318")
	viper.SetDefault("datadog.environment", "dev")
	viper.SetDefault("datadog.service_name", "frontdesk")
	viper.SetDefault("datadog.enabled", false)
}

// bindEnvVariables binds environment variables explicitly.
//
// NOTE: GEMINI_API_KEY is read directly by Genkit, not via Viper. Validation
// checks its presence in cfg.Validate().
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a panic here is a bug, not a
	// runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("helpdesk_base_url", "FRONTDESK_HELPDESK_URL")
	mustBind("embedder_model", "FRONTDESK_EMBEDDER_MODEL")
	mustBind("datadog.agent_host", "DD_AGENT_HOST")
	mustBind("datadog.enabled", "FRONTDESK_TRACING")
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging. Secrets of 8 characters
// or fewer are fully masked so the output never contains a substring of the
// real value.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
// When adding new sensitive fields, update this method.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
