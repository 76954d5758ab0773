package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
)

// Sentinel errors for configuration validation.
// Check with errors.Is().
var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidThreshold indicates a confidence threshold is out of range
	// or the thresholds are not ordered high > medium.
	ErrInvalidThreshold = errors.New("invalid confidence threshold")

	// ErrInvalidTopK indicates the top-k value is out of range.
	ErrInvalidTopK = errors.New("invalid top_k")

	// ErrInvalidHistoryWindow indicates a history window size is out of range.
	ErrInvalidHistoryWindow = errors.New("invalid history window")

	// ErrInvalidHelpdeskURL indicates the helpdesk base URL is unusable.
	ErrInvalidHelpdeskURL = errors.New("invalid helpdesk base URL")

	// ErrInvalidPollInterval indicates the escalation poll interval is out of range.
	ErrInvalidPollInterval = errors.New("invalid poll interval")

	// ErrInvalidMaxWait indicates the escalation wait ceiling is out of range.
	ErrInvalidMaxWait = errors.New("invalid max wait")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// API key required for embedding generation (read directly by Genkit)
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required", ErrMissingAPIKey)
	}

	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model cannot be empty", ErrInvalidEmbedderModel)
	}

	// Thresholds are cosine-similarity scores
	if c.ConfidenceHigh <= 0 || c.ConfidenceHigh > 1 {
		return fmt.Errorf("%w: confidence_high must be in (0, 1], got %.2f", ErrInvalidThreshold, c.ConfidenceHigh)
	}
	if c.ConfidenceMedium <= 0 || c.ConfidenceMedium > 1 {
		return fmt.Errorf("%w: confidence_medium must be in (0, 1], got %.2f", ErrInvalidThreshold, c.ConfidenceMedium)
	}
	if c.ConfidenceMedium >= c.ConfidenceHigh {
		return fmt.Errorf("%w: confidence_medium (%.2f) must be below confidence_high (%.2f)",
			ErrInvalidThreshold, c.ConfidenceMedium, c.ConfidenceHigh)
	}

	if c.TopK < 1 || c.TopK > 10 {
		return fmt.Errorf("%w: must be between 1 and 10, got %d", ErrInvalidTopK, c.TopK)
	}

	if c.PromptHistoryTurns < 1 || c.PromptHistoryTurns > 100 {
		return fmt.Errorf("%w: prompt_history_turns must be between 1 and 100, got %d",
			ErrInvalidHistoryWindow, c.PromptHistoryTurns)
	}
	if c.EnrichHistoryTurns < 1 || c.EnrichHistoryTurns > c.PromptHistoryTurns {
		return fmt.Errorf("%w: enrich_history_turns must be between 1 and prompt_history_turns, got %d",
			ErrInvalidHistoryWindow, c.EnrichHistoryTurns)
	}

	parsed, err := url.Parse(c.HelpdeskBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidHelpdeskURL, c.HelpdeskBaseURL)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: must be positive, got %s", ErrInvalidPollInterval, c.PollInterval)
	}
	if c.MaxWait < c.PollInterval {
		return fmt.Errorf("%w: max_wait (%s) must be at least one poll interval (%s)",
			ErrInvalidMaxWait, c.MaxWait, c.PollInterval)
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	return nil
}
