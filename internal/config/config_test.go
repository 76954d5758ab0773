package config

import (
	"strings"
	"testing"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{name: "empty", secret: "", want: ""},
		{name: "short fully masked", secret: "abc", want: maskedValue},
		{name: "exactly eight fully masked", secret: "12345678", want: maskedValue},
		{name: "long shows edges", secret: "my_long_secret_key", want: "my<" + maskedValue + ">ey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskSecret(tt.secret); got != tt.want {
				t.Errorf("maskSecret(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}
}

func TestConfig_String_MasksPassword(t *testing.T) {
	cfg := Config{PostgresPassword: "super_secret_password"}

	s := cfg.String()
	if strings.Contains(s, "super_secret_password") {
		t.Errorf("String() leaked password: %s", s)
	}
	if !strings.Contains(s, maskedValue) {
		t.Errorf("String() should contain mask placeholder, got: %s", s)
	}
}

func TestPostgresConnectionString(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db.internal",
		PostgresPort:     5433,
		PostgresUser:     "frontdesk",
		PostgresPassword: "p'ass word",
		PostgresDBName:   "frontdesk",
		PostgresSSLMode:  "require",
	}

	dsn := cfg.PostgresConnectionString()
	if !strings.Contains(dsn, "host=db.internal") {
		t.Errorf("missing host in DSN: %s", dsn)
	}
	if !strings.Contains(dsn, `password='p\'ass word'`) {
		t.Errorf("password not quoted in DSN: %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=require") {
		t.Errorf("missing sslmode in DSN: %s", dsn)
	}
}

func TestParseDatabaseURL(t *testing.T) {
	cfg := &Config{
		PostgresHost: "localhost",
		PostgresPort: 5432,
	}

	t.Setenv("DATABASE_URL", "postgres://svc:pw@db.prod:6432/callcenter?sslmode=require")

	if err := cfg.parseDatabaseURL(); err != nil {
		t.Fatalf("parseDatabaseURL() = %v", err)
	}

	if cfg.PostgresHost != "db.prod" {
		t.Errorf("host = %q, want db.prod", cfg.PostgresHost)
	}
	if cfg.PostgresPort != 6432 {
		t.Errorf("port = %d, want 6432", cfg.PostgresPort)
	}
	if cfg.PostgresUser != "svc" || cfg.PostgresPassword != "pw" {
		t.Errorf("credentials = %q/%q, want svc/pw", cfg.PostgresUser, cfg.PostgresPassword)
	}
	if cfg.PostgresDBName != "callcenter" {
		t.Errorf("db name = %q, want callcenter", cfg.PostgresDBName)
	}
	if cfg.PostgresSSLMode != "require" {
		t.Errorf("sslmode = %q, want require", cfg.PostgresSSLMode)
	}
}

func TestParseDatabaseURL_BadScheme(t *testing.T) {
	cfg := &Config{}
	t.Setenv("DATABASE_URL", "mysql://user:pw@host/db")

	if err := cfg.parseDatabaseURL(); err == nil {
		t.Error("expected error for non-postgres scheme")
	}
}
