package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("expected max_conns 15, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Engine.ReconcileInterval != time.Minute {
		t.Errorf("expected reconcile interval 1m, got %v", cfg.Engine.ReconcileInterval)
	}
	if cfg.Auth.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("expected access token expiry 15m, got %v", cfg.Auth.AccessTokenExpiry)
	}
	if cfg.Breaker.Timeout != 30*time.Second {
		t.Errorf("expected breaker timeout 30s, got %v", cfg.Breaker.Timeout)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
  cors_origin: "http://example.com"
postgres:
  max_conns: 20
engine:
  reconcile_interval: 30s
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "http://example.com" {
		t.Errorf("expected cors http://example.com, got %s", cfg.Server.CORSOrigin)
	}
	if cfg.Postgres.MaxConns != 20 {
		t.Errorf("expected max_conns 20, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Engine.ReconcileInterval != 30*time.Second {
		t.Errorf("expected reconcile interval 30s, got %v", cfg.Engine.ReconcileInterval)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Unchanged fields keep defaults
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected default NATS URL, got %s", cfg.NATS.URL)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	err := loadYAML(&cfg, "/nonexistent/path.yaml")
	if err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("ASTERITIME_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("ASTERITIME_PG_MAX_CONNS", "25")
	t.Setenv("ASTERITIME_JWT_SECRET", "env-secret")
	t.Setenv("ASTERITIME_LOG_LEVEL", "warn")
	t.Setenv("ASTERITIME_RECONCILE_INTERVAL", "90s")
	t.Setenv("ASTERITIME_BREAKER_TIMEOUT", "1m")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("expected test DSN, got %s", cfg.Postgres.DSN)
	}
	if cfg.Postgres.MaxConns != 25 {
		t.Errorf("expected max_conns 25, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("expected env-secret, got %s", cfg.Auth.JWTSecret)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Engine.ReconcileInterval != 90*time.Second {
		t.Errorf("expected reconcile interval 90s, got %v", cfg.Engine.ReconcileInterval)
	}
	if cfg.Breaker.Timeout != time.Minute {
		t.Errorf("expected breaker timeout 1m, got %v", cfg.Breaker.Timeout)
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "empty port",
			modify: func(c *Config) { c.Server.Port = "" },
			errMsg: "server.port is required",
		},
		{
			name:   "empty DSN",
			modify: func(c *Config) { c.Postgres.DSN = "" },
			errMsg: "postgres.dsn is required",
		},
		{
			name:   "empty NATS URL",
			modify: func(c *Config) { c.NATS.URL = "" },
			errMsg: "nats.url is required",
		},
		{
			name:   "empty JWT secret",
			modify: func(c *Config) { c.Auth.JWTSecret = "" },
			errMsg: "auth.jwt_secret is required",
		},
		{
			name:   "zero max_conns",
			modify: func(c *Config) { c.Postgres.MaxConns = 0 },
			errMsg: "postgres.max_conns must be >= 1",
		},
		{
			name:   "bcrypt cost out of range",
			modify: func(c *Config) { c.Auth.BcryptCost = 40 },
			errMsg: "auth.bcrypt_cost must be between 4 and 31",
		},
		{
			name:   "sub-second reconcile interval",
			modify: func(c *Config) { c.Engine.ReconcileInterval = 100 * time.Millisecond },
			errMsg: "engine.reconcile_interval must be >= 1s",
		},
		{
			name:   "zero breaker failures",
			modify: func(c *Config) { c.Breaker.MaxFailures = 0 },
			errMsg: "breaker.max_failures must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Auth.JWTSecret = "test-secret"
			tt.modify(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.errMsg)
			}
			if err.Error() != tt.errMsg {
				t.Errorf("expected %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestValidateDefaultsWithSecret(t *testing.T) {
	cfg := Defaults()
	cfg.Auth.JWTSecret = "test-secret"
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults with a secret should validate, got %v", err)
	}
}

func TestLoadClientSkipsServerRequirements(t *testing.T) {
	// No YAML file, no JWT secret or DSN in the environment. The client
	// only needs the engine and breaker sections.
	cfg, err := LoadClientFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("client load should not need server settings, got %v", err)
	}
	if cfg.Engine.ReconcileInterval != time.Minute {
		t.Errorf("expected default reconcile interval 1m, got %v", cfg.Engine.ReconcileInterval)
	}
	if cfg.Breaker.MaxFailures != 5 {
		t.Errorf("expected default breaker max_failures 5, got %d", cfg.Breaker.MaxFailures)
	}
}

func TestLoadClientAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "asteritime.yaml")
	content := `
engine:
  reconcile_interval: 2m
breaker:
  max_failures: 3
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ASTERITIME_BREAKER_TIMEOUT", "45s")

	cfg, err := LoadClientFrom(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.ReconcileInterval != 2*time.Minute {
		t.Errorf("expected yaml reconcile interval 2m, got %v", cfg.Engine.ReconcileInterval)
	}
	if cfg.Breaker.MaxFailures != 3 {
		t.Errorf("expected yaml breaker max_failures 3, got %d", cfg.Breaker.MaxFailures)
	}
	if cfg.Breaker.Timeout != 45*time.Second {
		t.Errorf("expected env breaker timeout 45s, got %v", cfg.Breaker.Timeout)
	}
}

func TestLoadClientRejectsBadEngineSettings(t *testing.T) {
	t.Setenv("ASTERITIME_RECONCILE_INTERVAL", "100ms")

	_, err := LoadClientFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected sub-second reconcile interval to be rejected")
	}
}

func TestLoadFromAppliesFullHierarchy(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "asteritime.yaml")
	content := `
server:
  port: "5555"
auth:
  jwt_secret: "yaml-secret"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ASTERITIME_PORT", "6666")

	cfg, err := LoadFrom(yamlPath)
	if err != nil {
		t.Fatal(err)
	}

	// ENV wins over YAML, YAML wins over defaults.
	if cfg.Server.Port != "6666" {
		t.Errorf("expected env port 6666, got %s", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "yaml-secret" {
		t.Errorf("expected yaml-secret, got %s", cfg.Auth.JWTSecret)
	}
	if cfg.Logging.Service != "asteritime-server" {
		t.Errorf("expected default service name, got %s", cfg.Logging.Service)
	}
}
