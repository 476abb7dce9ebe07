package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "asteritime.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// LoadClient returns a Config for the CLI using the same hierarchy. Only
// the client-side sections are validated; the server-only requirements
// (postgres DSN, JWT secret) do not apply to a client process.
func LoadClient() (*Config, error) {
	return LoadClientFrom(DefaultConfigFile)
}

// LoadClientFrom is LoadClient reading the given YAML path.
func LoadClientFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validateClient(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "ASTERITIME_PORT")
	setString(&cfg.Server.CORSOrigin, "ASTERITIME_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "ASTERITIME_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "ASTERITIME_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "ASTERITIME_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "ASTERITIME_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "ASTERITIME_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.Auth.JWTSecret, "ASTERITIME_JWT_SECRET")
	setDuration(&cfg.Auth.AccessTokenExpiry, "ASTERITIME_ACCESS_TOKEN_EXPIRY")
	setDuration(&cfg.Auth.RefreshTokenExpiry, "ASTERITIME_REFRESH_TOKEN_EXPIRY")
	setInt(&cfg.Auth.BcryptCost, "ASTERITIME_BCRYPT_COST")
	setString(&cfg.Logging.Level, "ASTERITIME_LOG_LEVEL")
	setString(&cfg.Logging.Service, "ASTERITIME_LOG_SERVICE")
	setInt64(&cfg.Cache.MaxSizeMB, "ASTERITIME_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.DefaultTTL, "ASTERITIME_CACHE_TTL")
	setDuration(&cfg.Engine.ReconcileInterval, "ASTERITIME_RECONCILE_INTERVAL")
	setInt(&cfg.Breaker.MaxFailures, "ASTERITIME_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "ASTERITIME_BREAKER_TIMEOUT")
	setString(&cfg.Otel.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return errors.New("auth.bcrypt_cost must be between 4 and 31")
	}
	return validateClient(cfg)
}

// validateClient checks the sections the CLI consumes.
func validateClient(cfg *Config) error {
	if cfg.Engine.ReconcileInterval < time.Second {
		return errors.New("engine.reconcile_interval must be >= 1s")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
