package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the complete service configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
	Minio    MinioConfig    `toml:"minio"`
	Jobs     JobsConfig     `toml:"jobs"`
	Log      LogConfig      `toml:"log"`
}

type DatabaseConfig struct {
	URL string `toml:"url"`
}

type ServerConfig struct {
	Port           int  `toml:"port"`
	MetricsEnabled bool `toml:"metrics_enabled"`
}

// AuthConfig holds JWT settings. When JWKSURL is set tokens are verified against
// the remote key set and Secret is only used for locally issued login tokens.
type AuthConfig struct {
	Secret   string        `toml:"secret"`
	JWKSURL  string        `toml:"jwks_url"`
	TokenTTL time.Duration `toml:"token_ttl"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MinioConfig is optional; an empty Endpoint disables sweep report archiving.
type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

type JobsConfig struct {
	// SweepAt is the daily wall-clock time (HH:MM) of the expiration sweep.
	SweepAt string `toml:"sweep_at"`
	// SyncAt is the daily time of the product reconciliation pass.
	SyncAt  string `toml:"sync_at"`
	Enabled bool   `toml:"enabled"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

var ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required")

// Default returns a configuration populated with development defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, MetricsEnabled: true},
		Auth:   AuthConfig{TokenTTL: 72 * time.Hour},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Minio:  MinioConfig{Bucket: "subscription-reports"},
		Jobs:   JobsConfig{SweepAt: "00:05", SyncAt: "00:30", Enabled: true},
		Log:    LogConfig{Level: "info", Format: "auto"},
	}
}

// Load builds the configuration from defaults, an optional .env file, an optional
// TOML file and finally the process environment.
func Load(path string) (*Config, error) {
	// .env is optional in every environment
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Auth.Secret, "JWT_SECRET")
	setString(&c.Auth.JWKSURL, "JWKS_URL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Minio.Bucket, "MINIO_BUCKET")
	setString(&c.Jobs.SweepAt, "SWEEP_AT")
	setString(&c.Jobs.SyncAt, "SYNC_AT")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid port %s: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %s: %w", v, err)
		}
		c.Redis.DB = db
	}
	if v := os.Getenv("JWT_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_TOKEN_TTL %s: %w", v, err)
		}
		c.Auth.TokenTTL = ttl
	}
	setBool(&c.Minio.UseSSL, "MINIO_USE_SSL")
	setBool(&c.Server.MetricsEnabled, "METRICS_ENABLED")
	setBool(&c.Jobs.Enabled, "JOBS_ENABLED")
	return nil
}

// Validate reports configuration that would keep the service from starting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return ErrMissingDatabaseURL
	}
	if _, _, err := ParseClock(c.Jobs.SweepAt); err != nil {
		return fmt.Errorf("invalid sweep_at: %w", err)
	}
	if _, _, err := ParseClock(c.Jobs.SyncAt); err != nil {
		return fmt.Errorf("invalid sync_at: %w", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	return nil
}

// ParseClock parses an HH:MM wall-clock value.
func ParseClock(value string) (uint, uint, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("%q must be in HH:MM format", value)
	}
	return uint(t.Hour()), uint(t.Minute()), nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
