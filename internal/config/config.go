// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types, and validates that
// required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for optional config blocks (observability, rate limits).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process environment
	// before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable carries.
//
// Keys are lowercased after the prefix is removed and nested through "."
// so BIZLIST_SERVER.PORT maps to server.port -> Config.Server.Port.
const EnvPrefix = "BIZLIST_"

// ServiceName tags logs, traces and metrics emitted by this service.
const ServiceName = "bizlist"

// Config is the root configuration object for the application.
//
// Observability and RateLimit are pointers because they are optional.
// If they are not provided, defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Storage       StorageConfig        `koanf:"storage" validate:"required"`
	RateLimit     *RateLimitConfig     `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores the Clerk secret key used to verify session tokens
// and to look up user identities.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig holds credentials for third-party delivery services.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`
	EmailFrom    string `koanf:"email_from"`
}

// StorageDriver selects the Blob Store backend.
type StorageDriver string

const (
	// StorageDriverS3 stores image bytes in an S3-compatible bucket
	// (AWS S3, Supabase storage, MinIO).
	StorageDriverS3 StorageDriver = "s3"

	// StorageDriverLocal stores image bytes on the local filesystem and
	// serves them from the HTTP server under /media.
	StorageDriverLocal StorageDriver = "local"
)

// StorageConfig configures the object store that holds uploaded images.
//
// PublicBaseURL is the prefix public image URLs are built from. For S3 it
// defaults to the virtual-hosted bucket URL; for the local driver it
// defaults to "/media".
type StorageConfig struct {
	Driver          StorageDriver `koanf:"driver" validate:"required,oneof=s3 local"`
	Bucket          string        `koanf:"bucket" validate:"required_if=Driver s3"`
	Region          string        `koanf:"region" validate:"required_if=Driver s3"`
	Endpoint        string        `koanf:"endpoint"`
	AccessKeyID     string        `koanf:"access_key_id"`
	SecretAccessKey string        `koanf:"secret_access_key"`
	UsePathStyle    bool          `koanf:"use_path_style"`
	PublicBaseURL   string        `koanf:"public_base_url"`
	LocalRoot       string        `koanf:"local_root" validate:"required_if=Driver local"`
}

// RateLimitConfig bounds how many image uploads one caller may start per
// window. Counters live in Redis so every instance shares them.
type RateLimitConfig struct {
	UploadsPerWindow int `koanf:"uploads_per_window" validate:"min=1"`
	WindowSeconds    int `koanf:"window_seconds" validate:"min=1"`
}

// DefaultRateLimitConfig is used when no rate_limit block is configured.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		UploadsPerWindow: 30,
		WindowSeconds:    60,
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it, applies defaults, and returns the result.
//
// Behavior summary:
//   - Loads env vars with prefix BIZLIST_
//   - Unmarshals into Config using "." nesting
//   - Validates required config blocks/fields
//   - Sets default rate limit and observability blocks if missing
//   - Forces the observability service name and environment
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.RateLimit == nil {
		mainConfig.RateLimit = DefaultRateLimitConfig()
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always come from this process, never
	// from the observability block itself.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// DSN builds the postgres URL for the configured database.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.User,
		urlQueryEscape(c.Password),
		hostPort(c.Host, c.Port),
		c.Name,
		c.SSLMode,
	)
}
