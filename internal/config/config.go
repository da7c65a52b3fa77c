// Package config loads the service configuration from MEETAPP_ environment
// variables (and a local .env file when present), validates it and fills in
// defaults for the optional blocks.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/deppfellow/meetapp/internal/gate"
	"github.com/go-playground/validator/v10"
	// Loads .env into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix is stripped from every variable before it is mapped.
// Nesting uses ".": MEETAPP_SERVER.PORT -> server.port.
const EnvPrefix = "MEETAPP_"

const serviceName = "meetapp"

type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
	// NodeID distinguishes replicas in generated ids (0-1023).
	NodeID int64 `koanf:"node_id" validate:"gte=0,lte=1023"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// StatusMode selects the rejection status table: "legacy" (default) or "conventional".
	StatusMode string `koanf:"status_mode" validate:"omitempty,oneof=legacy conventional"`

	// SignupRateLimit is the sustained signups per second allowed per client IP.
	// Zero disables the limiter.
	SignupRateLimit float64 `koanf:"signup_rate_limit" validate:"gte=0"`
	SignupBurst     int     `koanf:"signup_burst" validate:"gte=0"`
}

// GateStatusMode returns the configured status mode, legacy when unset.
func (s ServerConfig) GateStatusMode() gate.StatusMode {
	if s.StatusMode == "" {
		return gate.ModeLegacy
	}
	return gate.StatusMode(s.StatusMode)
}

type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig holds the HMAC secret bearer tokens are signed with.
type AuthConfig struct {
	SecretKey   string        `koanf:"secret_key" validate:"required,min=32"`
	TokenIssuer string        `koanf:"token_issuer"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
}

// IntegrationConfig configures outbound providers. An empty ResendAPIKey
// turns welcome emails into log lines.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from" validate:"omitempty,email"`
}

// LoadConfig reads, validates and defaults the configuration.
// Any failure is fatal: the service cannot start half-configured.
func LoadConfig() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load config")
	}

	return cfg, nil
}

// Load builds a Config from the MEETAPP_ variables of the process environment.
// Lists are comma separated and durations use time.ParseDuration syntax.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}
	cfg.Observability.ServiceName = serviceName
	cfg.Observability.Environment = cfg.Primary.Env

	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	if cfg.Auth.TokenIssuer == "" {
		cfg.Auth.TokenIssuer = serviceName
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Integration.EmailFrom == "" {
		cfg.Integration.EmailFrom = "onboarding@resend.dev"
	}

	return cfg, nil
}
