// Package config loads the storefront settings from the environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Session store kinds.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds every setting the storefront reads at startup.
type Config struct {
	AppPort         string        `mapstructure:"APP_PORT" validate:"required"`
	BackendBaseURL  string        `mapstructure:"BACKEND_BASE_URL" validate:"required,url"`
	BackendTimeout  time.Duration `mapstructure:"BACKEND_TIMEOUT" validate:"gt=0"`
	SessionStore    string        `mapstructure:"SESSION_STORE" validate:"oneof=memory redis postgres sqlite"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL" validate:"gt=0"`
	SessionCookie   string        `mapstructure:"SESSION_COOKIE" validate:"required"`
	RedisURL        string        `mapstructure:"REDIS_URL" validate:"required_if=SessionStore redis"`
	DatabaseDSN     string        `mapstructure:"DATABASE_DSN" validate:"required_if=SessionStore postgres,required_if=SessionStore sqlite"`
	RabbitMQURL     string        `mapstructure:"RABBITMQ_URL"`
	TracingExporter string        `mapstructure:"TRACING_EXPORTER" validate:"oneof=none stdout otlp"`
	OTLPEndpoint    string        `mapstructure:"OTLP_ENDPOINT"`
	StaticDir       string        `mapstructure:"STATIC_DIR"`
}

// New returns a viper instance with the defaults set and the environment bound.
// Every key needs a default, even an empty one, or Unmarshal will not see it.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("BACKEND_BASE_URL", "http://188.227.35.6:8080/api")
	v.SetDefault("BACKEND_TIMEOUT", "10s")
	v.SetDefault("SESSION_STORE", StoreMemory)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE", "storefront_session")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("TRACING_EXPORTER", "none")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("STATIC_DIR", "")
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. CONFIG_FILE, when set, names a yaml, json or
// toml file whose values sit below the environment.
func Load() (*Config, error) {
	return LoadFrom(New())
}

// LoadFrom decodes and validates the settings held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.SessionStore = strings.ToLower(cfg.SessionStore)
	cfg.TracingExporter = strings.ToLower(cfg.TracingExporter)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
