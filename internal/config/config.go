package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	ServerPort string `mapstructure:"server_port" validate:"required,numeric"`
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// Task backend settings
	BackendURL     string        `mapstructure:"backend_url" validate:"required,url"`
	BackendTimeout time.Duration `mapstructure:"backend_timeout" validate:"gte=0"`

	// OpenTelemetry settings
	TelemetryEnabled bool   `mapstructure:"telemetry_enabled"`
	OTLPEndpoint     string `mapstructure:"otel_exporter_otlp_endpoint" validate:"required"`
	ServiceName      string `mapstructure:"otel_service_name" validate:"required"`
	Environment      string `mapstructure:"environment" validate:"required"`
}

// DefaultBackendURL is the task backend used when BACKEND_URL is unset.
const DefaultBackendURL = "http://localhost:4000"

var validate = validator.New()

// Load reads configuration from environment variables with sensible defaults.
// If CONFIG_FILE is set, that file is read first and environment variables
// take precedence over its values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("backend_url", DefaultBackendURL)
	v.SetDefault("backend_timeout", 10*time.Second)
	v.SetDefault("telemetry_enabled", true)
	v.SetDefault("otel_exporter_otlp_endpoint", "localhost:4317")
	v.SetDefault("otel_service_name", "task-frontend")
	v.SetDefault("environment", "development")

	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
