package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Model     ModelConfig
	Data      DataConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ModelConfig holds the artifact paths for the trained model and its
// column schema
type ModelConfig struct {
	Path        string `mapstructure:"path"`
	ColumnsPath string `mapstructure:"columns_path"`
}

// DataConfig holds the read-only data files the service consumes
type DataConfig struct {
	BargainsPath string        `mapstructure:"bargains_path"`
	GeoJSONPath  string        `mapstructure:"geojson_path"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client IP
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/madridpricer/")

	// Environment variable settings
	v.SetEnvPrefix("MADRIDPRICER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8501"})

	// Artifact defaults
	v.SetDefault("model.path", "models/airbnb_pricing_model.json")
	v.SetDefault("model.columns_path", "models/model_columns.json")

	// Data defaults
	v.SetDefault("data.bargains_path", "data/bargains.csv")
	v.SetDefault("data.geojson_path", "data/neighbourhoods.geojson")
	v.SetDefault("data.cache_ttl", "1h") // dataset is batch-refreshed offline

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Model.Path == "" {
		return fmt.Errorf("model path is required (set MADRIDPRICER_MODEL_PATH)")
	}

	if config.Model.ColumnsPath == "" {
		return fmt.Errorf("model columns path is required (set MADRIDPRICER_MODEL_COLUMNS_PATH)")
	}

	if config.Data.CacheTTL < 0 {
		return fmt.Errorf("data cache TTL must not be negative, got: %s", config.Data.CacheTTL)
	}

	return nil
}
