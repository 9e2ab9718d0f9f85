package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort         string        `validate:"required,numeric"`
	ServerHost         string
	ShutdownTimeout    time.Duration `validate:"min=0"`
	CORSAllowedOrigins []string      `validate:"min=1"`

	// Database configuration
	DBDriver   string `validate:"required,oneof=postgres sqlite"`
	DBHost     string `validate:"required_if=DBDriver postgres"`
	DBPort     string `validate:"required_if=DBDriver postgres"`
	DBUser     string `validate:"required_if=DBDriver postgres"`
	DBPassword string
	DBName     string `validate:"required_if=DBDriver postgres"`
	DBSSLMode  string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	DBPath     string `validate:"required_if=DBDriver sqlite"`

	// Redis configuration; Redis is optional and disables caching and rate
	// limiting when neither RedisURL nor RedisHost is set.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int `validate:"min=0"`
	RedisURL      string

	// Language model configuration
	LLMAPIKey      string
	LLMBaseURL     string        `validate:"omitempty,url"`
	LLMModel       string        `validate:"required"`
	LLMTimeout     time.Duration `validate:"min=0"`
	LLMMaxRetries  int           `validate:"min=0"`
	LLMTemperature float64       `validate:"min=0,max=2"`

	// Logging
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`

	// Recipe creations allowed per client per hour; zero disables the limit.
	RateLimitRecipesPerHour int `validate:"min=0"`

	// Ingredient catalog seed source: empty for the embedded catalog, a file
	// path, or an s3://bucket/key URL.
	CatalogSource string
	AWSRegion     string
}

// RedisEnabled reports whether a Redis endpoint was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// DSN returns the gorm data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBPath
	}
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode,
	)
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// A local .env file is a convenience for development; real deployments
	// provide environment variables and Docker secrets.
	if env == Development || env == Test {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Environment:             env,
		ServerPort:              v.GetString("server_port"),
		ServerHost:              v.GetString("server_host"),
		ShutdownTimeout:         v.GetDuration("shutdown_timeout"),
		CORSAllowedOrigins:      splitList(v.GetString("cors_allowed_origins")),
		DBDriver:                strings.ToLower(v.GetString("db_driver")),
		DBHost:                  v.GetString("db_host"),
		DBPort:                  v.GetString("db_port"),
		DBUser:                  v.GetString("db_user"),
		DBPassword:              v.GetString("db_password"),
		DBName:                  v.GetString("db_name"),
		DBSSLMode:               v.GetString("db_ssl_mode"),
		DBPath:                  v.GetString("db_path"),
		RedisHost:               v.GetString("redis_host"),
		RedisPort:               v.GetString("redis_port"),
		RedisPassword:           v.GetString("redis_password"),
		RedisDB:                 v.GetInt("redis_db"),
		RedisURL:                v.GetString("redis_url"),
		LLMAPIKey:               v.GetString("llm_api_key"),
		LLMBaseURL:              v.GetString("llm_base_url"),
		LLMModel:                v.GetString("llm_model"),
		LLMTimeout:              v.GetDuration("llm_timeout"),
		LLMMaxRetries:           v.GetInt("llm_max_retries"),
		LLMTemperature:          v.GetFloat64("llm_temperature"),
		LogLevel:                strings.ToLower(v.GetString("log_level")),
		LogFormat:               strings.ToLower(v.GetString("log_format")),
		RateLimitRecipesPerHour: v.GetInt("rate_limit_recipes_per_hour"),
		CatalogSource:           v.GetString("catalog_source"),
		AWSRegion:               v.GetString("aws_region"),
	}

	applySecrets(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("shutdown_timeout", "5s")
	v.SetDefault("cors_allowed_origins", "http://localhost:5173,http://frontend:5173")

	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "recipes")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("db_path", "recipes.db")

	v.SetDefault("redis_db", 0)

	v.SetDefault("llm_base_url", "https://api.deepseek.com/v1")
	v.SetDefault("llm_model", "deepseek-chat")
	v.SetDefault("llm_timeout", "60s")
	v.SetDefault("llm_max_retries", 0)
	v.SetDefault("llm_temperature", 0.7)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("rate_limit_recipes_per_hour", 20)
}

// applySecrets overlays Docker secrets. Production reads sensitive values only
// from secrets; elsewhere secrets fill in what the environment left empty.
func applySecrets(cfg *Config) {
	overlay := func(target *string, name string) {
		secret := readSecret(name)
		if secret == "" {
			return
		}
		if *target == "" || cfg.Environment == Production {
			*target = secret
		}
	}

	overlay(&cfg.DBPassword, "db_password")
	overlay(&cfg.RedisPassword, "redis_password")
	overlay(&cfg.LLMAPIKey, "llm_api_key")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
