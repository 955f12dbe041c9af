package config

import (
	"fmt"
	"os"
	"strconv"

	domainconfig "memebrowser/domain/config"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Store configuration
	BaseDir   string // the store lives in <BaseDir>/.memes
	StaticDir string // frontend bundle served at "/" when set

	// Search configuration
	DefaultPageLimit int
	MatchThreshold   float64
	LoadConcurrency  int
	DynamicFile      string // YAML file with hot-reloadable search settings

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics    bool
	EnableCORS       bool
	EnableTracing    bool // X-Ray subsegments per query
	EnableCloudWatch bool // publish query metrics to CloudWatch
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	defaults := domainconfig.DefaultDomainConfig()

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		BaseDir:   getEnv("MEMES_BASE_DIR", workingDir()),
		StaticDir: getEnv("STATIC_DIR", ""),

		DefaultPageLimit: getEnvInt("DEFAULT_PAGE_LIMIT", defaults.DefaultLimit),
		MatchThreshold:   getEnvFloat("MATCH_THRESHOLD", defaults.MatchThreshold),
		LoadConcurrency:  getEnvInt("LOAD_CONCURRENCY", 8),
		DynamicFile:      getEnv("CONFIG_FILE", ""),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		EnableMetrics:    getEnvBool("ENABLE_METRICS", true),
		EnableCORS:       getEnvBool("ENABLE_CORS", true),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),
		EnableCloudWatch: getEnvBool("ENABLE_CLOUDWATCH", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all settings are usable
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("MEMES_BASE_DIR must not be empty")
	}
	if c.DefaultPageLimit < 1 {
		return fmt.Errorf("DEFAULT_PAGE_LIMIT must be >= 1")
	}
	if c.LoadConcurrency < 1 {
		return fmt.Errorf("LOAD_CONCURRENCY must be >= 1")
	}
	if err := validateThreshold(c.MatchThreshold); err != nil {
		return fmt.Errorf("MATCH_THRESHOLD: %w", err)
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func validateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("threshold %v outside [0,1]", threshold)
	}
	return nil
}

func workingDir() string {
	if dir, err := os.Getwd(); err == nil {
		return dir
	}
	return "."
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
