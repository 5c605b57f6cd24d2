package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultNYTBaseURL is the root of every upstream endpoint. It rarely changes,
// so it is not read from the environment.
const DefaultNYTBaseURL = "https://api.nytimes.com/svc"

// DefaultTopSections are the sections aggregated by the top stories endpoint.
var DefaultTopSections = []string{"arts", "food", "movies", "travel", "science"}

// ErrInvalidAPIKey is returned when NYT_API_KEY is empty or a placeholder.
var ErrInvalidAPIKey = errors.New("a real NYT_API_KEY must be provided")

var placeholderKeys = map[string]struct{}{
	"":              {},
	"changeme":      {},
	"your_key_here": {},
}

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// NYT API
	NYTAPIKey   string        `json:"-"`
	NYTBaseURL  string        `json:"nyt_base_url"`
	TopSections []string      `json:"top_sections"`
	Timeout     time.Duration `json:"timeout"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// Load reads configuration from the environment (and a .env file, if any)
// and validates it. An invalid configuration must stop the process.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		NYTAPIKey:   getEnv("NYT_API_KEY", ""),
		NYTBaseURL:  DefaultNYTBaseURL,
		TopSections: getEnvAsList("NYT_TOP_SECTIONS", DefaultTopSections),
		Timeout:     getEnvAsSeconds("NYT_TIMEOUT_SECONDS", 10*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, ok := placeholderKeys[strings.ToLower(strings.TrimSpace(c.NYTAPIKey))]; ok {
		return ErrInvalidAPIKey
	}
	if len(c.TopSections) == 0 {
		return errors.New("at least one top stories section is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsList(name string, defaultVal []string) []string {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return append([]string(nil), defaultVal...)
	}
	var items []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func getEnvAsSeconds(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	seconds, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Dur("default", defaultVal).Msg("Invalid value, using default")
		return defaultVal
	}
	return time.Duration(seconds * float64(time.Second))
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Dur("default", defaultVal).Msg("Invalid value, using default")
		return defaultVal
	}
	return value
}
