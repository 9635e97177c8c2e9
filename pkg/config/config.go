package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Storage configuration
	DataDir string

	// Telegram Bot configuration
	BotToken string

	// OpenAI configuration
	OpenAIAPIBase string
	OpenAIAPIKey  string
	OpenAIModel   string

	// Application configuration
	LunchChatID int64
	LunchHour   int
	AvoidRecent int
	LogLevel    string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		DataDir:       getEnvWithDefault("DATA_DIR", "./data"),
		BotToken:      os.Getenv("BOT_TOKEN"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIAPIBase: getEnvWithDefault("OPENAI_API_BASE", "https://api.openai.com/v1"),
		OpenAIModel:   getEnvWithDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.LunchChatID, err = getInt64("LUNCH_CHAT_ID", 0); err != nil {
		return nil, err
	}

	hour, err := getInt64("LUNCH_HOUR", 11)
	if err != nil {
		return nil, err
	}
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("LUNCH_HOUR must be between 0 and 23, got %d", hour)
	}
	cfg.LunchHour = int(hour)

	avoid, err := getInt64("AVOID_RECENT", 3)
	if err != nil {
		return nil, err
	}
	if avoid < 0 {
		return nil, fmt.Errorf("AVOID_RECENT must not be negative, got %d", avoid)
	}
	cfg.AvoidRecent = int(avoid)

	// Log configuration with sensitive data redacted
	log.Printf("Configuration loaded: %+v", cfg.Redacted())
	return cfg, nil
}

// RequireBot checks the settings the Telegram bot cannot run without
func (c *Config) RequireBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN environment variable is required")
	}
	return nil
}

// Redacted returns a copy safe for logging
func (c *Config) Redacted() Config {
	logCfg := *c
	logCfg.BotToken = redact(logCfg.BotToken)
	logCfg.OpenAIAPIKey = redact(logCfg.OpenAIAPIKey)
	return logCfg
}

func redact(secret string) string {
	if len(secret) > 8 {
		return secret[:8] + "...REDACTED..."
	}
	return secret
}

// getEnvWithDefault returns the value of the environment variable or the default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
