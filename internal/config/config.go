package config

import (
	"fmt"
	"os"
	"time"

	"github.com/abdulachik/twitbot/internal/twitter"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Twitter API credentials
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       string

	// Database
	DatabasePath string

	// HTTP
	HTTPTimeout time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables. Explicitly
// named env files are loaded first and must exist; without arguments a
// .env in the working directory is loaded if present.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		APIKey:            getEnv("TWITTER_API_KEY", ""),
		APISecret:         getEnv("TWITTER_API_SECRET", ""),
		AccessToken:       getEnv("TWITTER_ACCESS_TOKEN", ""),
		AccessTokenSecret: getEnv("TWITTER_ACCESS_TOKEN_SECRET", ""),
		BearerToken:       getEnv("TWITTER_BEARER_TOKEN", ""),
		DatabasePath:      getEnv("DATABASE_PATH", "data/twitbot.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// Credentials returns the API credential set.
func (c *Config) Credentials() twitter.Credentials {
	return twitter.Credentials{
		APIKey:            c.APIKey,
		APISecret:         c.APISecret,
		AccessToken:       c.AccessToken,
		AccessTokenSecret: c.AccessTokenSecret,
		BearerToken:       c.BearerToken,
	}
}

// ValidateForPosting checks that every credential is present.
func (c *Config) ValidateForPosting() error {
	if c.APIKey == "" {
		return fmt.Errorf("TWITTER_API_KEY is required")
	}
	if c.APISecret == "" {
		return fmt.Errorf("TWITTER_API_SECRET is required")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("TWITTER_ACCESS_TOKEN is required")
	}
	if c.AccessTokenSecret == "" {
		return fmt.Errorf("TWITTER_ACCESS_TOKEN_SECRET is required")
	}
	if c.BearerToken == "" {
		return fmt.Errorf("TWITTER_BEARER_TOKEN is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
