package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Config holds the bot configuration, loaded from environment variables.
type Config struct {
	// TelegramToken is the bot API token. Required.
	TelegramToken string
	// AllowedUserIDs is the closed allow-list of Telegram user ids. The bot
	// serves exactly one pair, so exactly two ids are required.
	AllowedUserIDs []int64
	// DatabaseURL is the Postgres connection string. When empty the bot
	// runs on the in-memory store and loses state on restart.
	DatabaseURL string
	// LogLevel is a logrus level name. Defaults to "info".
	LogLevel string
	// Port is the HTTP port for the read API and /metrics. Defaults to 8080.
	Port string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Port:          getEnv("PORT", "8080"),
	}

	var result *multierror.Error

	ids, err := parseUserIDs(os.Getenv("ALLOWED_USER_IDS"))
	if err != nil {
		result = multierror.Append(result, err)
	}
	cfg.AllowedUserIDs = ids

	if cfg.TelegramToken == "" {
		result = multierror.Append(result, fmt.Errorf("TELEGRAM_TOKEN is required"))
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseUserIDs parses the comma-separated allow-list. The pairing model
// assumes exactly two members.
func parseUserIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("ALLOWED_USER_IDS is required")
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ALLOWED_USER_IDS contains invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}

	if len(ids) != 2 {
		return nil, fmt.Errorf("ALLOWED_USER_IDS must list exactly two user ids, got %d", len(ids))
	}
	if ids[0] == ids[1] {
		return nil, fmt.Errorf("ALLOWED_USER_IDS must list two distinct user ids")
	}
	return ids, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
