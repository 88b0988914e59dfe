package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the Stark assistant service.
type Config struct {
	TelegramToken string
	BotUsername   string

	AnthropicAPIKey string
	Model           string
	MaxTokens       int

	HistoryWindow int
	DataDir       string
	DatabaseURL   string

	BindAddr         string
	MetricsNamespace string
	AllowAnyOrigin   bool

	PollTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads environment variables and applies safe defaults. Credentials
// have no defaults: an unset token fails loading instead of starting the
// bot against a placeholder.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:    envTrimmed("TELEGRAM_TOKEN"),
		BotUsername:      strings.TrimPrefix(envTrimmed("BOT_USERNAME"), "@"),
		AnthropicAPIKey:  envTrimmed("ANTHROPIC_API_KEY"),
		Model:            envOrDefault("STARK_MODEL", "claude-sonnet-4-5-20250929"),
		MaxTokens:        2048,
		HistoryWindow:    50,
		DataDir:          envOrDefault("STARK_DATA_DIR", "data"),
		DatabaseURL:      envTrimmed("DATABASE_URL"),
		BindAddr:         envOrDefault("STARK_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("STARK_METRICS_NAMESPACE", "stark"),
		AllowAnyOrigin:   false,
		PollTimeout:      50 * time.Second,
		ShutdownTimeout:  15 * time.Second,
	}

	var err error
	cfg.MaxTokens, err = intFromEnv("STARK_MAX_TOKENS", cfg.MaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryWindow, err = intFromEnv("STARK_HISTORY_WINDOW", cfg.HistoryWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.PollTimeout, err = durationFromEnv("STARK_POLL_TIMEOUT", cfg.PollTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout, err = durationFromEnv("STARK_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("STARK_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_TOKEN must be set")
	}
	if cfg.AnthropicAPIKey == "" {
		return Config{}, fmt.Errorf("ANTHROPIC_API_KEY must be set")
	}
	if cfg.BotUsername == "" {
		return Config{}, fmt.Errorf("BOT_USERNAME must be set")
	}
	if cfg.MaxTokens <= 0 {
		return Config{}, fmt.Errorf("STARK_MAX_TOKENS must be positive")
	}
	if cfg.HistoryWindow <= 0 {
		return Config{}, fmt.Errorf("STARK_HISTORY_WINDOW must be positive")
	}
	if cfg.PollTimeout < time.Second {
		return Config{}, fmt.Errorf("STARK_POLL_TIMEOUT must be at least 1s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
