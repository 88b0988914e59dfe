package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Model != "claude-sonnet-4-5-20250929" {
		t.Fatalf("Model = %q, want default", cfg.Model)
	}
	if cfg.MaxTokens != 2048 {
		t.Fatalf("MaxTokens = %d, want 2048", cfg.MaxTokens)
	}
	if cfg.HistoryWindow != 50 {
		t.Fatalf("HistoryWindow = %d, want 50", cfg.HistoryWindow)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, "data")
	}
	if cfg.PollTimeout != 50*time.Second {
		t.Fatalf("PollTimeout = %v, want 50s", cfg.PollTimeout)
	}
}

func TestLoadStripsUsernamePrefix(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BOT_USERNAME", "@stark_assistant_bot")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BotUsername != "stark_assistant_bot" {
		t.Fatalf("BotUsername = %q, want without @", cfg.BotUsername)
	}
}

func TestLoadFailsClosedOnMissingCredentials(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"missing telegram token", "TELEGRAM_TOKEN"},
		{"missing anthropic key", "ANTHROPIC_API_KEY"},
		{"missing bot username", "BOT_USERNAME"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.key, "")
			if _, err := Load(); err == nil {
				t.Fatalf("Load() succeeded with %s unset, want error", tc.key)
			}
		})
	}
}

func TestLoadRejectsInvalidOverrides(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad max tokens", "STARK_MAX_TOKENS", "lots"},
		{"zero window", "STARK_HISTORY_WINDOW", "0"},
		{"tiny poll timeout", "STARK_POLL_TIMEOUT", "10ms"},
		{"bad bool", "STARK_ALLOW_ANY_ORIGIN", "maybe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() succeeded with %s=%q, want error", tc.key, tc.value)
			}
		})
	}
}

func setBaseEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"STARK_MODEL",
		"STARK_MAX_TOKENS",
		"STARK_HISTORY_WINDOW",
		"STARK_DATA_DIR",
		"STARK_BIND_ADDR",
		"STARK_METRICS_NAMESPACE",
		"STARK_ALLOW_ANY_ORIGIN",
		"STARK_POLL_TIMEOUT",
		"STARK_SHUTDOWN_TIMEOUT",
		"DATABASE_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("ANTHROPIC_API_KEY", "api-key")
	t.Setenv("BOT_USERNAME", "stark_assistant_bot")
}
