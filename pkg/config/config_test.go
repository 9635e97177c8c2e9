package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATA_DIR", "BOT_TOKEN", "OPENAI_API_KEY", "OPENAI_API_BASE", "OPENAI_MODEL",
		"LUNCH_CHAT_ID", "LUNCH_HOUR", "AVOID_RECENT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 11, cfg.LunchHour)
	assert.Equal(t, 3, cfg.AvoidRecent)
	assert.Equal(t, int64(0), cfg.LunchChatID)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Error(t, cfg.RequireBot())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("BOT_TOKEN", "123456789:secret")
	t.Setenv("LUNCH_CHAT_ID", "-100200300")
	t.Setenv("LUNCH_HOUR", "12")
	t.Setenv("AVOID_RECENT", "0")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.NoError(t, cfg.RequireBot())
	assert.Equal(t, int64(-100200300), cfg.LunchChatID)
	assert.Equal(t, 12, cfg.LunchHour)
	assert.Equal(t, 0, cfg.AvoidRecent)
	assert.Equal(t, "12345678...REDACTED...", cfg.Redacted().BotToken)
}

func TestLoadFromEnvRejectsBadNumbers(t *testing.T) {
	tests := map[string]string{
		"LUNCH_CHAT_ID": "abc",
		"LUNCH_HOUR":    "25",
		"AVOID_RECENT":  "-1",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			chdir(t, t.TempDir())
			t.Setenv(key, value)

			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}
