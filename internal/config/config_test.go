package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "123456:TEST-TOKEN")
	t.Setenv("ALLOWED_USER_IDS", "111,222")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PORT", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123456:TEST-TOKEN", cfg.TelegramToken)
	assert.Equal(t, []int64{111, 222}, cfg.AllowedUserIDs)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/couplebot")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/couplebot", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadAllowsSpacesInUserIDs(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_USER_IDS", " 111 , 222 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []int64{111, 222}, cfg.AllowedUserIDs)
}

func TestLoadMissingToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
}

func TestLoadMissingUserIDs(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_USER_IDS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALLOWED_USER_IDS")
}

func TestLoadCollectsAllErrors(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("ALLOWED_USER_IDS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
	assert.Contains(t, err.Error(), "ALLOWED_USER_IDS")
}

func TestLoadRejectsWrongMemberCount(t *testing.T) {
	for _, raw := range []string{"111", "111,222,333"} {
		setBaseEnv(t)
		t.Setenv("ALLOWED_USER_IDS", raw)

		_, err := Load()
		assert.Error(t, err, "ids %q must be rejected", raw)
	}
}

func TestLoadRejectsDuplicateMembers(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_USER_IDS", "111,111")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distinct")
}

func TestLoadRejectsNonNumericIDs(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_USER_IDS", "111,abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc")
}
