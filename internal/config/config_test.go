package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "America/Chicago", cfg.Timezone)
	assert.Equal(t, "23:36", cfg.ReportScheduleAt)
	assert.Equal(t, 10, cfg.WorkerConcurrency)
	assert.False(t, cfg.RequireAdminToken)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REQUIRE_ADMIN_TOKEN", "true")
	t.Setenv("ADMIN_TOKEN_TTL_MINUTES", "15")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.RequireAdminToken)
	assert.Equal(t, 15*time.Minute, cfg.AdminTokenTTL())
}

func TestRecipients(t *testing.T) {
	cfg := Config{ReportRecipients: " boss@candy.com, ,office@candy.com "}
	assert.Equal(t, []string{"boss@candy.com", "office@candy.com"}, cfg.Recipients())
}

func TestLocation(t *testing.T) {
	loc, err := Config{Timezone: "America/Chicago"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())

	_, err = Config{Timezone: "Not/AZone"}.Location()
	assert.Error(t, err)
}
