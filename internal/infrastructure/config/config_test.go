// SPDX-License-Identifier: AGPL-3.0-or-later
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseDSN(t *testing.T) {
	t.Setenv("CAMPAIGND_DB_DSN", "")
	t.Setenv("DB_PATH", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("CAMPAIGND_DB_DSN", "postgres://localhost/campaignd")
	t.Setenv("CAMPAIGND_SMTP_HOST", "")
	t.Setenv("CAMPAIGND_SMTP_PORT", "")
	t.Setenv("CAMPAIGND_SMTP_STARTTLS", "")
	t.Setenv("CAMPAIGND_LOG_LEVEL", "")
	t.Setenv("CAMPAIGND_CAMPAIGNS_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/campaignd", cfg.Database.DSN)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.StartTLS)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "campaigns.yaml", cfg.Campaigns.File)
}

func TestLoad_OverridesFromEnvironment(t *testing.T) {
	t.Setenv("CAMPAIGND_DB_DSN", "postgres://localhost/campaignd")
	t.Setenv("CAMPAIGND_SMTP_PORT", "465")
	t.Setenv("CAMPAIGND_SMTP_STARTTLS", "false")
	t.Setenv("CAMPAIGND_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.False(t, cfg.SMTP.StartTLS)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_FallsBackToLegacyDBPath(t *testing.T) {
	t.Setenv("CAMPAIGND_DB_DSN", "")
	t.Setenv("DB_PATH", "postgres://localhost/legacy")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/legacy", cfg.Database.DSN)
}
