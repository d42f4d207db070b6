package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGODB_DB_NAME", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GOOGLE_SHEET_EXPORT_ID", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "ranchhand", cfg.MongoDB.DBName)
	assert.Empty(t, cfg.AI.AnthropicKey)
	assert.False(t, cfg.SheetsEnabled())
	assert.NotEmpty(t, cfg.Jobs.ReconcileSchedule)
}

func TestLoadSheetsRequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SHEET_EXPORT_ID", "sheet-123")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEETS_CREDENTIALS_PATH")
}

func TestLoadSheetsEnabled(t *testing.T) {
	t.Setenv("GOOGLE_SHEET_EXPORT_ID", "sheet-123")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.SheetsEnabled())
}
