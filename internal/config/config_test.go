package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresToken(t *testing.T) {
	os.Unsetenv("NOTION_TOKEN")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 100, cfg.NotionBatchSize)
	assert.InDelta(t, 0.97, cfg.ValidationCoverageThreshold, 0.0001)
	assert.Equal(t, "lcs", cfg.ValidationMethod)
}

func TestLoad_InvalidValidationMethod(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_abc")
	t.Setenv("VALIDATION_METHOD", "bogus")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_abc")
	t.Setenv("PORT", "9090")
	t.Setenv("NOTION_BATCH_SIZE", "50")
	t.Setenv("VERBOSE_LOGGING", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 50, cfg.NotionBatchSize)
	assert.True(t, cfg.VerboseLogging)
}
