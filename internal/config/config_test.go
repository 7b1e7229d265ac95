package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1, cfg.Tolerances.DateDays)
	assert.InDelta(t, 0.01, cfg.Tolerances.Amount, 0.0001)
	assert.InDelta(t, 0.01, cfg.Tolerances.FXRelative, 0.0001)
	assert.Equal(t, "gemini-2.0-flash", cfg.Classifier.Model)
	assert.Equal(t, 100, cfg.Classifier.MaxCalls)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divrecon.yaml")
	content := "tolerances:\n  date_days: 3\nclassifier:\n  max_calls: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Tolerances.DateDays)
	assert.Equal(t, 5, cfg.Classifier.MaxCalls)
	// Untouched fields keep their defaults.
	assert.InDelta(t, 0.01, cfg.Tolerances.Amount, 0.0001)
	assert.Equal(t, "gemini-2.0-flash", cfg.Classifier.Model)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divrecon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerances: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divrecon.yaml")
	cfg := Default()
	cfg.Tolerances.DateDays = 2
	cfg.Classifier.MaxCalls = 7

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
