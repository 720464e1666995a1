package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := loadConfig(flags{})
	require.NoError(t, err)

	assert.Equal(t, "info", conf.Log.Level)
	assert.False(t, conf.Profile)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modelview.toml")

	content := "profile = false\n[log]\nlevel = \"warn\"\n[window]\nwidth = 640\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	conf, err := loadConfig(flags{ConfigPath: path, LogLevel: "debug", Profile: true})
	require.NoError(t, err)

	assert.Equal(t, "debug", conf.Log.Level)
	assert.True(t, conf.Profile)
	assert.Equal(t, 640, conf.Window.Width)
}

func TestLoadConfigInvalidLevel(t *testing.T) {
	_, err := loadConfig(flags{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(flags{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
