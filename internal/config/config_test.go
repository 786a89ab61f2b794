package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inmzhang/leaky/internal/config"
)

func TestConfigDefaults(t *testing.T) {
	c := config.New()
	assert.Equal(t, 1024, c.Shots())
	assert.Equal(t, 0, c.Workers())
	assert.InDelta(t, 1e-6, c.Tolerance(), 1e-12)
	assert.Equal(t, 8080, c.ServerPort())
	assert.False(t, c.Debug())
}

func TestConfigEnvOverride(t *testing.T) {
	require.NoError(t, os.Setenv("LEAKY_SHOTS", "256"))
	defer os.Unsetenv("LEAKY_SHOTS")

	c := config.New()
	assert.Equal(t, 256, c.Shots())
}

func TestConfigLoadMissingFileIsNotError(t *testing.T) {
	c := config.New()
	assert.NoError(t, c.LoadFile("/does/not/exist.yaml"))
}
