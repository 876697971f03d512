package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	assert.Equal(t, 4242, cfg.Port)
	assert.Equal(t, 4243, cfg.AdminPort)
	assert.False(t, cfg.BindAll)
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	cfg := DefaultServerConfig()
	require.NoError(t, LoadFile(cfg, filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Equal(t, 4242, cfg.Port)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	cfg := DefaultServerConfig()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\nbind_all: true\n"), 0o644))

	require.NoError(t, LoadFile(cfg, path))
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.BindAll)
}

func TestLoadEnvOverridesFields(t *testing.T) {
	cfg := DefaultServerConfig()
	t.Setenv("RTYPE_PORT", "9999")
	t.Setenv("RTYPE_BIND_ALL", "true")
	t.Setenv("RTYPE_ADMIN_PWHASH", "somehash")

	LoadEnv(cfg)
	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.BindAll)
	assert.Equal(t, "somehash", cfg.AdminPwHash)
}

func TestLoadEnvIgnoresUnsetVars(t *testing.T) {
	cfg := DefaultServerConfig()
	LoadEnv(cfg)
	assert.Equal(t, DefaultServerConfig().Host, cfg.Host)
}
