package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hlx"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.BaseURL, cfg.Server.BaseURL)
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tdz.hlx")
	contents := "storage:\n  root: /tmp/custom-todozi\nserver:\n  base_url: http://example.test\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-todozi", cfg.Storage.Root)
	assert.Equal(t, "http://example.test", cfg.Server.BaseURL)
	assert.Equal(t, DefaultConfig().Server.TimeoutSeconds, cfg.Server.TimeoutSeconds)
}

func TestResolveRoot_UsesOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Root = "/tmp/custom-todozi"
	root, err := cfg.ResolveRoot()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-todozi", root)
}

func TestResolveRoot_FallsBackToHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig()
	root, err := cfg.ResolveRoot()
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.todozi", root)
}
