package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, "/api/data", cfg.RoutePath)
	require.True(t, cfg.Seed)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\njwt_secret: s3cret\nseed: false\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.False(t, cfg.Seed)
	require.Equal(t, "data", cfg.DataDir, "unset keys keep their defaults")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_ADDR", ":7777")
	t.Setenv("PORTFOLIO_SEED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":7777", cfg.Addr)
	require.False(t, cfg.Seed)
}

func TestValidateRoutePath(t *testing.T) {
	t.Setenv("PORTFOLIO_ROUTE_PATH", "api/data")
	_, err := Load("")
	require.Error(t, err)
}
