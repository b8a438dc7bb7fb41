package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("base", "", "")
	flags.String("renderer", "", "")
	flags.Duration("timeout", 0, "")
	flags.StringSlice("allowed-origins", nil, "")
	flags.String("theme-file", "", "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBase, cfg.Base)
	assert.Equal(t, "leaderboard.json", cfg.Path)
	assert.Equal(t, DefaultRenderer, cfg.Renderer)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaderboard.yaml"), []byte(`
base: https://file.example/docs/
renderer: markdown
title: From File
timeout: 3s
allowed_origins:
  - https://a.example
`), 0o644))

	t.Setenv("LEADERBOARD_RENDERER", "text")
	t.Setenv("LEADERBOARD_TITLE", "From Env")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--renderer", "html", "--timeout", "1s"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "leaderboard.yaml", cfg.ConfigFile)
	assert.Equal(t, "https://file.example/docs/", cfg.Base, "file beats defaults")
	assert.Equal(t, "From Env", cfg.Title, "env beats file")
	assert.Equal(t, "html", cfg.Renderer, "flag beats env")
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowedOrigins)

	src, err := cfg.Source()
	require.NoError(t, err)
	assert.Equal(t, "https://file.example/docs/leaderboard.json", src.Location())
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEADERBOARD_BASE", "/srv/board")

	flags := newFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "/srv/board", cfg.Base)
}

func TestLoad_EnvOriginsSplit(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEADERBOARD_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("missing.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestValidate(t *testing.T) {
	cfg := &Config{Renderer: " ", Timeout: -time.Second}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renderer is required")
	assert.Contains(t, err.Error(), "timeout must not be negative")
}
