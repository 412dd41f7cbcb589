package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
base_url: http://localhost:8080/login
execution:
  strategy_timeout: 500ms
  parallel: 1
  browsers: [chromium, firefox]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/login", cfg.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Execution.StrategyTimeout)
	assert.Equal(t, 30*time.Second, cfg.Execution.ActionTimeout)
	assert.Equal(t, 1, cfg.Execution.Parallel)
	assert.Equal(t, []string{"chromium", "firefox"}, cfg.Execution.Browsers)
	assert.Equal(t, "Admin", cfg.Credentials.Username)
	assert.Equal(t, Default().Elements, cfg.Elements)
}

func TestLoad_ReplacesVocabulary(t *testing.T) {
	path := writeConfig(t, `
elements:
  - name: go button
    role: click
    keywords: [go]
    strategies:
      - {kind: text, pattern: Go}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Elements, 1)

	el, ok := cfg.Match(RoleClick, "press Go now")
	require.True(t, ok)
	assert.Equal(t, "go button", el.Name)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "base_url: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(c *Config)
		want   string
	}{
		"empty base url":    {func(c *Config) { c.BaseURL = " " }, "base_url is required"},
		"unnamed element":   {func(c *Config) { c.Elements[0].Name = "" }, "element without a name"},
		"duplicate":         {func(c *Config) { c.Elements[1].Name = "USERNAME FIELD" }, "declared twice"},
		"no strategies":     {func(c *Config) { c.Elements[0].Strategies = nil }, "has no strategies"},
		"unknown kind":      {func(c *Config) { c.Elements[0].Strategies[0].Kind = "xpath" }, `unknown strategy kind "xpath"`},
		"empty pattern":     {func(c *Config) { c.Elements[0].Strategies[0].Pattern = "" }, "empty"},
		"negative parallel": {func(c *Config) { c.Execution.Parallel = -1 }, "must not be negative"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}

func TestElement_CaseInsensitive(t *testing.T) {
	el, ok := Default().Element("Login Button")
	require.True(t, ok)
	assert.Equal(t, "login button", el.Name)

	_, ok = Default().Element("nope")
	assert.False(t, ok)
}

func TestMatch_WholeWordsInDeclaredOrder(t *testing.T) {
	cfg := Default()

	el, ok := cfg.Match(RoleClick, "Click the Login button")
	require.True(t, ok)
	assert.Equal(t, "login button", el.Name)

	_, ok = cfg.Match(RoleClick, "check the address")
	assert.False(t, ok)

	_, ok = cfg.Match(RoleFill, "Click the Login button")
	assert.False(t, ok)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Default().Save(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STEPWISE_USERNAME=fromfile\nSTEPWISE_PASSWORD=secret\n"), 0o644))
	t.Setenv("STEPWISE_BASE_URL", "http://env.test")
	t.Setenv("STEPWISE_USERNAME", "fromenv")
	t.Cleanup(func() { os.Unsetenv("STEPWISE_PASSWORD") })

	cfg := Default()
	require.NoError(t, LoadEnv(cfg, envFile))

	assert.Equal(t, "http://env.test", cfg.BaseURL)
	assert.Equal(t, "fromenv", cfg.Credentials.Username)
	assert.Equal(t, "secret", cfg.Credentials.Password)
}

func TestLoadEnv_MissingFileIgnored(t *testing.T) {
	cfg := Default()
	require.NoError(t, LoadEnv(cfg, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, Default().BaseURL, cfg.BaseURL)
}
