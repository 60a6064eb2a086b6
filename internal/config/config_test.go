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

// isolate keeps the developer's own config out of the test.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2*time.Second, cfg.Scroll.Interval)
	assert.Equal(t, 100*time.Millisecond, cfg.Scroll.SettleInterval)
	assert.Equal(t, time.Second, cfg.Scroll.StallPause)
	assert.Equal(t, 3, cfg.Scroll.HistorySize)
	assert.Equal(t, float64(50), cfg.Scroll.FinishOffset)
	assert.Equal(t, "F1", cfg.Trigger.CancelKey)
	assert.Contains(t, cfg.Selectors.Container, "conversation-messages")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.URL = "" }},
		{"malformed date", func(c *Config) { c.Date = "2019-03-15" }},
		{"zero interval", func(c *Config) { c.Scroll.Interval = 0 }},
		{"zero settle interval", func(c *Config) { c.Scroll.SettleInterval = 0 }},
		{"zero stall pause", func(c *Config) { c.Scroll.StallPause = 0 }},
		{"history too small", func(c *Config) { c.Scroll.HistorySize = 1 }},
		{"negative offset", func(c *Config) { c.Scroll.FinishOffset = -1 }},
		{"missing container", func(c *Config) { c.Selectors.Container = "" }},
		{"missing cancel key", func(c *Config) { c.Trigger.CancelKey = "" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"zero window", func(c *Config) { c.Browser.WindowWidth = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().URL, cfg.URL)
	assert.Equal(t, 2*time.Second, cfg.Scroll.Interval)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: https://example.test/chat
scroll:
  interval: 3s
  history_size: 4
logging:
  level: debug
`), 0o644))

	t.Setenv("CHATSCROLL_SCROLL_STALL_PAUSE", "250ms")
	t.Setenv("CHATSCROLL_SCROLL_HISTORY_SIZE", "5")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("date", "", "")
	require.NoError(t, flags.Parse([]string{"--date", "01/01/2020"}))

	loader := NewLoader()
	loader.SetConfigFile(path)
	require.NoError(t, loader.BindFlag("date", flags.Lookup("date")))

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, path, loader.ConfigFileUsed())
	assert.Equal(t, "https://example.test/chat", cfg.URL)
	assert.Equal(t, 3*time.Second, cfg.Scroll.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.Scroll.StallPause)
	assert.Equal(t, 5, cfg.Scroll.HistorySize, "env beats file")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "01/01/2020", cfg.Date)
	assert.Equal(t, 100*time.Millisecond, cfg.Scroll.SettleInterval, "untouched keys keep defaults")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	loader := NewLoader()
	loader.SetConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := loader.Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	t.Setenv("CHATSCROLL_DATE", "yesterday")

	_, err := NewLoader().Load()
	assert.Error(t, err)
}

func TestBindFlagNil(t *testing.T) {
	assert.Error(t, NewLoader().BindFlag("date", nil))
}

func TestExpandTilde(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester", expandTilde("~"))
	assert.Equal(t, "/home/tester/profile", expandTilde("~/profile"))
	assert.Equal(t, "/abs/path", expandTilde("/abs/path"))
	assert.Equal(t, "", expandTilde(""))
}

func TestConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Browser.ExecPath = "/usr/bin/chromium"

	assert.Equal(t, "/usr/bin/chromium", cfg.BrowserOptions().ExecPath)
	assert.Equal(t, cfg.Scroll.Interval, cfg.ScrollerOptions().ScrollInterval)
	assert.Equal(t, cfg.Selectors.Timestamp, cfg.PageSelectors().Timestamp)
	assert.Equal(t, cfg.Selectors.Anchor, cfg.TriggerOptions().Anchor)
}
