package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. CHATSCROLL_SCROLL_INTERVAL.
const EnvPrefix = "CHATSCROLL"

// appName names the config directory.
const appName = "tumblr-chat-scroller"

// keys lists every configurable key.
var keys = []string{
	"url",
	"date",
	"browser.exec_path",
	"browser.profile_path",
	"browser.headless",
	"browser.window_width",
	"browser.window_height",
	"browser.timeout",
	"scroll.interval",
	"scroll.settle_interval",
	"scroll.stall_pause",
	"scroll.history_size",
	"scroll.finish_offset",
	"ready.interval",
	"ready.timeout",
	"selectors.container",
	"selectors.loading_idle",
	"selectors.timestamp",
	"selectors.anchor",
	"trigger.cancel_key",
	"trigger.binding",
	"logging.level",
	"logging.format",
}

// Loader handles configuration loading with Viper.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// BindFlag makes a command-line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for config key %s", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load loads configuration with precedence:
// defaults < config file < env vars < CLI flags
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.setup(cfg)

	if err := l.loadConfigFile(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Browser.ExecPath = expandTilde(cfg.Browser.ExecPath)
	cfg.Browser.ProfilePath = expandTilde(cfg.Browser.ProfilePath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ConfigFileUsed returns the config file that was loaded, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) setup(cfg *Config) {
	v := l.v

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, appName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", appName))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("url", cfg.URL)
	v.SetDefault("date", cfg.Date)
	v.SetDefault("browser.exec_path", cfg.Browser.ExecPath)
	v.SetDefault("browser.profile_path", cfg.Browser.ProfilePath)
	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.window_width", cfg.Browser.WindowWidth)
	v.SetDefault("browser.window_height", cfg.Browser.WindowHeight)
	v.SetDefault("browser.timeout", cfg.Browser.Timeout)
	v.SetDefault("scroll.interval", cfg.Scroll.Interval)
	v.SetDefault("scroll.settle_interval", cfg.Scroll.SettleInterval)
	v.SetDefault("scroll.stall_pause", cfg.Scroll.StallPause)
	v.SetDefault("scroll.history_size", cfg.Scroll.HistorySize)
	v.SetDefault("scroll.finish_offset", cfg.Scroll.FinishOffset)
	v.SetDefault("ready.interval", cfg.Ready.Interval)
	v.SetDefault("ready.timeout", cfg.Ready.Timeout)
	v.SetDefault("selectors.container", cfg.Selectors.Container)
	v.SetDefault("selectors.loading_idle", cfg.Selectors.LoadingIdle)
	v.SetDefault("selectors.timestamp", cfg.Selectors.Timestamp)
	v.SetDefault("selectors.anchor", cfg.Selectors.Anchor)
	v.SetDefault("trigger.cancel_key", cfg.Trigger.CancelKey)
	v.SetDefault("trigger.binding", cfg.Trigger.Binding)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	// Unmarshal only sees env vars for nested keys that were bound explicitly.
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()
}

// loadConfigFile reads the config file. A missing file is only an error when
// it was set explicitly.
func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(expandTilde(l.configFile))
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && l.configFile == "" {
			return nil
		}
		return err
	}
	return nil
}

// expandTilde expands a leading ~ to the user's home directory.
func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
