// Package config handles tumblr-chat-scroller configuration loading and
// validation.
package config

import (
	"fmt"
	"time"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/browser"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/datefilter"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/navigation"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/scroller"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/trigger"
)

// Config is the root configuration structure.
type Config struct {
	// URL is the page opened at startup.
	URL string `yaml:"url" mapstructure:"url"`

	// Date, when set, starts a run immediately instead of waiting for the
	// in-page button.
	Date string `yaml:"date" mapstructure:"date"`

	Browser   BrowserConfig   `yaml:"browser" mapstructure:"browser"`
	Scroll    ScrollConfig    `yaml:"scroll" mapstructure:"scroll"`
	Ready     ReadyConfig     `yaml:"ready" mapstructure:"ready"`
	Selectors SelectorsConfig `yaml:"selectors" mapstructure:"selectors"`
	Trigger   TriggerConfig   `yaml:"trigger" mapstructure:"trigger"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// BrowserConfig contains browser launch settings.
type BrowserConfig struct {
	// ExecPath is the browser executable (auto-detected when empty).
	ExecPath     string        `yaml:"exec_path" mapstructure:"exec_path"`
	ProfilePath  string        `yaml:"profile_path" mapstructure:"profile_path"`
	Headless     bool          `yaml:"headless" mapstructure:"headless"`
	WindowWidth  int           `yaml:"window_width" mapstructure:"window_width"`
	WindowHeight int           `yaml:"window_height" mapstructure:"window_height"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ScrollConfig contains scroll loop timings.
type ScrollConfig struct {
	Interval       time.Duration `yaml:"interval" mapstructure:"interval"`
	SettleInterval time.Duration `yaml:"settle_interval" mapstructure:"settle_interval"`
	StallPause     time.Duration `yaml:"stall_pause" mapstructure:"stall_pause"`
	HistorySize    int           `yaml:"history_size" mapstructure:"history_size"`
	FinishOffset   float64       `yaml:"finish_offset" mapstructure:"finish_offset"`
}

// ReadyConfig controls the wait for the message list to appear.
type ReadyConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// Timeout of zero waits forever.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SelectorsConfig holds the page queries.
type SelectorsConfig struct {
	Container   string `yaml:"container" mapstructure:"container"`
	LoadingIdle string `yaml:"loading_idle" mapstructure:"loading_idle"`
	Timestamp   string `yaml:"timestamp" mapstructure:"timestamp"`
	// Anchor is a CSS selector the Scroll button is inserted before.
	Anchor string `yaml:"anchor" mapstructure:"anchor"`
}

// TriggerConfig contains in-page trigger settings.
type TriggerConfig struct {
	CancelKey string `yaml:"cancel_key" mapstructure:"cancel_key"`
	Binding   string `yaml:"binding" mapstructure:"binding"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`
}

const (
	defaultURL = "https://www.tumblr.com/dashboard"

	conversationXPath = "/html[starts-with(@class, 'dashboard')]" +
		"/body[starts-with(@id, 'activity_actions_index')]" +
		"/div[starts-with(@class, 'messaging-conversation-popovers')]" +
		"/div[starts-with(@class, 'messaging-conversations-container')]" +
		"/div[starts-with(@class, 'popover')]" +
		"/div[@class='messaging-conversation-wrapper']" +
		"/div[starts-with(@class, 'messaging-conversation')]" +
		"/div[@class='conversation-main']"
	messageBoxXPath = conversationXPath +
		"/div[@class='tx-scroll']/div[starts-with(@class, 'conversation-messages')]"
	loadingIdleXPath = conversationXPath +
		"/div[@style='display: none;' and @class='knight-rider-container']"
	timestampXPath = messageBoxXPath +
		"/div[@class='message-list']/div[@class='conversation-message']" +
		"/div[@class='conversation-message-timestamp']/div[@class='inline-activity timestamp']"
	anchorSelector = "[class^='l-header-container'] [class^='l-header'] " +
		"[id^='tabs_outer_container'] [id^='user_tools'] [id^='home_button']"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	b := browser.DefaultConfig()
	s := scroller.DefaultConfig()
	t := trigger.DefaultConfig()

	return &Config{
		URL: defaultURL,
		Browser: BrowserConfig{
			ProfilePath:  browser.DefaultProfilePath(),
			WindowWidth:  b.WindowWidth,
			WindowHeight: b.WindowHeight,
		},
		Scroll: ScrollConfig{
			Interval:       s.ScrollInterval,
			SettleInterval: s.SettleInterval,
			StallPause:     s.StallPause,
			HistorySize:    s.HistorySize,
			FinishOffset:   s.FinishOffset,
		},
		Ready: ReadyConfig{
			Interval: time.Second,
			Timeout:  5 * time.Minute,
		},
		Selectors: SelectorsConfig{
			Container:   messageBoxXPath,
			LoadingIdle: loadingIdleXPath,
			Timestamp:   timestampXPath,
			Anchor:      anchorSelector,
		},
		Trigger: TriggerConfig{
			CancelKey: t.CancelKey,
			Binding:   t.Binding,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Date != "" {
		if _, err := datefilter.ParseDate(c.Date); err != nil {
			return fmt.Errorf("date: %w", err)
		}
	}
	if c.Browser.WindowWidth < 1 || c.Browser.WindowHeight < 1 {
		return fmt.Errorf("browser.window_width and browser.window_height must be positive")
	}
	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser.timeout must not be negative")
	}
	if c.Scroll.Interval <= 0 {
		return fmt.Errorf("scroll.interval must be positive")
	}
	if c.Scroll.SettleInterval <= 0 {
		return fmt.Errorf("scroll.settle_interval must be positive")
	}
	if c.Scroll.StallPause <= 0 {
		return fmt.Errorf("scroll.stall_pause must be positive")
	}
	if c.Scroll.HistorySize < 2 {
		return fmt.Errorf("scroll.history_size must be at least 2")
	}
	if c.Scroll.FinishOffset <= 0 {
		return fmt.Errorf("scroll.finish_offset must be positive")
	}
	if c.Ready.Interval <= 0 {
		return fmt.Errorf("ready.interval must be positive")
	}
	if c.Ready.Timeout < 0 {
		return fmt.Errorf("ready.timeout must not be negative")
	}
	if c.Selectors.Container == "" || c.Selectors.LoadingIdle == "" || c.Selectors.Timestamp == "" {
		return fmt.Errorf("selectors.container, selectors.loading_idle and selectors.timestamp are required")
	}
	if c.Trigger.CancelKey == "" {
		return fmt.Errorf("trigger.cancel_key is required")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// BrowserOptions converts to browser.Config.
func (c *Config) BrowserOptions() browser.Config {
	return browser.Config{
		ExecPath:     c.Browser.ExecPath,
		ProfilePath:  c.Browser.ProfilePath,
		Headless:     c.Browser.Headless,
		WindowWidth:  c.Browser.WindowWidth,
		WindowHeight: c.Browser.WindowHeight,
		Timeout:      c.Browser.Timeout,
	}
}

// ScrollerOptions converts to scroller.Config.
func (c *Config) ScrollerOptions() scroller.Config {
	return scroller.Config{
		ScrollInterval: c.Scroll.Interval,
		SettleInterval: c.Scroll.SettleInterval,
		StallPause:     c.Scroll.StallPause,
		HistorySize:    c.Scroll.HistorySize,
		FinishOffset:   c.Scroll.FinishOffset,
	}
}

// PageSelectors converts to navigation.Selectors.
func (c *Config) PageSelectors() navigation.Selectors {
	return navigation.Selectors{
		Container:   c.Selectors.Container,
		LoadingIdle: c.Selectors.LoadingIdle,
		Timestamp:   c.Selectors.Timestamp,
	}
}

// TriggerOptions converts to trigger.Config.
func (c *Config) TriggerOptions() trigger.Config {
	return trigger.Config{
		Binding:   c.Trigger.Binding,
		CancelKey: c.Trigger.CancelKey,
		Anchor:    c.Selectors.Anchor,
	}
}
