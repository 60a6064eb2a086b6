package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/config"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/logging"
)

// appVersion is set at build time via -ldflags="-X main.appVersion=x.x.x"
var appVersion = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"url":        "url",
	"date":       "date",
	"exec":       "browser.exec_path",
	"profile":    "browser.profile_path",
	"headless":   "browser.headless",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

func newRootCmd() *cobra.Command {
	loader := config.NewLoader()
	var configFile string

	cmd := &cobra.Command{
		Use:     "tumblr-chat-scroller",
		Short:   "Scroll a Tumblr chat back to a given date",
		Version: appVersion,
		Long: `Opens Tumblr in Chrome/Chromium and adds a "Scroll" button to the page.
Click it, enter a date (MM/DD/YYYY), and the open conversation is scrolled
back until messages older than that date are loaded. Press F1 to stop.

With --date the run starts as soon as a conversation is open.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				loader.SetConfigFile(configFile)
			}
			cfg, err := loader.Load()
			if err != nil {
				return err
			}

			logging.Init(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: os.Stderr,
			})
			if used := loader.ConfigFileUsed(); used != "" {
				logging.Logger.Debug().Str("path", used).Msg("loaded config file")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "Config file (default ~/.config/tumblr-chat-scroller/config.yaml)")
	flags.String("url", "", "Page to open")
	flags.String("date", "", "Target date (MM/DD/YYYY); starts right away instead of waiting for the Scroll button")
	flags.String("exec", "", "Browser executable (auto-detect if empty)")
	flags.String("profile", "", "Path to browser profile")
	flags.Bool("headless", false, "Run the browser without a window")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (console, json)")

	for name, key := range flagKeys {
		cobra.CheckErr(loader.BindFlag(key, flags.Lookup(name)))
	}

	return cmd
}

// run is split out so it can be driven with a prepared context.
func run(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx)
}
