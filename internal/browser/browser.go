// Package browser provides Chrome/Chromedp initialization and configuration.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/logging"
)

// Config holds browser configuration options.
type Config struct {
	ExecPath     string
	ProfilePath  string
	Headless     bool
	WindowWidth  int
	WindowHeight int
	// Timeout bounds the whole browser session. Zero means no limit.
	Timeout time.Duration
}

// DefaultConfig returns default browser configuration.
func DefaultConfig() Config {
	return Config{
		WindowWidth:  1280,
		WindowHeight: 900,
	}
}

// Context holds the browser context and its cancel function.
type Context struct {
	Ctx    context.Context
	cancel context.CancelFunc
}

// New starts a browser under parent. Cancelling parent closes the browser.
func New(parent context.Context, cfg Config) (*Context, error) {
	if cfg.ExecPath == "" {
		return nil, fmt.Errorf("no browser executable configured")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(cfg.ExecPath),
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.ProfilePath != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.ProfilePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logging.Printf(logging.Component("chromedp"))),
	)

	timeoutCancel := context.CancelFunc(func() {})
	if cfg.Timeout > 0 {
		ctx, timeoutCancel = context.WithTimeout(ctx, cfg.Timeout)
	}

	// Start the browser now so a bad executable fails here, not on first use.
	if err := chromedp.Run(ctx); err != nil {
		timeoutCancel()
		ctxCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Context{
		Ctx: ctx,
		cancel: func() {
			timeoutCancel()
			ctxCancel()
			allocCancel()
		},
	}, nil
}

// Close closes the browser.
func (c *Context) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Navigate opens url and waits for the document body.
func Navigate(ctx context.Context, url string) error {
	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// CurrentURL returns the current page URL.
func CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}
