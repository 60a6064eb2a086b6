package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/browser"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/config"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/host"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/logging"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/navigation"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/report"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/scroller"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/session"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/trigger"
)

// events is what the app needs from the in-page trigger.
type events interface {
	Events() <-chan trigger.Event
}

// app wires the browser, the page adapter and the scroller together and
// reacts to trigger events.
type app struct {
	cfg      *config.Config
	host     host.Host
	scroller *scroller.Scroller
	session  *session.Session
	events   events
	logger   zerolog.Logger

	browser *browser.Context
	pageCtx context.Context
	wg      sync.WaitGroup
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := logging.Component("app")

	bcfg := cfg.BrowserOptions()
	if bcfg.ExecPath == "" {
		bcfg.ExecPath = browser.DetectBrowser()
		if bcfg.ExecPath == "" {
			return nil, errors.New("could not find Chrome/Chromium, install one or pass --exec")
		}
		logger.Info().Str("path", bcfg.ExecPath).Msg("✓ Auto-detected browser")
	}

	logger.Info().
		Str("url", cfg.URL).
		Str("profile", bcfg.ProfilePath).
		Bool("headless", bcfg.Headless).
		Msg("=== Tumblr Chat Scroller ===")

	b, err := browser.New(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	if err := browser.Navigate(b.Ctx, cfg.URL); err != nil {
		b.Close()
		return nil, err
	}
	if current, err := browser.CurrentURL(b.Ctx); err == nil {
		logger.Info().Str("url", current).Msg("page loaded")
	}

	trig, err := trigger.Install(b.Ctx, cfg.TriggerOptions())
	if err != nil {
		b.Close()
		return nil, err
	}

	page := navigation.NewPage(cfg.PageSelectors())
	notifier := report.Multi{report.NewConsoleNotifier(), navigation.AlertNotifier{}}

	return &app{
		cfg:      cfg,
		host:     page,
		scroller: scroller.New(page, notifier, cfg.ScrollerOptions()),
		session:  session.New(),
		events:   trig,
		logger:   logger,
		browser:  b,
		pageCtx:  b.Ctx,
	}, nil
}

// Close closes the browser.
func (a *app) Close() {
	if a.browser != nil {
		a.browser.Close()
	}
}

// Serve handles trigger events until the browser or ctx is done. When a
// target date is configured, a run starts right away and Serve returns once
// it finishes.
func (a *app) Serve(ctx context.Context) error {
	pageCtx := a.pageCtx
	if pageCtx == nil {
		pageCtx = ctx
	}

	var finished <-chan error
	if a.cfg.Date != "" {
		if err := navigation.WaitForContainer(pageCtx, a.host, a.cfg.Ready.Interval, a.cfg.Ready.Timeout); err != nil {
			return err
		}
		done, err := a.start(pageCtx, a.cfg.Date)
		if err != nil {
			return err
		}
		finished = done
	} else {
		a.logger.Info().
			Str("cancel_key", a.cfg.Trigger.CancelKey).
			Msg("Open a conversation and click \"Scroll\" to begin. Press Ctrl+C to exit.")
	}

	for {
		select {
		case <-ctx.Done():
			a.wg.Wait()
			return nil
		case <-pageCtx.Done():
			a.wg.Wait()
			a.logger.Info().Msg("browser closed")
			return nil
		case err := <-finished:
			a.wg.Wait()
			return err
		case ev := <-a.events.Events():
			a.handle(pageCtx, ev)
		}
	}
}

func (a *app) handle(ctx context.Context, ev trigger.Event) {
	switch ev.Type {
	case trigger.EventCancel:
		if a.session.Cancel() {
			a.logger.Info().Msg("cancel requested, stopping at the next checkpoint")
		} else {
			a.logger.Debug().Msg("cancel key pressed with no active run")
		}
	case trigger.EventStart:
		if _, err := a.start(ctx, ev.Date); err != nil {
			a.logger.Warn().Err(err).Msg("ignoring Scroll click")
		}
	}
}

// start begins a run in the background. The returned channel receives the
// run's error once it ends.
func (a *app) start(ctx context.Context, date string) (<-chan error, error) {
	runCtx, run, err := a.session.Begin(ctx)
	if err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer run.End()

		stats, err := a.scroller.Run(runCtx, run.ID, date)
		if err != nil {
			err = fmt.Errorf("scroll run %s: %w", run.ID, err)
			if errors.Is(err, scroller.ErrContainerNotFound) {
				a.logger.Warn().Err(err).Msg("run did not start")
			}
		} else if stats != nil {
			a.logger.Info().Str("run_id", run.ID).Str("outcome", string(stats.Outcome)).Msg("✓ run finished")
		}
		done <- err
	}()
	return done, nil
}
