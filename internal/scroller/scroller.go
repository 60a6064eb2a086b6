// Package scroller scrolls a lazy-loading message list back in time until
// messages older than a target date are loaded.
package scroller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/browser"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/datefilter"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/history"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/host"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/logging"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/report"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/session"
)

// ErrContainerNotFound is returned by Run when the message list is missing.
var ErrContainerNotFound = host.ErrContainerNotFound

// Config holds the timings of the scroll loop.
type Config struct {
	// ScrollInterval gates every top scroll after the first.
	// Default: 2s
	ScrollInterval time.Duration

	// SettleInterval is the loading indicator poll interval.
	// Default: 100ms
	SettleInterval time.Duration

	// StallPause is how long to stay at the bottom after a stall.
	// Default: 1s
	StallPause time.Duration

	// HistorySize is how many identical extents in a row count as a stall.
	// Default: 3
	HistorySize int

	// FinishOffset is where the list is left when the run ends.
	// Default: 50
	FinishOffset float64
}

// DefaultConfig returns the timings the host page is known to tolerate.
func DefaultConfig() Config {
	return Config{
		ScrollInterval: 2 * time.Second,
		SettleInterval: 100 * time.Millisecond,
		StallPause:     1 * time.Second,
		HistorySize:    3,
		FinishOffset:   50,
	}
}

// Option customizes a Scroller.
type Option func(*Scroller)

// WithSleep replaces the delay primitive.
func WithSleep(fn SleepFunc) Option {
	return func(s *Scroller) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scroller) {
		s.logger = logger
	}
}

// Scroller drives one host page.
type Scroller struct {
	host     host.Host
	notifier report.Notifier
	config   Config
	sleep    SleepFunc
	logger   zerolog.Logger
}

// New creates a Scroller. Zero config fields fall back to DefaultConfig.
func New(h host.Host, notifier report.Notifier, config Config, opts ...Option) *Scroller {
	defaults := DefaultConfig()
	if config.ScrollInterval <= 0 {
		config.ScrollInterval = defaults.ScrollInterval
	}
	if config.SettleInterval <= 0 {
		config.SettleInterval = defaults.SettleInterval
	}
	if config.StallPause <= 0 {
		config.StallPause = defaults.StallPause
	}
	if config.HistorySize <= 0 {
		config.HistorySize = defaults.HistorySize
	}
	if config.FinishOffset <= 0 {
		config.FinishOffset = defaults.FinishOffset
	}
	if notifier == nil {
		notifier = report.Multi{}
	}

	s := &Scroller{
		host:     h,
		notifier: notifier,
		config:   config,
		sleep:    Sleep,
		logger:   logging.Component("scroller"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run is the state of a single Run call.
type run struct {
	*Scroller
	container host.Container
	target    datefilter.Target
	history   *history.Buffer
	settle    *SettleWaiter
	stats     *report.Stats
	logger    zerolog.Logger
}

// Run scrolls until the earliest loaded message is older than targetText
// (MM/DD/YYYY), or until ctx is done.
//
// A missing container is reported to the user and returned as
// ErrContainerNotFound. When the target is already loaded the user is told
// so and no scrolling happens. A run cancelled through the session still
// ends with a summary. Any other ctx cancellation, or a closed browser,
// aborts without one.
func (s *Scroller) Run(ctx context.Context, runID string, targetText string) (*report.Stats, error) {
	target := datefilter.NewTarget(targetText)
	logger := s.logger.With().Str("run_id", runID).Str("target", targetText).Logger()
	ctx = logging.WithContext(ctx, logger)

	r := &run{
		Scroller: s,
		target:   target,
		history:  history.New(s.config.HistorySize),
		settle:   NewSettleWaiter(s.host, s.config.SettleInterval, s.sleep, logger),
		stats:    report.New(runID, target),
		logger:   logger,
	}

	if !target.Valid {
		logger.Warn().Msg("target date is not MM/DD/YYYY, scrolling will only stop when cancelled")
	}

	container, err := s.host.ResolveContainer(ctx)
	if err != nil {
		if fatal := classify(ctx, err); fatal != nil {
			return r.abort(ctx, fatal)
		}
		r.stats.Finish(report.OutcomeNoContainer)
		logger.Error().Err(err).Msg("could not find the message list")
		s.notifier.Notify(ctx, report.Notice{Kind: report.KindNoContainer, Text: report.TextNoContainer})
		if errors.Is(err, host.ErrContainerNotFound) {
			return r.stats, ErrContainerNotFound
		}
		return r.stats, fmt.Errorf("%w: %v", ErrContainerNotFound, err)
	}
	r.container = container

	verdict, err := r.check(ctx)
	if err != nil {
		return r.abort(ctx, err)
	}
	if verdict == datefilter.Reached {
		r.stats.Finish(report.OutcomeAlreadyThere)
		logger.Info().Str("earliest", r.stats.Earliest).Msg("✓ target already loaded")
		s.notifier.Notify(ctx, report.Notice{Kind: report.KindAlreadyThere, Text: report.TextAlreadyThere})
		return r.stats, nil
	}

	logger.Info().Dur("interval", s.config.ScrollInterval).Msg("scrolling started")

	if err := r.loop(ctx); err != nil {
		return r.abort(ctx, err)
	}
	return r.finish(ctx)
}

// loop runs scroll cycles until the target is reached. It returns nil when
// the target is reached or the user cancelled, and an error otherwise.
func (r *run) loop(ctx context.Context) error {
	// The first scroll is not gated by the interval.
	if err := r.scrollAndRecord(ctx); err != nil {
		return r.stopErr(ctx, err)
	}

	for {
		if err := r.sleep(ctx, r.config.ScrollInterval); err != nil {
			return r.stopErr(ctx, err)
		}
		if err := ctx.Err(); err != nil {
			return r.stopErr(ctx, err)
		}

		if err := r.scrollAndRecord(ctx); err != nil {
			return r.stopErr(ctx, err)
		}
		if err := r.settle.Wait(ctx); err != nil {
			return r.stopErr(ctx, err)
		}

		if r.history.AllEqual() {
			if err := r.nudge(ctx); err != nil {
				return r.stopErr(ctx, err)
			}
		}

		if err := ctx.Err(); err != nil {
			return r.stopErr(ctx, err)
		}
		verdict, err := r.check(ctx)
		if err != nil {
			return r.stopErr(ctx, err)
		}
		if verdict == datefilter.Reached {
			r.logger.Info().Str("earliest", r.stats.Earliest).Msg("✓ target date reached")
			return nil
		}
	}
}

// stopErr turns the error that ended the loop into the loop's result. A
// user cancel is a normal stop.
func (r *run) stopErr(ctx context.Context, err error) error {
	if session.Cancelled(ctx) {
		r.logger.Info().Msg("scrolling cancelled by user")
		return nil
	}
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return err
}

// scrollAndRecord scrolls to the top and records the resulting extent.
func (r *run) scrollAndRecord(ctx context.Context) error {
	if err := r.container.ScrollTo(ctx, host.Top); err != nil {
		if fatal := classify(ctx, err); fatal != nil {
			return fatal
		}
		r.logger.Debug().Err(err).Msg("top scroll failed")
	} else {
		r.stats.Cycles++
	}
	return r.record(ctx)
}

func (r *run) record(ctx context.Context) error {
	extent, err := r.container.ContentExtent(ctx)
	if err != nil {
		if fatal := classify(ctx, err); fatal != nil {
			return fatal
		}
		r.logger.Debug().Err(err).Msg("could not measure content, skipping sample")
		return nil
	}
	r.history.Enqueue(extent)
	return nil
}

// nudge breaks a stall by scrolling the other way for a moment, then goes
// straight back to the top.
func (r *run) nudge(ctx context.Context) error {
	r.stats.StuckCount++

	approx := r.stats.Earliest
	if text, ok, err := r.host.EarliestItemDateText(ctx); err == nil && ok {
		approx = text
	}
	if approx == "" {
		approx = "unknown time"
	}
	r.logger.Info().
		Str("around", approx).
		Int("stuck_count", r.stats.StuckCount).
		Msg("⚠️ detected stuck scrolling, scrolling down temporarily")

	if err := r.container.ScrollTo(ctx, host.Bottom); err != nil {
		if fatal := classify(ctx, err); fatal != nil {
			return fatal
		}
		r.logger.Debug().Err(err).Msg("bottom scroll failed")
	}
	if err := r.sleep(ctx, r.config.StallPause); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.scrollAndRecord(ctx)
}

// check compares the earliest loaded timestamp with the target.
func (r *run) check(ctx context.Context) (datefilter.Verdict, error) {
	text, ok, err := r.host.EarliestItemDateText(ctx)
	if err != nil {
		if fatal := classify(ctx, err); fatal != nil {
			return datefilter.Undeterminable, fatal
		}
		r.logger.Debug().Err(err).Msg("could not read earliest timestamp")
		return datefilter.Undeterminable, nil
	}
	if ok {
		r.stats.Earliest = text
	}

	verdict := r.target.Compare(text, ok)
	r.logger.Debug().Str("earliest", text).Stringer("verdict", verdict).Msg("checked earliest message")
	return verdict, nil
}

// finish leaves the list near the top and shows the summary.
func (r *run) finish(ctx context.Context) (*report.Stats, error) {
	outcome := report.OutcomeCompleted
	if session.Cancelled(ctx) {
		outcome = report.OutcomeCancelled
	}

	// ctx may already be cancelled by the user; the page itself is still alive.
	fctx := context.WithoutCancel(ctx)
	if err := r.container.ScrollToOffset(fctx, r.config.FinishOffset); err != nil {
		r.logger.Debug().Err(err).Msg("could not move list to finish offset")
	}

	r.stats.Finish(outcome)
	r.logger.Info().Msg(r.stats.Summary())
	r.notifier.Notify(fctx, report.Notice{Kind: report.KindSummary, Text: r.stats.Message(), Stats: r.stats})
	return r.stats, nil
}

func (r *run) abort(ctx context.Context, err error) (*report.Stats, error) {
	r.stats.Finish(report.OutcomeAborted)
	r.logger.Error().Err(err).Msg("scrolling aborted")
	return r.stats, err
}

// classify returns nil for host errors worth retrying and the error to stop
// with otherwise.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if browser.IsBrowserClosed(err) {
		return err
	}
	return nil
}
