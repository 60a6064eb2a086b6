package scroller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/host"
)

// SettleWaiter blocks until the page has finished appending messages after
// a scroll.
type SettleWaiter struct {
	host     host.Host
	interval time.Duration
	sleep    SleepFunc
	logger   zerolog.Logger
}

// NewSettleWaiter creates a waiter polling h every interval.
func NewSettleWaiter(h host.Host, interval time.Duration, sleep SleepFunc, logger zerolog.Logger) *SettleWaiter {
	if sleep == nil {
		sleep = Sleep
	}
	return &SettleWaiter{
		host:     h,
		interval: interval,
		sleep:    sleep,
		logger:   logger,
	}
}

// Wait polls while the loading indicator is active and no timestamp can be
// read yet. It returns nil as soon as either condition clears, ctx's error
// when ctx is done, and any host error classified as fatal.
func (w *SettleWaiter) Wait(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		loading, err := w.host.LoadingIndicatorActive(ctx)
		if err != nil {
			if fatal := classify(ctx, err); fatal != nil {
				return fatal
			}
			w.logger.Debug().Err(err).Msg("could not read loading indicator, assuming still loading")
			loading = true
		}

		hasDate := false
		if loading {
			_, ok, err := w.host.EarliestItemDateText(ctx)
			if err != nil {
				if fatal := classify(ctx, err); fatal != nil {
					return fatal
				}
				w.logger.Debug().Err(err).Msg("could not read earliest timestamp")
			}
			hasDate = ok && err == nil
		}

		if !loading || hasDate {
			return nil
		}

		w.logger.Debug().
			Int("attempt", attempt).
			Dur("retry_in", w.interval).
			Msg("still loading messages, will check again")

		if err := w.sleep(ctx, w.interval); err != nil {
			return err
		}
	}
}
