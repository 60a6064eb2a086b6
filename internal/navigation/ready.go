package navigation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/host"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/logging"
)

// WaitForContainer polls h until the message list exists. The user may have
// to log in or open a conversation first. A non-positive timeout waits until
// ctx is done.
func WaitForContainer(ctx context.Context, h host.Host, interval, timeout time.Duration) error {
	logger := logging.FromContext(ctx)

	if _, err := h.ResolveContainer(ctx); err == nil {
		return nil
	}

	logger.Warn().Msg("⚠️ No open conversation found. Log in and open a chat in the browser window.")
	logger.Info().Dur("interval", interval).Dur("timeout", timeout).Msg("waiting for the message list...")

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	check := time.NewTicker(interval)
	defer check.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("message list did not appear within %v: %w", timeout, host.ErrContainerNotFound)
		case <-check.C:
			_, err := h.ResolveContainer(ctx)
			if err == nil {
				logger.Info().Msg("✓ Message list found")
				return nil
			}
			if !errors.Is(err, host.ErrContainerNotFound) {
				logger.Debug().Err(err).Msg("message list check failed")
			}
		}
	}
}
