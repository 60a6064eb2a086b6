package scroller

import (
	"context"
	"time"
)

// SleepFunc pauses for d. It returns early with ctx's error if ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep blocks the calling goroutine for at least d without holding any
// lock. Callers must still check their context after it returns.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
