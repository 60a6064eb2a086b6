package scroller

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/host"
)

func countingSleep(n *int) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*n++
		return ctx.Err()
	}
}

func TestSettleReturnsImmediatelyWhenIdle(t *testing.T) {
	fake := &host.Fake{Frames: []host.Frame{{NoDate: true}}}
	sleeps := 0
	w := NewSettleWaiter(fake, 100*time.Millisecond, countingSleep(&sleeps), zerolog.Nop())

	assert.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, 0, sleeps)
}

func TestSettleReturnsWhenDateVisibleWhileLoading(t *testing.T) {
	fake := &host.Fake{Frames: []host.Frame{{DateText: "01/01/2020", LoadingPolls: 50}}}
	sleeps := 0
	w := NewSettleWaiter(fake, 100*time.Millisecond, countingSleep(&sleeps), zerolog.Nop())

	assert.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, 0, sleeps)
}

func TestSettlePollsWhileLoadingWithoutDate(t *testing.T) {
	fake := &host.Fake{Frames: []host.Frame{{NoDate: true, LoadingPolls: 4}}}
	sleeps := 0
	w := NewSettleWaiter(fake, 100*time.Millisecond, countingSleep(&sleeps), zerolog.Nop())

	assert.NoError(t, w.Wait(context.Background()))
	assert.Equal(t, 4, sleeps)
}

func TestSettleStopsOnCancel(t *testing.T) {
	fake := &host.Fake{Frames: []host.Frame{{NoDate: true, LoadingPolls: 1000}}}
	ctx, cancel := context.WithCancel(context.Background())
	sleeps := 0
	sleep := func(ctx context.Context, d time.Duration) error {
		sleeps++
		if sleeps == 2 {
			cancel()
		}
		return nil
	}
	w := NewSettleWaiter(fake, 100*time.Millisecond, sleep, zerolog.Nop())

	assert.ErrorIs(t, w.Wait(ctx), context.Canceled)
	assert.Equal(t, 2, sleeps)
}

func TestSleep(t *testing.T) {
	start := time.Now()
	assert.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start = time.Now()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, Sleep(context.Background(), 0))
}
