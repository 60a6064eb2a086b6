package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/datefilter"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00h:00m:00s"},
		{1500 * time.Millisecond, "00h:00m:02s"},
		{59 * time.Second, "00h:00m:59s"},
		{3*time.Minute + 12*time.Second, "00h:03m:12s"},
		{2*time.Hour + 5*time.Minute + 7*time.Second, "02h:05m:07s"},
		{-time.Second, "00h:00m:00s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatElapsed(tt.in))
		})
	}
}

func fixedStats(outcome Outcome) *Stats {
	start := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	return &Stats{
		RunID:      "run-1",
		Target:     datefilter.NewTarget("01/01/2020"),
		StartTime:  start,
		EndTime:    start.Add(3*time.Minute + 12*time.Second),
		Cycles:     4,
		StuckCount: 2,
		Earliest:   "12/20/2019",
		Outcome:    outcome,
	}
}

func TestMessage(t *testing.T) {
	msg := fixedStats(OutcomeCompleted).Message()
	assert.Contains(t, msg, "Done scrolling!")
	assert.Contains(t, msg, "Got stuck 2 times")
	assert.Contains(t, msg, "00h:03m:12s")

	msg = fixedStats(OutcomeCancelled).Message()
	assert.Contains(t, msg, "cancelled")
}

func TestSummary(t *testing.T) {
	s := fixedStats(OutcomeCompleted)
	assert.Equal(t,
		"completed: 4 scrolls, stuck 2 times, earliest 12/20/2019, target 01/01/2020, in 00h:03m:12s",
		s.Summary())

	s.Earliest = ""
	assert.Contains(t, s.Summary(), "earliest unknown")
}

func TestConsoleNotifier(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	n := &ConsoleNotifier{Out: &buf}
	ctx := context.Background()

	n.Notify(ctx, Notice{Kind: KindNoContainer, Text: TextNoContainer})
	assert.Contains(t, buf.String(), TextNoContainer)

	buf.Reset()
	n.Notify(ctx, Notice{Kind: KindSummary, Stats: fixedStats(OutcomeCompleted)})
	out := buf.String()
	assert.Contains(t, out, "SCROLL REPORT")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "2 times")
	assert.Contains(t, out, "00h:03m:12s")
	assert.Contains(t, out, "12/20/2019")
}

func TestMulti(t *testing.T) {
	var got []Kind
	record := NotifierFunc(func(ctx context.Context, n Notice) { got = append(got, n.Kind) })

	Multi{record, nil, record}.Notify(context.Background(), Notice{Kind: KindAlreadyThere})
	assert.Equal(t, []Kind{KindAlreadyThere, KindAlreadyThere}, got)
}
