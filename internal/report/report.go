// Package report collects per-run statistics and presents notices to the user.
package report

import (
	"fmt"
	"time"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/datefilter"
)

// Outcome describes how a run ended.
type Outcome string

const (
	// OutcomeCompleted means the target date was reached.
	OutcomeCompleted Outcome = "completed"
	// OutcomeCancelled means the user stopped the run.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeAlreadyThere means the target was loaded before any scroll.
	OutcomeAlreadyThere Outcome = "already-there"
	// OutcomeNoContainer means the message list could not be found.
	OutcomeNoContainer Outcome = "no-container"
	// OutcomeAborted means the run ended on shutdown or a closed browser.
	OutcomeAborted Outcome = "aborted"
)

// Stats holds everything observed during one run.
type Stats struct {
	RunID      string
	Target     datefilter.Target
	StartTime  time.Time
	EndTime    time.Time
	Cycles     int // top scrolls issued
	StuckCount int // stall recoveries
	Earliest   string
	Outcome    Outcome
}

// New creates a Stats instance with StartTime set to now.
func New(runID string, target datefilter.Target) *Stats {
	return &Stats{
		RunID:     runID,
		Target:    target,
		StartTime: time.Now(),
	}
}

// Finish records the end time and outcome.
func (s *Stats) Finish(outcome Outcome) {
	s.EndTime = time.Now()
	s.Outcome = outcome
}

// Duration returns the run duration so far.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// FormatElapsed renders d as "HHh:MMm:SSs".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02dh:%02dm:%02ds", h, m, s)
}

// Message is the completion summary shown to the user.
func (s *Stats) Message() string {
	title := "Done scrolling!"
	if s.Outcome == OutcomeCancelled {
		title = "Scrolling cancelled."
	}
	return fmt.Sprintf("%s\n\nGot stuck %d times\n\nTime spent scrolling:\n    %s",
		title, s.StuckCount, FormatElapsed(s.Duration()))
}

// Summary returns a one-line summary for logs.
func (s *Stats) Summary() string {
	earliest := s.Earliest
	if earliest == "" {
		earliest = "unknown"
	}
	return fmt.Sprintf("%s: %d scrolls, stuck %d times, earliest %s, target %s, in %s",
		s.Outcome, s.Cycles, s.StuckCount, earliest, s.Target, FormatElapsed(s.Duration()))
}
