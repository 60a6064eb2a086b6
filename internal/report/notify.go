package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Kind identifies which of the user-facing notices is being shown.
type Kind int

const (
	// KindNoContainer is shown when the message list cannot be found.
	KindNoContainer Kind = iota
	// KindAlreadyThere is shown when the target is already loaded.
	KindAlreadyThere
	// KindSummary is shown when a run finishes.
	KindSummary
)

// Notice is a message for the user.
type Notice struct {
	Kind  Kind
	Text  string
	Stats *Stats // set for KindSummary
}

const (
	// TextNoContainer is shown when the message list is missing.
	TextNoContainer = "Please click into the message box, then try again"
	// TextAlreadyThere is shown when no scrolling is needed.
	TextAlreadyThere = "You're already there, yay!"
)

// Notifier presents notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Multi sends every notice to each notifier in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, n Notice) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}

// ConsoleNotifier prints notices to a terminal.
type ConsoleNotifier struct {
	Out io.Writer
}

// NewConsoleNotifier writes to stdout.
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{Out: os.Stdout}
}

const boxWidth = 52

var (
	rule    = color.New(color.FgCyan)
	heading = color.New(color.Bold)
	good    = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	bad     = color.New(color.FgRed)
)

// Notify implements Notifier.
func (c *ConsoleNotifier) Notify(ctx context.Context, n Notice) {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	switch n.Kind {
	case KindNoContainer:
		fmt.Fprintf(out, "%s %s\n", bad.Sprint("✗"), n.Text)
	case KindAlreadyThere:
		fmt.Fprintf(out, "%s %s\n", good.Sprint("✓"), n.Text)
	case KindSummary:
		if n.Stats == nil {
			fmt.Fprintln(out, n.Text)
			return
		}
		c.printSummary(out, n.Stats)
	}
}

func (c *ConsoleNotifier) printSummary(out io.Writer, s *Stats) {
	title := "SCROLL REPORT"
	fmt.Fprintln(out)
	fmt.Fprintln(out, rule.Sprint(strings.Repeat("=", boxWidth)))
	fmt.Fprintf(out, "%s%s\n", strings.Repeat(" ", (boxWidth-len(title))/2), heading.Sprint(title))
	fmt.Fprintln(out, rule.Sprint(strings.Repeat("-", boxWidth)))

	outcome := good
	if s.Outcome != OutcomeCompleted {
		outcome = warn
	}
	printRow(out, "Outcome", outcome.Sprint(string(s.Outcome)))
	printRow(out, "Target", s.Target.String())
	earliest := s.Earliest
	if earliest == "" {
		earliest = "unknown"
	}
	printRow(out, "Earliest loaded", earliest)
	printRow(out, "Scrolls", fmt.Sprintf("%d", s.Cycles))

	stuck := good
	if s.StuckCount > 0 {
		stuck = warn
	}
	printRow(out, "Got stuck", stuck.Sprintf("%d times", s.StuckCount))
	printRow(out, "Time spent", FormatElapsed(s.Duration()))

	fmt.Fprintln(out, rule.Sprint(strings.Repeat("=", boxWidth)))
	fmt.Fprintln(out)
}

func printRow(out io.Writer, label, value string) {
	fmt.Fprintf(out, "  %-18s %s\n", label, value)
}
