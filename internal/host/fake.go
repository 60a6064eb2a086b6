package host

import (
	"context"
	"sync"
)

// Frame is the page state observed after a top scroll.
type Frame struct {
	Extent   float64
	DateText string
	// NoDate simulates an empty list or a missing timestamp node.
	NoDate bool
	// LoadingPolls is how many loading checks report "active" before
	// the indicator clears.
	LoadingPolls int
}

// Command records a scroll issued against a Fake container.
type Command struct {
	Position Position
	Offset   float64
	IsOffset bool
}

// Fake is a scripted Host. After the n-th top scroll the page shows
// Frames[n-1]; before any scroll it shows Initial, or Frames[0] when Initial
// is nil. Once the script runs out, the last frame repeats.
type Fake struct {
	Initial *Frame
	Frames  []Frame

	// Missing makes ResolveContainer fail.
	Missing bool

	// OnScroll, when set, runs after every recorded command.
	OnScroll func(Command)

	mu           sync.Mutex
	topScrolls   int
	loadingPolls int
	commands     []Command
}

var _ Host = (*Fake)(nil)

// ResolveContainer implements Host.
func (f *Fake) ResolveContainer(ctx context.Context) (Container, error) {
	if f.Missing {
		return nil, ErrContainerNotFound
	}
	return fakeContainer{f}, nil
}

// LoadingIndicatorActive implements Host.
func (f *Fake) LoadingIndicatorActive(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	frame := f.current()
	if f.loadingPolls < frame.LoadingPolls {
		f.loadingPolls++
		return true, nil
	}
	return false, nil
}

// EarliestItemDateText implements Host.
func (f *Fake) EarliestItemDateText(ctx context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	frame := f.current()
	if frame.NoDate {
		return "", false, nil
	}
	return frame.DateText, true, nil
}

// Commands returns every scroll command issued so far.
func (f *Fake) Commands() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.commands))
	copy(out, f.commands)
	return out
}

// Count returns how many scrolls to pos were issued.
func (f *Fake) Count(pos Position) int {
	n := 0
	for _, c := range f.Commands() {
		if !c.IsOffset && c.Position == pos {
			n++
		}
	}
	return n
}

// current must be called with mu held.
func (f *Fake) current() Frame {
	if f.topScrolls == 0 {
		if f.Initial != nil {
			return *f.Initial
		}
	}
	if len(f.Frames) == 0 {
		return Frame{NoDate: true}
	}
	idx := f.topScrolls - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(f.Frames) {
		idx = len(f.Frames) - 1
	}
	return f.Frames[idx]
}

func (f *Fake) record(cmd Command) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	if !cmd.IsOffset && cmd.Position == Top {
		f.topScrolls++
		f.loadingPolls = 0
	}
	hook := f.OnScroll
	f.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
}

type fakeContainer struct {
	f *Fake
}

func (c fakeContainer) ScrollTo(ctx context.Context, pos Position) error {
	c.f.record(Command{Position: pos})
	return nil
}

func (c fakeContainer) ScrollToOffset(ctx context.Context, px float64) error {
	c.f.record(Command{Offset: px, IsOffset: true})
	return nil
}

func (c fakeContainer) ContentExtent(ctx context.Context) (float64, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	return c.f.current().Extent, nil
}
