// Package host describes the page the scroller drives. The live chromedp
// adapter lives in the navigation package; Fake is a scripted stand-in.
package host

import (
	"context"
	"errors"
)

// ErrContainerNotFound is returned when the scrollable message list cannot
// be located.
var ErrContainerNotFound = errors.New("message container not found")

// Position is a scroll target inside the container.
type Position int

const (
	// Top scrolls to the start of the loaded content, which asks the host
	// to lazy-load older messages.
	Top Position = iota
	// Bottom scrolls to the end of the loaded content.
	Bottom
)

func (p Position) String() string {
	if p == Bottom {
		return "bottom"
	}
	return "top"
}

// Host is the set of page queries the scroller needs.
type Host interface {
	// ResolveContainer locates the scrollable message list. It returns
	// ErrContainerNotFound when the list is absent.
	ResolveContainer(ctx context.Context) (Container, error)

	// LoadingIndicatorActive reports whether the page says it is still
	// fetching messages.
	LoadingIndicatorActive(ctx context.Context) (bool, error)

	// EarliestItemDateText returns the timestamp text of the oldest
	// rendered message. ok is false when no message is rendered yet.
	EarliestItemDateText(ctx context.Context) (text string, ok bool, err error)
}

// Container is a resolved scrollable element.
type Container interface {
	ScrollTo(ctx context.Context, pos Position) error
	ScrollToOffset(ctx context.Context, px float64) error

	// ContentExtent returns the total scrollable height of the content.
	ContentExtent(ctx context.Context) (float64, error)
}
