// Package session tracks whether a scroll run is in progress and lets an
// outside event (the cancel key) stop it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrRunActive is returned by Begin while another run is in progress.
	ErrRunActive = errors.New("a scroll run is already active")
	// ErrCancelled is the cancellation cause of a run stopped by the user.
	ErrCancelled = errors.New("scroll run cancelled by user")
)

// Session owns the run-active state. Only one run may be active at a time.
type Session struct {
	mu      sync.Mutex
	current *Run
}

// Run is a single scroll run.
type Run struct {
	ID        string
	StartedAt time.Time

	session *Session
	cancel  context.CancelCauseFunc
}

// New returns an idle Session.
func New() *Session {
	return &Session{}
}

// Begin starts a run. The returned context is cancelled with ErrCancelled
// when Cancel is called, or when parent is done. The caller must call
// Run.End when the run finishes.
func (s *Session) Begin(parent context.Context) (context.Context, *Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, nil, ErrRunActive
	}

	ctx, cancel := context.WithCancelCause(parent)
	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		session:   s,
		cancel:    cancel,
	}
	s.current = run
	return ctx, run, nil
}

// Cancel stops the active run. It returns false, and does nothing, when no
// run is active.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return false
	}
	s.current.cancel(ErrCancelled)
	return true
}

// Active reports whether a run is in progress.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// End marks the run finished and releases its context. It is safe to call
// more than once.
func (r *Run) End() {
	r.cancel(context.Canceled)

	r.session.mu.Lock()
	defer r.session.mu.Unlock()
	if r.session.current == r {
		r.session.current = nil
	}
}

// Cancelled reports whether ctx was stopped by a user cancel request rather
// than by its parent.
func Cancelled(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrCancelled)
}
