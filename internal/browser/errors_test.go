package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBrowserClosed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: true},
		{name: "wrapped deadline", err: fmt.Errorf("evaluate: %w", context.DeadlineExceeded), want: true},
		{name: "websocket", err: errors.New("websocket: close 1006 (abnormal closure)"), want: true},
		{name: "target closed", err: errors.New("Target Closed"), want: true},
		{name: "js exception", err: errors.New("exception \"Uncaught TypeError\""), want: false},
		{name: "not found", err: errors.New("message container not found"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBrowserClosed(tt.err))
		})
	}
}

func TestCandidatesPerOS(t *testing.T) {
	assert.NotEmpty(t, candidates("linux"))
	assert.NotEmpty(t, candidates("darwin"))
	assert.Contains(t, candidates("linux")[0], "chrome")
}

func TestDefaultProfilePath(t *testing.T) {
	assert.Contains(t, DefaultProfilePath(), "tumblr-chat-scroller")
}

func TestNewRequiresExecutable(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
