package browser

import (
	"context"
	"errors"
	"strings"
)

// closedPatterns are chromedp/CDP error texts seen when the browser or tab
// went away.
var closedPatterns = []string{
	"context canceled",
	"context deadline exceeded",
	"websocket: close",
	"target closed",
	"browser: not connected",
	"session closed",
	"page closed",
	"connection refused",
	"broken pipe",
	"invalid context",
}

// IsBrowserClosed reports whether err means the browser was closed and
// further page commands are pointless.
func IsBrowserClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range closedPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
