package navigation

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/logging"
	"github.com/cantalupo555/tumblr-chat-scroller/internal/report"
)

// Alert shows msg in a page alert. The alert is scheduled with setTimeout so
// the DevTools call returns while the dialog is still open.
func Alert(ctx context.Context, msg string) error {
	return chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`setTimeout(() => window.alert(%s), 0)`, jsString(msg)), nil),
	)
}

// AlertNotifier shows notices as page alerts in the browser held by ctx.
type AlertNotifier struct{}

// Notify implements report.Notifier.
func (AlertNotifier) Notify(ctx context.Context, n report.Notice) {
	text := n.Text
	if n.Kind == report.KindSummary && n.Stats != nil {
		text = n.Stats.Message()
	}
	if err := Alert(ctx, text); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().Err(err).Msg("could not show page alert")
	}
}
