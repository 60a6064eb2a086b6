// Package navigation is the live chromedp implementation of host.Host. It
// reads and scrolls the chat message list through XPath queries evaluated
// in the page.
package navigation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/host"
)

// Selectors locate the parts of the chat the scroller needs.
type Selectors struct {
	// Container is the XPath of the scrollable message list.
	Container string
	// LoadingIdle is the XPath of the loading indicator while it is hidden.
	// Loading counts as active whenever it matches nothing.
	LoadingIdle string
	// Timestamp is the XPath of message timestamps; the first match is the
	// earliest loaded message.
	Timestamp string
}

// Page drives a chat page in the browser held by the chromedp context passed
// to each call.
type Page struct {
	sel Selectors
}

var _ host.Host = (*Page)(nil)

// NewPage returns a Page using sel.
func NewPage(sel Selectors) *Page {
	return &Page{sel: sel}
}

// firstNode is a JS expression evaluating to the first node matching an
// XPath, or null.
const firstNode = `document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`

// jsString quotes s as a JS string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func nodeExpr(xpath string) string {
	return fmt.Sprintf(firstNode, jsString(xpath))
}

// ResolveContainer implements host.Host.
func (p *Page) ResolveContainer(ctx context.Context) (host.Container, error) {
	var found bool
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`%s !== null`, nodeExpr(p.sel.Container)), &found),
	); err != nil {
		return nil, fmt.Errorf("query message container: %w", err)
	}
	if !found {
		return nil, host.ErrContainerNotFound
	}
	return &container{xpath: p.sel.Container}, nil
}

// LoadingIndicatorActive implements host.Host.
func (p *Page) LoadingIndicatorActive(ctx context.Context) (bool, error) {
	var idle bool
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`%s !== null`, nodeExpr(p.sel.LoadingIdle)), &idle),
	); err != nil {
		return false, fmt.Errorf("query loading indicator: %w", err)
	}
	return !idle, nil
}

type textResult struct {
	Found bool   `json:"found"`
	Text  string `json:"text"`
}

// EarliestItemDateText implements host.Host.
func (p *Page) EarliestItemDateText(ctx context.Context) (string, bool, error) {
	var res textResult
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`
			(function() {
				const node = %s;
				if (node === null) return { found: false, text: "" };
				const text = (node.textContent || "").trim();
				return { found: text !== "", text: text };
			})()
		`, nodeExpr(p.sel.Timestamp)), &res),
	); err != nil {
		return "", false, fmt.Errorf("query earliest timestamp: %w", err)
	}
	return res.Text, res.Found, nil
}

// container re-resolves its XPath on every call; the page may re-render the
// list at any time.
type container struct {
	xpath string
}

// scrollJS sets scrollTop to the result of expr, where el is the container.
func (c *container) scrollJS(ctx context.Context, expr string) error {
	var ok bool
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`
			(function() {
				const el = %s;
				if (el === null) return false;
				el.scrollTop = %s;
				return true;
			})()
		`, nodeExpr(c.xpath), expr), &ok),
	); err != nil {
		return fmt.Errorf("scroll message container: %w", err)
	}
	if !ok {
		return host.ErrContainerNotFound
	}
	return nil
}

func (c *container) ScrollTo(ctx context.Context, pos host.Position) error {
	if pos == host.Bottom {
		return c.scrollJS(ctx, "el.scrollHeight")
	}
	return c.scrollJS(ctx, "0")
}

func (c *container) ScrollToOffset(ctx context.Context, px float64) error {
	return c.scrollJS(ctx, fmt.Sprintf("%f", px))
}

func (c *container) ContentExtent(ctx context.Context) (float64, error) {
	var extent float64
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`
			(function() {
				const el = %s;
				return el === null ? -1 : el.scrollHeight;
			})()
		`, nodeExpr(c.xpath)), &extent),
	); err != nil {
		return 0, fmt.Errorf("measure message container: %w", err)
	}
	if extent < 0 {
		return 0, host.ErrContainerNotFound
	}
	return extent, nil
}
