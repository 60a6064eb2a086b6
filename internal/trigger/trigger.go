// Package trigger puts a "Scroll" button and a cancel hotkey into the chat
// page and forwards their events to Go through a DevTools runtime binding.
package trigger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/cantalupo555/tumblr-chat-scroller/internal/logging"
)

// EventType identifies what the user did in the page.
type EventType string

const (
	// EventStart is sent when the user clicked the button and entered a date.
	EventStart EventType = "start"
	// EventCancel is sent when the user pressed the cancel key.
	EventCancel EventType = "cancel"
)

// Event is a user action in the page.
type Event struct {
	Type EventType `json:"type"`
	Date string    `json:"date,omitempty"`
}

// ParseEvent decodes a binding payload.
func ParseEvent(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, fmt.Errorf("decode trigger event: %w", err)
	}
	switch ev.Type {
	case EventStart, EventCancel:
		return ev, nil
	default:
		return Event{}, fmt.Errorf("unknown trigger event type %q", ev.Type)
	}
}

// Config controls what is injected.
type Config struct {
	// Binding is the name of the window function the page calls.
	Binding string
	// CancelKey is a KeyboardEvent.key value, e.g. "F1".
	CancelKey string
	// Anchor is a CSS selector; the button is inserted before it. When it
	// never appears the button floats in the top-right corner.
	Anchor string
	// Buffer is the event channel size.
	Buffer int
}

// DefaultConfig returns the default trigger configuration.
func DefaultConfig() Config {
	return Config{
		Binding:   "__chatScrollerEvent",
		CancelKey: "F1",
		Buffer:    8,
	}
}

// Trigger delivers page events.
type Trigger struct {
	binding string
	events  chan Event
	logger  zerolog.Logger
}

// Install injects the button and hotkey into the current document and every
// document loaded later in the same tab.
func Install(ctx context.Context, cfg Config) (*Trigger, error) {
	defaults := DefaultConfig()
	if cfg.Binding == "" {
		cfg.Binding = defaults.Binding
	}
	if cfg.CancelKey == "" {
		cfg.CancelKey = defaults.CancelKey
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaults.Buffer
	}

	t := newTrigger(cfg)

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		if called, ok := ev.(*runtime.EventBindingCalled); ok {
			t.handle(called.Name, called.Payload)
		}
	})

	script := injectScript(cfg)
	if err := chromedp.Run(ctx,
		runtime.AddBinding(cfg.Binding),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx)
			return err
		}),
		chromedp.Evaluate(script, nil),
	); err != nil {
		return nil, fmt.Errorf("install scroll trigger: %w", err)
	}

	t.logger.Info().Str("cancel_key", cfg.CancelKey).Msg("✓ Scroll button installed")
	return t, nil
}

func newTrigger(cfg Config) *Trigger {
	return &Trigger{
		binding: cfg.Binding,
		events:  make(chan Event, cfg.Buffer),
		logger:  logging.Component("trigger"),
	}
}

// Events returns the event stream. It is never closed; stop reading when
// the browser context is done.
func (t *Trigger) Events() <-chan Event {
	return t.events
}

// handle runs on the chromedp event goroutine and must not block.
func (t *Trigger) handle(name, payload string) {
	if name != t.binding {
		return
	}

	ev, err := ParseEvent(payload)
	if err != nil {
		t.logger.Warn().Err(err).Str("payload", payload).Msg("ignoring trigger event")
		return
	}

	select {
	case t.events <- ev:
	default:
		t.logger.Warn().Str("type", string(ev.Type)).Msg("trigger event dropped, consumer is busy")
	}
}

func injectScript(cfg Config) string {
	return fmt.Sprintf(scriptTemplate, jsString(cfg.Binding), jsString(cfg.CancelKey), jsString(cfg.Anchor))
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

const scriptTemplate = `
(function(bindingName, cancelKey, anchorSelector) {
	if (window.__chatScrollerInstalled) return;
	window.__chatScrollerInstalled = true;

	const send = (msg) => {
		const fn = window[bindingName];
		if (typeof fn === 'function') fn(JSON.stringify(msg));
	};

	document.addEventListener('keydown', (event) => {
		if (event.key === cancelKey) {
			event.preventDefault();
			send({ type: 'cancel' });
		}
	}, false);

	const buttonID = 'chat_scroller_button';
	const makeButton = () => {
		const btn = document.createElement('div');
		btn.id = buttonID;
		btn.className = 'tab iconic';
		btn.style.cursor = 'pointer';
		btn.style.paddingTop = '2%%';
		btn.innerHTML = '<span>Scroll</span>';
		btn.onclick = () => {
			const input = window.prompt('What date should we scroll to? (MM/DD/YYYY)', '');
			if (input !== null) send({ type: 'start', date: input });
		};
		return btn;
	};

	let tries = 0;
	const timer = setInterval(() => {
		tries++;
		if (document.getElementById(buttonID)) {
			clearInterval(timer);
			return;
		}
		const anchor = anchorSelector ? document.querySelector(anchorSelector) : null;
		if (anchor && anchor.parentNode) {
			anchor.parentNode.insertBefore(makeButton(), anchor);
			clearInterval(timer);
			return;
		}
		if (tries >= 30 && document.body) {
			const btn = makeButton();
			Object.assign(btn.style, {
				position: 'fixed', top: '8px', right: '8px', zIndex: '99999',
				padding: '6px 12px', background: '#001935', color: '#fff', borderRadius: '4px',
			});
			document.body.appendChild(btn);
			clearInterval(timer);
		}
	}, 1000);
})(%s, %s, %s);
`
