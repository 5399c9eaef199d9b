package widget

import (
	"context"
	"strings"
	"sync"
)

// FeedbackLevel distinguishes transient cart messages.
type FeedbackLevel string

const (
	FeedbackSuccess FeedbackLevel = "success"
	FeedbackError   FeedbackLevel = "error"
)

// Feedback is the transient message shown next to a product card after a
// cart action. An empty Text means no message is visible.
type Feedback struct {
	Text  string
	Level FeedbackLevel
}

// NormalizeVariantID reduces a globally-qualified variant identifier
// ("gid://shopify/ProductVariant/123") to its trailing segment. Plain
// identifiers pass through unchanged.
func NormalizeVariantID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if idx := strings.LastIndex(raw, "/"); idx >= 0 {
		return raw[idx+1:]
	}
	return raw
}

// CartFlow turns product-card cart clicks into cart mutations with
// transient feedback. One flow exists per modal controller; all calls run
// on the host's event goroutine, the mutex only guards the dismissal
// timer racing a new action.
type CartFlow struct {
	service   CartService
	labels    Labels
	clock     Clock
	settings  DisplaySettings
	events    EventHook
	telemetry Telemetry
	onChange  func(Feedback)

	mu         sync.Mutex
	dismissal  Timer
	generation int
	feedback   Feedback
}

// CartFlowOptions configures a cart flow.
type CartFlowOptions struct {
	Service   CartService
	Labels    Labels
	Clock     Clock
	Settings  DisplaySettings
	Events    EventHook
	Telemetry Telemetry
	// OnChange receives every feedback transition, including the
	// auto-dismissal clearing the message.
	OnChange func(Feedback)
}

// NewCartFlow wires a cart flow.
func NewCartFlow(opts CartFlowOptions) *CartFlow {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	normalizeSettings(&opts.Settings)
	return &CartFlow{
		service:   opts.Service,
		labels:    opts.Labels,
		clock:     opts.Clock,
		settings:  opts.Settings,
		events:    normalizeEventHook(opts.Events),
		telemetry: normalizeTelemetry(opts.Telemetry),
		onChange:  opts.OnChange,
	}
}

// Add submits one cart mutation for the product with quantity fixed at 1.
// A missing variant id after normalization blocks the request locally.
// Failures never close the modal or disturb viewer state.
func (f *CartFlow) Add(ctx context.Context, product ProductView) {
	variantID := NormalizeVariantID(product.VariantID)
	if variantID == "" {
		f.show(Feedback{Text: f.labels.Get(LabelCartNoVariant), Level: FeedbackError})
		f.telemetry.Record(ctx, "widget.cart.blocked", map[string]any{
			"product_id": product.ID,
		})
		return
	}
	if f.service == nil {
		f.show(Feedback{Text: f.labels.Get(LabelCartFailed), Level: FeedbackError})
		return
	}
	err := f.service.AddToCart(ctx, CartAddRequest{ID: variantID, Quantity: 1})
	if err != nil {
		f.show(Feedback{Text: f.labels.Get(LabelCartFailed), Level: FeedbackError})
		_ = f.events.EngineEvent(ctx, EngineEvent{
			Kind:    EventCartFailed,
			Payload: map[string]any{"variant_id": variantID, "error": err.Error()},
		})
		return
	}
	f.show(Feedback{Text: f.labels.Get(LabelCartAdded), Level: FeedbackSuccess})
	_ = f.events.EngineEvent(ctx, EngineEvent{
		Kind:    EventCartAdded,
		Payload: map[string]any{"variant_id": variantID},
	})
}

// Feedback returns the currently visible message, if any.
func (f *CartFlow) Feedback() Feedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedback
}

// show replaces the visible message and restarts the dismissal timer so
// rapid repeated actions never produce overlapping messages.
func (f *CartFlow) show(feedback Feedback) {
	f.mu.Lock()
	if f.dismissal != nil {
		f.dismissal.Stop()
	}
	f.generation++
	gen := f.generation
	f.feedback = feedback
	f.dismissal = f.clock.AfterFunc(f.settings.FeedbackDelay(), func() {
		f.dismiss(gen)
	})
	f.mu.Unlock()
	if f.onChange != nil {
		f.onChange(feedback)
	}
}

func (f *CartFlow) dismiss(generation int) {
	f.mu.Lock()
	if generation != f.generation {
		f.mu.Unlock()
		return
	}
	f.feedback = Feedback{}
	f.mu.Unlock()
	if f.onChange != nil {
		f.onChange(Feedback{})
	}
}
