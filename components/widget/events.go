package widget

import "context"

// EngineEvent kinds emitted by the engine.
const (
	EventWidgetRendered = "widget.rendered"
	EventWidgetSkipped  = "widget.skipped"
	EventModalOpened    = "modal.opened"
	EventModalSlide     = "modal.slide"
	EventModalClosed    = "modal.closed"
	EventVideoViewed    = "video.viewed"
	EventCartAdded      = "cart.added"
	EventCartFailed     = "cart.failed"
)

// EngineEvent describes a user-visible engine transition that transports
// and analytics sinks might care about.
type EngineEvent struct {
	Kind        string         `json:"kind"`
	ContainerID string         `json:"container_id,omitempty"`
	WidgetID    string         `json:"widget_id,omitempty"`
	VideoID     string         `json:"video_id,omitempty"`
	Index       int            `json:"index,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// EventHook receives engine events. Hooks must be cheap; slow consumers
// should buffer on their side.
type EventHook interface {
	EngineEvent(ctx context.Context, event EngineEvent) error
}

type noopEventHook struct{}

func (noopEventHook) EngineEvent(context.Context, EngineEvent) error { return nil }

func normalizeEventHook(h EventHook) EventHook {
	if h == nil {
		return noopEventHook{}
	}
	return h
}

// HookList fans one event out to several hooks, collecting nothing: a
// failing hook never blocks the others.
type HookList []EventHook

// EngineEvent dispatches to every hook in order.
func (l HookList) EngineEvent(ctx context.Context, event EngineEvent) error {
	for _, hook := range l {
		if hook == nil {
			continue
		}
		_ = hook.EngineEvent(ctx, event)
	}
	return nil
}

// AnalyticsClient is the minimal interface needed from an external
// view-tracking service.
type AnalyticsClient interface {
	PublishEngineEvent(ctx context.Context, event EngineEvent) error
}

// AnalyticsHook forwards impressions, video views, and cart activity to an
// external analytics client.
type AnalyticsHook struct {
	Client AnalyticsClient
}

// EngineEvent publishes the event to the configured client.
func (h *AnalyticsHook) EngineEvent(ctx context.Context, event EngineEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	return h.Client.PublishEngineEvent(ctx, event)
}
