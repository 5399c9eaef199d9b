package widget

import (
	"context"
	"errors"
	"time"
)

// Keyboard keys the modal responds to while open.
type Key string

const (
	KeyEscape     Key = "Escape"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

var (
	// ErrNilWidget is returned when the modal is opened without a widget.
	ErrNilWidget = errors.New("widget: modal opened with nil widget")
	// ErrNoVideos is returned when the widget has no videos to show.
	ErrNoVideos = errors.New("widget: modal opened with empty video list")
)

// deferredPlayDelay lets the host surface settle before the playback
// request goes out.
const deferredPlayDelay = 150 * time.Millisecond

// ModalState is the page-wide viewer state. Index is always clamped to the
// video range while the modal is open.
type ModalState struct {
	Widget *WidgetView
	Index  int
	Source WidgetType
	Open   bool
}

// ModalOptions configures the shared modal controller.
type ModalOptions struct {
	Cart      CartService
	Labels    Labels
	Theme     *ThemeSelection
	Settings  DisplaySettings
	Clock     Clock
	Events    EventHook
	Telemetry Telemetry
	// Sink receives the "modal" surface after every transition.
	Sink RenderSink
}

// ModalController is the single shared video detail surface all widget
// types funnel into. It is created once per page and reset on every open;
// the host keeps one scaffold and re-renders its content from the trees
// this controller emits. Methods run on the host's event goroutine.
type ModalController struct {
	state    ModalState
	progress *StoryProgress
	cart     *CartFlow

	labels    Labels
	theme     *ThemeSelection
	settings  DisplaySettings
	clock     Clock
	events    EventHook
	telemetry Telemetry
	sink      RenderSink

	// generation invalidates deferred playback and feedback callbacks
	// from a previous open.
	generation int
	playReady  bool
	// errorShown tracks a blocking error frame occupying the modal
	// surface, so Close can dismiss it even though the modal never opened.
	errorShown bool
}

// NewModalController builds the page-wide modal singleton.
func NewModalController(opts ModalOptions) *ModalController {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	normalizeSettings(&opts.Settings)
	m := &ModalController{
		labels:    opts.Labels,
		theme:     opts.Theme,
		settings:  opts.Settings,
		clock:     opts.Clock,
		events:    normalizeEventHook(opts.Events),
		telemetry: normalizeTelemetry(opts.Telemetry),
		sink:      opts.Sink,
	}
	m.cart = NewCartFlow(CartFlowOptions{
		Service:   opts.Cart,
		Labels:    opts.Labels,
		Clock:     opts.Clock,
		Settings:  opts.Settings,
		Events:    opts.Events,
		Telemetry: opts.Telemetry,
		OnChange:  func(Feedback) { m.render() },
	})
	return m
}

// State returns a copy of the current modal state.
func (m *ModalController) State() ModalState { return m.state }

// Progress exposes the story progress strip; nil outside story mode.
func (m *ModalController) Progress() *StoryProgress { return m.progress }

// Cart exposes the cart flow bound to this modal.
func (m *ModalController) Cart() *CartFlow { return m.cart }

// Open shows the widget at startIndex. A nil widget or an empty video list
// is a hard stop: the shopper clicked expecting content, so a blocking
// error frame renders instead of a silent blank modal. Opening while
// already open replaces the state atomically.
func (m *ModalController) Open(ctx context.Context, w *WidgetView, startIndex int, source WidgetType) error {
	if w == nil {
		m.renderError()
		return ErrNilWidget
	}
	if len(w.Videos) == 0 {
		m.renderError()
		return ErrNoVideos
	}
	m.generation++
	m.playReady = false
	m.state = ModalState{
		Widget: w,
		Index:  clampIndex(startIndex, len(w.Videos)),
		Source: source,
		Open:   true,
	}
	if source == TypeStory {
		m.progress = NewStoryProgress(len(w.Videos), m.state.Index)
	} else {
		m.progress = nil
	}
	m.render()
	m.scheduleDeferredPlay(ctx)
	m.publish(ctx, EventModalOpened)
	m.publish(ctx, EventVideoViewed)
	return nil
}

// ChangeSlide moves the cursor by delta, clamped into range. A transition
// that lands on the same index (already at a boundary) is a no-op.
func (m *ModalController) ChangeSlide(ctx context.Context, delta int) bool {
	if !m.state.Open {
		return false
	}
	next := clampIndex(m.state.Index+delta, len(m.state.Widget.Videos))
	return m.jump(ctx, next)
}

// JumpTo moves directly to a thumbnail's index.
func (m *ModalController) JumpTo(ctx context.Context, index int) bool {
	if !m.state.Open {
		return false
	}
	return m.jump(ctx, clampIndex(index, len(m.state.Widget.Videos)))
}

func (m *ModalController) jump(ctx context.Context, next int) bool {
	if next == m.state.Index {
		return false
	}
	m.state.Index = next
	if m.progress != nil {
		// Manual navigation resets the target video to its start and
		// recomputes every bar from the new index.
		m.progress.SetIndex(next)
	}
	m.render()
	m.publish(ctx, EventModalSlide)
	m.publish(ctx, EventVideoViewed)
	return true
}

// TimeUpdate syncs the story progress strip with playback time. Ignored
// outside story mode.
func (m *ModalController) TimeUpdate(current, duration float64) {
	if !m.state.Open || m.progress == nil {
		return
	}
	m.progress.TimeUpdate(current, duration)
	m.render()
}

// VideoEnded handles the player's ended signal: story mode auto-advances,
// and finishing the last story closes the modal. Other sources leave the
// viewer on the finished video.
func (m *ModalController) VideoEnded(ctx context.Context) {
	if !m.state.Open || m.progress == nil {
		return
	}
	next, done := m.progress.Ended()
	if done {
		m.Close(ctx)
		return
	}
	m.jump(ctx, next)
}

// HandleKey implements the keyboard contract. The host registers one
// global listener for the page; while the modal is closed every key is a
// no-op, so repeated opens never stack behavior.
func (m *ModalController) HandleKey(ctx context.Context, key Key) {
	if !m.state.Open {
		return
	}
	switch key {
	case KeyEscape:
		m.Close(ctx)
	case KeyArrowLeft:
		m.ChangeSlide(ctx, -1)
	case KeyArrowRight:
		m.ChangeSlide(ctx, +1)
	}
}

// Close hides the scaffold, clears the video source to stop background
// buffering, and restores page scroll. Idempotent.
func (m *ModalController) Close(ctx context.Context) {
	if !m.state.Open {
		if m.errorShown {
			m.render()
		}
		return
	}
	m.generation++
	m.playReady = false
	m.state.Open = false
	m.progress = nil
	m.render()
	m.publish(ctx, EventModalClosed)
	m.state = ModalState{}
}

// AddToCart submits a cart action for the product card.
func (m *ModalController) AddToCart(ctx context.Context, product ProductView) {
	if !m.state.Open {
		return
	}
	m.cart.Add(ctx, product)
}

func (m *ModalController) scheduleDeferredPlay(ctx context.Context) {
	gen := m.generation
	m.clock.AfterFunc(deferredPlayDelay, func() {
		// Discard if the modal was closed or reopened meanwhile.
		if gen != m.generation || !m.state.Open {
			return
		}
		m.playReady = true
		m.render()
	})
}

func (m *ModalController) publish(ctx context.Context, kind string) {
	event := EngineEvent{Kind: kind}
	if m.state.Widget != nil {
		event.WidgetID = m.state.Widget.ID
		event.Index = m.state.Index
		if m.state.Index >= 0 && m.state.Index < len(m.state.Widget.Videos) {
			event.VideoID = m.state.Widget.Videos[m.state.Index].ID
		}
	}
	_ = m.events.EngineEvent(ctx, event)
}

func (m *ModalController) render() {
	m.errorShown = false
	if m.sink == nil {
		return
	}
	m.sink("modal", m.View())
}

func (m *ModalController) renderError() {
	m.telemetry.Record(context.Background(), "widget.modal.invalid_open", nil)
	m.errorShown = true
	if m.sink == nil {
		return
	}
	m.sink("modal", modalErrorView(m.labels))
}

func clampIndex(index, length int) int {
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
