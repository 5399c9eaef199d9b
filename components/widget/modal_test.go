package widget

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubCart struct {
	adds []CartAddRequest
	err  error
}

func (s *stubCart) AddToCart(_ context.Context, req CartAddRequest) error {
	if s.err != nil {
		return s.err
	}
	s.adds = append(s.adds, req)
	return nil
}

type recordSink struct {
	surfaces map[string][]*Node
}

func newRecordSink() *recordSink {
	return &recordSink{surfaces: map[string][]*Node{}}
}

func (s *recordSink) sink(surface string, node *Node) {
	s.surfaces[surface] = append(s.surfaces[surface], node)
}

func (s *recordSink) last(surface string) *Node {
	nodes := s.surfaces[surface]
	if len(nodes) == 0 {
		return nil
	}
	return nodes[len(nodes)-1]
}

type collectHook struct {
	events []EngineEvent
}

func (h *collectHook) EngineEvent(_ context.Context, event EngineEvent) error {
	h.events = append(h.events, event)
	return nil
}

func (h *collectHook) kinds() []string {
	out := make([]string, len(h.events))
	for i, e := range h.events {
		out[i] = e.Kind
	}
	return out
}

func modalWidget() *WidgetView {
	return &WidgetView{
		ID:   "wid-1",
		Type: TypeCarousel,
		Videos: []VideoView{
			{ID: "v1", Title: "First", VideoURL: "https://cdn.example.com/1.mp4", ThumbnailURL: "https://cdn.example.com/1.jpg"},
			{ID: "v2", Title: "Second", VideoURL: "https://cdn.example.com/2.mp4", Products: []ProductView{
				{ID: "p1", Title: "Overshirt", VariantID: "gid://shopify/ProductVariant/41001"},
			}},
			{ID: "v3", VideoURL: "https://cdn.example.com/3.mp4"},
		},
	}
}

func newTestModal(t *testing.T) (*ModalController, *recordSink, *collectHook, *ManualClock) {
	t.Helper()
	sink := newRecordSink()
	hook := &collectHook{}
	clock := NewManualClock(time.Unix(0, 0))
	m := NewModalController(ModalOptions{
		Cart:   &stubCart{},
		Labels: NewLabels("en", nil),
		Clock:  clock,
		Events: hook,
		Sink:   sink.sink,
	})
	return m, sink, hook, clock
}

func TestModalOpenClampsIndex(t *testing.T) {
	m, _, _, _ := newTestModal(t)
	if err := m.Open(context.Background(), modalWidget(), 99, TypeCarousel); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if m.State().Index != 2 {
		t.Fatalf("Index = %d, want clamp to 2", m.State().Index)
	}
	if err := m.Open(context.Background(), modalWidget(), -4, TypeCarousel); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if m.State().Index != 0 {
		t.Fatalf("Index = %d, want clamp to 0", m.State().Index)
	}
}

func TestModalOpenRejectsEmptyWidget(t *testing.T) {
	m, sink, _, _ := newTestModal(t)
	if err := m.Open(context.Background(), nil, 0, TypeStory); !errors.Is(err, ErrNilWidget) {
		t.Fatalf("expected ErrNilWidget, got %v", err)
	}
	if err := m.Open(context.Background(), &WidgetView{ID: "w"}, 0, TypeStory); !errors.Is(err, ErrNoVideos) {
		t.Fatalf("expected ErrNoVideos, got %v", err)
	}
	if m.State().Open {
		t.Fatalf("modal must stay closed after a rejected open")
	}
	errFrame := sink.last("modal")
	if errFrame == nil || errFrame.Find(ByClass("sv-modal-error")) == nil {
		t.Fatalf("expected a blocking error frame on the modal surface")
	}
}

func TestModalCloseDismissesErrorFrame(t *testing.T) {
	m, sink, hook, _ := newTestModal(t)
	ctx := context.Background()
	if err := m.Open(ctx, nil, 0, TypeStory); !errors.Is(err, ErrNilWidget) {
		t.Fatalf("expected ErrNilWidget, got %v", err)
	}
	if sink.last("modal").Find(ByClass("sv-modal-error")) == nil {
		t.Fatalf("expected the error frame before Close")
	}

	m.Close(ctx)
	view := sink.last("modal")
	if view.Find(ByClass("sv-modal-error")) != nil {
		t.Fatalf("error frame must be dismissed by Close")
	}
	if view.Find(ByClass("sv-hidden")) == nil {
		t.Fatalf("modal must render hidden after dismissing the error")
	}
	if len(hook.events) != 0 {
		t.Fatalf("dismissing an error frame must not publish close events, got %v", hook.kinds())
	}

	// With the frame gone, further closes are no-ops again.
	renders := len(sink.surfaces["modal"])
	m.Close(ctx)
	if len(sink.surfaces["modal"]) != renders {
		t.Fatalf("Close on a clean closed modal must not re-render")
	}
}

func TestModalPreservesCustomSettings(t *testing.T) {
	m := NewModalController(ModalOptions{
		Settings: DisplaySettings{SlideGap: 24, AccentColor: "#123456"},
	})
	if m.settings.SlideGap != 24 || m.settings.AccentColor != "#123456" {
		t.Fatalf("custom settings lost: %+v", m.settings)
	}
	if m.settings.FeedbackDelayMS != 2000 {
		t.Fatalf("FeedbackDelayMS = %d, want defaulted to 2000", m.settings.FeedbackDelayMS)
	}
}

func TestModalSlideBoundaries(t *testing.T) {
	m, _, hook, _ := newTestModal(t)
	_ = m.Open(context.Background(), modalWidget(), 0, TypeCarousel)
	before := len(hook.events)
	if m.ChangeSlide(context.Background(), -1) {
		t.Fatalf("left boundary must be a no-op")
	}
	if len(hook.events) != before {
		t.Fatalf("boundary no-op must not publish events")
	}
	if !m.ChangeSlide(context.Background(), +1) {
		t.Fatalf("expected slide change")
	}
	if m.State().Index != 1 {
		t.Fatalf("Index = %d, want 1", m.State().Index)
	}
	_ = m.JumpTo(context.Background(), 2)
	if m.ChangeSlide(context.Background(), +1) {
		t.Fatalf("right boundary must be a no-op")
	}
}

func TestModalSingleVideoHidesNavigation(t *testing.T) {
	m, sink, _, _ := newTestModal(t)
	single := &WidgetView{ID: "w", Videos: []VideoView{{ID: "only", VideoURL: "https://cdn.example.com/1.mp4"}}}
	_ = m.Open(context.Background(), single, 0, TypeCarousel)
	view := sink.last("modal")
	if view.Find(ByClass("sv-modal-prev")) != nil || view.Find(ByClass("sv-modal-next")) != nil {
		t.Fatalf("single-video modal must not render nav arrows")
	}
	if view.Find(ByClass("sv-thumb-rail")) != nil {
		t.Fatalf("single-video modal must not render the thumbnail rail")
	}
}

func TestModalDeferredAutoplay(t *testing.T) {
	m, sink, _, clock := newTestModal(t)
	_ = m.Open(context.Background(), modalWidget(), 0, TypeCarousel)
	view := sink.last("modal")
	player := view.Find(ByClass("sv-modal-video"))
	if player == nil {
		t.Fatalf("expected a video player")
	}
	if _, ok := player.Attrs["autoplay"]; ok {
		t.Fatalf("playback must not start before the deferred delay")
	}
	clock.Advance(deferredPlayDelay)
	player = sink.last("modal").Find(ByClass("sv-modal-video"))
	if _, ok := player.Attrs["autoplay"]; !ok {
		t.Fatalf("expected autoplay after the deferred delay")
	}
}

func TestModalDeferredAutoplayDiscardedAfterClose(t *testing.T) {
	m, sink, _, clock := newTestModal(t)
	_ = m.Open(context.Background(), modalWidget(), 0, TypeCarousel)
	m.Close(context.Background())
	renders := len(sink.surfaces["modal"])
	clock.Advance(deferredPlayDelay)
	if len(sink.surfaces["modal"]) != renders {
		t.Fatalf("stale playback callback must not re-render a closed modal")
	}
}

func TestModalCloseClearsStateAndVideoSource(t *testing.T) {
	m, sink, hook, _ := newTestModal(t)
	_ = m.Open(context.Background(), modalWidget(), 1, TypeCarousel)
	m.Close(context.Background())
	if m.State().Open || m.State().Widget != nil {
		t.Fatalf("Close must reset state, got %+v", m.State())
	}
	view := sink.last("modal")
	if view.Find(ByClass("sv-hidden")) == nil {
		t.Fatalf("closed modal must render hidden")
	}
	player := view.Find(ByClass("sv-modal-video"))
	if player == nil || player.Attrs["src"] != "" {
		t.Fatalf("closed modal must clear the video source")
	}
	// Idempotent: a second close publishes nothing.
	before := len(hook.events)
	m.Close(context.Background())
	if len(hook.events) != before {
		t.Fatalf("repeated Close must be a no-op")
	}
}

func TestModalKeyboardContract(t *testing.T) {
	m, _, _, _ := newTestModal(t)
	ctx := context.Background()
	// Closed modal ignores every key.
	m.HandleKey(ctx, KeyArrowRight)
	if m.State().Open {
		t.Fatalf("keys on a closed modal must be no-ops")
	}
	_ = m.Open(ctx, modalWidget(), 0, TypeCarousel)
	m.HandleKey(ctx, KeyArrowRight)
	if m.State().Index != 1 {
		t.Fatalf("ArrowRight should advance, Index = %d", m.State().Index)
	}
	m.HandleKey(ctx, KeyArrowLeft)
	if m.State().Index != 0 {
		t.Fatalf("ArrowLeft should step back, Index = %d", m.State().Index)
	}
	m.HandleKey(ctx, KeyEscape)
	if m.State().Open {
		t.Fatalf("Escape should close the modal")
	}
}

func TestModalStoryAutoAdvance(t *testing.T) {
	m, sink, _, _ := newTestModal(t)
	ctx := context.Background()
	_ = m.Open(ctx, modalWidget(), 0, TypeStory)
	if m.Progress() == nil {
		t.Fatalf("story mode must create a progress strip")
	}
	view := sink.last("modal")
	if view.Find(ByClass("sv-story-progress")) == nil {
		t.Fatalf("expected progress strip in story mode")
	}

	m.TimeUpdate(5, 10)
	bars := m.Progress().Bars()
	if bars[0].Fill != 0.5 {
		t.Fatalf("active fill = %v, want 0.5", bars[0].Fill)
	}

	m.VideoEnded(ctx)
	if m.State().Index != 1 {
		t.Fatalf("story end should auto-advance, Index = %d", m.State().Index)
	}
	m.VideoEnded(ctx)
	m.VideoEnded(ctx)
	if m.State().Open {
		t.Fatalf("finishing the last story should close the modal")
	}
}

func TestModalNonStoryIgnoresEnded(t *testing.T) {
	m, _, _, _ := newTestModal(t)
	ctx := context.Background()
	_ = m.Open(ctx, modalWidget(), 2, TypeCarousel)
	m.VideoEnded(ctx)
	if !m.State().Open || m.State().Index != 2 {
		t.Fatalf("non-story sources must stay on the finished video")
	}
}

func TestModalOpenEvents(t *testing.T) {
	m, _, hook, _ := newTestModal(t)
	_ = m.Open(context.Background(), modalWidget(), 1, TypeCarousel)
	kinds := hook.kinds()
	if len(kinds) != 2 || kinds[0] != EventModalOpened || kinds[1] != EventVideoViewed {
		t.Fatalf("kinds = %v, want [modal.opened video.viewed]", kinds)
	}
	if hook.events[0].VideoID != "v2" {
		t.Fatalf("VideoID = %s, want v2", hook.events[0].VideoID)
	}
}
