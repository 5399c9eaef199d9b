package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type stubSource struct {
	mu      sync.Mutex
	widgets map[WidgetType][]WidgetView
	err     error
	queries []WidgetQuery
}

func (s *stubSource) FetchWidgets(_ context.Context, query WidgetQuery) ([]WidgetView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.widgets[query.WidgetType], nil
}

type safeSink struct {
	mu       sync.Mutex
	surfaces map[string]*Node
	calls    map[string]int
}

func newSafeSink() *safeSink {
	return &safeSink{surfaces: map[string]*Node{}, calls: map[string]int{}}
}

func (s *safeSink) sink(surface string, node *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surfaces[surface] = node
	s.calls[surface]++
}

func (s *safeSink) get(surface string) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surfaces[surface]
}

type stubTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stubTelemetry) has(event string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e == event {
			return true
		}
	}
	return false
}

func demoSource() *stubSource {
	byType := map[WidgetType][]WidgetView{}
	for _, w := range DemoWidgets() {
		byType[w.Type] = append(byType[w.Type], w)
	}
	return &stubSource{widgets: byType}
}

func testContainers() *StaticContainerSource {
	return NewStaticContainerSource("/collections/spring",
		ContainerConfig{ID: "c-carousel", Shop: "demo.myshopify.com", WidgetType: TypeCarousel},
		ContainerConfig{ID: "c-story", Shop: "demo.myshopify.com", WidgetType: TypeStory},
		ContainerConfig{ID: "c-float", Shop: "demo.myshopify.com", WidgetType: TypeFloating},
	)
}

func TestIntegratorRendersEveryContainer(t *testing.T) {
	sink := newSafeSink()
	source := demoSource()
	integrator, err := NewIntegrator(IntegratorOptions{
		Source:     source,
		Containers: testContainers(),
		Sink:       sink.sink,
	})
	if err != nil {
		t.Fatalf("NewIntegrator returned error: %v", err)
	}
	if err := integrator.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if sink.get("c-carousel") == nil || sink.get("c-carousel").Find(ByClass("sv-carousel")) == nil {
		t.Fatalf("expected a carousel surface")
	}
	if sink.get("c-story") == nil || sink.get("c-story").Find(ByClass("sv-story-row")) == nil {
		t.Fatalf("expected a story row surface")
	}
	if sink.get("c-float") == nil || sink.get("c-float").Find(ByClass("sv-floating")) == nil {
		t.Fatalf("expected a floating bubble surface")
	}
	// Path defaults to the page path when the container does not override it.
	for _, q := range source.queries {
		if q.Path != "/collections/spring" {
			t.Fatalf("query path = %q, want page path", q.Path)
		}
	}
}

func TestIntegratorEmptyFetchClearsSurface(t *testing.T) {
	sink := newSafeSink()
	telemetry := &stubTelemetry{}
	integrator, err := NewIntegrator(IntegratorOptions{
		Source:     &stubSource{widgets: map[WidgetType][]WidgetView{}},
		Containers: testContainers(),
		Telemetry:  telemetry,
		Sink:       sink.sink,
	})
	if err != nil {
		t.Fatalf("NewIntegrator returned error: %v", err)
	}
	if err := integrator.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if node := sink.get("c-carousel"); node != nil {
		t.Fatalf("empty fetch must clear the surface, got %+v", node)
	}
	if !telemetry.has("widget.fetch.empty") {
		t.Fatalf("expected empty-fetch telemetry, got %v", telemetry.events)
	}
}

func TestIntegratorFetchFailureIsIsolated(t *testing.T) {
	sink := newSafeSink()
	telemetry := &stubTelemetry{}
	integrator, err := NewIntegrator(IntegratorOptions{
		Source:     &stubSource{err: errors.New("api down")},
		Containers: testContainers(),
		Telemetry:  telemetry,
		Sink:       sink.sink,
	})
	if err != nil {
		t.Fatalf("NewIntegrator returned error: %v", err)
	}
	if err := integrator.Run(context.Background()); err != nil {
		t.Fatalf("per-container fetch failures must not fail Run: %v", err)
	}
	if !telemetry.has("widget.fetch.failed") {
		t.Fatalf("expected fetch-failure telemetry, got %v", telemetry.events)
	}
}

func TestIntegratorSkipsMissingShop(t *testing.T) {
	sink := newSafeSink()
	telemetry := &stubTelemetry{}
	integrator, err := NewIntegrator(IntegratorOptions{
		Source: demoSource(),
		Containers: NewStaticContainerSource("/",
			ContainerConfig{ID: "c-broken", WidgetType: TypeCarousel},
		),
		Telemetry: telemetry,
		Sink:      sink.sink,
	})
	if err != nil {
		t.Fatalf("NewIntegrator returned error: %v", err)
	}
	if err := integrator.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !telemetry.has("widget.container.skipped") {
		t.Fatalf("expected skip telemetry, got %v", telemetry.events)
	}
}

func TestIntegratorPlanCollectsSurfaces(t *testing.T) {
	integrator, err := NewIntegrator(IntegratorOptions{
		Source:     demoSource(),
		Containers: testContainers(),
	})
	if err != nil {
		t.Fatalf("NewIntegrator returned error: %v", err)
	}
	plan, err := integrator.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("plan has %d surfaces, want 3", len(plan))
	}
}

func TestIntegratorActionRouting(t *testing.T) {
	sink := newSafeSink()
	integrator, err := NewIntegrator(IntegratorOptions{
		Source:        demoSource(),
		Containers:    testContainers(),
		ViewportWidth: 1000,
		Sink:          sink.sink,
	})
	if err != nil {
		t.Fatalf("NewIntegrator returned error: %v", err)
	}
	ctx := context.Background()
	if err := integrator.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	integrator.HandleAction(ctx, "c-story", Action{Name: ActionModalOpen, Args: map[string]any{
		"widget_id": "wid-story",
		"index":     float64(1),
		"source":    "story",
	}})
	if !integrator.Modal().State().Open {
		t.Fatalf("modal.open action should open the modal")
	}
	if integrator.Modal().State().Source != TypeStory {
		t.Fatalf("Source = %s, want story", integrator.Modal().State().Source)
	}
	integrator.HandleAction(ctx, "c-story", Action{Name: ActionModalNext})
	if integrator.Modal().State().Index != 2 {
		t.Fatalf("Index = %d, want 2", integrator.Modal().State().Index)
	}
	integrator.HandleAction(ctx, "c-story", Action{Name: ActionModalClose})
	if integrator.Modal().State().Open {
		t.Fatalf("modal.close action should close the modal")
	}

	carousel, ok := integrator.CarouselFor("c-carousel")
	if !ok {
		t.Fatalf("expected a carousel controller for c-carousel")
	}
	before := carousel.Current()
	integrator.HandleAction(ctx, "c-carousel", Action{Name: ActionCarouselNext})
	if carousel.Current() != before+1 {
		t.Fatalf("carousel.next should advance the controller")
	}
	// Carousel navigation repaints its own surface.
	if sink.calls["c-carousel"] < 2 {
		t.Fatalf("expected a repaint after carousel navigation")
	}

	// Unknown widget ids are stale surfaces, not errors.
	integrator.HandleAction(ctx, "c-story", Action{Name: ActionModalOpen, Args: map[string]any{"widget_id": "gone"}})
	if integrator.Modal().State().Open {
		t.Fatalf("stale modal.open must be a no-op")
	}
}

func TestIntegratorCartActionUsesSelectedVideo(t *testing.T) {
	cart := &stubCart{}
	integrator, err := NewIntegrator(IntegratorOptions{
		Source:     demoSource(),
		Containers: testContainers(),
		Cart:       cart,
	})
	if err != nil {
		t.Fatalf("NewIntegrator returned error: %v", err)
	}
	ctx := context.Background()
	if err := integrator.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	integrator.HandleAction(ctx, "c-story", Action{Name: ActionModalOpen, Args: map[string]any{
		"widget_id": "wid-story",
		"index":     0,
		"source":    "story",
	}})
	integrator.HandleAction(ctx, "c-story", Action{Name: ActionCartAdd, Args: map[string]any{
		"product_id": "prod-1",
	}})
	if len(cart.adds) != 1 || cart.adds[0].ID != "41001" {
		t.Fatalf("adds = %+v, want the normalized variant of prod-1", cart.adds)
	}
}
