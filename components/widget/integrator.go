package widget

import (
	"context"
	"fmt"
	"sync"
)

// defaultSlideWidth seeds carousel layout before the host reports a
// measured slide box.
const defaultSlideWidth = 280

// IntegratorOptions configures the page integrator. Every collaborator is
// an interface so hosts can swap implementations.
type IntegratorOptions struct {
	Source         WidgetSource
	Containers     ContainerSource
	Registry       *Registry
	Settings       SettingsStore
	Cart           CartService
	Events         EventHook
	Telemetry      Telemetry
	Clock          Clock
	Sink           RenderSink
	Theme          *ThemeSelection
	Locale         string
	LabelOverrides map[string]map[string]string
	ViewportWidth  int
}

// Integrator discovers widget containers, fetches each container's live
// widget list once, and dispatches to the matching renderer. Containers
// are independent: fetches run concurrently and a failure in one never
// blocks the others.
type Integrator struct {
	opts   IntegratorOptions
	labels Labels

	mu         sync.Mutex
	widgets    map[string]*WidgetView
	carousels  map[string]*CarouselController
	slideWidth map[string]float64
	settings   DisplaySettings
	modal      *ModalController
}

// NewIntegrator builds an integrator with safe defaults.
func NewIntegrator(opts IntegratorOptions) (*Integrator, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("widget: integrator requires a widget source")
	}
	if opts.Containers == nil {
		return nil, fmt.Errorf("widget: integrator requires a container source")
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Settings == nil {
		opts.Settings = NewInMemorySettingsStore()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Events = normalizeEventHook(opts.Events)
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = 1280
	}
	return &Integrator{
		opts:       opts,
		labels:     NewLabels(opts.Locale, opts.LabelOverrides),
		widgets:    map[string]*WidgetView{},
		carousels:  map[string]*CarouselController{},
		slideWidth: map[string]float64{},
		settings:   DefaultDisplaySettings(),
	}, nil
}

// Labels returns the resolved label set.
func (m *Integrator) Labels() Labels { return m.labels }

// Modal returns the page-wide modal controller, constructing it lazily on
// first use.
func (m *Integrator) Modal() *ModalController {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modalLocked()
}

func (m *Integrator) modalLocked() *ModalController {
	if m.modal == nil {
		m.modal = NewModalController(ModalOptions{
			Cart:      m.opts.Cart,
			Labels:    m.labels,
			Theme:     m.opts.Theme,
			Settings:  m.settings,
			Clock:     m.opts.Clock,
			Events:    m.opts.Events,
			Telemetry: m.opts.Telemetry,
			Sink:      m.opts.Sink,
		})
	}
	return m.modal
}

// Run discovers containers and renders each one to the configured sink.
// Per-container failures are cleared surfaces plus telemetry, never
// errors; only container discovery itself can fail.
func (m *Integrator) Run(ctx context.Context) error {
	return m.run(ctx, m.opts.Sink)
}

// Plan renders every container and returns the instruction trees instead
// of pushing them to the sink. Used by transports and tooling.
func (m *Integrator) Plan(ctx context.Context) (map[string]*Node, error) {
	var mu sync.Mutex
	plan := map[string]*Node{}
	err := m.run(ctx, func(surface string, node *Node) {
		mu.Lock()
		defer mu.Unlock()
		plan[surface] = node
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (m *Integrator) run(ctx context.Context, sink RenderSink) error {
	containers, err := m.opts.Containers.Containers(ctx)
	if err != nil {
		return fmt.Errorf("widget: discover containers: %w", err)
	}
	m.resolveSettings(ctx, containers)

	var wg sync.WaitGroup
	for _, container := range containers {
		wg.Add(1)
		go func(c ContainerConfig) {
			defer wg.Done()
			m.renderContainer(ctx, c, sink)
		}(container)
	}
	wg.Wait()
	return nil
}

func (m *Integrator) resolveSettings(ctx context.Context, containers []ContainerConfig) {
	for _, c := range containers {
		if c.Shop == "" {
			continue
		}
		settings, err := m.opts.Settings.DisplaySettings(ctx, c.Shop)
		if err != nil {
			m.opts.Telemetry.Record(ctx, "widget.settings.error", map[string]any{
				"shop": c.Shop, "error": err.Error(),
			})
			return
		}
		m.mu.Lock()
		m.settings = settings
		m.mu.Unlock()
		return
	}
}

func (m *Integrator) renderContainer(ctx context.Context, container ContainerConfig, sink RenderSink) {
	clear := func() {
		if sink != nil {
			sink(container.ID, nil)
		}
	}
	if container.Shop == "" {
		m.opts.Telemetry.Record(ctx, "widget.container.skipped", map[string]any{
			"container": container.ID, "reason": "missing shop",
		})
		clear()
		return
	}
	path := container.Path
	if path == "" {
		path = m.opts.Containers.PagePath()
	}
	ctx = ContextWithSession(ctx, EmbedSession{Shop: container.Shop, Path: path, Locale: m.labels.Locale()})

	views, err := m.opts.Source.FetchWidgets(ctx, WidgetQuery{
		Shop:       container.Shop,
		Path:       path,
		WidgetType: container.WidgetType,
	})
	if err != nil {
		m.opts.Telemetry.Record(ctx, "widget.fetch.failed", map[string]any{
			"container": container.ID, "error": err.Error(),
		})
		clear()
		return
	}
	if len(views) == 0 {
		m.opts.Telemetry.Record(ctx, "widget.fetch.empty", map[string]any{
			"container": container.ID,
		})
		clear()
		return
	}

	// Single-purpose containers take the first returned widget.
	view := views[0]
	if len(view.Videos) == 0 {
		m.opts.Telemetry.Record(ctx, "widget.videos.empty", map[string]any{
			"container": container.ID, "widget": view.ID,
		})
		clear()
		return
	}
	renderer, ok := m.opts.Registry.Renderer(view.Type)
	if !ok {
		m.opts.Telemetry.Record(ctx, "widget.type.unknown", map[string]any{
			"container": container.ID, "type": string(view.Type),
		})
		_ = m.opts.Events.EngineEvent(ctx, EngineEvent{
			Kind: EventWidgetSkipped, ContainerID: container.ID, WidgetID: view.ID,
		})
		clear()
		return
	}

	m.mu.Lock()
	m.widgets[view.ID] = &view
	settings := m.settings
	var carousel *CarouselController
	if view.Type == TypeCarousel {
		carousel = NewCarouselController(&view, m.opts.ViewportWidth, CarouselOptions{
			Breakpoints: settings.Breakpoints,
			Gap:         settings.SlideGap,
			ResizeDelay: settings.ResizeDelay(),
			Clock:       m.opts.Clock,
			OnChange:    func() { m.repaintCarousel(ctx, container.ID) },
		})
		m.carousels[container.ID] = carousel
	}
	m.mu.Unlock()

	node, err := renderer.Render(ctx, RenderContext{
		Container:     container,
		Widget:        &view,
		Settings:      settings,
		Labels:        m.labels,
		Theme:         m.opts.Theme,
		Modal:         m.Modal(),
		Carousel:      carousel,
		ViewportWidth: m.opts.ViewportWidth,
		SlideWidth:    m.measuredSlideWidth(container.ID),
	})
	if err != nil {
		m.opts.Telemetry.Record(ctx, "widget.render.failed", map[string]any{
			"container": container.ID, "error": err.Error(),
		})
		clear()
		return
	}
	if sink != nil {
		sink(container.ID, node)
	}
	_ = m.opts.Events.EngineEvent(ctx, EngineEvent{
		Kind: EventWidgetRendered, ContainerID: container.ID, WidgetID: view.ID,
	})
}

// repaintCarousel re-emits a carousel container after its controller
// changed (navigation, resize, hover).
func (m *Integrator) repaintCarousel(ctx context.Context, containerID string) {
	m.mu.Lock()
	carousel := m.carousels[containerID]
	settings := m.settings
	width := m.measuredSlideWidthLocked(containerID)
	m.mu.Unlock()
	if carousel == nil || m.opts.Sink == nil {
		return
	}
	m.opts.Sink(containerID, carouselView(carousel, width, m.opts.Theme, settings.AutoplayPreviews))
}

// SetSlideWidth records the host-measured slide box for a container.
func (m *Integrator) SetSlideWidth(containerID string, width float64) {
	m.mu.Lock()
	m.slideWidth[containerID] = width
	m.mu.Unlock()
}

func (m *Integrator) measuredSlideWidth(containerID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.measuredSlideWidthLocked(containerID)
}

func (m *Integrator) measuredSlideWidthLocked(containerID string) float64 {
	if w, ok := m.slideWidth[containerID]; ok && w > 0 {
		return w
	}
	return defaultSlideWidth
}

// CarouselFor returns the pagination controller for a container, if any.
func (m *Integrator) CarouselFor(containerID string) (*CarouselController, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carousels[containerID]
	return c, ok
}

// Widget returns a fetched widget by id.
func (m *Integrator) Widget(id string) (*WidgetView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.widgets[id]
	return w, ok
}

// HandleAction routes a host interaction back into the engine. Unknown or
// stale actions are no-ops: the surface they referenced may already be
// gone.
func (m *Integrator) HandleAction(ctx context.Context, containerID string, action Action) {
	switch action.Name {
	case ActionModalOpen:
		widgetID, _ := action.Args["widget_id"].(string)
		w, ok := m.Widget(widgetID)
		if !ok {
			return
		}
		source, _ := ParseWidgetType(stringArg(action.Args, "source"))
		_ = m.Modal().Open(ctx, w, intArg(action.Args, "index"), source)
	case ActionModalPrev:
		m.Modal().ChangeSlide(ctx, -1)
	case ActionModalNext:
		m.Modal().ChangeSlide(ctx, +1)
	case ActionModalJump:
		m.Modal().JumpTo(ctx, intArg(action.Args, "index"))
	case ActionModalClose:
		m.Modal().Close(ctx)
	case ActionCartAdd:
		m.handleCartAdd(ctx, action)
	case ActionCarouselPrev:
		if c, ok := m.CarouselFor(containerID); ok {
			c.Prev()
		}
	case ActionCarouselNext:
		if c, ok := m.CarouselFor(containerID); ok {
			c.Next()
		}
	}
}

func (m *Integrator) handleCartAdd(ctx context.Context, action Action) {
	modal := m.Modal()
	state := modal.State()
	if !state.Open {
		return
	}
	productID := stringArg(action.Args, "product_id")
	video := state.Widget.Videos[state.Index]
	for _, product := range video.Products {
		if product.ID == productID {
			modal.AddToCart(ctx, product)
			return
		}
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
