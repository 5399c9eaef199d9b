package widget

import (
	"fmt"
	"sync"
)

// RendererHook lets packages register renderers during init().
type RendererHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []RendererHook
)

// RegisterRendererHook registers a hook executed against new registries.
func RegisterRendererHook(h RendererHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// RendererDefinition describes a widget presentation type.
type RendererDefinition struct {
	Type        WidgetType
	Name        string
	Description string
	// Schema validates the display settings a manifest may attach to
	// containers of this type.
	Schema map[string]any
}

// Registry maps widget types to their renderer implementations.
type Registry struct {
	mu          sync.RWMutex
	definitions map[WidgetType]RendererDefinition
	renderers   map[WidgetType]WidgetRenderer
}

// NewRegistry builds a registry with the built-in renderers and applies
// global hooks.
func NewRegistry() *Registry {
	reg := &Registry{
		definitions: map[WidgetType]RendererDefinition{},
		renderers:   map[WidgetType]WidgetRenderer{},
	}
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

func (r *Registry) registerDefaults() {
	for _, def := range DefaultRendererDefinitions() {
		_ = r.RegisterDefinition(def)
		if renderer, ok := defaultRenderers[def.Type]; ok {
			_ = r.RegisterRenderer(def.Type, renderer)
		}
	}
}

// ApplyHooks executes registered renderer hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefinition stores renderer metadata.
func (r *Registry) RegisterDefinition(def RendererDefinition) error {
	if def.Type == "" {
		return fmt.Errorf("widget: renderer definition type is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Type] = def
	return nil
}

// RegisterRenderer associates a renderer implementation with a type.
func (r *Registry) RegisterRenderer(t WidgetType, renderer WidgetRenderer) error {
	if t == "" {
		return fmt.Errorf("widget: renderer type is required")
	}
	if renderer == nil {
		return fmt.Errorf("widget: renderer cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[t]; !ok {
		return fmt.Errorf("widget: renderer definition %s not found", t)
	}
	r.renderers[t] = renderer
	return nil
}

// Definition fetches renderer metadata by type.
func (r *Registry) Definition(t WidgetType) (RendererDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[t]
	return def, ok
}

// Renderer fetches a renderer by widget type.
func (r *Registry) Renderer(t WidgetType) (WidgetRenderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[t]
	return renderer, ok
}

// Definitions returns all registered renderer definitions.
func (r *Registry) Definitions() []RendererDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]RendererDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	return defs
}
