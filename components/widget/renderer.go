package widget

import (
	"context"
	"io"
)

// WidgetRenderer builds the inline render tree for one widget type.
type WidgetRenderer interface {
	Render(ctx context.Context, rc RenderContext) (*Node, error)
}

// RendererFunc adapts a function to the WidgetRenderer interface.
type RendererFunc func(ctx context.Context, rc RenderContext) (*Node, error)

// Render invokes the function.
func (f RendererFunc) Render(ctx context.Context, rc RenderContext) (*Node, error) {
	return f(ctx, rc)
}

// RenderContext carries everything a renderer needs for one container.
type RenderContext struct {
	Container ContainerConfig
	Widget    *WidgetView
	Settings  DisplaySettings
	Labels    Labels
	Theme     *ThemeSelection
	Modal     *ModalController
	// Carousel is populated for carousel containers and owns the
	// container's pagination state across re-renders.
	Carousel *CarouselController
	// ViewportWidth and SlideWidth are measured by the host.
	ViewportWidth int
	SlideWidth    float64
}

// Renderer is the template renderer contract used by the preview surface.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
