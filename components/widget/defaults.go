package widget

import "context"

// DefaultRendererDefinitions describes the three built-in presentations.
func DefaultRendererDefinitions() []RendererDefinition {
	return []RendererDefinition{
		{
			Type:        TypeStory,
			Name:        "Story Bar",
			Description: "Row of circular story thumbnails with auto-advancing playback",
			Schema:      displaySettingsSchema(),
		},
		{
			Type:        TypeFloating,
			Name:        "Floating Bubble",
			Description: "Page-fixed bubble previewing the first video",
			Schema:      displaySettingsSchema(),
		},
		{
			Type:        TypeCarousel,
			Name:        "Video Carousel",
			Description: "Horizontally paginated strip of video slides",
			Schema:      displaySettingsSchema(),
		},
	}
}

func displaySettingsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"slide_gap": map[string]any{
				"type": "integer", "minimum": 0, "maximum": 64,
			},
			"feedback_delay_ms": map[string]any{
				"type": "integer", "minimum": 250, "maximum": 10000,
			},
			"resize_delay_ms": map[string]any{
				"type": "integer", "minimum": 16, "maximum": 1000,
			},
			"autoplay_previews": map[string]any{"type": "boolean"},
			"accent_color":      map[string]any{"type": "string"},
			"breakpoints": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"min_width", "slides"},
					"properties": map[string]any{
						"min_width": map[string]any{"type": "integer", "minimum": 1},
						"slides":    map[string]any{"type": "integer", "minimum": 1, "maximum": 8},
					},
				},
			},
		},
	}
}

var defaultRenderers = map[WidgetType]WidgetRenderer{
	TypeStory: RendererFunc(func(_ context.Context, rc RenderContext) (*Node, error) {
		return storyRowView(rc.Widget, rc.Theme), nil
	}),
	TypeFloating: RendererFunc(func(_ context.Context, rc RenderContext) (*Node, error) {
		return floatingView(rc.Widget, rc.Theme), nil
	}),
	TypeCarousel: RendererFunc(func(_ context.Context, rc RenderContext) (*Node, error) {
		return carouselView(rc.Carousel, rc.SlideWidth, rc.Theme, rc.Settings.AutoplayPreviews), nil
	}),
}

// DemoWidgets returns fixture widgets used by the preview host and the
// example application.
func DemoWidgets() []WidgetView {
	products := []ProductView{
		{
			ID:        "prod-1",
			Title:     "Linen Overshirt",
			Image:     "https://cdn.example.com/products/overshirt.jpg",
			Price:     NewPrice("64.00"),
			Handle:    "linen-overshirt",
			VariantID: "gid://shopify/ProductVariant/41001",
		},
		{
			ID:     "prod-2",
			Title:  "Canvas Tote",
			Price:  NewPrice("28.50"),
			Handle: "canvas-tote",
		},
	}
	videos := []VideoView{
		{
			ID:           "vid-1",
			Title:        "Spring lookbook",
			VideoURL:     "https://cdn.example.com/videos/spring.mp4",
			ThumbnailURL: "https://cdn.example.com/videos/spring.jpg",
			Products:     products,
		},
		{
			ID:           "vid-2",
			Title:        "Behind the seams",
			VideoURL:     "https://cdn.example.com/videos/seams.mp4",
			ThumbnailURL: "https://cdn.example.com/videos/seams.jpg",
		},
		{
			ID:           "vid-3",
			VideoURL:     "https://cdn.example.com/videos/fit.mp4",
			ThumbnailURL: "https://cdn.example.com/videos/fit.jpg",
			Products:     products[:1],
		},
	}
	return []WidgetView{
		{ID: "wid-story", Type: TypeStory, Title: "Stories", Videos: videos},
		{ID: "wid-float", Type: TypeFloating, Title: "Bubble", Videos: videos[:2]},
		{ID: "wid-carousel", Type: TypeCarousel, Title: "Shop the look", Videos: videos},
	}
}
