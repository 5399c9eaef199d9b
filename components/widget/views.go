package widget

import (
	"fmt"
	"strconv"
)

// Action names dispatched by host surfaces.
const (
	ActionModalOpen    = "modal.open"
	ActionModalPrev    = "modal.prev"
	ActionModalNext    = "modal.next"
	ActionModalJump    = "modal.jump"
	ActionModalClose   = "modal.close"
	ActionCartAdd      = "cart.add"
	ActionCarouselPrev = "carousel.prev"
	ActionCarouselNext = "carousel.next"
)

// View renders the full modal surface for the current state. The host
// keeps one scaffold per page and swaps its content with this tree after
// every transition; a closed modal renders hidden with its video source
// cleared.
func (m *ModalController) View() *Node {
	root := Element("div").WithClass("sv-modal")
	if style := m.theme.CSSVariablesInline(); style != "" {
		root.WithAttr("style", style)
	}
	if !m.state.Open {
		root.WithClass("sv-hidden").WithAttr("data-scroll-lock", "off")
		root.Append(Element("video").WithClass("sv-modal-video").WithAttr("src", ""))
		return root
	}

	w := m.state.Widget
	video := w.Videos[m.state.Index]
	count := len(w.Videos)
	root.WithAttr("data-scroll-lock", "on").WithAttr("data-source", string(m.state.Source))

	root.Append(Element("button").
		WithClass("sv-modal-close").
		WithAction(ActionModalClose, nil).
		Append(Text("×")))

	if m.progress != nil {
		root.Append(storyProgressView(m.progress))
	}

	player := Element("video").
		WithClass("sv-modal-video").
		WithAttr("src", video.VideoURL).
		WithAttr("poster", video.ThumbnailURL).
		WithAttr("playsinline", "true").
		WithAttr("controls", "true")
	if m.playReady {
		// Best effort: hosts swallow autoplay rejections.
		player.WithAttr("autoplay", "true")
	}
	root.Append(player)

	if count > 1 {
		root.Append(
			navButton("sv-modal-prev", ActionModalPrev, !m.canStep(-1)),
			navButton("sv-modal-next", ActionModalNext, !m.canStep(+1)),
		)
	}

	root.Append(
		Element("h3").WithClass("sv-modal-title").Append(Text(video.Title)),
		Element("p").WithClass("sv-modal-description").Append(Text(video.Description)),
		Element("span").WithClass("sv-modal-counter").
			Append(Text(fmt.Sprintf("%d / %d", m.state.Index+1, count))),
	)

	root.Append(productPanelView(video, m.labels))

	if count > 1 {
		root.Append(thumbnailRailView(w, m.state.Index))
	}

	if feedback := m.cart.Feedback(); feedback.Text != "" {
		root.Append(Element("div").
			WithClass("sv-cart-feedback", "sv-cart-feedback-"+string(feedback.Level)).
			Append(Text(feedback.Text)))
	}
	return root
}

func (m *ModalController) canStep(delta int) bool {
	next := m.state.Index + delta
	return next >= 0 && next < len(m.state.Widget.Videos)
}

func navButton(class, action string, disabled bool) *Node {
	btn := Element("button").WithClass(class).WithAction(action, nil)
	if disabled {
		btn.WithAttr("disabled", "disabled")
	}
	return btn
}

func storyProgressView(progress *StoryProgress) *Node {
	strip := Element("div").WithClass("sv-story-progress")
	for i, bar := range progress.Bars() {
		node := Element("div").
			WithClass("sv-story-bar", "sv-story-bar-"+string(bar.Phase)).
			WithAttr("data-index", strconv.Itoa(i)).
			WithAttr("data-fill", strconv.FormatFloat(bar.Fill, 'f', 3, 64))
		strip.Append(node)
	}
	return strip
}

// productPanelView rebuilds the product list for the selected video: an
// empty state when nothing is tagged, otherwise one card per product in
// tag order.
func productPanelView(video VideoView, labels Labels) *Node {
	panel := Element("div").WithClass("sv-product-panel")
	if len(video.Products) == 0 {
		return panel.Append(Element("div").
			WithClass("sv-product-empty").
			Append(
				Element("span").WithClass("sv-product-empty-icon"),
				Element("p").Append(Text(labels.Get(LabelNoProducts))),
			))
	}
	for _, product := range video.Products {
		panel.Append(productCardView(product, labels))
	}
	return panel
}

func productCardView(product ProductView, labels Labels) *Node {
	card := Element("div").WithClass("sv-product-card").
		WithAttr("data-product-id", product.ID)
	if product.Image != "" {
		card.Append(Element("img").
			WithClass("sv-product-image").
			WithAttr("src", product.Image).
			WithAttr("alt", product.Title))
	}
	card.Append(Element("span").WithClass("sv-product-title").Append(Text(product.Title)))
	if price := product.Price.Format("$"); price != "" {
		card.Append(Element("span").WithClass("sv-product-price").Append(Text(price)))
	}
	if url := product.URL(); url != "" {
		card.Append(Element("a").
			WithClass("sv-product-link").
			WithAttr("href", url).
			Append(Text(labels.Get(LabelMoreInfo))))
	}
	if product.VariantID != "" {
		card.Append(Element("button").
			WithClass("sv-product-cart").
			WithAction(ActionCartAdd, map[string]any{
				"product_id": product.ID,
				"variant_id": product.VariantID,
			}).
			Append(Text(labels.Get(LabelAddToCart))))
	}
	return card
}

// thumbnailRailView renders one entry per video; the rail is omitted
// entirely for single-video widgets by the caller. Thumbnail clicks jump
// directly to the index and the active entry scrolls into view.
func thumbnailRailView(w *WidgetView, active int) *Node {
	rail := Element("div").WithClass("sv-thumb-rail")
	for i, video := range w.Videos {
		thumb := Element("img").
			WithClass("sv-thumb").
			WithAttr("src", video.ThumbnailURL).
			WithAttr("alt", video.Title).
			WithAttr("data-index", strconv.Itoa(i)).
			WithAction(ActionModalJump, map[string]any{"index": i})
		if i == active {
			thumb.WithClass("sv-thumb-active").WithAttr("data-scroll-into-view", "smooth")
		}
		rail.Append(thumb)
	}
	return rail
}

func modalErrorView(labels Labels) *Node {
	return Element("div").
		WithClass("sv-modal", "sv-modal-error").
		Append(
			Element("p").WithClass("sv-modal-error-text").
				Append(Text(labels.Get(LabelLoadFailed))),
			Element("button").WithClass("sv-modal-close").
				WithAction(ActionModalClose, nil).
				Append(Text("×")),
		)
}

// storyRowView is the inline story bar: a row of circular thumbnails that
// open the modal in story mode at the clicked index.
func storyRowView(w *WidgetView, theme *ThemeSelection) *Node {
	row := Element("div").WithClass("sv-story-row").
		WithAttr("data-widget-id", w.ID)
	if style := theme.CSSVariablesInline(); style != "" {
		row.WithAttr("style", style)
	}
	for i, video := range w.Videos {
		row.Append(Element("img").
			WithClass("sv-story-thumb").
			WithAttr("src", video.ThumbnailURL).
			WithAttr("alt", video.Title).
			WithAction(ActionModalOpen, map[string]any{
				"widget_id": w.ID,
				"index":     i,
				"source":    string(TypeStory),
			}))
	}
	return row
}

// floatingView is the persistent page-fixed bubble previewing the first
// video, with a count badge when the widget holds more than one.
func floatingView(w *WidgetView, theme *ThemeSelection) *Node {
	first := w.Videos[0]
	bubble := Element("div").WithClass("sv-floating").
		WithAttr("data-widget-id", w.ID).
		WithAction(ActionModalOpen, map[string]any{
			"widget_id": w.ID,
			"index":     0,
			"source":    string(TypeFloating),
		})
	if style := theme.CSSVariablesInline(); style != "" {
		bubble.WithAttr("style", style)
	}
	bubble.Append(Element("video").
		WithClass("sv-floating-preview").
		WithAttr("src", first.VideoURL).
		WithAttr("poster", first.ThumbnailURL).
		WithAttr("muted", "true").
		WithAttr("loop", "true").
		WithAttr("autoplay", "true").
		WithAttr("playsinline", "true"))
	if len(w.Videos) > 1 {
		bubble.Append(Element("span").WithClass("sv-floating-badge").
			Append(Text(strconv.Itoa(len(w.Videos)))))
	}
	return bubble
}

// carouselView renders the paginated slide strip for the controller's
// current state. SlideWidth is measured by the host each pass because the
// slide box is responsive.
func carouselView(c *CarouselController, slideWidth float64, theme *ThemeSelection, autoplayPreviews bool) *Node {
	w := c.widget
	root := Element("div").WithClass("sv-carousel").
		WithAttr("data-widget-id", w.ID)
	if style := theme.CSSVariablesInline(); style != "" {
		root.WithAttr("style", style)
	}

	track := Element("div").WithClass("sv-carousel-track").
		WithAttr("style", fmt.Sprintf("transform: translateX(-%.0fpx)", c.TrackOffset(slideWidth)))
	for i, video := range w.Videos {
		slide := Element("div").WithClass("sv-slide").
			WithAttr("data-index", strconv.Itoa(i)).
			WithAction(ActionModalOpen, map[string]any{
				"widget_id": w.ID,
				"index":     i,
				"source":    string(TypeCarousel),
			})
		preview := Element("video").
			WithClass("sv-slide-preview").
			WithAttr("src", video.VideoURL).
			WithAttr("poster", video.ThumbnailURL).
			WithAttr("muted", "true").
			WithAttr("playsinline", "true")
		if autoplayPreviews && c.Hovered(i) {
			preview.WithAttr("autoplay", "true")
		} else {
			slide.Append(Element("span").WithClass("sv-slide-play"))
		}
		slide.Append(preview)
		if video.Title != "" {
			slide.Append(Element("span").WithClass("sv-slide-title").Append(Text(video.Title)))
		}
		track.Append(slide)
	}
	root.Append(track)

	if len(w.Videos) > c.SlidesToShow() {
		prev := Element("button").WithClass("sv-carousel-prev").WithAction(ActionCarouselPrev, nil)
		if !c.CanPrev() {
			prev.WithAttr("disabled", "disabled")
		}
		next := Element("button").WithClass("sv-carousel-next").WithAction(ActionCarouselNext, nil)
		if !c.CanNext() {
			next.WithAttr("disabled", "disabled")
		}
		root.Append(prev, next)
	}
	return root
}
