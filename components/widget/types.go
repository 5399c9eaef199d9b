package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// WidgetType selects which presentation a container renders.
type WidgetType string

const (
	TypeStory    WidgetType = "story"
	TypeFloating WidgetType = "floating"
	TypeCarousel WidgetType = "carousel"
)

// ParseWidgetType normalizes raw type strings. The historical alias
// "stories" resolves to TypeStory.
func ParseWidgetType(raw string) (WidgetType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "story", "stories":
		return TypeStory, true
	case "floating":
		return TypeFloating, true
	case "carousel":
		return TypeCarousel, true
	default:
		return "", false
	}
}

// WidgetView is an immutable snapshot of a widget and its ordered videos,
// created once per page load from the widget-list response.
type WidgetView struct {
	ID     string      `json:"id"`
	Type   WidgetType  `json:"type"`
	Title  string      `json:"title,omitempty"`
	Videos []VideoView `json:"videos"`
}

// UnmarshalJSON accepts both the list endpoint's widgetType key and the
// raw type aliases used by older embeds.
func (w *WidgetView) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID      string      `json:"id"`
		Type    string      `json:"type"`
		APIType string      `json:"widgetType"`
		Title   string      `json:"title"`
		Videos  []VideoView `json:"videos"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	w.ID = a.ID
	w.Title = a.Title
	w.Videos = a.Videos
	raw := a.Type
	if raw == "" {
		raw = a.APIType
	}
	if t, ok := ParseWidgetType(raw); ok {
		w.Type = t
	} else {
		w.Type = WidgetType(raw)
	}
	return nil
}

// VideoView describes one playable video and the products tagged on it.
type VideoView struct {
	ID           string        `json:"id"`
	Title        string        `json:"title,omitempty"`
	VideoURL     string        `json:"videoUrl"`
	ThumbnailURL string        `json:"thumbnailUrl,omitempty"`
	Description  string        `json:"description,omitempty"`
	Products     []ProductView `json:"products,omitempty"`
}

// ProductView is a shoppable product tagged on a video. VariantID gates the
// cart-add action; Handle backs the derived product URL.
type ProductView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Image      string `json:"image,omitempty"`
	Price      Price  `json:"price,omitempty"`
	Handle     string `json:"handle,omitempty"`
	ProductURL string `json:"productUrl,omitempty"`
	VariantID  string `json:"variantId,omitempty"`
}

// URL returns the navigable product link: the explicit URL when present,
// otherwise /products/{handle}, otherwise empty (non-navigable).
func (p ProductView) URL() string {
	if p.ProductURL != "" {
		return p.ProductURL
	}
	if p.Handle != "" {
		return "/products/" + p.Handle
	}
	return ""
}

// Price tolerates numeric, string, null, and absent values in the widget
// list payload.
type Price struct {
	raw   string
	valid bool
}

// NewPrice builds a price from a raw display value.
func NewPrice(raw string) Price {
	raw = strings.TrimSpace(raw)
	return Price{raw: raw, valid: raw != ""}
}

// UnmarshalJSON accepts numbers and strings; anything else parses as absent.
func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*p = Price{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = NewPrice(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*p = NewPrice(n.String())
		return nil
	}
	*p = Price{}
	return nil
}

// MarshalJSON emits the raw value as a string, or null when absent.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.raw)
}

// IsZero reports whether no usable price was supplied.
func (p Price) IsZero() bool { return !p.valid }

// Format renders the price for product cards. Numeric values gain a
// currency prefix and two decimals; non-numeric values pass through.
func (p Price) Format(symbol string) string {
	if !p.valid {
		return ""
	}
	if f, err := strconv.ParseFloat(p.raw, 64); err == nil {
		return fmt.Sprintf("%s%.2f", symbol, f)
	}
	return p.raw
}

// ContainerConfig is the per-container configuration read from the host
// page (or a container manifest): which shop/path to fetch and which
// renderer the container is scoped to.
type ContainerConfig struct {
	ID         string     `json:"id" yaml:"id"`
	Shop       string     `json:"shop" yaml:"shop"`
	Path       string     `json:"path,omitempty" yaml:"path,omitempty"`
	WidgetType WidgetType `json:"widget_type,omitempty" yaml:"widget_type,omitempty"`
}

// WidgetQuery identifies one widget-list fetch.
type WidgetQuery struct {
	Shop       string
	Path       string
	WidgetType WidgetType
}

// WidgetSource fetches the live widget list for a shop page. Production
// hosts use pkg/storefront.HTTPClient.
type WidgetSource interface {
	FetchWidgets(ctx context.Context, query WidgetQuery) ([]WidgetView, error)
}

// CartService submits cart mutations on behalf of product cards.
type CartService interface {
	AddToCart(ctx context.Context, req CartAddRequest) error
}

// CartAddRequest is the outbound cart mutation body. Quantity is fixed at 1
// by the engine; there is no quantity selector on this surface.
type CartAddRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// ContainerSource discovers widget containers on the host page. Containers
// are expected to exist at initialization time; late insertions are not
// observed.
type ContainerSource interface {
	Containers(ctx context.Context) ([]ContainerConfig, error)
	PagePath() string
}

// RenderSink receives render instruction trees for a named surface. A nil
// node clears the surface.
type RenderSink func(surface string, node *Node)
