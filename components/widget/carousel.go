package widget

import (
	"fmt"
	"sort"
	"time"
)

// Breakpoint maps a minimum viewport width to the number of visible slides.
type Breakpoint struct {
	MinWidth int `json:"min_width" yaml:"min_width"`
	Slides   int `json:"slides" yaml:"slides"`
}

// BreakpointTable resolves slides-per-view by viewport width. Entries are
// evaluated widest-first; widths below every entry show one slide.
type BreakpointTable []Breakpoint

// DefaultBreakpoints is the shipped responsive table. The two legacy embeds
// disagreed on where the 2- and 3-slide bands began; this table keeps the
// 4-slide band at 1200 and starts the 3-slide band at 1024 so that tablet
// widths around 1000px show two slides, matching live behavior.
var DefaultBreakpoints = BreakpointTable{
	{MinWidth: 1200, Slides: 4},
	{MinWidth: 1024, Slides: 3},
	{MinWidth: 768, Slides: 2},
}

// DefaultSlideGap is the fixed pixel gap between carousel slides.
const DefaultSlideGap = 16

// DefaultResizeDelay debounces re-layout during continuous resizing.
const DefaultResizeDelay = 100 * time.Millisecond

// SlidesFor returns the slide count for a viewport width.
func (t BreakpointTable) SlidesFor(width int) int {
	sorted := append(BreakpointTable(nil), t...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinWidth > sorted[j].MinWidth })
	for _, bp := range sorted {
		if width >= bp.MinWidth {
			return bp.Slides
		}
	}
	return 1
}

// Validate rejects tables with non-positive widths or slide counts.
func (t BreakpointTable) Validate() error {
	for _, bp := range t {
		if bp.MinWidth <= 0 {
			return fmt.Errorf("widget: breakpoint min width must be positive, got %d", bp.MinWidth)
		}
		if bp.Slides <= 0 {
			return fmt.Errorf("widget: breakpoint slide count must be positive, got %d", bp.Slides)
		}
	}
	return nil
}

// CarouselOptions configures a carousel controller.
type CarouselOptions struct {
	Breakpoints BreakpointTable
	Gap         int
	ResizeDelay time.Duration
	Clock       Clock
	OnChange    func()
}

// CarouselController tracks the left-most visible slide of a horizontal
// strip and exposes bounded navigation. All methods are expected to run on
// the host's event goroutine.
type CarouselController struct {
	widget *WidgetView
	opts   CarouselOptions

	width    int
	current  int
	hovered  map[int]bool
	debounce *Debouncer
}

// NewCarouselController builds a controller for the widget at an initial
// viewport width.
func NewCarouselController(w *WidgetView, width int, opts CarouselOptions) *CarouselController {
	if len(opts.Breakpoints) == 0 {
		opts.Breakpoints = DefaultBreakpoints
	}
	if opts.Gap <= 0 {
		opts.Gap = DefaultSlideGap
	}
	if opts.ResizeDelay <= 0 {
		opts.ResizeDelay = DefaultResizeDelay
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	return &CarouselController{
		widget:   w,
		opts:     opts,
		width:    width,
		hovered:  map[int]bool{},
		debounce: NewDebouncer(opts.Clock, opts.ResizeDelay),
	}
}

// Current returns the index of the left-most visible slide.
func (c *CarouselController) Current() int { return c.current }

// SlidesToShow resolves the visible slide count for the current width.
func (c *CarouselController) SlidesToShow() int {
	return c.opts.Breakpoints.SlidesFor(c.width)
}

// MaxIndex is the largest valid value of Current, floored at zero when the
// widget has fewer slides than fit the viewport.
func (c *CarouselController) MaxIndex() int {
	max := len(c.widget.Videos) - c.SlidesToShow()
	if max < 0 {
		return 0
	}
	return max
}

// CanNext reports whether Next would change state.
func (c *CarouselController) CanNext() bool { return c.current < c.MaxIndex() }

// CanPrev reports whether Prev would change state.
func (c *CarouselController) CanPrev() bool { return c.current > 0 }

// Next advances by one slide; at the right boundary it is a no-op.
func (c *CarouselController) Next() bool {
	if !c.CanNext() {
		return false
	}
	c.current++
	c.changed()
	return true
}

// Prev steps back by one slide; at index zero it is a no-op.
func (c *CarouselController) Prev() bool {
	if !c.CanPrev() {
		return false
	}
	c.current--
	c.changed()
	return true
}

// TrackOffset is the horizontal translation in pixels for the slide track.
// Slide width is measured by the host per render pass because it is
// responsive.
func (c *CarouselController) TrackOffset(slideWidth float64) float64 {
	return float64(c.current) * (slideWidth + float64(c.opts.Gap))
}

// Resize schedules a debounced re-layout for the new viewport width.
// Continuous resize events collapse into a single recompute.
func (c *CarouselController) Resize(width int) {
	c.debounce.Trigger(func() { c.applyWidth(width) })
}

// ResizeNow applies a viewport width immediately, bypassing the debounce.
func (c *CarouselController) ResizeNow(width int) {
	c.debounce.Cancel()
	c.applyWidth(width)
}

func (c *CarouselController) applyWidth(width int) {
	c.width = width
	if max := c.MaxIndex(); c.current > max {
		c.current = max
	}
	c.changed()
}

// HoverStart marks a slide as hover-previewing. Purely cosmetic; never
// touches the scroll index.
func (c *CarouselController) HoverStart(index int) {
	if index < 0 || index >= len(c.widget.Videos) {
		return
	}
	c.hovered[index] = true
	c.changed()
}

// HoverEnd clears a slide's hover preview, restoring its overlay.
func (c *CarouselController) HoverEnd(index int) {
	if !c.hovered[index] {
		return
	}
	delete(c.hovered, index)
	c.changed()
}

// Hovered reports whether a slide is currently hover-previewing.
func (c *CarouselController) Hovered(index int) bool { return c.hovered[index] }

func (c *CarouselController) changed() {
	if c.opts.OnChange != nil {
		c.opts.OnChange()
	}
}
