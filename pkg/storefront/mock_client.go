package storefront

import (
	"context"
	"sync"

	widget "github.com/shopreels/go-widgets/components/widget"
)

// MockClient implements widget.WidgetSource and widget.CartService using
// in-memory fixtures.
type MockClient struct {
	mu      sync.RWMutex
	widgets []widget.WidgetView
	carted  []widget.CartAddRequest

	// FetchErr and CartErr force failures for tests.
	FetchErr error
	CartErr  error
}

// NewMockClient builds a mock storefront client from the provided fixtures.
func NewMockClient(widgets ...widget.WidgetView) *MockClient {
	return &MockClient{widgets: widgets}
}

// FetchWidgets returns the configured widgets, filtered by type when the
// query is scoped.
func (c *MockClient) FetchWidgets(_ context.Context, query widget.WidgetQuery) ([]widget.WidgetView, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.FetchErr != nil {
		return nil, c.FetchErr
	}
	out := make([]widget.WidgetView, 0, len(c.widgets))
	for _, w := range c.widgets {
		if query.WidgetType != "" && w.Type != query.WidgetType {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// AddToCart records the request.
func (c *MockClient) AddToCart(_ context.Context, req widget.CartAddRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CartErr != nil {
		return c.CartErr
	}
	c.carted = append(c.carted, req)
	return nil
}

// CartAdds returns every recorded cart mutation.
func (c *MockClient) CartAdds() []widget.CartAddRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]widget.CartAddRequest, len(c.carted))
	copy(out, c.carted)
	return out
}
