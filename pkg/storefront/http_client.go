package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	widget "github.com/shopreels/go-widgets/components/widget"
)

// HTTPConfig configures the storefront API client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the widget backend's public storefront endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ widget.WidgetSource = (*HTTPClient)(nil)

// NewHTTPClient builds a client capable of hitting the live widget API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("storefront: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchWidgets calls the widget-list endpoint for a shop page.
func (c *HTTPClient) FetchWidgets(ctx context.Context, query widget.WidgetQuery) ([]widget.WidgetView, error) {
	if query.Shop == "" {
		return nil, fmt.Errorf("storefront: shop is required")
	}
	params := url.Values{}
	params.Set("shop", query.Shop)
	if query.Path != "" {
		params.Set("path", query.Path)
	}
	if query.WidgetType != "" {
		params.Set("widgetType", string(query.WidgetType))
	}
	var resp widgetListResponse
	if err := c.do(ctx, http.MethodGet, "/api/widgets?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("storefront: widget list request rejected: %s", resp.Error)
	}
	return resp.Data.Widgets, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("storefront: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("storefront: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("storefront: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("storefront: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("storefront: decode response: %w", err)
	}
	return nil
}

type widgetListResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		Widgets []widget.WidgetView `json:"widgets"`
	} `json:"data"`
}

// CartConfig configures the shop-local cart client.
type CartConfig struct {
	// ShopURL is the storefront origin the cart endpoint lives under.
	ShopURL    string
	HTTPClient *http.Client
}

// CartHTTPClient submits cart mutations against the storefront's AJAX cart
// endpoint.
type CartHTTPClient struct {
	shopURL string
	client  *http.Client
}

var _ widget.CartService = (*CartHTTPClient)(nil)

// NewCartHTTPClient builds the cart client.
func NewCartHTTPClient(cfg CartConfig) (*CartHTTPClient, error) {
	if cfg.ShopURL == "" {
		return nil, fmt.Errorf("storefront: shop url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &CartHTTPClient{shopURL: cfg.ShopURL, client: httpClient}, nil
}

// AddToCart posts the variant to /cart/add.js. Quantity defaults to 1.
func (c *CartHTTPClient) AddToCart(ctx context.Context, req widget.CartAddRequest) error {
	if req.ID == "" {
		return fmt.Errorf("storefront: cart add requires a variant id")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("storefront: encode cart payload: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.shopURL+"/cart/add.js", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("storefront: build cart request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("storefront: cart request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("storefront: cart add failed %d: %s", resp.StatusCode, buf.String())
	}
	return nil
}
