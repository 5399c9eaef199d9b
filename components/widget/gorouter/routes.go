package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	widget "github.com/shopreels/go-widgets/components/widget"
	"github.com/shopreels/go-widgets/components/widget/commands"
	"github.com/shopreels/go-widgets/components/widget/httpapi"
)

// ShopResolver extracts the shop domain from an incoming request.
type ShopResolver func(router.Context) string

// Config wires go-router with the widget engine's controller, API, and
// event stream.
type Config[T any] struct {
	Router       router.Router[T]
	Controller   *widget.Controller
	API          httpapi.Executor
	Broadcast    *widget.BroadcastHook
	ShopResolver ShopResolver
	BasePath     string
	Routes       RouteConfig
}

// RouteConfig customizes the relative paths used for widget endpoints.
type RouteConfig struct {
	Preview   string
	Plan      string
	Widgets   string
	Action    string
	Settings  string
	Refresh   string
	WebSocket string
}

// Register mounts widget routes (preview HTML, plan JSON, REST actions,
// WebSocket events) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/widgets"
	}
	shopResolver := cfg.ShopResolver
	if shopResolver == nil {
		shopResolver = defaultShopResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.Preview, router.WrapHandler(func(ctx router.Context) error {
		html, err := cfg.Controller.RenderPreview(ctx.Context(), shopResolver(ctx))
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(html))
	}))

	group.Get(routes.Plan, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.Plan(ctx.Context())
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, shopResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerEvents(group, cfg.Broadcast, routes)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ShopResolver, routes RouteConfig) {
	r.Get(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		query := widget.WidgetQuery{
			Shop: resolver(ctx),
			Path: ctx.Query("path"),
		}
		if t, ok := widget.ParseWidgetType(ctx.Query("widgetType")); ok {
			query.WidgetType = t
		}
		views, err := api.Widgets(ctx.Context(), query)
		if err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"widgets": views},
		})
	}))

	r.Post(routes.Action, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.DispatchActionInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Dispatch(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "dispatched"})
	}))

	r.Post(routes.Settings, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SaveSettingsInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if payload.Shop == "" {
			payload.Shop = resolver(ctx)
		}
		if err := api.SaveSettings(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusUnprocessableEntity, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshContainersInput
		if body := ctx.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))
}

func registerEvents[T any](r router.Router[T], hook *widget.BroadcastHook, routes RouteConfig) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(routes.WebSocket, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultShopResolver(ctx router.Context) string {
	if shop, ok := ctx.Locals("shop").(string); ok && shop != "" {
		return shop
	}
	if shop := strings.TrimSpace(ctx.Query("shop")); shop != "" {
		return strings.ToLower(shop)
	}
	return ""
}

// InferLocale resolves the request locale for label resolution.
func InferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Preview == "" {
		routes.Preview = "/preview"
	}
	if routes.Plan == "" {
		routes.Plan = "/plan"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/list"
	}
	if routes.Action == "" {
		routes.Action = "/action"
	}
	if routes.Settings == "" {
		routes.Settings = "/settings"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/refresh"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
