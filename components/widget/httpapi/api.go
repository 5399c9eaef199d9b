package httpapi

import (
	"encoding/json"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	widget "github.com/shopreels/go-widgets/components/widget"
	"github.com/shopreels/go-widgets/components/widget/commands"
	"github.com/shopreels/go-widgets/components/widget/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Dispatch gocommand.Commander[commands.DispatchActionInput]
	Settings gocommand.Commander[commands.SaveSettingsInput]
	Refresh  gocommand.Commander[commands.RefreshContainersInput]
	Plan     gocommand.Querier[queries.PlanRequest, widget.PlanPayload]
	Widgets  gocommand.Querier[widget.WidgetQuery, []widget.WidgetView]
}

func (h *Handlers) HandleDispatchAction(w http.ResponseWriter, r *http.Request) {
	var payload commands.DispatchActionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Dispatch.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var payload commands.SaveSettingsInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Settings.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRefreshContainers(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshContainersInput
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleRenderPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Plan.Query(r.Context(), queries.PlanRequest{Shop: r.URL.Query().Get("shop")})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(plan)
}

func (h *Handlers) HandleWidgetList(w http.ResponseWriter, r *http.Request) {
	query := widget.WidgetQuery{
		Shop: r.URL.Query().Get("shop"),
		Path: r.URL.Query().Get("path"),
	}
	if t, ok := widget.ParseWidgetType(r.URL.Query().Get("widgetType")); ok {
		query.WidgetType = t
	}
	views, err := h.Widgets.Query(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    map[string]any{"widgets": views},
	})
}
