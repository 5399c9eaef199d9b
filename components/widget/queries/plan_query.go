package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	widget "github.com/shopreels/go-widgets/components/widget"
)

// PlanRequest selects which shop the plan renders for.
type PlanRequest struct {
	Shop string `json:"shop"`
}

type planService interface {
	Plan(ctx context.Context) (widget.PlanPayload, error)
}

// RenderPlanQuery executes a read-only render pass.
type RenderPlanQuery struct {
	service planService
}

// NewRenderPlanQuery builds the query.
func NewRenderPlanQuery(service planService) *RenderPlanQuery {
	return &RenderPlanQuery{service: service}
}

var _ gocommand.Querier[PlanRequest, widget.PlanPayload] = (*RenderPlanQuery)(nil)

// Query renders every container surface.
func (q *RenderPlanQuery) Query(ctx context.Context, _ PlanRequest) (widget.PlanPayload, error) {
	return q.service.Plan(ctx)
}
