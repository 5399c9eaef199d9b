package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	widget "github.com/shopreels/go-widgets/components/widget"
)

// WidgetListQuery fetches the live widget list for a shop page without
// rendering anything.
type WidgetListQuery struct {
	source widget.WidgetSource
}

// NewWidgetListQuery builds the query.
func NewWidgetListQuery(source widget.WidgetSource) *WidgetListQuery {
	return &WidgetListQuery{source: source}
}

var _ gocommand.Querier[widget.WidgetQuery, []widget.WidgetView] = (*WidgetListQuery)(nil)

// Query fetches widgets for the shop page.
func (q *WidgetListQuery) Query(ctx context.Context, req widget.WidgetQuery) ([]widget.WidgetView, error) {
	return q.source.FetchWidgets(ctx, req)
}
