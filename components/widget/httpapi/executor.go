package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	widget "github.com/shopreels/go-widgets/components/widget"
	"github.com/shopreels/go-widgets/components/widget/commands"
	"github.com/shopreels/go-widgets/components/widget/queries"
)

// Executor is the transport-neutral surface the route adapters call into.
type Executor interface {
	Dispatch(ctx context.Context, input commands.DispatchActionInput) error
	SaveSettings(ctx context.Context, input commands.SaveSettingsInput) error
	Refresh(ctx context.Context, input commands.RefreshContainersInput) error
	Plan(ctx context.Context, req queries.PlanRequest) (widget.PlanPayload, error)
	Widgets(ctx context.Context, query widget.WidgetQuery) ([]widget.WidgetView, error)
}

// CommandExecutor adapts the shared commands and queries to the Executor
// interface.
type CommandExecutor struct {
	DispatchCmd gocommand.Commander[commands.DispatchActionInput]
	SettingsCmd gocommand.Commander[commands.SaveSettingsInput]
	RefreshCmd  gocommand.Commander[commands.RefreshContainersInput]
	PlanQry     gocommand.Querier[queries.PlanRequest, widget.PlanPayload]
	WidgetsQry  gocommand.Querier[widget.WidgetQuery, []widget.WidgetView]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Dispatch(ctx context.Context, input commands.DispatchActionInput) error {
	if e.DispatchCmd == nil {
		return errors.New("httpapi: dispatch command not configured")
	}
	return e.DispatchCmd.Execute(ctx, input)
}

func (e *CommandExecutor) SaveSettings(ctx context.Context, input commands.SaveSettingsInput) error {
	if e.SettingsCmd == nil {
		return errors.New("httpapi: settings command not configured")
	}
	return e.SettingsCmd.Execute(ctx, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshContainersInput) error {
	if e.RefreshCmd == nil {
		return errors.New("httpapi: refresh command not configured")
	}
	return e.RefreshCmd.Execute(ctx, input)
}

func (e *CommandExecutor) Plan(ctx context.Context, req queries.PlanRequest) (widget.PlanPayload, error) {
	if e.PlanQry == nil {
		return widget.PlanPayload{}, errors.New("httpapi: plan query not configured")
	}
	return e.PlanQry.Query(ctx, req)
}

func (e *CommandExecutor) Widgets(ctx context.Context, query widget.WidgetQuery) ([]widget.WidgetView, error) {
	if e.WidgetsQry == nil {
		return nil, errors.New("httpapi: widget query not configured")
	}
	return e.WidgetsQry.Query(ctx, query)
}
