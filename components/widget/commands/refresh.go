package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// RefreshContainersInput re-runs the full container render pass.
type RefreshContainersInput struct {
	Reason string `json:"reason,omitempty"`
}

type containerRunner interface {
	Run(ctx context.Context) error
}

// RefreshContainersCommand re-discovers and re-renders every container,
// pushing fresh trees to the host sink.
type RefreshContainersCommand struct {
	engine    containerRunner
	telemetry Telemetry
}

// NewRefreshContainersCommand creates the command.
func NewRefreshContainersCommand(engine containerRunner, telemetry Telemetry) *RefreshContainersCommand {
	return &RefreshContainersCommand{engine: engine, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshContainersInput] = (*RefreshContainersCommand)(nil)

// Execute re-runs the integrator.
func (c *RefreshContainersCommand) Execute(ctx context.Context, msg RefreshContainersInput) error {
	if c.engine == nil {
		return errors.New("refresh command requires engine")
	}
	if err := c.engine.Run(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "widget.containers.refresh", map[string]any{
		"reason": msg.Reason,
	})
	return nil
}
