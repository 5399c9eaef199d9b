package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	widget "github.com/shopreels/go-widgets/components/widget"
)

// DispatchActionInput carries one host interaction into the engine.
type DispatchActionInput struct {
	ContainerID string        `json:"container_id"`
	Action      widget.Action `json:"action"`
}

type actionDispatcher interface {
	HandleAction(ctx context.Context, containerID string, action widget.Action)
}

// DispatchActionCommand routes surface interactions (modal navigation,
// carousel paging, cart adds) without linking transports against the
// integrator.
type DispatchActionCommand struct {
	engine    actionDispatcher
	telemetry Telemetry
}

// NewDispatchActionCommand creates a command instance.
func NewDispatchActionCommand(engine actionDispatcher, telemetry Telemetry) *DispatchActionCommand {
	return &DispatchActionCommand{engine: engine, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DispatchActionInput] = (*DispatchActionCommand)(nil)

// Execute delegates to the integrator's action router.
func (c *DispatchActionCommand) Execute(ctx context.Context, msg DispatchActionInput) error {
	if c.engine == nil {
		return errors.New("dispatch command requires engine")
	}
	if msg.Action.Name == "" {
		return errors.New("dispatch command requires an action name")
	}
	c.engine.HandleAction(ctx, msg.ContainerID, msg.Action)
	c.telemetry.Record(ctx, "widget.action.dispatch", map[string]any{
		"container_id": msg.ContainerID,
		"action":       msg.Action.Name,
	})
	return nil
}
