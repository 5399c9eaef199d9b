package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	widget "github.com/shopreels/go-widgets/components/widget"
)

// SaveSettingsInput updates a shop's display settings. Raw holds the
// untrusted payload exactly as the transport received it.
type SaveSettingsInput struct {
	Shop       string            `json:"shop"`
	WidgetType widget.WidgetType `json:"widget_type"`
	Raw        map[string]any    `json:"settings"`
}

// SaveSettingsCommand validates a settings payload against the renderer
// schema before persisting it.
type SaveSettingsCommand struct {
	store     widget.SettingsStore
	registry  *widget.Registry
	validator widget.SettingsValidator
	telemetry Telemetry
}

// NewSaveSettingsCommand wires dependencies.
func NewSaveSettingsCommand(store widget.SettingsStore, registry *widget.Registry, validator widget.SettingsValidator, telemetry Telemetry) *SaveSettingsCommand {
	return &SaveSettingsCommand{
		store:     store,
		registry:  registry,
		validator: validator,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SaveSettingsInput] = (*SaveSettingsCommand)(nil)

// Execute validates and persists the settings.
func (c *SaveSettingsCommand) Execute(ctx context.Context, msg SaveSettingsInput) error {
	if c.store == nil {
		return errors.New("settings command requires store")
	}
	if msg.Shop == "" {
		return errors.New("settings command requires a shop domain")
	}
	if c.validator != nil && c.registry != nil {
		if def, ok := c.registry.Definition(msg.WidgetType); ok {
			if err := c.validator.Validate(def, msg.Raw); err != nil {
				return err
			}
		}
	}
	settings, err := decodeSettings(msg.Raw)
	if err != nil {
		return err
	}
	if err := c.store.SaveDisplaySettings(ctx, msg.Shop, settings); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "widget.settings.save", map[string]any{
		"shop": msg.Shop,
		"type": string(msg.WidgetType),
	})
	return nil
}

func decodeSettings(raw map[string]any) (widget.DisplaySettings, error) {
	settings := widget.DefaultDisplaySettings()
	if len(raw) == 0 {
		return settings, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return settings, fmt.Errorf("settings command: marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("settings command: decode payload: %w", err)
	}
	return settings, nil
}
