package commands

import (
	"context"
	"errors"
	"testing"

	widget "github.com/shopreels/go-widgets/components/widget"
)

type stubEngine struct {
	actions  []widget.Action
	runCalls int
	runErr   error
}

func (s *stubEngine) HandleAction(_ context.Context, _ string, action widget.Action) {
	s.actions = append(s.actions, action)
}

func (s *stubEngine) Run(context.Context) error {
	s.runCalls++
	return s.runErr
}

type stubTelemetry struct {
	calls int
}

func (s *stubTelemetry) Record(context.Context, string, map[string]any) { s.calls++ }

func TestDispatchActionCommand(t *testing.T) {
	engine := &stubEngine{}
	telemetry := &stubTelemetry{}
	cmd := NewDispatchActionCommand(engine, telemetry)
	input := DispatchActionInput{
		ContainerID: "sv-hero",
		Action:      widget.Action{Name: widget.ActionModalNext},
	}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(engine.actions) != 1 || engine.actions[0].Name != widget.ActionModalNext {
		t.Fatalf("actions = %+v", engine.actions)
	}
	if telemetry.calls == 0 {
		t.Fatalf("expected telemetry to record the dispatch")
	}
}

func TestDispatchActionCommandRequiresName(t *testing.T) {
	cmd := NewDispatchActionCommand(&stubEngine{}, nil)
	if err := cmd.Execute(context.Background(), DispatchActionInput{}); err == nil {
		t.Fatalf("expected error for missing action name")
	}
}

func TestRefreshContainersCommand(t *testing.T) {
	engine := &stubEngine{}
	cmd := NewRefreshContainersCommand(engine, nil)
	if err := cmd.Execute(context.Background(), RefreshContainersInput{Reason: "settings changed"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if engine.runCalls != 1 {
		t.Fatalf("runCalls = %d, want 1", engine.runCalls)
	}
}

func TestRefreshContainersCommandPropagatesError(t *testing.T) {
	engine := &stubEngine{runErr: errors.New("discovery failed")}
	cmd := NewRefreshContainersCommand(engine, nil)
	if err := cmd.Execute(context.Background(), RefreshContainersInput{}); err == nil {
		t.Fatalf("expected Run error to propagate")
	}
}

func TestSaveSettingsCommand(t *testing.T) {
	store := widget.NewInMemorySettingsStore()
	registry := widget.NewRegistry()
	cmd := NewSaveSettingsCommand(store, registry, widget.NewJSONSchemaValidator(), nil)
	err := cmd.Execute(context.Background(), SaveSettingsInput{
		Shop:       "demo.myshopify.com",
		WidgetType: widget.TypeCarousel,
		Raw:        map[string]any{"slide_gap": 24},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	saved, _ := store.DisplaySettings(context.Background(), "demo.myshopify.com")
	if saved.SlideGap != 24 {
		t.Fatalf("SlideGap = %d, want 24", saved.SlideGap)
	}
}

func TestSaveSettingsCommandRejectsInvalid(t *testing.T) {
	store := widget.NewInMemorySettingsStore()
	registry := widget.NewRegistry()
	cmd := NewSaveSettingsCommand(store, registry, widget.NewJSONSchemaValidator(), nil)
	err := cmd.Execute(context.Background(), SaveSettingsInput{
		Shop:       "demo.myshopify.com",
		WidgetType: widget.TypeCarousel,
		Raw:        map[string]any{"slide_gap": 500},
	})
	if err == nil {
		t.Fatalf("expected schema validation error")
	}
	if err := cmd.Execute(context.Background(), SaveSettingsInput{}); err == nil {
		t.Fatalf("expected error for missing shop")
	}
}
