package widget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SettingsValidator validates display settings payloads against the
// renderer's schema before they reach the settings store.
type SettingsValidator interface {
	Validate(def RendererDefinition, settings map[string]any) error
}

// JSONSchemaValidator compiles renderer schemas and validates settings maps.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[WidgetType]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[WidgetType]*jsonschema.Schema),
	}
}

// Validate ensures the provided settings satisfy the renderer schema.
func (v *JSONSchemaValidator) Validate(def RendererDefinition, settings map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	var payload map[string]any
	if settings == nil {
		payload = map[string]any{}
	} else {
		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("widget: marshal settings for %s: %w", def.Type, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("widget: normalize settings for %s: %w", def.Type, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("widget: settings for %s failed validation: %w", def.Type, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(def RendererDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Type]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("widget: marshal schema %s: %w", def.Type, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(def.Type) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("widget: load schema %s: %w", def.Type, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("widget: compile schema %s: %w", def.Type, err)
	}
	v.mu.Lock()
	v.compiled[def.Type] = compiled
	v.mu.Unlock()
	return compiled, nil
}

type noopSettingsValidator struct{}

func (noopSettingsValidator) Validate(RendererDefinition, map[string]any) error { return nil }
