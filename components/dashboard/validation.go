package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// OverrideValidator validates caller-supplied preset overrides against the
// chart kind's schema.
type OverrideValidator interface {
	Validate(preset ChartPreset, overrides map[string]any) error
}

// SchemaValidator compiles preset schemas and validates override maps.
type SchemaValidator struct {
	mu       sync.RWMutex
	compiled map[ChartKind]*jsonschema.Schema
}

// NewSchemaValidator builds a validator backed by jsonschema v5.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		compiled: make(map[ChartKind]*jsonschema.Schema),
	}
}

// Validate ensures the overrides satisfy the preset's schema. Presets
// without a schema accept anything.
func (v *SchemaValidator) Validate(preset ChartPreset, overrides map[string]any) error {
	if len(preset.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(preset)
	if err != nil {
		return err
	}
	payload := map[string]any{}
	if overrides != nil {
		data, err := json.Marshal(overrides)
		if err != nil {
			return fmt.Errorf("dashboard: marshal overrides for %s: %w", preset.Kind, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("dashboard: normalize overrides for %s: %w", preset.Kind, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: overrides for %s failed validation: %w", preset.Kind, err)
	}
	return nil
}

func (v *SchemaValidator) schemaFor(preset ChartPreset) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[preset.Kind]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(preset.Schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", preset.Kind, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(preset.Kind) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", preset.Kind, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", preset.Kind, err)
	}
	v.mu.Lock()
	v.compiled[preset.Kind] = compiled
	v.mu.Unlock()
	return compiled, nil
}
