package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func presetFor(t *testing.T, kind ChartKind) ChartPreset {
	t.Helper()
	preset, ok := NewPresetRegistry().Preset(kind)
	require.True(t, ok)
	return preset
}

func TestValidateAcceptsTitleOverride(t *testing.T) {
	v := NewSchemaValidator()
	err := v.Validate(presetFor(t, ChartLine), map[string]any{"title": "Steps today"})
	assert.NoError(t, err)
}

func TestValidateRejectsUnknownKey(t *testing.T) {
	v := NewSchemaValidator()
	err := v.Validate(presetFor(t, ChartLine), map[string]any{"yMax": 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "linechart")
}

func TestValidateRejectsWrongType(t *testing.T) {
	v := NewSchemaValidator()
	err := v.Validate(presetFor(t, ChartBar), map[string]any{"yMax": "tall"})
	assert.Error(t, err)
}

func TestValidateBarChartOverrides(t *testing.T) {
	v := NewSchemaValidator()
	err := v.Validate(presetFor(t, ChartBar), map[string]any{
		"title": "Steps per hour",
		"yMax":  2000,
		"yUnit": "steps",
	})
	assert.NoError(t, err)
}

func TestValidatePieChartOverrides(t *testing.T) {
	v := NewSchemaValidator()
	err := v.Validate(presetFor(t, ChartPie), map[string]any{
		"title":                  "Steps per day",
		"legendHorizontalOffset": -20,
	})
	assert.NoError(t, err)

	err = v.Validate(presetFor(t, ChartPie), map[string]any{"yUnit": "steps"})
	assert.Error(t, err)
}

func TestValidateNilOverrides(t *testing.T) {
	v := NewSchemaValidator()
	assert.NoError(t, v.Validate(presetFor(t, ChartLine), nil))
}

func TestValidateSchemalessPresetAcceptsAnything(t *testing.T) {
	v := NewSchemaValidator()
	preset := ChartPreset{Kind: ChartKind("custom")}
	assert.NoError(t, v.Validate(preset, map[string]any{"anything": true}))
}
