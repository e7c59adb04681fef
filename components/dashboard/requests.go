package dashboard

import (
	"fmt"
	"time"
)

// Builder constructs wire documents for the visualization service. It is
// pure: no I/O, no clock reads (the caller passes now), and identical inputs
// yield structurally identical documents.
type Builder struct {
	presets   *PresetRegistry
	validator OverrideValidator
}

// NewBuilder wires a builder to its preset registry. A nil registry gets the
// defaults; a nil validator gets the JSON-schema one.
func NewBuilder(presets *PresetRegistry, validator OverrideValidator) *Builder {
	if presets == nil {
		presets = NewPresetRegistry()
	}
	if validator == nil {
		validator = NewSchemaValidator()
	}
	return &Builder{presets: presets, validator: validator}
}

// BuildDayRequest covers the full day of date, with the range end clamped to
// now while the day is still in progress.
func (b *Builder) BuildDayRequest(datasetID string, date time.Time, kind ChartKind, agg *AggregationSpec, now time.Time, overrides map[string]any) (VisualizationRequest, error) {
	return b.build(datasetID, DayRange(date, now), kind, agg, overrides)
}

// BuildWeekRequest covers start of the window's Monday through end of its
// Sunday.
func (b *Builder) BuildWeekRequest(datasetID string, week [7]time.Time, kind ChartKind, agg *AggregationSpec, overrides map[string]any) (VisualizationRequest, error) {
	return b.build(datasetID, WeekRange(week), kind, agg, overrides)
}

// BuildRangeRequest covers an arbitrary caller-supplied range.
func (b *Builder) BuildRangeRequest(datasetID string, r TimeRange, kind ChartKind, agg *AggregationSpec, overrides map[string]any) (VisualizationRequest, error) {
	return b.build(datasetID, r, kind, agg, overrides)
}

func (b *Builder) build(datasetID string, r TimeRange, kind ChartKind, agg *AggregationSpec, overrides map[string]any) (VisualizationRequest, error) {
	if datasetID == "" {
		return VisualizationRequest{}, fmt.Errorf("dashboard: dataset id is required")
	}
	if r.From > r.To {
		return VisualizationRequest{}, fmt.Errorf("dashboard: time range inverted: %d > %d", r.From, r.To)
	}
	preset, ok := b.presets.Preset(kind)
	if !ok {
		return VisualizationRequest{}, fmt.Errorf("dashboard: unknown chart kind %q", kind)
	}
	if err := b.validator.Validate(preset, overrides); err != nil {
		return VisualizationRequest{}, err
	}

	args := mergeArgs(preset.Args, overrides)
	args["ids"] = []string{datasetID}

	processors := []ProcessorSpec{}
	if agg != nil {
		spec, err := normalizeAggregation(*agg, datasetID)
		if err != nil {
			return VisualizationRequest{}, err
		}
		processors = append(processors, spec)
	}

	return VisualizationRequest{
		Type: "visualization",
		Visualization: VisualizationSpec{
			Type: string(kind),
			Args: args,
		},
		Processor: processors,
		Data: []DataSelector{
			{ID: datasetID, From: r.From, To: r.To},
		},
	}, nil
}

// BuildInsertRequest wraps an opaque payload. The payload shape belongs to
// the service; this layer does not validate it.
func (b *Builder) BuildInsertRequest(payload any) DataInsertRequest {
	return DataInsertRequest{Type: "data", Action: "insert", Data: payload}
}

// BuildHelpRequest asks for the service's supported visualizations or
// processing methods.
func (b *Builder) BuildHelpRequest(topic string) (HelpRequest, error) {
	switch topic {
	case HelpVisualizations, HelpProcessingMethods:
		return HelpRequest{Type: "help", For: topic}, nil
	default:
		return HelpRequest{}, fmt.Errorf("dashboard: unknown help topic %q", topic)
	}
}

func normalizeAggregation(agg AggregationSpec, datasetID string) (ProcessorSpec, error) {
	method := agg.Method
	if method == "" {
		method = MethodAggregation
	}
	if method != MethodAggregation && method != MethodAccumulation {
		return ProcessorSpec{}, fmt.Errorf("dashboard: unknown processor method %q", method)
	}
	switch agg.Mode {
	case ModeSum, ModeMean:
	default:
		return ProcessorSpec{}, fmt.Errorf("dashboard: unknown aggregation mode %q", agg.Mode)
	}
	switch agg.Param {
	case ParamHour, ParamWeekday:
	default:
		return ProcessorSpec{}, fmt.Errorf("dashboard: unknown aggregation param %q", agg.Param)
	}
	return ProcessorSpec{
		Method: method,
		Args: ProcessorArgs{
			IDMapping: map[string]string{datasetID: datasetID},
			Mode:      agg.Mode,
			Param:     agg.Param,
		},
	}, nil
}

func mergeArgs(base, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		if nested, ok := v.(map[string]any); ok {
			inner := make(map[string]any, len(nested))
			for nk, nv := range nested {
				inner[nk] = nv
			}
			merged[k] = inner
			continue
		}
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
