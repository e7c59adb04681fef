package dashboard

import (
	"context"
	"time"
)

// ChartKind identifies one of the visualization types the remote service renders.
type ChartKind string

const (
	ChartLine ChartKind = "linechart"
	ChartBar  ChartKind = "barchart"
	ChartPie  ChartKind = "piechart"
)

// Processor methods understood by the remote service.
const (
	MethodAggregation  = "aggregation"
	MethodAccumulation = "accumulation"
)

// Aggregation modes and bucketing parameters.
const (
	ModeSum  = "sum"
	ModeMean = "mean"

	ParamHour    = "hour"
	ParamWeekday = "weekday"
)

// Help topics accepted by the remote service.
const (
	HelpVisualizations    = "visualizations"
	HelpProcessingMethods = "processingmethods"
)

// Fragment is an opaque rendered blob (usually HTML markup) returned by the
// visualization service. The dashboard never inspects it.
type Fragment string

// TimeRange is a millisecond-precision range with From <= To.
type TimeRange struct {
	From int64
	To   int64
}

// DataSelector picks samples of one dataset within a time range.
// Timestamps are epoch milliseconds.
type DataSelector struct {
	ID   string `json:"id"`
	From int64  `json:"from"`
	To   int64  `json:"to"`
}

// VisualizationSpec names the chart type and its styling/layout arguments.
type VisualizationSpec struct {
	Type string         `json:"type"`
	Args map[string]any `json:"args"`
}

// ProcessorArgs configures a server-side reduction step.
type ProcessorArgs struct {
	IDMapping map[string]string `json:"idMapping"`
	Mode      string            `json:"mode"`
	Param     string            `json:"param"`
}

// ProcessorSpec is one entry of a request's processing pipeline.
type ProcessorSpec struct {
	Method string        `json:"method"`
	Args   ProcessorArgs `json:"args"`
}

// VisualizationRequest is the wire document sent to the visualization service.
// Data is never empty; Processor may be (raw samples are plotted as-is).
type VisualizationRequest struct {
	Type          string            `json:"type"`
	Visualization VisualizationSpec `json:"visualization"`
	Processor     []ProcessorSpec   `json:"processor"`
	Data          []DataSelector    `json:"data"`
}

// DataInsertRequest pushes new samples into the remote dataset. Fire and
// forget, single attempt, no retry.
type DataInsertRequest struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   any    `json:"data"`
}

// HelpRequest asks the service what visualizations or processing methods it
// supports.
type HelpRequest struct {
	Type string `json:"type"`
	For  string `json:"for"`
}

// AggregationSpec describes the optional reduction applied before rendering.
type AggregationSpec struct {
	Method string
	Mode   string
	Param  string
}

// Gateway is the transport boundary to the remote visualization/data service.
// Each call is independent: no queueing, no dedup, no retry.
type Gateway interface {
	Visualize(ctx context.Context, req VisualizationRequest) (Fragment, error)
	Insert(ctx context.Context, req DataInsertRequest) error
	Capabilities(ctx context.Context, topic string) ([]string, error)
}

// SlotKey names a UI region that receives rendered visualization output.
type SlotKey string

const (
	SlotDayActivity  SlotKey = "day-activity"
	SlotWeekActivity SlotKey = "week-activity"
)

// SlotState tracks the lifecycle of a slot between fetches.
type SlotState string

const (
	SlotIdle       SlotState = "idle"
	SlotLoading    SlotState = "loading"
	SlotDisplaying SlotState = "displaying"
	SlotErrored    SlotState = "error"
)

// StatusKind classifies transient banner/status messages.
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// DayLabel is one entry of the weekday strip. Key is the stable ISO date
// identifier attached to the rendered control; DayOfMonth is the display text.
type DayLabel struct {
	Key        string `json:"key"`
	DayOfMonth int    `json:"day_of_month"`
	Weekday    string `json:"weekday"`
}

// SlotBinder is the contract to the surrounding UI: named regions that accept
// a markup fragment, a clear command, status text, and selection toggles.
// Implementations live outside this module (DOM bridge, test double, SSR).
type SlotBinder interface {
	Apply(slot SlotKey, fragment Fragment)
	Clear(slot SlotKey)
	Status(slot SlotKey, kind StatusKind, text string)
	Banner(kind StatusKind, text string)
	SetDayLabels(labels [7]DayLabel)
	SetSelected(dayKey string)
	SetTitle(text string)
}

// SlotEvent describes a slot transition that transports might care about.
type SlotEvent struct {
	Slot     SlotKey   `json:"slot"`
	State    SlotState `json:"state"`
	Sequence uint64    `json:"sequence"`
	Fragment Fragment  `json:"fragment,omitempty"`
	Message  string    `json:"message,omitempty"`
	At       time.Time `json:"at"`
}

// SlotHook notifies transports (WebSocket/SSE) about slot updates.
type SlotHook interface {
	SlotUpdated(ctx context.Context, event SlotEvent) error
}

// PreferenceStore keeps per-viewer display choices, today just the chart kind
// used for the week slot.
type PreferenceStore interface {
	WeekChart(ctx context.Context, viewer string) (ChartKind, error)
	SaveWeekChart(ctx context.Context, viewer string, kind ChartKind) error
}

// DatasetBinding ties a slot to its dataset and rendering configuration.
type DatasetBinding struct {
	DatasetID   string
	Chart       ChartKind
	Aggregation *AggregationSpec
	Overrides   map[string]any
}
