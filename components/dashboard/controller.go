package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Transient status wording shown in slots and banners.
const (
	msgNoDataYet    = "No data recorded yet for this period."
	msgUnavailable  = "There is currently no data available. Please try again later."
	msgSyncSuccess  = "Successfully synchronized new data."
	msgSyncConflict = "All data has already been synchronized."
	msgSyncFailed   = "Synchronization failed. Please try again later."
)

var errMissingGateway = errors.New("dashboard: gateway not configured")

// Options configures the dashboard Controller. Every collaborator is provided
// via interface so applications can swap implementations.
type Options struct {
	Gateway     Gateway
	Binder      SlotBinder
	Presets     *PresetRegistry
	Validator   OverrideValidator
	Preferences PreferenceStore
	Telemetry   Telemetry
	Hook        SlotHook
	Logger      *zap.Logger
	Renderer    Renderer

	// Day and Week bind the two visualization slots to their datasets.
	Day  DatasetBinding
	Week DatasetBinding

	// Viewer scopes preferences; Locale drives weekday/month names.
	Viewer string
	Locale string

	// Now is the clock source; it defaults to time.Now and exists so that
	// range clamping is deterministic under test.
	Now func() time.Time
}

// Controller orchestrates the calendar clock, request builder, and gateway in
// response to navigation events, and binds outcomes to UI slots. It holds no
// date state of its own: the clock is the single owner.
type Controller struct {
	opts    Options
	builder *Builder

	mu    sync.Mutex
	clock *Clock
	slots map[SlotKey]*slotState

	inflight sync.WaitGroup
}

type slotState struct {
	state   SlotState
	seq     uint64
	applied uint64
}

// Snapshot is a read-only view of the calendar and slot states.
type Snapshot struct {
	Selected  string                `json:"selected"`
	Title     string                `json:"title"`
	Week      [7]DayLabel           `json:"week"`
	WeekChart ChartKind             `json:"week_chart"`
	Slots     map[SlotKey]SlotState `json:"slots"`
}

// NewController builds a Controller with safe defaults.
func NewController(opts Options) *Controller {
	if opts.Presets == nil {
		opts.Presets = NewPresetRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewSchemaValidator()
	}
	if opts.Preferences == nil {
		opts.Preferences = NewInMemoryPreferenceStore()
	}
	if opts.Binder == nil {
		opts.Binder = NopBinder{}
	}
	if opts.Hook == nil {
		opts.Hook = noopSlotHook{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Controller{
		opts:    opts,
		builder: NewBuilder(opts.Presets, opts.Validator),
		slots: map[SlotKey]*slotState{
			SlotDayActivity:  {state: SlotIdle},
			SlotWeekActivity: {state: SlotIdle},
		},
	}
}

// Start selects today, renders the weekday strip, and issues the day- and
// week-scoped requests concurrently. Slot updates land independently; neither
// blocks the other.
func (c *Controller) Start(ctx context.Context) error {
	if c.opts.Gateway == nil {
		return errMissingGateway
	}
	c.mu.Lock()
	c.clock = NewClock(c.opts.Now())
	c.mu.Unlock()
	c.publishCalendar()
	c.fetchDay(ctx)
	c.fetchWeek(ctx)
	c.record(ctx, "dashboard.start", map[string]any{"selected": c.SelectedKey()})
	return nil
}

// SelectedKey returns the ISO day key of the selected date.
func (c *Controller) SelectedKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clock == nil {
		return ""
	}
	return DayKey(c.clock.Selected())
}

// SelectDay moves the selection to the weekday identified by its stable ISO
// key. Intra-week only: the window is never recomputed here, and a key
// outside the displayed week is rejected. Only the day slot is re-fetched.
func (c *Controller) SelectDay(ctx context.Context, dayKey string) error {
	if c.opts.Gateway == nil {
		return errMissingGateway
	}
	c.mu.Lock()
	if c.clock == nil {
		c.mu.Unlock()
		return errors.New("dashboard: controller not started")
	}
	var target time.Time
	found := false
	for _, d := range c.clock.Week() {
		if DayKey(d) == dayKey {
			target, found = d, true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return fmt.Errorf("dashboard: day %q is outside the displayed week", dayKey)
	}
	c.clock.Select(target)
	c.mu.Unlock()

	c.opts.Binder.SetSelected(dayKey)
	c.opts.Binder.SetTitle(c.title())
	c.opts.Binder.Status(SlotDayActivity, StatusError, "")
	c.fetchDay(ctx)
	c.record(ctx, "dashboard.day.select", map[string]any{"day": dayKey})
	return nil
}

// NavigateWeek advances the selected date by delta weeks, recomputes the
// window, relabels the strip, and re-fetches both slots.
func (c *Controller) NavigateWeek(ctx context.Context, delta int) error {
	if c.opts.Gateway == nil {
		return errMissingGateway
	}
	c.mu.Lock()
	if c.clock == nil {
		c.mu.Unlock()
		return errors.New("dashboard: controller not started")
	}
	c.clock.AdvanceWeek(delta)
	c.mu.Unlock()

	c.publishCalendar()
	c.fetchDay(ctx)
	c.fetchWeek(ctx)
	c.record(ctx, "dashboard.week.navigate", map[string]any{"delta": delta, "selected": c.SelectedKey()})
	return nil
}

// SyncData sends a single data-insert attempt. Success shows the success
// banner and re-fetches both slots exactly once (the insert may have changed
// the underlying data); any failure shows a banner and leaves slots alone.
func (c *Controller) SyncData(ctx context.Context, payload any) {
	if c.opts.Gateway == nil {
		c.opts.Binder.Banner(StatusError, msgSyncFailed)
		return
	}
	req := c.builder.BuildInsertRequest(payload)
	if err := c.opts.Gateway.Insert(ctx, req); err != nil {
		if errors.Is(err, ErrInsertConflict) {
			c.opts.Binder.Banner(StatusError, msgSyncConflict)
		} else {
			c.opts.Binder.Banner(StatusError, msgSyncFailed)
		}
		c.opts.Logger.Warn("data sync failed", zap.Error(err))
		c.record(ctx, "dashboard.sync.fail", map[string]any{"error": err.Error()})
		return
	}
	c.opts.Binder.Banner(StatusSuccess, msgSyncSuccess)
	c.record(ctx, "dashboard.sync.success", nil)
	c.fetchDay(ctx)
	c.fetchWeek(ctx)
}

// SetWeekChart toggles the week slot between its supported chart kinds and
// re-fetches it.
func (c *Controller) SetWeekChart(ctx context.Context, kind ChartKind) error {
	if err := c.opts.Preferences.SaveWeekChart(ctx, c.opts.Viewer, kind); err != nil {
		return err
	}
	c.fetchWeek(ctx)
	c.record(ctx, "dashboard.week.chart", map[string]any{"kind": string(kind)})
	return nil
}

// Capabilities proxies the service's help listings.
func (c *Controller) Capabilities(ctx context.Context, topic string) ([]string, error) {
	if c.opts.Gateway == nil {
		return nil, errMissingGateway
	}
	if _, err := c.builder.BuildHelpRequest(topic); err != nil {
		return nil, err
	}
	return c.opts.Gateway.Capabilities(ctx, topic)
}

// Snapshot returns the current calendar and slot states.
func (c *Controller) Snapshot(ctx context.Context) Snapshot {
	weekChart, _ := c.opts.Preferences.WeekChart(ctx, c.opts.Viewer)
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		WeekChart: weekChart,
		Slots:     map[SlotKey]SlotState{},
	}
	for key, st := range c.slots {
		snap.Slots[key] = st.state
	}
	if c.clock == nil {
		return snap
	}
	snap.Selected = DayKey(c.clock.Selected())
	snap.Title = DateTitle(c.clock.Selected(), c.opts.Locale)
	for i, d := range c.clock.Week() {
		snap.Week[i] = DayLabel{Key: DayKey(d), DayOfMonth: d.Day(), Weekday: WeekdayName(d, c.opts.Locale)}
	}
	return snap
}

// Flush waits for all in-flight slot fetches to settle.
func (c *Controller) Flush() {
	c.inflight.Wait()
}

func (c *Controller) fetchDay(ctx context.Context) {
	c.mu.Lock()
	if c.clock == nil {
		c.mu.Unlock()
		return
	}
	selected := c.clock.Selected()
	c.mu.Unlock()

	binding := c.opts.Day
	req, err := c.builder.BuildDayRequest(binding.DatasetID, selected, binding.Chart, binding.Aggregation, c.opts.Now(), binding.Overrides)
	if err != nil {
		c.failSlot(ctx, SlotDayActivity, err)
		return
	}
	c.dispatch(ctx, SlotDayActivity, req)
}

func (c *Controller) fetchWeek(ctx context.Context) {
	c.mu.Lock()
	if c.clock == nil {
		c.mu.Unlock()
		return
	}
	week := c.clock.Week()
	c.mu.Unlock()

	binding := c.opts.Week
	kind, err := c.opts.Preferences.WeekChart(ctx, c.opts.Viewer)
	if err != nil || kind == "" {
		kind = binding.Chart
	}
	req, err := c.builder.BuildWeekRequest(binding.DatasetID, week, kind, c.weekAggregation(binding, kind), binding.OverridesFor(kind))
	if err != nil {
		c.failSlot(ctx, SlotWeekActivity, err)
		return
	}
	c.dispatch(ctx, SlotWeekActivity, req)
}

// weekAggregation buckets by weekday when the pie chart is shown (one slice
// per day) and keeps the configured param otherwise.
func (c *Controller) weekAggregation(binding DatasetBinding, kind ChartKind) *AggregationSpec {
	if binding.Aggregation == nil {
		return nil
	}
	agg := *binding.Aggregation
	if kind == ChartPie {
		agg.Param = ParamWeekday
	}
	return &agg
}

// dispatch issues the request on its own goroutine. Requests are never
// queued behind each other and a superseded request is not cancelled; the
// sequence guard in apply discards its response instead.
func (c *Controller) dispatch(ctx context.Context, slot SlotKey, req VisualizationRequest) {
	c.mu.Lock()
	st := c.slots[slot]
	st.seq++
	seq := st.seq
	st.state = SlotLoading
	c.mu.Unlock()

	c.notify(ctx, SlotEvent{Slot: slot, State: SlotLoading, Sequence: seq, At: c.opts.Now()})

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		fragment, err := c.opts.Gateway.Visualize(ctx, req)
		c.apply(ctx, slot, seq, fragment, err)
	}()
}

func (c *Controller) apply(ctx context.Context, slot SlotKey, seq uint64, fragment Fragment, err error) {
	c.mu.Lock()
	st := c.slots[slot]
	if seq < st.applied {
		c.mu.Unlock()
		c.record(ctx, "dashboard.slot.stale_drop", map[string]any{"slot": string(slot), "sequence": seq})
		return
	}
	st.applied = seq
	if err != nil {
		st.state = SlotErrored
	} else {
		st.state = SlotDisplaying
	}
	c.mu.Unlock()

	if err != nil {
		msg := msgUnavailable
		if errors.Is(err, ErrEmptyData) {
			msg = msgNoDataYet
		}
		c.opts.Binder.Clear(slot)
		c.opts.Binder.Status(slot, StatusError, msg)
		c.opts.Logger.Warn("slot fetch failed", zap.String("slot", string(slot)), zap.Error(err))
		c.record(ctx, "dashboard.slot.error", map[string]any{"slot": string(slot), "error": err.Error()})
		c.notify(ctx, SlotEvent{Slot: slot, State: SlotErrored, Sequence: seq, Message: msg, At: c.opts.Now()})
		return
	}
	c.opts.Binder.Status(slot, StatusError, "")
	c.opts.Binder.Apply(slot, fragment)
	c.record(ctx, "dashboard.slot.apply", map[string]any{"slot": string(slot), "sequence": seq})
	c.notify(ctx, SlotEvent{Slot: slot, State: SlotDisplaying, Sequence: seq, Fragment: fragment, At: c.opts.Now()})
}

// failSlot reports a request-construction error, which never reaches the
// gateway and therefore bypasses the sequence bookkeeping.
func (c *Controller) failSlot(ctx context.Context, slot SlotKey, err error) {
	c.mu.Lock()
	c.slots[slot].state = SlotErrored
	c.mu.Unlock()
	c.opts.Binder.Clear(slot)
	c.opts.Binder.Status(slot, StatusError, msgUnavailable)
	c.opts.Logger.Error("request construction failed", zap.String("slot", string(slot)), zap.Error(err))
	c.record(ctx, "dashboard.slot.build_error", map[string]any{"slot": string(slot), "error": err.Error()})
}

func (c *Controller) publishCalendar() {
	c.mu.Lock()
	week := c.clock.Week()
	selected := c.clock.Selected()
	c.mu.Unlock()

	var labels [7]DayLabel
	for i, d := range week {
		labels[i] = DayLabel{Key: DayKey(d), DayOfMonth: d.Day(), Weekday: WeekdayName(d, c.opts.Locale)}
	}
	c.opts.Binder.SetDayLabels(labels)
	c.opts.Binder.SetSelected(DayKey(selected))
	c.opts.Binder.SetTitle(DateTitle(selected, c.opts.Locale))
}

func (c *Controller) title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DateTitle(c.clock.Selected(), c.opts.Locale)
}

func (c *Controller) record(ctx context.Context, event string, payload map[string]any) {
	c.opts.Telemetry.Record(ctx, event, payload)
}

func (c *Controller) notify(ctx context.Context, event SlotEvent) {
	if err := c.opts.Hook.SlotUpdated(ctx, event); err != nil {
		c.opts.Logger.Warn("slot hook failed", zap.Error(err))
	}
}

// OverridesFor returns the binding's overrides when kind matches its
// configured chart, keeping only the title (valid for every kind) otherwise.
func (b DatasetBinding) OverridesFor(kind ChartKind) map[string]any {
	if kind == b.Chart || len(b.Overrides) == 0 {
		return b.Overrides
	}
	if title, ok := b.Overrides["title"]; ok {
		return map[string]any{"title": title}
	}
	return nil
}

type noopSlotHook struct{}

func (noopSlotHook) SlotUpdated(context.Context, SlotEvent) error { return nil }

// NopBinder discards every UI update. Useful for headless runs and tests
// that only observe events.
type NopBinder struct{}

func (NopBinder) Apply(SlotKey, Fragment)               {}
func (NopBinder) Clear(SlotKey)                         {}
func (NopBinder) Status(SlotKey, StatusKind, string)    {}
func (NopBinder) Banner(StatusKind, string)             {}
func (NopBinder) SetDayLabels([7]DayLabel)              {}
func (NopBinder) SetSelected(string)                    {}
func (NopBinder) SetTitle(string)                       {}
