package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dayDataset  = "11111111-1111-4111-8111-111111111111"
	weekDataset = "22222222-2222-4222-8222-222222222222"
)

type fakeGateway struct {
	mu             sync.Mutex
	visualizations []VisualizationRequest
	errs           map[string]error
	insertErr      error
	inserts        int
}

func (g *fakeGateway) Visualize(_ context.Context, req VisualizationRequest) (Fragment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.visualizations = append(g.visualizations, req)
	id := req.Data[0].ID
	if err := g.errs[id]; err != nil {
		return "", err
	}
	return Fragment("<div>" + id + "</div>"), nil
}

func (g *fakeGateway) Insert(context.Context, DataInsertRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inserts++
	return g.insertErr
}

func (g *fakeGateway) Capabilities(context.Context, string) ([]string, error) {
	return []string{"linechart", "barchart", "piechart"}, nil
}

func (g *fakeGateway) countFor(dataset string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, req := range g.visualizations {
		if req.Data[0].ID == dataset {
			n++
		}
	}
	return n
}

func (g *fakeGateway) lastFor(dataset string) (VisualizationRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.visualizations) - 1; i >= 0; i-- {
		if g.visualizations[i].Data[0].ID == dataset {
			return g.visualizations[i], true
		}
	}
	return VisualizationRequest{}, false
}

type bannerCall struct {
	kind StatusKind
	text string
}

type recordingBinder struct {
	mu       sync.Mutex
	applied  map[SlotKey]Fragment
	cleared  []SlotKey
	statuses map[SlotKey]string
	banners  []bannerCall
	labels   [7]DayLabel
	selected string
	title    string
}

func newRecordingBinder() *recordingBinder {
	return &recordingBinder{
		applied:  map[SlotKey]Fragment{},
		statuses: map[SlotKey]string{},
	}
}

func (b *recordingBinder) Apply(slot SlotKey, fragment Fragment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applied[slot] = fragment
}

func (b *recordingBinder) Clear(slot SlotKey) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.applied, slot)
	b.cleared = append(b.cleared, slot)
}

func (b *recordingBinder) Status(slot SlotKey, _ StatusKind, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[slot] = message
}

func (b *recordingBinder) Banner(kind StatusKind, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.banners = append(b.banners, bannerCall{kind: kind, text: text})
}

func (b *recordingBinder) SetDayLabels(labels [7]DayLabel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.labels = labels
}

func (b *recordingBinder) SetSelected(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = key
}

func (b *recordingBinder) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = title
}

func (b *recordingBinder) fragment(slot SlotKey) (Fragment, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.applied[slot]
	return f, ok
}

func (b *recordingBinder) status(slot SlotKey) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statuses[slot]
}

func testOptions(gateway *fakeGateway, binder *recordingBinder) Options {
	return Options{
		Gateway: gateway,
		Binder:  binder,
		Day:     DatasetBinding{DatasetID: dayDataset, Chart: ChartLine},
		Week: DatasetBinding{
			DatasetID:   weekDataset,
			Chart:       ChartBar,
			Aggregation: &AggregationSpec{Mode: ModeMean, Param: ParamHour},
		},
		Locale: "en",
		Now: func() time.Time {
			return time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestControllerStartFetchesBothSlots(t *testing.T) {
	gateway := &fakeGateway{}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	assert.Equal(t, 1, gateway.countFor(dayDataset))
	assert.Equal(t, 1, gateway.countFor(weekDataset))

	_, ok := binder.fragment(SlotDayActivity)
	assert.True(t, ok)
	_, ok = binder.fragment(SlotWeekActivity)
	assert.True(t, ok)

	assert.Equal(t, "2024-05-15", binder.selected)
	assert.Equal(t, "2024-05-13", binder.labels[0].Key)
	assert.Equal(t, "2024-05-19", binder.labels[6].Key)
	assert.Equal(t, "Wednesday, 15. May 2024", binder.title)
}

func TestControllerSlotFailuresAreIndependent(t *testing.T) {
	gateway := &fakeGateway{errs: map[string]error{dayDataset: ErrEmptyData}}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	_, ok := binder.fragment(SlotDayActivity)
	assert.False(t, ok)
	assert.Equal(t, "No data recorded yet for this period.", binder.status(SlotDayActivity))

	_, ok = binder.fragment(SlotWeekActivity)
	assert.True(t, ok)
	assert.Empty(t, binder.status(SlotWeekActivity))

	snap := controller.Snapshot(context.Background())
	assert.Equal(t, SlotErrored, snap.Slots[SlotDayActivity])
	assert.Equal(t, SlotDisplaying, snap.Slots[SlotWeekActivity])
}

func TestControllerServerErrorShowsUnavailableMessage(t *testing.T) {
	gateway := &fakeGateway{errs: map[string]error{dayDataset: &ServerError{Status: 500}}}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	assert.Equal(t, "There is currently no data available. Please try again later.", binder.status(SlotDayActivity))
}

func TestControllerSelectDayRefetchesDayOnly(t *testing.T) {
	gateway := &fakeGateway{}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	require.NoError(t, controller.SelectDay(context.Background(), "2024-05-17"))
	controller.Flush()

	assert.Equal(t, 2, gateway.countFor(dayDataset))
	assert.Equal(t, 1, gateway.countFor(weekDataset))
	assert.Equal(t, "2024-05-17", binder.selected)
	// Window untouched by an intra-week selection.
	assert.Equal(t, "2024-05-13", binder.labels[0].Key)

	req, ok := gateway.lastFor(dayDataset)
	require.True(t, ok)
	assert.Equal(t, date(2024, time.May, 17).UnixMilli(), req.Data[0].From)
}

func TestControllerSelectDayRejectsKeysOutsideWindow(t *testing.T) {
	gateway := &fakeGateway{}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	err := controller.SelectDay(context.Background(), "2024-05-21")
	require.Error(t, err)
	controller.Flush()

	assert.Equal(t, 1, gateway.countFor(dayDataset))
	assert.Equal(t, "2024-05-15", controller.SelectedKey())
}

func TestControllerNavigateWeekRefetchesBothSlots(t *testing.T) {
	gateway := &fakeGateway{}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	require.NoError(t, controller.NavigateWeek(context.Background(), -1))
	controller.Flush()

	assert.Equal(t, 2, gateway.countFor(dayDataset))
	assert.Equal(t, 2, gateway.countFor(weekDataset))
	assert.Equal(t, "2024-05-08", controller.SelectedKey())
	assert.Equal(t, "2024-05-06", binder.labels[0].Key)

	req, ok := gateway.lastFor(weekDataset)
	require.True(t, ok)
	assert.Equal(t, date(2024, time.May, 6).UnixMilli(), req.Data[0].From)
}

func TestControllerSyncDataSuccessRefetchesOnce(t *testing.T) {
	gateway := &fakeGateway{}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	controller.SyncData(context.Background(), map[string]any{"steps": 10})
	controller.Flush()

	assert.Equal(t, 1, gateway.inserts)
	assert.Equal(t, 2, gateway.countFor(dayDataset))
	assert.Equal(t, 2, gateway.countFor(weekDataset))
	require.Len(t, binder.banners, 1)
	assert.Equal(t, StatusSuccess, binder.banners[0].kind)
	assert.Equal(t, "Successfully synchronized new data.", binder.banners[0].text)
}

func TestControllerSyncDataConflictLeavesSlotsAlone(t *testing.T) {
	gateway := &fakeGateway{insertErr: ErrInsertConflict}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	controller.SyncData(context.Background(), nil)
	controller.Flush()

	assert.Equal(t, 1, gateway.countFor(dayDataset))
	assert.Equal(t, 1, gateway.countFor(weekDataset))
	require.Len(t, binder.banners, 1)
	assert.Equal(t, StatusError, binder.banners[0].kind)
	assert.Equal(t, "All data has already been synchronized.", binder.banners[0].text)
}

func TestControllerSyncDataFailureShowsBanner(t *testing.T) {
	gateway := &fakeGateway{insertErr: &NetworkError{Err: errors.New("refused")}}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	controller.SyncData(context.Background(), nil)
	controller.Flush()

	assert.Equal(t, 1, gateway.countFor(dayDataset))
	require.Len(t, binder.banners, 1)
	assert.Equal(t, StatusError, binder.banners[0].kind)
}

func TestControllerSetWeekChartSwitchesToPie(t *testing.T) {
	gateway := &fakeGateway{}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	require.NoError(t, controller.SetWeekChart(context.Background(), ChartPie))
	controller.Flush()

	req, ok := gateway.lastFor(weekDataset)
	require.True(t, ok)
	assert.Equal(t, "piechart", req.Visualization.Type)
	// Pie buckets one slice per weekday regardless of the configured param.
	require.Len(t, req.Processor, 1)
	assert.Equal(t, ParamWeekday, req.Processor[0].Args.Param)

	snap := controller.Snapshot(context.Background())
	assert.Equal(t, ChartPie, snap.WeekChart)
}

func TestControllerSetWeekChartRejectsLine(t *testing.T) {
	gateway := &fakeGateway{}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	require.Error(t, controller.SetWeekChart(context.Background(), ChartLine))
}

func TestControllerDropsStaleResponses(t *testing.T) {
	gateway := &fakeGateway{}
	binder := newRecordingBinder()
	controller := NewController(testOptions(gateway, binder))

	require.NoError(t, controller.Start(context.Background()))
	controller.Flush()

	current, _ := binder.fragment(SlotDayActivity)

	// A response from a superseded request arrives after a newer one has
	// been applied; it must be discarded.
	controller.apply(context.Background(), SlotDayActivity, 0, Fragment("<div>stale</div>"), nil)

	got, ok := binder.fragment(SlotDayActivity)
	require.True(t, ok)
	assert.Equal(t, current, got)
}

func TestControllerRequiresGateway(t *testing.T) {
	controller := NewController(Options{Binder: newRecordingBinder()})
	require.Error(t, controller.Start(context.Background()))
}

func TestControllerCapabilitiesValidatesTopic(t *testing.T) {
	gateway := &fakeGateway{}
	controller := NewController(testOptions(gateway, newRecordingBinder()))

	listing, err := controller.Capabilities(context.Background(), HelpVisualizations)
	require.NoError(t, err)
	assert.Contains(t, listing, "piechart")

	_, err = controller.Capabilities(context.Background(), "datasets")
	require.Error(t, err)
}
