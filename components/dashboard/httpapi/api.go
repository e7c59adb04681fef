package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
	"github.com/vitalboard/go-vitalboard/components/dashboard/commands"
	"github.com/vitalboard/go-vitalboard/components/dashboard/queries"
)

// Executor is the operation surface transports mount. Implementations are
// usually CommandExecutor, but tests may stub it.
type Executor interface {
	SelectDay(ctx context.Context, input commands.SelectDayInput) error
	NavigateWeek(ctx context.Context, input commands.NavigateWeekInput) error
	SyncData(ctx context.Context, input commands.SyncDataInput) error
	SetWeekChart(ctx context.Context, input commands.SetWeekChartInput) error
	Snapshot(ctx context.Context) (dashboard.Snapshot, error)
	Capabilities(ctx context.Context, topic string) ([]string, error)
}

// CommandExecutor adapts go-command handlers to the Executor surface.
type CommandExecutor struct {
	SelectDayCommander    gocommand.Commander[commands.SelectDayInput]
	NavigateWeekCommander gocommand.Commander[commands.NavigateWeekInput]
	SyncDataCommander     gocommand.Commander[commands.SyncDataInput]
	SetWeekChartCommander gocommand.Commander[commands.SetWeekChartInput]
	SnapshotQuerier       gocommand.Querier[queries.SnapshotInput, dashboard.Snapshot]
	CapabilitiesQuerier   gocommand.Querier[queries.CapabilitiesInput, []string]
}

var errNotConfigured = errors.New("httpapi: operation not configured")

func (e *CommandExecutor) SelectDay(ctx context.Context, input commands.SelectDayInput) error {
	if e.SelectDayCommander == nil {
		return errNotConfigured
	}
	return e.SelectDayCommander.Execute(ctx, input)
}

func (e *CommandExecutor) NavigateWeek(ctx context.Context, input commands.NavigateWeekInput) error {
	if e.NavigateWeekCommander == nil {
		return errNotConfigured
	}
	return e.NavigateWeekCommander.Execute(ctx, input)
}

func (e *CommandExecutor) SyncData(ctx context.Context, input commands.SyncDataInput) error {
	if e.SyncDataCommander == nil {
		return errNotConfigured
	}
	return e.SyncDataCommander.Execute(ctx, input)
}

func (e *CommandExecutor) SetWeekChart(ctx context.Context, input commands.SetWeekChartInput) error {
	if e.SetWeekChartCommander == nil {
		return errNotConfigured
	}
	return e.SetWeekChartCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Snapshot(ctx context.Context) (dashboard.Snapshot, error) {
	if e.SnapshotQuerier == nil {
		return dashboard.Snapshot{}, errNotConfigured
	}
	return e.SnapshotQuerier.Query(ctx, queries.SnapshotInput{})
}

func (e *CommandExecutor) Capabilities(ctx context.Context, topic string) ([]string, error) {
	if e.CapabilitiesQuerier == nil {
		return nil, errNotConfigured
	}
	return e.CapabilitiesQuerier.Query(ctx, queries.CapabilitiesInput{Topic: topic})
}

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	API Executor
}

// HandleSelectDay accepts {"day":"2024-05-15"}.
func (h *Handlers) HandleSelectDay(w http.ResponseWriter, r *http.Request) {
	var payload commands.SelectDayInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SelectDay(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleNavigateWeek accepts {"delta":-1}.
func (h *Handlers) HandleNavigateWeek(w http.ResponseWriter, r *http.Request) {
	var payload commands.NavigateWeekInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.NavigateWeek(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleSyncData forwards an opaque payload to the data service. Gateway
// outcomes surface as banners, so this only fails on malformed input.
func (h *Handlers) HandleSyncData(w http.ResponseWriter, r *http.Request) {
	var payload commands.SyncDataInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SyncData(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleSetWeekChart accepts {"kind":"piechart"}.
func (h *Handlers) HandleSetWeekChart(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetWeekChartInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SetWeekChart(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleSnapshot returns the calendar and slot state as JSON.
func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.API.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}

// HandleCapabilities returns a help listing; topic comes from the query string.
func (h *Handlers) HandleCapabilities(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	values, err := h.API.Capabilities(r.Context(), topic)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{topic: values})
}
