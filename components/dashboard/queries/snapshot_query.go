package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
)

// SnapshotInput selects nothing yet; the snapshot covers the whole calendar.
type SnapshotInput struct{}

type snapshotController interface {
	Snapshot(ctx context.Context) dashboard.Snapshot
}

// SnapshotQuery executes a read-only calendar/slot state resolution.
type SnapshotQuery struct {
	controller snapshotController
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(controller snapshotController) *SnapshotQuery {
	return &SnapshotQuery{controller: controller}
}

var _ gocommand.Querier[SnapshotInput, dashboard.Snapshot] = (*SnapshotQuery)(nil)

// Query resolves the current snapshot.
func (q *SnapshotQuery) Query(ctx context.Context, _ SnapshotInput) (dashboard.Snapshot, error) {
	return q.controller.Snapshot(ctx), nil
}
