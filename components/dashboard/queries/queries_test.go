package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
)

type stubController struct {
	snapshot dashboard.Snapshot
	listing  []string
	topic    string
	err      error
}

func (s *stubController) Snapshot(context.Context) dashboard.Snapshot {
	return s.snapshot
}

func (s *stubController) Capabilities(_ context.Context, topic string) ([]string, error) {
	s.topic = topic
	return s.listing, s.err
}

func TestSnapshotQuery(t *testing.T) {
	controller := &stubController{snapshot: dashboard.Snapshot{Selected: "2024-05-15"}}
	query := NewSnapshotQuery(controller)

	snap, err := query.Query(context.Background(), SnapshotInput{})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-15", snap.Selected)
}

func TestCapabilitiesQuery(t *testing.T) {
	controller := &stubController{listing: []string{"linechart", "barchart"}}
	query := NewCapabilitiesQuery(controller)

	listing, err := query.Query(context.Background(), CapabilitiesInput{Topic: dashboard.HelpVisualizations})
	require.NoError(t, err)
	assert.Equal(t, dashboard.HelpVisualizations, controller.topic)
	assert.Equal(t, []string{"linechart", "barchart"}, listing)
}

func TestCapabilitiesQueryPropagatesError(t *testing.T) {
	controller := &stubController{err: errors.New("unknown topic")}
	query := NewCapabilitiesQuery(controller)

	_, err := query.Query(context.Background(), CapabilitiesInput{Topic: "datasets"})
	assert.Error(t, err)
}
