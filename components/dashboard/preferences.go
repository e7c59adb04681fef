package dashboard

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryPreferenceStore provides a concurrency-safe default store. The week
// slot can be toggled between a bar chart and a pie chart; the choice is kept
// per viewer.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]ChartKind
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{data: make(map[string]ChartKind)}
}

// WeekChart returns the stored chart kind for the viewer, defaulting to the
// bar chart.
func (s *InMemoryPreferenceStore) WeekChart(_ context.Context, viewer string) (ChartKind, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if kind, ok := s.data[viewer]; ok {
		return kind, nil
	}
	return ChartBar, nil
}

// SaveWeekChart persists the viewer's choice.
func (s *InMemoryPreferenceStore) SaveWeekChart(_ context.Context, viewer string, kind ChartKind) error {
	switch kind {
	case ChartBar, ChartPie:
	default:
		return fmt.Errorf("dashboard: week slot does not support chart kind %q", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[viewer] = kind
	return nil
}
