package vizserver

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ErrAllDuplicates means an insert carried only samples the store already
// holds; the dataset is fully synchronized.
var ErrAllDuplicates = errors.New("vizserver: all samples already synchronized")

// Sample is one measurement at an epoch-millisecond timestamp.
type Sample struct {
	T     int64   `json:"t"`
	Value float64 `json:"value"`
}

// DatasetSamples is the insert payload shape: samples grouped by dataset id.
type DatasetSamples struct {
	ID      string   `json:"id"`
	Samples []Sample `json:"samples"`
}

// Store keeps raw samples per dataset in memory. Duplicate detection is by
// timestamp within a dataset, which is how the sync client identifies
// already-pushed measurements.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[int64]float64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string]map[int64]float64)}
}

// CreateDataset registers a new dataset and returns its id.
func (s *Store) CreateDataset() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.data[id] = make(map[int64]float64)
	s.mu.Unlock()
	return id
}

// Seed loads samples without duplicate accounting (test/demo setup).
func (s *Store) Seed(id string, samples []Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.data[id]
	if !ok {
		set = make(map[int64]float64)
		s.data[id] = set
	}
	for _, sample := range samples {
		set[sample.T] = sample.Value
	}
}

// Insert merges new samples and reports how many were previously unknown.
// Returns ErrAllDuplicates when nothing new arrived.
func (s *Store) Insert(sets []DatasetSamples) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	total := 0
	for _, batch := range sets {
		set, ok := s.data[batch.ID]
		if !ok {
			set = make(map[int64]float64)
			s.data[batch.ID] = set
		}
		for _, sample := range batch.Samples {
			total++
			if _, dup := set[sample.T]; dup {
				continue
			}
			set[sample.T] = sample.Value
			added++
		}
	}
	if total > 0 && added == 0 {
		return 0, ErrAllDuplicates
	}
	return added, nil
}

// Select returns the dataset's samples within [from, to], sorted by time.
func (s *Store) Select(id string, from, to int64) []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.data[id]
	if !ok {
		return nil
	}
	out := make([]Sample, 0, len(set))
	for t, v := range set {
		if t < from || t > to {
			continue
		}
		out = append(out, Sample{T: t, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}
