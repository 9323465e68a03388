package storage

import (
	"context"
	"sort"
	"sync"

	"tilewise/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	scores      map[string][]float64
	snapshots   map[string]model.WeightSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.scores = make(map[string][]float64)
	s.snapshots = make(map[string]model.WeightSnapshot)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAtUTC != runs[j].CreatedAtUTC {
			return runs[i].CreatedAtUTC > runs[j].CreatedAtUTC
		}
		return runs[i].ID > runs[j].ID
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *MemoryStore) SaveScoreHistory(_ context.Context, runID string, scores []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scores[runID] = append([]float64(nil), scores...)
	return nil
}

func (s *MemoryStore) GetScoreHistory(_ context.Context, runID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores, ok := s.scores[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), scores...), true, nil
}

func (s *MemoryStore) SaveWeightSnapshot(_ context.Context, snapshot model.WeightSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snapshot.RunID] = snapshot
	return nil
}

func (s *MemoryStore) GetWeightSnapshot(_ context.Context, runID string) (model.WeightSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[runID]
	return snapshot, ok, nil
}
