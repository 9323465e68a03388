package storage

import (
	"context"

	"tilewise/internal/model"
)

// Store defines persistence operations for run bookkeeping: run records,
// per-run episode score histories, and weight-file snapshot metadata.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	SaveScoreHistory(ctx context.Context, runID string, scores []float64) error
	GetScoreHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveWeightSnapshot(ctx context.Context, snapshot model.WeightSnapshot) error
	GetWeightSnapshot(ctx context.Context, runID string) (model.WeightSnapshot, bool, error)
}
