package storage

import (
	"errors"
	"testing"

	"tilewise/internal/model"
)

func TestRunCodecRoundTrip(t *testing.T) {
	run := newRun("ntuple-7-99", "2026-08-10T12:00:00Z")
	run.InitSpec = []int{65536, 65536, 65536, 65536}
	run.MeanScore = 1234.5
	run.BestScore = 6042
	run.MaxTileRank = 10

	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != run.ID || got.MeanScore != run.MeanScore || got.MaxTileRank != run.MaxTileRank {
		t.Fatalf("got %+v, want %+v", got, run)
	}
	if len(got.InitSpec) != 4 || got.InitSpec[0] != 65536 {
		t.Fatalf("init spec = %v", got.InitSpec)
	}
}

func TestDecodeRunRejectsVersionMismatch(t *testing.T) {
	run := newRun("old", "2026-08-10T12:00:00Z")
	run.SchemaVersion = CurrentSchemaVersion + 1

	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}

func TestDecodeRunRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeRun([]byte("{not json")); err == nil {
		t.Fatalf("expected a decode error")
	}
}

func TestWeightSnapshotCodecRoundTrip(t *testing.T) {
	snap := model.WeightSnapshot{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: CurrentSchemaVersion,
			CodecVersion:  CurrentCodecVersion,
		},
		RunID:      "ntuple-7-99",
		Path:       "artifacts/ntuple-7-99/weights.bin",
		TableCount: 4,
		TableSizes: []int{65536, 65536, 65536, 65536},
		SHA256:     "0011",
	}
	data, err := EncodeWeightSnapshot(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeWeightSnapshot(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RunID != snap.RunID || got.TableCount != snap.TableCount || got.SHA256 != snap.SHA256 {
		t.Fatalf("got %+v, want %+v", got, snap)
	}
}

func TestWeightSnapshotCodecRejectsVersionMismatch(t *testing.T) {
	snap := model.WeightSnapshot{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: CurrentSchemaVersion,
			CodecVersion:  CurrentCodecVersion + 1,
		},
		RunID: "x",
	}
	data, err := EncodeWeightSnapshot(snap)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeWeightSnapshot(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}

func TestScoreHistoryCodecRoundTrip(t *testing.T) {
	scores := []float64{0, 33, 120.5}
	data, err := EncodeScoreHistory(scores)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeScoreHistory(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(scores) || got[2] != 120.5 {
		t.Fatalf("got %v, want %v", got, scores)
	}
}
