package storage

import (
	"encoding/json"
	"errors"

	"tilewise/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeWeightSnapshot(s model.WeightSnapshot) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeWeightSnapshot(data []byte) (model.WeightSnapshot, error) {
	var snapshot model.WeightSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return model.WeightSnapshot{}, err
	}
	if err := checkVersion(snapshot.VersionedRecord); err != nil {
		return model.WeightSnapshot{}, err
	}
	return snapshot, nil
}

func EncodeScoreHistory(scores []float64) ([]byte, error) {
	return json.Marshal(scores)
}

func DecodeScoreHistory(data []byte) ([]float64, error) {
	var scores []float64
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
