package main

import (
	"encoding/json"
	"math"
	"os"

	tileapi "tilewise/pkg/tilewise"
)

// loadTrainRequestFromConfig reads a tolerant JSON config: unknown keys are
// ignored and numeric fields accept any JSON number.
func loadTrainRequestFromConfig(path string) (tileapi.TrainRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tileapi.TrainRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return tileapi.TrainRequest{}, err
	}

	var req tileapi.TrainRequest
	if v, ok := asInt(raw["episodes"]); ok {
		req.Episodes = v
	}
	if v, ok := asInt(raw["block"]); ok {
		req.Block = v
	}
	if v, ok := asFloat64(raw["alpha"]); ok {
		req.Alpha = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asString(raw["init"]); ok {
		req.InitSpec = v
	}
	if v, ok := asString(raw["load"]); ok {
		req.LoadPath = v
	}
	if v, ok := asString(raw["save"]); ok {
		req.SavePath = v
	}
	return req, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asFloat64(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func asInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func asInt64(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}
