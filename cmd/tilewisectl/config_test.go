package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "train.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadTrainRequestFromConfig(t *testing.T) {
	path := writeConfig(t, `{
		"episodes": 5000,
		"block": 500,
		"alpha": 0.025,
		"seed": 42,
		"init": "65536,65536,65536,65536",
		"load": "in.bin",
		"save": "out.bin",
		"comment": "ignored"
	}`)

	req, err := loadTrainRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if req.Episodes != 5000 || req.Block != 500 {
		t.Fatalf("episodes/block = %d/%d", req.Episodes, req.Block)
	}
	if req.Alpha != 0.025 || req.Seed != 42 {
		t.Fatalf("alpha/seed = %v/%v", req.Alpha, req.Seed)
	}
	if req.InitSpec != "65536,65536,65536,65536" {
		t.Fatalf("init spec = %q", req.InitSpec)
	}
	if req.LoadPath != "in.bin" || req.SavePath != "out.bin" {
		t.Fatalf("paths = %q/%q", req.LoadPath, req.SavePath)
	}
}

func TestLoadTrainRequestIgnoresWrongTypes(t *testing.T) {
	path := writeConfig(t, `{
		"episodes": "many",
		"block": 10.5,
		"alpha": "fast",
		"seed": 7
	}`)

	req, err := loadTrainRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if req.Episodes != 0 || req.Block != 0 || req.Alpha != 0 {
		t.Fatalf("mistyped fields not ignored: %+v", req)
	}
	if req.Seed != 7 {
		t.Fatalf("seed = %d", req.Seed)
	}
}

func TestLoadTrainRequestMalformedJSON(t *testing.T) {
	path := writeConfig(t, "{not json")
	if _, err := loadTrainRequestFromConfig(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestLoadTrainRequestMissingFile(t *testing.T) {
	if _, err := loadTrainRequestFromConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
