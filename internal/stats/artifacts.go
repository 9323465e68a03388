// Package stats aggregates episode results and writes per-run artifact
// files alongside the run index.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"tilewise/internal/game"
)

const runIndexFile = "run_index.json"

type RunConfig struct {
	RunID    string  `json:"run_id"`
	Slider   string  `json:"slider"`
	Episodes int     `json:"episodes"`
	Block    int     `json:"block"`
	Alpha    float64 `json:"alpha"`
	Seed     int64   `json:"seed"`
	InitSpec []int   `json:"init_spec,omitempty"`
	LoadPath string  `json:"load_path,omitempty"`
	SavePath string  `json:"save_path,omitempty"`
}

// BlockSummary aggregates one block of consecutive episodes: mean and max
// score, and the fraction of episodes whose best tile reached each value.
type BlockSummary struct {
	Block     int                `json:"block"`
	Episodes  int                `json:"episodes"`
	MeanScore float64            `json:"mean_score"`
	MaxScore  float64            `json:"max_score"`
	TileReach map[string]float64 `json:"tile_reach,omitempty"`
}

type RunArtifacts struct {
	Config    RunConfig      `json:"config"`
	Blocks    []BlockSummary `json:"blocks"`
	Scores    []float64      `json:"scores"`
	MeanScore float64        `json:"mean_score"`
	BestScore float64        `json:"best_score"`
}

type RunIndexEntry struct {
	RunID        string  `json:"run_id"`
	Slider       string  `json:"slider"`
	Episodes     int     `json:"episodes"`
	Alpha        float64 `json:"alpha"`
	Seed         int64   `json:"seed"`
	MeanScore    float64 `json:"mean_score"`
	BestScore    float64 `json:"best_score"`
	CreatedAtUTC string  `json:"created_at_utc"`
}

// Summarize aggregates one block's scores and best tile ranks. The two
// slices run in parallel, one entry per episode.
func Summarize(block int, scores []float64, maxRanks []int) BlockSummary {
	s := BlockSummary{Block: block, Episodes: len(scores)}
	if len(scores) == 0 {
		return s
	}

	sum := 0.0
	best := math.Inf(-1)
	for _, score := range scores {
		sum += score
		if score > best {
			best = score
		}
	}
	s.MeanScore = sum / float64(len(scores))
	s.MaxScore = best

	reached := map[int]int{}
	for _, rank := range maxRanks {
		for r := 3; r <= rank; r++ {
			reached[r]++
		}
	}
	s.TileReach = make(map[string]float64, len(reached))
	for rank, count := range reached {
		key := strconv.Itoa(game.TileValue(rank))
		s.TileReach[key] = float64(count) / float64(len(maxRanks))
	}
	return s
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "blocks.json"), artifacts.Blocks); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "scores.json"), map[string]any{
		"scores":     artifacts.Scores,
		"mean_score": artifacts.MeanScore,
		"best_score": artifacts.BestScore,
	}); err != nil {
		return "", err
	}
	if err := writeScoresCSV(filepath.Join(runDir, "scores.csv"), artifacts.Scores); err != nil {
		return "", err
	}

	return runDir, nil
}

func LoadRunArtifacts(runDir string) (RunArtifacts, error) {
	var artifacts RunArtifacts
	if err := readJSON(filepath.Join(runDir, "config.json"), &artifacts.Config); err != nil {
		return RunArtifacts{}, err
	}
	if err := readJSON(filepath.Join(runDir, "blocks.json"), &artifacts.Blocks); err != nil {
		return RunArtifacts{}, err
	}
	var scores struct {
		Scores    []float64 `json:"scores"`
		MeanScore float64   `json:"mean_score"`
		BestScore float64   `json:"best_score"`
	}
	if err := readJSON(filepath.Join(runDir, "scores.json"), &scores); err != nil {
		return RunArtifacts{}, err
	}
	artifacts.Scores = scores.Scores
	artifacts.MeanScore = scores.MeanScore
	artifacts.BestScore = scores.BestScore
	return artifacts, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAtUTC > entries[j].CreatedAtUTC
	})
	return entries, nil
}

func writeScoresCSV(path string, scores []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"episode", "score"}); err != nil {
		return err
	}
	for i, score := range scores {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(score, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, into)
}
