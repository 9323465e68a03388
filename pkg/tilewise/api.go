// Package tilewise is the embedding API: it wires agents, the episode
// arena, run statistics, and the persistence store behind one client.
package tilewise

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tilewise/internal/agent"
	"tilewise/internal/model"
	"tilewise/internal/platform"
	"tilewise/internal/stats"
	"tilewise/internal/storage"
)

const (
	defaultArtifactsDir = "artifacts"
	defaultDBPath       = "tilewise.db"
	defaultBlock        = 1000
	defaultAlpha        = 0.1
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	Logger       *logrus.Logger
}

type Client struct {
	store        storage.Store
	artifactsDir string
	log          *logrus.Logger
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	return &Client{store: store, artifactsDir: artifactsDir, log: log}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

type TrainRequest struct {
	Episodes int
	Block    int
	Alpha    float64
	Seed     int64
	InitSpec string
	LoadPath string
	SavePath string
	// Tuples overrides the learner's base features; nil keeps the defaults.
	Tuples [][]int
}

type RunSummary struct {
	RunID        string
	ArtifactsDir string
	Episodes     int
	MeanScore    float64
	BestScore    float64
	MaxTileRank  int
	Blocks       []stats.BlockSummary
}

// Train runs TD training episodes with the n-tuple learner against the
// random placer, persists the run record, and writes artifacts.
func (c *Client) Train(ctx context.Context, req TrainRequest) (RunSummary, error) {
	if req.Episodes <= 0 {
		return RunSummary{}, fmt.Errorf("episodes must be positive")
	}
	block := req.Block
	if block <= 0 {
		block = defaultBlock
	}
	alpha := req.Alpha
	if alpha == 0 {
		alpha = defaultAlpha
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var args strings.Builder
	fmt.Fprintf(&args, "alpha=%g", alpha)
	if req.InitSpec != "" {
		fmt.Fprintf(&args, " init=%s", req.InitSpec)
	}
	if req.LoadPath != "" {
		fmt.Fprintf(&args, " load=%s", req.LoadPath)
	}
	if req.SavePath != "" {
		fmt.Fprintf(&args, " save=%s", req.SavePath)
	}
	learner, err := agent.NewLearner(args.String(), req.Tuples)
	if err != nil {
		return RunSummary{}, fmt.Errorf("build learner: %w", err)
	}
	placer, err := agent.NewRandomPlacer(fmt.Sprintf("seed=%d", seed))
	if err != nil {
		return RunSummary{}, fmt.Errorf("build placer: %w", err)
	}

	now := time.Now().UTC()
	runID := fmt.Sprintf("ntuple-%d-%d", seed, now.Unix())
	c.log.WithFields(logrus.Fields{
		"run_id":   runID,
		"episodes": req.Episodes,
		"alpha":    alpha,
		"seed":     seed,
	}).Info("training started")

	arena := &platform.Arena{Slider: learner, Placer: placer}
	scores := make([]float64, 0, req.Episodes)
	maxRanks := make([]int, 0, req.Episodes)
	var blocks []stats.BlockSummary

	flush := func() {
		start := len(blocks) * block
		if start >= len(scores) {
			return
		}
		summary := stats.Summarize(len(blocks)+1, scores[start:], maxRanks[start:])
		blocks = append(blocks, summary)
		c.log.WithFields(logrus.Fields{
			"run_id": runID,
			"block":  summary.Block,
			"mean":   summary.MeanScore,
			"max":    summary.MaxScore,
		}).Info("training block")
	}
	err = arena.RunEpisodes(ctx, req.Episodes, func(episode int, res platform.Result) {
		scores = append(scores, float64(res.Score))
		maxRanks = append(maxRanks, res.MaxRank)
		if episode%block == 0 {
			flush()
		}
	})
	if err != nil {
		return RunSummary{}, err
	}
	flush()

	if err := learner.Close(); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		RunID:       runID,
		Episodes:    req.Episodes,
		Blocks:      blocks,
		BestScore:   bestOf(scores),
		MeanScore:   meanOf(scores),
		MaxTileRank: maxOfInts(maxRanks),
	}

	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:           runID,
		CreatedAtUTC: now.Format(time.RFC3339),
		Slider:       "ntuple",
		Episodes:     req.Episodes,
		Alpha:        alpha,
		Seed:         seed,
		LoadPath:     req.LoadPath,
		SavePath:     req.SavePath,
		MeanScore:    summary.MeanScore,
		BestScore:    int(summary.BestScore),
		MaxTileRank:  summary.MaxTileRank,
	}
	if req.InitSpec != "" {
		if cfg, err := agent.ParseInitSpec(req.InitSpec); err == nil {
			run.InitSpec = cfg
		}
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, fmt.Errorf("save run: %w", err)
	}
	if err := c.store.SaveScoreHistory(ctx, runID, scores); err != nil {
		return RunSummary{}, fmt.Errorf("save score history: %w", err)
	}
	if req.SavePath != "" {
		snapshot, err := weightSnapshot(runID, req.SavePath, learner)
		if err != nil {
			return RunSummary{}, err
		}
		if err := c.store.SaveWeightSnapshot(ctx, snapshot); err != nil {
			return RunSummary{}, fmt.Errorf("save weight snapshot: %w", err)
		}
	}

	artifacts := stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:    runID,
			Slider:   "ntuple",
			Episodes: req.Episodes,
			Block:    block,
			Alpha:    alpha,
			Seed:     seed,
			InitSpec: run.InitSpec,
			LoadPath: req.LoadPath,
			SavePath: req.SavePath,
		},
		Blocks:    blocks,
		Scores:    scores,
		MeanScore: summary.MeanScore,
		BestScore: summary.BestScore,
	}
	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, artifacts)
	if err != nil {
		return RunSummary{}, fmt.Errorf("write artifacts: %w", err)
	}
	summary.ArtifactsDir = runDir
	if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
		RunID:        runID,
		Slider:       "ntuple",
		Episodes:     req.Episodes,
		Alpha:        alpha,
		Seed:         seed,
		MeanScore:    summary.MeanScore,
		BestScore:    summary.BestScore,
		CreatedAtUTC: run.CreatedAtUTC,
	}); err != nil {
		return RunSummary{}, fmt.Errorf("update run index: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"run_id": runID,
		"mean":   summary.MeanScore,
		"best":   summary.BestScore,
	}).Info("training finished")
	return summary, nil
}

type PlayRequest struct {
	Slider   string
	Episodes int
	Seed     int64
	LoadPath string
}

type PlaySummary struct {
	Episodes    int
	MeanScore   float64
	BestScore   float64
	MaxTileRank int
}

// Play runs evaluation-only episodes with the chosen slider; no weights
// are updated or persisted.
func (c *Client) Play(ctx context.Context, req PlayRequest) (PlaySummary, error) {
	if req.Episodes <= 0 {
		return PlaySummary{}, fmt.Errorf("episodes must be positive")
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	args := fmt.Sprintf("seed=%d", seed)
	if req.LoadPath != "" {
		args += " load=" + req.LoadPath
	}
	slider, err := agent.NewSlider(req.Slider, args)
	if err != nil {
		return PlaySummary{}, err
	}
	placer, err := agent.NewRandomPlacer(fmt.Sprintf("seed=%d", seed))
	if err != nil {
		return PlaySummary{}, err
	}

	arena := &platform.Arena{Slider: slider, Placer: placer}
	scores := make([]float64, 0, req.Episodes)
	maxRank := 0
	err = arena.RunEpisodes(ctx, req.Episodes, func(_ int, res platform.Result) {
		scores = append(scores, float64(res.Score))
		if res.MaxRank > maxRank {
			maxRank = res.MaxRank
		}
	})
	if err != nil {
		return PlaySummary{}, err
	}

	return PlaySummary{
		Episodes:    req.Episodes,
		MeanScore:   meanOf(scores),
		BestScore:   bestOf(scores),
		MaxTileRank: maxRank,
	}, nil
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Slider       string
	Episodes     int
	Alpha        float64
	Seed         int64
	MeanScore    float64
	BestScore    int
	MaxTileRank  int
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	runs, err := c.store.ListRuns(ctx, req.Limit)
	if err != nil {
		return nil, err
	}
	items := make([]RunItem, 0, len(runs))
	for _, run := range runs {
		items = append(items, runItem(run))
	}
	return items, nil
}

type SnapshotInfo struct {
	Path       string
	TableCount int
	TableSizes []int
	SHA256     string
}

type RunDetail struct {
	Run      RunItem
	Scores   []float64
	Snapshot *SnapshotInfo
}

func (c *Client) Show(ctx context.Context, runID string) (RunDetail, error) {
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return RunDetail{}, err
	}
	if !ok {
		return RunDetail{}, fmt.Errorf("run not found: %s", runID)
	}

	detail := RunDetail{Run: runItem(run)}
	if scores, ok, err := c.store.GetScoreHistory(ctx, runID); err != nil {
		return RunDetail{}, err
	} else if ok {
		detail.Scores = scores
	}
	if snapshot, ok, err := c.store.GetWeightSnapshot(ctx, runID); err != nil {
		return RunDetail{}, err
	} else if ok {
		detail.Snapshot = &SnapshotInfo{
			Path:       snapshot.Path,
			TableCount: snapshot.TableCount,
			TableSizes: snapshot.TableSizes,
			SHA256:     snapshot.SHA256,
		}
	}
	return detail, nil
}

func runItem(run model.RunRecord) RunItem {
	return RunItem{
		RunID:        run.ID,
		CreatedAtUTC: run.CreatedAtUTC,
		Slider:       run.Slider,
		Episodes:     run.Episodes,
		Alpha:        run.Alpha,
		Seed:         run.Seed,
		MeanScore:    run.MeanScore,
		BestScore:    run.BestScore,
		MaxTileRank:  run.MaxTileRank,
	}
}

func weightSnapshot(runID, path string, learner *agent.Learner) (model.WeightSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.WeightSnapshot{}, fmt.Errorf("open saved weights: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return model.WeightSnapshot{}, fmt.Errorf("hash saved weights: %w", err)
	}

	tables := learner.Tables()
	sizes := make([]int, len(tables))
	for i, t := range tables {
		sizes[i] = len(t)
	}
	return model.WeightSnapshot{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		RunID:      runID,
		Path:       path,
		TableCount: len(tables),
		TableSizes: sizes,
		SHA256:     hex.EncodeToString(h.Sum(nil)),
	}, nil
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func bestOf(values []float64) float64 {
	best := 0.0
	for _, v := range values {
		if v > best {
			best = v
		}
	}
	return best
}

func maxOfInts(values []int) int {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
