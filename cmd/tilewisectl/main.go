package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"tilewise/internal/game"
	"tilewise/internal/storage"
	tileapi "tilewise/pkg/tilewise"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "train":
		return runTrain(ctx, args[1:])
	case "play":
		return runPlay(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: tilewisectl <train|play|runs|show> [flags]", msg)
}

func newClient(ctx context.Context, storeKind, dbPath, artifactsDir string) (*tileapi.Client, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return tileapi.NewClient(ctx, tileapi.Options{
		StoreKind:    storeKind,
		DBPath:       dbPath,
		ArtifactsDir: artifactsDir,
		Logger:       log,
	})
}

func runTrain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional train config JSON path")
	episodes := fs.Int("episodes", 1000, "episode count")
	block := fs.Int("block", 1000, "statistics block size in episodes")
	alpha := fs.Float64("alpha", 0.1, "learning rate, spread over active features")
	seed := fs.Int64("seed", 0, "placer rng seed (0 picks one)")
	initSpec := fs.String("init", "", "comma-separated weight table sizes")
	loadPath := fs.String("load", "", "weight file to load before training")
	savePath := fs.String("save", "", "weight file to write after training")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "tilewise.db", "sqlite database path")
	artifactsDir := fs.String("artifacts", "artifacts", "artifacts directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := tileapi.TrainRequest{
		Episodes: *episodes,
		Block:    *block,
		Alpha:    *alpha,
		Seed:     *seed,
		InitSpec: *initSpec,
		LoadPath: *loadPath,
		SavePath: *savePath,
	}
	if *configPath != "" {
		loaded, err := loadTrainRequestFromConfig(*configPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w", *configPath, err)
		}
		req = loaded
	}

	client, err := newClient(ctx, *storeKind, *dbPath, *artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Train(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run_id=%s episodes=%d mean=%.1f best=%.0f max_tile=%d artifacts=%s\n",
		summary.RunID, summary.Episodes, summary.MeanScore, summary.BestScore,
		game.TileValue(summary.MaxTileRank), summary.ArtifactsDir)
	return nil
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	slider := fs.String("slider", "ntuple", "slider kind: ntuple|random|greedy|mrgreedy")
	episodes := fs.Int("episodes", 100, "episode count")
	seed := fs.Int64("seed", 0, "rng seed (0 picks one)")
	loadPath := fs.String("load", "", "weight file for the ntuple slider")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(ctx, "memory", "", "artifacts")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Play(ctx, tileapi.PlayRequest{
		Slider:   *slider,
		Episodes: *episodes,
		Seed:     *seed,
		LoadPath: *loadPath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("slider=%s episodes=%d mean=%.1f best=%.0f max_tile=%d\n",
		*slider, summary.Episodes, summary.MeanScore, summary.BestScore,
		game.TileValue(summary.MaxTileRank))
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list (0 lists all)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "tilewise.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(ctx, *storeKind, *dbPath, "artifacts")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, tileapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("%s  created=%s episodes=%d alpha=%g mean=%.1f best=%d max_tile=%d\n",
			run.RunID, run.CreatedAtUTC, run.Episodes, run.Alpha,
			run.MeanScore, run.BestScore, game.TileValue(run.MaxTileRank))
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id to show")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "tilewise.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("show requires -run-id")
	}

	client, err := newClient(ctx, *storeKind, *dbPath, "artifacts")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	detail, err := client.Show(ctx, *runID)
	if err != nil {
		return err
	}

	run := detail.Run
	fmt.Printf("run_id=%s created=%s slider=%s\n", run.RunID, run.CreatedAtUTC, run.Slider)
	fmt.Printf("episodes=%d alpha=%g seed=%d\n", run.Episodes, run.Alpha, run.Seed)
	fmt.Printf("mean=%.1f best=%d max_tile=%d\n", run.MeanScore, run.BestScore, game.TileValue(run.MaxTileRank))
	fmt.Printf("recorded_scores=%d\n", len(detail.Scores))
	if detail.Snapshot != nil {
		fmt.Printf("weights=%s tables=%d sha256=%s\n",
			detail.Snapshot.Path, detail.Snapshot.TableCount, detail.Snapshot.SHA256)
	}
	return nil
}
