package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is one training or evaluation run's configuration and outcome.
type RunRecord struct {
	VersionedRecord
	ID           string  `json:"id"`
	CreatedAtUTC string  `json:"created_at_utc"`
	Slider       string  `json:"slider"`
	Episodes     int     `json:"episodes"`
	Alpha        float64 `json:"alpha"`
	Seed         int64   `json:"seed"`
	InitSpec     []int   `json:"init_spec,omitempty"`
	LoadPath     string  `json:"load_path,omitempty"`
	SavePath     string  `json:"save_path,omitempty"`
	MeanScore    float64 `json:"mean_score"`
	BestScore    int     `json:"best_score"`
	MaxTileRank  int     `json:"max_tile_rank"`
}

// WeightSnapshot records where a run's weight file landed and what it held.
type WeightSnapshot struct {
	VersionedRecord
	RunID      string `json:"run_id"`
	Path       string `json:"path"`
	TableCount int    `json:"table_count"`
	TableSizes []int  `json:"table_sizes"`
	SHA256     string `json:"sha256"`
}
