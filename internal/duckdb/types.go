package duckdb

import "github.com/tinytelemetry/pairs/internal/model"

// Type aliases re-export model types so callers of the store do not need
// to import model for them.
type RankingEntry = model.RankingEntry
type GameResult = model.GameResult

var (
	_ model.RankingPersister = (*Store)(nil)
	_ model.GameRecorder     = (*Store)(nil)
	_ model.GameHistory      = (*Store)(nil)
)
