package model

import (
	"context"
	"errors"
)

// ErrMalformedRankings is returned by persisters when stored ranking data
// cannot be decoded. Callers treat it as an empty table.
var ErrMalformedRankings = errors.New("malformed ranking data")

// RankingLoader reads a previously saved leaderboard.
type RankingLoader interface {
	LoadRankings(ctx context.Context) ([]RankingEntry, error)
}

// RankingSaver replaces the saved leaderboard with entries.
type RankingSaver interface {
	SaveRankings(ctx context.Context, entries []RankingEntry) error
}

// RankingPersister is the storage contract used by the ranking store.
type RankingPersister interface {
	RankingLoader
	RankingSaver
}

// GameRecorder stores finished games.
type GameRecorder interface {
	RecordGame(ctx context.Context, r GameResult) error
}

// GameHistory lists finished games, newest first.
type GameHistory interface {
	RecentGames(ctx context.Context, limit int) ([]GameResult, error)
}
