package duckdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tinytelemetry/pairs/internal/model"
)

// LoadRankings returns the saved leaderboard ordered by position.
// Rows that violate the entry invariants make the table malformed.
func (s *Store) LoadRankings(ctx context.Context) ([]model.RankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT name, time_ms, achieved_at FROM rankings ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query rankings: %w", err)
	}
	defer rows.Close()

	var entries []model.RankingEntry
	for rows.Next() {
		var (
			name   string
			timeMS int64
			at     time.Time
		)
		if err := rows.Scan(&name, &timeMS, &at); err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		if strings.TrimSpace(name) == "" || timeMS < 0 {
			return nil, fmt.Errorf("%w: row %d", model.ErrMalformedRankings, len(entries)+1)
		}
		entries = append(entries, model.RankingEntry{
			Name: name,
			Time: time.Duration(timeMS) * time.Millisecond,
			Date: at.UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rankings: %w", err)
	}
	return entries, nil
}

// SaveRankings replaces the leaderboard in one transaction.
func (s *Store) SaveRankings(ctx context.Context, entries []model.RankingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rankings tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rankings`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear rankings: %w", err)
	}
	for i, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO rankings (position, name, time_ms, achieved_at) VALUES (?, ?, ?, ?)`,
			i+1, e.Name, e.Time.Milliseconds(), e.Date.UTC(),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert ranking %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rankings: %w", err)
	}
	return nil
}

// RecordGame stores a finished game. Recording the same game twice is a no-op.
func (s *Store) RecordGame(ctx context.Context, r GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO game_results (game_id, elapsed_ms, finished_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		r.GameID.String(), r.Elapsed.Milliseconds(), r.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record game %s: %w", r.GameID, err)
	}
	return nil
}

// RecentGames returns up to limit finished games, newest first.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, elapsed_ms, finished_at FROM game_results ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var out []GameResult
	for rows.Next() {
		var (
			id        string
			elapsedMS int64
			at        time.Time
		)
		if err := rows.Scan(&id, &elapsedMS, &at); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		gid, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse game id %q: %w", id, err)
		}
		out = append(out, GameResult{GameID: gid, Elapsed: time.Duration(elapsedMS) * time.Millisecond, FinishedAt: at.UTC()})
	}
	return out, rows.Err()
}

// DeleteGamesBefore removes finished games older than cutoff and returns
// how many were deleted.
func (s *Store) DeleteGamesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM game_results WHERE finished_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete games: %w", err)
	}
	return res.RowsAffected()
}
