package duckdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tinytelemetry/pairs/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var testDate = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSaveAndLoadRankings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := []model.RankingEntry{
		{Name: "alice", Time: 12340 * time.Millisecond, Date: testDate},
		{Name: "bob", Time: 13000 * time.Millisecond, Date: testDate.Add(time.Minute)},
	}
	if err := store.SaveRankings(ctx, in); err != nil {
		t.Fatalf("SaveRankings: %v", err)
	}

	got, err := store.LoadRankings(ctx)
	if err != nil {
		t.Fatalf("LoadRankings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadRankings returned %d entries, want 2", len(got))
	}
	for i := range in {
		if got[i].Name != in[i].Name || got[i].Time != in[i].Time || !got[i].Date.Equal(in[i].Date) {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], in[i])
		}
	}
}

func TestSaveRankingsReplacesTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := []model.RankingEntry{
		{Name: "a", Time: time.Second, Date: testDate},
		{Name: "b", Time: 2 * time.Second, Date: testDate},
	}
	if err := store.SaveRankings(ctx, first); err != nil {
		t.Fatalf("SaveRankings: %v", err)
	}
	if err := store.SaveRankings(ctx, first[:1]); err != nil {
		t.Fatalf("SaveRankings: %v", err)
	}

	got, err := store.LoadRankings(ctx)
	if err != nil {
		t.Fatalf("LoadRankings: %v", err)
	}
	if len(got) != 1 || got[0].Name != "a" {
		t.Errorf("expected only a, got %+v", got)
	}
}

func TestLoadRankingsEmpty(t *testing.T) {
	store := newTestStore(t)
	got, err := store.LoadRankings(context.Background())
	if err != nil {
		t.Fatalf("LoadRankings: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty table, got %+v", got)
	}
}

func TestLoadRankingsMalformedRow(t *testing.T) {
	store := newTestStore(t)
	_, err := store.db.Exec(`INSERT INTO rankings (position, name, time_ms, achieved_at) VALUES (1, '  ', 10, ?)`, testDate)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = store.LoadRankings(context.Background())
	if !errors.Is(err, model.ErrMalformedRankings) {
		t.Fatalf("expected ErrMalformedRankings, got %v", err)
	}
}

func TestRecordGameIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	for range 2 {
		if err := store.RecordGame(ctx, GameResult{GameID: id, Elapsed: 20 * time.Second, FinishedAt: testDate}); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}
	if err := store.RecordGame(ctx, GameResult{GameID: uuid.New(), Elapsed: 30 * time.Second, FinishedAt: testDate.Add(time.Hour)}); err != nil {
		t.Fatalf("RecordGame: %v", err)
	}

	games, err := store.RecentGames(ctx, 10)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("RecentGames returned %d, want 2", len(games))
	}
	if games[1].GameID != id || games[1].Elapsed != 20*time.Second {
		t.Errorf("oldest game = %+v", games[1])
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pairs.duckdb")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.DBPath() != path {
		t.Errorf("DBPath = %s", store.DBPath())
	}
	if err := store.SaveRankings(context.Background(), []model.RankingEntry{{Name: "kept", Time: time.Second, Date: testDate}}); err != nil {
		t.Fatalf("SaveRankings: %v", err)
	}
	store.Close()

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.LoadRankings(context.Background())
	if err != nil {
		t.Fatalf("LoadRankings: %v", err)
	}
	if len(got) != 1 || got[0].Name != "kept" {
		t.Errorf("expected kept entry after reopen, got %+v", got)
	}
}
