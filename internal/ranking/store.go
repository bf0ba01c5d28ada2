package ranking

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/tinytelemetry/pairs/internal/model"
)

// Store holds the leaderboard: at most model.RankingSize entries sorted by
// time, ties going to the earlier date. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	entries   []model.RankingEntry
	persister model.RankingPersister
	log       *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPersister saves the table after every accepted insert.
func WithPersister(p model.RankingPersister) Option {
	return func(s *Store) { s.persister = p }
}

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the table with the persisted one. Malformed data leaves an
// empty table and is not an error.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	entries, err := s.persister.LoadRankings(ctx)
	if errors.Is(err, model.ErrMalformedRankings) {
		s.log.Warn("discarding malformed rankings", zap.Error(err))
		entries, err = nil, nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = normalize(entries)
	s.mu.Unlock()
	return nil
}

// Qualifies reports whether a run of d would enter the table.
func (s *Store) Qualifies(d time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) < model.RankingSize {
		return true
	}
	return d < s.entries[model.RankingSize-1].Time
}

// Insert adds an entry and keeps the best model.RankingSize. A name that is
// blank after trimming is rejected; longer names are cut to
// model.MaxNameLength runes. It reports whether the entry was accepted.
func (s *Store) Insert(ctx context.Context, name string, d time.Duration, date time.Time) bool {
	name = clampName(name)
	if name == "" {
		return false
	}

	s.mu.Lock()
	entries := append(slices.Clone(s.entries), model.RankingEntry{Name: name, Time: d, Date: date})
	s.entries = normalize(entries)
	saved := slices.Clone(s.entries)
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.SaveRankings(ctx, saved); err != nil {
			s.log.Error("saving rankings", zap.Error(err))
		}
	}
	return true
}

// Top yields up to n entries best first. Each range takes a fresh snapshot,
// so the sequence can be iterated again and reflects later inserts.
func (s *Store) Top(n int) iter.Seq[model.RankingEntry] {
	return func(yield func(model.RankingEntry) bool) {
		snap := s.Entries()
		for i, e := range snap {
			if i >= n {
				return
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Entries returns a copy of the table.
func (s *Store) Entries() []model.RankingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func normalize(entries []model.RankingEntry) []model.RankingEntry {
	slices.SortStableFunc(entries, func(a, b model.RankingEntry) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	if len(entries) > model.RankingSize {
		entries = entries[:model.RankingSize]
	}
	return entries
}

func clampName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= model.MaxNameLength {
		return name
	}
	return strings.TrimSpace(string([]rune(name)[:model.MaxNameLength]))
}
