package localstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tinytelemetry/pairs/internal/model"
	"github.com/tinytelemetry/pairs/internal/ranking"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

// FileStore keeps the leaderboard in one JSON file named after a fixed
// namespace inside dir. Writes replace the file atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// Open prepares a store at <dir>/<namespace>.json. The file itself is
// created on the first save.
func Open(dir, namespace string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("localstore: dir is empty")
	}
	if strings.TrimSpace(namespace) == "" {
		namespace = model.DefaultNamespace
	}
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return nil, fmt.Errorf("localstore: mkdir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, namespace+".json")}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// LoadRankings reads the saved table. A missing or empty file is an empty
// table; undecodable content yields model.ErrMalformedRankings.
func (s *FileStore) LoadRankings(_ context.Context) ([]model.RankingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("localstore: read: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	return ranking.Decode(data)
}

// SaveRankings replaces the saved table with entries.
func (s *FileStore) SaveRankings(ctx context.Context, entries []model.RankingEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := ranking.Encode(entries)
	if err != nil {
		return fmt.Errorf("localstore: encode: %w", err)
	}
	payload = append(payload, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeAtomic(s.path, payload)
}

func writeAtomic(path string, payload []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, defaultFileMode); err != nil {
		return fmt.Errorf("localstore: write tmp: %w", err)
	}

	f, err := os.OpenFile(tmp, os.O_RDWR, defaultFileMode)
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("localstore: open tmp: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("localstore: sync tmp: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("localstore: close tmp: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("localstore: rename: %w", err)
	}
	return nil
}
