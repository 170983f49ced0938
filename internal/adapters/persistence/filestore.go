package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arenalab/duelrank/pkg/metrics"
)

// document is the on-disk shape of a persisted table.
type document struct {
	Ratings map[string]float64 `json:"ratings"`
}

// FileStore persists rating tables as JSON documents, one file per
// (set, track) pair.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if missing.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context, set, track string) (map[string]float64, bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordPersistenceLatency("load", time.Since(start).Seconds())
	}()

	raw, err := os.ReadFile(s.path(set, track))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, err
	}
	return doc.Ratings, true, nil
}

// Save implements Store. The document is written to a temp file and
// renamed so readers never observe a torn write.
func (s *FileStore) Save(_ context.Context, set, track string, scores map[string]float64) error {
	start := time.Now()
	defer func() {
		metrics.RecordPersistenceLatency("save", time.Since(start).Seconds())
	}()

	raw, err := json.MarshalIndent(document{Ratings: scores}, "", "  ")
	if err != nil {
		return err
	}
	path := s.path(set, track)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *FileStore) path(set, track string) string {
	return filepath.Join(s.dir, sanitize(set)+"__"+sanitize(track)+".json")
}

// sanitize keeps file names to a safe character set.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		}
		return '_'
	}, name)
}
