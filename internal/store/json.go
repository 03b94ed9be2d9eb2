package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agilemorph/firewatch/internal/model"
)

// JSONStore persists incidents as a single array-of-records file. The
// mutex spans the whole read-check-write cycle so concurrent pipelines
// appending to the same file never lose or duplicate a record, and the
// rewrite goes through a temp file plus atomic rename so an interruption
// mid-write leaves the previous contents intact.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

// NewJSON creates a JSON-file store at path. The file is created on the
// first append.
func NewJSON(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Append(ctx context.Context, inc model.Incident) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, eris.Wrap(err, "jsonstore: append")
	}

	records := s.readAll()
	for _, r := range records {
		if r.TweetID == inc.TweetID {
			return false, nil
		}
	}

	records = append(records, inc)
	if err := s.writeAll(records); err != nil {
		return false, err
	}
	return true, nil
}

func (s *JSONStore) SeenIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readAll()
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.TweetID)
	}
	return ids, nil
}

func (s *JSONStore) Records(ctx context.Context) ([]model.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(), nil
}

func (s *JSONStore) Close() error {
	return nil
}

// readAll loads the persisted array. A missing or corrupt file yields an
// empty collection; the store recovers rather than refusing to run.
func (s *JSONStore) readAll() []model.Incident {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var records []model.Incident
	if err := json.Unmarshal(data, &records); err != nil {
		zap.L().Warn("jsonstore: existing file corrupt, starting fresh",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return nil
	}
	return records
}

func (s *JSONStore) writeAll(records []model.Incident) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "jsonstore: marshal")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "jsonstore: create output dir")
	}

	// Temp file in the same directory so the rename stays on one
	// filesystem and is atomic.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return eris.Wrap(err, "jsonstore: create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return eris.Wrap(err, "jsonstore: write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return eris.Wrap(err, "jsonstore: close temp file")
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return eris.Wrap(err, "jsonstore: rename temp file")
	}
	return nil
}
