// Package archive persists a JSON snapshot of each Completed job as an
// audit trail alongside its rendered PDF. It replaces the teacher's
// internal/storage package (postgres/clickhouse stubs that never carried
// a real driver dependency — see DESIGN.md) with a concern SPEC_FULL
// actually exercises: spec.md §6's "./output/{file_name}" contract,
// extended with a sidecar ".json" manifest entry.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coolarec/spooling/internal/job"
)

// Store persists completed-job snapshots. Close releases any resources.
type Store interface {
	Persist(ctx context.Context, j job.Job) error
	Close() error
}

// FileStore writes one JSON file per completed job under Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a Store rooted at dir, creating it if absent.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("archive: create dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

// Persist writes j as Dir/{file_name}.json.
func (s *FileStore) Persist(ctx context.Context, j job.Job) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("archive: marshal job %d: %w", j.JobID, err)
	}

	path := filepath.Join(s.Dir, j.FileName+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("archive: write %s: %w", path, err)
	}
	return nil
}

// Close is a no-op for FileStore; it exists to satisfy Store.
func (s *FileStore) Close() error { return nil }
