package archive

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/coolarec/spooling/internal/job"
)

func TestPersistWritesJSONSnapshot(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	j := job.Job{JobID: 7, FileName: "teamA_20260731_000000_7", Status: job.Completed}
	if err := s.Persist(context.Background(), j); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	path := filepath.Join(dir, j.FileName+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected archive file at %s: %v", path, err)
	}

	var got job.Job
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal archived job: %v", err)
	}
	if got.JobID != j.JobID || got.Status != job.Completed {
		t.Fatalf("archived job mismatch: %+v", got)
	}
}

func TestNewFileStoreCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	if _, err := NewFileStore(dir); err != nil {
		t.Fatalf("NewFileStore should create missing dirs: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected dir to exist: %v", err)
	}
}
