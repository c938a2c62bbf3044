package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new on-disk store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id string) Run {
	return Run{
		ID:            id,
		Folder:        "db://assets/ui",
		OutputRoot:    "/out",
		Profile:       "modern",
		EngineVersion: "0.1.0",
		IRVersion:     "1",
	}
}

// createTestItem creates an item with minimal required fields.
func createTestItem(runID string, seq int64, uuid string, status ItemStatus) Item {
	return Item{
		RunID:  runID,
		Seq:    seq,
		UUID:   uuid,
		Path:   "db://assets/ui/" + uuid + ".prefab",
		Status: status,
	}
}

func mustBeginRun(t *testing.T, s *Store, id string) Run {
	t.Helper()
	run, err := s.BeginRun(t.Context(), createTestRun(id))
	if err != nil {
		t.Fatalf("BeginRun(%q) failed: %v", id, err)
	}
	return run
}
