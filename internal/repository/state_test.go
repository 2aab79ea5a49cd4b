package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/icewatch/ice-news-monitor/internal/model"
)

func TestFileStateLoadMissing(t *testing.T) {
	repo := NewFileStateRepository(filepath.Join(t.TempDir(), "last_seen.json"))

	record, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !record.IsZero() {
		t.Errorf("Expected empty sentinel for missing file, got %+v", record)
	}
}

func TestFileStateLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_seen.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	repo := NewFileStateRepository(path)
	record, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !record.IsZero() {
		t.Errorf("Expected empty sentinel for corrupt file, got %+v", record)
	}
}

func TestFileStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "last_seen.json")
	repo := NewFileStateRepository(path)
	ctx := context.Background()

	record := model.SeenRecord{Title: "Pisten offen", Snippet: "Ab morgen"}
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != record {
		t.Errorf("Round trip mismatch: saved %+v, loaded %+v", record, loaded)
	}
}

func TestFileStateRoundTripSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_seen.json")
	repo := NewFileStateRepository(path)
	ctx := context.Background()

	if err := repo.Save(ctx, model.SeenRecord{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.IsZero() {
		t.Errorf("Expected sentinel to round-trip, got %+v", loaded)
	}
}

func TestFileStateSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_seen.json")
	repo := NewFileStateRepository(path)
	ctx := context.Background()

	if err := repo.Save(ctx, model.SeenRecord{Title: "old", Snippet: "old"}); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := repo.Save(ctx, model.SeenRecord{Title: "new", Snippet: "new"}); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, _ := repo.Load(ctx)
	if loaded.Title != "new" {
		t.Errorf("Expected overwrite, got %+v", loaded)
	}
}

func TestFileStateSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileStateRepository(filepath.Join(dir, "last_seen.json"))

	if err := repo.Save(context.Background(), model.SeenRecord{Title: "T", Snippet: "S"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "last_seen.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only the state file, found %v", names)
	}
}

func TestFileStateSaveFailure(t *testing.T) {
	// Target directory path is occupied by a file, so MkdirAll must fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "state")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write blocker: %v", err)
	}

	repo := NewFileStateRepository(filepath.Join(blocker, "last_seen.json"))
	err := repo.Save(context.Background(), model.SeenRecord{Title: "T", Snippet: "S"})

	if _, ok := err.(*PersistError); !ok {
		t.Fatalf("Expected *PersistError, got %v", err)
	}
}
