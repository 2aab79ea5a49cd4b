package repository

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/icewatch/ice-news-monitor/internal/model"
)

// StateRepository persists the last-notified item. Load never fails:
// missing or corrupt state degrades to the never-notified sentinel so a
// broken state file costs at most one duplicate notification, never a
// permanently stuck monitor.
type StateRepository interface {
	Load(ctx context.Context) (model.SeenRecord, error)
	Save(ctx context.Context, record model.SeenRecord) error
	Close() error
}

type fileStateRepository struct {
	path string
}

// NewFileStateRepository creates a state repository backed by a local JSON
// file.
func NewFileStateRepository(path string) StateRepository {
	return &fileStateRepository{path: path}
}

func (f *fileStateRepository) Load(ctx context.Context) (model.SeenRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Could not read state file %s: %v", f.path, err)
		}
		return model.SeenRecord{}, nil
	}

	var record model.SeenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		log.Printf("⚠️ Corrupt state file %s: %v", f.path, err)
		return model.SeenRecord{}, nil
	}

	return record, nil
}

// Save writes the record atomically: a crash mid-save leaves either the old
// file or the new one, never a torn write.
func (f *fileStateRepository) Save(ctx context.Context, record model.SeenRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return &PersistError{Target: f.path, Err: err}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistError{Target: f.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return &PersistError{Target: f.path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &PersistError{Target: f.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &PersistError{Target: f.path, Err: err}
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return &PersistError{Target: f.path, Err: err}
	}

	return nil
}

func (f *fileStateRepository) Close() error { return nil }
