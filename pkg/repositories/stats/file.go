package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/fadedpez/blackjackpalace/internal/logging"
	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

// FileRepository keeps every record in one JSON document that is rewritten
// in full on each save
type FileRepository struct {
	path    string
	mu      sync.RWMutex
	records map[string]*entities.StatsRecord
	logger  *log.Logger
}

// NewFileRepository loads path. A missing or unreadable file starts an empty
// store; a bad file is logged and left alone until the next save replaces it.
func NewFileRepository(path string, logger *log.Logger) *FileRepository {
	r := &FileRepository{
		path:    path,
		records: make(map[string]*entities.StatsRecord),
		logger:  logging.OrDiscard(logger),
	}

	records, err := r.load()
	switch {
	case err != nil:
		r.logger.Warn("Could not load player stats, starting empty", "path", path, "error", err)
	case records != nil:
		r.records = records
		r.logger.Debug("Loaded player stats", "path", path, "players", len(records))
	}

	return r
}

// GetAll returns a copy of every stored record
func (r *FileRepository) GetAll(ctx context.Context) (map[string]*entities.StatsRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*entities.StatsRecord, len(r.records))
	for name, rec := range r.records {
		out[name] = rec.Clone()
	}
	return out, nil
}

// Get returns a copy of one record
func (r *FileRepository) Get(ctx context.Context, name string) (*entities.StatsRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[name]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return rec.Clone(), nil
}

// Save stores the record and rewrites the file before returning
func (r *FileRepository) Save(ctx context.Context, name string, record *entities.StatsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := record.Clone()
	rec.Normalize()

	previous, existed := r.records[name]
	r.records[name] = rec
	if err := r.save(); err != nil {
		if existed {
			r.records[name] = previous
		} else {
			delete(r.records, name)
		}
		return err
	}
	return nil
}

// Close is a no-op; every save is already on disk
func (r *FileRepository) Close() error {
	return nil
}

// load decodes the stats document. Entries written as a bare win count are
// upgraded to a full record.
func (r *FileRepository) load() (map[string]*entities.StatsRecord, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode stats file: %w", err)
	}

	records := make(map[string]*entities.StatsRecord, len(raw))
	for name, value := range raw {
		value = bytes.TrimSpace(value)

		var wins int
		if err := json.Unmarshal(value, &wins); err == nil {
			rec := entities.NewStatsRecord()
			rec.Wins = max(0, wins)
			records[name] = rec
			continue
		}

		rec := entities.NewStatsRecord()
		if err := json.Unmarshal(value, rec); err != nil {
			return nil, fmt.Errorf("failed to decode stats for %q: %w", name, err)
		}
		rec.Normalize()
		records[name] = rec
	}

	return records, nil
}

// save writes to a temp file in the same directory, syncs it and renames it
// over the target so a crash leaves either the old or the new document
func (r *FileRepository) save() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write stats: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync stats: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close stats file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace stats file: %w", err)
	}

	return nil
}
