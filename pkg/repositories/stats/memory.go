package stats

import (
	"context"
	"sync"

	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

// MemoryRepository keeps records for the life of the process
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*entities.StatsRecord
}

// NewMemoryRepository creates an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]*entities.StatsRecord),
	}
}

func (r *MemoryRepository) GetAll(ctx context.Context) (map[string]*entities.StatsRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*entities.StatsRecord, len(r.records))
	for name, rec := range r.records {
		out[name] = rec.Clone()
	}
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, name string) (*entities.StatsRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[name]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (r *MemoryRepository) Save(ctx context.Context, name string, record *entities.StatsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := record.Clone()
	rec.Normalize()
	r.records[name] = rec
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
