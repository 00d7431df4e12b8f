package history

import (
	"context"
	"sort"
	"sync"

	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

// MemoryRepository keeps rounds for the life of the process
type MemoryRepository struct {
	mu     sync.RWMutex
	rounds []*entities.RoundResult
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *result
	copied.Players = append([]entities.PlayerRoundResult(nil), result.Players...)
	r.rounds = append(r.rounds, &copied)
	return nil
}

func (r *MemoryRepository) GetPlayerResults(ctx context.Context, name string, limit int) ([]*entities.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := []*entities.RoundResult{}
	for i := len(r.rounds) - 1; i >= 0; i-- {
		if r.rounds[i].Player(name) != nil {
			results = append(results, r.rounds[i])
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompletedAt.After(results[j].CompletedAt)
	})

	if limit = normalizeLimit(limit); len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
