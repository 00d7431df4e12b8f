// Package stats stores the per-player records that survive between sessions.
package stats

import (
	"context"
	"errors"

	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

// ErrRecordNotFound is returned by Get for a name with no stored record
var ErrRecordNotFound = errors.New("stats record not found")

// Repository is a keyed store of player name to StatsRecord. Save overwrites
// the whole record and is durable when it returns.
type Repository interface {
	GetAll(ctx context.Context) (map[string]*entities.StatsRecord, error)
	Get(ctx context.Context, name string) (*entities.StatsRecord, error)
	Save(ctx context.Context, name string, record *entities.StatsRecord) error

	// Close closes any resources used by the repository
	Close() error
}
