// Package history archives settled rounds.
package history

import (
	"context"

	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

// DefaultLimit is how many rounds GetPlayerResults returns when no limit is given
const DefaultLimit = 20

// Repository stores settled rounds and finds the rounds a player sat in
type Repository interface {
	SaveRoundResult(ctx context.Context, result *entities.RoundResult) error
	// GetPlayerResults returns the player's most recent rounds, newest first
	GetPlayerResults(ctx context.Context, name string, limit int) ([]*entities.RoundResult, error)

	// Close closes any resources used by the repository
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
