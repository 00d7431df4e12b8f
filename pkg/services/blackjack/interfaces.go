package blackjack

import (
	"context"

	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_blackjack

// StatsRecorder persists a player's record after their hand settles
type StatsRecorder interface {
	SaveStats(ctx context.Context, name string, record *entities.StatsRecord) error
}

// HistoryRecorder archives settled rounds
type HistoryRecorder interface {
	SaveRoundResult(ctx context.Context, result *entities.RoundResult) error
}
