// Package statistics owns the loaded player records for a session and builds
// leaderboards from them.
package statistics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/fadedpez/blackjackpalace/internal/logging"
	"github.com/fadedpez/blackjackpalace/internal/types"
	"github.com/fadedpez/blackjackpalace/pkg/entities"
	"github.com/fadedpez/blackjackpalace/pkg/repositories/stats"
)

// Leaderboard orderings
const (
	ByWins   = "wins"
	ByBadges = "badges"
)

// Service is the session's view of the stats store. Records are loaded once
// and every change is written through before SaveStats returns.
type Service struct {
	repository stats.Repository
	logger     *log.Logger
	clock      quartz.Clock

	mu      sync.Mutex
	records map[string]*entities.StatsRecord
	loaded  bool
}

// NewService creates a new statistics service
func NewService(repository stats.Repository, logger *log.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logging.OrDiscard(logger),
		clock:      quartz.NewReal(),
		records:    make(map[string]*entities.StatsRecord),
	}
}

// Load reads every stored record into the session
func (s *Service) Load(ctx context.Context) error {
	all, err := s.repository.GetAll(ctx)
	if err != nil {
		return types.WrapError(types.ErrDatabaseError, "failed to load player stats", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = all
	s.loaded = true
	s.logger.Debug("Player stats loaded", "players", len(all))
	return nil
}

// Record returns a copy of the named player's record, creating an empty one
// on first appearance
func (s *Service) Record(ctx context.Context, name string) (*entities.StatsRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[name]; ok {
		return rec.Clone(), nil
	}

	if !s.loaded {
		rec, err := s.repository.Get(ctx, name)
		switch {
		case err == nil:
			s.records[name] = rec
			return rec.Clone(), nil
		case !errors.Is(err, stats.ErrRecordNotFound):
			return nil, types.WrapError(types.ErrDatabaseError, fmt.Sprintf("failed to load stats for %s", name), err)
		}
	}

	rec := entities.NewStatsRecord()
	s.records[name] = rec
	return rec.Clone(), nil
}

// SaveStats replaces the player's record and flushes it to the store
func (s *Service) SaveStats(ctx context.Context, name string, record *entities.StatsRecord) error {
	rec := record.Clone()
	rec.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repository.Save(ctx, name, rec); err != nil {
		return types.WrapError(types.ErrDatabaseError, fmt.Sprintf("failed to save stats for %s", name), err)
	}
	s.records[name] = rec
	return nil
}

// PlayerRank is one leaderboard line
type PlayerRank struct {
	Rank         int      `json:"rank"`
	Name         string   `json:"name"`
	Wins         int      `json:"wins"`
	Badges       []string `json:"badges"`
	Achievements int      `json:"achievements"`
}

// Leaderboard is a page of ranked players
type Leaderboard struct {
	SortedBy       string        `json:"sorted_by"`
	Players        []*PlayerRank `json:"players"`
	TotalPlayers   int           `json:"total_players"`
	CurrentPage    int           `json:"current_page"`
	TotalPages     int           `json:"total_pages"`
	PlayersPerPage int           `json:"players_per_page"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// LeaderboardByWins ranks every stored player by wins
func (s *Service) LeaderboardByWins(ctx context.Context, page, playersPerPage int) (*Leaderboard, error) {
	return s.leaderboard(ctx, ByWins, page, playersPerPage)
}

// LeaderboardByBadges ranks every stored player by badge count
func (s *Service) LeaderboardByBadges(ctx context.Context, page, playersPerPage int) (*Leaderboard, error) {
	return s.leaderboard(ctx, ByBadges, page, playersPerPage)
}

func (s *Service) leaderboard(ctx context.Context, sortBy string, page, playersPerPage int) (*Leaderboard, error) {
	if page < 1 {
		page = 1
	}
	if playersPerPage < 1 {
		playersPerPage = 10
	}

	all, err := s.repository.GetAll(ctx)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to load player stats", err)
	}

	ranks := make([]*PlayerRank, 0, len(all))
	for name, rec := range all {
		ranks = append(ranks, &PlayerRank{
			Name:         name,
			Wins:         rec.Wins,
			Badges:       rec.Badges,
			Achievements: len(rec.Achievements),
		})
	}

	score := func(p *PlayerRank) int { return p.Wins }
	if sortBy == ByBadges {
		score = func(p *PlayerRank) int { return len(p.Badges) }
	}
	sort.Slice(ranks, func(i, j int) bool {
		if score(ranks[i]) != score(ranks[j]) {
			return score(ranks[i]) > score(ranks[j])
		}
		return ranks[i].Name < ranks[j].Name
	})

	for i := range ranks {
		ranks[i].Rank = i + 1
	}

	totalPlayers := len(ranks)
	totalPages := (totalPlayers + playersPerPage - 1) / playersPerPage
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	start := (page - 1) * playersPerPage
	end := min(start+playersPerPage, totalPlayers)

	current := []*PlayerRank{}
	if start < totalPlayers {
		current = ranks[start:end]
	}

	return &Leaderboard{
		SortedBy:       sortBy,
		Players:        current,
		TotalPlayers:   totalPlayers,
		CurrentPage:    page,
		TotalPages:     totalPages,
		PlayersPerPage: playersPerPage,
		LastUpdated:    s.clock.Now(),
	}, nil
}
