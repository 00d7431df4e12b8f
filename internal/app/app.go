// Package app wires configuration, storage and the blackjack engine together
// for the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fadedpez/blackjackpalace/internal/config"
	"github.com/fadedpez/blackjackpalace/internal/logging"
	"github.com/fadedpez/blackjackpalace/internal/types"
	"github.com/fadedpez/blackjackpalace/pkg/entities"
	"github.com/fadedpez/blackjackpalace/pkg/repositories/history"
	"github.com/fadedpez/blackjackpalace/pkg/repositories/stats"
	"github.com/fadedpez/blackjackpalace/pkg/services/blackjack"
	"github.com/fadedpez/blackjackpalace/pkg/services/statistics"
)

// RecentRounds is how many archived rounds the stats view shows
const RecentRounds = 5

// App holds the long-lived dependencies of one palace process
type App struct {
	config    *config.Config
	logger    *log.Logger
	rules     blackjack.Rules
	statsRepo stats.Repository
	stats     *statistics.Service
	history   history.Repository // nil when the archive is off
}

// New opens the configured backends and loads the house rules
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	logger = logging.OrDiscard(logger)

	rules, err := config.LoadRules(cfg.RulesPath())
	if err != nil {
		return nil, err
	}

	statsRepo, err := openStats(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	historyRepo, err := openHistory(ctx, cfg, logger)
	if err != nil {
		statsRepo.Close()
		return nil, err
	}

	svc := statistics.NewService(statsRepo, logger)
	if err := svc.Load(ctx); err != nil {
		statsRepo.Close()
		if historyRepo != nil {
			historyRepo.Close()
		}
		return nil, err
	}

	logger.Debug("Palace ready", "storage", cfg.StorageType, "history", cfg.HistoryType, "rules", cfg.RulesPath())
	return &App{
		config:    cfg,
		logger:    logger,
		rules:     rules,
		statsRepo: statsRepo,
		stats:     svc,
		history:   historyRepo,
	}, nil
}

func openStats(ctx context.Context, cfg *config.Config, logger *log.Logger) (stats.Repository, error) {
	switch cfg.StorageType {
	case config.StorageMemory:
		return stats.NewMemoryRepository(), nil
	case config.StorageSQLite:
		repo, err := stats.NewSQLiteRepository(ctx, cfg.DatabasePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open stats database: %w", err)
		}
		return repo, nil
	default:
		return stats.NewFileRepository(cfg.StatsPath(), logger), nil
	}
}

func openHistory(ctx context.Context, cfg *config.Config, logger *log.Logger) (history.Repository, error) {
	switch cfg.HistoryType {
	case config.HistoryMemory:
		return history.NewMemoryRepository(), nil
	case config.HistorySQLite:
		repo, err := history.NewSQLiteRepository(ctx, cfg.DatabasePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		return repo, nil
	case config.HistoryElasticsearch:
		repo, err := history.NewElasticsearchRepository(ctx, &history.ElasticsearchConfig{
			URL:      cfg.Elasticsearch.URL,
			Username: cfg.Elasticsearch.Username,
			Password: cfg.Elasticsearch.Password,
			Index:    cfg.Elasticsearch.Index,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to elasticsearch: %w", err)
		}
		return repo, nil
	default:
		return nil, nil
	}
}

// Rules returns the house rules in force
func (a *App) Rules() blackjack.Rules {
	return a.rules
}

// Stats returns the statistics service
func (a *App) Stats() *statistics.Service {
	return a.stats
}

// NewRNG returns the shuffle source. A configured seed makes sessions repeatable.
func (a *App) NewRNG() *rand.Rand {
	seed := a.config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// Seat builds the table: each named human with their stored record, plus the
// AI when withAI is set
func (a *App) Seat(ctx context.Context, humans []string, withAI bool, rng *rand.Rand) ([]*blackjack.Account, error) {
	switch {
	case len(humans) == 0:
		return nil, types.NewGameError(types.ErrInvalidArgument, "at least one --player is required")
	case withAI && len(humans) != 1:
		return nil, types.NewGameError(types.ErrInvalidArgument, "the AI plays against exactly one player")
	case !withAI && len(humans) < blackjack.MinPlayers:
		return nil, types.NewGameError(types.ErrInvalidArgument, "add a second --player or play against --ai")
	}

	players := make([]*blackjack.Account, 0, len(humans)+1)
	for _, name := range humans {
		name = strings.TrimSpace(name)
		if withAI && strings.EqualFold(name, blackjack.AIName) {
			return nil, blackjack.ErrReservedName
		}
		rec, err := a.stats.Record(ctx, name)
		if err != nil {
			return nil, err
		}
		p, err := blackjack.NewHumanAccount(name, a.rules.StartingChips, rec)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	if withAI {
		players = append(players, blackjack.NewAIAccount(a.rules.StartingChips, blackjack.NewAIPolicy(a.rules, rng)))
	}
	return players, nil
}

// GameOptions returns engine options backed by this app's stores
func (a *App) GameOptions(rng *rand.Rand) blackjack.Options {
	opts := blackjack.Options{
		Rules:  a.rules,
		RNG:    rng,
		Stats:  a.stats,
		Logger: a.logger,
	}
	if a.history != nil {
		opts.History = a.history
	}
	return opts
}

// PlayerStats returns a stored record and the player's recent rounds when
// the archive is on
func (a *App) PlayerStats(ctx context.Context, name string) (*entities.StatsRecord, []*entities.RoundResult, error) {
	rec, err := a.statsRepo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, stats.ErrRecordNotFound) {
			return nil, nil, types.WrapError(types.ErrPlayerNotFound, fmt.Sprintf("no stats for %s", name), err)
		}
		return nil, nil, types.WrapError(types.ErrDatabaseError, "failed to load player stats", err)
	}

	if a.history == nil {
		return rec, nil, nil
	}
	recent, err := a.history.GetPlayerResults(ctx, name, RecentRounds)
	if err != nil {
		a.logger.Warn("Could not load round history", "player", name, "error", err)
		return rec, nil, nil
	}
	return rec, recent, nil
}

// Shutdown closes the stores
func (a *App) Shutdown() {
	if err := a.statsRepo.Close(); err != nil {
		a.logger.Error("Error closing stats store", "error", err)
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Error("Error closing history store", "error", err)
		}
	}
}
