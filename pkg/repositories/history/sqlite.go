package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/blackjackpalace/pkg/db/migrations"
	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

// SQLiteRepository stores one row per round and one row per seat
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens dbPath and applies pending migrations
func NewSQLiteRepository(ctx context.Context, dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	migrator := migrations.NewMigrator(db, migrations.Embedded(), logger)
	if _, err := migrator.MigrateUp(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRoundResult stores the round and every seat in one transaction
func (r *SQLiteRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	dealerCards, err := json.Marshal(result.DealerCards)
	if err != nil {
		return fmt.Errorf("error marshaling dealer cards: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO round_results (id, game_id, round_number, completed_at, dealer_cards, dealer_value, early_settlement)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.GameID, result.Number, result.CompletedAt.UTC(), string(dealerCards), result.DealerValue, result.EarlySettlement,
	)
	if err != nil {
		return fmt.Errorf("error inserting round result: %w", err)
	}

	for seat, p := range result.Players {
		cards, err := json.Marshal(p.Cards)
		if err != nil {
			return fmt.Errorf("error marshaling cards for %s: %w", p.Name, err)
		}
		badges, err := json.Marshal(nonNil(p.NewBadges))
		if err != nil {
			return fmt.Errorf("error marshaling badges for %s: %w", p.Name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO player_round_results (
				round_id, seat, player_name, cards, hand_value, bet, payout,
				insurance_stake, insurance_payout, outcome, doubled_down, chips_after, new_badges
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			result.ID, seat, p.Name, string(cards), p.Value, p.Bet, p.Payout,
			p.InsuranceStake, p.InsurancePayout, string(p.Outcome), p.DoubledDown, p.ChipsAfter, string(badges),
		)
		if err != nil {
			return fmt.Errorf("error inserting player result for %s: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

// GetPlayerResults returns the player's most recent rounds, newest first
func (r *SQLiteRepository) GetPlayerResults(ctx context.Context, name string, limit int) ([]*entities.RoundResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.game_id, r.round_number, r.completed_at, r.dealer_cards, r.dealer_value, r.early_settlement
		FROM round_results r
		WHERE r.id IN (SELECT round_id FROM player_round_results WHERE player_name = ?)
		ORDER BY r.completed_at DESC
		LIMIT ?`,
		name, normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("error querying player rounds: %w", err)
	}

	results := []*entities.RoundResult{}
	for rows.Next() {
		var (
			result      entities.RoundResult
			completedAt time.Time
			dealerCards string
		)
		if err := rows.Scan(&result.ID, &result.GameID, &result.Number, &completedAt, &dealerCards, &result.DealerValue, &result.EarlySettlement); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning round result: %w", err)
		}
		result.CompletedAt = completedAt
		if err := json.Unmarshal([]byte(dealerCards), &result.DealerCards); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error unmarshaling dealer cards: %w", err)
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, result := range results {
		if result.Players, err = r.getPlayers(ctx, result.ID); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (r *SQLiteRepository) getPlayers(ctx context.Context, roundID string) ([]entities.PlayerRoundResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_name, cards, hand_value, bet, payout, insurance_stake, insurance_payout,
			outcome, doubled_down, chips_after, new_badges
		FROM player_round_results
		WHERE round_id = ?
		ORDER BY seat`,
		roundID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying player results: %w", err)
	}
	defer rows.Close()

	var players []entities.PlayerRoundResult
	for rows.Next() {
		var (
			p       entities.PlayerRoundResult
			cards   string
			badges  string
			outcome string
		)
		if err := rows.Scan(&p.Name, &cards, &p.Value, &p.Bet, &p.Payout, &p.InsuranceStake, &p.InsurancePayout,
			&outcome, &p.DoubledDown, &p.ChipsAfter, &badges); err != nil {
			return nil, fmt.Errorf("error scanning player result: %w", err)
		}
		p.Outcome = entities.Outcome(outcome)
		if err := json.Unmarshal([]byte(cards), &p.Cards); err != nil {
			return nil, fmt.Errorf("error unmarshaling cards: %w", err)
		}
		if err := json.Unmarshal([]byte(badges), &p.NewBadges); err != nil {
			return nil, fmt.Errorf("error unmarshaling badges: %w", err)
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
