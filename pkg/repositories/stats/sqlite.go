package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/blackjackpalace/pkg/db/migrations"
	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

// SQLiteRepository stores one row per player with the badge and achievement
// lists as JSON columns
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

// GetAll returns every stored record
func (r *SQLiteRepository) GetAll(ctx context.Context) (map[string]*entities.StatsRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, wins, badges, achievements FROM player_stats`)
	if err != nil {
		return nil, fmt.Errorf("error querying player stats: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*entities.StatsRecord)
	for rows.Next() {
		var name string
		rec, err := scanRecord(rows, &name)
		if err != nil {
			return nil, err
		}
		records[name] = rec
	}

	return records, rows.Err()
}

// Get returns one player's record
func (r *SQLiteRepository) Get(ctx context.Context, name string) (*entities.StatsRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT name, wins, badges, achievements FROM player_stats WHERE name = ?`, name)

	var stored string
	rec, err := scanRecord(row, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	return rec, err
}

// Save inserts or replaces the player's record
func (r *SQLiteRepository) Save(ctx context.Context, name string, record *entities.StatsRecord) error {
	rec := record.Clone()
	rec.Normalize()

	badges, err := json.Marshal(rec.Badges)
	if err != nil {
		return fmt.Errorf("error marshaling badges: %w", err)
	}
	achievements, err := json.Marshal(rec.Achievements)
	if err != nil {
		return fmt.Errorf("error marshaling achievements: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO player_stats (name, wins, badges, achievements, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			wins = excluded.wins,
			badges = excluded.badges,
			achievements = excluded.achievements,
			updated_at = CURRENT_TIMESTAMP`,
		name, rec.Wins, string(badges), string(achievements),
	)
	if err != nil {
		return fmt.Errorf("error saving player stats: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner, name *string) (*entities.StatsRecord, error) {
	var badges, achievements string
	rec := entities.NewStatsRecord()
	if err := row.Scan(name, &rec.Wins, &badges, &achievements); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(badges), &rec.Badges); err != nil {
		return nil, fmt.Errorf("error unmarshaling badges for %s: %w", *name, err)
	}
	if err := json.Unmarshal([]byte(achievements), &rec.Achievements); err != nil {
		return nil, fmt.Errorf("error unmarshaling achievements for %s: %w", *name, err)
	}
	rec.Normalize()
	return rec, nil
}
