package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/blackjackpalace/internal/logging"
	"github.com/fadedpez/blackjackpalace/pkg/db/migrations"
)

const sqliteExamples = `
-- SQLite Examples:

-- Create a new table
-- CREATE TABLE IF NOT EXISTS table_name (
--   id INTEGER PRIMARY KEY AUTOINCREMENT,
--   name TEXT NOT NULL,
--   value INTEGER DEFAULT 0,
--   created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
-- );

-- Add a column to existing table
-- ALTER TABLE table_name ADD COLUMN new_column TEXT;

-- Create an index
-- CREATE INDEX IF NOT EXISTS idx_table_column ON table_name(column_name);

-- Your migration SQL goes below this line:

`

type CLI struct {
	LogLevel string `help:"Log level" default:"info" env:"PALACE_LOG_LEVEL"`

	Create  CreateCmd  `cmd:"" help:"Create a new migration"`
	Migrate MigrateCmd `cmd:"" help:"Apply pending migrations"`
}

type CreateCmd struct {
	Description string `arg:"" help:"What the migration does, e.g. \"add table index\""`
	Dir         string `help:"Directory to store migrations" default:"pkg/db/migrations/sql" type:"path"`
}

func (c *CreateCmd) Run(logger *log.Logger) error {
	filePath, err := migrations.CreateMigration(c.Dir, c.Description, time.Now())
	if err != nil {
		return fmt.Errorf("error creating migration: %w", err)
	}

	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening migration file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(sqliteExamples); err != nil {
		return fmt.Errorf("error writing to migration file: %w", err)
	}

	logger.Info("Created migration file", "path", filePath)
	fmt.Println("Edit this file to add your database schema changes.")
	return nil
}

type MigrateCmd struct {
	DB  string `help:"Path to SQLite database" default:"data/palace.db" type:"path" env:"PALACE_DB_PATH"`
	Dir string `help:"Directory containing migrations; the built-in set is used when empty" type:"path"`
}

func (m *MigrateCmd) Run(logger *log.Logger) error {
	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(m.DB), 0755); err != nil {
		return fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", m.DB)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	var source fs.FS = migrations.Embedded()
	if m.Dir != "" {
		source = os.DirFS(m.Dir)
	}

	count, err := migrations.NewMigrator(db, source, logger).MigrateUp(context.Background())
	if err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}

	logger.Info("Migrations applied successfully", "applied", count, "db", m.DB)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("migration"),
		kong.Description("Manage the Blackjack Palace SQLite schema."),
		kong.UsageOnError(),
	)

	logger := logging.New(cli.LogLevel, os.Stderr)
	ctx.FatalIfErrorf(ctx.Run(logger))
}
