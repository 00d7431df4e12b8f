package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/fadedpez/blackjackpalace/internal/app"
	"github.com/fadedpez/blackjackpalace/internal/config"
	"github.com/fadedpez/blackjackpalace/internal/logging"
	"github.com/fadedpez/blackjackpalace/pkg/services/statistics"
	"github.com/fadedpez/blackjackpalace/pkg/terminal"
)

type CLI struct {
	EnvFile  []string `help:"Environment files to load before reading PALACE_* variables"`
	LogLevel string   `help:"Override PALACE_LOG_LEVEL"`

	Play        PlayCmd        `cmd:"" default:"withargs" help:"Sit down at the blackjack table"`
	Leaderboard LeaderboardCmd `cmd:"" help:"Show the leaderboard"`
	Stats       StatsCmd       `cmd:"" help:"Show one player's record"`
}

type PlayCmd struct {
	Player []string `short:"p" help:"Player name; repeat for a second player"`
	AI     bool     `help:"Play against the computer"`
}

func (c *PlayCmd) Run(ctx context.Context, a *app.App) error {
	rng := a.NewRNG()
	players, err := a.Seat(ctx, c.Player, c.AI, rng)
	if err != nil {
		return err
	}

	session, err := app.NewSession(players, a.GameOptions(rng), os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println(terminal.TitleStyle.Render(" ♥ Blackjack Palace ♦ "))
	fmt.Println()
	return session.Run(ctx)
}

type LeaderboardCmd struct {
	By      string `help:"Rank by wins or badges" enum:"wins,badges" default:"wins"`
	Page    int    `help:"Page to show" default:"1"`
	PerPage int    `help:"Players per page" default:"10"`
}

func (c *LeaderboardCmd) Run(ctx context.Context, a *app.App) error {
	var (
		lb  *statistics.Leaderboard
		err error
	)
	if c.By == statistics.ByBadges {
		lb, err = a.Stats().LeaderboardByBadges(ctx, c.Page, c.PerPage)
	} else {
		lb, err = a.Stats().LeaderboardByWins(ctx, c.Page, c.PerPage)
	}
	if err != nil {
		return err
	}

	fmt.Println(terminal.RenderLeaderboard(lb))
	return nil
}

type StatsCmd struct {
	Name string `arg:"" help:"Player name"`
}

func (c *StatsCmd) Run(ctx context.Context, a *app.App) error {
	rec, recent, err := a.PlayerStats(ctx, c.Name)
	if err != nil {
		return err
	}

	fmt.Println(terminal.RenderStats(c.Name, rec, recent))
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("palace"),
		kong.Description("Blackjack Palace: win chips, earn badges, take the crown."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.EnvFile...)
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)
	if cfg.IsDevelopment() {
		logger.SetReportCaller(true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	palace, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to start", "error", err)
	}
	defer palace.Shutdown()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(palace); err != nil {
		logging.LogError(logger, err)
		fmt.Fprintln(os.Stderr, terminal.ErrorStyle.Render(err.Error()))
		palace.Shutdown()
		os.Exit(1)
	}
}
