package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/blackjackpalace/internal/config"
	"github.com/fadedpez/blackjackpalace/internal/types"
	"github.com/fadedpez/blackjackpalace/pkg/services/blackjack"
)

func testConfig(t *testing.T, storage, history string) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:     t.TempDir(),
		StatsFile:   "leaderboard.json",
		DBPath:      "palace.db",
		RulesFile:   "rules.hcl",
		StorageType: storage,
		HistoryType: history,
		Seed:        7,
	}
}

func TestNewAppLoadsRules(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory, config.HistoryNone)
	require.NoError(t, os.WriteFile(cfg.RulesPath(), []byte("starting_chips = 250\n"), 0644))

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Shutdown()

	assert.Equal(t, 250, a.Rules().StartingChips)
	assert.Nil(t, a.GameOptions(a.NewRNG()).History)
}

func TestNewAppRejectsBadRules(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory, config.HistoryNone)
	require.NoError(t, os.WriteFile(cfg.RulesPath(), []byte("ai_min_bet = 90\n"), 0644))

	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestSeededRNGRepeats(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, config.StorageMemory, config.HistoryNone), nil)
	require.NoError(t, err)
	defer a.Shutdown()

	first, second := a.NewRNG(), a.NewRNG()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.IntN(52), second.IntN(52))
	}
}

func TestSeat(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t, config.StorageMemory, config.HistoryNone), nil)
	require.NoError(t, err)
	defer a.Shutdown()
	rng := a.NewRNG()

	testCases := []struct {
		name    string
		humans  []string
		withAI  bool
		wantErr bool
		seated  []string
	}{
		{name: "two players", humans: []string{"Ana", "Bo"}, seated: []string{"Ana", "Bo"}},
		{name: "player against AI", humans: []string{"Ana"}, withAI: true, seated: []string{"Ana", blackjack.AIName}},
		{name: "nobody", wantErr: true},
		{name: "alone", humans: []string{"Ana"}, wantErr: true},
		{name: "AI with two players", humans: []string{"Ana", "Bo"}, withAI: true, wantErr: true},
		{name: "human named AI", humans: []string{"ai"}, withAI: true, wantErr: true},
		{name: "human named Dealer", humans: []string{"Ana", "Dealer"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			players, err := a.Seat(ctx, tc.humans, tc.withAI, rng)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var names []string
			for _, p := range players {
				names = append(names, p.Name)
				assert.Equal(t, 100, p.Chips)
			}
			assert.Equal(t, tc.seated, names)
		})
	}
}

func TestPlayerStatsUnknown(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t, config.StorageMemory, config.HistoryMemory), nil)
	require.NoError(t, err)
	defer a.Shutdown()

	_, _, err = a.PlayerStats(ctx, "Nobody")
	assert.True(t, types.IsGameError(err, types.ErrPlayerNotFound))
}

func TestPlayedRoundIsStoredAndArchived(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.StorageFile, config.HistorySQLite)
	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)

	rng := a.NewRNG()
	players, err := a.Seat(ctx, []string{"Ana", "Bo"}, false, rng)
	require.NoError(t, err)

	opts := a.GameOptions(rng)
	opts.Rules.TurnTimeout = 0
	opts.NewShoe = oneRoundShoe
	session, err := NewSession(players, opts, strings.NewReader("20\n30\ns\ns\nq\n"), &strings.Builder{})
	require.NoError(t, err)
	require.NoError(t, session.Run(ctx))

	rec, recent, err := a.PlayerStats(ctx, "Ana")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Wins)
	require.Len(t, recent, 1)
	assert.Equal(t, 120, recent[0].Player("Ana").ChipsAfter)

	lb, err := a.Stats().LeaderboardByWins(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, lb.Players, 2)
	assert.Equal(t, "Ana", lb.Players[0].Name)

	a.Shutdown()
	_, err = os.Stat(filepath.Join(cfg.DataDir, "leaderboard.json"))
	assert.NoError(t, err)
}
