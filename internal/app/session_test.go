package app

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/blackjackpalace/pkg/entities"
	"github.com/fadedpez/blackjackpalace/pkg/services/blackjack"
)

func card(suit entities.Suit, rank entities.Rank) entities.Card {
	return entities.NewCard(suit, rank)
}

// oneRoundShoe deals Ana 19 in hearts, Bo 17 and the dealer 18
func oneRoundShoe(*rand.Rand) *entities.Shoe {
	return entities.NewShoeFromCards([]entities.Card{
		card(entities.Hearts, entities.King), card(entities.Hearts, entities.Nine),
		card(entities.Clubs, entities.Ten), card(entities.Clubs, entities.Seven),
		card(entities.Spades, entities.Ten), card(entities.Spades, entities.Eight),
		card(entities.Diamonds, entities.Two), card(entities.Diamonds, entities.Three),
	})
}

func seatTwo(t *testing.T) []*blackjack.Account {
	t.Helper()
	ana, err := blackjack.NewHumanAccount("Ana", 100, nil)
	require.NoError(t, err)
	bo, err := blackjack.NewHumanAccount("Bo", 100, nil)
	require.NoError(t, err)
	return []*blackjack.Account{ana, bo}
}

func noTimeoutRules() blackjack.Rules {
	rules := blackjack.DefaultRules()
	rules.TurnTimeout = 0
	return rules
}

func TestSessionPlaysScriptedRound(t *testing.T) {
	input := strings.Join([]string{"abc", "500", "20", "30", "x", "s", "s", "q"}, "\n") + "\n"
	var out bytes.Buffer

	session, err := NewSession(seatTwo(t), blackjack.Options{
		Rules:   noTimeoutRules(),
		RNG:     rand.New(rand.NewPCG(1, 2)),
		NewShoe: oneRoundShoe,
	}, strings.NewReader(input), &out)
	require.NoError(t, err)

	require.NoError(t, session.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Enter a whole number of chips.")
	assert.Contains(t, text, "Type h to hit, s to stand or d to double down.")
	assert.Contains(t, text, "Ana wins!")
	assert.Contains(t, text, "Bo loses.")
	assert.Contains(t, text, "Ana earned the Cherry Blossom🌸 for winning with all hearts or diamonds!")
	assert.Contains(t, text, "Thanks for visiting the palace!")

	players := session.Game().Players()
	assert.Equal(t, 120, players[0].Chips)
	assert.Equal(t, 70, players[1].Chips)
	assert.Equal(t, blackjack.StateRoundOver, session.Game().State())
}

func TestSessionEndsWhenInputRunsOut(t *testing.T) {
	var out bytes.Buffer
	session, err := NewSession(seatTwo(t), blackjack.Options{
		Rules:   noTimeoutRules(),
		NewShoe: oneRoundShoe,
	}, strings.NewReader("20\n"), &out)
	require.NoError(t, err)

	require.NoError(t, session.Run(context.Background()))
	assert.Equal(t, blackjack.StateBetting, session.Game().State())
	assert.Equal(t, "Bo", session.Game().CurrentPlayer())
}

func TestSessionTurnTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	pr, pw := io.Pipe()
	defer pw.Close()
	var out bytes.Buffer

	session, err := NewSession(seatTwo(t), blackjack.Options{
		Rules:   blackjack.DefaultRules(),
		Clock:   clock,
		NewShoe: oneRoundShoe,
	}, pr, &out)
	require.NoError(t, err)
	game := session.Game()

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	_, err = io.WriteString(pw, "20\n30\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return game.State() == blackjack.StatePlayerTurn && game.CurrentPlayer() == "Ana"
	}, 5*time.Second, 10*time.Millisecond)

	clock.Advance(15 * time.Second).MustWait(ctx)
	require.Eventually(t, func() bool {
		return game.CurrentPlayer() == "Bo"
	}, 5*time.Second, 10*time.Millisecond)

	_, err = io.WriteString(pw, "s\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return game.State() == blackjack.StateRoundOver
	}, 5*time.Second, 10*time.Millisecond)

	_, err = io.WriteString(pw, "q\n")
	require.NoError(t, err)
	require.NoError(t, <-done)

	assert.Contains(t, out.String(), "Ana ran out of time and stands.")
	assert.Contains(t, out.String(), "Ana wins!")
}

func TestSessionStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	session, err := NewSession(seatTwo(t), blackjack.Options{
		Rules:   noTimeoutRules(),
		NewShoe: oneRoundShoe,
	}, pr, io.Discard)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop")
	}
}
