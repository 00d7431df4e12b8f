package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fadedpez/blackjackpalace/pkg/services/blackjack"
	"github.com/fadedpez/blackjackpalace/pkg/terminal"
)

// errTurnEnded means the table moved on while we waited for input
var errTurnEnded = errors.New("turn ended")

// Session plays one game at the console. Lines from in answer whatever the
// table is waiting for; everything the table does is printed to out.
type Session struct {
	game  *blackjack.Game
	out   *lockedWriter
	lines chan string
	wake  chan struct{}
	in    io.Reader
}

// lockedWriter lets the turn timer print while the input loop does too
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) println(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

// NewSession seats the players and prepares the game. opts.Observer is
// replaced by the console renderer.
func NewSession(players []*blackjack.Account, opts blackjack.Options, in io.Reader, out io.Writer) (*Session, error) {
	s := &Session{
		out:   &lockedWriter{w: out},
		lines: make(chan string),
		wake:  make(chan struct{}, 1),
		in:    in,
	}

	opts.Observer = blackjack.ObserverFunc(s.onEvent)
	game, err := blackjack.NewGame(players, opts)
	if err != nil {
		return nil, err
	}
	s.game = game
	return s, nil
}

// Game returns the table being played
func (s *Session) Game() *blackjack.Game {
	return s.game
}

func (s *Session) onEvent(e blackjack.Event) {
	if line := terminal.RenderEvent(e); line != "" {
		s.out.println(line)
	}
	if e.Type == blackjack.EventTurnTimedOut {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// Run plays until the game ends, the input runs out, a player types q at the
// end of a round, or ctx is cancelled
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.readInput(ctx)

	if err := s.game.StartRound(ctx); err != nil {
		return err
	}

	for {
		state := s.game.State()
		switch state {
		case blackjack.StateGameOver:
			return nil

		case blackjack.StateTiebreaker:
			s.out.println(terminal.PromptStyle.Render("Press Enter to flip the coin."))
			if _, err := s.next(ctx, false); err != nil {
				return quitErr(err)
			}
			if _, err := s.game.FlipCoin(ctx); err != nil {
				return err
			}

		case blackjack.StateRoundOver, blackjack.StateAborted:
			s.out.println(terminal.RenderTable(s.game.Dealer(), s.game.Players()))
			s.out.println(terminal.PromptStyle.Render("Press Enter for the next round or q to quit."))
			line, err := s.next(ctx, false)
			if err != nil {
				return quitErr(err)
			}
			if strings.EqualFold(line, "q") {
				s.out.println("Thanks for visiting the palace!")
				return nil
			}
			if err := s.game.NextRound(ctx); err != nil {
				return err
			}

		case blackjack.StateBetting, blackjack.StateInsurance, blackjack.StatePlayerTurn:
			who := s.game.CurrentPlayer()
			line, err := s.next(ctx, state == blackjack.StatePlayerTurn)
			if errors.Is(err, errTurnEnded) {
				continue
			}
			if err != nil {
				return quitErr(err)
			}
			s.act(ctx, state, who, line)

		default:
			return fmt.Errorf("table stuck in state %s", state)
		}
	}
}

// act applies one line of input. Bad input and refused moves are reported
// and the table waits again.
func (s *Session) act(ctx context.Context, state blackjack.State, who, line string) {
	var err error
	switch state {
	case blackjack.StateBetting:
		amount, convErr := strconv.Atoi(line)
		if convErr != nil {
			s.out.println(terminal.ErrorStyle.Render("Enter a whole number of chips."))
			return
		}
		err = s.game.PlaceBet(ctx, who, amount)

	case blackjack.StateInsurance:
		switch strings.ToLower(line) {
		case "y", "yes":
			err = s.game.DecideInsurance(ctx, who, true)
		case "n", "no":
			err = s.game.DecideInsurance(ctx, who, false)
		default:
			s.out.println(terminal.ErrorStyle.Render("Answer y or n."))
			return
		}

	case blackjack.StatePlayerTurn:
		switch strings.ToLower(line) {
		case "h", "hit":
			err = s.game.Hit(ctx, who)
		case "s", "stand":
			err = s.game.Stand(ctx, who)
		case "d", "double":
			err = s.game.DoubleDown(ctx, who)
		default:
			s.out.println(terminal.ErrorStyle.Render("Type h to hit, s to stand or d to double down."))
			return
		}
	}

	if err != nil {
		s.out.println(terminal.ErrorStyle.Render(err.Error()))
	}
}

// next waits for a line of input. When interruptible, a turn timeout wakes it
// with errTurnEnded.
func (s *Session) next(ctx context.Context, interruptible bool) (string, error) {
	wake := s.wake
	if !interruptible {
		wake = nil
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-wake:
		return "", errTurnEnded
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (s *Session) readInput(ctx context.Context) {
	defer close(s.lines)

	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		select {
		case s.lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}

// quitErr treats running out of input as leaving the table
func quitErr(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
