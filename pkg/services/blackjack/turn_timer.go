package blackjack

import (
	"context"

	"github.com/fadedpez/blackjackpalace/internal/logging"
)

// armTurn starts the countdown for a human decision. Each turn gets its own
// context; ending the turn cancels it so a late expiry is dropped.
func (g *Game) armTurn(p *Account) {
	g.cancelTurn()
	if g.rules.TurnTimeout <= 0 || !p.IsHuman() {
		return
	}

	turnCtx, cancel := context.WithCancel(context.Background())
	g.turnCancel = cancel
	name := p.Name
	g.turnTimer = g.clock.AfterFunc(g.rules.TurnTimeout, func() {
		g.expireTurn(turnCtx, name)
	}, "turn", name)
}

// cancelTurn stops the running countdown, if any
func (g *Game) cancelTurn() {
	if g.turnCancel != nil {
		g.turnCancel()
		g.turnCancel = nil
	}
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
}

func (g *Game) expireTurn(turnCtx context.Context, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if turnCtx.Err() != nil {
		return
	}

	p, err := g.turnPlayer(name)
	if err != nil {
		return
	}
	if err := g.stand(context.Background(), p, EventTurnTimedOut); err != nil {
		logging.LogError(g.logger, err)
	}
}
