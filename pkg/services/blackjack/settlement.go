package blackjack

import (
	"context"
	"fmt"

	"github.com/fadedpez/blackjackpalace/internal/logging"
	"github.com/fadedpez/blackjackpalace/pkg/entities"
	"github.com/fadedpez/blackjackpalace/pkg/services/achievements"
)

// settle pays out every seat in order, archives the round and decides
// whether the game continues. early is true when a natural ended the round
// before any player acted.
func (g *Game) settle(ctx context.Context, early bool) error {
	g.cancelTurn()
	g.state = StateSettlement
	g.round.EarlySettlement = early
	g.round.CurrentPlayer = ""

	result := &entities.RoundResult{
		ID:              g.round.ID,
		GameID:          g.id,
		Number:          g.round.Number,
		CompletedAt:     g.clock.Now(),
		DealerCards:     g.dealer.Hand.Snapshot(),
		DealerValue:     g.dealer.Hand.Value(),
		EarlySettlement: early,
	}

	dealerNatural := g.dealer.Hand.IsNatural()
	for _, p := range g.active {
		result.Players = append(result.Players, g.settlePlayer(ctx, p, dealerNatural, early))
	}

	g.round.DealerCards = result.DealerCards
	g.round.DealerValue = result.DealerValue
	g.round.Results = result.Players

	g.logger.Info("Round settled", "game", g.id, "round", result.Number, "dealer", result.DealerValue, "early", early)
	g.archive(ctx, result)
	g.emit(Event{Type: EventRoundSettled, Player: g.dealer.Name, Cards: result.DealerCards, Value: result.DealerValue})

	g.checkGameOver()
	return nil
}

// settlePlayer runs insurance, comparison, payout, streak, badges and
// persistence for one seat, in that order
func (g *Game) settlePlayer(ctx context.Context, p *Account, dealerNatural, early bool) entities.PlayerRoundResult {
	cards := p.Hand.Snapshot()
	line := entities.PlayerRoundResult{
		Name:           p.Name,
		Cards:          cards,
		Value:          p.Hand.Value(),
		Bet:            p.CurrentBet,
		InsuranceStake: p.InsuranceStake,
		DoubledDown:    p.DoubledDown,
	}

	if p.InsuranceStake > 0 {
		line.InsurancePayout = SettleInsurance(p, dealerNatural)
		if line.InsurancePayout > 0 {
			g.emit(Event{
				Type:    EventResult,
				Player:  p.Name,
				Amount:  line.InsurancePayout,
				Chips:   p.Chips,
				Message: fmt.Sprintf("%s: Insurance pays! +%d chips", p.Name, line.InsurancePayout-line.InsuranceStake),
			})
		}
	}

	var outcome entities.Outcome
	if early {
		outcome = CompareNaturals(cards, g.dealer.Hand.Cards)
	} else {
		outcome = CompareHands(cards, g.dealer.Hand.Cards)
	}
	line.Outcome = outcome

	switch outcome {
	case entities.OutcomeBlackjack:
		line.Payout = SettleWin(p, true)
	case entities.OutcomeWin:
		line.Payout = SettleWin(p, false)
	case entities.OutcomePush:
		line.Payout = SettlePush(p)
	default:
		SettleLoss(p)
	}

	if outcome.IsWin() {
		p.WinStreak++
		p.Wins++
	} else {
		p.WinStreak = 0
	}
	line.ChipsAfter = p.Chips

	g.emit(Event{
		Type:    EventResult,
		Player:  p.Name,
		Cards:   cards,
		Value:   line.Value,
		Amount:  line.Payout,
		Chips:   p.Chips,
		Message: resultMessage(p.Name, outcome),
	})

	if outcome.IsWin() && p.IsHuman() {
		line.NewBadges = g.awardBadges(p, outcome, cards)
	}

	g.persist(ctx, p)
	return line
}

func (g *Game) awardBadges(p *Account, outcome entities.Outcome, cards []entities.Card) []string {
	award := achievements.Evaluate(p.Name, p.Badges, p.Achievements, achievements.RoundFlags{
		Won:       true,
		Blackjack: outcome == entities.OutcomeBlackjack,
		HandValue: GetBestScore(cards),
		AllFace:   AllFaceCards(cards),
		AllRed:    AllRed(cards),
		Comeback:  p.Chips < g.dealer.Chips,
		AIMode:    g.aiMode,
		Wins:      p.Wins,
		WinStreak: p.WinStreak,
	})
	if award.Empty() {
		return nil
	}

	p.Badges, p.Achievements = achievements.Apply(p.Badges, p.Achievements, award)
	for _, b := range award.Badges {
		g.emit(Event{Type: EventBadgeEarned, Player: p.Name, Badge: b.ID, Message: b.Achievement(p.Name)})
	}
	return award.BadgeIDs()
}

func resultMessage(name string, outcome entities.Outcome) string {
	switch outcome {
	case entities.OutcomeBlackjack:
		return fmt.Sprintf("%s: Natural Blackjack! Pays 3:2!", name)
	case entities.OutcomeWin:
		return fmt.Sprintf("%s wins!", name)
	case entities.OutcomePush:
		return fmt.Sprintf("%s pushes. Bet returned.", name)
	case entities.OutcomeBust:
		return fmt.Sprintf("%s busted. Lost bet.", name)
	default:
		return fmt.Sprintf("%s loses.", name)
	}
}

// persist writes the player's record right away. A failed write is logged
// and the round carries on.
func (g *Game) persist(ctx context.Context, p *Account) {
	if g.stats == nil {
		return
	}
	if err := g.stats.SaveStats(ctx, p.Name, p.StatsRecord()); err != nil {
		g.logger.Error("Failed to save player stats", "player", p.Name)
		logging.LogError(g.logger, err)
	}
}

func (g *Game) archive(ctx context.Context, result *entities.RoundResult) {
	if g.history == nil {
		return
	}
	if err := g.history.SaveRoundResult(ctx, result); err != nil {
		g.logger.Error("Failed to archive round", "round", result.ID)
		logging.LogError(g.logger, err)
	}
}

// checkGameOver routes to the tiebreaker when everyone is broke, crowns the
// last player with chips, or waits for the next round
func (g *Game) checkGameOver() {
	var standing []*Account
	for _, p := range g.players {
		if !p.IsOut() {
			standing = append(standing, p)
		}
	}

	switch len(standing) {
	case 0:
		g.state = StateTiebreaker
		g.emit(Event{Type: EventGameOver, Message: "Everyone is out of chips! A coin flip decides the winner."})
	case 1:
		g.declareWinner(standing[0].Name, false, "")
	default:
		g.state = StateRoundOver
	}
}

func (g *Game) declareWinner(name string, tiebreaker bool, coin CoinSide) {
	g.outcome = &Outcome{Winner: name, Tiebreaker: tiebreaker, Coin: coin}
	g.state = StateGameOver
	g.logger.Info("Game over", "game", g.id, "winner", name, "tiebreaker", tiebreaker)
	g.emit(Event{Type: EventGameOver, Player: name, Message: fmt.Sprintf("%s is crowned the Princess of the Palace", name)})
}
