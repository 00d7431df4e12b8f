package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fadedpez/blackjackpalace/pkg/entities"
	"github.com/fadedpez/blackjackpalace/pkg/services/achievements"
	"github.com/fadedpez/blackjackpalace/pkg/services/blackjack"
	"github.com/fadedpez/blackjackpalace/pkg/services/statistics"
)

// RenderCard shows a card as rank and pip, red suits in red
func RenderCard(c entities.Card) string {
	if c.Suit.IsRed() {
		return RedCardStyle.Render(c.Short())
	}
	return BlackCardStyle.Render(c.Short())
}

// RenderHand lists the cards followed by the hand value. A hidden hole card
// shows as a face-down placeholder.
func RenderHand(cards []entities.Card, value int, holeHidden bool) string {
	if len(cards) == 0 {
		return InfoStyle.Render("(no cards)")
	}
	shown := renderCards(cards)
	if holeHidden {
		shown += " " + HiddenCardStyle.Render("🂠")
	}
	return fmt.Sprintf("%s (%d)", shown, value)
}

// RenderSeat is one line for a player or the dealer
func RenderSeat(v blackjack.AccountView) string {
	name := HeaderStyle.Render(v.Name)
	hand := RenderHand(v.Cards, v.Value, v.HoleCardHidden)

	if v.Controller == blackjack.ControllerDealer {
		return fmt.Sprintf("%s: %s", name, hand)
	}

	line := fmt.Sprintf("%s [%d chips", name, v.Chips)
	if v.CurrentBet > 0 {
		line += fmt.Sprintf(", bet %d", v.CurrentBet)
	}
	if v.InsuranceStake > 0 {
		line += fmt.Sprintf(", insured %d", v.InsuranceStake)
	}
	line += "]"
	if len(v.Cards) > 0 {
		line += ": " + hand
	}
	switch v.Status {
	case blackjack.StatusBust:
		line += " " + LossStyle.Render("BUST")
	case blackjack.StatusStand:
		line += " " + InfoStyle.Render("stands")
	}
	if len(v.Badges) > 0 {
		line += " " + BadgeStyle.Render(strings.Join(v.Badges, ""))
	}
	return line
}

// RenderTable draws the dealer above every seat
func RenderTable(dealer blackjack.AccountView, players []blackjack.AccountView) string {
	lines := []string{RenderSeat(dealer)}
	for _, p := range players {
		lines = append(lines, RenderSeat(p))
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

// RenderEvent turns an engine event into a console line. Events the console
// has nothing to say about render as an empty string.
func RenderEvent(e blackjack.Event) string {
	switch e.Type {
	case blackjack.EventRoundStarted:
		return TitleStyle.Render(e.Message)
	case blackjack.EventBetRequested:
		return PromptStyle.Render(fmt.Sprintf("%s, place your bet (1-%d):", e.Player, e.Chips))
	case blackjack.EventBetPlaced:
		return InfoStyle.Render(fmt.Sprintf("%s bets %d", e.Player, e.Amount))
	case blackjack.EventCardsDealt:
		return fmt.Sprintf("%s: %s", e.Player, RenderHand(e.Cards, e.Value, false))
	case blackjack.EventCardDrawn:
		return fmt.Sprintf("%s draws %s (%d)", e.Player, renderCards(e.Cards), e.Value)
	case blackjack.EventDoubledDown:
		return fmt.Sprintf("%s doubles to %d and draws %s (%d)", e.Player, e.Amount, renderCards(e.Cards), e.Value)
	case blackjack.EventInsuranceOffered:
		return PromptStyle.Render(messageOr(e, fmt.Sprintf("%s, take insurance for %d chips?", e.Player, e.Amount)) + " (y/n)")
	case blackjack.EventInsuranceTaken:
		return InfoStyle.Render(fmt.Sprintf("%s takes insurance for %d", e.Player, e.Amount))
	case blackjack.EventInsuranceDeclined:
		return InfoStyle.Render(fmt.Sprintf("%s declines insurance", e.Player))
	case blackjack.EventTurnStarted:
		return PromptStyle.Render(fmt.Sprintf("%s, you have %s. %s", e.Player, RenderHand(e.Cards, e.Value, false), decisionPrompt(e.Decisions)))
	case blackjack.EventPlayerStood:
		return InfoStyle.Render(fmt.Sprintf("%s stands on %d", e.Player, e.Value))
	case blackjack.EventPlayerBust:
		return LossStyle.Render(fmt.Sprintf("%s busts with %d", e.Player, e.Value))
	case blackjack.EventRoundAborted:
		return ErrorStyle.Render(e.Message)
	case blackjack.EventTurnTimedOut:
		return ErrorStyle.Render(messageOr(e, e.Player+" ran out of time"))
	case blackjack.EventDealerFinished:
		return fmt.Sprintf("%s: %s", HeaderStyle.Render(e.Player), RenderHand(e.Cards, e.Value, false))
	case blackjack.EventResult:
		if e.Amount > 0 {
			return WinStyle.Render(e.Message)
		}
		return LossStyle.Render(e.Message)
	case blackjack.EventBadgeEarned:
		return BadgeStyle.Render(e.Message)
	case blackjack.EventCoinFlip, blackjack.EventGameOver:
		return TitleStyle.Render(e.Message)
	case blackjack.EventRoundSettled:
		return ""
	}
	if e.Message != "" {
		return InfoStyle.Render(e.Message)
	}
	return ""
}

func renderCards(cards []entities.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, RenderCard(c))
	}
	return strings.Join(parts, " ")
}

func messageOr(e blackjack.Event, fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// RenderLeaderboard draws one page of rankings
func RenderLeaderboard(lb *statistics.Leaderboard) string {
	title := "🏆 Leaderboard"
	if lb.SortedBy == statistics.ByBadges {
		title = "🎀 Achievements Leaderboard"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")

	if len(lb.Players) == 0 {
		b.WriteString(InfoStyle.Render("No players yet."))
		return b.String()
	}

	nameWidth := 0
	for _, p := range lb.Players {
		nameWidth = max(nameWidth, lipgloss.Width(p.Name))
	}
	for _, p := range lb.Players {
		fmt.Fprintf(&b, "%2d. %-*s %3d wins  %s\n", p.Rank, nameWidth, p.Name, p.Wins, strings.Join(p.Badges, ""))
	}
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Page %d of %d (%d players)", lb.CurrentPage, lb.TotalPages, lb.TotalPlayers)))
	return b.String()
}

// RenderStats shows one player's record and their most recent rounds
func RenderStats(name string, rec *entities.StatsRecord, recent []*entities.RoundResult) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Wins: %d\n", rec.Wins)

	if len(rec.Badges) == 0 {
		b.WriteString(InfoStyle.Render("No badges yet."))
		b.WriteString("\n")
	} else {
		b.WriteString("Badges:\n")
		for _, id := range rec.Badges {
			title := id
			if badge, ok := achievements.Lookup(id); ok {
				title = badge.Title()
			}
			b.WriteString("  " + BadgeStyle.Render(title) + "\n")
		}
	}

	if len(rec.Achievements) > 0 {
		b.WriteString("Achievements:\n")
		for _, line := range rec.Achievements {
			b.WriteString("  " + line + "\n")
		}
	}

	if len(recent) > 0 {
		b.WriteString("Recent rounds:\n")
		for _, round := range recent {
			seat := round.Player(name)
			if seat == nil {
				continue
			}
			fmt.Fprintf(&b, "  %s  %-9s %s vs dealer %d\n",
				round.CompletedAt.Format("2006-01-02 15:04"),
				seat.Outcome,
				RenderHand(seat.Cards, seat.Value, false),
				round.DealerValue,
			)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func decisionPrompt(decisions []blackjack.Decision) string {
	for _, d := range decisions {
		if d == blackjack.DecisionDoubleDown {
			return "Hit, stand or double?"
		}
	}
	return "Hit or stand?"
}
