package blackjack

import (
	"fmt"
	"time"

	"github.com/fadedpez/blackjackpalace/internal/types"
	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

const (
	BlackjackValue = 21 // Best possible hand value
	MinPlayers     = 2  // A game needs two seats for a tiebreaker to mean anything
	MaxPlayers     = 7  // Max number of players allowed at the table
)

// Rules are the house settings a table plays under
type Rules struct {
	StartingChips  int
	DealerStandsOn int
	AIStandsOn     int
	AIMinBet       int
	AIMaxBet       int
	TurnTimeout    time.Duration // Zero disables the per-decision countdown
}

// DefaultRules returns the standard palace rules
func DefaultRules() Rules {
	return Rules{
		StartingChips:  100,
		DealerStandsOn: 17,
		AIStandsOn:     16,
		AIMinBet:       10,
		AIMaxBet:       50,
		TurnTimeout:    15 * time.Second,
	}
}

// Validate checks the rules are playable
func (r Rules) Validate() error {
	switch {
	case r.StartingChips <= 0:
		return types.NewGameError(types.ErrInvalidArgument, "starting chips must be positive")
	case r.DealerStandsOn <= 0 || r.DealerStandsOn > BlackjackValue:
		return types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("dealer must stand on a value between 1 and %d", BlackjackValue))
	case r.AIStandsOn <= 0 || r.AIStandsOn > BlackjackValue:
		return types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("AI must stand on a value between 1 and %d", BlackjackValue))
	case r.AIMinBet <= 0:
		return types.NewGameError(types.ErrInvalidArgument, "AI minimum bet must be positive")
	case r.AIMinBet > r.AIMaxBet:
		return types.NewGameError(types.ErrInvalidArgument, "AI minimum bet exceeds maximum bet")
	case r.TurnTimeout < 0:
		return types.NewGameError(types.ErrInvalidArgument, "turn timeout cannot be negative")
	}
	return nil
}

// GetBestScore sums base values, then counts aces as 1 one at a time while the
// total is over 21. The result is the best non-busting total, or the smallest
// total when a bust cannot be avoided.
func GetBestScore(cards []entities.Card) int {
	score := 0
	aces := 0

	for _, card := range cards {
		score += card.BaseValue()
		if card.IsAce() {
			aces++
		}
	}

	for score > BlackjackValue && aces > 0 {
		score -= 10
		aces--
	}

	return score
}

// IsNatural reports a two card 21
func IsNatural(cards []entities.Card) bool {
	return len(cards) == 2 && GetBestScore(cards) == BlackjackValue
}

// IsBust checks if a hand exceeds 21
func IsBust(cards []entities.Card) bool {
	return GetBestScore(cards) > BlackjackValue
}

// AllFaceCards reports a non-empty hand made only of jacks, queens and kings
func AllFaceCards(cards []entities.Card) bool {
	if len(cards) == 0 {
		return false
	}
	for _, c := range cards {
		if !c.Rank.IsFace() {
			return false
		}
	}
	return true
}

// AllRed reports a non-empty hand made only of hearts and diamonds
func AllRed(cards []entities.Card) bool {
	if len(cards) == 0 {
		return false
	}
	for _, c := range cards {
		if !c.Suit.IsRed() {
			return false
		}
	}
	return true
}

// CompareHands compares a standing player hand against the dealer's final hand.
// Naturals are resolved before hands are played, so only busts and totals
// matter here.
func CompareHands(player, dealer []entities.Card) entities.Outcome {
	if IsBust(player) {
		return entities.OutcomeBust
	}
	if IsBust(dealer) {
		return entities.OutcomeWin
	}

	playerScore := GetBestScore(player)
	dealerScore := GetBestScore(dealer)
	switch {
	case playerScore > dealerScore:
		return entities.OutcomeWin
	case playerScore == dealerScore:
		return entities.OutcomePush
	default:
		return entities.OutcomeLoss
	}
}

// CompareNaturals resolves a round where someone was dealt a natural. A seat
// with no natural facing a dealer without one loses its stake, since the
// round ends before it can act.
func CompareNaturals(player, dealer []entities.Card) entities.Outcome {
	playerNatural := IsNatural(player)
	dealerNatural := IsNatural(dealer)
	switch {
	case playerNatural && dealerNatural:
		return entities.OutcomePush
	case playerNatural:
		return entities.OutcomeBlackjack
	default:
		return entities.OutcomeLoss
	}
}
