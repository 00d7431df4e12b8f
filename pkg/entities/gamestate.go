package entities

import "time"

// Outcome represents how a player's hand finished against the dealer
type Outcome string

const (
	OutcomeBlackjack Outcome = "BLACKJACK"
	OutcomeWin       Outcome = "WIN"
	OutcomePush      Outcome = "PUSH"
	OutcomeLoss      Outcome = "LOSS"
	OutcomeBust      Outcome = "BUST"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsWin returns true if this outcome represents a win
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeBlackjack
}

// RoundResult is the archived record of one settled round
type RoundResult struct {
	ID              string              `json:"round_id"`
	GameID          string              `json:"game_id"`
	Number          int                 `json:"round_number"`
	CompletedAt     time.Time           `json:"completed_at"`
	DealerCards     []Card              `json:"dealer_cards"`
	DealerValue     int                 `json:"dealer_value"`
	EarlySettlement bool                `json:"early_settlement"`
	Players         []PlayerRoundResult `json:"players"`
}

// PlayerRoundResult is one player's line in a settled round
type PlayerRoundResult struct {
	Name            string   `json:"name"`
	Cards           []Card   `json:"cards"`
	Value           int      `json:"value"`
	Bet             int      `json:"bet"`
	Payout          int      `json:"payout"`
	InsuranceStake  int      `json:"insurance_stake"`
	InsurancePayout int      `json:"insurance_payout"`
	Outcome         Outcome  `json:"outcome"`
	DoubledDown     bool     `json:"doubled_down"`
	ChipsAfter      int      `json:"chips_after"`
	NewBadges       []string `json:"new_badges"`
}

// PlayerNames lists the players that took part in the round
func (r *RoundResult) PlayerNames() []string {
	names := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		names = append(names, p.Name)
	}
	return names
}

// Player returns the named player's result, or nil
func (r *RoundResult) Player(name string) *PlayerRoundResult {
	for i := range r.Players {
		if r.Players[i].Name == name {
			return &r.Players[i]
		}
	}
	return nil
}
