package blackjack

import (
	"math/rand/v2"
)

// Controller says who makes an account's decisions
type Controller string

const (
	ControllerHuman  Controller = "HUMAN"
	ControllerAI     Controller = "AI"
	ControllerDealer Controller = "DEALER"
)

// Decision is a single player-turn choice
type Decision string

const (
	DecisionHit        Decision = "HIT"
	DecisionStand      Decision = "STAND"
	DecisionDoubleDown Decision = "DOUBLE_DOWN"
)

// Policy decides turns for an account
type Policy interface {
	Controller() Controller
	// Decide returns the next move for hands the policy plays itself.
	// ok is false when the decision has to come from outside the engine.
	Decide(hand *Hand) (decision Decision, ok bool)
}

// Bettor is implemented by policies that size their own bets
type Bettor interface {
	Bet(chips int) int
}

// HumanPolicy waits for a person to choose
type HumanPolicy struct{}

func (HumanPolicy) Controller() Controller { return ControllerHuman }

func (HumanPolicy) Decide(*Hand) (Decision, bool) { return "", false }

// DealerPolicy draws until the hand reaches StandsOn
type DealerPolicy struct {
	StandsOn int
}

func (DealerPolicy) Controller() Controller { return ControllerDealer }

// Decide hits below StandsOn and stands otherwise, bust included
func (p DealerPolicy) Decide(hand *Hand) (Decision, bool) {
	if p.ShouldHit(hand) {
		return DecisionHit, true
	}
	return DecisionStand, true
}

// ShouldHit reports whether the dealer must draw
func (p DealerPolicy) ShouldHit(hand *Hand) bool {
	return hand.Value() < p.StandsOn
}

// AIPolicy is the computer opponent: random bets inside a band and a fixed
// hit threshold. It never insures and never doubles.
type AIPolicy struct {
	StandsOn int
	MinBet   int
	MaxBet   int
	rng      *rand.Rand
}

// NewAIPolicy creates the AI strategy for the given rules
func NewAIPolicy(rules Rules, rng *rand.Rand) *AIPolicy {
	return &AIPolicy{
		StandsOn: rules.AIStandsOn,
		MinBet:   rules.AIMinBet,
		MaxBet:   rules.AIMaxBet,
		rng:      rng,
	}
}

func (p *AIPolicy) Controller() Controller { return ControllerAI }

// Decide hits below StandsOn
func (p *AIPolicy) Decide(hand *Hand) (Decision, bool) {
	if hand.Value() < p.StandsOn {
		return DecisionHit, true
	}
	return DecisionStand, true
}

// Bet goes all in below the minimum, otherwise picks uniformly from
// [MinBet, min(MaxBet, chips)].
func (p *AIPolicy) Bet(chips int) int {
	if chips < p.MinBet {
		return chips
	}
	upper := min(p.MaxBet, chips)
	return p.MinBet + p.rng.IntN(upper-p.MinBet+1)
}
