package blackjack

import (
	"errors"

	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

var (
	ErrHandBust  = errors.New("hand is bust")
	ErrHandStand = errors.New("hand is stand")
)

// Status represents the current state of the hand
type Status string

const (
	StatusPlaying Status = "PLAYING"
	StatusBust    Status = "BUST"
	StatusStand   Status = "STAND"
)

// Hand represents a participant's cards for the current round
type Hand struct {
	Cards  []entities.Card
	Status Status
}

// NewHand creates a new blackjack hand
func NewHand() *Hand {
	return &Hand{
		Cards:  make([]entities.Card, 0, 5),
		Status: StatusPlaying,
	}
}

// AddCard adds a card to the hand, marking it bust when it passes 21
func (h *Hand) AddCard(card entities.Card) error {
	switch h.Status {
	case StatusBust:
		return ErrHandBust
	case StatusStand:
		return ErrHandStand
	}

	h.Cards = append(h.Cards, card)

	if IsBust(h.Cards) {
		h.Status = StatusBust
	}

	return nil
}

// Stand marks the hand as stood
func (h *Hand) Stand() error {
	switch h.Status {
	case StatusBust:
		return ErrHandBust
	case StatusStand:
		return ErrHandStand
	}

	h.Status = StatusStand
	return nil
}

// Done reports whether the hand can take no more cards
func (h *Hand) Done() bool {
	return h.Status != StatusPlaying
}

// Reset clears the hand for a new round
func (h *Hand) Reset() {
	h.Cards = h.Cards[:0]
	h.Status = StatusPlaying
}

// Value returns the best possible score for the hand
func (h *Hand) Value() int {
	return GetBestScore(h.Cards)
}

// IsNatural reports a two card 21
func (h *Hand) IsNatural() bool {
	return IsNatural(h.Cards)
}

// IsBust checks if the hand exceeds 21
func (h *Hand) IsBust() bool {
	return h.Status == StatusBust
}

// Snapshot copies the cards so callers cannot alias the live hand
func (h *Hand) Snapshot() []entities.Card {
	out := make([]entities.Card, len(h.Cards))
	copy(out, h.Cards)
	return out
}
