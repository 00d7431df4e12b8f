package entities

import (
	"math/rand/v2"

	"github.com/fadedpez/blackjackpalace/internal/types"
)

// ShoeSize is the number of cards in a fresh shoe
const ShoeSize = 52

// ErrEmptyShoe is returned when dealing from an exhausted shoe
var ErrEmptyShoe = types.NewGameError(types.ErrEmptyShoe, "cannot deal from an exhausted shoe")

// Shoe is the working deck for one round. Cards leave it on deal and never return.
type Shoe struct {
	cards []Card
}

// NewShoe creates a shoe holding one of each suit and rank, shuffled with rng
func NewShoe(rng *rand.Rand) *Shoe {
	cards := make([]Card, 0, ShoeSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}

	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &Shoe{cards: cards}
}

// NewShoeFromCards creates a shoe that deals cards in the given order
func NewShoeFromCards(cards []Card) *Shoe {
	dealt := make([]Card, len(cards))
	copy(dealt, cards)
	return &Shoe{cards: dealt}
}

// Draw removes and returns the top card from the shoe
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrEmptyShoe
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

// Remaining returns how many cards are left to deal
func (s *Shoe) Remaining() int {
	return len(s.cards)
}
