package blackjack

import (
	"github.com/fadedpez/blackjackpalace/internal/types"
)

var (
	ErrInvalidBet                 = types.NewGameError(types.ErrInvalidBet, "bet must be positive and no more than available chips")
	ErrInsufficientChipsForDouble = types.NewGameError(types.ErrInsufficientChipsForDouble, "not enough chips to match the bet")
	ErrInsuranceUnavailable       = types.NewGameError(types.ErrInsuranceUnavailable, "insurance cannot be taken on this hand")
)

// PlaceBet moves amount from chips to the current bet. A rejected bet
// changes nothing.
func PlaceBet(a *Account, amount int) error {
	if amount <= 0 || amount > a.Chips {
		return ErrInvalidBet
	}

	a.Chips -= amount
	a.CurrentBet = amount
	return nil
}

// CanDoubleDown reports whether the hand may double: two cards, not doubled
// yet, and enough chips to match the bet.
func CanDoubleDown(a *Account) bool {
	return len(a.Hand.Cards) == 2 && !a.DoubledDown && a.Chips >= a.CurrentBet
}

// DoubleDown matches the current bet. The caller deals the single extra card.
func DoubleDown(a *Account) error {
	if a.Chips < a.CurrentBet {
		return ErrInsufficientChipsForDouble
	}

	a.Chips -= a.CurrentBet
	a.CurrentBet *= 2
	a.DoubledDown = true
	return nil
}

// SettleWin pays a winning hand and returns the amount credited. A natural
// returns floor(2.5 x bet), anything else 2 x bet.
func SettleWin(a *Account, isBlackjack bool) int {
	var credit int
	if isBlackjack {
		credit = a.CurrentBet * 5 / 2
	} else {
		credit = a.CurrentBet * 2
	}

	a.Chips += credit
	a.CurrentBet = 0
	return credit
}

// SettlePush returns the stake and reports the amount credited
func SettlePush(a *Account) int {
	credit := a.CurrentBet
	a.Chips += credit
	a.CurrentBet = 0
	return credit
}

// SettleLoss clears the bet. The stake left the chips when it was placed.
func SettleLoss(a *Account) {
	a.CurrentBet = 0
}

// InsuranceCost is half the current bet, rounded down
func InsuranceCost(a *Account) int {
	return a.CurrentBet / 2
}

// CanTakeInsurance reports whether the side bet is worth offering and affordable
func CanTakeInsurance(a *Account) bool {
	cost := InsuranceCost(a)
	return cost > 0 && a.InsuranceStake == 0 && a.Chips >= cost
}

// TakeInsurance pays for the side bet
func TakeInsurance(a *Account) error {
	if !CanTakeInsurance(a) {
		return ErrInsuranceUnavailable
	}

	cost := InsuranceCost(a)
	a.Chips -= cost
	a.InsuranceStake = cost
	return nil
}

// SettleInsurance pays three times the stake when the dealer has a natural,
// otherwise the stake is simply gone. The stake is cleared either way.
func SettleInsurance(a *Account, dealerNatural bool) int {
	var credit int
	if dealerNatural {
		credit = a.InsuranceStake * 3
		a.Chips += credit
	}
	a.InsuranceStake = 0
	return credit
}

// refund hands back everything wagered this round
func refund(a *Account) {
	a.Chips += a.CurrentBet + a.InsuranceStake
	a.CurrentBet = 0
	a.InsuranceStake = 0
}
