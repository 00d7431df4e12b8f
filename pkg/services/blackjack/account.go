package blackjack

import (
	"strings"

	"github.com/fadedpez/blackjackpalace/internal/types"
	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

const (
	DealerName = "Dealer" // Reserved for the house account
	AIName     = "AI"     // Name of the computer opponent
)

// ErrReservedName is returned when a human tries to sit as the dealer
var ErrReservedName = types.NewGameError(types.ErrReservedName, "name is reserved for the dealer")

// Account holds one participant's chips, wager and hand. Players and the
// dealer share it; who makes the decisions is up to Policy.
type Account struct {
	Name           string
	Chips          int
	CurrentBet     int
	Hand           *Hand
	InsuranceStake int
	DoubledDown    bool
	WinStreak      int
	Wins           int
	Badges         []string
	Achievements   []string
	Policy         Policy
}

// NewHumanAccount seats a person, carrying over their stored record
func NewHumanAccount(name string, chips int, record *entities.StatsRecord) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, "player name is required")
	}
	if strings.EqualFold(name, DealerName) {
		return nil, ErrReservedName
	}

	rec := record.Clone()
	return &Account{
		Name:         name,
		Chips:        chips,
		Hand:         NewHand(),
		Wins:         rec.Wins,
		Badges:       rec.Badges,
		Achievements: rec.Achievements,
		Policy:       HumanPolicy{},
	}, nil
}

// NewAIAccount seats the computer opponent. It starts fresh every session.
func NewAIAccount(chips int, policy *AIPolicy) *Account {
	return &Account{
		Name:         AIName,
		Chips:        chips,
		Hand:         NewHand(),
		Badges:       []string{},
		Achievements: []string{},
		Policy:       policy,
	}
}

// NewDealerAccount creates the house account
func NewDealerAccount(chips, standsOn int) *Account {
	return &Account{
		Name:         DealerName,
		Chips:        chips,
		Hand:         NewHand(),
		Badges:       []string{},
		Achievements: []string{},
		Policy:       DealerPolicy{StandsOn: standsOn},
	}
}

// Controller reports who decides for this account
func (a *Account) Controller() Controller {
	if a.Policy == nil {
		return ControllerHuman
	}
	return a.Policy.Controller()
}

// IsHuman reports whether decisions come from a person
func (a *Account) IsHuman() bool {
	return a.Controller() == ControllerHuman
}

// IsOut reports whether the account has no chips left to wager
func (a *Account) IsOut() bool {
	return a.Chips <= 0
}

// StatsRecord returns the persisted view of the account
func (a *Account) StatsRecord() *entities.StatsRecord {
	return &entities.StatsRecord{
		Wins:         a.Wins,
		Badges:       append([]string{}, a.Badges...),
		Achievements: append([]string{}, a.Achievements...),
	}
}

// resetForRound clears everything that only lives for one round
func (a *Account) resetForRound() {
	a.Hand.Reset()
	a.CurrentBet = 0
	a.InsuranceStake = 0
	a.DoubledDown = false
}

// AccountView is a read-only copy of an account for the presentation layer
type AccountView struct {
	Name           string
	Controller     Controller
	Chips          int
	CurrentBet     int
	Cards          []entities.Card
	Value          int
	Status         Status
	InsuranceStake int
	DoubledDown    bool
	WinStreak      int
	Wins           int
	Badges         []string
	HoleCardHidden bool
}

func (a *Account) view() AccountView {
	return AccountView{
		Name:           a.Name,
		Controller:     a.Controller(),
		Chips:          a.Chips,
		CurrentBet:     a.CurrentBet,
		Cards:          a.Hand.Snapshot(),
		Value:          a.Hand.Value(),
		Status:         a.Hand.Status,
		InsuranceStake: a.InsuranceStake,
		DoubledDown:    a.DoubledDown,
		WinStreak:      a.WinStreak,
		Wins:           a.Wins,
		Badges:         append([]string{}, a.Badges...),
	}
}
