package blackjack

import "github.com/fadedpez/blackjackpalace/pkg/entities"

// EventType names what happened at the table
type EventType string

const (
	EventRoundStarted      EventType = "ROUND_STARTED"
	EventBetRequested      EventType = "BET_REQUESTED"
	EventBetPlaced         EventType = "BET_PLACED"
	EventCardsDealt        EventType = "CARDS_DEALT"
	EventInsuranceOffered  EventType = "INSURANCE_OFFERED"
	EventInsuranceTaken    EventType = "INSURANCE_TAKEN"
	EventInsuranceDeclined EventType = "INSURANCE_DECLINED"
	EventTurnStarted       EventType = "TURN_STARTED"
	EventCardDrawn         EventType = "CARD_DRAWN"
	EventDoubledDown       EventType = "DOUBLED_DOWN"
	EventPlayerStood       EventType = "PLAYER_STOOD"
	EventPlayerBust        EventType = "PLAYER_BUST"
	EventTurnTimedOut      EventType = "TURN_TIMED_OUT"
	EventDealerFinished    EventType = "DEALER_FINISHED"
	EventResult            EventType = "RESULT"
	EventBadgeEarned       EventType = "BADGE_EARNED"
	EventRoundSettled      EventType = "ROUND_SETTLED"
	EventRoundAborted      EventType = "ROUND_ABORTED"
	EventCoinFlip          EventType = "COIN_FLIP"
	EventGameOver          EventType = "GAME_OVER"
)

// Event is one engine output for the presentation layer to render
type Event struct {
	Type    EventType
	Player  string
	Message string
	Cards   []entities.Card
	Value   int
	Amount  int
	Chips   int
	Badge   string
	// Decisions is set on EventTurnStarted to the moves open to the player
	Decisions []Decision
}

// Observer receives events as they happen. It is called with the game lock
// held and must not call back into the game.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }
