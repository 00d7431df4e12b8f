package blackjack

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/fadedpez/blackjackpalace/internal/logging"
	"github.com/fadedpez/blackjackpalace/internal/types"
	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

var (
	ErrInvalidState      = types.NewGameError(types.ErrInvalidState, "action not allowed in the current game state")
	ErrInvalidAction     = types.NewGameError(types.ErrInvalidAction, "action not allowed for this hand")
	ErrNotPlayerTurn     = types.NewGameError(types.ErrNotPlayerTurn, "not your turn")
	ErrPlayerNotFound    = types.NewGameError(types.ErrPlayerNotFound, "player not found")
	ErrNotEnoughPlayers  = types.NewGameError(types.ErrNotEnoughPlayers, fmt.Sprintf("a game needs between %d and %d players", MinPlayers, MaxPlayers))
	ErrDuplicateName     = types.NewGameError(types.ErrDuplicateName, "player names must be unique")
	ErrTiebreakerDecided = types.NewGameError(types.ErrTiebreakerDecided, "the coin has already been flipped")
)

// State is where the table is in the round
type State string

const (
	StateWaiting      State = "WAITING"
	StateShuffling    State = "SHUFFLING"
	StateBetting      State = "BETTING"
	StateInitialDeal  State = "INITIAL_DEAL"
	StateInsurance    State = "INSURANCE"
	StateNaturalCheck State = "NATURAL_CHECK"
	StatePlayerTurn   State = "PLAYER_TURN"
	StateDealerTurn   State = "DEALER_TURN"
	StateSettlement   State = "SETTLEMENT"
	StateRoundOver    State = "ROUND_OVER" // waiting for NextRound
	StateTiebreaker   State = "TIEBREAKER" // everyone is broke, waiting for FlipCoin
	StateGameOver     State = "GAME_OVER"
	StateAborted      State = "ABORTED"
)

// CoinSide is the face shown by the tiebreaker flip
type CoinSide string

const (
	CoinHeads CoinSide = "Heads"
	CoinTails CoinSide = "Tails"
)

// Outcome is the final result of a game
type Outcome struct {
	Winner     string
	Tiebreaker bool
	Coin       CoinSide
}

// RoundState is the per-round bookkeeping exposed to the presentation layer
type RoundState struct {
	ID               string
	Number           int
	CurrentPlayer    string
	InsuranceOffered bool
	EarlySettlement  bool
	DealerCards      []entities.Card // final dealer hand, set at settlement
	DealerValue      int
	Results          []entities.PlayerRoundResult
	Messages         []string
}

// ShoeFactory builds the shoe for a new round
type ShoeFactory func(rng *rand.Rand) *entities.Shoe

// Options configure a Game. Zero values pick defaults.
type Options struct {
	GameID   string
	Rules    Rules
	RNG      *rand.Rand
	Clock    quartz.Clock
	Stats    StatsRecorder
	History  HistoryRecorder
	Observer Observer
	Logger   *log.Logger
	NewShoe  ShoeFactory
}

// Game runs rounds of blackjack for a fixed table of players. Every exported
// method is serialized; the turn timeout takes the same lock.
type Game struct {
	mu sync.Mutex

	id       string
	state    State
	rules    Rules
	players  []*Account
	dealer   *Account
	active   []*Account // seats with chips at the start of the round
	turn     int        // index into active of the pending decision
	shoe     *entities.Shoe
	newShoe  ShoeFactory
	rng      *rand.Rand
	clock    quartz.Clock
	stats    StatsRecorder
	history  HistoryRecorder
	observer Observer
	logger   *log.Logger
	aiMode   bool

	rounds  int
	round   *RoundState
	outcome *Outcome

	turnTimer  *quartz.Timer
	turnCancel context.CancelFunc
}

// NewGame seats players in the given order
func NewGame(players []*Account, opts Options) (*Game, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, ErrNotEnoughPlayers
	}

	rules := opts.Rules
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(players))
	aiMode := false
	for _, p := range players {
		if p == nil || p.Hand == nil {
			return nil, types.NewGameError(types.ErrInvalidArgument, "player account is not initialized")
		}
		key := strings.ToLower(p.Name)
		if key == strings.ToLower(DealerName) {
			return nil, ErrReservedName
		}
		if seen[key] {
			return nil, ErrDuplicateName
		}
		seen[key] = true
		if p.Policy == nil {
			p.Policy = HumanPolicy{}
		}
		if p.Controller() == ControllerAI {
			aiMode = true
		}
	}

	g := &Game{
		id:       opts.GameID,
		state:    StateWaiting,
		rules:    rules,
		players:  players,
		dealer:   NewDealerAccount(rules.StartingChips, rules.DealerStandsOn),
		turn:     -1,
		newShoe:  opts.NewShoe,
		rng:      opts.RNG,
		clock:    opts.Clock,
		stats:    opts.Stats,
		history:  opts.History,
		observer: opts.Observer,
		logger:   logging.OrDiscard(opts.Logger),
		aiMode:   aiMode,
	}
	if g.id == "" {
		g.id = uuid.NewString()
	}
	if g.rng == nil {
		seed := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	if g.clock == nil {
		g.clock = quartz.NewReal()
	}
	if g.newShoe == nil {
		g.newShoe = entities.NewShoe
	}

	return g, nil
}

// StartRound begins the first round
func (g *Game) StartRound(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateWaiting {
		return ErrInvalidState
	}
	return g.beginRound(ctx)
}

// NextRound starts another round with a fresh shoe
func (g *Game) NextRound(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateRoundOver && g.state != StateAborted {
		return ErrInvalidState
	}
	return g.beginRound(ctx)
}

// PlaceBet records the bet of the player whose turn it is to bet
func (g *Game) PlaceBet(ctx context.Context, name string, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateBetting {
		return ErrInvalidState
	}
	p, err := g.currentActive(name)
	if err != nil {
		return err
	}
	if err := PlaceBet(p, amount); err != nil {
		return err
	}

	g.logger.Debug("Bet placed", "round", g.round.Number, "player", p.Name, "amount", amount)
	g.emit(Event{Type: EventBetPlaced, Player: p.Name, Amount: amount, Chips: p.Chips})
	return g.advanceBetting(ctx)
}

// DecideInsurance answers the insurance offer for the player being asked
func (g *Game) DecideInsurance(ctx context.Context, name string, take bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateInsurance {
		return ErrInvalidState
	}
	p, err := g.currentActive(name)
	if err != nil {
		return err
	}

	if take {
		if err := TakeInsurance(p); err != nil {
			return err
		}
		g.emit(Event{Type: EventInsuranceTaken, Player: p.Name, Amount: p.InsuranceStake, Chips: p.Chips})
	} else {
		g.emit(Event{Type: EventInsuranceDeclined, Player: p.Name})
	}
	return g.advanceInsurance(ctx)
}

// Hit deals one card to the player whose turn it is
func (g *Game) Hit(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.turnPlayer(name)
	if err != nil {
		return err
	}
	g.cancelTurn()

	card, err := g.draw()
	if err != nil {
		return err
	}
	if err := p.Hand.AddCard(card); err != nil {
		return err
	}
	g.emit(Event{Type: EventCardDrawn, Player: p.Name, Cards: []entities.Card{card}, Value: p.Hand.Value()})

	if p.Hand.IsBust() {
		g.emit(Event{Type: EventPlayerBust, Player: p.Name, Value: p.Hand.Value()})
		return g.advanceTurn(ctx)
	}

	g.armTurn(p)
	g.promptTurn(p)
	return nil
}

// Stand ends the current player's turn
func (g *Game) Stand(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.turnPlayer(name)
	if err != nil {
		return err
	}
	return g.stand(ctx, p, EventPlayerStood)
}

// DoubleDown doubles the bet, deals exactly one card and ends the turn
func (g *Game) DoubleDown(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.turnPlayer(name)
	if err != nil {
		return err
	}
	if len(p.Hand.Cards) != 2 || p.DoubledDown {
		return ErrInvalidAction
	}
	if err := DoubleDown(p); err != nil {
		return err
	}
	g.cancelTurn()

	card, err := g.draw()
	if err != nil {
		return err
	}
	if err := p.Hand.AddCard(card); err != nil {
		return err
	}
	g.emit(Event{Type: EventDoubledDown, Player: p.Name, Cards: []entities.Card{card}, Value: p.Hand.Value(), Amount: p.CurrentBet, Chips: p.Chips})

	if p.Hand.IsBust() {
		g.emit(Event{Type: EventPlayerBust, Player: p.Name, Value: p.Hand.Value()})
	} else if err := p.Hand.Stand(); err != nil {
		return err
	}
	return g.advanceTurn(ctx)
}

// TimeoutExpired is the external countdown running out; it stands for the player
func (g *Game) TimeoutExpired(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.turnPlayer(name)
	if err != nil {
		return err
	}
	return g.stand(ctx, p, EventTurnTimedOut)
}

// FlipCoin settles a game where every player went broke. It can only happen once.
func (g *Game) FlipCoin(ctx context.Context) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.outcome != nil && g.outcome.Tiebreaker {
		return *g.outcome, ErrTiebreakerDecided
	}
	if g.state != StateTiebreaker {
		return Outcome{}, ErrInvalidState
	}

	seat := g.rng.IntN(len(g.players))
	side := coinSide(seat, len(g.players))
	g.emit(Event{Type: EventCoinFlip, Player: g.players[seat].Name, Message: fmt.Sprintf("The coin shows %s!", side)})
	g.declareWinner(g.players[seat].Name, true, side)
	return *g.outcome, nil
}

func coinSide(seat, players int) CoinSide {
	if players == 2 {
		if seat == 0 {
			return CoinHeads
		}
		return CoinTails
	}
	return CoinSide(fmt.Sprintf("Seat %d", seat+1))
}

// ID returns the game id
func (g *Game) ID() string {
	return g.id
}

// State returns the current state
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// AIMode reports whether the AI opponent is seated
func (g *Game) AIMode() bool {
	return g.aiMode
}

// Rules returns the rules the table plays under
func (g *Game) Rules() Rules {
	return g.rules
}

// CurrentPlayer names who the table is waiting on, or "" when nobody
func (g *Game) CurrentPlayer() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateBetting, StateInsurance, StatePlayerTurn:
		if g.turn >= 0 && g.turn < len(g.active) {
			return g.active[g.turn].Name
		}
	}
	return ""
}

// Decisions lists the moves open to the player whose turn it is
func (g *Game) Decisions() []Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StatePlayerTurn || g.turn < 0 || g.turn >= len(g.active) {
		return nil
	}
	return decisionsFor(g.active[g.turn])
}

func decisionsFor(p *Account) []Decision {
	decisions := []Decision{DecisionHit, DecisionStand}
	if CanDoubleDown(p) {
		decisions = append(decisions, DecisionDoubleDown)
	}
	return decisions
}

// promptTurn tells observers a human hand is waiting for input
func (g *Game) promptTurn(p *Account) {
	g.emit(Event{
		Type:      EventTurnStarted,
		Player:    p.Name,
		Cards:     p.Hand.Snapshot(),
		Value:     p.Hand.Value(),
		Decisions: decisionsFor(p),
	})
}

// Players returns read-only views of the seated players in seat order
func (g *Game) Players() []AccountView {
	g.mu.Lock()
	defer g.mu.Unlock()

	views := make([]AccountView, 0, len(g.players))
	for _, p := range g.players {
		views = append(views, p.view())
	}
	return views
}

// Dealer returns the dealer's view. Until the dealer plays, only the upcard shows.
func (g *Game) Dealer() AccountView {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := g.dealer.view()
	if (g.state == StateInsurance || g.state == StatePlayerTurn) && len(v.Cards) > 1 {
		v.Cards = v.Cards[:1]
		v.Value = GetBestScore(v.Cards)
		v.HoleCardHidden = true
	}
	return v
}

// Round returns a copy of the current round's bookkeeping
func (g *Game) Round() RoundState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.round == nil {
		return RoundState{}
	}
	r := *g.round
	r.DealerCards = append([]entities.Card(nil), g.round.DealerCards...)
	r.Results = append([]entities.PlayerRoundResult(nil), g.round.Results...)
	r.Messages = append([]string(nil), g.round.Messages...)
	return r
}

// Outcome returns the final result once the game is over
func (g *Game) Outcome() (Outcome, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.outcome == nil {
		return Outcome{}, false
	}
	return *g.outcome, true
}

func (g *Game) beginRound(ctx context.Context) error {
	g.cancelTurn()
	g.state = StateShuffling
	g.shoe = g.newShoe(g.rng)

	g.dealer.resetForRound()
	g.active = g.active[:0]
	for _, p := range g.players {
		p.resetForRound()
		if !p.IsOut() {
			g.active = append(g.active, p)
		}
	}

	g.rounds++
	g.round = &RoundState{ID: uuid.NewString(), Number: g.rounds}
	g.logger.Info("Round started", "game", g.id, "round", g.rounds, "players", len(g.active))
	g.emit(Event{Type: EventRoundStarted, Message: fmt.Sprintf("Round %d", g.rounds)})

	g.state = StateBetting
	g.turn = -1
	return g.advanceBetting(ctx)
}

func (g *Game) advanceBetting(ctx context.Context) error {
	for g.turn+1 < len(g.active) {
		g.turn++
		p := g.active[g.turn]
		g.round.CurrentPlayer = p.Name

		if bettor, ok := p.Policy.(Bettor); ok {
			amount := bettor.Bet(p.Chips)
			if err := PlaceBet(p, amount); err != nil {
				return err
			}
			g.emit(Event{Type: EventBetPlaced, Player: p.Name, Amount: amount, Chips: p.Chips})
			continue
		}

		g.emit(Event{Type: EventBetRequested, Player: p.Name, Chips: p.Chips})
		return nil
	}

	g.round.CurrentPlayer = ""
	return g.deal(ctx)
}

// deal gives each player two cards in seat order, then the dealer two
func (g *Game) deal(ctx context.Context) error {
	g.state = StateInitialDeal

	for _, p := range g.active {
		for i := 0; i < 2; i++ {
			if err := g.dealTo(p); err != nil {
				return err
			}
		}
	}
	for i := 0; i < 2; i++ {
		if err := g.dealTo(g.dealer); err != nil {
			return err
		}
	}

	for _, p := range g.active {
		g.emit(Event{Type: EventCardsDealt, Player: p.Name, Cards: p.Hand.Snapshot(), Value: p.Hand.Value()})
	}
	upcard := g.dealer.Hand.Cards[0]
	g.emit(Event{Type: EventCardsDealt, Player: g.dealer.Name, Cards: []entities.Card{upcard}, Value: upcard.BaseValue()})

	if upcard.IsAce() {
		g.state = StateInsurance
		g.round.InsuranceOffered = true
		g.turn = -1
		return g.advanceInsurance(ctx)
	}
	return g.checkNaturals(ctx)
}

func (g *Game) dealTo(a *Account) error {
	card, err := g.draw()
	if err != nil {
		return err
	}
	return a.Hand.AddCard(card)
}

// advanceInsurance offers the side bet to each human who can afford it
func (g *Game) advanceInsurance(ctx context.Context) error {
	for g.turn+1 < len(g.active) {
		g.turn++
		p := g.active[g.turn]
		if !p.IsHuman() || !CanTakeInsurance(p) {
			continue
		}

		g.round.CurrentPlayer = p.Name
		cost := InsuranceCost(p)
		g.emit(Event{
			Type:    EventInsuranceOffered,
			Player:  p.Name,
			Amount:  cost,
			Chips:   p.Chips,
			Message: fmt.Sprintf("Dealer shows an Ace. %s, take insurance for %d chips?", p.Name, cost),
		})
		return nil
	}

	g.round.CurrentPlayer = ""
	return g.checkNaturals(ctx)
}

// checkNaturals ends the round at once if anyone was dealt a natural
func (g *Game) checkNaturals(ctx context.Context) error {
	g.state = StateNaturalCheck

	natural := g.dealer.Hand.IsNatural()
	for _, p := range g.active {
		if p.Hand.IsNatural() {
			natural = true
		}
	}
	if natural {
		return g.settle(ctx, true)
	}

	g.state = StatePlayerTurn
	g.turn = -1
	return g.advanceTurn(ctx)
}

// advanceTurn moves to the next hand that still needs a decision. Hands
// played by a policy are played out here; a human hand waits for input.
func (g *Game) advanceTurn(ctx context.Context) error {
	g.cancelTurn()

	for g.turn+1 < len(g.active) {
		g.turn++
		p := g.active[g.turn]
		if p.Hand.Done() {
			continue
		}

		g.round.CurrentPlayer = p.Name
		if _, auto := p.Policy.Decide(p.Hand); auto {
			if err := g.autoPlay(p); err != nil {
				return err
			}
			continue
		}

		g.armTurn(p)
		g.promptTurn(p)
		return nil
	}

	g.round.CurrentPlayer = ""
	return g.playDealer(ctx)
}

func (g *Game) autoPlay(p *Account) error {
	for !p.Hand.Done() {
		decision, _ := p.Policy.Decide(p.Hand)
		if decision != DecisionHit {
			if err := p.Hand.Stand(); err != nil {
				return err
			}
			g.emit(Event{Type: EventPlayerStood, Player: p.Name, Value: p.Hand.Value()})
			return nil
		}

		card, err := g.draw()
		if err != nil {
			return err
		}
		if err := p.Hand.AddCard(card); err != nil {
			return err
		}
		g.emit(Event{Type: EventCardDrawn, Player: p.Name, Cards: []entities.Card{card}, Value: p.Hand.Value()})

		if p.Hand.IsBust() {
			g.emit(Event{Type: EventPlayerBust, Player: p.Name, Value: p.Hand.Value()})
		}
	}
	return nil
}

func (g *Game) stand(ctx context.Context, p *Account, reason EventType) error {
	g.cancelTurn()
	if err := p.Hand.Stand(); err != nil {
		return err
	}

	msg := ""
	if reason == EventTurnTimedOut {
		msg = fmt.Sprintf("%s ran out of time and stands.", p.Name)
		g.logger.Info("Turn timed out", "round", g.round.Number, "player", p.Name)
	}
	g.emit(Event{Type: reason, Player: p.Name, Value: p.Hand.Value(), Message: msg})
	return g.advanceTurn(ctx)
}

// playDealer draws for the house under its policy
func (g *Game) playDealer(ctx context.Context) error {
	g.state = StateDealerTurn

	for !g.dealer.Hand.Done() {
		decision, _ := g.dealer.Policy.Decide(g.dealer.Hand)
		if decision != DecisionHit {
			if err := g.dealer.Hand.Stand(); err != nil {
				return err
			}
			break
		}
		if err := g.dealTo(g.dealer); err != nil {
			return err
		}
	}

	g.emit(Event{Type: EventDealerFinished, Player: g.dealer.Name, Cards: g.dealer.Hand.Snapshot(), Value: g.dealer.Hand.Value()})
	return g.settle(ctx, false)
}

func (g *Game) draw() (entities.Card, error) {
	card, err := g.shoe.Draw()
	if err != nil {
		return card, g.abort(err)
	}
	return card, nil
}

// abort gives back every wager on the table and stops the round
func (g *Game) abort(cause error) error {
	g.cancelTurn()
	for _, p := range g.active {
		refund(p)
	}
	g.state = StateAborted
	g.round.CurrentPlayer = ""

	err := fmt.Errorf("round %d aborted: %w", g.round.Number, cause)
	logging.LogError(g.logger, err)
	g.emit(Event{Type: EventRoundAborted, Message: "The round was aborted and all bets were returned."})
	return err
}

// currentActive resolves name to the seat the table is waiting on
func (g *Game) currentActive(name string) (*Account, error) {
	p := g.findPlayer(name)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if g.turn < 0 || g.turn >= len(g.active) || g.active[g.turn] != p {
		return nil, ErrNotPlayerTurn
	}
	return p, nil
}

func (g *Game) turnPlayer(name string) (*Account, error) {
	if g.state != StatePlayerTurn {
		return nil, ErrInvalidState
	}
	return g.currentActive(name)
}

func (g *Game) findPlayer(name string) *Account {
	for _, p := range g.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (g *Game) emit(e Event) {
	if g.round != nil && (e.Type == EventResult || e.Type == EventBadgeEarned) {
		g.round.Messages = append(g.round.Messages, e.Message)
	}
	if g.observer != nil {
		g.observer.OnEvent(e)
	}
}
