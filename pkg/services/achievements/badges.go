// Package achievements awards badges for winning hands.
package achievements

import "fmt"

// Badge ids are the emoji stored in player records
const (
	Exact21      = "🍧"
	FiveWins     = "🪷"
	ThreeStreak  = "🦩"
	AllFace      = "🩰"
	AllRed       = "🌸"
	BlackjackWin = "💖"
	Comeback     = "🦄"
	Master       = "🎀"
	BeatAI       = "🧸"
	AIBlackjack  = "🦋"
)

// Badge describes one award
type Badge struct {
	ID     string
	Name   string
	Reason string
	AIOnly bool
}

// Title is the badge name followed by its emoji, e.g. "Ice Cream🍧"
func (b Badge) Title() string {
	return b.Name + b.ID
}

// Achievement is the log line written when name earns the badge
func (b Badge) Achievement(name string) string {
	return fmt.Sprintf("%s earned the %s for %s!", name, b.Title(), b.Reason)
}

// Catalog lists every badge in award order. Master comes after the seven
// badges it requires.
var Catalog = []Badge{
	{ID: Exact21, Name: "Ice Cream", Reason: "getting 21 exactly"},
	{ID: FiveWins, Name: "Pink Lotus", Reason: "getting five wins"},
	{ID: ThreeStreak, Name: "Flamingo", Reason: "winning 3 rounds in a row"},
	{ID: AllFace, Name: "Ballet Slipper", Reason: "winning with only face cards"},
	{ID: AllRed, Name: "Cherry Blossom", Reason: "winning with all hearts or diamonds"},
	{ID: BlackjackWin, Name: "Heart Gem", Reason: "winning with a blackjack"},
	{ID: Comeback, Name: "Unicorn", Reason: "winning after being behind in chips"},
	{ID: Master, Name: "Bow Master", Reason: "earning all other badges"},
	{ID: BeatAI, Name: "Teddy Bear", Reason: "beating the AI 3 times", AIOnly: true},
	{ID: AIBlackjack, Name: "Butterfly", Reason: "getting a blackjack against the AI", AIOnly: true},
}

// MasterRequires are the badges that together earn Master
var MasterRequires = []string{Exact21, FiveWins, ThreeStreak, AllFace, AllRed, BlackjackWin, Comeback}

// Lookup returns the catalog entry for id
func Lookup(id string) (Badge, bool) {
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
