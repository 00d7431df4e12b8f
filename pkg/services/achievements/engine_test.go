package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateNothingWithoutWin(t *testing.T) {
	award := Evaluate("Ana", nil, nil, RoundFlags{
		Won:       false,
		HandValue: 21,
		AllRed:    true,
		Wins:      10,
		WinStreak: 5,
	})
	assert.True(t, award.Empty())
}

func TestEvaluateSingleBadges(t *testing.T) {
	testCases := []struct {
		name     string
		flags    RoundFlags
		expected []string
	}{
		{name: "exact 21", flags: RoundFlags{Won: true, HandValue: 21, Wins: 1, WinStreak: 1}, expected: []string{Exact21}},
		{name: "five wins", flags: RoundFlags{Won: true, HandValue: 19, Wins: 5, WinStreak: 1}, expected: []string{FiveWins}},
		{name: "four wins is not enough", flags: RoundFlags{Won: true, HandValue: 19, Wins: 4, WinStreak: 1}, expected: nil},
		{name: "three streak", flags: RoundFlags{Won: true, HandValue: 18, Wins: 3, WinStreak: 3}, expected: []string{ThreeStreak}},
		{name: "all face", flags: RoundFlags{Won: true, HandValue: 20, AllFace: true, Wins: 1, WinStreak: 1}, expected: []string{AllFace}},
		{name: "all red", flags: RoundFlags{Won: true, HandValue: 18, AllRed: true, Wins: 1, WinStreak: 1}, expected: []string{AllRed}},
		{name: "comeback", flags: RoundFlags{Won: true, HandValue: 18, Comeback: true, Wins: 1, WinStreak: 1}, expected: []string{Comeback}},
		{
			name:     "natural counts as exact 21 and blackjack win",
			flags:    RoundFlags{Won: true, Blackjack: true, HandValue: 21, Wins: 1, WinStreak: 1},
			expected: []string{Exact21, BlackjackWin},
		},
		{
			name:     "AI badges need AI mode",
			flags:    RoundFlags{Won: true, HandValue: 18, Wins: 3, WinStreak: 1},
			expected: nil,
		},
		{
			name:     "AI mode beat three times",
			flags:    RoundFlags{Won: true, HandValue: 18, Wins: 3, WinStreak: 1, AIMode: true},
			expected: []string{BeatAI},
		},
		{
			name:     "AI mode blackjack",
			flags:    RoundFlags{Won: true, Blackjack: true, HandValue: 21, Wins: 1, WinStreak: 1, AIMode: true},
			expected: []string{Exact21, BlackjackWin, AIBlackjack},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			award := Evaluate("Ana", nil, nil, tc.flags)
			if tc.expected == nil {
				assert.True(t, award.Empty())
				return
			}
			assert.Equal(t, tc.expected, award.BadgeIDs())
			assert.Len(t, award.Achievements, len(tc.expected))
		})
	}
}

func TestAchievementText(t *testing.T) {
	award := Evaluate("Ana", nil, nil, RoundFlags{Won: true, HandValue: 21, Wins: 1, WinStreak: 1})
	require.Len(t, award.Achievements, 1)
	assert.Equal(t, "Ana earned the Ice Cream🍧 for getting 21 exactly!", award.Achievements[0])

	b, ok := Lookup(Master)
	require.True(t, ok)
	assert.Equal(t, "Bo earned the Bow Master🎀 for earning all other badges!", b.Achievement("Bo"))
}

func TestEvaluateIsIdempotent(t *testing.T) {
	flags := RoundFlags{Won: true, Blackjack: true, HandValue: 21, AllRed: true, Wins: 5, WinStreak: 3}

	var held, log []string
	first := Evaluate("Ana", held, log, flags)
	require.False(t, first.Empty())
	held, log = Apply(held, log, first)

	second := Evaluate("Ana", held, log, flags)
	assert.True(t, second.Empty())

	held2, log2 := Apply(held, log, first)
	assert.Equal(t, held, held2)
	assert.Equal(t, log, log2)
}

func TestEvaluateSkipsAchievementAlreadyLogged(t *testing.T) {
	line := "Ana earned the Ice Cream🍧 for getting 21 exactly!"

	award := Evaluate("Ana", nil, []string{line}, RoundFlags{Won: true, HandValue: 21, Wins: 1, WinStreak: 1})

	assert.Equal(t, []string{Exact21}, award.BadgeIDs())
	assert.Empty(t, award.Achievements)
}

func TestMasterAwardedAfterSeventhBadge(t *testing.T) {
	held := []string{Exact21, FiveWins, ThreeStreak, AllFace, AllRed, BlackjackWin}

	award := Evaluate("Ana", held, nil, RoundFlags{Won: true, HandValue: 19, Comeback: true, Wins: 9, WinStreak: 1})

	assert.Equal(t, []string{Comeback, Master}, award.BadgeIDs())
}

func TestMasterNeedsAllSeven(t *testing.T) {
	held := []string{Exact21, FiveWins, ThreeStreak, AllFace, AllRed}

	award := Evaluate("Ana", held, nil, RoundFlags{Won: true, HandValue: 19, Wins: 9, WinStreak: 1})

	assert.NotContains(t, award.BadgeIDs(), Master)
}
