package achievements

// RoundFlags describe how a player's round went
type RoundFlags struct {
	Won       bool
	Blackjack bool // the win was a natural
	HandValue int
	AllFace   bool
	AllRed    bool
	Comeback  bool // chips after payout are below the dealer's
	AIMode    bool
	Wins      int // cumulative, including this round
	WinStreak int // including this round
}

// Award is what a single evaluation newly grants
type Award struct {
	Badges       []Badge
	Achievements []string
}

// Empty reports an award with nothing in it
func (a Award) Empty() bool {
	return len(a.Badges) == 0 && len(a.Achievements) == 0
}

// BadgeIDs lists the awarded badge ids in award order
func (a Award) BadgeIDs() []string {
	ids := make([]string, 0, len(a.Badges))
	for _, b := range a.Badges {
		ids = append(ids, b.ID)
	}
	return ids
}

// Evaluate returns the badges name earns from flags that are not already in
// held, with one achievement line each. Lines already present in log are not
// repeated. Nothing is awarded unless the round was won.
func Evaluate(name string, held, log []string, flags RoundFlags) Award {
	var award Award
	if !flags.Won {
		return award
	}

	owned := make(map[string]bool, len(held)+len(Catalog))
	for _, id := range held {
		owned[id] = true
	}
	written := make(map[string]bool, len(log))
	for _, line := range log {
		written[line] = true
	}

	for _, badge := range Catalog {
		if owned[badge.ID] || !earned(badge, flags, owned) {
			continue
		}
		owned[badge.ID] = true
		award.Badges = append(award.Badges, badge)

		line := badge.Achievement(name)
		if !written[line] {
			written[line] = true
			award.Achievements = append(award.Achievements, line)
		}
	}

	return award
}

// Apply appends an award to held badges and the achievement log, skipping
// anything already present
func Apply(held, log []string, award Award) ([]string, []string) {
	for _, b := range award.Badges {
		if !contains(held, b.ID) {
			held = append(held, b.ID)
		}
	}
	for _, line := range award.Achievements {
		if !contains(log, line) {
			log = append(log, line)
		}
	}
	return held, log
}

func earned(badge Badge, flags RoundFlags, owned map[string]bool) bool {
	if badge.AIOnly && !flags.AIMode {
		return false
	}

	switch badge.ID {
	case Exact21:
		return flags.HandValue == 21
	case FiveWins:
		return flags.Wins >= 5
	case ThreeStreak:
		return flags.WinStreak >= 3
	case AllFace:
		return flags.AllFace
	case AllRed:
		return flags.AllRed
	case BlackjackWin:
		return flags.Blackjack
	case Comeback:
		return flags.Comeback
	case Master:
		for _, id := range MasterRequires {
			if !owned[id] {
				return false
			}
		}
		return true
	case BeatAI:
		return flags.Wins >= 3
	case AIBlackjack:
		return flags.Blackjack
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
