package entities

// StatsRecord is the persisted, cross-session record for one player name
type StatsRecord struct {
	Wins         int      `json:"wins"`
	Badges       []string `json:"badges"`
	Achievements []string `json:"achievements"`
}

// NewStatsRecord creates an empty record
func NewStatsRecord() *StatsRecord {
	return &StatsRecord{
		Badges:       []string{},
		Achievements: []string{},
	}
}

// Normalize clamps wins at zero, replaces nil lists, and drops repeated
// badges and achievements while keeping first-seen order.
func (r *StatsRecord) Normalize() {
	if r.Wins < 0 {
		r.Wins = 0
	}
	r.Badges = uniqueStrings(r.Badges)
	r.Achievements = uniqueStrings(r.Achievements)
}

// Clone returns a deep copy of the record
func (r *StatsRecord) Clone() *StatsRecord {
	if r == nil {
		return NewStatsRecord()
	}
	return &StatsRecord{
		Wins:         r.Wins,
		Badges:       append([]string{}, r.Badges...),
		Achievements: append([]string{}, r.Achievements...),
	}
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
