package engine

// Rules holds the configurable match settings.
type Rules struct {
	WinningScore       int `json:"winningScore"`       // match ends once a team reaches it
	LateEntryThreshold int `json:"lateEntryThreshold"` // match score from which the entry minimum applies
	LateEntryMinPoints int `json:"lateEntryMinPoints"` // minimum points of a team's first melds past the threshold
	BaterBonus         int `json:"baterBonus"`
	NoMortoPenalty     int `json:"noMortoPenalty"`
	HandSize           int `json:"handSize"`
	MortoSize          int `json:"mortoSize"`
}

// DefaultRules returns the standard Buraco settings.
func DefaultRules() Rules {
	return Rules{
		WinningScore:       3000,
		LateEntryThreshold: 1500,
		LateEntryMinPoints: 100,
		BaterBonus:         100,
		NoMortoPenalty:     100,
		HandSize:           11,
		MortoSize:          11,
	}
}

// withDefaults fills zero fields from DefaultRules.
func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.WinningScore == 0 {
		r.WinningScore = d.WinningScore
	}
	if r.LateEntryThreshold == 0 {
		r.LateEntryThreshold = d.LateEntryThreshold
	}
	if r.LateEntryMinPoints == 0 {
		r.LateEntryMinPoints = d.LateEntryMinPoints
	}
	if r.BaterBonus == 0 {
		r.BaterBonus = d.BaterBonus
	}
	if r.NoMortoPenalty == 0 {
		r.NoMortoPenalty = d.NoMortoPenalty
	}
	if r.HandSize == 0 {
		r.HandSize = d.HandSize
	}
	if r.MortoSize == 0 {
		r.MortoSize = d.MortoSize
	}
	return r
}
