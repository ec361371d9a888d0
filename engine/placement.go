package engine

import "sort"

// Wildcard placement heuristic weights.
const (
	scoreInteriorWild = 10 // wildcard strictly inside the run
	scoreLeadingWild  = 5  // wildcard in the first slot, room to extend low
	scoreOrderedCard  = 1  // natural card keeping its relative order
)

// placedCard is a natural card pinned to an ordering value.
type placedCard struct {
	card  Card
	value int
}

// placement is one concrete arrangement of a run: slots[i] sits at ordering
// value start+i.
type placement struct {
	start int
	slots []Card
	score int
}

func (p placement) end() int { return p.start + len(p.slots) - 1 }

// bestPlacement finds the highest-scoring arrangement of naturals and wilds
// as a contiguous run. All naturals must share a suit; that is checked by
// the caller. A single ace is tried low first, then high; a pair of aces
// takes both ends.
//
// Ties keep the first arrangement found, scanning ace-low before ace-high
// and lower start values before higher ones.
func bestPlacement(naturals, wilds []Card, suit Suit) (placement, bool) {
	var best placement
	found := false
	for _, pinned := range aceInterpretations(naturals) {
		p, ok := placeRun(pinned, wilds, suit)
		if !ok {
			continue
		}
		if !found || p.score > best.score {
			best = p
			found = true
		}
	}
	return best, found
}

// aceInterpretations pins every natural card to an ordering value, producing
// one candidate per legal reading of the aces.
func aceInterpretations(naturals []Card) [][]placedCard {
	var aces, others []Card
	for _, c := range naturals {
		if c.Rank == RankAce {
			aces = append(aces, c)
		} else {
			others = append(others, c)
		}
	}
	base := make([]placedCard, 0, len(naturals))
	for _, c := range others {
		base = append(base, placedCard{card: c, value: c.Value()})
	}
	with := func(extra ...placedCard) []placedCard {
		out := make([]placedCard, len(base), len(base)+len(extra))
		copy(out, base)
		return append(out, extra...)
	}

	switch len(aces) {
	case 0:
		return [][]placedCard{with()}
	case 1:
		return [][]placedCard{
			with(placedCard{card: aces[0], value: LowAceValue}),
			with(placedCard{card: aces[0], value: HighAceValue}),
		}
	case 2:
		return [][]placedCard{with(
			placedCard{card: aces[0], value: LowAceValue},
			placedCard{card: aces[1], value: HighAceValue},
		)}
	default:
		return nil
	}
}

// placeRun scans candidate start values from min-len(wilds) to min and
// keeps the best-scoring feasible arrangement.
func placeRun(pinned []placedCard, wilds []Card, suit Suit) (placement, bool) {
	if len(pinned) == 0 {
		return placement{}, false
	}
	sort.SliceStable(pinned, func(i, j int) bool { return pinned[i].value < pinned[j].value })
	for i := 1; i < len(pinned); i++ {
		if pinned[i].value == pinned[i-1].value {
			return placement{}, false
		}
	}

	length := len(pinned) + len(wilds)
	minValue := pinned[0].value
	maxValue := pinned[len(pinned)-1].value

	var best placement
	found := false
	for start := minValue - len(wilds); start <= minValue; start++ {
		end := start + length - 1
		if start < LowAceValue || end > HighAceValue || maxValue > end {
			continue
		}
		p, ok := arrange(pinned, wilds, suit, start, length)
		if !ok {
			continue
		}
		if !found || p.score > best.score {
			best = p
			found = true
		}
	}
	return best, found
}

// arrange fills a run of the given start and length. Naturals sit at their
// pinned values; a two of the run's suit takes the value-2 slot when it is
// free, and the remaining wildcards fill the gaps in input order.
func arrange(pinned []placedCard, wilds []Card, suit Suit, start, length int) (placement, bool) {
	slots := make([]Card, length)
	filled := make([]bool, length)
	p := placement{start: start, slots: slots}

	prev := -1
	for _, pc := range pinned {
		i := pc.value - start
		if i < 0 || i >= length || filled[i] {
			return placement{}, false
		}
		slots[i] = pc.card
		filled[i] = true
		if i > prev {
			p.score += scoreOrderedCard
		}
		prev = i
	}

	pending := make([]Card, 0, len(wilds))
	naturalTwoSlot := int(RankTwo) - start
	for _, w := range wilds {
		if w.Rank == RankTwo && w.Suit == suit && naturalTwoSlot >= 0 && naturalTwoSlot < length && !filled[naturalTwoSlot] {
			slots[naturalTwoSlot] = w
			filled[naturalTwoSlot] = true
			naturalTwoSlot = -1
			continue
		}
		pending = append(pending, w)
	}
	for i := range slots {
		if filled[i] {
			continue
		}
		if len(pending) == 0 {
			return placement{}, false
		}
		slots[i] = pending[0]
		pending = pending[1:]
		filled[i] = true
	}
	if len(pending) > 0 {
		return placement{}, false
	}

	for i, c := range slots {
		if !c.IsWild() || isNaturalTwo(c, suit, start+i) {
			continue
		}
		switch {
		case i == 0:
			p.score += scoreLeadingWild
		case i < length-1:
			p.score += scoreInteriorWild
		}
	}
	return p, true
}

// isNaturalTwo reports whether a two sits in its own slot of its own suit,
// where it counts as a natural card.
func isNaturalTwo(c Card, suit Suit, value int) bool {
	return c.Rank == RankTwo && c.Suit == suit && value == int(RankTwo)
}
