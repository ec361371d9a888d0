package engine

import "fmt"

// MortoAvailable reports whether reserve pile i can still be claimed.
func (g *GameState) MortoAvailable(i int) bool {
	return i >= 0 && i < NumMortos && !g.MortoTaken[i] && len(g.Mortos[i]) > 0
}

// AvailableMortos returns the indices of the reserve piles still on the table.
func (g *GameState) AvailableMortos() []int {
	var out []int
	for i := 0; i < NumMortos; i++ {
		if g.MortoAvailable(i) {
			out = append(out, i)
		}
	}
	return out
}

// TeamTookMorto reports whether team has claimed a reserve pile this round.
func (g *GameState) TeamTookMorto(t Team) bool {
	for _, by := range g.MortoTakenBy {
		if by == t {
			return true
		}
	}
	return false
}

// HasCleanCanasta reports whether team holds a clean or ace-to-ace canasta.
func (g *GameState) HasCleanCanasta(t Team) bool {
	for _, s := range g.TeamSequences(t) {
		if s.IsCanasta && s.Tier.IsClean() {
			return true
		}
	}
	return false
}

// TeamCanFinish reports whether going out would end the round for team:
// it holds a clean canasta and either took a reserve pile or none is left.
func (g *GameState) TeamCanFinish(t Team) bool {
	if !g.HasCleanCanasta(t) {
		return false
	}
	return g.TeamTookMorto(t) || len(g.AvailableMortos()) == 0
}

// TeamCanGoOut reports whether a player of team could legally go out now
// with an empty hand, either by claiming a reserve pile or by finishing.
func (g *GameState) TeamCanGoOut(t Team) bool {
	if !g.TeamTookMorto(t) && len(g.AvailableMortos()) > 0 {
		return true
	}
	return g.HasCleanCanasta(t)
}

// CanDraw reports whether the player at seat has any legal card source.
func (g *GameState) CanDraw(seat int) bool {
	if len(g.Stock) > 0 || len(g.AvailableMortos()) > 0 {
		return true
	}
	return len(g.Discard) > 0 && len(g.Players[seat].Hand) != 1
}

// requireDrawn fails when the player still owes a draw this turn.
func (g *GameState) requireDrawn(seat int) error {
	if !g.Turn.HasDrawn && g.CanDraw(seat) {
		return ErrMustDrawFirst
	}
	return nil
}

// checkDeadlock rejects a move that takes leaving cards from the hand of the
// player at seat (returning some) when the team could not go out with what
// is left. A pending discard counts as a card still leaving the hand.
func (g *GameState) checkDeadlock(seat, leaving, returning int) error {
	if leaving <= returning {
		return nil
	}
	p := g.Players[seat]
	remaining := len(p.Hand) - leaving + returning
	owed := 0
	if !g.Turn.HasDiscarded {
		owed = 1
	}
	if remaining > owed || g.TeamCanGoOut(p.Team) {
		return nil
	}
	return fmt.Errorf("%w: %d card(s) would remain and the team has no reserve pile or clean canasta", ErrDeadlock, remaining)
}

// stockExhausted reports whether no more cards can reach the stock.
func (g *GameState) stockExhausted() bool {
	return len(g.Stock) == 0 && len(g.AvailableMortos()) == 0
}
