package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// goOut handles "bater". A team that qualifies to finish ends the round.
// Otherwise a team that has not claimed a reserve pile claims one; when two
// are available and none was chosen, the choices come back in aux and
// nothing changes.
func (e *Engine) goOut(seat int, a GoOut, aux *Auxiliary) (string, error) {
	g := &e.state
	p := &g.Players[seat]
	if len(p.Hand) != 0 {
		return "", fmt.Errorf("%w: %d card(s) left", ErrHandNotEmpty, len(p.Hand))
	}
	if !g.Turn.HasDrawn {
		return "", ErrMustDrawFirst
	}
	team := p.Team

	if g.TeamCanFinish(team) {
		e.finishRound(team, aux)
		return "went out", nil
	}
	if g.TeamTookMorto(team) {
		return "", fmt.Errorf("%w: reserve pile already taken and no clean canasta", ErrCannotGoOut)
	}

	avail := g.AvailableMortos()
	if len(avail) == 0 {
		return "", fmt.Errorf("%w: no reserve pile left and no clean canasta", ErrCannotGoOut)
	}
	var pile int
	switch {
	case a.Pile == 0 && len(avail) > 1:
		for _, i := range avail {
			aux.MortoChoices = append(aux.MortoChoices, i+1)
		}
		return "choose a reserve pile", nil
	case a.Pile == 0:
		pile = avail[0]
	default:
		pile = a.Pile - 1
		if !g.MortoAvailable(pile) {
			return "", fmt.Errorf("%w: pile %d", ErrInvalidMorto, a.Pile)
		}
	}

	p.Hand = g.Mortos[pile]
	g.Mortos[pile] = nil
	g.MortoTaken[pile] = true
	g.MortoTakenBy[pile] = team
	g.Turn.TookMorto = true
	aux.MortoTaken = pile + 1
	e.log.WithFields(logrus.Fields{"team": team, "pile": pile + 1}).Info("reserve pile taken")

	if g.Turn.EmptiedByDiscard {
		e.finishTurn(aux)
	}
	return "took reserve pile", nil
}
