package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// draw takes one card from the stock, or all of the discard pile except the
// cards the caller leaves behind. An empty stock is refilled from a reserve
// pile, which is then no longer claimable.
func (e *Engine) draw(seat int, a Draw) error {
	g := &e.state
	if g.Turn.HasDrawn {
		return ErrAlreadyDrawn
	}
	p := &g.Players[seat]

	switch a.Source {
	case FromStock:
		if len(g.Stock) == 0 {
			avail := g.AvailableMortos()
			if len(avail) == 0 {
				return ErrNoCardsToDraw
			}
			i := avail[0]
			g.Stock = g.Mortos[i]
			g.Mortos[i] = nil
			g.MortoTaken[i] = true
			e.log.WithField("pile", i+1).Info("stock refilled from reserve pile")
		}
		top := g.Stock[len(g.Stock)-1]
		g.Stock = g.Stock[:len(g.Stock)-1]
		p.Hand = append(p.Hand, top)
		g.Turn.DrawnCardIDs = append(g.Turn.DrawnCardIDs, top.ID)

	case FromDiscard:
		if len(g.Discard) == 0 {
			return ErrDiscardEmpty
		}
		if len(p.Hand) == 1 {
			return ErrPique
		}
		leave := make(map[uuid.UUID]struct{}, len(a.Leave))
		for _, id := range a.Leave {
			if indexOfCard(g.Discard, id) < 0 {
				return fmt.Errorf("%w: card %s is not in the discard pile", ErrInvalidDraw, id)
			}
			leave[id] = struct{}{}
		}
		if len(leave) >= len(g.Discard) {
			return fmt.Errorf("%w: must take at least one card", ErrInvalidDraw)
		}
		kept := make([]Card, 0, len(leave))
		for _, c := range g.Discard {
			if _, ok := leave[c.ID]; ok {
				kept = append(kept, c)
				continue
			}
			p.Hand = append(p.Hand, c)
			g.Turn.DrawnCardIDs = append(g.Turn.DrawnCardIDs, c.ID)
		}
		g.Discard = kept
		g.Turn.DrewFromDiscard = true

	default:
		return fmt.Errorf("%w: unknown source %d", ErrInvalidDraw, a.Source)
	}

	g.Turn.HasDrawn = true
	return nil
}

// discard moves one hand card to the discard pile. Emptying the hand this way
// obliges the player to go out; after a reserve pile was claimed this turn
// the discard ends the turn.
func (e *Engine) discard(seat int, a Discard, aux *Auxiliary) error {
	g := &e.state
	if err := g.requireDrawn(seat); err != nil {
		return err
	}
	if g.Turn.HasDiscarded {
		return ErrAlreadyDiscarded
	}
	p := &g.Players[seat]
	i := indexOfCard(p.Hand, a.CardID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCardNotInHand, a.CardID)
	}
	drawn := containsID(g.Turn.DrawnCardIDs, a.CardID)
	if drawn && g.Turn.DrewFromDiscard {
		return ErrDiscardDrawnCard
	}
	if len(p.Hand) == 1 && !g.TeamCanGoOut(p.Team) {
		return fmt.Errorf("%w: cannot discard the last card", ErrDeadlock)
	}

	card := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	g.Discard = append(g.Discard, card)
	g.Turn.HasDiscarded = true
	g.Turn.DiscardedCardID = card.ID
	g.Turn.DiscardedNotDrawn = !drawn

	switch len(p.Hand) {
	case 0:
		g.Turn.EmptiedByDiscard = true
		return nil
	case 1:
		aux.Pique = true
	}
	if g.Turn.TookMorto {
		e.finishTurn(aux)
	}
	return nil
}

// endTurn passes the turn once the player has drawn and discarded.
func (e *Engine) endTurn(seat int, aux *Auxiliary) error {
	g := &e.state
	if len(g.Players[seat].Hand) == 0 {
		return ErrMustGoOut
	}
	if err := g.requireDrawn(seat); err != nil {
		return err
	}
	if !g.Turn.HasDiscarded {
		return ErrMustDiscard
	}
	if g.Turn.DrewFromDiscard && containsID(g.Turn.DrawnCardIDs, g.Turn.DiscardedCardID) {
		return ErrDiscardDrawnCard
	}
	e.finishTurn(aux)
	return nil
}

// finishTurn advances to the next player, or closes the round when no card
// can reach the stock any more.
func (e *Engine) finishTurn(aux *Auxiliary) {
	g := &e.state
	aux.TurnEnded = true
	if g.stockExhausted() {
		e.log.WithField("round", g.Round).Info("stock exhausted")
		e.finishRound(TeamNone, aux)
		return
	}
	prev := g.CurrentPlayer().ID
	g.advanceTurn()
	e.log.WithFields(logrus.Fields{"from": prev, "to": g.CurrentPlayer().ID}).Debug("turn passed")
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
