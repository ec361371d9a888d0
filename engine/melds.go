package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// handCards resolves ids against the hand of the player at seat. Every id
// must be present and distinct; used collects ids across calls.
func (g *GameState) handCards(seat int, ids []uuid.UUID, used map[uuid.UUID]struct{}) ([]Card, error) {
	hand := g.Players[seat].Hand
	cards := make([]Card, 0, len(ids))
	for _, id := range ids {
		if _, dup := used[id]; dup {
			return nil, fmt.Errorf("%w: card %s used twice", ErrInvalidSequence, id)
		}
		i := indexOfCard(hand, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrCardNotInHand, id)
		}
		used[id] = struct{}{}
		cards = append(cards, hand[i])
	}
	return cards, nil
}

// removeFromHand drops the cards with the given ids from the player's hand.
func (g *GameState) removeFromHand(seat int, ids map[uuid.UUID]struct{}) {
	p := &g.Players[seat]
	kept := p.Hand[:0]
	for _, c := range p.Hand {
		if _, gone := ids[c.ID]; !gone {
			kept = append(kept, c)
		}
	}
	p.Hand = kept
}

// findSequence locates a meld of team by id.
func (g *GameState) findSequence(t Team, id uuid.UUID) (int, error) {
	for i, s := range g.Sequences[t.index()] {
		if s.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrSequenceNotFound, id)
}

// playMelds lays down new melds. A team past the late-entry threshold with
// nothing on the table must open with enough points.
func (e *Engine) playMelds(seat int, a PlayMelds) error {
	g := &e.state
	if err := g.requireDrawn(seat); err != nil {
		return err
	}
	if len(a.Melds) == 0 {
		return fmt.Errorf("%w: no melds given", ErrInvalidSequence)
	}
	team := g.Players[seat].Team

	used := make(map[uuid.UUID]struct{})
	seqs := make([]Sequence, 0, len(a.Melds))
	total := 0
	for n, ids := range a.Melds {
		cards, err := g.handCards(seat, ids, used)
		if err != nil {
			return err
		}
		if err := CheckWildcardBudget(cards); err != nil {
			return fmt.Errorf("meld %d: %w", n+1, err)
		}
		s, err := CreateSequence(cards, uuid.Nil)
		if err != nil {
			return fmt.Errorf("meld %d: %w", n+1, err)
		}
		seqs = append(seqs, s)
		total += s.Points
	}

	ti := team.index()
	if g.MatchScores[ti] >= g.Rules.LateEntryThreshold && len(g.Sequences[ti]) == 0 && total < g.Rules.LateEntryMinPoints {
		return fmt.Errorf("%w: need %d points, melds are worth %d", ErrMinimumPoints, g.Rules.LateEntryMinPoints, total)
	}
	if err := g.checkDeadlock(seat, len(used), 0); err != nil {
		return err
	}

	g.removeFromHand(seat, used)
	g.Sequences[ti] = append(g.Sequences[ti], seqs...)
	g.recomputeRoundScores()
	e.log.WithFields(logrus.Fields{"team": team, "melds": len(seqs), "points": total}).Debug("melds played")
	return nil
}

// addToMeld extends a team meld with hand cards.
func (e *Engine) addToMeld(seat int, a AddToMeld) error {
	g := &e.state
	if err := g.requireDrawn(seat); err != nil {
		return err
	}
	team := g.Players[seat].Team
	idx, err := g.findSequence(team, a.SequenceID)
	if err != nil {
		return err
	}
	used := make(map[uuid.UUID]struct{})
	cards, err := g.handCards(seat, a.CardIDs, used)
	if err != nil {
		return err
	}
	seq := g.Sequences[team.index()][idx]
	if err := CheckWildcardBudget(append(append([]Card(nil), seq.Cards...), cards...)); err != nil {
		return err
	}
	next, err := AddCards(seq, cards...)
	if err != nil {
		return err
	}
	if err := g.checkDeadlock(seat, len(cards), 0); err != nil {
		return err
	}

	g.removeFromHand(seat, used)
	g.Sequences[team.index()][idx] = next
	g.recomputeRoundScores()
	return nil
}

// replaceWildcard swaps a natural hand card into a team meld in place of a
// wildcard, which goes back to the hand.
func (e *Engine) replaceWildcard(seat int, a ReplaceWildcard) error {
	g := &e.state
	if err := g.requireDrawn(seat); err != nil {
		return err
	}
	team := g.Players[seat].Team
	idx, err := g.findSequence(team, a.SequenceID)
	if err != nil {
		return err
	}
	used := make(map[uuid.UUID]struct{})
	cards, err := g.handCards(seat, []uuid.UUID{a.CardID}, used)
	if err != nil {
		return err
	}
	next, wild, err := SwapWildcard(g.Sequences[team.index()][idx], cards[0])
	if err != nil {
		return err
	}
	if err := g.checkDeadlock(seat, 1, 1); err != nil {
		return err
	}

	g.removeFromHand(seat, used)
	g.Players[seat].Hand = append(g.Players[seat].Hand, wild)
	g.Sequences[team.index()][idx] = next
	g.recomputeRoundScores()
	return nil
}
