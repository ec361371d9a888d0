// Package engine implements the rules of Buraco, a rummy game for two
// players or two partnerships, played with two decks and four jokers.
//
// The engine owns the full game state of one match. Callers feed it one
// Action at a time through Engine.ProcessAction and receive a detached
// snapshot of the resulting state. The engine does no I/O and no locking;
// callers serialize access to a single instance.
package engine

import (
	"github.com/google/uuid"
)

// Phase is the coarse lifecycle stage of a match.
type Phase uint8

const (
	PhaseWaiting Phase = iota
	PhasePlaying
	PhaseRoundFinished
	PhaseMatchFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseRoundFinished:
		return "round-finished"
	case PhaseMatchFinished:
		return "match-finished"
	default:
		return "unknown"
	}
}

// Team identifies a partnership. TeamNone marks an unset slot.
type Team uint8

const (
	TeamNone Team = 0
	TeamOne  Team = 1
	TeamTwo  Team = 2
)

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == TeamOne {
		return TeamTwo
	}
	return TeamOne
}

func (t Team) index() int { return int(t) - 1 }

// Player is a seat at the table. Hand is mutated only by the engine.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Team      Team   `json:"team"`
	Hand      []Card `json:"hand"`
	Connected bool   `json:"connected"`
}

// TurnState tracks what the current player has done this turn. It is reset
// whenever the turn passes.
type TurnState struct {
	HasDrawn          bool        `json:"hasDrawn"`
	HasDiscarded      bool        `json:"hasDiscarded"`
	DrawnCardIDs      []uuid.UUID `json:"drawnCardIds"`
	DrewFromDiscard   bool        `json:"drewFromDiscard"`
	DiscardedCardID   uuid.UUID   `json:"discardedCardId"`
	DiscardedNotDrawn bool        `json:"discardedNotDrawn"`
	EmptiedByDiscard  bool        `json:"emptiedByDiscard"`
	TookMorto         bool        `json:"tookMorto"`
}

// ScoreBreakdown itemizes one team's round score.
type ScoreBreakdown struct {
	Melds        int `json:"melds"`
	BaterBonus   int `json:"baterBonus"`
	MortoPenalty int `json:"mortoPenalty"`
	HandPenalty  int `json:"handPenalty"`
	Total        int `json:"total"`
}

// RoundResult is one entry of the round history.
type RoundResult struct {
	Round       int               `json:"round"`
	WentOut     Team              `json:"wentOut"` // TeamNone when the stock ran out
	Breakdown   [2]ScoreBreakdown `json:"breakdown"`
	Scores      [2]int            `json:"scores"`
	MatchScores [2]int            `json:"matchScores"`
}

// GameState is the complete state of one match. Team-indexed arrays hold
// team one at index 0 and team two at index 1.
type GameState struct {
	ID           uuid.UUID         `json:"id"`
	Players      []Player          `json:"players"`
	CurrentTurn  int               `json:"currentTurn"`
	Stock        []Card            `json:"stock"`
	Discard      []Card            `json:"discard"`
	Mortos       [NumMortos][]Card `json:"mortos"`
	MortoTaken   [NumMortos]bool   `json:"mortoTaken"`
	MortoTakenBy [NumMortos]Team   `json:"mortoTakenBy"`
	Sequences    [2][]Sequence     `json:"sequences"`
	RoundScores  [2]int            `json:"roundScores"`
	MatchScores  [2]int            `json:"matchScores"`
	Round        int               `json:"round"`
	RoundHistory []RoundResult     `json:"roundHistory"`
	Phase        Phase             `json:"phase"`
	RoundWinner  Team              `json:"roundWinner"`
	MatchWinner  Team              `json:"matchWinner"`
	Turn         TurnState         `json:"turn"`
	Rules        Rules             `json:"rules"`
}

// Clone returns a deep copy sharing no memory with g.
func (g *GameState) Clone() GameState {
	out := *g
	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		p.Hand = cloneCards(p.Hand)
		out.Players[i] = p
	}
	out.Stock = cloneCards(g.Stock)
	out.Discard = cloneCards(g.Discard)
	for i := range g.Mortos {
		out.Mortos[i] = cloneCards(g.Mortos[i])
	}
	for t := range g.Sequences {
		if g.Sequences[t] == nil {
			continue
		}
		out.Sequences[t] = make([]Sequence, len(g.Sequences[t]))
		for i, s := range g.Sequences[t] {
			out.Sequences[t][i] = s.Clone()
		}
	}
	out.RoundHistory = append([]RoundResult(nil), g.RoundHistory...)
	out.Turn.DrawnCardIDs = append([]uuid.UUID(nil), g.Turn.DrawnCardIDs...)
	return out
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	return append([]Card(nil), cards...)
}

// Snapshot is a detached copy of GameState used to roll back a failed action.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(g.Clone()) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }

// CardCount returns the number of cards in every zone. It equals DeckSize
// between actions.
func (g *GameState) CardCount() int {
	n := len(g.Stock) + len(g.Discard)
	for _, p := range g.Players {
		n += len(p.Hand)
	}
	for _, m := range g.Mortos {
		n += len(m)
	}
	for _, seqs := range g.Sequences {
		for _, s := range seqs {
			n += len(s.Cards)
		}
	}
	return n
}

// PlayerIndex returns the seat of the player with the given id, or -1.
func (g *GameState) PlayerIndex(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() Player { return g.Players[g.CurrentTurn] }

// TeamSequences returns the melds played by team this round.
func (g *GameState) TeamSequences(t Team) []Sequence { return g.Sequences[t.index()] }

// NextPlayer returns the seat after current in turn order.
func (g *GameState) NextPlayer(current int) int {
	return (current + 1) % len(g.Players)
}

// advanceTurn passes the turn to the next seat and clears the turn flags.
func (g *GameState) advanceTurn() {
	g.CurrentTurn = g.NextPlayer(g.CurrentTurn)
	g.Turn = TurnState{}
}

// recomputeRoundScores sets the live round score of each team to the value
// of its melds.
func (g *GameState) recomputeRoundScores() {
	for t, seqs := range g.Sequences {
		total := 0
		for _, s := range seqs {
			total += s.Points
		}
		g.RoundScores[t] = total
	}
}
