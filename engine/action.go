package engine

import "github.com/google/uuid"

// ActionKind names an action variant.
type ActionKind string

const (
	KindDraw            ActionKind = "draw"
	KindPlayMelds       ActionKind = "baixar"
	KindDiscard         ActionKind = "discard"
	KindGoOut           ActionKind = "bater"
	KindAddToMeld       ActionKind = "add-to-meld"
	KindReplaceWildcard ActionKind = "replace-wildcard"
	KindEndTurn         ActionKind = "end-turn"
)

// Action is one player command. The set of variants is closed; see the
// types below.
type Action interface {
	Actor() string
	Kind() ActionKind
	isAction()
}

// DrawSource selects where a draw takes cards from.
type DrawSource uint8

const (
	FromStock DrawSource = iota
	FromDiscard
)

// Draw takes one card from the stock, or the discard pile minus the cards
// listed in Leave.
type Draw struct {
	PlayerID string
	Source   DrawSource
	Leave    []uuid.UUID
}

// PlayMelds lays down one or more new melds from the hand.
type PlayMelds struct {
	PlayerID string
	Melds    [][]uuid.UUID
}

// Discard puts one hand card on the discard pile.
type Discard struct {
	PlayerID string
	CardID   uuid.UUID
}

// GoOut empties the hand for good ("bater"). Pile chooses the reserve pile
// (1 or 2) when the team still has one to claim; 0 lets the engine pick
// when only one is available.
type GoOut struct {
	PlayerID string
	Pile     int
}

// AddToMeld extends one of the team's melds with hand cards.
type AddToMeld struct {
	PlayerID   string
	SequenceID uuid.UUID
	CardIDs    []uuid.UUID
}

// ReplaceWildcard swaps a natural hand card for a wildcard in a team meld;
// the wildcard returns to the hand.
type ReplaceWildcard struct {
	PlayerID   string
	SequenceID uuid.UUID
	CardID     uuid.UUID
}

// EndTurn passes the turn.
type EndTurn struct {
	PlayerID string
}

func (a Draw) Actor() string            { return a.PlayerID }
func (a PlayMelds) Actor() string       { return a.PlayerID }
func (a Discard) Actor() string         { return a.PlayerID }
func (a GoOut) Actor() string           { return a.PlayerID }
func (a AddToMeld) Actor() string       { return a.PlayerID }
func (a ReplaceWildcard) Actor() string { return a.PlayerID }
func (a EndTurn) Actor() string         { return a.PlayerID }

func (Draw) Kind() ActionKind            { return KindDraw }
func (PlayMelds) Kind() ActionKind       { return KindPlayMelds }
func (Discard) Kind() ActionKind         { return KindDiscard }
func (GoOut) Kind() ActionKind           { return KindGoOut }
func (AddToMeld) Kind() ActionKind       { return KindAddToMeld }
func (ReplaceWildcard) Kind() ActionKind { return KindReplaceWildcard }
func (EndTurn) Kind() ActionKind         { return KindEndTurn }

func (Draw) isAction()            {}
func (PlayMelds) isAction()       {}
func (Discard) isAction()         {}
func (GoOut) isAction()           {}
func (AddToMeld) isAction()       {}
func (ReplaceWildcard) isAction() {}
func (EndTurn) isAction()         {}

// Auxiliary carries side information about a successful action.
type Auxiliary struct {
	Pique        bool         `json:"pique,omitempty"`        // actor holds a single card after discarding
	MortoChoices []int        `json:"mortoChoices,omitempty"` // piles to choose from; nothing changed
	MortoTaken   int          `json:"mortoTaken,omitempty"`   // pile (1 or 2) claimed by this action
	TurnEnded    bool         `json:"turnEnded,omitempty"`
	Round        *RoundResult `json:"round,omitempty"` // set when a round finished
}

// ActionResult is the outcome of ProcessAction. On failure State is nil and
// the engine state is unchanged.
type ActionResult struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message,omitempty"`
	Err       error      `json:"-"`
	State     *GameState `json:"state,omitempty"`
	GameEnded bool       `json:"gameEnded"`
	Aux       *Auxiliary `json:"aux,omitempty"`
}
