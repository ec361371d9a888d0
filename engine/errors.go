package engine

import "errors"

// Rule violations. ProcessAction reports them in ActionResult.Err, usually
// wrapped with detail; match them with errors.Is.
var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrMatchFinished    = errors.New("match is finished")
	ErrUnknownAction    = errors.New("unknown action")
	ErrAlreadyDrawn     = errors.New("already drew this turn")
	ErrNoCardsToDraw    = errors.New("no cards left to draw")
	ErrDiscardEmpty     = errors.New("discard pile is empty")
	ErrPique            = errors.New("cannot take the discard pile holding a single card")
	ErrInvalidDraw      = errors.New("invalid draw")
	ErrMustDrawFirst    = errors.New("must draw before acting")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrInvalidSequence  = errors.New("invalid sequence")
	ErrWildcardBudget   = errors.New("too many wildcards")
	ErrMinimumPoints    = errors.New("melds below the minimum points to enter")
	ErrDeadlock         = errors.New("move would leave the team unable to go out")
	ErrSequenceNotFound = errors.New("sequence not found")
	ErrAlreadyClean     = errors.New("sequence is already clean")
	ErrNotClean         = errors.New("replacement does not make the sequence clean")
	ErrAlreadyDiscarded = errors.New("already discarded this turn")
	ErrDiscardDrawnCard = errors.New("cannot discard a card taken from the discard pile this turn")
	ErrMustDiscard      = errors.New("must discard before ending the turn")
	ErrMustGoOut        = errors.New("hand is empty, must go out")
	ErrHandNotEmpty     = errors.New("hand must be empty to go out")
	ErrCannotGoOut      = errors.New("team cannot go out")
	ErrInvalidMorto     = errors.New("reserve pile not available")
)
