package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestDrawEmptyDiscardThenStock(t *testing.T) {
	st := fixtureState(filler(11), filler(11))
	e := newFixtureEngine(t, st)

	mustFail(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromDiscard}), ErrDiscardEmpty)

	res := mustOK(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromStock}))
	if got := len(res.State.Players[0].Hand); got != 12 {
		t.Errorf("hand = %d, want 12", got)
	}
	if got := len(res.State.Stock); got != 19 {
		t.Errorf("stock = %d, want 19", got)
	}
	if !res.State.Turn.HasDrawn {
		t.Error("turn should record the draw")
	}
	top := st.Stock[len(st.Stock)-1]
	if res.State.Players[0].Hand[11].ID != top.ID {
		t.Error("stock draw should take the top card")
	}

	mustFail(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromStock}), ErrAlreadyDrawn)
}

func TestTurnAndPlayerChecks(t *testing.T) {
	e := newFixtureEngine(t, fixtureState(filler(11), filler(11)))

	mustFail(t, e.ProcessAction(Draw{PlayerID: "p2", Source: FromStock}), ErrNotYourTurn)
	mustFail(t, e.ProcessAction(Draw{PlayerID: "nobody", Source: FromStock}), ErrPlayerNotFound)
	mustFail(t, e.ProcessAction(nil), ErrUnknownAction)
}

func TestDrawFromDiscardWithLeave(t *testing.T) {
	st := fixtureState(filler(5), filler(5))
	a, b, d := c(SuitHearts, RankNine), c(SuitClubs, RankKing), c(SuitSpades, RankTen)
	st.Discard = []Card{a, b, d}
	e := newFixtureEngine(t, st)

	mustFail(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromDiscard, Leave: ids(a, b, d)}), ErrInvalidDraw)
	mustFail(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromDiscard, Leave: []uuid.UUID{uuid.New()}}), ErrInvalidDraw)

	res := mustOK(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromDiscard, Leave: ids(a)}))
	if got := len(res.State.Players[0].Hand); got != 7 {
		t.Errorf("hand = %d, want 7", got)
	}
	if len(res.State.Discard) != 1 || res.State.Discard[0].ID != a.ID {
		t.Errorf("discard should keep only the left card, got %v", res.State.Discard)
	}
	if !res.State.Turn.DrewFromDiscard {
		t.Error("turn should record a discard-pile draw")
	}
}

func TestPiqueBlocksDiscardPileDraw(t *testing.T) {
	st := fixtureState([]Card{c(SuitHearts, RankFive)}, filler(5))
	st.Discard = []Card{c(SuitClubs, RankKing)}
	e := newFixtureEngine(t, st)

	mustFail(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromDiscard}), ErrPique)
	mustOK(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromStock}))
}

func TestDrawRefillsStockFromReserve(t *testing.T) {
	st := fixtureState(filler(5), filler(5))
	st.Stock = nil
	e := newFixtureEngine(t, st)

	res := mustOK(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromStock}))
	if !res.State.MortoTaken[0] || res.State.MortoTakenBy[0] != TeamNone {
		t.Errorf("first reserve pile should be consumed by no team, got taken=%v by=%v",
			res.State.MortoTaken, res.State.MortoTakenBy)
	}
	if got := len(res.State.Stock); got != 10 {
		t.Errorf("stock = %d, want 10", got)
	}
	if res.State.TeamTookMorto(TeamOne) || res.State.TeamTookMorto(TeamTwo) {
		t.Error("refilling the stock does not count as a team taking a pile")
	}
}

func TestDrawNoCards(t *testing.T) {
	st := fixtureState(filler(5), filler(5))
	st.Stock = nil
	st.Mortos = [NumMortos][]Card{}
	st.MortoTaken = [NumMortos]bool{true, true}
	e := newFixtureEngine(t, st)

	mustFail(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromStock}), ErrNoCardsToDraw)
}

func TestDiscardRules(t *testing.T) {
	hand := filler(5)
	st := fixtureState(hand, filler(5))
	e := newFixtureEngine(t, st)

	mustFail(t, e.ProcessAction(Discard{PlayerID: "p1", CardID: hand[0].ID}), ErrMustDrawFirst)
	mustOK(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromStock}))
	mustFail(t, e.ProcessAction(Discard{PlayerID: "p1", CardID: uuid.New()}), ErrCardNotInHand)

	res := mustOK(t, e.ProcessAction(Discard{PlayerID: "p1", CardID: hand[0].ID}))
	if got := len(res.State.Players[0].Hand); got != 5 {
		t.Errorf("hand = %d, want 5", got)
	}
	if top := res.State.Discard[len(res.State.Discard)-1]; top.ID != hand[0].ID {
		t.Error("discarded card should be on top of the pile")
	}
	if !res.State.Turn.DiscardedNotDrawn {
		t.Error("card was in hand before the draw")
	}
	if res.Aux.TurnEnded {
		t.Error("a discard alone does not end the turn")
	}

	mustFail(t, e.ProcessAction(Discard{PlayerID: "p1", CardID: hand[1].ID}), ErrAlreadyDiscarded)
}

func TestDiscardDrawnFromDiscardPile(t *testing.T) {
	st := fixtureState(filler(5), filler(5))
	top := c(SuitClubs, RankKing)
	st.Discard = []Card{top}
	e := newFixtureEngine(t, st)

	mustOK(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromDiscard}))
	mustFail(t, e.ProcessAction(Discard{PlayerID: "p1", CardID: top.ID}), ErrDiscardDrawnCard)
}

func TestDiscardSignalsPique(t *testing.T) {
	hand := []Card{c(SuitHearts, RankFive)}
	e := newFixtureEngine(t, fixtureState(hand, filler(5)))

	mustOK(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromStock}))
	res := mustOK(t, e.ProcessAction(Discard{PlayerID: "p1", CardID: hand[0].ID}))
	if !res.Aux.Pique {
		t.Error("one card left should be flagged as pique")
	}
}

func TestDiscardLastCardDeadlock(t *testing.T) {
	hand := []Card{c(SuitHearts, RankFive)}
	st := fixtureState(hand, filler(5))
	st.Mortos[0] = nil
	st.MortoTaken[0] = true
	st.MortoTakenBy[0] = TeamOne
	st.Mortos[1] = nil
	st.MortoTaken[1] = true
	st.MortoTakenBy[1] = TeamTwo
	drawn(&st)
	e := newFixtureEngine(t, st)

	mustFail(t, e.ProcessAction(Discard{PlayerID: "p1", CardID: hand[0].ID}), ErrDeadlock)
}

func TestEndTurn(t *testing.T) {
	hand := filler(5)
	e := newFixtureEngine(t, fixtureState(hand, filler(5)))

	mustFail(t, e.ProcessAction(EndTurn{PlayerID: "p1"}), ErrMustDrawFirst)
	mustOK(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromStock}))
	mustFail(t, e.ProcessAction(EndTurn{PlayerID: "p1"}), ErrMustDiscard)
	mustOK(t, e.ProcessAction(Discard{PlayerID: "p1", CardID: hand[2].ID}))

	res := mustOK(t, e.ProcessAction(EndTurn{PlayerID: "p1"}))
	if res.State.CurrentTurn != 1 {
		t.Errorf("current turn = %d, want 1", res.State.CurrentTurn)
	}
	if !res.Aux.TurnEnded {
		t.Error("aux should report the turn change")
	}
	if res.State.Turn.HasDrawn || res.State.Turn.HasDiscarded {
		t.Error("turn flags should reset")
	}
	mustFail(t, e.ProcessAction(Draw{PlayerID: "p1", Source: FromStock}), ErrNotYourTurn)
	mustOK(t, e.ProcessAction(Draw{PlayerID: "p2", Source: FromStock}))
}

func TestEndTurnWithEmptyHand(t *testing.T) {
	st := fixtureState(nil, filler(5))
	drawn(&st)
	st.Turn.HasDiscarded = true
	e := newFixtureEngine(t, st)

	mustFail(t, e.ProcessAction(EndTurn{PlayerID: "p1"}), ErrMustGoOut)
}

func TestFailedActionLeavesStateUntouched(t *testing.T) {
	e := newDealtEngine(t, 4, 11)
	before := e.State()
	p := e.CurrentPlayer()

	res := e.ProcessAction(PlayMelds{PlayerID: p.ID, Melds: [][]uuid.UUID{ids(p.Hand[:3]...)}})
	if res.Success {
		t.Fatal("melding before drawing should fail")
	}
	after := e.State()
	if after.CardCount() != before.CardCount() || len(after.Players[0].Hand) != len(before.Players[0].Hand) {
		t.Error("failed action changed the state")
	}
	if after.Turn.HasDrawn {
		t.Error("failed action changed turn flags")
	}
	if !errors.Is(res.Err, ErrMustDrawFirst) {
		t.Errorf("got %v, want ErrMustDrawFirst", res.Err)
	}
}
