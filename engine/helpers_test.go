package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

// c builds a natural card.
func c(s Suit, r Rank) Card { return NewCard(s, r) }

// jk builds a joker.
func jk() Card { return NewJoker() }

// run builds same-suit naturals for the given ranks.
func run(s Suit, ranks ...Rank) []Card {
	out := make([]Card, len(ranks))
	for i, r := range ranks {
		out[i] = NewCard(s, r)
	}
	return out
}

// filler returns n natural cards of low value, used to pad piles.
func filler(n int) []Card {
	out := make([]Card, n)
	for i := range out {
		out[i] = NewCard(NaturalSuits[i%4], RankFour+Rank(i%3))
	}
	return out
}

// ids returns the identities of cards.
func ids(cards ...Card) []uuid.UUID {
	out := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

// fixtureState builds a playing-phase state with one hand per player, a
// padded stock and two full reserve piles. Seats alternate teams.
func fixtureState(hands ...[]Card) GameState {
	players := make([]Player, len(hands))
	for i, h := range hands {
		players[i] = Player{
			ID:        fmt.Sprintf("p%d", i+1),
			Name:      fmt.Sprintf("Player %d", i+1),
			Team:      Team(i%2 + 1),
			Hand:      h,
			Connected: true,
		}
	}
	return GameState{
		ID:      uuid.New(),
		Players: players,
		Stock:   filler(20),
		Mortos:  [NumMortos][]Card{filler(11), filler(11)},
		Round:   1,
		Phase:   PhasePlaying,
		Rules:   DefaultRules(),
	}
}

// newFixtureEngine wraps a hand-built state.
func newFixtureEngine(t *testing.T, st GameState) *Engine {
	t.Helper()
	e, err := NewFromState(st, WithSeed(7))
	if err != nil {
		t.Fatalf("NewFromState: %v", err)
	}
	return e
}

// newDealtEngine starts a real match with n players.
func newDealtEngine(t *testing.T, n int, seed uint64) *Engine {
	t.Helper()
	players := make([]Player, n)
	for i := range players {
		players[i] = Player{ID: fmt.Sprintf("p%d", i+1), Name: fmt.Sprintf("Player %d", i+1)}
	}
	e, err := New(players, WithSeed(seed))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func mustOK(t *testing.T, res ActionResult) ActionResult {
	t.Helper()
	if !res.Success {
		t.Fatalf("expected success, got failure: %s", res.Message)
	}
	if res.State == nil {
		t.Fatal("successful result carries no state")
	}
	return res
}

func mustFail(t *testing.T, res ActionResult, want error) {
	t.Helper()
	if res.Success {
		t.Fatalf("expected failure %v, got success", want)
	}
	if res.State != nil {
		t.Error("failed result should carry no state")
	}
	if res.Message == "" {
		t.Error("failed result should carry a message")
	}
	if want != nil && !errors.Is(res.Err, want) {
		t.Fatalf("expected error %v, got %v", want, res.Err)
	}
}

// drawn marks the turn as having drawn from the stock.
func drawn(st *GameState) {
	st.Turn.HasDrawn = true
}

func checkConservation(t *testing.T, st GameState) {
	t.Helper()
	if n := st.CardCount(); n != DeckSize {
		t.Fatalf("card conservation broken: %d cards, want %d", n, DeckSize)
	}
}
