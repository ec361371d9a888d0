package engine

import (
	"fmt"
	"math/rand/v2"
)

const (
	// DeckSize is the size of the full card pool: two 52-card decks plus jokers.
	DeckSize  = 2*52 + NumJokers
	NumJokers = 4
	NumMortos = 2

	MinPlayers = 2
	MaxPlayers = 4
)

// Dealt is the partition of a shuffled deck at the start of a round.
type Dealt struct {
	Hands  [][]Card
	Stock  []Card
	Mortos [NumMortos][]Card
}

// NewDeck builds the 108-card pool in a fixed order. Each natural card
// appears twice (one per deck); aces exist only once per suit per deck and
// take their high value from position, not from a separate card.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for d := 0; d < 2; d++ {
		for _, suit := range NaturalSuits {
			for rank := RankAce; rank <= RankKing; rank++ {
				deck = append(deck, NewCard(suit, rank))
			}
		}
	}
	for j := 0; j < NumJokers; j++ {
		deck = append(deck, NewJoker())
	}
	return deck
}

// Shuffle returns a Fisher-Yates shuffled copy of deck.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deal distributes handSize cards to each player one at a time in turn
// order, then mortoSize cards to each reserve pile. The remainder becomes
// the draw stock; its last element is the top card.
func Deal(deck []Card, playerCount, handSize, mortoSize int) (Dealt, error) {
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return Dealt{}, fmt.Errorf("deal: player count %d outside %d-%d", playerCount, MinPlayers, MaxPlayers)
	}
	need := playerCount*handSize + NumMortos*mortoSize
	if handSize <= 0 || mortoSize <= 0 || need > len(deck) {
		return Dealt{}, fmt.Errorf("deal: cannot deal %d cards from a deck of %d", need, len(deck))
	}

	rest := make([]Card, len(deck))
	copy(rest, deck)
	pop := func() Card {
		c := rest[len(rest)-1]
		rest = rest[:len(rest)-1]
		return c
	}

	var d Dealt
	d.Hands = make([][]Card, playerCount)
	for p := range d.Hands {
		d.Hands[p] = make([]Card, 0, handSize)
	}
	for c := 0; c < handSize; c++ {
		for p := 0; p < playerCount; p++ {
			d.Hands[p] = append(d.Hands[p], pop())
		}
	}
	for m := 0; m < NumMortos; m++ {
		d.Mortos[m] = make([]Card, 0, mortoSize)
		for c := 0; c < mortoSize; c++ {
			d.Mortos[m] = append(d.Mortos[m], pop())
		}
	}
	d.Stock = rest
	return d, nil
}
