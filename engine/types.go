package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Suit identifies the suit of a card. Jokers carry the SuitJoker pseudo-suit.
type Suit uint8

const (
	SuitHearts Suit = iota
	SuitDiamonds
	SuitClubs
	SuitSpades
	SuitJoker
)

// NaturalSuits lists the four real suits in deck-building order.
var NaturalSuits = [4]Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

func (s Suit) String() string {
	switch s {
	case SuitHearts:
		return "H"
	case SuitDiamonds:
		return "D"
	case SuitClubs:
		return "C"
	case SuitSpades:
		return "S"
	case SuitJoker:
		return "*"
	default:
		return "?"
	}
}

// Rank is a card rank. Natural ranks equal their low ordering value
// (Ace = 1 ... King = 13); the joker rank is 0.
type Rank uint8

const (
	RankJoker Rank = 0
	RankAce   Rank = 1
	RankTwo   Rank = 2
	RankThree Rank = 3
	RankFour  Rank = 4
	RankFive  Rank = 5
	RankSix   Rank = 6
	RankSeven Rank = 7
	RankEight Rank = 8
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
)

// Ordering values at the two ends of a run. The ace is dual-valued.
const (
	LowAceValue  = 1
	HighAceValue = 14
)

func (r Rank) String() string {
	switch r {
	case RankJoker:
		return "JK"
	case RankAce:
		return "A"
	case RankTen:
		return "T"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	}
	if r >= RankTwo && r <= RankNine {
		return string(rune('0' + r))
	}
	return "?"
}

// Card is one physical card. ID distinguishes the two copies of every
// natural card and the four jokers.
type Card struct {
	ID   uuid.UUID `json:"id"`
	Suit Suit      `json:"suit"`
	Rank Rank      `json:"rank"`
}

// NewCard constructs a card with a fresh identity.
func NewCard(suit Suit, rank Rank) Card {
	return Card{ID: uuid.New(), Suit: suit, Rank: rank}
}

// NewJoker constructs a joker with a fresh identity.
func NewJoker() Card {
	return NewCard(SuitJoker, RankJoker)
}

// Value returns the ordering value used for run adjacency.
// Aces report the low value; callers that place an ace at the high end use
// HighAceValue explicitly. Jokers have no ordering value (0).
func (c Card) Value() int { return int(c.Rank) }

// IsWild reports whether the card may stand in for another card in a meld:
// every two and every joker.
func (c Card) IsWild() bool {
	return c.Rank == RankTwo || c.Rank == RankJoker
}

// Points returns the scoring value of the card.
//   - Joker → 20
//   - Ace → 15
//   - Two → 10
//   - Three–Seven → 5
//   - Eight–King → 10
func (c Card) Points() int {
	switch {
	case c.Rank == RankJoker:
		return 20
	case c.Rank == RankAce:
		return 15
	case c.Rank == RankTwo:
		return 10
	case c.Rank <= RankSeven:
		return 5
	default:
		return 10
	}
}

func (c Card) String() string {
	if c.Rank == RankJoker {
		return "JK"
	}
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// handPoints sums the scoring value of cards.
func handPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

// indexOfCard returns the position of the card with the given id, or -1.
func indexOfCard(cards []Card, id uuid.UUID) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}
