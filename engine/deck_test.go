package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
)

func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), DeckSize)
	}

	counts := make(map[[2]uint8]int)
	seen := make(map[uuid.UUID]bool)
	jokers := 0
	for _, card := range deck {
		if seen[card.ID] {
			t.Fatalf("duplicate card id %s", card.ID)
		}
		seen[card.ID] = true
		if card.Rank == RankJoker {
			jokers++
			continue
		}
		counts[[2]uint8{uint8(card.Suit), uint8(card.Rank)}]++
	}
	if jokers != NumJokers {
		t.Errorf("jokers = %d, want %d", jokers, NumJokers)
	}
	if len(counts) != 52 {
		t.Errorf("distinct naturals = %d, want 52", len(counts))
	}
	for k, n := range counts {
		if n != 2 {
			t.Errorf("card %v appears %d times, want 2", k, n)
		}
	}
}

func TestShufflePreservesCards(t *testing.T) {
	deck := NewDeck()
	rng := rand.New(rand.NewPCG(1, 2))
	shuffled := Shuffle(deck, rng)

	if len(shuffled) != len(deck) {
		t.Fatalf("shuffled size = %d, want %d", len(shuffled), len(deck))
	}
	in := make(map[uuid.UUID]bool, len(deck))
	for _, c := range deck {
		in[c.ID] = true
	}
	moved := 0
	for i, c := range shuffled {
		if !in[c.ID] {
			t.Fatalf("shuffle introduced unknown card %s", c)
		}
		if deck[i].ID != c.ID {
			moved++
		}
	}
	if moved == 0 {
		t.Error("shuffle left the deck in order")
	}
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	deck := NewDeck()
	a := Shuffle(deck, rand.New(rand.NewPCG(9, 9)))
	b := Shuffle(deck, rand.New(rand.NewPCG(9, 9)))
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed produced different orders at %d", i)
		}
	}
}

func TestDealPartitions(t *testing.T) {
	for _, n := range []int{2, 4} {
		d, err := Deal(NewDeck(), n, 11, 11)
		if err != nil {
			t.Fatalf("Deal(%d): %v", n, err)
		}
		if len(d.Hands) != n {
			t.Fatalf("hands = %d, want %d", len(d.Hands), n)
		}
		total := len(d.Stock)
		for _, h := range d.Hands {
			if len(h) != 11 {
				t.Errorf("hand size = %d, want 11", len(h))
			}
			total += len(h)
		}
		for _, m := range d.Mortos {
			if len(m) != 11 {
				t.Errorf("morto size = %d, want 11", len(m))
			}
			total += len(m)
		}
		if total != DeckSize {
			t.Errorf("%d players: dealt %d cards, want %d", n, total, DeckSize)
		}
		if want := DeckSize - 11*n - 22; len(d.Stock) != want {
			t.Errorf("%d players: stock = %d, want %d", n, len(d.Stock), want)
		}
	}
}

func TestDealRoundRobin(t *testing.T) {
	deck := NewDeck()
	d, err := Deal(deck, 2, 11, 11)
	if err != nil {
		t.Fatal(err)
	}
	// The top card (last element) goes to the first player, the next to the second.
	if d.Hands[0][0].ID != deck[len(deck)-1].ID {
		t.Error("first card should go to player one")
	}
	if d.Hands[1][0].ID != deck[len(deck)-2].ID {
		t.Error("second card should go to player two")
	}
}

func TestDealRejectsBadCounts(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		if _, err := Deal(NewDeck(), n, 11, 11); err == nil {
			t.Errorf("Deal with %d players should fail", n)
		}
	}
	if _, err := Deal(NewDeck(), 4, 30, 11); err == nil {
		t.Error("Deal larger than the deck should fail")
	}
}
