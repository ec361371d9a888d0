package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidate(t *testing.T) {
	h5, h5b := c(SuitHearts, RankFive), c(SuitHearts, RankFive)
	tests := []struct {
		name  string
		cards []Card
		want  SequenceType
		ok    bool
	}{
		{"plain run", run(SuitHearts, RankFive, RankSix, RankSeven), SequenceRun, true},
		{"unordered run", run(SuitHearts, RankSeven, RankFive, RankSix), SequenceRun, true},
		{"joker gap", []Card{c(SuitHearts, RankFive), jk(), c(SuitHearts, RankSeven)}, SequenceRun, true},
		{"two as wildcard", []Card{c(SuitHearts, RankFive), c(SuitSpades, RankTwo), c(SuitHearts, RankSeven)}, SequenceRun, true},
		{"ace high", run(SuitClubs, RankQueen, RankKing, RankAce), SequenceRun, true},
		{"ace low with gap", run(SuitClubs, RankAce, RankThree, RankFour), SequenceRun, false},
		{"natural two", run(SuitClubs, RankAce, RankTwo, RankThree), SequenceRun, true},
		{"aces", []Card{c(SuitHearts, RankAce), c(SuitSpades, RankAce), c(SuitDiamonds, RankAce)}, SequenceAces, true},
		{"aces with joker", []Card{c(SuitHearts, RankAce), c(SuitSpades, RankAce), jk()}, SequenceAces, true},
		{"too short", run(SuitHearts, RankFive, RankSix), 0, false},
		{"mixed suits", []Card{c(SuitHearts, RankFive), c(SuitSpades, RankSix), c(SuitHearts, RankSeven)}, 0, false},
		{"gap too wide", []Card{c(SuitHearts, RankFive), jk(), c(SuitHearts, RankNine)}, 0, false},
		{"wraps around", run(SuitHearts, RankKing, RankAce, RankThree), 0, false},
		{"only wildcards", []Card{jk(), jk(), c(SuitSpades, RankTwo)}, 0, false},
		{"repeated rank", []Card{h5, h5b, c(SuitHearts, RankSix)}, 0, false},
		{"same card twice", []Card{h5, h5, c(SuitHearts, RankSix)}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.cards)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("type = %s, want %s", got, tt.want)
				}
				return
			}
			if !errors.Is(err, ErrInvalidSequence) {
				t.Fatalf("expected ErrInvalidSequence, got %v", err)
			}
		})
	}
}

func TestCreateSequenceInteriorWildcard(t *testing.T) {
	j := jk()
	s, err := CreateSequence([]Card{c(SuitHearts, RankFive), j, c(SuitHearts, RankSeven)}, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.ID == uuid.Nil {
		t.Error("sequence should get an id")
	}
	if s.Start != 5 || s.Cards[1].ID != j.ID {
		t.Errorf("joker should sit at 6, got start %d cards %v", s.Start, s.Cards)
	}
	if s.Wildcards != 1 {
		t.Errorf("wildcards = %d, want 1", s.Wildcards)
	}
	if s.Points != 5+20+5 {
		t.Errorf("points = %d, want 30", s.Points)
	}
}

func TestCreateSequencePrefersLeadingWildcard(t *testing.T) {
	j := jk()
	s, err := CreateSequence([]Card{c(SuitHearts, RankFive), c(SuitHearts, RankSix), j}, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Start != 4 || s.Cards[0].ID != j.ID {
		t.Errorf("joker should lead at 4, got start %d cards %v", s.Start, s.Cards)
	}
}

func TestCreateSequenceAceHigh(t *testing.T) {
	s, err := CreateSequence(run(SuitSpades, RankAce, RankQueen, RankKing), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Start != 12 || s.End() != HighAceValue {
		t.Errorf("expected Q-K-A, got %d..%d", s.Start, s.End())
	}
	if s.Cards[2].Rank != RankAce {
		t.Errorf("ace should close the run, got %v", s.Cards)
	}
}

func TestCreateSequenceNaturalTwo(t *testing.T) {
	s, err := CreateSequence(run(SuitClubs, RankThree, RankTwo, RankAce), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Wildcards != 0 {
		t.Errorf("two in its own slot should be natural, wildcards = %d", s.Wildcards)
	}
	if s.Start != LowAceValue || s.Cards[1].Rank != RankTwo {
		t.Errorf("expected A-2-3, got start %d cards %v", s.Start, s.Cards)
	}
}

func TestCreateSequenceKeepsID(t *testing.T) {
	id := uuid.New()
	s, err := CreateSequence(run(SuitHearts, RankFive, RankSix, RankSeven), id)
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != id {
		t.Errorf("id = %s, want %s", s.ID, id)
	}
}

func TestCanastaTiers(t *testing.T) {
	limpa, err := CreateSequence(run(SuitHearts, RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight, RankNine), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if !limpa.IsCanasta || limpa.Tier != TierLimpa {
		t.Errorf("expected clean canasta, got canasta=%v tier=%s", limpa.IsCanasta, limpa.Tier)
	}
	if limpa.Points != 25+20+BonusLimpa {
		t.Errorf("clean points = %d, want %d", limpa.Points, 45+BonusLimpa)
	}

	dirty := append(run(SuitHearts, RankThree, RankFour, RankFive, RankSeven, RankEight, RankNine), jk())
	suja, err := CreateSequence(dirty, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if suja.Tier != TierSuja || suja.Tier.IsClean() {
		t.Errorf("expected dirty canasta, got %s", suja.Tier)
	}
	if suja.Points != 20+20+20+BonusSuja {
		t.Errorf("dirty points = %d, want %d", suja.Points, 60+BonusSuja)
	}

	full := run(SuitDiamonds, RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
		RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce)
	asAAs, err := CreateSequence(full, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if asAAs.Tier != TierAsAAs || !asAAs.Tier.IsClean() {
		t.Errorf("expected ace-to-ace canasta, got %s", asAAs.Tier)
	}
	if want := 30 + 10 + 25 + 60 + BonusAsAAs; asAAs.Points != want {
		t.Errorf("ace-to-ace points = %d, want %d", asAAs.Points, want)
	}

	short, _ := CreateSequence(run(SuitHearts, RankThree, RankFour, RankFive), uuid.Nil)
	if short.IsCanasta || short.Tier != TierNone {
		t.Error("three cards are not a canasta")
	}
}

func TestCheckWildcardBudget(t *testing.T) {
	tests := []struct {
		name  string
		cards []Card
		ok    bool
	}{
		{"no wildcard", run(SuitHearts, RankFive, RankSix, RankSeven), true},
		{"one joker", []Card{c(SuitHearts, RankFive), jk(), c(SuitHearts, RankSeven)}, true},
		{"two wildcards", []Card{c(SuitHearts, RankFive), jk(), c(SuitSpades, RankTwo), c(SuitHearts, RankEight)}, false},
		{"suited two beside ace and three", []Card{c(SuitHearts, RankAce), c(SuitHearts, RankTwo), c(SuitHearts, RankThree), jk()}, true},
		{"off-suit two beside ace and three", []Card{c(SuitHearts, RankAce), c(SuitSpades, RankTwo), c(SuitHearts, RankThree), jk()}, false},
		{"three wildcards", []Card{c(SuitHearts, RankAce), c(SuitHearts, RankTwo), c(SuitHearts, RankThree), jk(), jk()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckWildcardBudget(tt.cards)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrWildcardBudget) {
				t.Fatalf("expected ErrWildcardBudget, got %v", err)
			}
		})
	}
}

func TestAddCards(t *testing.T) {
	s, err := CreateSequence(run(SuitHearts, RankFive, RankSix, RankSeven), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}

	both, err := AddCards(s, c(SuitHearts, RankFour), c(SuitHearts, RankEight))
	if err != nil {
		t.Fatal(err)
	}
	if both.ID != s.ID {
		t.Error("adding cards must keep the sequence id")
	}
	if len(both.Cards) != 5 || both.Start != 4 {
		t.Errorf("expected 4..8, got start %d len %d", both.Start, len(both.Cards))
	}
	if len(s.Cards) != 3 {
		t.Error("original sequence was modified")
	}

	if CanAddCards(s, c(SuitHearts, RankNine)) {
		t.Error("nine should not fit 5-6-7")
	}
	if CanAddCards(s, c(SuitSpades, RankEight)) {
		t.Error("off-suit card should not fit")
	}
	if _, err := AddCards(s); !errors.Is(err, ErrInvalidSequence) {
		t.Errorf("adding nothing should fail, got %v", err)
	}
}

func TestAddCardsCompletesCanasta(t *testing.T) {
	s, err := CreateSequence(run(SuitSpades, RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	next, err := AddCards(s, c(SuitSpades, RankNine))
	if err != nil {
		t.Fatal(err)
	}
	if !next.IsCanasta || next.Tier != TierLimpa {
		t.Errorf("expected clean canasta, got %s", next.Tier)
	}
}

func TestSwapWildcard(t *testing.T) {
	j := jk()
	s, err := CreateSequence([]Card{c(SuitHearts, RankFive), j, c(SuitHearts, RankSeven)}, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := SwapWildcard(s, c(SuitHearts, RankEight)); !errors.Is(err, ErrNotClean) {
		t.Errorf("eight leaves the joker in play, got %v", err)
	}
	if _, _, err := SwapWildcard(s, jk()); !errors.Is(err, ErrInvalidSequence) {
		t.Errorf("replacing with a wildcard should fail, got %v", err)
	}

	six := c(SuitHearts, RankSix)
	next, wild, err := SwapWildcard(s, six)
	if err != nil {
		t.Fatal(err)
	}
	if wild.ID != j.ID {
		t.Errorf("released %s, want the joker", wild)
	}
	if next.Wildcards != 0 || next.ID != s.ID || next.Cards[1].ID != six.ID {
		t.Errorf("unexpected result %+v", next)
	}

	if _, _, err := SwapWildcard(next, c(SuitHearts, RankFour)); !errors.Is(err, ErrAlreadyClean) {
		t.Errorf("clean sequence should reject, got %v", err)
	}
}

func TestSwapWildcardSkipsNaturalTwo(t *testing.T) {
	j := jk()
	s, err := CreateSequence([]Card{c(SuitClubs, RankAce), c(SuitClubs, RankTwo), c(SuitClubs, RankThree), j}, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Wildcards != 1 {
		t.Fatalf("wildcards = %d, want 1", s.Wildcards)
	}
	next, wild, err := SwapWildcard(s, c(SuitClubs, RankFour))
	if err != nil {
		t.Fatal(err)
	}
	if wild.ID != j.ID {
		t.Errorf("released %s, want the joker", wild)
	}
	if next.Wildcards != 0 || len(next.Cards) != 4 {
		t.Errorf("unexpected result %+v", next)
	}
}

func TestSwapWildcardTakesTheWildcardSlot(t *testing.T) {
	// The joker stands for the four; only the four of hearts may replace it.
	j := jk()
	s, err := CreateSequence([]Card{j, c(SuitHearts, RankFive), c(SuitHearts, RankSix), c(SuitHearts, RankSeven)}, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Start != 4 || s.Cards[0].ID != j.ID {
		t.Fatalf("joker should hold the four, got start %d cards %v", s.Start, s.Cards)
	}

	for _, bad := range []Card{c(SuitHearts, RankEight), c(SuitHearts, RankThree), c(SuitSpades, RankFour)} {
		if _, _, err := SwapWildcard(s, bad); !errors.Is(err, ErrNotClean) {
			t.Errorf("%s does not belong in the joker's slot, got %v", bad, err)
		}
	}

	four := c(SuitHearts, RankFour)
	next, wild, err := SwapWildcard(s, four)
	if err != nil {
		t.Fatal(err)
	}
	if wild.ID != j.ID || next.Start != 4 || next.Cards[0].ID != four.ID || next.End() != 7 {
		t.Errorf("four should take the joker's place, got %v start %d", next.Cards, next.Start)
	}
}

func TestSwapWildcardAcesMeld(t *testing.T) {
	j := jk()
	s, err := CreateSequence([]Card{c(SuitHearts, RankAce), c(SuitSpades, RankAce), j}, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := SwapWildcard(s, c(SuitHearts, RankFive)); !errors.Is(err, ErrNotClean) {
		t.Errorf("only an ace fits an aces meld, got %v", err)
	}
	next, wild, err := SwapWildcard(s, c(SuitClubs, RankAce))
	if err != nil {
		t.Fatal(err)
	}
	if wild.ID != j.ID || next.Wildcards != 0 || next.Type != SequenceAces {
		t.Errorf("unexpected result %+v", next)
	}
}
