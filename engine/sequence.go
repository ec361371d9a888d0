package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// SequenceType tags the two kinds of legal meld.
type SequenceType uint8

const (
	SequenceRun  SequenceType = iota // same-suit run
	SequenceAces                     // three or more aces, wildcards allowed
)

func (t SequenceType) String() string {
	if t == SequenceAces {
		return "aces"
	}
	return "run"
}

// CanastaTier classifies a meld of CanastaLength cards or more.
type CanastaTier uint8

const (
	TierNone  CanastaTier = iota
	TierSuja              // dirty: holds a wildcard
	TierLimpa             // clean: no wildcards
	TierAsAAs             // clean and spanning low ace through high ace
)

func (t CanastaTier) String() string {
	switch t {
	case TierSuja:
		return "suja"
	case TierLimpa:
		return "limpa"
	case TierAsAAs:
		return "as-a-as"
	default:
		return ""
	}
}

// IsClean reports whether the tier counts as a clean canasta for going out.
func (t CanastaTier) IsClean() bool { return t == TierLimpa || t == TierAsAAs }

const (
	MinSequenceLength = 3
	CanastaLength     = 7

	BonusAsAAs = 1000
	BonusLimpa = 200
	BonusSuja  = 100
)

// Sequence is a validated meld. It is replaced, never edited, when cards
// are added or a wildcard is swapped out.
type Sequence struct {
	ID        uuid.UUID    `json:"id"`
	Cards     []Card       `json:"cards"`
	Type      SequenceType `json:"type"`
	Suit      Suit         `json:"suit"`
	Start     int          `json:"start"` // ordering value of Cards[0] for runs
	IsCanasta bool         `json:"isCanasta"`
	Tier      CanastaTier  `json:"tier"`
	Points    int          `json:"points"`
	Wildcards int          `json:"wildcards"` // cards acting as wildcards; natural twos excluded
}

// Clone returns a deep copy of s.
func (s Sequence) Clone() Sequence {
	out := s
	out.Cards = append([]Card(nil), s.Cards...)
	return out
}

// splitWild separates natural cards from wildcards, preserving order.
func splitWild(cards []Card) (naturals, wilds []Card) {
	for _, c := range cards {
		if c.IsWild() {
			wilds = append(wilds, c)
		} else {
			naturals = append(naturals, c)
		}
	}
	return naturals, wilds
}

func allAces(naturals []Card) bool {
	for _, c := range naturals {
		if c.Rank != RankAce {
			return false
		}
	}
	return len(naturals) > 0
}

// Validate reports whether cards form a legal meld and of which type.
// The returned error wraps ErrInvalidSequence.
func Validate(cards []Card) (SequenceType, error) {
	if len(cards) < MinSequenceLength {
		return 0, fmt.Errorf("%w: need at least %d cards, got %d", ErrInvalidSequence, MinSequenceLength, len(cards))
	}
	seen := make(map[uuid.UUID]struct{}, len(cards))
	for _, c := range cards {
		if _, dup := seen[c.ID]; dup {
			return 0, fmt.Errorf("%w: card %s listed twice", ErrInvalidSequence, c)
		}
		seen[c.ID] = struct{}{}
	}

	naturals, wilds := splitWild(cards)
	if len(naturals) == 0 {
		return 0, fmt.Errorf("%w: a meld needs at least one natural card", ErrInvalidSequence)
	}
	if allAces(naturals) {
		return SequenceAces, nil
	}
	suit := naturals[0].Suit
	for _, c := range naturals[1:] {
		if c.Suit != suit {
			return 0, fmt.Errorf("%w: mixed suits %s and %s", ErrInvalidSequence, suit, c.Suit)
		}
	}
	if _, ok := bestPlacement(naturals, wilds, suit); !ok {
		return 0, fmt.Errorf("%w: cards do not form a contiguous run", ErrInvalidSequence)
	}
	return SequenceRun, nil
}

// CreateSequence validates cards and builds the scored meld. A nil id
// allocates a new identity; otherwise the meld keeps id.
func CreateSequence(cards []Card, id uuid.UUID) (Sequence, error) {
	typ, err := Validate(cards)
	if err != nil {
		return Sequence{}, err
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	seq := Sequence{ID: id, Type: typ}

	naturals, wilds := splitWild(cards)
	switch typ {
	case SequenceAces:
		seq.Suit = SuitJoker
		seq.Start = LowAceValue
		seq.Cards = append(append([]Card(nil), naturals...), wilds...)
		seq.Wildcards = len(wilds)
	case SequenceRun:
		seq.Suit = naturals[0].Suit
		p, _ := bestPlacement(naturals, wilds, seq.Suit)
		seq.Start = p.start
		seq.Cards = p.slots
		for i, c := range p.slots {
			if c.IsWild() && !isNaturalTwo(c, seq.Suit, p.start+i) {
				seq.Wildcards++
			}
		}
	}

	seq.IsCanasta = len(seq.Cards) >= CanastaLength
	if seq.IsCanasta {
		switch {
		case seq.Wildcards > 0:
			seq.Tier = TierSuja
		case seq.Type == SequenceRun && seq.Start == LowAceValue && seq.End() == HighAceValue:
			seq.Tier = TierAsAAs
		default:
			seq.Tier = TierLimpa
		}
	}
	seq.Points = handPoints(seq.Cards) + canastaBonus(seq.Tier)
	return seq, nil
}

func canastaBonus(t CanastaTier) int {
	switch t {
	case TierAsAAs:
		return BonusAsAAs
	case TierLimpa:
		return BonusLimpa
	case TierSuja:
		return BonusSuja
	default:
		return 0
	}
}

// End returns the ordering value of the last card of a run.
func (s Sequence) End() int { return s.Start + len(s.Cards) - 1 }

// CanAddCards reports whether cards can join s.
func CanAddCards(s Sequence, cards ...Card) bool {
	_, err := AddCards(s, cards...)
	return err == nil
}

// AddCards revalidates the union of s and cards, returning the replacement
// meld under the same id.
func AddCards(s Sequence, cards ...Card) (Sequence, error) {
	if len(cards) == 0 {
		return Sequence{}, fmt.Errorf("%w: no cards to add", ErrInvalidSequence)
	}
	union := make([]Card, 0, len(s.Cards)+len(cards))
	union = append(union, s.Cards...)
	union = append(union, cards...)
	return CreateSequence(union, s.ID)
}

// SwapWildcard puts natural into the slot a wildcard of s occupies. The
// natural must match that slot and the result must be free of wildcards. It
// returns the new meld and the wildcard released from it.
func SwapWildcard(s Sequence, natural Card) (Sequence, Card, error) {
	if natural.IsWild() {
		return Sequence{}, Card{}, fmt.Errorf("%w: %s is a wildcard", ErrInvalidSequence, natural)
	}
	if s.Wildcards == 0 {
		return Sequence{}, Card{}, ErrAlreadyClean
	}
	for i, c := range s.Cards {
		if !c.IsWild() {
			continue
		}
		if s.Type == SequenceRun && isNaturalTwo(c, s.Suit, s.Start+i) {
			continue
		}
		if !fitsSlot(s, i, natural) {
			continue
		}
		candidate := append([]Card(nil), s.Cards...)
		candidate[i] = natural
		next, err := CreateSequence(candidate, s.ID)
		if err == nil && next.Wildcards == 0 {
			return next, c, nil
		}
	}
	return Sequence{}, Card{}, fmt.Errorf("%w: %s does not take a wildcard's place", ErrNotClean, natural)
}

// fitsSlot reports whether natural can stand where s.Cards[i] stands.
func fitsSlot(s Sequence, i int, natural Card) bool {
	if s.Type == SequenceAces {
		return natural.Rank == RankAce
	}
	if natural.Suit != s.Suit {
		return false
	}
	v := s.Start + i
	if natural.Rank == RankAce {
		return v == LowAceValue || v == HighAceValue
	}
	return natural.Value() == v
}

// CheckWildcardBudget enforces the per-meld wildcard quota: one wildcard,
// or two when one of them is a two completing an ace-two-three of its suit.
func CheckWildcardBudget(cards []Card) error {
	naturals, wilds := splitWild(cards)
	if len(wilds) <= 1 {
		return nil
	}
	if len(wilds) == 2 {
		for _, w := range wilds {
			if w.Rank == RankTwo && hasRank(naturals, w.Suit, RankAce) && hasRank(naturals, w.Suit, RankThree) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %d wildcards in one meld", ErrWildcardBudget, len(wilds))
}

func hasRank(cards []Card, suit Suit, rank Rank) bool {
	for _, c := range cards {
		if c.Suit == suit && c.Rank == rank {
			return true
		}
	}
	return false
}
