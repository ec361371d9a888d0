// Package bot provides computer players that drive a seat through the
// engine by proposing candidate actions in order of preference.
package bot

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/buraco/engine"
)

// Player proposes actions for the seat identified by self. Candidates come
// back best first; the caller submits them in order until one is accepted.
type Player interface {
	Name() string
	Candidates(st engine.GameState, self string) []engine.Action
}

// PlayerFactory builds a player from a seed.
type PlayerFactory func(seed uint64) Player

var _ PlayerFactory = NewGreedyBot

// Applier submits one action and reports the outcome.
type Applier func(engine.Action) engine.ActionResult

// ErrStuck is returned when no candidate action is accepted.
var ErrStuck = errors.New("bot: no candidate action was accepted")

// GreedyBot melds whatever it can, wildcards included. It takes the discard
// pile when the pile feeds a meld, works team melds toward clean canastas
// and discards its most expensive loose card.
type GreedyBot struct {
	BotName string
	rng     *rand.Rand
}

func NewGreedyBot(seed uint64) Player {
	return &GreedyBot{rng: rand.New(rand.NewPCG(seed, seed+1))}
}

func (b *GreedyBot) Name() string {
	if b.BotName == "" {
		b.BotName = "GreedyBot_" + strconv.Itoa(b.rng.IntN(100))
	}
	return b.BotName
}

func (b *GreedyBot) Candidates(st engine.GameState, self string) []engine.Action {
	seat := st.PlayerIndex(self)
	if seat < 0 {
		return nil
	}
	p := st.Players[seat]
	turn := st.Turn
	var out []engine.Action

	if !turn.HasDrawn && st.CanDraw(seat) {
		pile := wantsDiscardPile(st, p)
		if pile {
			out = append(out, engine.Draw{PlayerID: self, Source: engine.FromDiscard})
		}
		if len(st.Stock) > 0 || len(st.AvailableMortos()) > 0 {
			out = append(out, engine.Draw{PlayerID: self, Source: engine.FromStock})
		}
		if !pile && len(st.Discard) > 0 {
			out = append(out, engine.Draw{PlayerID: self, Source: engine.FromDiscard})
		}
		return out
	}

	if len(p.Hand) == 0 {
		for _, i := range st.AvailableMortos() {
			out = append(out, engine.GoOut{PlayerID: self, Pile: i + 1})
		}
		return append(out, engine.GoOut{PlayerID: self})
	}

	seqs := closestToCanasta(st.TeamSequences(p.Team))
	for _, s := range seqs {
		if s.Wildcards == 0 {
			continue
		}
		for _, c := range p.Hand {
			if c.IsWild() {
				continue
			}
			if _, _, err := engine.SwapWildcard(s, c); err == nil {
				out = append(out, engine.ReplaceWildcard{PlayerID: self, SequenceID: s.ID, CardID: c.ID})
			}
		}
	}
	for _, s := range seqs {
		for _, c := range p.Hand {
			if c.IsWild() {
				continue
			}
			if engine.CanAddCards(s, c) && keepsDiscardable(st, p.Hand, []uuid.UUID{c.ID}) {
				out = append(out, engine.AddToMeld{PlayerID: self, SequenceID: s.ID, CardIDs: []uuid.UUID{c.ID}})
			}
		}
	}

	melds := append(findMelds(p.Hand), findWildMelds(p.Hand)...)
	for _, m := range melds {
		if keepsDiscardable(st, p.Hand, m) {
			out = append(out, engine.PlayMelds{PlayerID: self, Melds: [][]uuid.UUID{m}})
		}
	}

	clean := st.HasCleanCanasta(p.Team)
	for _, w := range wildcardsByCost(p.Hand) {
		for _, s := range seqs {
			if !takesWildcard(s, w, clean, len(p.Hand)) {
				continue
			}
			if keepsDiscardable(st, p.Hand, []uuid.UUID{w.ID}) {
				out = append(out, engine.AddToMeld{PlayerID: self, SequenceID: s.ID, CardIDs: []uuid.UUID{w.ID}})
			}
		}
	}

	if !turn.HasDiscarded {
		for _, c := range discardOrder(p.Hand, st.TeamSequences(p.Team.Other()), b.rng) {
			out = append(out, engine.Discard{PlayerID: self, CardID: c.ID})
		}
	}
	return append(out, engine.EndTurn{PlayerID: self})
}

// wantsDiscardPile reports whether taking the whole discard pile gives p a
// wildcard, a card for a team meld or a new meld.
func wantsDiscardPile(st engine.GameState, p engine.Player) bool {
	if len(st.Discard) == 0 || len(p.Hand) == 1 {
		return false
	}
	seqs := st.TeamSequences(p.Team)
	pile := make(map[uuid.UUID]bool, len(st.Discard))
	for _, c := range st.Discard {
		if c.IsWild() {
			return true
		}
		for _, s := range seqs {
			if engine.CanAddCards(s, c) {
				return true
			}
		}
		pile[c.ID] = true
	}
	combined := append(append([]engine.Card(nil), p.Hand...), st.Discard...)
	for _, m := range findMelds(combined) {
		for _, id := range m {
			if pile[id] {
				return true
			}
		}
	}
	return false
}

// takesWildcard reports whether the bot should lay wildcard w on s. A
// wildcard spoils a clean meld, so it only goes on melds without one, and
// only once the team holds a clean canasta, the meld becomes a canasta or
// the hand is nearly empty.
func takesWildcard(s engine.Sequence, w engine.Card, clean bool, handSize int) bool {
	if s.Wildcards > 0 {
		return false
	}
	if !clean && len(s.Cards)+1 < engine.CanastaLength && handSize > 3 {
		return false
	}
	cards := append(append([]engine.Card(nil), s.Cards...), w)
	if engine.CheckWildcardBudget(cards) != nil {
		return false
	}
	return engine.CanAddCards(s, w)
}

// closestToCanasta orders melds longest first.
func closestToCanasta(seqs []engine.Sequence) []engine.Sequence {
	out := append([]engine.Sequence(nil), seqs...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Cards) > len(out[j].Cards) })
	return out
}

// keepsDiscardable reports whether playing used still leaves a card the
// player may discard this turn.
func keepsDiscardable(st engine.GameState, hand []engine.Card, used []uuid.UUID) bool {
	if st.Turn.HasDiscarded || !st.Turn.DrewFromDiscard {
		return true
	}
	gone := make(map[uuid.UUID]bool, len(used))
	for _, id := range used {
		gone[id] = true
	}
	for _, c := range hand {
		if gone[c.ID] {
			continue
		}
		drawn := false
		for _, id := range st.Turn.DrawnCardIDs {
			if id == c.ID {
				drawn = true
				break
			}
		}
		if !drawn {
			return true
		}
	}
	return false
}

// findMelds returns the longest same-suit natural runs of three or more
// cards in hand, plus a meld of aces when three are held.
func findMelds(hand []engine.Card) [][]uuid.UUID {
	bySuit := make(map[engine.Suit]map[int]uuid.UUID)
	var aces []uuid.UUID
	for _, c := range hand {
		if c.IsWild() {
			continue
		}
		if c.Rank == engine.RankAce {
			aces = append(aces, c.ID)
		}
		if bySuit[c.Suit] == nil {
			bySuit[c.Suit] = make(map[int]uuid.UUID)
		}
		bySuit[c.Suit][c.Value()] = c.ID
		if c.Rank == engine.RankAce {
			bySuit[c.Suit][engine.HighAceValue] = c.ID
		}
	}

	var out [][]uuid.UUID
	for _, suit := range engine.NaturalSuits {
		slots := bySuit[suit]
		for v := engine.LowAceValue; v <= engine.HighAceValue; v++ {
			if _, ok := slots[v]; !ok {
				continue
			}
			if _, prev := slots[v-1]; prev {
				continue
			}
			var seq []uuid.UUID
			for w := v; w <= engine.HighAceValue; w++ {
				id, ok := slots[w]
				if !ok || containsID(seq, id) {
					break
				}
				seq = append(seq, id)
			}
			if len(seq) >= engine.MinSequenceLength {
				out = append(out, seq)
			}
		}
	}
	if len(aces) >= engine.MinSequenceLength {
		out = append(out, aces)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// findWildMelds returns runs built from two naturals of one suit and a
// wildcard, either filling a one-card gap or extending a pair, plus two aces
// with a wildcard. Every meld takes the most expensive wildcard in hand, so
// jokers go down before twos.
func findWildMelds(hand []engine.Card) [][]uuid.UUID {
	wilds := wildcardsByCost(hand)
	if len(wilds) == 0 {
		return nil
	}
	w := wilds[0].ID

	bySuit := make(map[engine.Suit]map[int]uuid.UUID)
	var aces []uuid.UUID
	for _, c := range hand {
		if c.IsWild() {
			continue
		}
		if c.Rank == engine.RankAce {
			aces = append(aces, c.ID)
		}
		if bySuit[c.Suit] == nil {
			bySuit[c.Suit] = make(map[int]uuid.UUID)
		}
		bySuit[c.Suit][c.Value()] = c.ID
		if c.Rank == engine.RankAce {
			bySuit[c.Suit][engine.HighAceValue] = c.ID
		}
	}

	var out [][]uuid.UUID
	for _, suit := range engine.NaturalSuits {
		slots := bySuit[suit]
		for v := engine.LowAceValue; v < engine.HighAceValue; v++ {
			lo, ok := slots[v]
			if !ok {
				continue
			}
			for _, gap := range []int{1, 2} {
				hi, ok := slots[v+gap]
				if !ok || hi == lo {
					continue
				}
				if gap == 1 {
					// A third natural next to the pair makes a natural run instead.
					if _, below := slots[v-1]; below {
						continue
					}
					if _, above := slots[v+2]; above {
						continue
					}
				} else if _, mid := slots[v+1]; mid {
					continue
				}
				out = append(out, []uuid.UUID{lo, hi, w})
			}
		}
	}
	if len(aces) == 2 {
		out = append(out, []uuid.UUID{aces[0], aces[1], w})
	}
	return out
}

// wildcardsByCost returns the wildcards in hand, most expensive first.
func wildcardsByCost(hand []engine.Card) []engine.Card {
	var out []engine.Card
	for _, c := range hand {
		if c.IsWild() {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points() > out[j].Points() })
	return out
}

// discardOrder ranks hand cards for discarding: naturals before wildcards,
// cards the opponents cannot lay on their melds before those they can,
// expensive before cheap, ties broken at random.
func discardOrder(hand []engine.Card, opponents []engine.Sequence, rng *rand.Rand) []engine.Card {
	out := append([]engine.Card(nil), hand...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	feeds := make(map[uuid.UUID]bool)
	for _, c := range out {
		for _, s := range opponents {
			if engine.CanAddCards(s, c) {
				feeds[c.ID] = true
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsWild() != out[j].IsWild() {
			return !out[i].IsWild()
		}
		if feeds[out[i].ID] != feeds[out[j].ID] {
			return !feeds[out[i].ID]
		}
		return out[i].Points() > out[j].Points()
	})
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// Step submits the candidates of p in order and returns the first accepted
// result. A go-out that only asks for a pile choice does not count.
func Step(st engine.GameState, self string, p Player, apply Applier) (engine.ActionResult, error) {
	for _, a := range p.Candidates(st, self) {
		res := apply(a)
		if !res.Success {
			continue
		}
		if res.Aux != nil && len(res.Aux.MortoChoices) > 0 {
			continue
		}
		return res, nil
	}
	return engine.ActionResult{}, fmt.Errorf("%w: %s", ErrStuck, self)
}

// PlayTurn steps p until its turn passes or the match ends. maxSteps bounds
// the number of accepted actions.
func PlayTurn(st engine.GameState, self string, p Player, apply Applier, maxSteps int) (engine.ActionResult, error) {
	var res engine.ActionResult
	for i := 0; i < maxSteps; i++ {
		var err error
		res, err = Step(st, self, p, apply)
		if err != nil {
			return res, err
		}
		if res.GameEnded || (res.Aux != nil && res.Aux.TurnEnded) {
			return res, nil
		}
		st = *res.State
	}
	return res, fmt.Errorf("bot: %s did not finish its turn in %d steps", self, maxSteps)
}
