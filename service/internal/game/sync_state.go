// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/buraco/engine"
)

// ObfCard represents a card's state for client synchronization, potentially hiding details.
type ObfCard struct {
	ID    uuid.UUID `json:"id"`
	Known bool      `json:"known"` // True if Rank/Suit/Value are revealed to the requesting client.
	Rank  string    `json:"rank,omitempty"`
	Suit  string    `json:"suit,omitempty"`
	Value int       `json:"value,omitempty"`
	Idx   *int      `json:"idx,omitempty"` // Pointer to allow omitting zero index (relevant for hand cards).
}

// ObfSequence is a meld on the table. Melds are public.
type ObfSequence struct {
	ID        uuid.UUID `json:"id"`
	Team      int       `json:"team"`
	Type      string    `json:"type"`
	Cards     []ObfCard `json:"cards"`
	IsCanasta bool      `json:"isCanasta"`
	Tier      string    `json:"tier,omitempty"`
	Points    int       `json:"points"`
}

// ObfPlayerState represents the state of a single player, obfuscated for a specific observer.
type ObfPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Username      string    `json:"username"`
	Team          int       `json:"team"`
	HandSize      int       `json:"handSize"`
	Connected     bool      `json:"connected"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	// RevealedHand is populated only for the player requesting the state ('self').
	RevealedHand []ObfCard `json:"revealedHand,omitempty"`
}

// ObfGameState represents the overall game state, obfuscated for a specific observer.
type ObfGameState struct {
	GameID          uuid.UUID        `json:"gameId"`
	Started         bool             `json:"started"`
	GameOver        bool             `json:"gameOver"`
	Phase           string           `json:"phase"`
	Round           int              `json:"round"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	TurnID          int              `json:"turnId"`
	HasDrawn        bool             `json:"hasDrawn"`
	HasDiscarded    bool             `json:"hasDiscarded"`
	StockpileSize   int              `json:"stockpileSize"`
	Discard         []ObfCard        `json:"discard"` // The discard pile is open; every card is visible.
	MortoSizes      [2]int           `json:"mortoSizes"`
	MortoTaken      [2]bool          `json:"mortoTaken"`
	Sequences       []ObfSequence    `json:"sequences"`
	MatchScores     [2]int           `json:"matchScores"`
	Players         []ObfPlayerState `json:"players"`
	Rules           engine.Rules     `json:"rules"`
}

// GetCurrentObfuscatedGameState generates a snapshot of the game state,
// tailored to the perspective of the requesting user (`forUser`).
// Only forUser's own hand is revealed; every other hand is reduced to its size.
// This function assumes the game lock is HELD by the caller.
func (g *BuracoGame) GetCurrentObfuscatedGameState(forUser uuid.UUID) ObfGameState {
	obf := ObfGameState{
		GameID:   g.ID,
		Started:  g.Started,
		GameOver: g.GameOver,
		TurnID:   g.TurnID,
		Rules:    g.Rules,
	}
	if g.engine == nil {
		for _, p := range g.Players {
			obf.Players = append(obf.Players, ObfPlayerState{
				PlayerID:  p.ID,
				Username:  p.Username,
				Team:      int(p.Team),
				Connected: p.Connected,
			})
		}
		return obf
	}

	st := g.engine.State()
	obf.Phase = st.Phase.String()
	obf.Round = st.Round
	obf.HasDrawn = st.Turn.HasDrawn
	obf.HasDiscarded = st.Turn.HasDiscarded
	obf.StockpileSize = len(st.Stock)
	obf.MatchScores = st.MatchScores
	for i := range st.Mortos {
		obf.MortoSizes[i] = len(st.Mortos[i])
		obf.MortoTaken[i] = st.MortoTaken[i]
	}
	for _, c := range st.Discard {
		obf.Discard = append(obf.Discard, knownCard(c, nil))
	}
	for ti, seqs := range st.Sequences {
		for _, s := range seqs {
			obf.Sequences = append(obf.Sequences, obfSequence(engine.Team(ti+1), s))
		}
	}
	if !obf.GameOver && st.Phase == engine.PhasePlaying {
		obf.CurrentPlayerID, _ = uuid.Parse(st.CurrentPlayer().ID)
	}

	for i, p := range st.Players {
		pid, _ := uuid.Parse(p.ID)
		ps := ObfPlayerState{
			PlayerID:      pid,
			Username:      p.Name,
			Team:          int(p.Team),
			HandSize:      len(p.Hand),
			Connected:     p.Connected,
			IsCurrentTurn: pid == obf.CurrentPlayerID,
		}
		if i < len(g.Players) {
			ps.Username = g.Players[i].Username
		}
		if pid == forUser {
			ps.RevealedHand = make([]ObfCard, len(p.Hand))
			for j, c := range p.Hand {
				idx := j
				ps.RevealedHand[j] = knownCard(c, &idx)
			}
		}
		obf.Players = append(obf.Players, ps)
	}
	return obf
}

// knownCard converts a face-up card.
func knownCard(c engine.Card, idx *int) ObfCard {
	return ObfCard{
		ID:    c.ID,
		Known: true,
		Rank:  c.Rank.String(),
		Suit:  c.Suit.String(),
		Value: c.Points(),
		Idx:   idx,
	}
}

func obfSequence(team engine.Team, s engine.Sequence) ObfSequence {
	out := ObfSequence{
		ID:        s.ID,
		Team:      int(team),
		Type:      s.Type.String(),
		IsCanasta: s.IsCanasta,
		Points:    s.Points,
		Cards:     make([]ObfCard, len(s.Cards)),
	}
	if s.IsCanasta {
		out.Tier = s.Tier.String()
	}
	for i, c := range s.Cards {
		out.Cards[i] = knownCard(c, nil)
	}
	return out
}
