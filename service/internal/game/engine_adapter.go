// engine_adapter.go: bridge between client payloads, the engine and BuracoGame events.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/buraco/engine"
)

// GameAction is an action message received from a client.
type GameAction struct {
	ActionType string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// Client action types.
const (
	ActionDrawStockpile   = "action_draw_stockpile"
	ActionDrawDiscardpile = "action_draw_discardpile"
	ActionMeld            = "action_meld"
	ActionAddToMeld       = "action_add_to_meld"
	ActionReplaceWildcard = "action_replace_wildcard"
	ActionDiscard         = "action_discard"
	ActionGoOut           = "action_go_out"
	ActionEndTurn         = "action_end_turn"
)

var (
	ErrUnknownAction = errors.New("unknown action type")
	ErrBadPayload    = errors.New("invalid action payload")
)

// parseAction converts a client message into an engine action for playerID.
func parseAction(playerID uuid.UUID, action GameAction) (engine.Action, error) {
	self := playerID.String()
	p := action.Payload

	switch action.ActionType {
	case ActionDrawStockpile:
		return engine.Draw{PlayerID: self, Source: engine.FromStock}, nil

	case ActionDrawDiscardpile:
		leave, err := payloadIDs(p, "leave", true)
		if err != nil {
			return nil, err
		}
		return engine.Draw{PlayerID: self, Source: engine.FromDiscard, Leave: leave}, nil

	case ActionMeld:
		raw, ok := p["melds"].([]interface{})
		if !ok || len(raw) == 0 {
			return nil, fmt.Errorf("%w: melds must be a non-empty list of card id lists", ErrBadPayload)
		}
		melds := make([][]uuid.UUID, 0, len(raw))
		for _, m := range raw {
			ids, err := toIDs(m)
			if err != nil {
				return nil, err
			}
			melds = append(melds, ids)
		}
		return engine.PlayMelds{PlayerID: self, Melds: melds}, nil

	case ActionAddToMeld:
		seqID, err := payloadID(p, "sequenceId")
		if err != nil {
			return nil, err
		}
		cards, err := payloadIDs(p, "cards", false)
		if err != nil {
			return nil, err
		}
		return engine.AddToMeld{PlayerID: self, SequenceID: seqID, CardIDs: cards}, nil

	case ActionReplaceWildcard:
		seqID, err := payloadID(p, "sequenceId")
		if err != nil {
			return nil, err
		}
		cardID, err := payloadID(p, "id")
		if err != nil {
			return nil, err
		}
		return engine.ReplaceWildcard{PlayerID: self, SequenceID: seqID, CardID: cardID}, nil

	case ActionDiscard:
		cardID, err := payloadID(p, "id")
		if err != nil {
			return nil, err
		}
		return engine.Discard{PlayerID: self, CardID: cardID}, nil

	case ActionGoOut:
		pile := 0
		switch v := p["pile"].(type) {
		case nil:
		case float64:
			pile = int(v)
		case int:
			pile = v
		default:
			return nil, fmt.Errorf("%w: pile must be a number", ErrBadPayload)
		}
		return engine.GoOut{PlayerID: self, Pile: pile}, nil

	case ActionEndTurn:
		return engine.EndTurn{PlayerID: self}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action.ActionType)
}

func payloadID(p map[string]interface{}, key string) (uuid.UUID, error) {
	s, _ := p[key].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a card or meld id", ErrBadPayload, key)
	}
	return id, nil
}

func payloadIDs(p map[string]interface{}, key string, optional bool) ([]uuid.UUID, error) {
	v, ok := p[key]
	if !ok && optional {
		return nil, nil
	}
	ids, err := toIDs(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if len(ids) == 0 && !optional {
		return nil, fmt.Errorf("%w: %s must not be empty", ErrBadPayload, key)
	}
	return ids, nil
}

// toIDs accepts both decoded JSON arrays and native string slices.
func toIDs(v interface{}) ([]uuid.UUID, error) {
	var strs []string
	switch list := v.(type) {
	case []string:
		strs = list
	case []interface{}:
		for _, x := range list {
			s, ok := x.(string)
			if !ok {
				return nil, fmt.Errorf("%w: expected id strings", ErrBadPayload)
			}
			strs = append(strs, s)
		}
	default:
		return nil, fmt.Errorf("%w: expected a list of ids", ErrBadPayload)
	}
	out := make([]uuid.UUID, 0, len(strs))
	for _, s := range strs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: bad id %q", ErrBadPayload, s)
		}
		out = append(out, id)
	}
	return out, nil
}

func eventCard(c engine.Card) EventCard {
	return EventCard{ID: c.ID, Rank: c.Rank.String(), Suit: c.Suit.String(), Value: c.Points()}
}

func eventCards(cards []engine.Card) []EventCard {
	out := make([]EventCard, len(cards))
	for i, c := range cards {
		out[i] = eventCard(c)
	}
	return out
}

// findSequence returns the meld with the given ID and the team that owns it.
func findSequence(st engine.GameState, id uuid.UUID) (*engine.Sequence, engine.Team) {
	for ti := range st.Sequences {
		for i := range st.Sequences[ti] {
			if st.Sequences[ti][i].ID == id {
				return &st.Sequences[ti][i], engine.Team(ti + 1)
			}
		}
	}
	return nil, engine.TeamNone
}

func cardsByID(cards []engine.Card, ids []uuid.UUID) []engine.Card {
	var out []engine.Card
	for _, id := range ids {
		for _, c := range cards {
			if c.ID == id {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// emitEventsForAction broadcasts the public and private events describing a
// successful action. before is the state prior to the action.
// Assumes lock is held by caller.
func (g *BuracoGame) emitEventsForAction(actorID uuid.UUID, act engine.Action, before engine.GameState, res engine.ActionResult) {
	after := *res.State
	seat := before.PlayerIndex(act.Actor())
	var beforeHand, afterHand []engine.Card
	if seat >= 0 {
		beforeHand = before.Players[seat].Hand
		afterHand = after.Players[seat].Hand
	}
	aux := res.Aux
	if aux == nil {
		aux = &engine.Auxiliary{}
	}

	switch a := act.(type) {
	case engine.Draw:
		drawn := cardsByID(afterHand, after.Turn.DrawnCardIDs)
		if a.Source == engine.FromStock {
			ev := GameEvent{
				Type:    EventPlayerDrawStockpile,
				User:    &EventUser{ID: actorID},
				Payload: map[string]interface{}{"stockpileSize": len(after.Stock), "source": "stockpile"},
			}
			if len(drawn) > 0 {
				ev.Card = &EventCard{ID: drawn[0].ID}
			}
			g.fireEvent(ev)
			if len(drawn) > 0 {
				c := eventCard(drawn[0])
				g.fireEventToPlayer(actorID, GameEvent{
					Type:    EventPrivateDrawStockpile,
					Card:    &c,
					Payload: map[string]interface{}{"source": "stockpile"},
				})
			}
			g.logAction(actorID, string(EventPlayerDrawStockpile), map[string]interface{}{"newSize": len(after.Stock)})
			break
		}
		// Cards taken from the discard pile were face up.
		g.fireEvent(GameEvent{
			Type:    EventPlayerDrawDiscard,
			User:    &EventUser{ID: actorID},
			Cards:   eventCards(drawn),
			Payload: map[string]interface{}{"source": "discardpile", "discardSize": len(after.Discard), "taken": len(drawn)},
		})
		g.logAction(actorID, string(EventPlayerDrawDiscard), map[string]interface{}{"taken": len(drawn)})

	case engine.PlayMelds:
		seen := make(map[uuid.UUID]bool)
		for _, seqs := range before.Sequences {
			for _, s := range seqs {
				seen[s.ID] = true
			}
		}
		for ti, seqs := range after.Sequences {
			for _, s := range seqs {
				if seen[s.ID] {
					continue
				}
				obf := obfSequence(engine.Team(ti+1), s)
				g.fireEvent(GameEvent{Type: EventPlayerMeld, User: &EventUser{ID: actorID}, Sequence: &obf})
			}
		}
		g.logAction(actorID, string(EventPlayerMeld), map[string]interface{}{"melds": len(a.Melds)})

	case engine.AddToMeld:
		ev := GameEvent{
			Type:  EventPlayerAddToMeld,
			User:  &EventUser{ID: actorID},
			Cards: eventCards(cardsByID(beforeHand, a.CardIDs)),
		}
		if s, team := findSequence(after, a.SequenceID); s != nil {
			obf := obfSequence(team, *s)
			ev.Sequence = &obf
		}
		g.fireEvent(ev)
		g.logAction(actorID, string(EventPlayerAddToMeld), map[string]interface{}{"sequenceId": a.SequenceID, "cards": len(a.CardIDs)})

	case engine.ReplaceWildcard:
		ev := GameEvent{Type: EventPlayerReplaceWild, User: &EventUser{ID: actorID}}
		if placed := cardsByID(beforeHand, []uuid.UUID{a.CardID}); len(placed) == 1 {
			c := eventCard(placed[0])
			ev.Card = &c
		}
		if s, team := findSequence(after, a.SequenceID); s != nil {
			obf := obfSequence(team, *s)
			ev.Sequence = &obf
		}
		g.fireEvent(ev)
		g.logAction(actorID, string(EventPlayerReplaceWild), map[string]interface{}{"sequenceId": a.SequenceID, "cardId": a.CardID})

	case engine.Discard:
		ev := GameEvent{Type: EventPlayerDiscard, User: &EventUser{ID: actorID}}
		if gone := cardsByID(beforeHand, []uuid.UUID{a.CardID}); len(gone) == 1 {
			c := eventCard(gone[0])
			ev.Card = &c
		}
		g.fireEvent(ev)
		g.logAction(actorID, string(EventPlayerDiscard), map[string]interface{}{"cardId": a.CardID})

	case engine.GoOut:
		if len(aux.MortoChoices) > 0 {
			piles := make([]int, len(aux.MortoChoices))
			copy(piles, aux.MortoChoices)
			g.fireEventToPlayer(actorID, GameEvent{
				Type:    EventPrivateMortoChoice,
				Payload: map[string]interface{}{"piles": piles},
			})
		}
	}

	if aux.MortoTaken > 0 {
		g.fireEvent(GameEvent{
			Type:    EventPlayerTakeMorto,
			User:    &EventUser{ID: actorID},
			Payload: map[string]interface{}{"pile": aux.MortoTaken, "handSize": len(afterHand)},
		})
		g.logAction(actorID, string(EventPlayerTakeMorto), map[string]interface{}{"pile": aux.MortoTaken})
	}
	if aux.Pique {
		g.fireEvent(GameEvent{Type: EventPlayerPique, User: &EventUser{ID: actorID}})
	}
	if r := aux.Round; r != nil {
		g.fireEvent(GameEvent{
			Type: EventRoundEnd,
			Payload: map[string]interface{}{
				"round":       r.Round,
				"wentOut":     int(r.WentOut),
				"breakdown":   r.Breakdown,
				"scores":      r.Scores,
				"matchScores": r.MatchScores,
			},
		})
		g.logAction(actorID, string(EventRoundEnd), map[string]interface{}{"round": r.Round, "scores": r.Scores})
	}
}
