// internal/game/game.go
package game

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/buraco/engine"
	"github.com/jason-s-yu/buraco/service/internal/bot"
	"github.com/sirupsen/logrus"
)

// OnGameEndFunc defines the signature for a callback function executed when a game ends.
// It receives the lobby ID, the players of the winning team and the final team scores.
type OnGameEndFunc func(lobbyID uuid.UUID, winners []uuid.UUID, scores [2]int)

// GameEventType represents the type of a game-related event sent to clients.
type GameEventType string

// Constants defining the various GameEvent types.
const (
	EventGameStart            GameEventType = "game_start"              // Public: Match dealt and started.
	EventGamePlayerTurn       GameEventType = "game_player_turn"        // Public: Notification of the current player's turn.
	EventPlayerDrawStockpile  GameEventType = "player_draw_stockpile"   // Public: Player drew from the stock (ID only).
	EventPrivateDrawStockpile GameEventType = "private_draw_stockpile"  // Private: Details of the card drawn.
	EventPlayerDrawDiscard    GameEventType = "player_draw_discardpile" // Public: Player took cards from the discard pile (revealed).
	EventPlayerMeld           GameEventType = "player_meld"             // Public: Player laid down new melds.
	EventPlayerAddToMeld      GameEventType = "player_add_to_meld"      // Public: Player extended a team meld.
	EventPlayerReplaceWild    GameEventType = "player_replace_wildcard" // Public: Player swapped a natural card for a wildcard.
	EventPlayerDiscard        GameEventType = "player_discard"          // Public: Player discarded a card.
	EventPlayerPique          GameEventType = "player_pique"            // Public: Player holds a single card.
	EventPlayerTakeMorto      GameEventType = "player_take_morto"       // Public: Player's team claimed a reserve pile.
	EventPrivateMortoChoice   GameEventType = "private_morto_choice"    // Private: Player must pick which reserve pile to take.
	EventPrivateActionFail    GameEventType = "private_action_fail"     // Private: Action was rejected.
	EventPrivateSyncState     GameEventType = "private_sync_state"      // Private: Full game state sync for a player.
	EventRoundEnd             GameEventType = "round_end"               // Public: Round scored, includes breakdown.
	EventGameEnd              GameEventType = "game_end"                // Public: Match has ended, includes results.
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// EventCard identifies a card within a GameEvent payload, optionally including details.
type EventCard struct {
	ID    uuid.UUID `json:"id"`
	Rank  string    `json:"rank,omitempty"`
	Suit  string    `json:"suit,omitempty"`
	Value int       `json:"value,omitempty"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type     GameEventType `json:"type"`
	User     *EventUser    `json:"user,omitempty"`     // The user initiating or targeted by the event.
	Card     *EventCard    `json:"card,omitempty"`     // Primary card involved.
	Cards    []EventCard   `json:"cards,omitempty"`    // Cards involved in multi-card actions.
	Sequence *ObfSequence  `json:"sequence,omitempty"` // Meld affected by the action.

	Payload map[string]interface{} `json:"payload,omitempty"` // Additional arbitrary data.

	State *ObfGameState `json:"state,omitempty"` // Full obfuscated state for sync events.
}

// Player is a participant seated in a game.
type Player struct {
	ID        uuid.UUID
	Username  string
	Team      engine.Team // Zero lets the engine alternate seats between teams.
	Connected bool
}

// BuracoGame represents the state and session logic for a single Buraco match.
type BuracoGame struct {
	ID      uuid.UUID // Unique identifier for this game instance.
	LobbyID uuid.UUID // ID of the lobby that created this game.

	Rules   engine.Rules // Match rules handed to the engine.
	Players []*Player    // Seats in turn order.

	engine     *engine.Engine
	engineOpts []engine.Option

	// Turn Management
	TurnID       int           // Increments each turn, useful for state synchronization and checks.
	TurnDuration time.Duration // Zero disables the turn timer.
	turnTimer    *time.Timer
	actionIndex  int // Sequential index for action logging.
	fallback     bot.Player

	// Game Lifecycle State
	Started  bool
	GameOver bool

	lastSeen map[uuid.UUID]time.Time
	Mu       sync.Mutex // Mutex protecting concurrent access to game state.

	// Communication Callbacks
	BroadcastFn         func(ev GameEvent)                     // Sends an event to all connected players.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent) // Sends an event to a single player.
	OnGameEnd           OnGameEndFunc                          // Callback executed when the match finishes.

	log *logrus.Entry
}

// ErrGameStarted is returned when seating changes are attempted after the deal.
var ErrGameStarted = errors.New("game already started")

// NewBuracoGame creates a new game instance with default rules. Options are
// forwarded to the engine when the game starts.
func NewBuracoGame(logger logrus.FieldLogger, opts ...engine.Option) *BuracoGame {
	id, _ := uuid.NewRandom()
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BuracoGame{
		ID:         id,
		Rules:      engine.DefaultRules(),
		engineOpts: opts,
		lastSeen:   make(map[uuid.UUID]time.Time),
		fallback:   bot.NewGreedyBot(uint64(id.ID())),
		log:        logger.WithField("game", id.String()),
	}
}

// AddPlayer adds a player to the game if not started, or marks them as reconnected.
// Assumes lock is held by caller.
func (g *BuracoGame) AddPlayer(p *Player) error {
	if existing := g.getPlayerByID(p.ID); existing != nil {
		existing.Connected = true
		existing.Username = p.Username
		g.lastSeen[p.ID] = time.Now()
		g.logAction(p.ID, "player_add", map[string]interface{}{"reconnect": true})
		return nil
	}
	if g.Started || g.GameOver {
		g.log.WithField("player", p.ID).Warn("player cannot join, game already started")
		return ErrGameStarted
	}
	g.Players = append(g.Players, p)
	g.lastSeen[p.ID] = time.Now()
	g.logAction(p.ID, "player_add", map[string]interface{}{"username": p.Username})
	return nil
}

// Start deals the first round and begins the turn cycle.
func (g *BuracoGame) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started || g.GameOver {
		return ErrGameStarted
	}
	seats := make([]engine.Player, len(g.Players))
	for i, p := range g.Players {
		seats[i] = engine.Player{ID: p.ID.String(), Name: p.Username, Team: p.Team, Connected: p.Connected}
	}
	opts := append([]engine.Option{
		engine.WithGameID(g.ID),
		engine.WithRules(g.Rules),
		engine.WithLogger(g.log),
	}, g.engineOpts...)
	eng, err := engine.New(seats, opts...)
	if err != nil {
		g.log.WithError(err).Error("could not start game")
		return err
	}
	g.engine = eng
	g.Rules = eng.State().Rules
	for i, p := range eng.State().Players {
		g.Players[i].Team = p.Team
	}
	g.Started = true
	g.logAction(uuid.Nil, string(EventGameStart), nil)

	g.fireEvent(GameEvent{Type: EventGameStart, Payload: map[string]interface{}{"round": 1}})
	g.broadcastSyncStateToAll()
	g.onTurnAdvanced()
	return nil
}

// State returns a detached copy of the authoritative engine state.
// Assumes lock is held by caller.
func (g *BuracoGame) State() engine.GameState {
	if g.engine == nil {
		return engine.GameState{}
	}
	return g.engine.State()
}

// HandleDisconnect marks a player as disconnected. Play continues; when the
// turn timer is enabled, the fallback bot covers the player's turns.
// Assumes lock is held by caller.
func (g *BuracoGame) HandleDisconnect(playerID uuid.UUID) {
	p := g.getPlayerByID(playerID)
	if p == nil {
		g.log.WithField("player", playerID).Warn("disconnected player not found")
		return
	}
	if !p.Connected {
		return
	}
	p.Connected = false
	if g.engine != nil {
		if err := g.engine.SetConnected(playerID.String(), false); err != nil {
			g.log.WithError(err).Warn("engine rejected disconnect")
		}
	}
	g.logAction(playerID, "player_disconnect", nil)
	g.broadcastSyncStateToAll()
}

// HandleReconnect marks a player as connected and sends them the current game state.
// Assumes lock is held by caller.
func (g *BuracoGame) HandleReconnect(playerID uuid.UUID) {
	p := g.getPlayerByID(playerID)
	if p == nil {
		g.log.WithField("player", playerID).Warn("reconnecting player not found")
		g.logAction(playerID, "player_reconnect_fail", map[string]interface{}{"reason": "player not found"})
		return
	}
	p.Connected = true
	g.lastSeen[playerID] = time.Now()
	if g.engine != nil {
		if err := g.engine.SetConnected(playerID.String(), true); err != nil {
			g.log.WithError(err).Warn("engine rejected reconnect")
		}
	}
	g.logAction(playerID, "player_reconnect", map[string]interface{}{"username": p.Username})
	g.sendSyncState(playerID)
	g.broadcastSyncStateToAll()
}

// HandlePlayerAction parses and applies an incoming player action, then
// notifies clients of the outcome.
// Assumes lock is held by the caller.
func (g *BuracoGame) HandlePlayerAction(playerID uuid.UUID, action GameAction) {
	if g.GameOver {
		g.log.WithFields(logrus.Fields{"player": playerID, "action": action.ActionType}).Debug("action ignored, game over")
		return
	}
	if !g.Started {
		g.failAction(playerID, "The game has not started.")
		return
	}
	player := g.getPlayerByID(playerID)
	if player == nil || !player.Connected {
		g.log.WithFields(logrus.Fields{"player": playerID, "action": action.ActionType}).Warn("action from unknown or disconnected player ignored")
		return
	}

	act, err := parseAction(playerID, action)
	if err != nil {
		g.failAction(playerID, err.Error())
		return
	}
	g.lastSeen[playerID] = time.Now()
	g.apply(act, true)
}

// apply submits an action to the engine and emits the resulting events.
// Rejections are reported to the actor only when notify is set.
// Assumes lock is held by caller.
func (g *BuracoGame) apply(act engine.Action, notify bool) engine.ActionResult {
	playerID, _ := uuid.Parse(act.Actor())
	before := g.engine.State()
	res := g.engine.ProcessAction(act)
	if !res.Success {
		if notify {
			g.failAction(playerID, res.Message)
		}
		return res
	}
	g.logAction(playerID, string(act.Kind()), nil)
	g.emitEventsForAction(playerID, act, before, res)
	g.broadcastSyncStateToAll()

	switch {
	case res.GameEnded:
		g.EndGame()
	case res.Aux != nil && res.Aux.TurnEnded:
		g.onTurnAdvanced()
	}
	return res
}

// failAction reports a rejected action to its sender.
// Assumes lock is held by caller.
func (g *BuracoGame) failAction(playerID uuid.UUID, message string) {
	g.fireEventToPlayer(playerID, GameEvent{
		Type:    EventPrivateActionFail,
		Payload: map[string]interface{}{"message": message},
	})
}

// onTurnAdvanced bumps the turn counter, announces the new turn and resets the timer.
// Assumes lock is held by caller.
func (g *BuracoGame) onTurnAdvanced() {
	g.TurnID++
	cur := g.engine.CurrentPlayer()
	id, _ := uuid.Parse(cur.ID)
	g.fireEvent(GameEvent{
		Type:    EventGamePlayerTurn,
		User:    &EventUser{ID: id},
		Payload: map[string]interface{}{"turnId": g.TurnID},
	})
	g.scheduleNextTurnTimer()
}

// scheduleNextTurnTimer arms the timer for the current turn.
// Assumes lock is held by caller.
func (g *BuracoGame) scheduleNextTurnTimer() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	if g.TurnDuration <= 0 || g.GameOver {
		return
	}
	turnID := g.TurnID
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.GameOver || g.TurnID != turnID {
			return
		}
		g.handleTimeout()
	})
}

// handleTimeout plays out the current player's turn with the fallback bot.
// Assumes lock is held by caller.
func (g *BuracoGame) handleTimeout() {
	cur := g.engine.CurrentPlayer()
	g.log.WithField("player", cur.ID).Info("turn timed out, playing it automatically")
	g.logAction(uuid.Nil, "turn_timeout", map[string]interface{}{"player": cur.ID})
	quiet := func(a engine.Action) engine.ActionResult { return g.apply(a, false) }
	if _, err := bot.PlayTurn(g.engine.State(), cur.ID, g.fallback, quiet, 200); err != nil {
		g.log.WithError(err).Error("fallback bot could not finish the turn")
	}
}

// EndGame finalizes a finished match and notifies listeners.
// Assumes lock is held by caller.
func (g *BuracoGame) EndGame() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}

	st := g.engine.State()
	var winners []uuid.UUID
	for _, p := range g.Players {
		if st.MatchWinner != engine.TeamNone && p.Team == st.MatchWinner {
			winners = append(winners, p.ID)
		}
	}
	g.logAction(uuid.Nil, string(EventGameEnd), map[string]interface{}{
		"scores":  st.MatchScores,
		"winner":  st.MatchWinner,
		"rounds":  len(st.RoundHistory),
		"winners": winners,
	})
	g.fireEvent(GameEvent{
		Type: EventGameEnd,
		Payload: map[string]interface{}{
			"winnerTeam": int(st.MatchWinner),
			"winners":    winners,
			"scores":     st.MatchScores,
			"rounds":     len(st.RoundHistory),
		},
	})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.LobbyID, winners, st.MatchScores)
	}
}

// fireEvent broadcasts an event to all connected players via the BroadcastFn callback.
// Assumes lock is held by caller.
func (g *BuracoGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn == nil {
		g.log.WithField("event", ev.Type).Debug("BroadcastFn is nil, dropping event")
		return
	}
	g.BroadcastFn(ev)
}

// fireEventToPlayer sends an event to a specific connected player.
// Assumes lock is held by caller.
func (g *BuracoGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		g.log.WithField("event", ev.Type).Debug("BroadcastToPlayerFn is nil, dropping private event")
		return
	}
	if p := g.getPlayerByID(playerID); p != nil && p.Connected {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// sendSyncState sends the current obfuscated game state to a single player.
// Assumes lock is held by caller.
func (g *BuracoGame) sendSyncState(playerID uuid.UUID) {
	state := g.GetCurrentObfuscatedGameState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// broadcastSyncStateToAll sends each connected player their own view of the state.
// Assumes lock is held by caller.
func (g *BuracoGame) broadcastSyncStateToAll() {
	for _, p := range g.Players {
		if p.Connected {
			g.sendSyncState(p.ID)
		}
	}
}

// getPlayerByID returns the seat with the given ID, or nil.
func (g *BuracoGame) getPlayerByID(playerID uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// logAction records a game action in the structured log.
func (g *BuracoGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	fields := logrus.Fields{
		"actionIndex": g.actionIndex,
		"actor":       actorID,
		"action":      actionType,
		"turnId":      g.TurnID,
	}
	for k, v := range payload {
		fields[k] = v
	}
	g.log.WithFields(fields).Debug("game action")
}
