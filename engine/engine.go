package engine

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Engine processes the actions of one match. It is not safe for concurrent
// use.
type Engine struct {
	state GameState
	rng   *rand.Rand
	log   logrus.FieldLogger
}

type options struct {
	gameID uuid.UUID
	rules  Rules
	ruled  bool
	seed   uint64
	seeded bool
	logger logrus.FieldLogger
}

// Option configures an Engine.
type Option func(options) options

// WithGameID fixes the game id instead of generating one.
func WithGameID(id uuid.UUID) Option {
	return func(o options) options {
		o.gameID = id
		return o
	}
}

// WithRules overrides the match rules. Zero fields take their defaults.
func WithRules(r Rules) Option {
	return func(o options) options {
		o.rules = r
		o.ruled = true
		return o
	}
}

// WithSeed makes shuffles reproducible.
func WithSeed(seed uint64) Option {
	return func(o options) options {
		o.seed = seed
		o.seeded = true
		return o
	}
}

// WithLogger sets the trace logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o options) options {
		o.logger = l
		return o
	}
}

func buildOptions(opts []Option) options {
	o := options{rules: DefaultRules()}
	for _, opt := range opts {
		o = opt(o)
	}
	o.rules = o.rules.withDefaults()
	if o.logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		o.logger = quiet
	}
	if !o.seeded {
		o.seed = rand.Uint64()
	}
	return o
}

// New starts a match for players and deals the first round. Two or four
// players are supported. Players with no team are seated alternately on
// teams one and two.
func New(players []Player, opts ...Option) (*Engine, error) {
	o := buildOptions(opts)
	seats, err := seatPlayers(players)
	if err != nil {
		return nil, err
	}
	id := o.gameID
	if id == uuid.Nil {
		id = uuid.New()
	}
	e := &Engine{
		state: GameState{
			ID:      id,
			Players: seats,
			Phase:   PhaseWaiting,
			Rules:   o.rules,
		},
		rng: rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15)),
	}
	e.log = o.logger.WithField("game", id.String())
	if err := e.startRound(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewFromState resumes a match from an existing state, such as a stored
// snapshot or a hand-built test fixture. The state is copied. An explicit
// WithRules replaces the state's rules; otherwise the state keeps its own and
// falls back to the defaults only when it carries none.
func NewFromState(state GameState, opts ...Option) (*Engine, error) {
	o := buildOptions(opts)
	if _, err := seatPlayers(state.Players); err != nil {
		return nil, err
	}
	if state.CurrentTurn < 0 || state.CurrentTurn >= len(state.Players) {
		return nil, fmt.Errorf("current turn %d out of range", state.CurrentTurn)
	}
	st := state.Clone()
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if o.ruled || st.Rules == (Rules{}) {
		st.Rules = o.rules
	}
	st.Rules = st.Rules.withDefaults()
	e := &Engine{
		state: st,
		rng:   rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15)),
	}
	e.log = o.logger.WithField("game", st.ID.String())
	return e, nil
}

// seatPlayers validates the roster and assigns missing teams.
func seatPlayers(players []Player) ([]Player, error) {
	n := len(players)
	if n != 2 && n != 4 {
		return nil, fmt.Errorf("need 2 or 4 players, got %d", n)
	}
	seats := make([]Player, n)
	ids := make(map[string]struct{}, n)
	var perTeam [2]int
	for i, p := range players {
		if p.ID == "" {
			return nil, fmt.Errorf("player %d has no id", i)
		}
		if _, dup := ids[p.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %q", p.ID)
		}
		ids[p.ID] = struct{}{}
		if p.Team == TeamNone {
			p.Team = Team(i%2 + 1)
		}
		if p.Team != TeamOne && p.Team != TeamTwo {
			return nil, fmt.Errorf("player %q has invalid team %d", p.ID, p.Team)
		}
		perTeam[p.Team.index()]++
		p.Hand = cloneCards(p.Hand)
		seats[i] = p
	}
	if perTeam[0] != perTeam[1] {
		return nil, fmt.Errorf("teams are unbalanced: %d vs %d", perTeam[0], perTeam[1])
	}
	return seats, nil
}

// State returns a detached snapshot of the game state.
func (e *Engine) State() GameState { return e.state.Clone() }

// CurrentPlayer returns a copy of the player whose turn it is.
func (e *Engine) CurrentPlayer() Player {
	p := e.state.CurrentPlayer()
	p.Hand = cloneCards(p.Hand)
	return p
}

// SetConnected records a player's connectivity. It does not affect the rules.
func (e *Engine) SetConnected(playerID string, connected bool) error {
	i := e.state.PlayerIndex(playerID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	e.state.Players[i].Connected = connected
	return nil
}

// ProcessAction validates and applies one action. It never panics on a rule
// violation: failures come back with Success false and leave the state as
// it was.
func (e *Engine) ProcessAction(a Action) ActionResult {
	if a == nil {
		return e.reject(nil, ErrUnknownAction)
	}
	log := e.log.WithFields(logrus.Fields{"player": a.Actor(), "action": a.Kind()})

	if e.state.Phase == PhaseMatchFinished {
		return e.reject(log, ErrMatchFinished)
	}
	seat := e.state.PlayerIndex(a.Actor())
	if seat < 0 {
		return e.reject(log, fmt.Errorf("%w: %s", ErrPlayerNotFound, a.Actor()))
	}
	if seat != e.state.CurrentTurn {
		return e.reject(log, fmt.Errorf("%w: waiting on %s", ErrNotYourTurn, e.state.CurrentPlayer().ID))
	}

	snap := e.state.Save()
	aux := &Auxiliary{}
	var (
		msg string
		err error
	)
	switch act := a.(type) {
	case Draw:
		err = e.draw(seat, act)
	case PlayMelds:
		err = e.playMelds(seat, act)
	case Discard:
		err = e.discard(seat, act, aux)
	case GoOut:
		msg, err = e.goOut(seat, act, aux)
	case AddToMeld:
		err = e.addToMeld(seat, act)
	case ReplaceWildcard:
		err = e.replaceWildcard(seat, act)
	case EndTurn:
		err = e.endTurn(seat, aux)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	if err != nil {
		e.state.Restore(snap)
		return e.reject(log, err)
	}

	log.WithField("cards", e.state.CardCount()).Debug("action applied")
	st := e.state.Clone()
	return ActionResult{
		Success:   true,
		Message:   msg,
		State:     &st,
		GameEnded: e.state.Phase == PhaseMatchFinished,
		Aux:       aux,
	}
}

func (e *Engine) reject(log logrus.FieldLogger, err error) ActionResult {
	if log == nil {
		log = e.log
	}
	log.WithError(err).Info("action rejected")
	return ActionResult{Success: false, Message: err.Error(), Err: err}
}

// startRound deals a fresh round, keeping match scores and history.
func (e *Engine) startRound() error {
	g := &e.state
	d, err := Deal(Shuffle(NewDeck(), e.rng), len(g.Players), g.Rules.HandSize, g.Rules.MortoSize)
	if err != nil {
		return err
	}
	g.Round++
	for i := range g.Players {
		g.Players[i].Hand = d.Hands[i]
	}
	g.Stock = d.Stock
	g.Discard = nil
	g.Mortos = d.Mortos
	g.MortoTaken = [NumMortos]bool{}
	g.MortoTakenBy = [NumMortos]Team{}
	g.Sequences = [2][]Sequence{}
	g.RoundScores = [2]int{}
	g.CurrentTurn = (g.Round - 1) % len(g.Players)
	g.Turn = TurnState{}
	g.Phase = PhasePlaying

	e.log.WithFields(logrus.Fields{"round": g.Round, "starter": g.CurrentPlayer().ID}).Info("round dealt")
	return nil
}
