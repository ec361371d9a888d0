package game

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/buraco/engine"
	"github.com/sirupsen/logrus"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already registered")
)

// Registry tracks live games by ID. It is safe for concurrent use; the games
// themselves are guarded by their own Mu.
type Registry struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*BuracoGame
	log   logrus.FieldLogger
}

func NewRegistry(logger logrus.FieldLogger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{games: make(map[uuid.UUID]*BuracoGame), log: logger}
}

// Create builds a game for lobbyID with the given rules and registers it.
func (r *Registry) Create(lobbyID uuid.UUID, rules engine.Rules, opts ...engine.Option) *BuracoGame {
	g := NewBuracoGame(r.log, opts...)
	g.LobbyID = lobbyID
	g.Rules = rules

	r.mu.Lock()
	r.games[g.ID] = g
	r.mu.Unlock()
	r.log.WithFields(logrus.Fields{"game": g.ID, "lobby": lobbyID}).Info("game created")
	return g
}

// Add registers an existing game.
func (r *Registry) Add(g *BuracoGame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[g.ID]; ok {
		return ErrGameExists
	}
	r.games[g.ID] = g
	return nil
}

func (r *Registry) Get(id uuid.UUID) (*BuracoGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (r *Registry) Remove(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(r.games, id)
	r.log.WithField("game", id).Info("game removed")
	return nil
}

// List returns the registered game IDs in a stable order.
func (r *Registry) List() []uuid.UUID {
	r.mu.RLock()
	ids := make([]uuid.UUID, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
