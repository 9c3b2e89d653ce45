package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emberquest/api/internal/game"
	"github.com/emberquest/api/internal/quest"
	"github.com/emberquest/api/internal/world"
)

var ErrSessionNotFound = errors.New("session not found")

// LiveSession pairs a running game session with its bookkeeping. Live
// sessions are in-memory only: a reload is a new attempt.
type LiveSession struct {
	Token      string
	ScenarioID string
	Scenario   string
	Game       *game.Session
	StartedAt  time.Time

	mu       sync.Mutex
	recorded bool
}

// MarkRecorded flips the recorded flag exactly once, so a terminal
// outcome is persisted a single time even if effects repeat.
func (l *LiveSession) MarkRecorded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.recorded {
		return false
	}
	l.recorded = true
	return true
}

// SessionRegistry holds all live sessions, keyed by bearer token.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*LiveSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*LiveSession)}
}

// Create builds a session for the scenario's quest content.
func (r *SessionRegistry) Create(sc Scenario, opts ...game.Option) (*LiveSession, error) {
	defs := make([]quest.Definition, 0, len(sc.Quests))
	points := make([]world.FirePoint, 0, len(sc.Quests))
	for _, q := range sc.Quests {
		defs = append(defs, quest.Definition{
			ID:             q.ID,
			Title:          q.Title,
			Riddle:         q.Riddle,
			SuccessMessage: q.SuccessMessage,
			Trigger:        quest.Trigger(q.Trigger),
			Caller:         q.Caller,
		})
		points = append(points, world.FirePoint{QuestID: q.ID, Position: q.Fire})
	}

	cfg := game.DefaultConfig()
	if sc.QuestSeconds > 0 {
		cfg.QuestDuration = time.Duration(sc.QuestSeconds) * time.Second
	}

	g, err := game.NewSession(defs, points, cfg, opts...)
	if err != nil {
		return nil, err
	}

	live := &LiveSession{
		Token:      uuid.NewString(),
		ScenarioID: sc.ID,
		Scenario:   sc.Name,
		Game:       g,
		StartedAt:  time.Now().UTC(),
	}

	r.mu.Lock()
	r.sessions[live.Token] = live
	r.mu.Unlock()
	return live, nil
}

func (r *SessionRegistry) Get(token string) (*LiveSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.sessions[token]
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *SessionRegistry) Delete(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
