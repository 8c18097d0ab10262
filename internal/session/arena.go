package session

import (
	"sync"

	"github.com/KapJ1coH/roomchat/internal/metrics"
)

// Arena tracks live sessions by id so connection-scoped state has one home
// and cleanup on disconnect is a single delete. It guards only its own map;
// chat state lives in the actor.
type Arena struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{sessions: make(map[string]*Session)}
}

// Add registers a session.
func (a *Arena) Add(s *Session) {
	a.mu.Lock()
	a.sessions[s.ID] = s
	size := len(a.sessions)
	a.mu.Unlock()
	metrics.OpenSessions.Set(float64(size))
}

// Remove drops a session by id.
func (a *Arena) Remove(id string) {
	a.mu.Lock()
	delete(a.sessions, id)
	size := len(a.sessions)
	a.mu.Unlock()
	metrics.OpenSessions.Set(float64(size))
}

// Len reports the number of live sessions.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}
