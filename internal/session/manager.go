package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Manager owns every live session. Its map is guarded by a mutex because
// it is read from both the tick thread (dispatcher's Tick call) and
// administrative queries (the admin console's `list`/`info` commands).
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	log      *zap.SugaredLogger
}

// NewManager returns an empty session manager.
func NewManager(log *zap.SugaredLogger) *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session), log: log}
}

// Create seeds and registers a new session for the given roster.
func (m *Manager) Create(roster []RosterMember, kind Kind, mapID uint32, mapWidth, mapHeight float64) *Session {
	id := uuid.New()
	s := New(id, roster, kind, mapID, mapWidth, mapHeight, m.log)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.log.Infow("session created", "session_id", id, "kind", kind, "players", len(roster))
	return s
}

// Get returns the session for an id, if it is still live.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session from the registry; used once its Ending
// game_over broadcast has gone out.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// List returns a snapshot of every live session, for admin queries.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Tick advances every Running session once. Each session is advanced on
// its own errgroup goroutine since their worlds are disjoint; the call
// blocks until every session has finished its Update pass for this
// tick, which is the barrier the dispatcher needs before it drains
// outbound queues.
func (m *Manager) Tick(dt time.Duration) error {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	var g errgroup.Group
	for _, s := range sessions {
		s := s
		g.Go(func() error {
			s.Advance(dt)
			return nil
		})
	}
	return g.Wait()
}

// EndingSessions returns every session currently in the Ending state,
// so the dispatcher can finish draining their last game_over broadcast
// before the manager removes them.
func (m *Manager) EndingSessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Session
	for _, s := range m.sessions {
		if s.state == Ending {
			out = append(out, s)
		}
	}
	return out
}
