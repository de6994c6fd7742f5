package shop

import (
	"sync"

	"github.com/google/uuid"
	"github.com/westgate-labs/happyshop/internal/trolley"
)

// Session is one customer interaction: a uuid and the trolley it exclusively
// owns. The mutex serializes requests racing on the same session; trolleys are
// never shared between sessions.
type Session struct {
	ID      string
	Trolley *trolley.Trolley

	mu sync.Mutex
}

// Lock serializes access to the session's trolley for one request.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

func (m *SessionManager) Create() *Session {
	session := &Session{
		ID:      uuid.New().String(),
		Trolley: trolley.New(),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session
}

// Get returns the session with the given id, or nil.
func (m *SessionManager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}
