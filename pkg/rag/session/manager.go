package session

import (
	"sync"

	"ai-helpdesk-be/pkg/store"
)

// Manager handles session lifecycle on top of a SessionStore. It also
// serializes message processing per session: concurrent requests for the
// same session id must not interleave clarification-state updates.
type Manager struct {
	store store.SessionStore
	locks sync.Map // session id -> *sync.Mutex
}

// NewManager creates a new session manager
func NewManager(sessionStore store.SessionStore) *Manager {
	return &Manager{store: sessionStore}
}

// LoadOrCreate retrieves the session or creates a fresh one
func (m *Manager) LoadOrCreate(sessionID string) *store.Session {
	session, found := m.store.Get(sessionID)
	if !found {
		session = store.NewSession(sessionID)
	}
	return session
}

// Save persists session state back to the store
func (m *Manager) Save(session *store.Session) {
	m.store.Save(session)
}

// Get retrieves a session without creating one. The returned session is
// a copy: the stored one may still be mutated by an in-flight message,
// so readers never share memory with it.
func (m *Manager) Get(sessionID string) (*store.Session, bool) {
	m.Lock(sessionID)
	defer m.Unlock(sessionID)

	session, found := m.store.Get(sessionID)
	if !found {
		return nil, false
	}
	return session.Clone(), true
}

// List returns copies of all live sessions
func (m *Manager) List() []*store.Session {
	sessions := m.store.List()
	copies := make([]*store.Session, 0, len(sessions))
	for _, session := range sessions {
		m.Lock(session.ID)
		copies = append(copies, session.Clone())
		m.Unlock(session.ID)
	}
	return copies
}

// Delete removes a session from the store. It waits for any in-flight
// message on that session to finish first. The mutex entry stays in the
// map so a concurrent Lock never observes two different mutexes for the
// same id.
func (m *Manager) Delete(sessionID string) {
	m.Lock(sessionID)
	defer m.Unlock(sessionID)
	m.store.Delete(sessionID)
}

// Lock acquires the per-session mutex, creating it on first use
func (m *Manager) Lock(sessionID string) {
	mu, _ := m.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

// Unlock releases the per-session mutex
func (m *Manager) Unlock(sessionID string) {
	if mu, ok := m.locks.Load(sessionID); ok {
		mu.(*sync.Mutex).Unlock()
	}
}
