package state

import (
	"log"

	"ai-helpdesk-be/pkg/store"
)

// Manager handles clarification state transitions on a session
type Manager struct {
	maxAttempts int
	logger      *log.Logger
}

// NewManager creates a new state manager. maxAttempts caps how many
// consecutive clarification rounds a session may go through before the
// conversation is forced back to normal handling.
func NewManager(maxAttempts int, logger *log.Logger) *Manager {
	if maxAttempts <= 0 {
		maxAttempts = 2
	}
	return &Manager{
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// MaxAttempts returns the configured clarification attempt cap
func (m *Manager) MaxAttempts() int {
	return m.maxAttempts
}

// BeginClarification moves the session into the awaiting state, recording
// the best-effort topic hint. Repeated calls increment the attempt counter.
func (m *Manager) BeginClarification(session *store.Session, topic string) {
	session.SetAwaiting(topic)
	m.logger.Printf("[STATE] Session %s awaiting clarification (topic=%q, attempt=%d)",
		session.ID, session.PendingTopic, session.ClarificationAttempts)
}

// Resolve clears the clarification state when a concrete label arrives
func (m *Manager) Resolve(session *store.Session) {
	if !session.IsAwaitingClarification() {
		return
	}
	session.ClearAwaiting()
	m.logger.Printf("[STATE] Session %s clarification resolved", session.ID)
}

// ShouldAbandon reports whether the session has exhausted its clarification
// attempts and must fall back to general handling.
func (m *Manager) ShouldAbandon(session *store.Session) bool {
	return session.IsAwaitingClarification() && session.ClarificationAttempts >= m.maxAttempts
}

// Abandon forces the session back to idle after too many failed rounds
func (m *Manager) Abandon(session *store.Session) {
	session.ClearAwaiting()
	m.logger.Printf("[STATE] Session %s clarification abandoned after %d attempts", session.ID, m.maxAttempts)
}
