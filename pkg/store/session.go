package store

import (
	"fmt"
	"strings"
	"time"
)

// Document represents a retrieved knowledge base passage flowing through the
// retrieval pipeline. It lives only for the duration of one pipeline run.
type Document struct {
	ID          string                 `json:"id"`
	Content     string                 `json:"content"`
	Source      string                 `json:"source"`
	Metadata    map[string]interface{} `json:"metadata"`
	Score       float64                `json:"score"`        // vector similarity, [0,1]
	RerankScore *float64               `json:"rerank_score"` // set by the reranker
}

// FormattedSource returns a human-readable provenance label for the document.
func (d Document) FormattedSource() string {
	source := d.Source
	if source == "" {
		for _, key := range []string{"source", "file_path", "filename", "title"} {
			if v, ok := d.Metadata[key].(string); ok && v != "" {
				source = v
				break
			}
		}
	}
	if source == "" {
		source = "Documento Interno"
	}

	if page, ok := pageNumber(d.Metadata); ok {
		return fmt.Sprintf("%s (página %v)", source, page)
	}
	return source
}

func pageNumber(metadata map[string]interface{}) (interface{}, bool) {
	for _, key := range []string{"page", "page_number"} {
		if v, ok := metadata[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Turn is one exchange in a conversation. Turns are created once per
// processed message and never mutated afterwards.
type Turn struct {
	Timestamp        time.Time              `json:"timestamp"`
	UserMessage      string                 `json:"user_message"`
	AssistantMessage string                 `json:"assistant_message"`
	Intent           string                 `json:"intent"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// Session is the per-conversation aggregate: an append-only turn log plus
// the clarification state tracked across turns.
type Session struct {
	ID    string `json:"id"`
	Turns []Turn `json:"turns"`

	// Clarification state. PendingTopic is only set while awaiting;
	// ClarificationAttempts increases while awaiting and resets to zero
	// when clarification is resolved or abandoned.
	AwaitingClarification bool   `json:"awaiting_clarification"`
	PendingTopic          string `json:"pending_topic"`
	ClarificationAttempts int    `json:"clarification_attempts"`

	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// NewSession creates an empty session for the given identifier.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// Clone returns a copy that is safe to read while the original keeps
// receiving turns. Turn metadata is written once at record time and
// never mutated afterwards, so the maps can be shared.
func (s *Session) Clone() *Session {
	c := *s
	c.Turns = make([]Turn, len(s.Turns))
	copy(c.Turns, s.Turns)
	return &c
}

// RecordTurn appends a turn to the session log. Insertion order is
// chronological order.
func (s *Session) RecordTurn(turn Turn) {
	s.Turns = append(s.Turns, turn)
	s.LastActiveAt = turn.Timestamp
}

// LastTurn returns the most recent turn, or nil for a fresh session.
func (s *Session) LastTurn() *Turn {
	if len(s.Turns) == 0 {
		return nil
	}
	return &s.Turns[len(s.Turns)-1]
}

func (s *Session) IsAwaitingClarification() bool {
	return s.AwaitingClarification
}

// SetAwaiting marks the session as waiting for the user to clarify an
// ambiguous request. The topic is a best-effort hint, may be empty.
func (s *Session) SetAwaiting(topic string) {
	s.AwaitingClarification = true
	s.PendingTopic = topic
	s.ClarificationAttempts++
}

// ClearAwaiting resets the clarification state.
func (s *Session) ClearAwaiting() {
	s.AwaitingClarification = false
	s.PendingTopic = ""
	s.ClarificationAttempts = 0
}

// Summarize renders the last N turns for prompt construction. Safe to call
// with any lastN; a fresh session yields a fixed placeholder.
func (s *Session) Summarize(lastN int) string {
	if len(s.Turns) == 0 {
		return "Sem histórico anterior."
	}
	start := len(s.Turns) - lastN
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	for i, turn := range s.Turns[start:] {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("user: ")
		b.WriteString(turn.UserMessage)
		b.WriteString("\nassistant: ")
		b.WriteString(turn.AssistantMessage)
	}
	return b.String()
}

// SessionStore abstracts session persistence. Implementations handle the
// inactivity TTL; callers always receive either a live session or a miss,
// never an expired one.
type SessionStore interface {
	Get(sessionID string) (*Session, bool)
	Save(session *Session)
	Delete(sessionID string)
	List() []*Session
}
