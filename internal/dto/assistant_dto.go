package dto

import "time"

type SendMessageRequest struct {
	SessionId string `json:"session_id" validate:"required,max=128"`
	Message   string `json:"message" validate:"required"`
}

type SourceDTO struct {
	Rank        int      `json:"rank"`
	Source      string   `json:"source"`
	Score       float64  `json:"score"`
	RerankScore *float64 `json:"rerank_score,omitempty"`
	Preview     string   `json:"content_preview,omitempty"`
}

type SendMessageResponse struct {
	SessionId string                 `json:"session_id"`
	Response  string                 `json:"response"`
	Intent    string                 `json:"intent"`
	Sources   []SourceDTO            `json:"sources,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionInfoResponse struct {
	SessionId             string    `json:"session_id"`
	TurnCount             int       `json:"turn_count"`
	AwaitingClarification bool      `json:"awaiting_clarification"`
	PendingTopic          string    `json:"pending_topic,omitempty"`
	ClarificationAttempts int       `json:"clarification_attempts"`
	CreatedAt             time.Time `json:"created_at"`
	LastActiveAt          time.Time `json:"last_active_at"`
}
