package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/pkg/logger"
	"ai-helpdesk-be/pkg/ai/router"
	"ai-helpdesk-be/pkg/events"
	"ai-helpdesk-be/pkg/nats"
	"ai-helpdesk-be/pkg/rag/session"
	"ai-helpdesk-be/pkg/store"
)

// IAssistantService defines the assistant service interface
type IAssistantService interface {
	SendMessage(ctx context.Context, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetSessionInfo(sessionId string) (*dto.SessionInfoResponse, error)
	ListSessions() []*dto.SessionInfoResponse
	DeleteSession(sessionId string) error
}

type assistantService struct {
	router         *router.Router
	sessionManager *session.Manager
	publisher      *nats.Publisher
	aiTimeout      time.Duration
	log            logger.ILogger
}

// NewAssistantService creates a new assistant service. The NATS publisher
// may be nil when the event bus is not configured.
func NewAssistantService(
	r *router.Router,
	sessionManager *session.Manager,
	publisher *nats.Publisher,
	aiTimeout time.Duration,
	log logger.ILogger,
) IAssistantService {
	if aiTimeout <= 0 {
		aiTimeout = 30 * time.Second
	}
	return &assistantService{
		router:         r,
		sessionManager: sessionManager,
		publisher:      publisher,
		aiTimeout:      aiTimeout,
		log:            log,
	}
}

func (s *assistantService) SendMessage(ctx context.Context, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	result, err := s.router.Process(ctx, request.SessionId, request.Message)
	if err != nil {
		return nil, err
	}

	s.log.Info("assistant", "Message processed", map[string]interface{}{
		"session_id": request.SessionId,
		"intent":     string(result.Intent),
		"handler":    result.Handler,
	})

	s.publishTurnRecorded(request.SessionId, result)

	return &dto.SendMessageResponse{
		SessionId: request.SessionId,
		Response:  result.Response,
		Intent:    string(result.Intent),
		Sources:   mapSources(result.Sources),
		Metadata:  result.Metadata,
	}, nil
}

func (s *assistantService) GetSessionInfo(sessionId string) (*dto.SessionInfoResponse, error) {
	sess, found := s.sessionManager.Get(sessionId)
	if !found {
		return nil, fmt.Errorf("session %s not found", sessionId)
	}
	return mapSessionInfo(sess), nil
}

func (s *assistantService) ListSessions() []*dto.SessionInfoResponse {
	sessions := s.sessionManager.List()
	infos := make([]*dto.SessionInfoResponse, len(sessions))
	for i, sess := range sessions {
		infos[i] = mapSessionInfo(sess)
	}
	return infos
}

func (s *assistantService) DeleteSession(sessionId string) error {
	if _, found := s.sessionManager.Get(sessionId); !found {
		return fmt.Errorf("session %s not found", sessionId)
	}
	s.sessionManager.Delete(sessionId)
	s.log.Info("assistant", "Session deleted", map[string]interface{}{
		"session_id": sessionId,
	})
	s.publishEvent(sessionId, events.NewSessionDeleted(sessionId))
	return nil
}

func (s *assistantService) publishTurnRecorded(sessionId string, result *router.Result) {
	s.publishEvent(sessionId, events.NewTurnRecorded(sessionId, string(result.Intent), len(result.Sources)))
}

// publishEvent emits best-effort; the bus being down must never affect
// the user-facing response.
func (s *assistantService) publishEvent(sessionId string, event events.Event) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Warn("assistant", "Failed to publish event", map[string]interface{}{
				"session_id": sessionId,
				"event_type": event.EventType(),
				"error":      err.Error(),
			})
		}
	}()
}

func mapSources(documents []store.Document) []dto.SourceDTO {
	if len(documents) == 0 {
		return nil
	}
	sources := make([]dto.SourceDTO, len(documents))
	for i, doc := range documents {
		preview := truncateRunes(doc.Content, 500)
		sources[i] = dto.SourceDTO{
			Rank:        i + 1,
			Source:      doc.FormattedSource(),
			Score:       doc.Score,
			RerankScore: doc.RerankScore,
			Preview:     preview,
		}
	}
	return sources
}

// truncateRunes cuts s to at most maxBytes without splitting a rune
func truncateRunes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func mapSessionInfo(sess *store.Session) *dto.SessionInfoResponse {
	return &dto.SessionInfoResponse{
		SessionId:             sess.ID,
		TurnCount:             len(sess.Turns),
		AwaitingClarification: sess.AwaitingClarification,
		PendingTopic:          sess.PendingTopic,
		ClarificationAttempts: sess.ClarificationAttempts,
		CreatedAt:             sess.CreatedAt,
		LastActiveAt:          sess.LastActiveAt,
	}
}
