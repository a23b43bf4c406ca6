package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-helpdesk-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "helpdesk:session:"

// SessionRepository persists sessions in Redis so state survives restarts
// and can be shared between instances. Redis expiry implements the TTL.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewSessionRepository(client *redis.Client, ttl time.Duration, logger *log.Logger) store.SessionStore {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &SessionRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	data, err := json.Marshal(session)
	if err != nil {
		r.logger.Printf("[ERROR] Failed to marshal session %s: %v", session.ID, err)
		return
	}
	if err := r.client.Set(context.Background(), keyPrefix+session.ID, data, r.ttl).Err(); err != nil {
		r.logger.Printf("[ERROR] Failed to save session %s: %v", session.ID, err)
	}
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	data, err := r.client.Get(context.Background(), keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.logger.Printf("[ERROR] Failed to load session %s: %v", sessionID, err)
		return nil, false
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		r.logger.Printf("[ERROR] Failed to unmarshal session %s: %v", sessionID, err)
		return nil, false
	}
	return &session, true
}

func (r *SessionRepository) Delete(sessionID string) {
	if err := r.client.Del(context.Background(), keyPrefix+sessionID).Err(); err != nil {
		r.logger.Printf("[ERROR] Failed to delete session %s: %v", sessionID, err)
	}
}

func (r *SessionRepository) List() []*store.Session {
	ctx := context.Background()
	sessions := make([]*store.Session, 0)

	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var session store.Session
		if err := json.Unmarshal(data, &session); err != nil {
			continue
		}
		sessions = append(sessions, &session)
	}
	if err := iter.Err(); err != nil {
		r.logger.Printf("[ERROR] Failed to scan sessions: %v", err)
	}
	return sessions
}
