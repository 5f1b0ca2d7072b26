package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aarti98/ConferenceBookingSystem/internal/models"
)

// SessionStore keeps live session tokens. Expiry is evaluated lazily by the
// auth service on lookup; stores only need to persist and delete.
type SessionStore interface {
	Put(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// MemorySessions is the default in-process session store.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemorySessions returns an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]models.Session)}
}

func (m *MemorySessions) Put(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Token] = *session
	return nil
}

func (m *MemorySessions) Get(_ context.Context, token string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[token]
	if !ok {
		return nil, fmt.Errorf("%w: session", models.ErrNotFound)
	}
	return &session, nil
}

func (m *MemorySessions) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// RedisSessions stores sessions in Redis with a TTL matching the session
// window, so abandoned tokens age out server-side as well.
type RedisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessions wraps a Redis client as a session store.
func NewRedisSessions(rdb *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{rdb: rdb, ttl: ttl}
}

func sessionKey(token string) string { return "session:" + token }

func (r *RedisSessions) Put(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.rdb.Set(ctx, sessionKey(session.Token), data, r.ttl).Err()
}

func (r *RedisSessions) Get(ctx context.Context, token string) (*models.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: session", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *RedisSessions) Delete(ctx context.Context, token string) error {
	return r.rdb.Del(ctx, sessionKey(token)).Err()
}
