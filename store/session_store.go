// Package store holds the gateway's durable local state: persisted sessions
// and the denormalized order snapshot cache. Each store has a production
// implementation and an in-memory one for tests.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/markethub/storefront-gateway/models"
)

// SessionStore persists sessions keyed by bearer token. Load must treat
// corrupt or missing entries as "no session", never as an error worth
// crashing over.
type SessionStore interface {
	Save(ctx context.Context, session *models.Session) error
	Load(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

const sessionKeyPrefix = "session:"

// decodeSession turns a stored value back into a session. A literal
// "undefined" (seen persisted by older storefront builds), unparseable JSON,
// or an entry violating the session invariant all yield nil.
func decodeSession(raw string) *models.Session {
	if raw == "" || raw == "undefined" || raw == "null" {
		return nil
	}
	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil
	}
	if !session.IsAuthenticated() {
		return nil
	}
	return &session
}

type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.Session) error {
	if session == nil || session.Token == "" {
		return fmt.Errorf("cannot persist empty session")
	}
	buf, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+session.Token, buf, s.ttl).Err(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, token string) (*models.Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decodeSession(raw), nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// MemorySessionStore backs tests and single-node development. Values are
// kept as raw strings so tests can seed corrupt entries.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]string)}
}

func (s *MemorySessionStore) Save(_ context.Context, session *models.Session) error {
	if session == nil || session.Token == "" {
		return fmt.Errorf("cannot persist empty session")
	}
	buf, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = string(buf)
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	return decodeSession(raw), nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// SaveRaw stores an arbitrary value under a token, bypassing encoding.
// Lets tests exercise hydration against corrupt persisted state.
func (s *MemorySessionStore) SaveRaw(token, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = raw
}

func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
