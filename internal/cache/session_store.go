package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side state behind one opaque bearer token. ActorID
// is the role-scoped profile id (student id, lecturer id) or the user id for
// admins.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ActorID   string    `json:"actor_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore keeps sessions in redis under a TTL so tokens expire instead
// of living forever.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) key(token string) string {
	return "session:" + token
}

// Create mints a new opaque token and persists the session under it.
func (s *SessionStore) Create(ctx context.Context, userID, actorID, role string) (*Session, error) {
	if s.client == nil {
		return nil, ErrCacheNotAvailable
	}

	session := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ActorID:   actorID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(session.Token), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// Get resolves a token to its session, refreshing the TTL on hit.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	if s.client == nil {
		return nil, ErrCacheNotAvailable
	}

	data, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Sliding expiry: activity keeps the session alive.
	if err := s.client.Expire(ctx, s.key(token), s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to refresh session ttl: %w", err)
	}

	return &session, nil
}

// Delete removes a session; deleting an unknown token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if s.client == nil {
		return ErrCacheNotAvailable
	}
	return s.client.Del(ctx, s.key(token)).Err()
}
