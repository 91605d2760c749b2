// Package session mirrors the browser client's locally persisted state
// (message log, theme flag, selected voice) server-side so a session
// can be restored across devices. The relay never reads any of this.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

// State is the persisted blob, shaped after the browser's storage keys
// (moxie_messages, moxie_theme, moxie_voice_index). Messages are kept
// opaque: the store round-trips whatever log shape the client keeps.
type State struct {
	Messages   json.RawMessage `json:"messages"`
	Theme      string          `json:"theme"`
	VoiceIndex int             `json:"voice_index"`
}

type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*State, error)
	Save(ctx context.Context, id uuid.UUID, state *State) error
}

const defaultTTL = 30 * 24 * time.Hour

// RedisStore keeps each session as one JSON value with a rolling TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: defaultTTL}
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*State, error) {
	val, err := s.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) Save(ctx context.Context, id uuid.UUID, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}
