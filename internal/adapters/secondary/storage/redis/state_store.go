package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/state"
	"github.com/redis/go-redis/v9"
)

const (
	stateKeyPrefix = "fsm:"
	stateField     = "state"
	dataPrefix     = "data:"
)

// StateStore состояния диалогов в redis hash: fsm:<user_id> -> {state, data:<key>}
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore ttl <= 0 - без истечения
func NewStateStore(client *redis.Client, ttl time.Duration) state.Store {
	return &StateStore{client: client, ttl: ttl}
}

func stateKey(userID int64) string {
	return fmt.Sprintf("%s%d", stateKeyPrefix, userID)
}

func (s *StateStore) Get(ctx context.Context, userID int64) (*domain.Conversation, error) {
	fields, err := s.client.HGetAll(ctx, stateKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	conv := domain.NewConversation()
	for field, value := range fields {
		if field == stateField {
			conv.State = domain.State(value)
			continue
		}
		if key, ok := strings.CutPrefix(field, dataPrefix); ok {
			conv.Data[key] = value
		}
	}
	return conv, nil
}

func (s *StateStore) SetState(ctx context.Context, userID int64, st domain.State) error {
	return s.hset(ctx, userID, map[string]any{stateField: string(st)})
}

func (s *StateStore) UpdateData(ctx context.Context, userID int64, data map[string]string) error {
	if len(data) == 0 {
		return nil
	}
	values := make(map[string]any, len(data))
	for k, v := range data {
		values[dataPrefix+k] = v
	}
	return s.hset(ctx, userID, values)
}

func (s *StateStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, stateKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *StateStore) hset(ctx context.Context, userID int64, values map[string]any) error {
	key := stateKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}
