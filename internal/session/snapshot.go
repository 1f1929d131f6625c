package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"duobot/internal/domain"
)

// ErrNoSnapshot indica que no hay estado guardado para el uid.
var ErrNoSnapshot = errors.New("no snapshot for uid")

// SnapshotStore persiste el DialogueState como blob JSON por uid para
// sobrevivir reinicios del proceso. Siempre fuera del camino de la petición.
type SnapshotStore interface {
	Save(ctx context.Context, uid string, state *domain.DialogueState) error
	Load(ctx context.Context, uid string) (*domain.DialogueState, error)
	Delete(ctx context.Context, uid string) error
}

type redisSnapshotStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSnapshotStore crea un SnapshotStore sobre redis con TTL por entrada.
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) SnapshotStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &redisSnapshotStore{client: client, prefix: "convo:state:", ttl: ttl}
}

func (s *redisSnapshotStore) Save(ctx context.Context, uid string, state *domain.DialogueState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+uid, data, s.ttl).Err()
}

func (s *redisSnapshotStore) Load(ctx context.Context, uid string) (*domain.DialogueState, error) {
	data, err := s.client.Get(ctx, s.prefix+uid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	var state domain.DialogueState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *redisSnapshotStore) Delete(ctx context.Context, uid string) error {
	return s.client.Del(ctx, s.prefix+uid).Err()
}
