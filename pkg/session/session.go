package session

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const CookieName = "session_id"

var ErrNotFound = errors.New("session not found")

type Store interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps session id -> user id under session:<id>, refreshed on read.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(id string) string { return "session:" + id }

func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	id := uuid.NewString()
	if err := s.client.Set(ctx, key(id), userID, s.ttl).Err(); err != nil {
		return "", errors.Wrap(err, "store session")
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, ErrNotFound
	}

	val, err := s.client.GetEx(ctx, key(id), s.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, errors.Wrap(err, "load session")
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "corrupt session %s", id)
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return errors.Wrap(s.client.Del(ctx, key(id)).Err(), "delete session")
}
