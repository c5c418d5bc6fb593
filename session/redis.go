package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps one browser's values under ckm:session:<sid>:<key>.
// The console cookie carries only the sid.
type RedisStorage struct {
	client *redis.Client
	sid    string
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, sid string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, sid: sid, ttl: ttl}
}

func sessionKey(sid, key string) string {
	return fmt.Sprintf("ckm:session:%s:%s", sid, key)
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, sessionKey(r.sid, key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, sessionKey(r.sid, key), value, r.ttl).Err()
}

func (r *RedisStorage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = sessionKey(r.sid, k)
	}
	return r.client.Del(ctx, full...).Err()
}
