// Package session stores the web tier's own record of who is logged in.
// This record stays authoritative for the dashboard even when the MQTT
// broker is unreachable; the retained control message is only how the
// device learns about it.
package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNoSession is returned when no user is logged in for a device.
var ErrNoSession = errors.New("no active session")

// Store is the web session record, keyed by device.
type Store interface {
	Current(ctx context.Context, deviceID string) (int64, error)
	Set(ctx context.Context, deviceID string, userID int64, ttl time.Duration) error
	Clear(ctx context.Context, deviceID string) error
}

// RedisStore keeps sessions in Redis with a TTL.
type RedisStore struct {
	c *redis.Client
}

func NewRedisStore(c *redis.Client) *RedisStore { return &RedisStore{c: c} }

func sessionKey(deviceID string) string { return "session:" + deviceID }

func (s *RedisStore) Current(ctx context.Context, deviceID string) (int64, error) {
	val, err := s.c.Get(ctx, sessionKey(deviceID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, ErrNoSession
		}
		return 0, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (s *RedisStore) Set(ctx context.Context, deviceID string, userID int64, ttl time.Duration) error {
	return s.c.Set(ctx, sessionKey(deviceID), strconv.FormatInt(userID, 10), ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, deviceID string) error {
	return s.c.Del(ctx, sessionKey(deviceID)).Err()
}
