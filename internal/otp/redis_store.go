package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp:challenge:"

// RedisStore keeps one JSON value per subject. Keys expire retention after
// the challenge itself, so no purge pass is needed.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisStore builds a Redis-backed challenge store.
func NewRedisStore(client *redis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{client: client, retention: retention}
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func redisKey(subjectID string) string {
	return redisKeyPrefix + subjectID
}

// Replace overwrites the subject's key with a single SET.
func (s *RedisStore) Replace(ctx context.Context, c Challenge) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	ttl := c.ExpiresAt.Sub(c.CreatedAt) + s.retention
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, redisKey(c.SubjectID), payload, ttl).Err()
}

func (s *RedisStore) Active(ctx context.Context, subjectID string) (Challenge, error) {
	c, err := s.load(ctx, s.client, subjectID)
	if err != nil {
		return Challenge{}, err
	}
	if c.Verified {
		return Challenge{}, ErrNoChallenge
	}
	return c, nil
}

// MarkVerified flips the verified flag inside a WATCH transaction. A
// concurrent writer aborts the transaction and the caller sees ErrNoChallenge.
func (s *RedisStore) MarkVerified(ctx context.Context, subjectID, challengeID string) error {
	key := redisKey(subjectID)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		c, err := s.load(ctx, tx, subjectID)
		if err != nil {
			return err
		}
		if c.ID != challengeID || c.Verified {
			return ErrNoChallenge
		}
		c.Verified = true
		payload, err := json.Marshal(c)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, redis.KeepTTL)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrNoChallenge
	}
	return err
}

// PurgeExpired is a no-op; key TTLs remove old challenges.
func (s *RedisStore) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s *RedisStore) load(ctx context.Context, cmd getter, subjectID string) (Challenge, error) {
	raw, err := cmd.Get(ctx, redisKey(subjectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Challenge{}, ErrNoChallenge
	}
	if err != nil {
		return Challenge{}, err
	}
	var c Challenge
	if err := json.Unmarshal(raw, &c); err != nil {
		return Challenge{}, fmt.Errorf("otp: decode challenge: %w", err)
	}
	return c, nil
}
