// Package redisstore keeps recovery tokens in Redis. It is a drop-in
// alternative to the postgres token store for deployments that do not
// want recovery state in the relational database.
//
// Layout: each token lives under one key addressed by its digest, and a
// per-user index key points at the digest currently outstanding for a
// given variant. Both keys carry the token TTL, so expired tokens vanish
// on their own and surface as recovery.ErrNotFound.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/titanpomade/authcore/recovery"
)

// ErrUnavailable wraps Redis transport failures so callers can tell an
// outage apart from a missing token.
var ErrUnavailable = errors.New("redisstore: redis unavailable")

const consumeRetries = 4

// TokenStore implements recovery.TokenStore on a Redis client.
type TokenStore struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewTokenStore wraps the given client. The prefix namespaces every key
// this store touches; it defaults to "rcv".
func NewTokenStore(client redis.UniversalClient, prefix string) *TokenStore {
	if prefix == "" {
		prefix = "rcv"
	}
	return &TokenStore{redis: client, prefix: prefix, now: time.Now}
}

func (s *TokenStore) tokenKey(digest string, variant recovery.Variant) string {
	return s.prefix + ":t:" + string(variant) + ":" + digest
}

func (s *TokenStore) userKey(userID string, variant recovery.Variant) string {
	return s.prefix + ":u:" + string(variant) + ":" + userID
}

type storedRecord struct {
	UserID    string `json:"uid"`
	ExpiresAt int64  `json:"exp"`
	CreatedAt int64  `json:"iat"`
}

// Replace installs rec as the user's only outstanding token for its
// variant, dropping any previous one in the same transaction.
func (s *TokenStore) Replace(ctx context.Context, rec recovery.Record) error {
	ttl := rec.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("redisstore: record already expired")
	}

	encoded, err := json.Marshal(storedRecord{
		UserID:    rec.UserID,
		ExpiresAt: rec.ExpiresAt.Unix(),
		CreatedAt: rec.CreatedAt.Unix(),
	})
	if err != nil {
		return err
	}

	userKey := s.userKey(rec.UserID, rec.Variant)

	for i := 0; i < consumeRetries; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			prev, err := tx.Get(ctx, userKey).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if prev != "" {
					pipe.Del(ctx, s.tokenKey(prev, rec.Variant))
				}
				pipe.Set(ctx, s.tokenKey(rec.Digest, rec.Variant), encoded, ttl)
				pipe.Set(ctx, userKey, rec.Digest, ttl)
				return nil
			})
			return err
		}, userKey)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	}

	return fmt.Errorf("%w: transaction contention", ErrUnavailable)
}

// Consume removes the token and returns its record. Concurrent callers
// race on the WATCHed key, so exactly one of them wins.
func (s *TokenStore) Consume(ctx context.Context, digest string, variant recovery.Variant) (recovery.Record, error) {
	key := s.tokenKey(digest, variant)

	for i := 0; i < consumeRetries; i++ {
		var rec recovery.Record

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			var stored storedRecord
			if err := json.Unmarshal(data, &stored); err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				pipe.Del(ctx, s.userKey(stored.UserID, variant))
				return nil
			})
			if err != nil {
				return err
			}

			rec = recovery.Record{
				Digest:    digest,
				UserID:    stored.UserID,
				Variant:   variant,
				ExpiresAt: time.Unix(stored.ExpiresAt, 0),
				CreatedAt: time.Unix(stored.CreatedAt, 0),
			}
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if errors.Is(err, redis.Nil) {
			return recovery.Record{}, recovery.ErrNotFound
		}
		if err != nil {
			return recovery.Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return rec, nil
	}

	return recovery.Record{}, recovery.ErrNotFound
}

// DeleteForUser drops the user's outstanding token for the variant, if any.
func (s *TokenStore) DeleteForUser(ctx context.Context, userID string, variant recovery.Variant) error {
	userKey := s.userKey(userID, variant)

	digest, err := s.redis.Get(ctx, userKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := s.redis.Del(ctx, s.tokenKey(digest, variant), userKey).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
