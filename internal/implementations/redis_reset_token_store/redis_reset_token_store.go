package redisresettokenstore

import (
	"context"
	"errors"
	"fmt"
	e "passreset/internal/core/domain/errors"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
	"strconv"
	"time"

	"github.com/go-redis/redis/v9"
)

const (
	DefaultPrefix = "passreset"
	maxRetries    = 4

	fieldUserID    = "user_id"
	fieldTouchedAt = "touched_at"
)

var ErrDigestAlreadyExists = errors.New("password reset token digest already exists")

// Store keeps a hash per digest, a set of digests per user and a sorted set
// of all digests scored by touch time in milliseconds.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{redis: redisClient, prefix: prefix}
}

func (s *Store) tokenKey(digest passwordreset.Digest) string {
	return s.prefix + ":token:" + string(digest)
}

func (s *Store) userKey(userID user.ID) string {
	return s.prefix + ":user:" + strconv.FormatInt(int64(userID), 10)
}

func (s *Store) touchedKey() string {
	return s.prefix + ":touched"
}

func (s *Store) Save(ctx context.Context, input passwordreset.CreateInput) error {
	tokenKey := s.tokenKey(input.Digest)
	return s.watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, tokenKey).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrDigestAlreadyExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(
				ctx,
				tokenKey,
				fieldUserID, strconv.FormatInt(int64(input.UserID), 10),
				fieldTouchedAt, input.TouchedAt.UTC().Format(time.RFC3339Nano),
			)
			pipe.SAdd(ctx, s.userKey(input.UserID), string(input.Digest))
			pipe.ZAdd(ctx, s.touchedKey(), redis.Z{
				Score:  float64(input.TouchedAt.UnixMilli()),
				Member: string(input.Digest),
			})
			return nil
		})
		return err
	}, tokenKey)
}

func (s *Store) GetByDigest(ctx context.Context, digest passwordreset.Digest) (t passwordreset.ResetToken, err error) {
	values, err := s.redis.HGetAll(ctx, s.tokenKey(digest)).Result()
	if err != nil {
		return t, err
	}
	if len(values) == 0 {
		return t, passwordreset.ErrTokenNotFound
	}
	return decodeToken(digest, values)
}

func (s *Store) DeleteAllForUser(ctx context.Context, userID user.ID) error {
	userKey := s.userKey(userID)
	return s.watch(ctx, func(tx *redis.Tx) error {
		digests, err := tx.SMembers(ctx, userKey).Result()
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, digest := range digests {
				pipe.Del(ctx, s.tokenKey(passwordreset.Digest(digest)))
				pipe.ZRem(ctx, s.touchedKey(), digest)
			}
			pipe.Del(ctx, userKey)
			return nil
		})
		return err
	}, userKey)
}

func (s *Store) DeleteTouchedBefore(ctx context.Context, cutoff time.Time) (deleted int64, err error) {
	touchedKey := s.touchedKey()
	err = s.watch(ctx, func(tx *redis.Tx) error {
		deleted = 0
		digests, err := tx.ZRangeByScore(ctx, touchedKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: "(" + strconv.FormatInt(cutoff.UnixMilli(), 10),
		}).Result()
		if err != nil {
			return err
		}
		if len(digests) == 0 {
			return nil
		}

		owners := make([]string, len(digests))
		for ix, digest := range digests {
			owner, err := tx.HGet(ctx, s.tokenKey(passwordreset.Digest(digest)), fieldUserID).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			owners[ix] = owner
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for ix, digest := range digests {
				pipe.Del(ctx, s.tokenKey(passwordreset.Digest(digest)))
				pipe.ZRem(ctx, touchedKey, digest)
				if owners[ix] != "" {
					pipe.SRem(ctx, s.prefix+":user:"+owners[ix], digest)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		deleted = int64(len(digests))
		return nil
	}, touchedKey)
	return deleted, err
}

func (s *Store) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < maxRetries; i++ {
		err := s.redis.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis transaction on %v failed after %d attempts", keys, maxRetries)
}

func decodeToken(digest passwordreset.Digest, values map[string]string) (t passwordreset.ResetToken, err error) {
	userID, err := strconv.ParseInt(values[fieldUserID], 10, 64)
	if err != nil {
		return t, fmt.Errorf("invalid user id of password reset token: %w", err)
	}
	touchedAt, err := time.Parse(time.RFC3339Nano, values[fieldTouchedAt])
	if err != nil {
		return t, fmt.Errorf("invalid touch time of password reset token: %w", err)
	}
	return passwordreset.ResetToken{
		UserID:    user.ID(userID),
		Digest:    digest,
		TouchedAt: touchedAt,
	}, nil
}
