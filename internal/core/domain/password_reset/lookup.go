package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Lookup resolves a presented raw token to its record.
//
// Absent and expired records take the same path through the store, only the
// final time comparison differs. An expired record is returned together with
// ErrTokenExpired and is left in place.
func Lookup(
	ctx context.Context,
	repository Repository,
	codec TokenCodec,
	token RawToken,
	now time.Time,
	window time.Duration,
) (ResetToken, error) {
	if token == "" {
		return ResetToken{}, ErrMissingToken
	}

	record, err := repository.GetByDigest(ctx, codec.Digest(token))
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrTokenNotFound) {
		return record, err
	}
	if err != nil {
		return record, Persistence(err)
	}

	if record.StateAt(now, window) == StateExpired {
		return record, ErrTokenExpired
	}
	return record, nil
}

// Persistence wraps a store failure so callers can match it with errors.Is(err, ErrPersistence).
func Persistence(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
