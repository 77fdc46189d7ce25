package passwordreset

import (
	"context"
	"passreset/internal/core/domain/user"
	"time"
)

type CreateInput struct {
	UserID    user.ID
	Digest    Digest
	TouchedAt time.Time
}

// Repository stores reset tokens by digest.
//
// GetByDigest returns ErrTokenNotFound when there is no record, DeleteAllForUser
// removes every record of the user atomically and succeeds when there is none.
type Repository interface {
	Save(ctx context.Context, input CreateInput) error
	GetByDigest(ctx context.Context, digest Digest) (ResetToken, error)
	DeleteAllForUser(ctx context.Context, userID user.ID) error
	DeleteTouchedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
