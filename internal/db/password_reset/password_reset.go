package passwordreset

import (
	"context"
	"errors"
	"fmt"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
	"passreset/internal/db"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const DIGEST_CONSTRAINT_NAME = "password_reset_token_digest_idx"

var ErrDigestAlreadyExists = errors.New("password reset token digest already exists")

type PgxPasswordResetTokenRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxPasswordResetTokenRepository {
	if dbtx == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxPasswordResetTokenRepository{db: dbtx}
}

const createPasswordResetToken = `
INSERT INTO password_reset_token (user_id, digest, touched_at) VALUES ($1, $2, $3)
`

func (r *PgxPasswordResetTokenRepository) Save(ctx context.Context, input passwordreset.CreateInput) error {
	_, err := r.db.Exec(ctx, createPasswordResetToken, int64(input.UserID), string(input.Digest), input.TouchedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == db.PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == DIGEST_CONSTRAINT_NAME {
			return ErrDigestAlreadyExists
		}
	}
	return err
}

const getPasswordResetToken = `
SELECT user_id, digest, touched_at FROM password_reset_token WHERE digest = $1
`

func (r *PgxPasswordResetTokenRepository) GetByDigest(
	ctx context.Context,
	digest passwordreset.Digest,
) (t passwordreset.ResetToken, err error) {
	var (
		userID int64
		stored string
	)
	err = r.db.QueryRow(ctx, getPasswordResetToken, string(digest)).Scan(&userID, &stored, &t.TouchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, passwordreset.ErrTokenNotFound
	}
	if err != nil {
		return t, err
	}
	t.UserID = user.ID(userID)
	t.Digest = passwordreset.Digest(stored)
	return t, nil
}

const deletePasswordResetTokensForUser = `
DELETE FROM password_reset_token WHERE user_id = $1
`

func (r *PgxPasswordResetTokenRepository) DeleteAllForUser(ctx context.Context, userID user.ID) error {
	_, err := r.db.Exec(ctx, deletePasswordResetTokensForUser, int64(userID))
	return err
}

const deletePasswordResetTokensTouchedBefore = `
DELETE FROM password_reset_token WHERE touched_at < $1
`

func (r *PgxPasswordResetTokenRepository) DeleteTouchedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deletePasswordResetTokensTouchedBefore, cutoff)
	if err != nil {
		return 0, fmt.Errorf("could not delete password reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
