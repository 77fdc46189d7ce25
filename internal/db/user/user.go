package user

import (
	"context"
	"errors"
	c "passreset/internal/core/domain/common"
	"passreset/internal/core/domain/user"
	"passreset/internal/db"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const EMAIL_CONSTRAINT_NAME = "user_email_idx"

var ErrEmailAlreadyExists = errors.New("user with this email already exists")

type CreateUserInput struct {
	Email        c.Email
	Name         string
	PasswordHash user.PasswordHash
	CreatedAt    time.Time
}

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxUserRepository {
	if dbtx == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxUserRepository{db: dbtx}
}

const createUser = `
INSERT INTO "user" (email, name, password_hash, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, email, name, password_hash, created_at
`

func (r *PgxUserRepository) Create(ctx context.Context, input CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(ctx, createUser, string(input.Email), input.Name, string(input.PasswordHash), input.CreatedAt)
	u, err = scanUser(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == db.PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == EMAIL_CONSTRAINT_NAME {
			return u, ErrEmailAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

const getUserByID = `
SELECT id, email, name, password_hash, created_at FROM "user" WHERE id = $1
`

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	return r.get(ctx, getUserByID, int64(id))
}

const getUserByEmail = `
SELECT id, email, name, password_hash, created_at FROM "user" WHERE email = $1
`

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	return r.get(ctx, getUserByEmail, string(email))
}

const setUserPassword = `
UPDATE "user" SET password_hash = $2 WHERE id = $1
`

func (r *PgxUserRepository) SetPassword(ctx context.Context, id user.ID, password user.PasswordHash) error {
	tag, err := r.db.Exec(ctx, setUserPassword, int64(id), string(password))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) get(ctx context.Context, query string, arg interface{}) (u user.User, err error) {
	u, err = scanUser(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id           int64
		email        string
		passwordHash string
	)
	err = row.Scan(&id, &email, &u.Name, &passwordHash, &u.CreatedAt)
	if err != nil {
		return u, err
	}
	u.ID = user.ID(id)
	u.Email = c.Email(email)
	u.PasswordHash = user.PasswordHash(passwordHash)
	return u, nil
}
