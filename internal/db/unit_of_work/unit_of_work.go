package uow

import (
	"context"
	passwordreset "passreset/internal/core/domain/password_reset"
	uow "passreset/internal/core/domain/unit_of_work"
	"passreset/internal/core/domain/user"
	"passreset/internal/db"
	dbpasswordreset "passreset/internal/db/password_reset"
	dbuser "passreset/internal/db/user"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// TokenRepositoryFactory builds the reset token repository used inside a
// transaction. Stores living outside Postgres ignore the transaction.
type TokenRepositoryFactory func(tx db.DBTX) passwordreset.Repository

func PgxTokenRepositoryFactory(tx db.DBTX) passwordreset.Repository {
	return dbpasswordreset.NewPgxRepository(tx)
}

func StaticTokenRepositoryFactory(repository passwordreset.Repository) TokenRepositoryFactory {
	return func(db.DBTX) passwordreset.Repository {
		return repository
	}
}

type pgxUnitOfWorkContext struct {
	tx     pgx.Tx
	tokens passwordreset.Repository
}

func newPgxUnitOfWorkContext(tx pgx.Tx, tokens TokenRepositoryFactory) *pgxUnitOfWorkContext {
	return &pgxUnitOfWorkContext{
		tx:     tx,
		tokens: tokens(tx),
	}
}

func (c *pgxUnitOfWorkContext) Commit(ctx context.Context) error {
	return c.tx.Commit(ctx)
}

func (c *pgxUnitOfWorkContext) Rollback(ctx context.Context) error {
	return c.tx.Rollback(ctx)
}

func (c *pgxUnitOfWorkContext) Users() user.UserRepository {
	return dbuser.NewPgxRepository(c.tx)
}

func (c *pgxUnitOfWorkContext) PasswordResetTokens() passwordreset.Repository {
	return c.tokens
}

type PgxUnitOfWork struct {
	db     *pgxpool.Pool
	tokens TokenRepositoryFactory
}

func NewPgxUnitOfWork(db *pgxpool.Pool, tokens TokenRepositoryFactory) *PgxUnitOfWork {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	if tokens == nil {
		tokens = PgxTokenRepositoryFactory
	}
	return &PgxUnitOfWork{db: db, tokens: tokens}
}

func (u *PgxUnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return newPgxUnitOfWorkContext(tx, u.tokens), nil
}
