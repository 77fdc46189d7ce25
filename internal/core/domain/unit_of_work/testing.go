package uow

import (
	"context"
	"fmt"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
)

type FakeUnitOfWorkContext struct {
	UserRepository               *user.FakeUserRepository
	PasswordResetTokenRepository *passwordreset.FakeRepository
	CommitError                  error
	WasRollbackCalled            bool
	WasCommitCalled              bool
}

func NewFakeUnitOfWorkContext(
	userRepository *user.FakeUserRepository,
	passwordResetTokenRepository *passwordreset.FakeRepository,
) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{
		UserRepository:               userRepository,
		PasswordResetTokenRepository: passwordResetTokenRepository,
	}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.WasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	if c.CommitError != nil {
		return c.CommitError
	}
	c.WasCommitCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

func (c *FakeUnitOfWorkContext) PasswordResetTokens() passwordreset.Repository {
	return c.PasswordResetTokenRepository
}

type FakeUnitOfWork struct {
	Context     *FakeUnitOfWorkContext
	ReturnError bool
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(
			user.NewFakeUserRepository(),
			passwordreset.NewFakeRepository(),
		),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.ReturnError {
		return nil, fmt.Errorf("could not begin unit of work")
	}
	return u.Context, nil
}
