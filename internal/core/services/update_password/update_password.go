package updatepassword

import (
	"context"
	"errors"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	uow "passreset/internal/core/domain/unit_of_work"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/services"
	"time"
)

type Input struct {
	Token           passwordreset.RawToken
	Email           string
	NewPassword     user.RawPassword
	ConfirmPassword user.RawPassword
}

type Result struct {
	Email c.Email
}

type service struct {
	log            logging.Logger
	auditor        passwordreset.Auditor
	unitOfWork     uow.UnitOfWork
	codec          passwordreset.TokenCodec
	passwordHasher user.PasswordHasher
	window         time.Duration
	now            func() time.Time
}

// New sets a new password for the owner of a valid reset token and consumes
// every outstanding token of that user in the same unit of work.
func New(
	log logging.Logger,
	auditor passwordreset.Auditor,
	unitOfWork uow.UnitOfWork,
	codec passwordreset.TokenCodec,
	passwordHasher user.PasswordHasher,
	window time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if auditor == nil {
		panic(e.NewNilArgumentError("auditor"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if codec == nil {
		panic(e.NewNilArgumentError("codec"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		auditor:        auditor,
		unitOfWork:     unitOfWork,
		codec:          codec,
		passwordHasher: passwordHasher,
		window:         window,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	email := c.NewEmail(input.Email)
	result.Email = email

	if input.NewPassword != input.ConfirmPassword {
		s.auditor.Record(
			ctx,
			passwordreset.EventPasswordMismatch,
			email.Redacted(),
			"Password and confirm-password do not match.",
		)
		return result, passwordreset.ErrPasswordMismatch
	}
	if email.IsEmpty() {
		return result, passwordreset.ErrEmptyEmail
	}
	if input.Token == "" {
		s.auditor.Record(ctx, passwordreset.EventMissingToken, email.Redacted(), "Password update was submitted without a token.")
		return result, passwordreset.ErrMissingToken
	}

	tx, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin a unit of work.", logging.Entry("err", err))
		return result, passwordreset.Persistence(err)
	}
	defer tx.Rollback(ctx)

	record, err := passwordreset.Lookup(ctx, tx.PasswordResetTokens(), s.codec, input.Token, s.now(), s.window)
	switch {
	case errors.Is(err, context.Canceled):
		return result, err
	case errors.Is(err, passwordreset.ErrTokenNotFound):
		s.auditor.Record(ctx, passwordreset.EventInvalidToken, email.Redacted(), "User tried to reset password with an invalid token.")
		return result, err
	case errors.Is(err, passwordreset.ErrTokenExpired):
		s.auditor.Record(ctx, passwordreset.EventExpiredLink, email.Redacted(), "User tried to reset password with an expired link.")
		return result, err
	case err != nil:
		s.log.Error(ctx, "Could not look up password reset token.", logging.Entry("err", err))
		return result, err
	}

	u, err := tx.Users().GetByEmail(ctx, email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) || (err == nil && u.ID != record.UserID) {
		s.auditor.Record(
			ctx,
			passwordreset.EventInvalidToken,
			email.Redacted(),
			"Password reset token does not belong to the submitted email.",
		)
		return result, passwordreset.ErrTokenNotFound
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user for password update.", logging.Entry("err", err))
		return result, passwordreset.Persistence(err)
	}

	if err := user.ValidateRawPassword(input.NewPassword); err != nil {
		s.auditor.Record(ctx, passwordreset.EventSaveFailure, u.DisplayName(), "New password was rejected by the password policy.")
		return result, err
	}

	hash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("userID", u.ID), logging.Entry("err", err))
		s.auditor.Record(ctx, passwordreset.EventSaveFailure, u.DisplayName(), "Password reset operation failed for the user while hashing.")
		return result, err
	}

	if err := s.save(ctx, tx, u.ID, hash); err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Error(ctx, "Could not save new password.", logging.Entry("userID", u.ID), logging.Entry("err", err))
			s.auditor.Record(ctx, passwordreset.EventSaveFailure, u.DisplayName(), "Password reset operation failed for the user while saving record.")
		}
		return result, passwordreset.Persistence(err)
	}

	s.auditor.Record(ctx, passwordreset.EventPasswordReset, u.DisplayName(), "Password was reset for the user.")
	return Result{Email: u.Email}, nil
}

func (s *service) save(ctx context.Context, tx uow.Context, userID user.ID, hash user.PasswordHash) error {
	if err := tx.Users().SetPassword(ctx, userID, hash); err != nil {
		return err
	}
	if err := tx.PasswordResetTokens().DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
