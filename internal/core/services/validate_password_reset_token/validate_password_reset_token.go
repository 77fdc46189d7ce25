package validatepasswordresettoken

import (
	"context"
	"errors"
	c "passreset/internal/core/domain/common"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/services"
	"time"
)

type Input struct {
	Token c.Optional[passwordreset.RawToken]
}

type Result struct {
	UserID    user.ID
	Email     c.Email
	ExpiresAt time.Time
}

type service struct {
	log             logging.Logger
	auditor         passwordreset.Auditor
	userRepository  user.UserRepository
	tokenRepository passwordreset.Repository
	codec           passwordreset.TokenCodec
	window          time.Duration
	now             func() time.Time
}

// New checks a presented reset token without mutating the store.
func New(
	log logging.Logger,
	auditor passwordreset.Auditor,
	userRepository user.UserRepository,
	tokenRepository passwordreset.Repository,
	codec passwordreset.TokenCodec,
	window time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if auditor == nil {
		panic(e.NewNilArgumentError("auditor"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if tokenRepository == nil {
		panic(e.NewNilArgumentError("tokenRepository"))
	}
	if codec == nil {
		panic(e.NewNilArgumentError("codec"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:             log,
		auditor:         auditor,
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		codec:           codec,
		window:          window,
		now:             now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !input.Token.IsPresent || input.Token.Value == "" {
		s.auditor.Record(
			ctx,
			passwordreset.EventMissingToken,
			"",
			"Password reset page was accessed without a token.",
		)
		return result, passwordreset.ErrMissingToken
	}

	record, err := passwordreset.Lookup(ctx, s.tokenRepository, s.codec, input.Token.Value, s.now(), s.window)
	switch {
	case errors.Is(err, context.Canceled):
		return result, err
	case errors.Is(err, passwordreset.ErrTokenNotFound):
		s.auditor.Record(ctx, passwordreset.EventInvalidToken, "", "User tried to use a link with an invalid token.")
		return result, err
	case errors.Is(err, passwordreset.ErrTokenExpired):
		s.auditor.Record(
			ctx,
			passwordreset.EventExpiredLink,
			s.actor(ctx, record.UserID),
			"User tried to use an expired link.",
		)
		return result, err
	case err != nil:
		s.log.Error(ctx, "Could not look up password reset token.", logging.Entry("err", err))
		return result, err
	}

	u, err := s.userRepository.GetByID(ctx, record.UserID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.auditor.Record(ctx, passwordreset.EventInvalidToken, "", "Password reset token belongs to a missing user.")
		return result, passwordreset.ErrTokenNotFound
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user of password reset token.",
			logging.Entry("userID", record.UserID),
			logging.Entry("err", err),
		)
		return result, passwordreset.Persistence(err)
	}

	return Result{UserID: u.ID, Email: u.Email, ExpiresAt: record.ExpiresAt(s.window)}, nil
}

func (s *service) actor(ctx context.Context, userID user.ID) string {
	u, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return u.DisplayName()
}
