package requestpasswordreset

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
	Email string
}

type Result struct {
	User      user.User
	Token     passwordreset.RawToken
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

// New issues a reset token for a known user and persists its digest.
// Delivery is done by the NewWithResetEmailSending decorator.
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
	if window <= 0 {
		panic("password reset validity window must be positive")
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
	email := c.NewEmail(input.Email)
	if email.IsEmpty() {
		s.log.Info(ctx, "Password reset requested with an empty email.")
		return result, passwordreset.ErrEmptyEmail
	}

	u, err := s.userRepository.GetByEmail(ctx, email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.auditor.Record(
			ctx,
			passwordreset.EventUnknownEmail,
			email.Redacted(),
			"No user is registered with provided email.",
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("email", email.Redacted()),
			logging.Entry("err", err),
		)
		return result, passwordreset.Persistence(err)
	}

	token, err := s.codec.Generate()
	if err != nil {
		s.log.Error(ctx, "Could not generate password reset token.", logging.Entry("err", err))
		return result, err
	}

	now := s.now()
	err = s.tokenRepository.Save(ctx, passwordreset.CreateInput{
		UserID:    u.ID,
		Digest:    s.codec.Digest(token),
		TouchedAt: now,
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not save password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, passwordreset.Persistence(err)
	}

	s.log.Info(ctx, "Password reset token has been issued.", logging.Entry("userID", u.ID))
	return Result{User: u, Token: token, ExpiresAt: now.Add(s.window)}, nil
}
