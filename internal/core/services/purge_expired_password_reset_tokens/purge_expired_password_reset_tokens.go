package purgeexpiredpasswordresettokens

import (
	"context"
	"errors"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/services"
	"time"
)

type Input struct{}

type Result struct {
	Cutoff  time.Time
	Deleted int64
}

type service struct {
	log             logging.Logger
	tokenRepository passwordreset.Repository
	window          time.Duration
	retention       time.Duration
	now             func() time.Time
}

// New removes tokens that expired more than retention ago. Expired tokens are
// otherwise kept so that late attempts are reported as expired, not invalid.
func New(
	log logging.Logger,
	tokenRepository passwordreset.Repository,
	window time.Duration,
	retention time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tokenRepository == nil {
		panic(e.NewNilArgumentError("tokenRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if retention < 0 {
		panic("password reset token retention must not be negative")
	}
	return &service{
		log:             log,
		tokenRepository: tokenRepository,
		window:          window,
		retention:       retention,
		now:             now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	cutoff := s.now().Add(-s.window - s.retention)

	deleted, err := s.tokenRepository.DeleteTouchedBefore(ctx, cutoff)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not purge expired password reset tokens.",
			logging.Entry("cutoff", cutoff),
			logging.Entry("err", err),
		)
		return result, passwordreset.Persistence(err)
	}

	if deleted > 0 {
		s.log.Info(
			ctx,
			"Expired password reset tokens purged.",
			logging.Entry("cutoff", cutoff),
			logging.Entry("deleted", deleted),
		)
	}
	return Result{Cutoff: cutoff, Deleted: deleted}, nil
}
