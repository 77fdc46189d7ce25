package requestpasswordreset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/services"
)

type serviceWithResetEmailSending struct {
	log     logging.Logger
	auditor passwordreset.Auditor
	sender  passwordreset.EmailSender
	baseURL url.URL
	inner   services.Service[Input, Result]
}

// NewWithResetEmailSending delivers the reset link once inner has persisted the token.
// A delivery failure is reported but the issued token stays in place.
func NewWithResetEmailSending(
	log logging.Logger,
	auditor passwordreset.Auditor,
	sender passwordreset.EmailSender,
	baseURL url.URL,
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if auditor == nil {
		panic(e.NewNilArgumentError("auditor"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithResetEmailSending{
		log:     log,
		auditor: auditor,
		sender:  sender,
		baseURL: baseURL,
		inner:   inner,
	}
}

func (s *serviceWithResetEmailSending) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Info(ctx, "Skip sending password reset email.", logging.Entry("err", err))
		return result, err
	}

	err = s.sender.SendPasswordResetEmail(ctx, passwordreset.Email{
		To:        result.User,
		ResetURL:  passwordreset.NewResetURL(s.baseURL, result.Token),
		ExpiresAt: result.ExpiresAt,
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset email.",
			logging.Entry("userID", result.User.ID),
			logging.Entry("err", err),
		)
		return result, fmt.Errorf("%w: %v", passwordreset.ErrEmailDelivery, err)
	}

	s.auditor.Record(
		ctx,
		passwordreset.EventLinkSent,
		result.User.DisplayName(),
		"A link to reset your password has been sent to users e-mail address.",
	)
	return result, nil
}
