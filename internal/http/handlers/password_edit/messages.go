package passwordedit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	c "passreset/internal/core/domain/common"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
	"passreset/internal/http/handlers/response"
)

const (
	MsgEmptyEmail       = "Please enter an e-mail address."
	MsgInvalidEmail     = "Please enter a valid e-mail address."
	MsgLinkSent         = "A link to reset your password has been sent to your e-mail address."
	MsgLinkNotSent      = "The e-mail with the reset link could not be sent. Please try again."
	MsgLinkExpired      = "Link expired. Please request to reset password again"
	MsgLinkInvalid      = "Link is invalid. Please request to reset password again"
	MsgMissingToken     = "Password reset page can only be accessed with a generated link, sent to your email"
	MsgPasswordReset    = "Password was successfully reset"
	MsgPasswordNotSaved = "Password cannot be updated. Please try again"
	MsgPasswordMismatch = "Password and confirm-password do not match. Try again"
	MsgInvalidRequest   = "invalid request data"

	TestTokenHeader = "x-test-password-reset-token"
)

func MsgUnknownEmail(email c.Email) string {
	return fmt.Sprintf("No account is associated with the e-mail address: %q. Please try again.", string(email))
}

func MsgInvalidPassword() string {
	return fmt.Sprintf(
		"Password must be between %d and %d characters long. Try again",
		user.MinPasswordLength,
		user.MaxPasswordLength,
	)
}

type errorWithEmailResponse struct {
	Error string `json:"error"`
	Email string `json:"email"`
}

// RenderFlowError turns a password reset flow error into a single message.
// The email is echoed back so the form can be pre-filled.
func RenderFlowError(rw http.ResponseWriter, err error, email c.Email) {
	switch {
	case errors.Is(err, context.Canceled):
		response.RenderError(rw, "request canceled", http.StatusRequestTimeout)
	case errors.Is(err, passwordreset.ErrEmptyEmail):
		response.RenderError(rw, MsgEmptyEmail, http.StatusUnprocessableEntity)
	case errors.Is(err, user.ErrUserDoesNotExist):
		response.RenderError(rw, MsgUnknownEmail(email), http.StatusUnprocessableEntity)
	case errors.Is(err, passwordreset.ErrMissingToken):
		response.RenderError(rw, MsgMissingToken, http.StatusBadRequest)
	case errors.Is(err, passwordreset.ErrTokenNotFound):
		response.RenderError(rw, MsgLinkInvalid, http.StatusUnprocessableEntity)
	case errors.Is(err, passwordreset.ErrTokenExpired):
		response.RenderError(rw, MsgLinkExpired, http.StatusGone)
	case errors.Is(err, passwordreset.ErrPasswordMismatch):
		response.Render(
			rw,
			errorWithEmailResponse{Error: MsgPasswordMismatch, Email: string(email)},
			http.StatusUnprocessableEntity,
		)
	case errors.Is(err, user.ErrInvalidPassword):
		response.Render(
			rw,
			errorWithEmailResponse{Error: MsgInvalidPassword(), Email: string(email)},
			http.StatusUnprocessableEntity,
		)
	case errors.Is(err, passwordreset.ErrEmailDelivery):
		response.RenderError(rw, MsgLinkNotSent, http.StatusBadGateway)
	default:
		response.RenderInternalError(rw)
	}
}
