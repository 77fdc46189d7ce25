package passwordreset

import (
	"context"
	"net/url"
	"passreset/internal/core/domain/user"
	"strings"
	"time"
)

const CheckResetURLPath = "/password_edit/check_reset_url"

const TokenQueryParam = "token"

// Email is what the mail collaborator needs to deliver a reset link.
// ResetURL carries the raw token, it must not be logged.
type Email struct {
	To        user.User
	ResetURL  url.URL
	ExpiresAt time.Time
}

type EmailSender interface {
	SendPasswordResetEmail(ctx context.Context, email Email) error
}

// NewResetURL builds {base}/password_edit/check_reset_url?token={raw}.
func NewResetURL(base url.URL, token RawToken) url.URL {
	if !strings.HasPrefix(base.Path, "/") {
		base.Path = "/" + base.Path
		base.RawPath = ""
	}
	u := base.JoinPath(CheckResetURLPath)
	query := url.Values{}
	query.Set(TokenQueryParam, string(token))
	u.RawQuery = query.Encode()
	u.Fragment = ""
	return *u
}

// TokenFromURL extracts the raw token from a reset link, used by tests and tooling.
func TokenFromURL(u url.URL) (RawToken, bool) {
	values := u.Query()
	if !values.Has(TokenQueryParam) {
		return "", false
	}
	return RawToken(values.Get(TokenQueryParam)), true
}
