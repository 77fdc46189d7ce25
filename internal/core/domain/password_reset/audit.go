package passwordreset

import "context"

type Event string

const (
	EventLinkSent         Event = "password_reset.link_sent"
	EventUnknownEmail     Event = "password_reset.unknown_email"
	EventMissingToken     Event = "password_reset.missing_token"
	EventInvalidToken     Event = "password_reset.invalid_token"
	EventExpiredLink      Event = "password_reset.expired_link"
	EventPasswordReset    Event = "password_reset.success"
	EventSaveFailure      Event = "password_reset.save_failure"
	EventPasswordMismatch Event = "password_reset.password_mismatch"
)

var Events = []Event{
	EventLinkSent,
	EventUnknownEmail,
	EventMissingToken,
	EventInvalidToken,
	EventExpiredLink,
	EventPasswordReset,
	EventSaveFailure,
	EventPasswordMismatch,
}

func (e Event) IsFailure() bool {
	return e != EventLinkSent && e != EventPasswordReset
}

// Auditor records security relevant steps of the flow. The actor is a display
// name or a redacted email, never a token.
type Auditor interface {
	Record(ctx context.Context, event Event, actor string, msg string)
}
