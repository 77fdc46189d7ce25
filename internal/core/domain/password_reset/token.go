package passwordreset

import (
	"passreset/internal/core/domain/user"
	"time"
)

const DefaultValidityWindow = 24 * time.Hour

// RawToken is the secret delivered to the user. It is never persisted.
type RawToken string

func (t RawToken) String() string {
	return "***"
}

// Digest is the only persisted form of a RawToken.
type Digest string

type TokenCodec interface {
	Generate() (RawToken, error)
	Digest(token RawToken) Digest
}

type ResetToken struct {
	UserID    user.ID
	Digest    Digest
	TouchedAt time.Time
}

func (t ResetToken) ExpiresAt(window time.Duration) time.Time {
	return t.TouchedAt.Add(window)
}

// StateAt reports Valid strictly before TouchedAt+window and Expired from that instant on.
func (t ResetToken) StateAt(now time.Time, window time.Duration) State {
	if now.Before(t.ExpiresAt(window)) {
		return StateValid
	}
	return StateExpired
}
