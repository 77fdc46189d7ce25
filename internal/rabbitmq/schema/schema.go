package schema

import (
	"encoding/json"
	"time"
)

// PasswordResetEmail is queued once the reset token is persisted. ResetURL
// carries the raw token and must not be logged.
type PasswordResetEmail struct {
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ResetURL  string    `json:"resetUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (m *PasswordResetEmail) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *PasswordResetEmail) Unmarshal(data []byte) error {
	return json.Unmarshal(data, m)
}
