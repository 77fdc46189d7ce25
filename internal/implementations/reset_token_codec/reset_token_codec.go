package resettokencodec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	passwordreset "passreset/internal/core/domain/password_reset"
)

const (
	DefaultTokenBytes = 32
	MinTokenBytes     = 16
)

// Codec issues URL safe reset tokens and digests them with SHA-256.
type Codec struct {
	random io.Reader
	size   int
}

func NewCodec() *Codec {
	return NewCodecWithReader(rand.Reader, DefaultTokenBytes)
}

func NewCodecWithReader(random io.Reader, size int) *Codec {
	if random == nil {
		panic("random reader must not be nil")
	}
	if size < MinTokenBytes {
		panic(fmt.Sprintf("reset token must have at least %d random bytes", MinTokenBytes))
	}
	return &Codec{random: random, size: size}
}

func (c *Codec) Generate() (passwordreset.RawToken, error) {
	b := make([]byte, c.size)
	if _, err := io.ReadFull(c.random, b); err != nil {
		return "", fmt.Errorf("could not read random bytes: %w", err)
	}
	return passwordreset.RawToken(base64.RawURLEncoding.EncodeToString(b)), nil
}

func (c *Codec) Digest(token passwordreset.RawToken) passwordreset.Digest {
	sum := sha256.Sum256([]byte(token))
	return passwordreset.Digest(hex.EncodeToString(sum[:]))
}
