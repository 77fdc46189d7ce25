package resettokencodec

import (
	"bytes"
	"errors"
	"net/url"
	passwordreset "passreset/internal/core/domain/password_reset"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func TestGeneratedTokensAreUnique(t *testing.T) {
	codec := NewCodec()
	tokens := make(map[passwordreset.RawToken]struct{})
	for i := 0; i < 1000; i++ {
		token, err := codec.Generate()
		if err != nil {
			t.Fatalf("could not generate token: %v", err)
		}
		if _, ok := tokens[token]; ok {
			t.Fatalf("token %d already generated", i)
		}
		tokens[token] = struct{}{}
	}
}

func TestGeneratedTokenIsURLSafe(t *testing.T) {
	token, err := NewCodec().Generate()

	assert := require.New(t)
	assert.Nil(err)
	assert.Len(string(token), 43)
	assert.Equal(string(token), url.QueryEscape(string(token)))
	assert.NotContains(string(token), "=")
}

func TestGenerateUsesReader(t *testing.T) {
	codec := NewCodecWithReader(bytes.NewReader(make([]byte, 16)), 16)

	token, err := codec.Generate()

	assert := require.New(t)
	assert.Nil(err)
	assert.Equal(passwordreset.RawToken("AAAAAAAAAAAAAAAAAAAAAA"), token)
}

func TestGenerateReaderError(t *testing.T) {
	errRead := errors.New("entropy exhausted")
	codec := NewCodecWithReader(iotest.ErrReader(errRead), DefaultTokenBytes)

	token, err := codec.Generate()

	assert := require.New(t)
	assert.ErrorIs(err, errRead)
	assert.Equal(passwordreset.RawToken(""), token)
}

func TestShortTokensAreRejected(t *testing.T) {
	require.Panics(t, func() { NewCodecWithReader(bytes.NewReader(nil), MinTokenBytes-1) })
}

func TestDigest(t *testing.T) {
	type testcase struct {
		token  string
		digest string
	}
	cases := []testcase{
		{token: "abc", digest: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{token: "", digest: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}
	codec := NewCodec()
	for _, c := range cases {
		t.Run(c.token, func(t *testing.T) {
			digest := codec.Digest(passwordreset.RawToken(c.token))
			require.Equal(t, passwordreset.Digest(c.digest), digest)
		})
	}
}

func TestDigestIsDeterministic(t *testing.T) {
	codec := NewCodec()
	token, err := codec.Generate()
	require.Nil(t, err)

	assert := require.New(t)
	assert.Equal(codec.Digest(token), codec.Digest(token))
	assert.Len(string(codec.Digest(token)), 64)
	assert.NotEqual(string(token), string(codec.Digest(token)))
}
