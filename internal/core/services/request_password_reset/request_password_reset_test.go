package requestpasswordreset

import (
	"context"
	"errors"
	"fmt"
	c "passreset/internal/core/domain/common"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
	"passreset/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL  = c.Email("alice@example.com")
	TOKEN  = "T1"
	WINDOW = 24 * time.Hour
)

var NOW time.Time = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger          *logging.FakeLogger
	Auditor         *passwordreset.FakeAuditor
	UserRepository  *user.FakeUserRepository
	TokenRepository *passwordreset.FakeRepository
	Codec           *passwordreset.FakeTokenCodec
	Service         services.Service[Input, Result]
	User            user.User
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.Auditor = passwordreset.NewFakeAuditor()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.TokenRepository = passwordreset.NewFakeRepository()
	suite.Codec = passwordreset.NewFakeTokenCodec(TOKEN)
	suite.Service = New(
		suite.Logger,
		suite.Auditor,
		suite.UserRepository,
		suite.TokenRepository,
		suite.Codec,
		WINDOW,
		func() time.Time { return NOW },
	)

	suite.User = user.User{ID: 1, Email: EMAIL, Name: "Alice", PasswordHash: "hash", CreatedAt: NOW}
	suite.UserRepository.Users = append(suite.UserRepository.Users, suite.User)
}

func TestRequestPasswordResetService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestSuccess() {
	// Setup ---
	ctx := context.Background()

	// Exercise ---
	result, err := suite.Service.Run(ctx, Input{Email: "  Alice@Example.com "})

	// Verify ---
	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(suite.User.ID, result.User.ID)
	assert.Equal(passwordreset.RawToken(TOKEN), result.Token)
	assert.Equal(NOW.Add(WINDOW), result.ExpiresAt)

	assert.Equal(1, suite.TokenRepository.Count())
	record, err := suite.TokenRepository.GetByDigest(ctx, suite.Codec.Digest(TOKEN))
	assert.Nil(err)
	assert.Equal(suite.User.ID, record.UserID)
	assert.Equal(NOW, record.TouchedAt)
	assert.NotEqual(string(record.Digest), TOKEN)
	assert.Empty(suite.Auditor.Records)
}

func (suite *testSuite) TestEveryRequestIssuesNewToken() {
	// Setup ---
	ctx := context.Background()

	// Exercise ---
	first, err := suite.Service.Run(ctx, Input{Email: string(EMAIL)})
	suite.Require().Nil(err)
	second, err := suite.Service.Run(ctx, Input{Email: string(EMAIL)})
	suite.Require().Nil(err)

	// Verify ---
	assert := suite.Require()
	assert.NotEqual(first.Token, second.Token)
	assert.Equal(2, suite.TokenRepository.CountForUser(suite.User.ID))
}

func (suite *testSuite) TestEmptyEmail() {
	for _, email := range []string{"", "   ", "\t\n"} {
		suite.Run(fmt.Sprintf("%q", email), func() {
			_, err := suite.Service.Run(context.Background(), Input{Email: email})

			assert := suite.Require()
			assert.ErrorIs(err, passwordreset.ErrEmptyEmail)
			assert.Equal(0, suite.TokenRepository.Count())
		})
	}
}

func (suite *testSuite) TestUnknownEmail() {
	// Exercise ---
	_, err := suite.Service.Run(context.Background(), Input{Email: "ghost@example.com"})

	// Verify ---
	assert := suite.Require()
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	assert.Equal(0, suite.TokenRepository.Count())
	assert.Equal([]passwordreset.Event{passwordreset.EventUnknownEmail}, suite.Auditor.Events())
	assert.Equal("gh***@example.com", suite.Auditor.Records[0].Actor)
}

func (suite *testSuite) TestUserRepositoryError() {
	suite.UserRepository.ReturnError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: string(EMAIL)})

	assert := suite.Require()
	assert.ErrorIs(err, passwordreset.ErrPersistence)
	assert.Equal(0, suite.TokenRepository.Count())
}

func (suite *testSuite) TestCodecError() {
	suite.Codec.ReturnError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: string(EMAIL)})

	assert := suite.Require()
	assert.NotNil(err)
	assert.Equal(0, suite.TokenRepository.Count())
}

func (suite *testSuite) TestSaveError() {
	suite.TokenRepository.SaveError = fmt.Errorf("connection reset")

	_, err := suite.Service.Run(context.Background(), Input{Email: string(EMAIL)})

	assert := suite.Require()
	assert.ErrorIs(err, passwordreset.ErrPersistence)
	assert.Contains(err.Error(), "connection reset")
}

func (suite *testSuite) TestSaveCanceled() {
	suite.TokenRepository.SaveError = context.Canceled

	_, err := suite.Service.Run(context.Background(), Input{Email: string(EMAIL)})

	assert := suite.Require()
	assert.True(errors.Is(err, context.Canceled))
	assert.False(errors.Is(err, passwordreset.ErrPersistence))
}

func (suite *testSuite) TestNilArguments() {
	assert := suite.Require()
	assert.Panics(func() {
		New(nil, suite.Auditor, suite.UserRepository, suite.TokenRepository, suite.Codec, WINDOW, time.Now)
	})
	assert.Panics(func() {
		New(suite.Logger, suite.Auditor, suite.UserRepository, nil, suite.Codec, WINDOW, time.Now)
	})
	assert.Panics(func() {
		New(suite.Logger, suite.Auditor, suite.UserRepository, suite.TokenRepository, suite.Codec, 0, time.Now)
	})
}
