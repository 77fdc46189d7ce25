package purgeexpiredpasswordresettokens

import (
	"context"
	"fmt"
	"passreset/internal/core/domain/logging"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	WINDOW    = 24 * time.Hour
	RETENTION = 7 * 24 * time.Hour
)

var NOW time.Time = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger          *logging.FakeLogger
	TokenRepository *passwordreset.FakeRepository
	Service         services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.TokenRepository = passwordreset.NewFakeRepository()
	suite.Service = New(
		suite.Logger,
		suite.TokenRepository,
		WINDOW,
		RETENTION,
		func() time.Time { return NOW },
	)
}

func (suite *testSuite) save(digest string, touchedAt time.Time) {
	err := suite.TokenRepository.Save(context.Background(), passwordreset.CreateInput{
		UserID:    1,
		Digest:    passwordreset.Digest(digest),
		TouchedAt: touchedAt,
	})
	suite.Require().Nil(err)
}

func TestPurgeExpiredPasswordResetTokensService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestOnlyLongExpiredTokensArePurged() {
	// Setup ---
	cutoff := NOW.Add(-WINDOW - RETENTION)
	suite.save("fresh", NOW.Add(-time.Hour))
	suite.save("expired-recently", NOW.Add(-WINDOW-time.Hour))
	suite.save("at-cutoff", cutoff)
	suite.save("old", cutoff.Add(-time.Second))
	suite.save("ancient", cutoff.Add(-30*24*time.Hour))

	// Exercise ---
	result, err := suite.Service.Run(context.Background(), Input{})

	// Verify ---
	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(cutoff, result.Cutoff)
	assert.Equal(int64(2), result.Deleted)
	assert.Equal(3, suite.TokenRepository.Count())
	assert.Contains(suite.TokenRepository.Tokens, passwordreset.Digest("expired-recently"))
	assert.Contains(suite.TokenRepository.Tokens, passwordreset.Digest("at-cutoff"))
}

func (suite *testSuite) TestNothingToPurge() {
	suite.save("fresh", NOW)

	result, err := suite.Service.Run(context.Background(), Input{})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(int64(0), result.Deleted)
	assert.Empty(suite.Logger.Records())
}

func (suite *testSuite) TestRepositoryError() {
	suite.TokenRepository.DeleteError = fmt.Errorf("connection refused")

	_, err := suite.Service.Run(context.Background(), Input{})

	assert := suite.Require()
	assert.ErrorIs(err, passwordreset.ErrPersistence)
	assert.Equal(logging.ERROR, suite.Logger.Records()[0].Level)
}
