package passwordreset

import (
	"context"
	c "passreset/internal/core/domain/common"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
	"passreset/internal/db"
	dbuser "passreset/internal/db/user"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool  *pgxpool.Pool
	repo  *PgxPasswordResetTokenRepository
	alice user.User
	bob   user.User
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) SetupTest() {
	suite.alice = suite.createUser("alice@test.test")
	suite.bob = suite.createUser("bob@test.test")
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func (suite *testSuite) createUser(email c.Email) user.User {
	u, err := dbuser.NewPgxRepository(suite.pool).Create(context.Background(), dbuser.CreateUserInput{
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)
	return u
}

func (suite *testSuite) save(userID user.ID, digest string, touchedAt time.Time) {
	err := suite.repo.Save(context.Background(), passwordreset.CreateInput{
		UserID:    userID,
		Digest:    passwordreset.Digest(digest),
		TouchedAt: touchedAt,
	})
	suite.Require().Nil(err)
}

func (suite *testSuite) count() int {
	var n int
	err := suite.pool.QueryRow(context.Background(), "SELECT count(*) FROM password_reset_token").Scan(&n)
	suite.Require().Nil(err)
	return n
}

func TestPgxPasswordResetTokenRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestSaveAndGet() {
	// Setup ---
	suite.save(suite.alice.ID, "digest-1", NOW)

	// Exercise ---
	token, err := suite.repo.GetByDigest(context.Background(), "digest-1")

	// Verify ---
	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(suite.alice.ID, token.UserID)
	assert.Equal(passwordreset.Digest("digest-1"), token.Digest)
	assert.True(NOW.Equal(token.TouchedAt))
}

func (suite *testSuite) TestGetMissing() {
	suite.save(suite.alice.ID, "digest-1", NOW)

	_, err := suite.repo.GetByDigest(context.Background(), "digest-2")

	suite.Require().ErrorIs(err, passwordreset.ErrTokenNotFound)
}

func (suite *testSuite) TestSaveDuplicateDigest() {
	suite.save(suite.alice.ID, "digest-1", NOW)

	err := suite.repo.Save(context.Background(), passwordreset.CreateInput{
		UserID:    suite.bob.ID,
		Digest:    "digest-1",
		TouchedAt: NOW,
	})

	suite.Require().ErrorIs(err, ErrDigestAlreadyExists)
}

func (suite *testSuite) TestSaveForMissingUser() {
	err := suite.repo.Save(context.Background(), passwordreset.CreateInput{
		UserID:    suite.bob.ID + 100,
		Digest:    "digest-1",
		TouchedAt: NOW,
	})

	suite.Require().NotNil(err)
}

func (suite *testSuite) TestDeleteAllForUser() {
	// Setup ---
	ctx := context.Background()
	suite.save(suite.alice.ID, "a1", NOW)
	suite.save(suite.alice.ID, "a2", NOW.Add(time.Hour))
	suite.save(suite.bob.ID, "b1", NOW)

	// Exercise ---
	err := suite.repo.DeleteAllForUser(ctx, suite.alice.ID)

	// Verify ---
	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(1, suite.count())
	_, err = suite.repo.GetByDigest(ctx, "b1")
	assert.Nil(err)

	assert.Nil(suite.repo.DeleteAllForUser(ctx, suite.alice.ID))
}

func (suite *testSuite) TestDeleteTouchedBefore() {
	// Setup ---
	cutoff := NOW.Add(-time.Hour)
	suite.save(suite.alice.ID, "old", cutoff.Add(-time.Second))
	suite.save(suite.alice.ID, "at-cutoff", cutoff)
	suite.save(suite.bob.ID, "fresh", NOW)

	// Exercise ---
	deleted, err := suite.repo.DeleteTouchedBefore(context.Background(), cutoff)

	// Verify ---
	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(int64(1), deleted)
	assert.Equal(2, suite.count())
}
