package uow

import (
	"context"
	passwordreset "passreset/internal/core/domain/password_reset"
	"passreset/internal/core/domain/user"
	"passreset/internal/db"
	dbpasswordreset "passreset/internal/db/password_reset"
	dbuser "passreset/internal/db/user"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	uow  *PgxUnitOfWork
	user user.User
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.uow = NewPgxUnitOfWork(suite.pool, nil)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) SetupTest() {
	ctx := context.Background()
	u, err := dbuser.NewPgxRepository(suite.pool).Create(ctx, dbuser.CreateUserInput{
		Email:        "test@test.test",
		PasswordHash: "old-hash",
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)
	suite.user = u

	err = dbpasswordreset.NewPgxRepository(suite.pool).Save(ctx, passwordreset.CreateInput{
		UserID:    u.ID,
		Digest:    "digest",
		TouchedAt: NOW,
	})
	suite.Require().Nil(err)
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUnitOfWork(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) update(commit bool) {
	ctx := context.Background()
	tx, err := suite.uow.Begin(ctx)
	suite.Require().Nil(err)
	defer tx.Rollback(ctx)

	suite.Require().Nil(tx.Users().SetPassword(ctx, suite.user.ID, "new-hash"))
	suite.Require().Nil(tx.PasswordResetTokens().DeleteAllForUser(ctx, suite.user.ID))
	if commit {
		suite.Require().Nil(tx.Commit(ctx))
	}
}

func (suite *testSuite) TestCommit() {
	ctx := context.Background()

	suite.update(true)

	assert := suite.Require()
	u, err := dbuser.NewPgxRepository(suite.pool).GetByID(ctx, suite.user.ID)
	assert.Nil(err)
	assert.Equal(user.PasswordHash("new-hash"), u.PasswordHash)
	_, err = dbpasswordreset.NewPgxRepository(suite.pool).GetByDigest(ctx, "digest")
	assert.ErrorIs(err, passwordreset.ErrTokenNotFound)
}

func (suite *testSuite) TestRollback() {
	ctx := context.Background()

	suite.update(false)

	assert := suite.Require()
	u, err := dbuser.NewPgxRepository(suite.pool).GetByID(ctx, suite.user.ID)
	assert.Nil(err)
	assert.Equal(user.PasswordHash("old-hash"), u.PasswordHash)
	_, err = dbpasswordreset.NewPgxRepository(suite.pool).GetByDigest(ctx, "digest")
	assert.Nil(err)
}

func (suite *testSuite) TestStaticTokenRepository() {
	tokens := passwordreset.NewFakeRepository()
	unit := NewPgxUnitOfWork(suite.pool, StaticTokenRepositoryFactory(tokens))
	ctx := context.Background()

	tx, err := unit.Begin(ctx)
	suite.Require().Nil(err)
	defer tx.Rollback(ctx)

	suite.Require().Same(tokens, tx.PasswordResetTokens())
}
