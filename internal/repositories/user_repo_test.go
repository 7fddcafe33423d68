package repositories

import (
	"context"
	"testing"
	"time"

	"adsyclub/internal/common"
	"adsyclub/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type UserRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    UserRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewUserRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func (suite *UserRepoTestSuite) TestCreate_DuplicateEmail() {
	user := &models.User{Email: "seller@adsyclub.test", Name: "Seller"}

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \$1`).
		WithArgs(user.Email).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	err := suite.repo.Create(suite.context, user)
	assert.ErrorIs(suite.T(), err, common.ErrEmailTaken)
}

func (suite *UserRepoTestSuite) TestCreate_Success() {
	now := time.Now().UTC()
	user := &models.User{Email: "new@adsyclub.test", Name: "New", PasswordHash: "hash", Balance: decimal.Zero}

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs(user.Email).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), user.Email, user.Name, user.PasswordHash, false, false, (*time.Time)(nil), decimal.Zero).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(suite.T(), suite.repo.Create(suite.context, user))
	assert.NotEqual(suite.T(), uuid.Nil, user.ID)
}

func (suite *UserRepoTestSuite) TestGetByIDForUpdate() {
	now := time.Now().UTC()
	validity := now.Add(48 * time.Hour)
	balance := decimal.NewFromInt(1000)

	suite.mock.ExpectQuery(`FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "password_hash", "is_admin", "is_pro", "pro_validity", "balance", "created_at", "updated_at"}).
			AddRow(suite.userID, "pro@adsyclub.test", "Pro", "hash", false, true, &validity, balance, now, now))

	user, err := suite.repo.GetByIDForUpdate(suite.context, suite.userID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), user.IsPro)
	assert.True(suite.T(), user.Balance.Equal(balance))
	require.NotNil(suite.T(), user.ProValidity)
	assert.Equal(suite.T(), validity, *user.ProValidity)
}

func (suite *UserRepoTestSuite) TestSetProStatus() {
	validity := time.Now().Add(30 * 24 * time.Hour)

	suite.mock.ExpectExec(`UPDATE users SET is_pro = \$1, pro_validity = \$2`).
		WithArgs(true, &validity, suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.SetProStatus(suite.context, suite.userID, true, &validity))
}

func (suite *UserRepoTestSuite) TestClearProFlag_OnlyMatchesLapsedValidity() {
	now := time.Date(2026, 5, 1, 0, 5, 0, 0, time.UTC)

	suite.mock.ExpectExec(`UPDATE users SET is_pro = false, updated_at = NOW\(\) WHERE id = \$1 AND is_pro = true AND pro_validity < \$2`).
		WithArgs(suite.userID, now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.ClearProFlag(suite.context, suite.userID, now))
}

func (suite *UserRepoTestSuite) TestClearProFlag_RenewedMeanwhileIsNoop() {
	now := time.Date(2026, 5, 1, 0, 5, 0, 0, time.UTC)

	// A grant committed after the listing moved pro_validity past now.
	suite.mock.ExpectExec(`AND pro_validity < \$2`).
		WithArgs(suite.userID, now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(suite.T(), suite.repo.ClearProFlag(suite.context, suite.userID, now))
}

func (suite *UserRepoTestSuite) TestDebitBalance_Insufficient() {
	amount := decimal.NewFromInt(499)

	suite.mock.ExpectExec(`UPDATE users SET balance = balance - \$1`).
		WithArgs(amount, suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.DebitBalance(suite.context, suite.userID, amount)
	assert.ErrorIs(suite.T(), err, common.ErrInsufficientBalance)
}

func (suite *UserRepoTestSuite) TestListWithProducts() {
	other := uuid.New()
	validity := time.Now().Add(time.Hour)

	suite.mock.ExpectQuery(`WHERE EXISTS \(SELECT 1 FROM products p WHERE p.owner_id = u.id\)`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "is_pro", "pro_validity"}).
			AddRow(suite.userID, "a@adsyclub.test", true, &validity).
			AddRow(other, "b@adsyclub.test", false, (*time.Time)(nil)))

	owners, err := suite.repo.ListWithProducts(suite.context)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), owners, 2)
	assert.True(suite.T(), owners[0].IsPro)
	assert.Nil(suite.T(), owners[1].ProValidity)
}
