package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"adsyclub/internal/common"
	"adsyclub/internal/models"
	"adsyclub/testhelpers"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProductSyncServiceTestSuite struct {
	suite.Suite
	store   *testhelpers.MockStore
	service ProductSyncService
	ctx     context.Context
}

func (suite *ProductSyncServiceTestSuite) SetupTest() {
	suite.store = testhelpers.NewMockStore()
	suite.service = NewProductSyncService(suite.store.Store, clockwork.NewFakeClockAt(testhelpers.FixedNow))
	suite.ctx = context.Background()
}

func (suite *ProductSyncServiceTestSuite) TearDownTest() {
	suite.store.AssertExpectations(suite.T())
}

func TestProductSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductSyncServiceTestSuite))
}

func (suite *ProductSyncServiceTestSuite) TestSetProductsActive_IsIdempotent() {
	userID := uuid.New()

	suite.store.Products.On("SetActiveForOwner", suite.ctx, userID, false).Return(int64(3), nil).Once()
	suite.store.Products.On("SetActiveForOwner", suite.ctx, userID, false).Return(int64(0), nil).Once()

	first, err := suite.service.SetProductsActive(suite.ctx, nil, userID, false, "Subscription expired")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), first.Affected)
	assert.Equal(suite.T(), "Subscription expired", first.Reason)

	second, err := suite.service.SetProductsActive(suite.ctx, nil, userID, false, "Subscription expired")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), second.Affected)
}

func (suite *ProductSyncServiceTestSuite) TestSetProductsActive_UsesSuppliedStore() {
	userID := uuid.New()
	txStore := testhelpers.NewMockStore()
	txStore.Products.On("SetActiveForOwner", suite.ctx, userID, true).Return(int64(2), nil).Once()

	summary, err := suite.service.SetProductsActive(suite.ctx, txStore.Store, userID, true, "Pro activated")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), summary.Affected)
	txStore.AssertExpectations(suite.T())
}

func (suite *ProductSyncServiceTestSuite) TestSetProductsActive_Error() {
	userID := uuid.New()
	suite.store.Products.On("SetActiveForOwner", suite.ctx, userID, true).Return(int64(0), errors.New("timeout")).Once()

	summary, err := suite.service.SetProductsActive(suite.ctx, nil, userID, true, "Pro activated")
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), summary)
}

func (suite *ProductSyncServiceTestSuite) TestSyncAllUsers() {
	proUser := &models.ProductOwner{UserID: uuid.New(), Email: "pro@adsyclub.test", IsPro: true, ProValidity: testhelpers.TimePtr(testhelpers.FixedNow.Add(48 * time.Hour))}
	lapsedUser := &models.ProductOwner{UserID: uuid.New(), Email: "lapsed@adsyclub.test", IsPro: true, ProValidity: testhelpers.TimePtr(testhelpers.FixedNow.Add(-time.Hour))}
	freeUser := &models.ProductOwner{UserID: uuid.New(), Email: "free@adsyclub.test"}

	suite.store.Users.On("ListWithProducts", suite.ctx).Return([]*models.ProductOwner{proUser, lapsedUser, freeUser}, nil).Once()
	suite.store.Products.On("SetActiveForOwner", suite.ctx, proUser.UserID, true).Return(int64(4), nil).Once()
	suite.store.Products.On("SetActiveForOwner", suite.ctx, lapsedUser.UserID, false).Return(int64(2), nil).Once()
	suite.store.Products.On("SetActiveForOwner", suite.ctx, freeUser.UserID, false).Return(int64(0), nil).Once()

	result, err := suite.service.SyncWithSubscriptionStatus(suite.ctx, nil, false)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), SyncTypeAllUsers, result.SyncType)
	assert.Equal(suite.T(), 3, result.UsersProcessed)
	assert.Equal(suite.T(), 4, result.ProductsActivated)
	assert.Equal(suite.T(), 2, result.ProductsDeactivated)
	assert.Contains(suite.T(), result.Message, "4 products activated")
	require.Len(suite.T(), result.Details, 3)
	assert.False(suite.T(), result.Details[1].ShouldBeActive)
}

func (suite *ProductSyncServiceTestSuite) TestSyncSingleUser_DryRunCountsOnly() {
	user := &models.User{ID: uuid.New(), Email: "pro@adsyclub.test", IsPro: true}

	suite.store.Users.On("GetByID", suite.ctx, user.ID).Return(user, nil).Once()
	suite.store.Products.On("CountByOwnerAndState", suite.ctx, user.ID, false).Return(5, nil).Once()

	result, err := suite.service.SyncWithSubscriptionStatus(suite.ctx, &user.ID, true)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), SyncTypeSingleUser, result.SyncType)
	assert.True(suite.T(), result.DryRun)
	assert.Equal(suite.T(), 5, result.ProductsActivated)
	assert.Contains(suite.T(), result.Message, "[dry run]")
	suite.store.Products.AssertNotCalled(suite.T(), "SetActiveForOwner")
}

func (suite *ProductSyncServiceTestSuite) TestSyncSingleUser_NotFound() {
	userID := uuid.New()
	suite.store.Users.On("GetByID", suite.ctx, userID).Return(nil, pgx.ErrNoRows).Once()

	result, err := suite.service.SyncWithSubscriptionStatus(suite.ctx, &userID, false)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
	assert.Nil(suite.T(), result)
}

func (suite *ProductSyncServiceTestSuite) TestSyncContinuesAfterUserFailure() {
	broken := &models.ProductOwner{UserID: uuid.New(), Email: "broken@adsyclub.test"}
	healthy := &models.ProductOwner{UserID: uuid.New(), Email: "ok@adsyclub.test"}

	suite.store.Users.On("ListWithProducts", suite.ctx).Return([]*models.ProductOwner{broken, healthy}, nil).Once()
	suite.store.Products.On("SetActiveForOwner", suite.ctx, broken.UserID, false).Return(int64(0), errors.New("lock timeout")).Once()
	suite.store.Products.On("SetActiveForOwner", suite.ctx, healthy.UserID, false).Return(int64(1), nil).Once()

	result, err := suite.service.SyncWithSubscriptionStatus(suite.ctx, nil, false)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.UsersProcessed)
	assert.Equal(suite.T(), 1, result.UsersFailed)
	assert.Equal(suite.T(), 1, result.ProductsDeactivated)
	assert.Contains(suite.T(), result.Message, "1 users failed")
}
