package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"adsyclub/internal/common"
	"adsyclub/internal/jobs"
	"adsyclub/internal/models"
	"adsyclub/internal/services"
	"adsyclub/testhelpers"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	e             *echo.Echo
	subscriptions *mockSubscriptionService
	users         *mockUserService
	productSync   *mockProductSync
	userID        uuid.UUID
}

func (suite *HandlersTestSuite) SetupTest() {
	suite.e = echo.New()
	suite.subscriptions = &mockSubscriptionService{}
	suite.users = &mockUserService{}
	suite.productSync = &mockProductSync{}
	suite.userID = uuid.New()
}

func (suite *HandlersTestSuite) TearDownTest() {
	suite.subscriptions.AssertExpectations(suite.T())
	suite.users.AssertExpectations(suite.T())
	suite.productSync.AssertExpectations(suite.T())
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

// newContext builds an authenticated request context for the suite's user.
func (suite *HandlersTestSuite) newContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	ctx := context.WithValue(req.Context(), common.UserIDKey, suite.userID)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return suite.e.NewContext(req, rec), rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func (suite *HandlersTestSuite) TestSignupReturnsToken() {
	user := &models.User{ID: uuid.New(), Email: "new@example.com", Name: "New"}
	suite.users.On("Register", mock.Anything, "new@example.com", "New", "password123").Return(user, nil).Once()

	h := NewAuthHandlers(services.NewAuthService("secret", time.Hour, nil), suite.users)
	c, rec := suite.newContext(http.MethodPost, "/v1/auth/signup", `{"email":"new@example.com","name":"New","password":"password123"}`)

	require.NoError(suite.T(), h.Signup(c))
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(suite.T(), resp.AccessToken)
	assert.Equal(suite.T(), user.ID.String(), resp.UserID)
	assert.Equal(suite.T(), "new@example.com", resp.User.Email)
}

func (suite *HandlersTestSuite) TestSignupErrors() {
	h := NewAuthHandlers(services.NewAuthService("secret", time.Hour, nil), suite.users)

	suite.users.On("Register", mock.Anything, "taken@example.com", "", "password123").Return(nil, common.ErrEmailTaken).Once()
	c, rec := suite.newContext(http.MethodPost, "/v1/auth/signup", `{"email":"taken@example.com","password":"password123"}`)
	require.NoError(suite.T(), h.Signup(c))
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)

	suite.users.On("Register", mock.Anything, "short@example.com", "", "x").
		Return(nil, fmt.Errorf("%w: password must be at least 8 characters", common.ErrValidation)).Once()
	c, rec = suite.newContext(http.MethodPost, "/v1/auth/signup", `{"email":"short@example.com","password":"x"}`)
	require.NoError(suite.T(), h.Signup(c))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestLoginInvalidCredentials() {
	suite.users.On("Authenticate", mock.Anything, "a@example.com", "wrong-password").Return(nil, common.ErrInvalidCredentials).Once()

	h := NewAuthHandlers(services.NewAuthService("secret", time.Hour, nil), suite.users)
	c, rec := suite.newContext(http.MethodPost, "/v1/auth/login", `{"email":"a@example.com","password":"wrong-password"}`)

	require.NoError(suite.T(), h.Login(c))
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	assert.Equal(suite.T(), "INVALID_CREDENTIALS", errorCode(suite.T(), rec))
}

func (suite *HandlersTestSuite) TestCreateSubscription() {
	plan := testhelpers.ProPlan()
	sub := testhelpers.PendingSubscription(suite.userID, plan)
	suite.subscriptions.On("RequestSubscription", mock.Anything, suite.userID, plan.ID, models.PaymentMethodBkash).Return(sub, nil).Once()

	h := NewSubscriptionHandlers(suite.subscriptions)
	c, rec := suite.newContext(http.MethodPost, "/v1/subscriptions", fmt.Sprintf(`{"plan_id":%q,"payment_method":"bkash"}`, plan.ID))

	require.NoError(suite.T(), h.CreateSubscription(c))
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), sub.ID.String())
}

func (suite *HandlersTestSuite) TestCreateSubscriptionRejectsMalformedPlanID() {
	h := NewSubscriptionHandlers(suite.subscriptions)
	c, rec := suite.newContext(http.MethodPost, "/v1/subscriptions", `{"plan_id":"pro"}`)

	require.NoError(suite.T(), h.CreateSubscription(c))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", errorCode(suite.T(), rec))
}

func (suite *HandlersTestSuite) TestCancelMapsInvalidTransition() {
	subID := uuid.New()
	suite.subscriptions.On("Cancel", mock.Anything, suite.userID, subID, "").
		Return(nil, fmt.Errorf("cannot cancel expired subscription: %w", common.ErrInvalidTransition)).Once()

	h := NewSubscriptionHandlers(suite.subscriptions)
	c, rec := suite.newContext(http.MethodPost, "/v1/subscriptions/"+subID.String()+"/cancel", `{}`)
	c.SetParamNames("id")
	c.SetParamValues(subID.String())

	require.NoError(suite.T(), h.CancelSubscription(c))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "INVALID_TRANSITION", errorCode(suite.T(), rec))
}

func (suite *HandlersTestSuite) TestGetSubscriptionNotFound() {
	subID := uuid.New()
	suite.subscriptions.On("Get", mock.Anything, suite.userID, subID).
		Return(nil, fmt.Errorf("subscription %s: %w", subID, common.ErrNotFound)).Once()

	h := NewSubscriptionHandlers(suite.subscriptions)
	c, rec := suite.newContext(http.MethodGet, "/v1/subscriptions/"+subID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(subID.String())

	require.NoError(suite.T(), h.GetSubscriptionByID(c))
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *HandlersTestSuite) TestUpgradeInsufficientBalance() {
	planID := uuid.New()
	suite.subscriptions.On("UpgradeWithBalance", mock.Anything, suite.userID, planID).Return(nil, common.ErrInsufficientBalance).Once()

	h := NewSubscriptionHandlers(suite.subscriptions)
	c, rec := suite.newContext(http.MethodPost, "/v1/subscriptions/upgrade", fmt.Sprintf(`{"plan_id":%q}`, planID))

	require.NoError(suite.T(), h.UpgradeWithBalance(c))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "INSUFFICIENT_BALANCE", errorCode(suite.T(), rec))
}

func (suite *HandlersTestSuite) TestUpgradeSucceeds() {
	plan := testhelpers.ProPlan()
	sub := testhelpers.ActiveSubscription(suite.userID, plan, testhelpers.FixedNow.Add(30*24*time.Hour))
	result := &services.UpgradeResult{
		Subscription: sub,
		Transaction:  &models.BalanceTransaction{ID: uuid.New(), UserID: suite.userID, Amount: decimal.NewFromInt(499), Kind: models.BalanceKindSubscriptionPayment},
	}
	suite.subscriptions.On("UpgradeWithBalance", mock.Anything, suite.userID, plan.ID).Return(result, nil).Once()

	h := NewSubscriptionHandlers(suite.subscriptions)
	c, rec := suite.newContext(http.MethodPost, "/v1/subscriptions/upgrade", fmt.Sprintf(`{"plan_id":%q}`, plan.ID))

	require.NoError(suite.T(), h.UpgradeWithBalance(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"kind":"subscription_payment"`)
}

func (suite *HandlersTestSuite) TestGetLimits() {
	suite.subscriptions.On("GetLimits", mock.Anything, suite.userID).Return(&models.Limits{MaxListings: 10, FeaturedListings: 2}, nil).Once()
	suite.subscriptions.On("IsProSubscriber", mock.Anything, suite.userID).Return(true, nil).Once()

	h := NewSubscriptionHandlers(suite.subscriptions)
	c, rec := suite.newContext(http.MethodGet, "/v1/subscriptions/limits", "")

	require.NoError(suite.T(), h.GetLimits(c))
	assert.JSONEq(suite.T(), `{"max_listings":10,"featured_listings":2,"is_pro":true}`, rec.Body.String())
}

func (suite *HandlersTestSuite) TestGetActiveWithoutSubscription() {
	suite.subscriptions.On("GetActive", mock.Anything, suite.userID).Return(nil, nil).Once()

	h := NewSubscriptionHandlers(suite.subscriptions)
	c, rec := suite.newContext(http.MethodGet, "/v1/subscriptions/active", "")

	require.NoError(suite.T(), h.GetActiveSubscription(c))
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *HandlersTestSuite) TestUnexpectedErrorIsHidden() {
	suite.subscriptions.On("ListForUser", mock.Anything, suite.userID, 50, 0).Return(nil, errors.New("pq: connection refused")).Once()

	h := NewSubscriptionHandlers(suite.subscriptions)
	c, rec := suite.newContext(http.MethodGet, "/v1/subscriptions", "")

	require.NoError(suite.T(), h.ListSubscriptions(c))
	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
	assert.NotContains(suite.T(), rec.Body.String(), "connection refused")
}

func (suite *HandlersTestSuite) TestAdminListRejectsUnknownStatus() {
	h := NewAdminHandlers(suite.subscriptions, suite.productSync, &stubSweeper{}, nil)
	c, rec := suite.newContext(http.MethodGet, "/v1/admin/subscriptions?status=paused", "")

	require.NoError(suite.T(), h.ListSubscriptions(c))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestAdminListByStatus() {
	suite.subscriptions.On("ListAll", mock.Anything, models.SubscriptionStatusExpired, 20, 40).Return([]*models.SubscriptionView{}, nil).Once()

	h := NewAdminHandlers(suite.subscriptions, suite.productSync, &stubSweeper{}, nil)
	c, rec := suite.newContext(http.MethodGet, "/v1/admin/subscriptions?status=EXPIRED&limit=20&offset=40", "")

	require.NoError(suite.T(), h.ListSubscriptions(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestAdminRecordPayment() {
	plan := testhelpers.ProPlan()
	sub := testhelpers.PendingSubscription(uuid.New(), plan)
	outcome := services.PaymentOutcome{Success: true, Method: models.PaymentMethodNagad, Reference: "TX-77"}
	activated := *sub
	activated.Status = models.SubscriptionStatusActive

	suite.subscriptions.On("RecordPayment", mock.Anything, sub.ID, outcome).Return(&activated, nil).Once()

	h := NewAdminHandlers(suite.subscriptions, suite.productSync, &stubSweeper{}, nil)
	c, rec := suite.newContext(http.MethodPost, "/v1/admin/subscriptions/"+sub.ID.String()+"/payment", `{"success":true,"method":"nagad","reference":"TX-77"}`)
	c.SetParamNames("id")
	c.SetParamValues(sub.ID.String())

	require.NoError(suite.T(), h.RecordPayment(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Payment recorded and subscription activated")
}

func (suite *HandlersTestSuite) TestAdminRecordPaymentFailure() {
	subID := uuid.New()
	outcome := services.PaymentOutcome{Success: false, Method: models.PaymentMethodBkash, Detail: "declined"}
	pending := testhelpers.PendingSubscription(uuid.New(), testhelpers.ProPlan())

	suite.subscriptions.On("RecordPayment", mock.Anything, subID, outcome).Return(pending, nil).Once()

	h := NewAdminHandlers(suite.subscriptions, suite.productSync, &stubSweeper{}, nil)
	c, rec := suite.newContext(http.MethodPost, "/v1/admin/subscriptions/"+subID.String()+"/payment", `{"success":false,"method":"bkash","detail":"declined"}`)
	c.SetParamNames("id")
	c.SetParamValues(subID.String())

	require.NoError(suite.T(), h.RecordPayment(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Payment failure recorded")
}

func (suite *HandlersTestSuite) TestAdminRecordPaymentUnknownSubscription() {
	subID := uuid.New()
	suite.subscriptions.On("RecordPayment", mock.Anything, subID, mock.Anything).Return(nil, common.ErrNotFound).Once()

	h := NewAdminHandlers(suite.subscriptions, suite.productSync, &stubSweeper{}, nil)
	c, rec := suite.newContext(http.MethodPost, "/v1/admin/subscriptions/"+subID.String()+"/payment", `{"success":true,"method":"nagad"}`)
	c.SetParamNames("id")
	c.SetParamValues(subID.String())

	require.NoError(suite.T(), h.RecordPayment(c))
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *HandlersTestSuite) TestAdminSweep() {
	sweeper := &stubSweeper{summary: &jobs.SweepSummary{SubscriptionsExpired: 3, Message: "Expired 3 subscriptions (0 failed); cleared 0 legacy pro flags (0 failed)"}}
	h := NewAdminHandlers(suite.subscriptions, suite.productSync, sweeper, nil)
	c, rec := suite.newContext(http.MethodPost, "/v1/admin/sweep", "")

	require.NoError(suite.T(), h.RunSweep(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"subscriptions_expired":3`)
}

func (suite *HandlersTestSuite) TestAdminProductSync() {
	target := uuid.New()
	suite.productSync.On("SyncWithSubscriptionStatus", mock.Anything, &target, true).
		Return(&services.SyncResult{SyncType: services.SyncTypeSingleUser, DryRun: true, UsersProcessed: 1}, nil).Once()

	h := NewAdminHandlers(suite.subscriptions, suite.productSync, &stubSweeper{}, nil)
	c, rec := suite.newContext(http.MethodPost, "/v1/admin/products/sync", fmt.Sprintf(`{"user_id":%q,"dry_run":true}`, target))

	require.NoError(suite.T(), h.SyncProducts(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	c, rec = suite.newContext(http.MethodPost, "/v1/admin/products/sync", `{"user_id":"someone"}`)
	require.NoError(suite.T(), h.SyncProducts(c))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestAdminJobsWhenDisabled() {
	h := NewAdminHandlers(suite.subscriptions, suite.productSync, &stubSweeper{}, nil)
	c, rec := suite.newContext(http.MethodGet, "/v1/admin/jobs", "")

	require.NoError(suite.T(), h.ListJobs(c))
	assert.JSONEq(suite.T(), `{"enabled":false,"jobs":[]}`, rec.Body.String())
}

func TestHealthHandlers(t *testing.T) {
	e := echo.New()

	serve := func(h *HealthHandlers, handler func(*HealthHandlers, echo.Context) error) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
		require.NoError(t, handler(h, c))
		return rec
	}

	healthy := NewHealthHandlers(stubPinger{}, stubPinger{}, stubPinger{}, "test")
	assert.Equal(t, http.StatusOK, serve(healthy, (*HealthHandlers).HealthCheck).Code)
	assert.Equal(t, http.StatusOK, serve(healthy, (*HealthHandlers).ReadinessCheck).Code)

	storageDown := NewHealthHandlers(stubPinger{}, stubPinger{}, stubPinger{err: errors.New("bucket missing")}, "test")
	rec := serve(storageDown, (*HealthHandlers).HealthCheck)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"unhealthy"`)

	dbDown := NewHealthHandlers(stubPinger{err: errors.New("dial tcp")}, stubPinger{}, stubPinger{}, "test")
	assert.Equal(t, http.StatusPartialContent, serve(dbDown, (*HealthHandlers).HealthCheck).Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(dbDown, (*HealthHandlers).ReadinessCheck).Code)

	rec = serve(dbDown, (*HealthHandlers).DetailedHealthCheck)
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Contains(t, rec.Body.String(), "dial tcp")
}
