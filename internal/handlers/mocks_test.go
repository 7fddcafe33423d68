package handlers

import (
	"context"

	"adsyclub/internal/jobs"
	"adsyclub/internal/models"
	"adsyclub/internal/repositories"
	"adsyclub/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockSubscriptionService struct {
	mock.Mock
}

func (m *mockSubscriptionService) sub(args mock.Arguments) (*models.Subscription, error) {
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func (m *mockSubscriptionService) view(args mock.Arguments) (*models.SubscriptionView, error) {
	view, _ := args.Get(0).(*models.SubscriptionView)
	return view, args.Error(1)
}

func (m *mockSubscriptionService) views(args mock.Arguments) ([]*models.SubscriptionView, error) {
	views, _ := args.Get(0).([]*models.SubscriptionView)
	return views, args.Error(1)
}

func (m *mockSubscriptionService) CreateFreeSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	return m.sub(m.Called(ctx, userID))
}

func (m *mockSubscriptionService) RequestSubscription(ctx context.Context, userID, planID uuid.UUID, paymentMethod string) (*models.Subscription, error) {
	return m.sub(m.Called(ctx, userID, planID, paymentMethod))
}

func (m *mockSubscriptionService) Activate(ctx context.Context, userID, subscriptionID uuid.UUID, detail string) (*models.Subscription, error) {
	return m.sub(m.Called(ctx, userID, subscriptionID, detail))
}

func (m *mockSubscriptionService) RecordPayment(ctx context.Context, subscriptionID uuid.UUID, outcome services.PaymentOutcome) (*models.Subscription, error) {
	return m.sub(m.Called(ctx, subscriptionID, outcome))
}

func (m *mockSubscriptionService) Cancel(ctx context.Context, userID, subscriptionID uuid.UUID, reason string) (*models.Subscription, error) {
	return m.sub(m.Called(ctx, userID, subscriptionID, reason))
}

func (m *mockSubscriptionService) UpgradeWithBalance(ctx context.Context, userID, planID uuid.UUID) (*services.UpgradeResult, error) {
	args := m.Called(ctx, userID, planID)
	result, _ := args.Get(0).(*services.UpgradeResult)
	return result, args.Error(1)
}

func (m *mockSubscriptionService) Get(ctx context.Context, userID, subscriptionID uuid.UUID) (*models.SubscriptionView, error) {
	return m.view(m.Called(ctx, userID, subscriptionID))
}

func (m *mockSubscriptionService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.SubscriptionView, error) {
	return m.views(m.Called(ctx, userID, limit, offset))
}

func (m *mockSubscriptionService) ListLogs(ctx context.Context, userID, subscriptionID uuid.UUID) ([]*models.SubscriptionLog, error) {
	args := m.Called(ctx, userID, subscriptionID)
	logs, _ := args.Get(0).([]*models.SubscriptionLog)
	return logs, args.Error(1)
}

func (m *mockSubscriptionService) GetActive(ctx context.Context, userID uuid.UUID) (*models.SubscriptionView, error) {
	return m.view(m.Called(ctx, userID))
}

func (m *mockSubscriptionService) GetLimits(ctx context.Context, userID uuid.UUID) (*models.Limits, error) {
	args := m.Called(ctx, userID)
	limits, _ := args.Get(0).(*models.Limits)
	return limits, args.Error(1)
}

func (m *mockSubscriptionService) IsProSubscriber(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSubscriptionService) ListAll(ctx context.Context, status string, limit, offset int) ([]*models.SubscriptionView, error) {
	return m.views(m.Called(ctx, status, limit, offset))
}

func (m *mockSubscriptionService) ListExpiringSoon(ctx context.Context) ([]*models.SubscriptionView, error) {
	return m.views(m.Called(ctx))
}

func (m *mockSubscriptionService) ListRecentlyExpired(ctx context.Context) ([]*models.SubscriptionView, error) {
	return m.views(m.Called(ctx))
}

func (m *mockSubscriptionService) ListPlans(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error) {
	args := m.Called(ctx, activeOnly)
	plans, _ := args.Get(0).([]*models.SubscriptionPlan)
	return plans, args.Error(1)
}

func (m *mockSubscriptionService) GetPlan(ctx context.Context, planID uuid.UUID) (*models.SubscriptionPlan, error) {
	args := m.Called(ctx, planID)
	plan, _ := args.Get(0).(*models.SubscriptionPlan)
	return plan, args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	args := m.Called(ctx, email, name, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type mockProductSync struct {
	mock.Mock
}

func (m *mockProductSync) SetProductsActive(ctx context.Context, store *repositories.Store, userID uuid.UUID, activate bool, reason string) (*services.SyncSummary, error) {
	args := m.Called(ctx, store, userID, activate, reason)
	summary, _ := args.Get(0).(*services.SyncSummary)
	return summary, args.Error(1)
}

func (m *mockProductSync) SyncWithSubscriptionStatus(ctx context.Context, userID *uuid.UUID, dryRun bool) (*services.SyncResult, error) {
	args := m.Called(ctx, userID, dryRun)
	result, _ := args.Get(0).(*services.SyncResult)
	return result, args.Error(1)
}

type stubSweeper struct {
	summary *jobs.SweepSummary
	err     error
}

func (s *stubSweeper) Run(context.Context) (*jobs.SweepSummary, error) {
	return s.summary, s.err
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}
