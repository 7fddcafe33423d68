package testhelpers

import (
	"context"
	"time"

	"adsyclub/internal/models"
	"adsyclub/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPlanRepository mocks repositories.PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *models.SubscriptionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) GetByName(ctx context.Context, name string) (*models.SubscriptionPlan, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) List(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]*models.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockPlanRepository) GetOrCreate(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, bool, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.SubscriptionPlan), args.Bool(1), args.Error(2)
}

// MockSubscriptionRepository mocks repositories.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) UpdateLifecycle(ctx context.Context, subscription *models.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListAll(ctx context.Context, status string, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) GetCurrentForUser(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Subscription, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListActiveByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) LatestOtherActivePaidEnd(ctx context.Context, userID, excludeID uuid.UUID, now time.Time) (*time.Time, error) {
	args := m.Called(ctx, userID, excludeID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockSubscriptionRepository) ListActiveExpired(ctx context.Context, now time.Time) ([]*models.Subscription, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Subscription, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListRecentlyExpired(ctx context.Context, since, now time.Time) ([]*models.Subscription, error) {
	args := m.Called(ctx, since, now)
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

// MockSubscriptionLogRepository mocks repositories.SubscriptionLogRepository
type MockSubscriptionLogRepository struct {
	mock.Mock
}

func (m *MockSubscriptionLogRepository) Create(ctx context.Context, entry *models.SubscriptionLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSubscriptionLogRepository) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*models.SubscriptionLog, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Get(0).([]*models.SubscriptionLog), args.Error(1)
}

// MockUserRepository mocks repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) SetProStatus(ctx context.Context, id uuid.UUID, isPro bool, validity *time.Time) error {
	args := m.Called(ctx, id, isPro, validity)
	return args.Error(0)
}

func (m *MockUserRepository) ClearProFlag(ctx context.Context, id uuid.UUID, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockUserRepository) ListExpiredPro(ctx context.Context, now time.Time) ([]*models.User, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) ListWithProducts(ctx context.Context) ([]*models.ProductOwner, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.ProductOwner), args.Error(1)
}

func (m *MockUserRepository) DebitBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

// MockProductRepository mocks repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) SetActiveForOwner(ctx context.Context, ownerID uuid.UUID, active bool) (int64, error) {
	args := m.Called(ctx, ownerID, active)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountByOwnerAndState(ctx context.Context, ownerID uuid.UUID, active bool) (int, error) {
	args := m.Called(ctx, ownerID, active)
	return args.Int(0), args.Error(1)
}

// MockBalanceRepository mocks repositories.BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) Create(ctx context.Context, entry *models.BalanceTransaction) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockBalanceRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BalanceTransaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.BalanceTransaction), args.Error(1)
}

// MockNotificationRepository mocks repositories.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

// MockCacheService mocks caching.CacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetLimits(ctx context.Context, userID uuid.UUID) (*models.Limits, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Limits), args.Error(1)
}

func (m *MockCacheService) SetLimits(ctx context.Context, userID uuid.UUID, limits *models.Limits, ttl time.Duration) error {
	args := m.Called(ctx, userID, limits, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockArchiver mocks services.ReportArchiver
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Archive(ctx context.Context, objectName string, report any) error {
	args := m.Called(ctx, objectName, report)
	return args.Error(0)
}

func (m *MockArchiver) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockArchiver) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockStore bundles a repositories.Store whose members are all mocks.
type MockStore struct {
	Plans         *MockPlanRepository
	Subscriptions *MockSubscriptionRepository
	Logs          *MockSubscriptionLogRepository
	Users         *MockUserRepository
	Products      *MockProductRepository
	Balances      *MockBalanceRepository
	Notifications *MockNotificationRepository
	Store         *repositories.Store
}

func NewMockStore() *MockStore {
	ms := &MockStore{
		Plans:         &MockPlanRepository{},
		Subscriptions: &MockSubscriptionRepository{},
		Logs:          &MockSubscriptionLogRepository{},
		Users:         &MockUserRepository{},
		Products:      &MockProductRepository{},
		Balances:      &MockBalanceRepository{},
		Notifications: &MockNotificationRepository{},
	}
	ms.Store = &repositories.Store{
		Plans:         ms.Plans,
		Subscriptions: ms.Subscriptions,
		Logs:          ms.Logs,
		Users:         ms.Users,
		Products:      ms.Products,
		Balances:      ms.Balances,
		Notifications: ms.Notifications,
	}
	return ms
}

// AssertExpectations checks every mock in the store.
func (ms *MockStore) AssertExpectations(t mock.TestingT) {
	ms.Plans.AssertExpectations(t)
	ms.Subscriptions.AssertExpectations(t)
	ms.Logs.AssertExpectations(t)
	ms.Users.AssertExpectations(t)
	ms.Products.AssertExpectations(t)
	ms.Balances.AssertExpectations(t)
	ms.Notifications.AssertExpectations(t)
}

// FakeTransactor runs fn directly against Store and counts commits and rollbacks.
type FakeTransactor struct {
	Store     *repositories.Store
	Commits   int
	Rollbacks int
}

func (f *FakeTransactor) WithinTx(ctx context.Context, fn func(store *repositories.Store) error) error {
	if err := fn(f.Store); err != nil {
		f.Rollbacks++
		return err
	}
	f.Commits++
	return nil
}
