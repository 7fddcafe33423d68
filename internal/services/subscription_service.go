package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adsyclub/internal/caching"
	"adsyclub/internal/common"
	"adsyclub/internal/metrics"
	"adsyclub/internal/models"
	"adsyclub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const (
	ExpiringSoonWindow    = 7 * 24 * time.Hour
	RecentlyExpiredWindow = 30 * 24 * time.Hour

	freeSubscriptionCreatedDetail = "Free subscription automatically created for new user"
)

// PaymentOutcome is the result reported by a payment provider or an operator.
type PaymentOutcome struct {
	Success   bool   `json:"success"`
	Method    string `json:"method"`
	Reference string `json:"reference"`
	Detail    string `json:"detail"`
}

// UpgradeResult describes a completed balance-funded upgrade.
type UpgradeResult struct {
	Subscription *models.Subscription       `json:"subscription"`
	Cancelled    []*models.Subscription     `json:"cancelled"`
	Transaction  *models.BalanceTransaction `json:"transaction"`
}

// SubscriptionService handles subscription-related business logic
type SubscriptionService interface {
	CreateFreeSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	RequestSubscription(ctx context.Context, userID, planID uuid.UUID, paymentMethod string) (*models.Subscription, error)
	Activate(ctx context.Context, userID, subscriptionID uuid.UUID, detail string) (*models.Subscription, error)
	RecordPayment(ctx context.Context, subscriptionID uuid.UUID, outcome PaymentOutcome) (*models.Subscription, error)
	Cancel(ctx context.Context, userID, subscriptionID uuid.UUID, reason string) (*models.Subscription, error)
	UpgradeWithBalance(ctx context.Context, userID, planID uuid.UUID) (*UpgradeResult, error)

	Get(ctx context.Context, userID, subscriptionID uuid.UUID) (*models.SubscriptionView, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.SubscriptionView, error)
	ListLogs(ctx context.Context, userID, subscriptionID uuid.UUID) ([]*models.SubscriptionLog, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*models.SubscriptionView, error)
	GetLimits(ctx context.Context, userID uuid.UUID) (*models.Limits, error)
	IsProSubscriber(ctx context.Context, userID uuid.UUID) (bool, error)

	ListAll(ctx context.Context, status string, limit, offset int) ([]*models.SubscriptionView, error)
	ListExpiringSoon(ctx context.Context) ([]*models.SubscriptionView, error)
	ListRecentlyExpired(ctx context.Context) ([]*models.SubscriptionView, error)

	ListPlans(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*models.SubscriptionPlan, error)
}

type subscriptionService struct {
	store       *repositories.Store
	tx          repositories.Transactor
	engine      *LifecycleEngine
	productSync ProductSyncService
	cache       caching.CacheService
	events      *Dispatcher
}

// NewSubscriptionService creates a new SubscriptionService instance
func NewSubscriptionService(
	store *repositories.Store,
	tx repositories.Transactor,
	engine *LifecycleEngine,
	productSync ProductSyncService,
	cache caching.CacheService,
	events *Dispatcher,
) SubscriptionService {
	if cache == nil {
		cache = caching.NewNoopCacheService()
	}
	return &subscriptionService{
		store:       store,
		tx:          tx,
		engine:      engine,
		productSync: productSync,
		cache:       cache,
		events:      events,
	}
}

// CreateFreeSubscription starts the free tier for a newly registered user.
func (s *subscriptionService) CreateFreeSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	plan, err := s.store.Plans.GetByName(ctx, models.FreePlanName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn().Str("user_id", userID.String()).Msg("Free plan not configured, skipping free subscription")
			return nil, fmt.Errorf("plan %q: %w", models.FreePlanName, common.ErrPlanNotConfigured)
		}
		return nil, fmt.Errorf("failed to load free plan: %w", err)
	}

	now := s.engine.Now()
	end := now.Add(plan.Duration())
	sub := &models.Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: &now,
		EndDate:   &end,
		AutoRenew: true,
	}

	err = s.tx.WithinTx(ctx, func(store *repositories.Store) error {
		if err := store.Subscriptions.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return appendLog(ctx, store, sub.ID, models.LogActionCreated, freeSubscriptionCreatedDetail)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID.String()).Str("subscription_id", sub.ID.String()).Msg("Created free subscription")
	s.afterTransition(ctx, sub, "", models.LogActionCreated)
	return sub, nil
}

// RequestSubscription opens a pending subscription. Free plans are activated
// straight away since there is nothing to pay.
func (s *subscriptionService) RequestSubscription(ctx context.Context, userID, planID uuid.UUID, paymentMethod string) (*models.Subscription, error) {
	if paymentMethod != "" && !models.IsValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("%q: %w", paymentMethod, common.ErrInvalidPaymentMethod)
	}

	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, fmt.Errorf("plan %s: %w", plan.Name, common.ErrPlanInactive)
	}

	sub := &models.Subscription{
		ID:            uuid.New(),
		UserID:        userID,
		PlanID:        plan.ID,
		Status:        models.SubscriptionStatusPending,
		PaymentMethod: common.StringPtr(paymentMethod),
	}

	err = s.tx.WithinTx(ctx, func(store *repositories.Store) error {
		if err := store.Subscriptions.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		if err := appendLog(ctx, store, sub.ID, models.LogActionCreated, fmt.Sprintf("Subscription requested for plan %s", plan.Name)); err != nil {
			return err
		}
		if plan.IsPaid() {
			return nil
		}
		return s.activateLocked(ctx, store, sub, plan, "Free plan activated immediately")
	})
	if err != nil {
		return nil, err
	}

	action := models.LogActionCreated
	if sub.Status == models.SubscriptionStatusActive {
		action = models.LogActionActivated
	}
	s.afterTransition(ctx, sub, "", action)
	return sub, nil
}

// Activate moves a pending subscription owned by userID to active.
func (s *subscriptionService) Activate(ctx context.Context, userID, subscriptionID uuid.UUID, detail string) (*models.Subscription, error) {
	var sub *models.Subscription
	err := s.tx.WithinTx(ctx, func(store *repositories.Store) error {
		locked, plan, err := lockWithPlan(ctx, store, subscriptionID)
		if err != nil {
			return err
		}
		if locked.UserID != userID {
			return fmt.Errorf("subscription %s: %w", subscriptionID, common.ErrNotFound)
		}
		if locked.Status != models.SubscriptionStatusPending {
			return fmt.Errorf("subscription %s is %s: %w", subscriptionID, locked.Status, common.ErrInvalidTransition)
		}
		if detail == "" {
			detail = "Subscription activated"
		}
		if err := s.activateLocked(ctx, store, locked, plan, detail); err != nil {
			return err
		}
		sub = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, sub, models.SubscriptionStatusPending, models.LogActionActivated)
	return sub, nil
}

// RecordPayment applies a payment outcome to a pending subscription. A
// failed payment is logged and leaves the subscription pending.
func (s *subscriptionService) RecordPayment(ctx context.Context, subscriptionID uuid.UUID, outcome PaymentOutcome) (*models.Subscription, error) {
	if outcome.Method != "" && !models.IsValidPaymentMethod(outcome.Method) {
		return nil, fmt.Errorf("%q: %w", outcome.Method, common.ErrInvalidPaymentMethod)
	}

	var sub *models.Subscription
	err := s.tx.WithinTx(ctx, func(store *repositories.Store) error {
		locked, plan, err := lockWithPlan(ctx, store, subscriptionID)
		if err != nil {
			return err
		}
		if locked.Status != models.SubscriptionStatusPending {
			return fmt.Errorf("subscription %s is %s: %w", subscriptionID, locked.Status, common.ErrInvalidTransition)
		}
		sub = locked

		if !outcome.Success {
			detail := outcome.Detail
			if detail == "" {
				detail = "Payment failed"
			}
			return appendLog(ctx, store, locked.ID, models.LogActionPaymentFailed, detail)
		}

		if outcome.Method != "" {
			locked.PaymentMethod = common.StringPtr(outcome.Method)
		}
		locked.PaymentReference = common.StringPtr(outcome.Reference)

		detail := outcome.Detail
		if detail == "" {
			detail = fmt.Sprintf("Payment received via %s", common.SafeString(locked.PaymentMethod))
		}
		return s.activateLocked(ctx, store, locked, plan, detail)
	})
	if err != nil {
		return nil, err
	}

	if !outcome.Success {
		metrics.RecordTransition(models.LogActionPaymentFailed)
		log.Warn().Str("subscription_id", sub.ID.String()).Str("detail", outcome.Detail).Msg("Subscription payment failed")
		return sub, nil
	}
	s.afterTransition(ctx, sub, models.SubscriptionStatusPending, models.LogActionActivated)
	return sub, nil
}

// Cancel ends an active subscription owned by userID.
func (s *subscriptionService) Cancel(ctx context.Context, userID, subscriptionID uuid.UUID, reason string) (*models.Subscription, error) {
	if reason == "" {
		reason = "Subscription cancelled by user"
	}

	var sub *models.Subscription
	err := s.tx.WithinTx(ctx, func(store *repositories.Store) error {
		locked, plan, err := lockWithPlan(ctx, store, subscriptionID)
		if err != nil {
			return err
		}
		if locked.UserID != userID {
			return fmt.Errorf("subscription %s: %w", subscriptionID, common.ErrNotFound)
		}
		if locked.Status != models.SubscriptionStatusActive {
			return fmt.Errorf("subscription %s is %s: %w", subscriptionID, locked.Status, common.ErrInvalidTransition)
		}
		if _, err := s.engine.Cancel(ctx, store, locked, plan); err != nil {
			return err
		}
		if err := appendLog(ctx, store, locked.ID, models.LogActionCancelled, reason); err != nil {
			return err
		}
		sub = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, sub, models.SubscriptionStatusActive, models.LogActionCancelled)
	return sub, nil
}

// UpgradeWithBalance pays for planID from the user's account balance,
// replaces every active subscription with the new one and records the debit.
// No proration is applied to the replaced subscriptions.
func (s *subscriptionService) UpgradeWithBalance(ctx context.Context, userID, planID uuid.UUID) (*UpgradeResult, error) {
	result := &UpgradeResult{}

	err := s.tx.WithinTx(ctx, func(store *repositories.Store) error {
		plan, err := store.Plans.GetByID(ctx, planID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("plan %s: %w", planID, common.ErrNotFound)
			}
			return fmt.Errorf("failed to load plan: %w", err)
		}
		if !plan.IsActive {
			return fmt.Errorf("plan %s: %w", plan.Name, common.ErrPlanInactive)
		}
		if !plan.IsPaid() {
			return fmt.Errorf("cannot upgrade to free plan %s: %w", plan.Name, common.ErrInvalidTransition)
		}

		user, err := store.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
			}
			return fmt.Errorf("failed to lock user: %w", err)
		}
		if user.Balance.LessThan(plan.Price) {
			return fmt.Errorf("balance %s is below price %s: %w", user.Balance.StringFixed(2), plan.Price.StringFixed(2), common.ErrInsufficientBalance)
		}

		current, err := store.Subscriptions.ListActiveByUserForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to lock active subscriptions: %w", err)
		}

		if err := store.Users.DebitBalance(ctx, userID, plan.Price); err != nil {
			return err
		}

		sub := &models.Subscription{
			ID:            uuid.New(),
			UserID:        userID,
			PlanID:        plan.ID,
			Status:        models.SubscriptionStatusPending,
			PaymentMethod: common.StringPtr(models.PaymentMethodAccountBalance),
		}
		ledger := &models.BalanceTransaction{
			ID:        uuid.New(),
			UserID:    userID,
			Amount:    plan.Price,
			Kind:      models.BalanceKindSubscriptionPayment,
			Reference: sub.ID.String(),
		}
		if err := store.Balances.Create(ctx, ledger); err != nil {
			return fmt.Errorf("failed to record balance transaction: %w", err)
		}
		sub.PaymentReference = common.StringPtr(ledger.ID.String())

		if err := store.Subscriptions.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		if err := appendLog(ctx, store, sub.ID, models.LogActionCreated, fmt.Sprintf("Upgrade to %s paid from account balance", plan.Name)); err != nil {
			return err
		}
		if err := s.activateLocked(ctx, store, sub, plan, fmt.Sprintf("Paid %s from account balance", plan.Price.StringFixed(2))); err != nil {
			return err
		}

		// The new subscription is already active, so cancelling the old ones
		// never revokes the pro mirror.
		for _, old := range current {
			oldPlan, err := store.Plans.GetByID(ctx, old.PlanID)
			if err != nil {
				return fmt.Errorf("failed to load plan of subscription %s: %w", old.ID, err)
			}
			if _, err := s.engine.Cancel(ctx, store, old, oldPlan); err != nil {
				return err
			}
			if err := appendLog(ctx, store, old.ID, models.LogActionCancelled, fmt.Sprintf("Upgraded to %s", plan.Name)); err != nil {
				return err
			}
		}

		result.Subscription = sub
		result.Cancelled = current
		result.Transaction = ledger
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, old := range result.Cancelled {
		s.afterTransition(ctx, old, models.SubscriptionStatusActive, models.LogActionCancelled)
	}
	s.afterTransition(ctx, result.Subscription, "", models.LogActionActivated)

	log.Info().
		Str("user_id", userID.String()).
		Str("subscription_id", result.Subscription.ID.String()).
		Str("amount", result.Transaction.Amount.StringFixed(2)).
		Int("cancelled", len(result.Cancelled)).
		Msg("Upgraded subscription with account balance")
	return result, nil
}

func (s *subscriptionService) Get(ctx context.Context, userID, subscriptionID uuid.UUID) (*models.SubscriptionView, error) {
	sub, err := s.getOwned(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []*models.Subscription{sub})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *subscriptionService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.SubscriptionView, error) {
	subs, err := s.store.Subscriptions.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return s.views(ctx, subs)
}

func (s *subscriptionService) ListLogs(ctx context.Context, userID, subscriptionID uuid.UUID) ([]*models.SubscriptionLog, error) {
	if _, err := s.getOwned(ctx, userID, subscriptionID); err != nil {
		return nil, err
	}
	logs, err := s.store.Logs.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription logs: %w", err)
	}
	return logs, nil
}

// GetActive returns the subscription currently granting the user's
// entitlements, or ErrNotFound when there is none.
func (s *subscriptionService) GetActive(ctx context.Context, userID uuid.UUID) (*models.SubscriptionView, error) {
	sub, plan, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("active subscription for user %s: %w", userID, common.ErrNotFound)
	}
	return models.NewSubscriptionView(sub, plan, s.engine.Now()), nil
}

// GetLimits returns the listing quotas of the user's current plan, falling
// back to the free defaults.
func (s *subscriptionService) GetLimits(ctx context.Context, userID uuid.UUID) (*models.Limits, error) {
	cached, err := s.cache.GetLimits(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Limits cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	_, plan, err := s.current(ctx, userID)
	if err != nil {
		return nil, err
	}

	limits := models.DefaultFreeLimits
	if plan != nil {
		limits = models.Limits{MaxListings: plan.MaxListings, FeaturedListings: plan.FeaturedListings}
	}

	if err := s.cache.SetLimits(ctx, userID, &limits, caching.DefaultLimitsTTL); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Limits cache write failed")
	}
	return &limits, nil
}

func (s *subscriptionService) IsProSubscriber(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, plan, err := s.current(ctx, userID)
	if err != nil {
		return false, err
	}
	return plan != nil && plan.IsPaid(), nil
}

func (s *subscriptionService) ListAll(ctx context.Context, status string, limit, offset int) ([]*models.SubscriptionView, error) {
	subs, err := s.store.Subscriptions.ListAll(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return s.views(ctx, subs)
}

func (s *subscriptionService) ListExpiringSoon(ctx context.Context) ([]*models.SubscriptionView, error) {
	now := s.engine.Now()
	subs, err := s.store.Subscriptions.ListExpiringBetween(ctx, now, now.Add(ExpiringSoonWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring subscriptions: %w", err)
	}
	return s.views(ctx, subs)
}

func (s *subscriptionService) ListRecentlyExpired(ctx context.Context) ([]*models.SubscriptionView, error) {
	now := s.engine.Now()
	subs, err := s.store.Subscriptions.ListRecentlyExpired(ctx, now.Add(-RecentlyExpiredWindow), now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired subscriptions: %w", err)
	}
	return s.views(ctx, subs)
}

func (s *subscriptionService) ListPlans(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error) {
	plans, err := s.store.Plans.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *subscriptionService) GetPlan(ctx context.Context, planID uuid.UUID) (*models.SubscriptionPlan, error) {
	plan, err := s.store.Plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("plan %s: %w", planID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return plan, nil
}

// activateLocked runs the activation transition on a row the caller has
// locked or just created, logs it and turns on products for paid plans.
func (s *subscriptionService) activateLocked(ctx context.Context, store *repositories.Store, sub *models.Subscription, plan *models.SubscriptionPlan, detail string) error {
	if err := s.engine.Activate(ctx, store, sub, plan); err != nil {
		return err
	}
	if err := appendLog(ctx, store, sub.ID, models.LogActionActivated, detail); err != nil {
		return err
	}
	if plan.IsPaid() {
		if _, err := s.productSync.SetProductsActive(ctx, store, sub.UserID, true, fmt.Sprintf("%s subscription activated", plan.Name)); err != nil {
			return err
		}
	}
	return nil
}

// afterTransition runs once the transaction has committed.
func (s *subscriptionService) afterTransition(ctx context.Context, sub *models.Subscription, oldStatus, action string) {
	metrics.RecordTransition(action)

	if err := s.cache.InvalidateUser(ctx, sub.UserID); err != nil {
		log.Warn().Err(err).Str("user_id", sub.UserID.String()).Msg("Failed to invalidate limits cache")
	}

	id := sub.ID
	s.events.Dispatch(ctx, Event{
		Type:           EventSubscriptionStatusChanged,
		UserID:         sub.UserID,
		SubscriptionID: &id,
		OldStatus:      oldStatus,
		NewStatus:      sub.Status,
		OccurredAt:     s.engine.Now(),
	})
}

func (s *subscriptionService) getOwned(ctx context.Context, userID, subscriptionID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.store.Subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("subscription %s: %w", subscriptionID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub.UserID != userID {
		return nil, fmt.Errorf("subscription %s: %w", subscriptionID, common.ErrNotFound)
	}
	return sub, nil
}

// current returns the user's in-term subscription and its plan, or nils.
func (s *subscriptionService) current(ctx context.Context, userID uuid.UUID) (*models.Subscription, *models.SubscriptionPlan, error) {
	sub, err := s.store.Subscriptions.GetCurrentForUser(ctx, userID, s.engine.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to load current subscription: %w", err)
	}
	plan, err := s.store.Plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load plan of subscription %s: %w", sub.ID, err)
	}
	return sub, plan, nil
}

func (s *subscriptionService) views(ctx context.Context, subs []*models.Subscription) ([]*models.SubscriptionView, error) {
	views := make([]*models.SubscriptionView, 0, len(subs))
	if len(subs) == 0 {
		return views, nil
	}

	plans, err := s.store.Plans.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	byID := make(map[uuid.UUID]*models.SubscriptionPlan, len(plans))
	for _, plan := range plans {
		byID[plan.ID] = plan
	}

	now := s.engine.Now()
	for _, sub := range subs {
		views = append(views, models.NewSubscriptionView(sub, byID[sub.PlanID], now))
	}
	return views, nil
}

func lockWithPlan(ctx context.Context, store *repositories.Store, subscriptionID uuid.UUID) (*models.Subscription, *models.SubscriptionPlan, error) {
	sub, err := store.Subscriptions.GetByIDForUpdate(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("subscription %s: %w", subscriptionID, common.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to lock subscription: %w", err)
	}
	plan, err := store.Plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load plan of subscription %s: %w", sub.ID, err)
	}
	return sub, plan, nil
}

func appendLog(ctx context.Context, store *repositories.Store, subscriptionID uuid.UUID, action, detail string) error {
	entry := &models.SubscriptionLog{
		SubscriptionID: subscriptionID,
		Action:         action,
		Details:        common.StringPtr(detail),
	}
	if err := store.Logs.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to append %s log: %w", action, err)
	}
	return nil
}
