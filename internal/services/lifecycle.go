package services

import (
	"context"
	"fmt"
	"time"

	"adsyclub/internal/common"
	"adsyclub/internal/models"
	"adsyclub/internal/repositories"

	"github.com/jonboulle/clockwork"
)

// LifecycleEngine applies subscription state transitions and keeps the user's
// pro mirror in step with them. Callers supply a transaction-scoped store,
// hold the row lock and append the matching SubscriptionLog entry.
type LifecycleEngine struct {
	clock clockwork.Clock
}

func NewLifecycleEngine(clock clockwork.Clock) *LifecycleEngine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LifecycleEngine{clock: clock}
}

func (e *LifecycleEngine) Now() time.Time {
	return e.clock.Now()
}

// Activate moves a pending subscription to active and starts its term.
func (e *LifecycleEngine) Activate(ctx context.Context, store *repositories.Store, sub *models.Subscription, plan *models.SubscriptionPlan) error {
	if sub.Status != models.SubscriptionStatusPending && sub.Status != "" {
		return fmt.Errorf("cannot activate %s subscription %s: %w", sub.Status, sub.ID, common.ErrInvalidTransition)
	}

	now := e.clock.Now()
	if sub.StartDate == nil {
		sub.StartDate = &now
	}
	end := sub.StartDate.Add(plan.Duration())
	sub.EndDate = &end
	sub.Status = models.SubscriptionStatusActive

	if err := store.Subscriptions.UpdateLifecycle(ctx, sub); err != nil {
		return fmt.Errorf("failed to persist activation: %w", err)
	}

	if plan.IsPaid() {
		// pro_validity tracks the latest end among all in-term paid subscriptions.
		validity := end
		latest, err := store.Subscriptions.LatestOtherActivePaidEnd(ctx, sub.UserID, sub.ID, now)
		if err != nil {
			return fmt.Errorf("failed to check remaining paid subscriptions: %w", err)
		}
		if latest != nil && latest.After(validity) {
			validity = *latest
		}
		if err := store.Users.SetProStatus(ctx, sub.UserID, true, &validity); err != nil {
			return fmt.Errorf("failed to grant pro status: %w", err)
		}
	}
	return nil
}

// Cancel ends the subscription at the user's request and reports whether the
// pro entitlement was revoked as a result.
func (e *LifecycleEngine) Cancel(ctx context.Context, store *repositories.Store, sub *models.Subscription, plan *models.SubscriptionPlan) (bool, error) {
	if sub.IsTerminal() {
		return false, fmt.Errorf("cannot cancel %s subscription %s: %w", sub.Status, sub.ID, common.ErrInvalidTransition)
	}

	sub.Status = models.SubscriptionStatusCancelled
	sub.AutoRenew = false
	if err := store.Subscriptions.UpdateLifecycle(ctx, sub); err != nil {
		return false, fmt.Errorf("failed to persist cancellation: %w", err)
	}
	return e.recomputeEntitlement(ctx, store, sub, plan)
}

// Expire marks the subscription as lapsed and reports whether the pro
// entitlement was revoked as a result.
func (e *LifecycleEngine) Expire(ctx context.Context, store *repositories.Store, sub *models.Subscription, plan *models.SubscriptionPlan) (bool, error) {
	if sub.IsTerminal() {
		return false, fmt.Errorf("cannot expire %s subscription %s: %w", sub.Status, sub.ID, common.ErrInvalidTransition)
	}

	sub.Status = models.SubscriptionStatusExpired
	if err := store.Subscriptions.UpdateLifecycle(ctx, sub); err != nil {
		return false, fmt.Errorf("failed to persist expiration: %w", err)
	}
	return e.recomputeEntitlement(ctx, store, sub, plan)
}

// recomputeEntitlement clears the mirror unless another paid subscription of
// the same user is still in its term, in which case pro_validity is moved to
// the latest remaining end date.
func (e *LifecycleEngine) recomputeEntitlement(ctx context.Context, store *repositories.Store, sub *models.Subscription, plan *models.SubscriptionPlan) (bool, error) {
	if !plan.IsPaid() {
		return false, nil
	}

	latest, err := store.Subscriptions.LatestOtherActivePaidEnd(ctx, sub.UserID, sub.ID, e.clock.Now())
	if err != nil {
		return false, fmt.Errorf("failed to check remaining paid subscriptions: %w", err)
	}
	if latest != nil {
		if err := store.Users.SetProStatus(ctx, sub.UserID, true, latest); err != nil {
			return false, fmt.Errorf("failed to refresh pro status: %w", err)
		}
		return false, nil
	}

	if err := store.Users.SetProStatus(ctx, sub.UserID, false, nil); err != nil {
		return false, fmt.Errorf("failed to revoke pro status: %w", err)
	}
	return true, nil
}
