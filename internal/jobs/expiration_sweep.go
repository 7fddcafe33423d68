package jobs

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
	"adsyclub/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const SweepReportKind = "sweeps"

// SweepSummary reports one run of the expiration sweep.
type SweepSummary struct {
	StartedAt            time.Time `json:"started_at"`
	FinishedAt           time.Time `json:"finished_at"`
	SubscriptionsExpired int       `json:"subscriptions_expired"`
	SubscriptionsFailed  int       `json:"subscriptions_failed"`
	SubscriptionsSkipped int       `json:"subscriptions_skipped"`
	ProductsDeactivated  int64     `json:"products_deactivated"`
	LegacyUsersCleared   int       `json:"legacy_users_cleared"`
	LegacyUsersFailed    int       `json:"legacy_users_failed"`
	Message              string    `json:"message"`
}

// ExpirationSweep expires lapsed subscriptions and clears stale pro flags.
type ExpirationSweep struct {
	store       *repositories.Store
	tx          repositories.Transactor
	engine      *services.LifecycleEngine
	productSync services.ProductSyncService
	cache       caching.CacheService
	archiver    services.ReportArchiver
	events      *services.Dispatcher
}

func NewExpirationSweep(
	store *repositories.Store,
	tx repositories.Transactor,
	engine *services.LifecycleEngine,
	productSync services.ProductSyncService,
	cache caching.CacheService,
	archiver services.ReportArchiver,
	events *services.Dispatcher,
) *ExpirationSweep {
	if cache == nil {
		cache = caching.NewNoopCacheService()
	}
	if archiver == nil {
		archiver = services.NewNoopArchiver()
	}
	return &ExpirationSweep{
		store:       store,
		tx:          tx,
		engine:      engine,
		productSync: productSync,
		cache:       cache,
		archiver:    archiver,
		events:      events,
	}
}

var errNoLongerDue = errors.New("subscription no longer due for expiration")

// Run processes every active subscription whose end date has passed. Each
// one is expired in its own transaction and a failure never stops the loop.
//
// Products are deactivated only when expiring the subscription revoked the
// user's pro entitlement. An expired free-tier subscription, or a paid one
// outlived by another in-term paid subscription, leaves the listings alone.
func (s *ExpirationSweep) Run(ctx context.Context) (*SweepSummary, error) {
	now := s.engine.Now()
	summary := &SweepSummary{StartedAt: now}

	candidates, err := s.store.Subscriptions.ListActiveExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired subscriptions: %w", err)
	}

	for _, candidate := range candidates {
		sub, affected, err := s.expireOne(ctx, candidate.ID, now)
		switch {
		case errors.Is(err, errNoLongerDue):
			summary.SubscriptionsSkipped++
			continue
		case err != nil:
			summary.SubscriptionsFailed++
			log.Error().Err(err).Str("subscription_id", candidate.ID.String()).Msg("Failed to expire subscription")
			continue
		}

		summary.SubscriptionsExpired++
		summary.ProductsDeactivated += affected
		s.afterExpire(ctx, sub)
	}

	s.clearLegacyFlags(ctx, now, summary)

	summary.FinishedAt = s.engine.Now()
	summary.Message = fmt.Sprintf("Expired %d subscriptions (%d failed); cleared %d legacy pro flags (%d failed)",
		summary.SubscriptionsExpired, summary.SubscriptionsFailed, summary.LegacyUsersCleared, summary.LegacyUsersFailed)

	metrics.RecordSweep(summary.SubscriptionsExpired, summary.SubscriptionsFailed,
		summary.LegacyUsersCleared, summary.LegacyUsersFailed, summary.FinishedAt.Sub(summary.StartedAt))

	if err := s.archiver.Archive(ctx, services.ReportObjectName(SweepReportKind, now), summary); err != nil {
		log.Warn().Err(err).Msg("Failed to archive sweep report")
	}

	log.Info().
		Int("expired", summary.SubscriptionsExpired).
		Int("failed", summary.SubscriptionsFailed).
		Int("skipped", summary.SubscriptionsSkipped).
		Int64("products_deactivated", summary.ProductsDeactivated).
		Int("legacy_cleared", summary.LegacyUsersCleared).
		Int("legacy_failed", summary.LegacyUsersFailed).
		Msg(summary.Message)
	return summary, nil
}

// expireOne re-reads the row under lock so a concurrent renewal or
// cancellation wins over a stale candidate list.
func (s *ExpirationSweep) expireOne(ctx context.Context, id uuid.UUID, now time.Time) (*models.Subscription, int64, error) {
	var (
		expired  *models.Subscription
		affected int64
	)

	err := s.tx.WithinTx(ctx, func(store *repositories.Store) error {
		sub, err := store.Subscriptions.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errNoLongerDue
			}
			return fmt.Errorf("failed to lock subscription: %w", err)
		}
		if sub.Status != models.SubscriptionStatusActive || sub.EndDate == nil || !sub.EndDate.Before(now) {
			return errNoLongerDue
		}

		plan, err := store.Plans.GetByID(ctx, sub.PlanID)
		if err != nil {
			return fmt.Errorf("failed to load plan %s: %w", sub.PlanID, err)
		}

		revoked, err := s.engine.Expire(ctx, store, sub, plan)
		if err != nil {
			return err
		}

		if revoked {
			result, err := s.productSync.SetProductsActive(ctx, store, sub.UserID, false, "Subscription expired")
			if err != nil {
				return err
			}
			affected = result.Affected
		}

		details := fmt.Sprintf("Subscription expired on %s. %d products deactivated.", sub.EndDate.UTC().Format("2006-01-02"), affected)
		entry := &models.SubscriptionLog{
			SubscriptionID: sub.ID,
			Action:         models.LogActionExpired,
			Details:        common.StringPtr(details),
		}
		if err := store.Logs.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to append expired log: %w", err)
		}

		expired = sub
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return expired, affected, nil
}

func (s *ExpirationSweep) afterExpire(ctx context.Context, sub *models.Subscription) {
	metrics.RecordTransition(models.LogActionExpired)

	if err := s.cache.InvalidateUser(ctx, sub.UserID); err != nil {
		log.Warn().Err(err).Str("user_id", sub.UserID.String()).Msg("Failed to invalidate limits cache")
	}

	id := sub.ID
	s.events.Dispatch(ctx, services.Event{
		Type:           services.EventSubscriptionStatusChanged,
		UserID:         sub.UserID,
		SubscriptionID: &id,
		OldStatus:      models.SubscriptionStatusActive,
		NewStatus:      sub.Status,
		OccurredAt:     s.engine.Now(),
	})
}

// clearLegacyFlags drops is_pro for users whose mirror validity has passed
// without a subscription row driving it.
func (s *ExpirationSweep) clearLegacyFlags(ctx context.Context, now time.Time, summary *SweepSummary) {
	users, err := s.store.Users.ListExpiredPro(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users with expired pro flag")
		return
	}

	for _, user := range users {
		if err := s.store.Users.ClearProFlag(ctx, user.ID, now); err != nil {
			summary.LegacyUsersFailed++
			log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to clear pro flag")
			continue
		}
		summary.LegacyUsersCleared++
		if err := s.cache.InvalidateUser(ctx, user.ID); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to invalidate limits cache")
		}
	}
}
