package services

import (
	"context"
	"errors"
	"fmt"

	"adsyclub/internal/common"
	"adsyclub/internal/metrics"
	"adsyclub/internal/models"
	"adsyclub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	SyncTypeSingleUser = "single_user"
	SyncTypeAllUsers   = "all_users"
)

// SyncSummary describes one bulk activation change.
type SyncSummary struct {
	Affected int64  `json:"affected"`
	Reason   string `json:"reason"`
}

// UserSyncDetail is the per-user outcome of a reconciliation pass.
type UserSyncDetail struct {
	UserID         uuid.UUID `json:"user_id"`
	Email          string    `json:"email"`
	ShouldBeActive bool      `json:"should_be_active"`
	Changed        int       `json:"changed"`
	Error          string    `json:"error,omitempty"`
}

// SyncResult reports a reconciliation pass over one or all product owners.
type SyncResult struct {
	SyncType            string           `json:"sync_type"`
	DryRun              bool             `json:"dry_run"`
	UsersProcessed      int              `json:"users_processed"`
	UsersFailed         int              `json:"users_failed"`
	ProductsActivated   int              `json:"products_activated"`
	ProductsDeactivated int              `json:"products_deactivated"`
	Message             string           `json:"message"`
	Details             []UserSyncDetail `json:"details,omitempty"`
}

type ProductSyncService interface {
	SetProductsActive(ctx context.Context, store *repositories.Store, userID uuid.UUID, activate bool, reason string) (*SyncSummary, error)
	SyncWithSubscriptionStatus(ctx context.Context, userID *uuid.UUID, dryRun bool) (*SyncResult, error)
}

type productSyncService struct {
	store *repositories.Store
	clock clockwork.Clock
}

func NewProductSyncService(store *repositories.Store, clock clockwork.Clock) ProductSyncService {
	return &productSyncService{store: store, clock: clock}
}

// SetProductsActive flips every mismatched product of the user. Running it
// twice with the same arguments changes nothing the second time.
func (s *productSyncService) SetProductsActive(ctx context.Context, store *repositories.Store, userID uuid.UUID, activate bool, reason string) (*SyncSummary, error) {
	if store == nil {
		store = s.store
	}

	affected, err := store.Products.SetActiveForOwner(ctx, userID, activate)
	if err != nil {
		return nil, fmt.Errorf("failed to update products for user %s: %w", userID, err)
	}

	metrics.RecordProductsToggled(activate, int(affected))
	if affected > 0 {
		log.Info().
			Str("user_id", userID.String()).
			Bool("activate", activate).
			Int64("affected", affected).
			Str("reason", reason).
			Msg("Updated product activation")
	}
	return &SyncSummary{Affected: affected, Reason: reason}, nil
}

// SyncWithSubscriptionStatus reconciles product activation with the pro mirror
// for one user or for every user that owns products.
func (s *productSyncService) SyncWithSubscriptionStatus(ctx context.Context, userID *uuid.UUID, dryRun bool) (*SyncResult, error) {
	result := &SyncResult{SyncType: SyncTypeAllUsers, DryRun: dryRun}

	var owners []*models.ProductOwner
	if userID != nil {
		result.SyncType = SyncTypeSingleUser
		user, err := s.store.Users.GetByID(ctx, *userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
		}
		owners = []*models.ProductOwner{{UserID: user.ID, Email: user.Email, IsPro: user.IsPro, ProValidity: user.ProValidity}}
	} else {
		var err error
		owners, err = s.store.Users.ListWithProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list product owners: %w", err)
		}
	}

	now := s.clock.Now()
	for _, owner := range owners {
		detail := UserSyncDetail{
			UserID:         owner.UserID,
			Email:          owner.Email,
			ShouldBeActive: owner.ShouldHaveActiveProducts(now),
		}

		changed, err := s.syncOwner(ctx, owner.UserID, detail.ShouldBeActive, dryRun)
		if err != nil {
			log.Error().Err(err).Str("user_id", owner.UserID.String()).Msg("Product sync failed for user")
			detail.Error = err.Error()
			result.UsersFailed++
			result.Details = append(result.Details, detail)
			continue
		}

		detail.Changed = changed
		result.UsersProcessed++
		if detail.ShouldBeActive {
			result.ProductsActivated += changed
		} else {
			result.ProductsDeactivated += changed
		}
		result.Details = append(result.Details, detail)
	}

	result.Message = fmt.Sprintf("Processed %d users: %d products activated, %d products deactivated",
		result.UsersProcessed, result.ProductsActivated, result.ProductsDeactivated)
	if result.UsersFailed > 0 {
		result.Message += fmt.Sprintf(", %d users failed", result.UsersFailed)
	}
	if dryRun {
		result.Message = "[dry run] " + result.Message
	}

	log.Info().
		Str("sync_type", result.SyncType).
		Bool("dry_run", dryRun).
		Int("users", result.UsersProcessed).
		Int("activated", result.ProductsActivated).
		Int("deactivated", result.ProductsDeactivated).
		Msg("Product sync completed")
	return result, nil
}

// syncOwner returns how many products changed, or would change in a dry run.
func (s *productSyncService) syncOwner(ctx context.Context, userID uuid.UUID, shouldBeActive, dryRun bool) (int, error) {
	if dryRun {
		return s.store.Products.CountByOwnerAndState(ctx, userID, !shouldBeActive)
	}

	reason := "Subscription status sync: deactivated"
	if shouldBeActive {
		reason = "Subscription status sync: activated"
	}
	summary, err := s.SetProductsActive(ctx, s.store, userID, shouldBeActive, reason)
	if err != nil {
		return 0, err
	}
	return int(summary.Affected), nil
}
