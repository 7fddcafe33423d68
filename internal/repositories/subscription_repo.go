package repositories

import (
	"context"
	"time"

	"adsyclub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	UpdateLifecycle(ctx context.Context, subscription *models.Subscription) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Subscription, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]*models.Subscription, error)
	GetCurrentForUser(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Subscription, error)
	ListActiveByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error)
	LatestOtherActivePaidEnd(ctx context.Context, userID, excludeID uuid.UUID, now time.Time) (*time.Time, error)
	ListActiveExpired(ctx context.Context, now time.Time) ([]*models.Subscription, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Subscription, error)
	ListRecentlyExpired(ctx context.Context, since, now time.Time) ([]*models.Subscription, error)
}

const subscriptionColumns = `id, user_id, plan_id, status, start_date, end_date, auto_renew, payment_method, payment_reference, created_at, updated_at`

type subscriptionRepo struct {
	db DBTX
}

func NewSubscriptionRepo(db DBTX) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func scanSubscription(row scanner) (*models.Subscription, error) {
	subscription := &models.Subscription{}
	err := row.Scan(&subscription.ID, &subscription.UserID, &subscription.PlanID, &subscription.Status, &subscription.StartDate, &subscription.EndDate, &subscription.AutoRenew, &subscription.PaymentMethod, &subscription.PaymentReference, &subscription.CreatedAt, &subscription.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return subscription, nil
}

func (r *subscriptionRepo) list(ctx context.Context, query string, args ...any) ([]*models.Subscription, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscriptions []*models.Subscription
	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, rows.Err()
}

func (r *subscriptionRepo) Create(ctx context.Context, subscription *models.Subscription) error {
	if subscription.ID == uuid.Nil {
		subscription.ID = uuid.New()
	}
	query := `
		INSERT INTO subscriptions (id, user_id, plan_id, status, start_date, end_date, auto_renew, payment_method, payment_reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, subscription.ID, subscription.UserID, subscription.PlanID, subscription.Status, subscription.StartDate, subscription.EndDate, subscription.AutoRenew, subscription.PaymentMethod, subscription.PaymentReference).
		Scan(&subscription.CreatedAt, &subscription.UpdatedAt)
}

func (r *subscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	return scanSubscription(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *subscriptionRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 FOR UPDATE`
	return scanSubscription(r.db.QueryRow(ctx, query, id))
}

func (r *subscriptionRepo) UpdateLifecycle(ctx context.Context, subscription *models.Subscription) error {
	query := `
		UPDATE subscriptions
		SET status = $1, start_date = $2, end_date = $3, auto_renew = $4, payment_method = $5, payment_reference = $6, updated_at = NOW()
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query, subscription.Status, subscription.StartDate, subscription.EndDate, subscription.AutoRenew, subscription.PaymentMethod, subscription.PaymentReference, subscription.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subscriptionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

// ListAll returns every subscription, optionally filtered by status.
func (r *subscriptionRepo) ListAll(ctx context.Context, status string, limit, offset int) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, status, limit, offset)
}

// GetCurrentForUser returns the in-term subscription that grants the most,
// preferring paid plans over the free tier.
func (r *subscriptionRepo) GetCurrentForUser(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Subscription, error) {
	query := `
		SELECT s.id, s.user_id, s.plan_id, s.status, s.start_date, s.end_date, s.auto_renew, s.payment_method, s.payment_reference, s.created_at, s.updated_at
		FROM subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.user_id = $1 AND s.status = 'active' AND s.end_date > $2
		ORDER BY p.price DESC, s.end_date DESC
		LIMIT 1
	`
	return scanSubscription(r.db.QueryRow(ctx, query, userID, now))
}

func (r *subscriptionRepo) ListActiveByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at
		FOR UPDATE
	`
	return r.list(ctx, query, userID)
}

// LatestOtherActivePaidEnd returns the latest end date among the user's
// in-term paid subscriptions other than excludeID, or nil when none remain.
func (r *subscriptionRepo) LatestOtherActivePaidEnd(ctx context.Context, userID, excludeID uuid.UUID, now time.Time) (*time.Time, error) {
	query := `
		SELECT MAX(s.end_date)
		FROM subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.user_id = $1 AND s.id <> $2 AND s.status = 'active' AND s.end_date > $3 AND p.price > 0
	`
	var latest *time.Time
	if err := r.db.QueryRow(ctx, query, userID, excludeID, now).Scan(&latest); err != nil {
		return nil, err
	}
	return latest, nil
}

func (r *subscriptionRepo) ListActiveExpired(ctx context.Context, now time.Time) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status = 'active' AND end_date < $1
		ORDER BY end_date
	`
	return r.list(ctx, query, now)
}

func (r *subscriptionRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status = 'active' AND end_date > $1 AND end_date <= $2
		ORDER BY end_date
	`
	return r.list(ctx, query, from, to)
}

// ListRecentlyExpired includes active rows the sweep has not reached yet.
func (r *subscriptionRepo) ListRecentlyExpired(ctx context.Context, since, now time.Time) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status IN ('active', 'expired') AND end_date >= $1 AND end_date < $2
		ORDER BY end_date DESC
	`
	return r.list(ctx, query, since, now)
}
