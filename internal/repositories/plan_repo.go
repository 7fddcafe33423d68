package repositories

import (
	"context"

	"adsyclub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *models.SubscriptionPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	GetByName(ctx context.Context, name string) (*models.SubscriptionPlan, error)
	List(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	GetOrCreate(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, bool, error)
}

const planColumns = `id, name, description, price, duration_days, max_listings, featured_listings, is_active, created_at, updated_at`

type planRepo struct {
	db DBTX
}

func NewPlanRepo(db DBTX) PlanRepository {
	return &planRepo{db: db}
}

func scanPlan(row scanner) (*models.SubscriptionPlan, error) {
	plan := &models.SubscriptionPlan{}
	err := row.Scan(&plan.ID, &plan.Name, &plan.Description, &plan.Price, &plan.DurationDays, &plan.MaxListings, &plan.FeaturedListings, &plan.IsActive, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *planRepo) Create(ctx context.Context, plan *models.SubscriptionPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	query := `
		INSERT INTO subscription_plans (id, name, description, price, duration_days, max_listings, featured_listings, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, plan.ID, plan.Name, plan.Description, plan.Price, plan.DurationDays, plan.MaxListings, plan.FeaturedListings, plan.IsActive).
		Scan(&plan.CreatedAt, &plan.UpdatedAt)
}

func (r *planRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE id = $1`
	return scanPlan(r.db.QueryRow(ctx, query, id))
}

func (r *planRepo) GetByName(ctx context.Context, name string) (*models.SubscriptionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE name = $1`
	return scanPlan(r.db.QueryRow(ctx, query, name))
}

func (r *planRepo) List(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM subscription_plans
		WHERE ($1 = false OR is_active = true)
		ORDER BY price, name
	`
	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.SubscriptionPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// SetActive is the only mutation allowed on a plan once subscriptions reference it.
func (r *planRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE subscription_plans SET is_active = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetOrCreate inserts plan unless one with the same name exists and returns the stored row.
func (r *planRepo) GetOrCreate(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, bool, error) {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	query := `
		INSERT INTO subscription_plans (id, name, description, price, duration_days, max_listings, featured_listings, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (name) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, plan.ID, plan.Name, plan.Description, plan.Price, plan.DurationDays, plan.MaxListings, plan.FeaturedListings, plan.IsActive)
	if err != nil {
		return nil, false, err
	}

	stored, err := r.GetByName(ctx, plan.Name)
	if err != nil {
		return nil, false, err
	}
	return stored, tag.RowsAffected() == 1, nil
}
