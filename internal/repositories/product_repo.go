package repositories

import (
	"context"

	"adsyclub/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Product, error)
	SetActiveForOwner(ctx context.Context, ownerID uuid.UUID, active bool) (int64, error)
	CountByOwnerAndState(ctx context.Context, ownerID uuid.UUID, active bool) (int, error)
}

type productRepo struct {
	db DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	query := `
		INSERT INTO products (id, owner_id, title, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, product.ID, product.OwnerID, product.Title, product.IsActive).
		Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Product, error) {
	query := `
		SELECT id, owner_id, title, is_active, created_at, updated_at
		FROM products
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.OwnerID, &product.Title, &product.IsActive, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// SetActiveForOwner touches only rows whose flag differs and returns how many changed.
func (r *productRepo) SetActiveForOwner(ctx context.Context, ownerID uuid.UUID, active bool) (int64, error) {
	query := `UPDATE products SET is_active = $1, updated_at = NOW() WHERE owner_id = $2 AND is_active <> $1`
	tag, err := r.db.Exec(ctx, query, active, ownerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *productRepo) CountByOwnerAndState(ctx context.Context, ownerID uuid.UUID, active bool) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE owner_id = $1 AND is_active = $2`
	var count int
	err := r.db.QueryRow(ctx, query, ownerID, active).Scan(&count)
	return count, err
}
