package repositories

import (
	"context"

	"adsyclub/internal/models"

	"github.com/google/uuid"
)

type BalanceRepository interface {
	Create(ctx context.Context, entry *models.BalanceTransaction) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BalanceTransaction, error)
}

type balanceRepo struct {
	db DBTX
}

func NewBalanceRepo(db DBTX) BalanceRepository {
	return &balanceRepo{db: db}
}

func (r *balanceRepo) Create(ctx context.Context, entry *models.BalanceTransaction) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO balance_transactions (id, user_id, amount, kind, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, entry.ID, entry.UserID, entry.Amount, entry.Kind, entry.Reference).Scan(&entry.CreatedAt)
}

func (r *balanceRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BalanceTransaction, error) {
	query := `
		SELECT id, user_id, amount, kind, reference, created_at
		FROM balance_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.BalanceTransaction
	for rows.Next() {
		entry := &models.BalanceTransaction{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Amount, &entry.Kind, &entry.Reference, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
