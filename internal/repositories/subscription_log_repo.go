package repositories

import (
	"context"

	"adsyclub/internal/models"

	"github.com/google/uuid"
)

// SubscriptionLogRepository is append-only: rows are never updated or deleted.
type SubscriptionLogRepository interface {
	Create(ctx context.Context, entry *models.SubscriptionLog) error
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*models.SubscriptionLog, error)
}

type subscriptionLogRepo struct {
	db DBTX
}

func NewSubscriptionLogRepo(db DBTX) SubscriptionLogRepository {
	return &subscriptionLogRepo{db: db}
}

func (r *subscriptionLogRepo) Create(ctx context.Context, entry *models.SubscriptionLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO subscription_logs (id, subscription_id, action, details, timestamp)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING timestamp
	`
	return r.db.QueryRow(ctx, query, entry.ID, entry.SubscriptionID, entry.Action, entry.Details).Scan(&entry.Timestamp)
}

func (r *subscriptionLogRepo) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*models.SubscriptionLog, error) {
	query := `
		SELECT id, subscription_id, action, details, timestamp
		FROM subscription_logs
		WHERE subscription_id = $1
		ORDER BY timestamp DESC
	`
	rows, err := r.db.Query(ctx, query, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.SubscriptionLog
	for rows.Next() {
		entry := &models.SubscriptionLog{}
		if err := rows.Scan(&entry.ID, &entry.SubscriptionID, &entry.Action, &entry.Details, &entry.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
