package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Store groups every repository over a single connection or transaction.
type Store struct {
	Plans         PlanRepository
	Subscriptions SubscriptionRepository
	Logs          SubscriptionLogRepository
	Users         UserRepository
	Products      ProductRepository
	Balances      BalanceRepository
	Notifications NotificationRepository
}

func NewStore(db DBTX) *Store {
	return &Store{
		Plans:         NewPlanRepo(db),
		Subscriptions: NewSubscriptionRepo(db),
		Logs:          NewSubscriptionLogRepo(db),
		Users:         NewUserRepo(db),
		Products:      NewProductRepo(db),
		Balances:      NewBalanceRepo(db),
		Notifications: NewNotificationRepo(db),
	}
}

// Transactor runs a unit of work inside one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(store *Store) error) error
}

// TxBeginner is satisfied by *pgxpool.Pool and pgxmock.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type pgTransactor struct {
	db TxBeginner
}

func NewTransactor(db TxBeginner) Transactor {
	return &pgTransactor{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (t *pgTransactor) WithinTx(ctx context.Context, fn func(store *Store) error) error {
	return pgx.BeginFunc(ctx, t.db, func(tx pgx.Tx) error {
		return fn(NewStore(tx))
	})
}
