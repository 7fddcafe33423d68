package repositories

import (
	"context"
	"fmt"
	"time"

	"adsyclub/internal/common"
	"adsyclub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetProStatus(ctx context.Context, id uuid.UUID, isPro bool, validity *time.Time) error
	ClearProFlag(ctx context.Context, id uuid.UUID, now time.Time) error
	ListExpiredPro(ctx context.Context, now time.Time) ([]*models.User, error)
	ListWithProducts(ctx context.Context) ([]*models.ProductOwner, error)
	DebitBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}

const userColumns = `id, email, name, password_hash, is_admin, is_pro, pro_validity, balance, created_at, updated_at`

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.IsAdmin, &user.IsPro, &user.ProValidity, &user.Balance, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	// Check for email uniqueness before insertion
	var count int
	emailCheckQuery := `SELECT COUNT(*) FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, emailCheckQuery, user.Email).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return common.ErrEmailTaken
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := `
		INSERT INTO users (id, email, name, password_hash, is_admin, is_pro, pro_validity, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, user.ID, user.Email, user.Name, user.PasswordHash, user.IsAdmin, user.IsPro, user.ProValidity, user.Balance).
		Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// SetProStatus writes the legacy entitlement mirror.
func (r *userRepo) SetProStatus(ctx context.Context, id uuid.UUID, isPro bool, validity *time.Time) error {
	query := `UPDATE users SET is_pro = $1, pro_validity = $2, updated_at = NOW() WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, isPro, validity, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ClearProFlag drops a pro flag that is still stale at now and leaves
// pro_validity for auditing. A grant committed since the user was listed
// carries a later pro_validity and is not matched.
func (r *userRepo) ClearProFlag(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `UPDATE users SET is_pro = false, updated_at = NOW() WHERE id = $1 AND is_pro = true AND pro_validity < $2`
	_, err := r.db.Exec(ctx, query, id, now)
	return err
}

func (r *userRepo) ListExpiredPro(ctx context.Context, now time.Time) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_pro = true AND pro_validity < $1
		ORDER BY pro_validity
	`
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) ListWithProducts(ctx context.Context) ([]*models.ProductOwner, error) {
	query := `
		SELECT u.id, u.email, u.is_pro, u.pro_validity
		FROM users u
		WHERE EXISTS (SELECT 1 FROM products p WHERE p.owner_id = u.id)
		ORDER BY u.email
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []*models.ProductOwner
	for rows.Next() {
		owner := &models.ProductOwner{}
		if err := rows.Scan(&owner.UserID, &owner.Email, &owner.IsPro, &owner.ProValidity); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

// DebitBalance subtracts amount and refuses to take the balance below zero.
func (r *userRepo) DebitBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	query := `UPDATE users SET balance = balance - $1, updated_at = NOW() WHERE id = $2 AND balance >= $1`
	tag, err := r.db.Exec(ctx, query, amount, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrInsufficientBalance
	}
	return nil
}
