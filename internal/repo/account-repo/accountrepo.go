package accountrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
        SELECT id, type, COALESCE(owner_ref::text, ''), balance
        FROM accounts
        WHERE id = $1
    `
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetPlatform locates the single platform account by its type discriminator.
func (r *Repository) GetPlatform(ctx context.Context) (*domain.Account, error) {
	query := `
        SELECT id, type, COALESCE(owner_ref::text, ''), balance
        FROM accounts
        WHERE type = $1
    `
	return r.scanOne(r.db.QueryRow(ctx, query, domain.AccountTypePlatform))
}

func (r *Repository) GetByOwner(ctx context.Context, ownerRef string) (*domain.Account, error) {
	query := `
        SELECT id, type, COALESCE(owner_ref::text, ''), balance
        FROM accounts
        WHERE owner_ref = $1
    `
	return r.scanOne(r.db.QueryRow(ctx, query, ownerRef))
}

func (r *Repository) Create(ctx context.Context, ownerRef string) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (id, type, owner_ref, balance)
        VALUES ($1, $2, $3, 0)
        RETURNING id, type, COALESCE(owner_ref::text, ''), balance
    `
	account, err := r.scanOne(r.db.QueryRow(ctx, query, uuid.New().String(), domain.AccountTypeUser, ownerRef))
	if err != nil {
		zap.L().Error("failed to create account", zap.Error(err))
		return nil, err
	}
	return account, nil
}

// AddToBalance applies a signed delta to an account balance. Only the ledger
// service calls this, always inside a unit of work.
func (r *Repository) AddToBalance(ctx context.Context, id string, delta float64) error {
	query := `
        UPDATE accounts
        SET balance = balance + $1
        WHERE id = $2
    `
	tag, err := r.db.Exec(ctx, query, delta, id)
	if err != nil {
		zap.L().Error("failed to update account balance", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) scanOne(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(&account.ID, &account.Type, &account.OwnerRef, &account.Balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}
