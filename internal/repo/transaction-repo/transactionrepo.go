package transactionrepo

import (
	"context"

	"github.com/google/uuid"
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

func (r *Repository) Create(ctx context.Context, txType, refID string, amount float64) (*domain.Transaction, error) {
	query := `
        INSERT INTO transactions (id, type, ref_id, amount, status)
        VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5)
        RETURNING id, type, COALESCE(ref_id::text, ''), amount, status, created_at
    `
	var t domain.Transaction
	err := r.db.QueryRow(ctx, query, uuid.New().String(), txType, refID, amount, domain.TransactionStatusCompleted).
		Scan(&t.ID, &t.Type, &t.RefID, &t.Amount, &t.Status, &t.CreatedAt)
	if err != nil {
		zap.L().Error("failed to create transaction", zap.Error(err))
		return nil, err
	}
	return &t, nil
}

// AvailableFunds computes the platform's spendable funds as total inflow
// minus total outflow over all recorded transactions. Disbursements are
// stored with negative amounts, so a plain signed sum is the answer.
func (r *Repository) AvailableFunds(ctx context.Context) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions`
	var available float64
	if err := r.db.QueryRow(ctx, query).Scan(&available); err != nil {
		zap.L().Error("failed to compute available funds", zap.Error(err))
		return 0, err
	}
	return available, nil
}
