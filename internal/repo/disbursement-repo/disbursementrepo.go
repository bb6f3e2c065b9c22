package disbursementrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/pg"
)

// ErrDuplicateLoan reports a violated uniqueness constraint on loan_id; the
// store, not the service, is the idempotency authority for disbursements.
var ErrDuplicateLoan = errors.New("disbursement already exists for loan")

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

const columns = `id, loan_id, amount, disbursement_date, status, rolled_back_at`

func (r *Repository) Create(ctx context.Context, loanID string, amount float64, date time.Time) (*domain.Disbursement, error) {
	query := `
        INSERT INTO disbursements (id, loan_id, amount, disbursement_date, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + columns
	row := r.db.QueryRow(ctx, query, uuid.New().String(), loanID, amount, date, domain.DisbursementStatusPending)
	disbursement, err := scan(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateLoan
		}
		zap.L().Error("failed to create disbursement", zap.Error(err))
		return nil, err
	}
	return disbursement, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Disbursement, error) {
	query := `SELECT ` + columns + ` FROM disbursements WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *Repository) GetByLoanID(ctx context.Context, loanID string) (*domain.Disbursement, error) {
	query := `SELECT ` + columns + ` FROM disbursements WHERE loan_id = $1`
	return r.getOne(ctx, query, loanID)
}

func (r *Repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE disbursements SET status = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, status, id); err != nil {
		zap.L().Error("failed to update disbursement status", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) MarkRolledBack(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE disbursements SET status = $1, rolled_back_at = $2 WHERE id = $3`
	if _, err := r.db.Exec(ctx, query, domain.DisbursementStatusRolledBack, at, id); err != nil {
		zap.L().Error("failed to mark disbursement rolled back", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) getOne(ctx context.Context, query string, args ...any) (*domain.Disbursement, error) {
	disbursement, err := scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get disbursement", zap.Error(err))
		return nil, err
	}
	return disbursement, nil
}

func scan(row pgx.Row) (*domain.Disbursement, error) {
	var d domain.Disbursement
	err := row.Scan(&d.ID, &d.LoanID, &d.Amount, &d.DisbursementDate, &d.Status, &d.RolledBackAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
