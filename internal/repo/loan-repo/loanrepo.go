package loanrepo

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

const loanColumns = `id, account_id, principal, annual_rate_percent, tenor_months, status, outstanding_principal, created_at`

func (r *Repository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	query := `
        INSERT INTO loans (id, account_id, principal, annual_rate_percent, tenor_months, status, outstanding_principal)
        VALUES ($1, $2, $3, $4, $5, $6, 0)
        RETURNING ` + loanColumns
	row := r.db.QueryRow(ctx, query,
		uuid.New().String(), loan.AccountID, loan.Principal, loan.AnnualRatePercent, loan.TenorMonths, domain.LoanStatusPending)
	created, err := scanLoan(row)
	if err != nil {
		zap.L().Error("failed to create loan", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate locks the loan row for the remainder of the current unit
// of work, serializing concurrent orchestrators against the same loan.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *Repository) List(ctx context.Context) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("failed to list loans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var loan domain.Loan
		if err := rows.Scan(&loan.ID, &loan.AccountID, &loan.Principal, &loan.AnnualRatePercent,
			&loan.TenorMonths, &loan.Status, &loan.OutstandingPrincipal, &loan.CreatedAt); err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func (r *Repository) ListActive(ctx context.Context) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE status = $1`
	rows, err := r.db.Query(ctx, query, domain.LoanStatusActive)
	if err != nil {
		zap.L().Error("failed to list active loans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var loan domain.Loan
		if err := rows.Scan(&loan.ID, &loan.AccountID, &loan.Principal, &loan.AnnualRatePercent,
			&loan.TenorMonths, &loan.Status, &loan.OutstandingPrincipal, &loan.CreatedAt); err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE loans SET status = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, status, id); err != nil {
		zap.L().Error("failed to update loan status", zap.Error(err))
		return err
	}
	return nil
}

// SetOutstanding updates the loan's outstanding principal and status in one
// statement; every loan state transition the orchestrators make goes through
// here or UpdateStatus.
func (r *Repository) SetOutstanding(ctx context.Context, id string, outstanding float64, status string) error {
	query := `UPDATE loans SET outstanding_principal = $1, status = $2 WHERE id = $3`
	if _, err := r.db.Exec(ctx, query, outstanding, status, id); err != nil {
		zap.L().Error("failed to update loan outstanding principal", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) getOne(ctx context.Context, query string, args ...any) (*domain.Loan, error) {
	loan, err := scanLoan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get loan", zap.Error(err))
		return nil, err
	}
	return loan, nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	err := row.Scan(&loan.ID, &loan.AccountID, &loan.Principal, &loan.AnnualRatePercent,
		&loan.TenorMonths, &loan.Status, &loan.OutstandingPrincipal, &loan.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}
