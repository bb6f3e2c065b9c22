package schedulerepo

import (
	"context"
	"time"

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

const columns = `id, loan_id, installment_number, due_date, principal_amount, interest_amount, status, paid_date`

// CreateBatch persists the full amortization schedule generated at
// disbursement time. Rows get their IDs here and are returned in
// installment order.
func (r *Repository) CreateBatch(ctx context.Context, schedules []domain.RepaymentSchedule) ([]domain.RepaymentSchedule, error) {
	query := `
        INSERT INTO repayment_schedules (id, loan_id, installment_number, due_date, principal_amount, interest_amount, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	created := make([]domain.RepaymentSchedule, 0, len(schedules))
	for _, s := range schedules {
		s.ID = uuid.New().String()
		s.Status = domain.ScheduleStatusPending
		if _, err := r.db.Exec(ctx, query,
			s.ID, s.LoanID, s.InstallmentNumber, s.DueDate, s.PrincipalAmount, s.InterestAmount, s.Status); err != nil {
			zap.L().Error("failed to insert repayment schedule", zap.Error(err))
			return nil, err
		}
		created = append(created, s)
	}
	return created, nil
}

func (r *Repository) ListByLoan(ctx context.Context, loanID string) ([]domain.RepaymentSchedule, error) {
	query := `SELECT ` + columns + ` FROM repayment_schedules WHERE loan_id = $1 ORDER BY installment_number`
	return r.list(ctx, query, loanID)
}

// ListOpenByLoan returns the loan's PENDING and PARTIALLY_PAID installments
// in installment order.
func (r *Repository) ListOpenByLoan(ctx context.Context, loanID string) ([]domain.RepaymentSchedule, error) {
	query := `
        SELECT ` + columns + `
        FROM repayment_schedules
        WHERE loan_id = $1 AND status = ANY($2)
        ORDER BY installment_number
    `
	return r.list(ctx, query, loanID, []string{domain.ScheduleStatusPending, domain.ScheduleStatusPartiallyPaid})
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.RepaymentSchedule, error) {
	query := `SELECT ` + columns + ` FROM repayment_schedules WHERE id = $1`
	var s domain.RepaymentSchedule
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.LoanID, &s.InstallmentNumber, &s.DueDate, &s.PrincipalAmount, &s.InterestAmount, &s.Status, &s.PaidDate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get repayment schedule", zap.Error(err))
		return nil, err
	}
	return &s, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id, status string, paidDate *time.Time) error {
	query := `UPDATE repayment_schedules SET status = $1, paid_date = $2 WHERE id = $3`
	if _, err := r.db.Exec(ctx, query, status, paidDate, id); err != nil {
		zap.L().Error("failed to update repayment schedule", zap.Error(err))
		return err
	}
	return nil
}

// DeleteByLoan removes the generated schedule when a disbursement is rolled
// back.
func (r *Repository) DeleteByLoan(ctx context.Context, loanID string) error {
	query := `DELETE FROM repayment_schedules WHERE loan_id = $1`
	if _, err := r.db.Exec(ctx, query, loanID); err != nil {
		zap.L().Error("failed to delete repayment schedules", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.RepaymentSchedule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to list repayment schedules", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.RepaymentSchedule
	for rows.Next() {
		var s domain.RepaymentSchedule
		if err := rows.Scan(&s.ID, &s.LoanID, &s.InstallmentNumber, &s.DueDate,
			&s.PrincipalAmount, &s.InterestAmount, &s.Status, &s.PaidDate); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}
