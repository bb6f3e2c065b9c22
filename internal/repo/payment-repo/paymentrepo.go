package paymentrepo

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

const columns = `id, loan_id, COALESCE(repayment_schedule_id::text, ''), COALESCE(transaction_id::text, ''),
        amount, payment_date, principal_paid, interest_paid, late_fee_paid, days_late, status`

func (r *Repository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	query := `
        INSERT INTO payments (id, loan_id, repayment_schedule_id, transaction_id, amount, payment_date,
                              principal_paid, interest_paid, late_fee_paid, days_late, status)
        VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + columns
	row := r.db.QueryRow(ctx, query,
		uuid.New().String(), p.LoanID, p.RepaymentScheduleID, p.TransactionID, p.Amount, p.PaymentDate,
		p.PrincipalPaid, p.InterestPaid, p.LateFeePaid, p.DaysLate, domain.PaymentStatusCompleted)
	created, err := scan(row)
	if err != nil {
		zap.L().Error("failed to create payment", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + columns + ` FROM payments WHERE id = $1`
	payment, err := scan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get payment", zap.Error(err))
		return nil, err
	}
	return payment, nil
}

// GetLastCompleted returns the most recent COMPLETED payment for a loan, or
// nil when the loan has none.
func (r *Repository) GetLastCompleted(ctx context.Context, loanID string) (*domain.Payment, error) {
	query := `
        SELECT ` + columns + `
        FROM payments
        WHERE loan_id = $1 AND status = $2
        ORDER BY payment_date DESC
        LIMIT 1
    `
	payment, err := scan(r.db.QueryRow(ctx, query, loanID, domain.PaymentStatusCompleted))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get last payment", zap.Error(err))
		return nil, err
	}
	return payment, nil
}

func (r *Repository) ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error) {
	query := `SELECT ` + columns + ` FROM payments WHERE loan_id = $1 ORDER BY payment_date`
	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		zap.L().Error("failed to list payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.RepaymentScheduleID, &p.TransactionID, &p.Amount,
			&p.PaymentDate, &p.PrincipalPaid, &p.InterestPaid, &p.LateFeePaid, &p.DaysLate, &p.Status); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// HasCompletedByLoan reports whether the loan has any COMPLETED payment; a
// disbursement with completed payments cannot be rolled back.
func (r *Repository) HasCompletedByLoan(ctx context.Context, loanID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE loan_id = $1 AND status = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, loanID, domain.PaymentStatusCompleted).Scan(&exists)
	if err != nil {
		zap.L().Error("failed to check loan payments", zap.Error(err))
		return false, err
	}
	return exists, nil
}

// SetTransaction links a payment to the ledger transaction that settled it.
func (r *Repository) SetTransaction(ctx context.Context, id, transactionID string) error {
	query := `UPDATE payments SET transaction_id = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, transactionID, id); err != nil {
		zap.L().Error("failed to link payment transaction", zap.Error(err))
		return err
	}
	return nil
}

// SumPaidBySchedule returns the principal already settled against a schedule
// row by COMPLETED payments. Used to compute remaining principal on a
// PARTIALLY_PAID installment.
func (r *Repository) SumPaidBySchedule(ctx context.Context, scheduleID string) (float64, error) {
	query := `
        SELECT COALESCE(SUM(principal_paid), 0)
        FROM payments
        WHERE repayment_schedule_id = $1 AND status = $2
    `
	var sum float64
	err := r.db.QueryRow(ctx, query, scheduleID, domain.PaymentStatusCompleted).Scan(&sum)
	if err != nil {
		zap.L().Error("failed to sum schedule payments", zap.Error(err))
		return 0, err
	}
	return sum, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE payments SET status = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, status, id); err != nil {
		zap.L().Error("failed to update payment status", zap.Error(err))
		return err
	}
	return nil
}

func scan(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.LoanID, &p.RepaymentScheduleID, &p.TransactionID, &p.Amount,
		&p.PaymentDate, &p.PrincipalPaid, &p.InterestPaid, &p.LateFeePaid, &p.DaysLate, &p.Status)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
