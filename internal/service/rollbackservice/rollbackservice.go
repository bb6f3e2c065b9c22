// Package rollbackservice reverses completed disbursements and payments.
// Each rollback is its own atomic unit: it reverses the ledger transfer,
// reverts the dependent loan and schedule state, and appends a RollbackRecord
// distinct from the original transaction.
package rollbackservice

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/internal/pg"
	"github.com/dkovalev/loancore/internal/service/auditservice"
	"github.com/dkovalev/loancore/pkg/fincalc"
)

type DisbursementRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Disbursement, error)
	MarkRolledBack(ctx context.Context, id string, at time.Time) error
}

type PaymentRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	HasCompletedByLoan(ctx context.Context, loanID string) (bool, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type LoanRepo interface {
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error)
	SetOutstanding(ctx context.Context, id string, outstanding float64, status string) error
}

type ScheduleRepo interface {
	UpdateStatus(ctx context.Context, id, status string, paidDate *time.Time) error
	DeleteByLoan(ctx context.Context, loanID string) error
}

type TransactionRepo interface {
	Create(ctx context.Context, txType, refID string, amount float64) (*domain.Transaction, error)
}

type RollbackRepo interface {
	Create(ctx context.Context, record *domain.RollbackRecord) (*domain.RollbackRecord, error)
	List(ctx context.Context) ([]domain.RollbackRecord, error)
}

type Ledger interface {
	TransferToBorrower(ctx context.Context, borrowerAccountID string, amount float64) error
	TransferFromBorrower(ctx context.Context, borrowerAccountID string, amount float64) error
}

type Audit interface {
	Record(ctx context.Context, event auditservice.Event)
}

type Service struct {
	disbursementRepo DisbursementRepo
	paymentRepo      PaymentRepo
	loanRepo         LoanRepo
	scheduleRepo     ScheduleRepo
	transactionRepo  TransactionRepo
	rollbackRepo     RollbackRepo
	ledger           Ledger
	audit            Audit
	txManager        pg.TXManager
}

func New(
	disbursementRepo DisbursementRepo,
	paymentRepo PaymentRepo,
	loanRepo LoanRepo,
	scheduleRepo ScheduleRepo,
	transactionRepo TransactionRepo,
	rollbackRepo RollbackRepo,
	ledger Ledger,
	audit Audit,
	txManager pg.TXManager,
) *Service {
	return &Service{
		disbursementRepo: disbursementRepo,
		paymentRepo:      paymentRepo,
		loanRepo:         loanRepo,
		scheduleRepo:     scheduleRepo,
		transactionRepo:  transactionRepo,
		rollbackRepo:     rollbackRepo,
		ledger:           ledger,
		audit:            audit,
		txManager:        txManager,
	}
}

// RollbackDisbursement reverses a completed disbursement: funds move back
// borrower → platform (balance-checked), the loan returns to APPROVED with
// zero outstanding principal, and the generated schedule is deleted. A loan
// with completed payments cannot be rolled back; payments come off first.
//
// The automatic path (actor == domain.SystemActor) additionally accepts a
// disbursement still marked PENDING, because a post-commit failure can strike
// before the status flip lands.
func (s *Service) RollbackDisbursement(ctx context.Context, disbursementID, actor, reason string) error {
	if reason == "" {
		reason = "Manual rollback by admin"
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		disbursement, err := s.disbursementRepo.GetByID(ctx, disbursementID)
		if err != nil {
			return err
		}
		if disbursement == nil {
			return errs.Newf(errs.KindNotFound, "disbursement %s not found", disbursementID)
		}
		if disbursement.Status == domain.DisbursementStatusRolledBack || disbursement.RolledBackAt != nil {
			return errs.New(errs.KindConflict, "disbursement already rolled back")
		}
		if disbursement.Status != domain.DisbursementStatusCompleted &&
			!(actor == domain.SystemActor && disbursement.Status == domain.DisbursementStatusPending) {
			return errs.Newf(errs.KindValidation,
				"can only rollback completed disbursements, status: %s", disbursement.Status)
		}

		loan, err := s.loanRepo.GetByIDForUpdate(ctx, disbursement.LoanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return errs.Newf(errs.KindNotFound, "loan %s not found", disbursement.LoanID)
		}

		hasPayments, err := s.paymentRepo.HasCompletedByLoan(ctx, disbursement.LoanID)
		if err != nil {
			return err
		}
		if hasPayments {
			return errs.New(errs.KindValidation,
				"loan has completed payments, rollback payments first")
		}

		if err := s.ledger.TransferFromBorrower(ctx, loan.AccountID, disbursement.Amount); err != nil {
			return err
		}
		// Reversing ledger entry keeps available funds equal to the signed
		// transaction sum.
		if _, err := s.transactionRepo.Create(ctx,
			domain.TransactionTypeDisbursement, disbursement.ID, disbursement.Amount); err != nil {
			return err
		}

		if err := s.disbursementRepo.MarkRolledBack(ctx, disbursementID, time.Now()); err != nil {
			return err
		}
		if err := s.loanRepo.SetOutstanding(ctx, disbursement.LoanID, 0, domain.LoanStatusApproved); err != nil {
			return err
		}
		if err := s.scheduleRepo.DeleteByLoan(ctx, disbursement.LoanID); err != nil {
			return err
		}

		_, err = s.rollbackRepo.Create(ctx, &domain.RollbackRecord{
			TransactionID:     disbursement.ID,
			OriginalOperation: domain.OperationDisbursement,
			RollbackReason:    reason,
			CompensatingActions: mustJSON(map[string]any{
				"moneyTransferred": true,
				"from":             loan.AccountID,
				"amount":           disbursement.Amount,
			}),
			RolledBackBy: actor,
		})
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, auditservice.Event{
		TransactionID: disbursementID,
		Operation:     "ROLLBACK_DISBURSEMENT",
		Service:       "rollback",
		Metadata:      map[string]any{"actor": actor, "reason": reason},
	})
	return nil
}

// RollbackPayment reverses a completed payment. Only the principal portion
// moves back platform → borrower (source unchecked, symmetric with
// disbursement); interest and late fees are not reversed financially, which
// is documented behavior. The loan regains the principal on its outstanding
// balance and reopens if it had closed.
func (s *Service) RollbackPayment(ctx context.Context, paymentID, actor, reason string) error {
	if reason == "" {
		reason = "Manual rollback by admin"
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return errs.Newf(errs.KindNotFound, "payment %s not found", paymentID)
		}
		if payment.Status != domain.PaymentStatusCompleted {
			return errs.Newf(errs.KindValidation,
				"can only rollback completed payments, status: %s", payment.Status)
		}

		loan, err := s.loanRepo.GetByIDForUpdate(ctx, payment.LoanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return errs.Newf(errs.KindNotFound, "loan %s not found", payment.LoanID)
		}

		if payment.PrincipalPaid > 0 {
			if err := s.ledger.TransferToBorrower(ctx, loan.AccountID, payment.PrincipalPaid); err != nil {
				return err
			}
			if _, err := s.transactionRepo.Create(ctx,
				domain.TransactionTypeRepayment, payment.ID, -payment.PrincipalPaid); err != nil {
				return err
			}
		}

		if err := s.paymentRepo.UpdateStatus(ctx, paymentID, domain.PaymentStatusRolledBack); err != nil {
			return err
		}

		newOutstanding := fincalc.Round2(loan.OutstandingPrincipal + payment.PrincipalPaid)
		status := loan.Status
		if newOutstanding > 0 {
			status = domain.LoanStatusActive
		}
		if err := s.loanRepo.SetOutstanding(ctx, payment.LoanID, newOutstanding, status); err != nil {
			return err
		}

		if payment.RepaymentScheduleID != "" {
			if err := s.scheduleRepo.UpdateStatus(ctx,
				payment.RepaymentScheduleID, domain.ScheduleStatusRolledBack, nil); err != nil {
				return err
			}
		}

		_, err = s.rollbackRepo.Create(ctx, &domain.RollbackRecord{
			TransactionID:     payment.TransactionID,
			OriginalOperation: domain.OperationRepayment,
			RollbackReason:    reason,
			CompensatingActions: mustJSON(map[string]any{
				"principalReversed": payment.PrincipalPaid,
				"interestRetained":  payment.InterestPaid,
				"lateFeeRetained":   payment.LateFeePaid,
			}),
			RolledBackBy: actor,
		})
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, auditservice.Event{
		TransactionID: paymentID,
		Operation:     "ROLLBACK_PAYMENT",
		Service:       "rollback",
		Metadata:      map[string]any{"actor": actor, "reason": reason},
	})
	return nil
}

// LogRollback records a compensation entry for a unit of work the store
// already rolled back on its own. Write failures are logged, not returned:
// the caller is already on an error path.
func (s *Service) LogRollback(ctx context.Context, transactionID, originalOperation, reason string, cause error) {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	if transactionID == "" {
		transactionID = "N/A"
	}
	_, err := s.rollbackRepo.Create(ctx, &domain.RollbackRecord{
		TransactionID:     transactionID,
		OriginalOperation: originalOperation,
		RollbackReason:    reason,
		CompensatingActions: mustJSON(map[string]any{
			"automaticRollback": true,
			"message":           "unit of work aborted, all writes undone by the store",
		}),
		RolledBackBy: "SYSTEM",
		ErrorDetails: details,
	})
	if err != nil {
		zap.L().Error("failed to record automatic rollback", zap.Error(err))
	}
}

func (s *Service) List(ctx context.Context) ([]domain.RollbackRecord, error) {
	return s.rollbackRepo.List(ctx)
}

func mustJSON(v map[string]any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
