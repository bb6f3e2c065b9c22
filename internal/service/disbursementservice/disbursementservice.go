// Package disbursementservice moves a loan from APPROVED to ACTIVE: platform
// funds check, ledger transfer, schedule generation and the status
// transitions, all inside a single atomic unit of work. The status flip on
// the Disbursement row happens after the unit commits; a failure there
// triggers automatic compensation so the caller never observes a committed
// transfer with an inconsistent Disbursement record.
package disbursementservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/internal/pg"
	disbursementrepo "github.com/dkovalev/loancore/internal/repo/disbursement-repo"
	"github.com/dkovalev/loancore/internal/service/auditservice"
	"github.com/dkovalev/loancore/pkg/fincalc"
)

type LoanRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error)
	SetOutstanding(ctx context.Context, id string, outstanding float64, status string) error
}

type DisbursementRepo interface {
	Create(ctx context.Context, loanID string, amount float64, date time.Time) (*domain.Disbursement, error)
	GetByID(ctx context.Context, id string) (*domain.Disbursement, error)
	GetByLoanID(ctx context.Context, loanID string) (*domain.Disbursement, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type ScheduleRepo interface {
	CreateBatch(ctx context.Context, schedules []domain.RepaymentSchedule) ([]domain.RepaymentSchedule, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, txType, refID string, amount float64) (*domain.Transaction, error)
	AvailableFunds(ctx context.Context) (float64, error)
}

type Ledger interface {
	TransferToBorrower(ctx context.Context, borrowerAccountID string, amount float64) error
}

type Rollback interface {
	RollbackDisbursement(ctx context.Context, disbursementID, actor, reason string) error
	LogRollback(ctx context.Context, transactionID, originalOperation, reason string, cause error)
}

type Audit interface {
	Record(ctx context.Context, event auditservice.Event)
}

type Service struct {
	loanRepo         LoanRepo
	disbursementRepo DisbursementRepo
	scheduleRepo     ScheduleRepo
	transactionRepo  TransactionRepo
	ledger           Ledger
	rollback         Rollback
	audit            Audit
	txManager        pg.TXManager

	// postCommitHook runs between the unit committing and the Disbursement
	// status flip; tests inject failures here to exercise the compensation
	// path.
	postCommitHook func() error
}

func New(
	loanRepo LoanRepo,
	disbursementRepo DisbursementRepo,
	scheduleRepo ScheduleRepo,
	transactionRepo TransactionRepo,
	ledger Ledger,
	rollback Rollback,
	audit Audit,
	txManager pg.TXManager,
) *Service {
	return &Service{
		loanRepo:         loanRepo,
		disbursementRepo: disbursementRepo,
		scheduleRepo:     scheduleRepo,
		transactionRepo:  transactionRepo,
		ledger:           ledger,
		rollback:         rollback,
		audit:            audit,
		txManager:        txManager,
	}
}

// SetPostCommitHook installs the failure injection point for tests.
func (s *Service) SetPostCommitHook(hook func() error) {
	s.postCommitHook = hook
}

type Result struct {
	Disbursement  *domain.Disbursement
	Loan          *domain.Loan
	ScheduleCount int
}

// Disburse runs the full disbursement state machine for an approved loan.
// The Disbursement row is created PENDING before the atomic unit so
// idempotency conflicts surface up front; the store's uniqueness constraint
// on loanId is the final authority.
func (s *Service) Disburse(ctx context.Context, loanID string, amount float64, date time.Time) (*Result, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, errs.Newf(errs.KindNotFound, "loan %s not found", loanID)
	}

	existing, err := s.disbursementRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case domain.DisbursementStatusCompleted:
			return nil, errs.New(errs.KindConflict, "loan already disbursed successfully")
		case domain.DisbursementStatusFailed:
			return nil, errs.New(errs.KindConflict, "previous disbursement failed, cannot retry")
		case domain.DisbursementStatusPending:
			return nil, errs.New(errs.KindConflict, "disbursement is already pending")
		default:
			return nil, errs.Newf(errs.KindConflict, "disbursement already exists with status: %s", existing.Status)
		}
	}

	if loan.Status != domain.LoanStatusApproved {
		return nil, errs.New(errs.KindValidation, "loan must be APPROVED before disbursement")
	}
	if amount != loan.Principal {
		return nil, errs.New(errs.KindValidation, "disbursement amount must equal loan principal")
	}

	disbursement, err := s.disbursementRepo.Create(ctx, loanID, amount, date)
	if err != nil {
		if errors.Is(err, disbursementrepo.ErrDuplicateLoan) {
			return nil, errs.New(errs.KindConflict, "disbursement already exists for this loan")
		}
		return nil, err
	}

	var (
		updatedLoan *domain.Loan
		schedules   []domain.RepaymentSchedule
	)
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		// Lock the loan row for the rest of the unit; a concurrent
		// orchestrator on the same loan waits here and re-reads state.
		locked, err := s.loanRepo.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if locked == nil || locked.Status != domain.LoanStatusApproved {
			return errs.New(errs.KindConflict, "loan is no longer APPROVED")
		}

		available, err := s.transactionRepo.AvailableFunds(ctx)
		if err != nil {
			return err
		}
		if available < amount {
			return errs.Newf(errs.KindInsufficientFunds,
				"insufficient platform funds: available %.2f, required %.2f", available, amount)
		}

		if _, err := s.transactionRepo.Create(ctx,
			domain.TransactionTypeDisbursement, disbursement.ID, -amount); err != nil {
			return err
		}

		if err := s.ledger.TransferToBorrower(ctx, locked.AccountID, amount); err != nil {
			return err
		}

		if err := s.loanRepo.SetOutstanding(ctx, loanID, amount, domain.LoanStatusActive); err != nil {
			return err
		}

		rows := make([]domain.RepaymentSchedule, 0, locked.TenorMonths)
		for _, inst := range fincalc.BuildSchedule(amount, locked.AnnualRatePercent, locked.TenorMonths, date) {
			rows = append(rows, domain.RepaymentSchedule{
				LoanID:            loanID,
				InstallmentNumber: inst.Number,
				DueDate:           inst.DueDate,
				PrincipalAmount:   inst.Principal,
				InterestAmount:    inst.Interest,
			})
		}
		schedules, err = s.scheduleRepo.CreateBatch(ctx, rows)
		if err != nil {
			return err
		}

		locked.Status = domain.LoanStatusActive
		locked.OutstandingPrincipal = amount
		updatedLoan = locked
		return nil
	})
	if err != nil {
		s.rollback.LogRollback(ctx, disbursement.ID, domain.OperationDisbursement,
			"disbursement unit of work aborted", err)
		if markErr := s.disbursementRepo.UpdateStatus(ctx, disbursement.ID, domain.DisbursementStatusFailed); markErr != nil {
			zap.L().Error("failed to mark disbursement FAILED", zap.Error(markErr))
		}
		return nil, err
	}

	if err := s.completeDisbursement(ctx, disbursement.ID); err != nil {
		zap.L().Error("post-commit step failed, compensating disbursement",
			zap.String("disbursementID", disbursement.ID), zap.Error(err))

		if rbErr := s.rollback.RollbackDisbursement(ctx, disbursement.ID, domain.SystemActor,
			"system rollback due to post-commit error: "+err.Error()); rbErr != nil {
			s.audit.Record(ctx, auditservice.Event{
				TransactionID: disbursement.ID,
				Operation:     "COMPENSATION_FAILED",
				Level:         auditservice.LevelError,
				Service:       "disbursement",
				Metadata:      map[string]any{"loanId": loanID, "error": rbErr.Error()},
			})
			return nil, errs.Wrap(errs.KindCompensation,
				"disbursement compensation failed, manual intervention required", rbErr)
		}
		return nil, errs.Wrap(errs.KindPostCommit,
			"disbursement failed after commit and was rolled back", err)
	}

	disbursement.Status = domain.DisbursementStatusCompleted
	s.audit.Record(ctx, auditservice.Event{
		TransactionID: disbursement.ID,
		Operation:     "DISBURSEMENT_COMPLETED",
		Service:       "disbursement",
		Metadata: map[string]any{
			"loanId":        loanID,
			"amount":        amount,
			"scheduleCount": len(schedules),
		},
	})
	zap.L().Info("loan disbursed",
		zap.String("loanID", loanID),
		zap.Float64("amount", amount),
		zap.Int("schedules", len(schedules)))

	return &Result{
		Disbursement:  disbursement,
		Loan:          updatedLoan,
		ScheduleCount: len(schedules),
	}, nil
}

func (s *Service) completeDisbursement(ctx context.Context, id string) error {
	if s.postCommitHook != nil {
		if err := s.postCommitHook(); err != nil {
			return err
		}
	}
	return s.disbursementRepo.UpdateStatus(ctx, id, domain.DisbursementStatusCompleted)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Disbursement, error) {
	disbursement, err := s.disbursementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if disbursement == nil {
		return nil, errs.Newf(errs.KindNotFound, "disbursement %s not found", id)
	}
	return disbursement, nil
}

func (s *Service) GetByLoan(ctx context.Context, loanID string) (*domain.Disbursement, error) {
	disbursement, err := s.disbursementRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if disbursement == nil {
		return nil, errs.Newf(errs.KindNotFound, "no disbursement for loan %s", loanID)
	}
	return disbursement, nil
}
