package loanservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/errs"
)

type LoanRepo interface {
	Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	List(ctx context.Context) ([]domain.Loan, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type AccountRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

type ScheduleRepo interface {
	ListByLoan(ctx context.Context, loanID string) ([]domain.RepaymentSchedule, error)
}

type Service struct {
	loanRepo     LoanRepo
	accountRepo  AccountRepo
	scheduleRepo ScheduleRepo
}

func New(loanRepo LoanRepo, accountRepo AccountRepo, scheduleRepo ScheduleRepo) *Service {
	return &Service{
		loanRepo:     loanRepo,
		accountRepo:  accountRepo,
		scheduleRepo: scheduleRepo,
	}
}

// Create registers a loan application in PENDING state against an existing
// borrower account.
func (s *Service) Create(ctx context.Context, accountID string, principal, annualRatePercent float64, tenorMonths int) (*domain.Loan, error) {
	if principal <= 0 {
		return nil, errs.New(errs.KindValidation, "principal must be positive")
	}
	if annualRatePercent < 0 {
		return nil, errs.New(errs.KindValidation, "annual rate must not be negative")
	}
	if tenorMonths <= 0 {
		return nil, errs.New(errs.KindValidation, "tenor must be at least one month")
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errs.Newf(errs.KindNotFound, "account %s not found", accountID)
	}
	if account.Type != domain.AccountTypeUser {
		return nil, errs.New(errs.KindValidation, "loans can only be issued to borrower accounts")
	}

	loan, err := s.loanRepo.Create(ctx, &domain.Loan{
		AccountID:         accountID,
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TenorMonths:       tenorMonths,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("loan created",
		zap.String("loanID", loan.ID),
		zap.Float64("principal", principal),
		zap.Int("tenorMonths", tenorMonths))
	return loan, nil
}

// Approve moves a PENDING loan to APPROVED; only approved loans can be
// disbursed.
func (s *Service) Approve(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, errs.Newf(errs.KindNotFound, "loan %s not found", id)
	}
	if loan.Status != domain.LoanStatusPending {
		return nil, errs.Newf(errs.KindConflict, "loan cannot be approved from status %s", loan.Status)
	}
	if err := s.loanRepo.UpdateStatus(ctx, id, domain.LoanStatusApproved); err != nil {
		return nil, err
	}
	loan.Status = domain.LoanStatusApproved
	return loan, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, errs.Newf(errs.KindNotFound, "loan %s not found", id)
	}
	return loan, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Loan, error) {
	return s.loanRepo.List(ctx)
}

// Schedules returns the full repayment schedule for a loan, ordered by
// installment number.
func (s *Service) Schedules(ctx context.Context, loanID string) ([]domain.RepaymentSchedule, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, errs.Newf(errs.KindNotFound, "loan %s not found", loanID)
	}
	return s.scheduleRepo.ListByLoan(ctx, loanID)
}
