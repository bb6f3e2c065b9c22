// Package paymentservice settles borrower repayments. A single call may cover
// several overdue installments: interest, late fees and principal are
// computed globally for the loan, allocated in strict waterfall order, then
// distributed across the due schedule rows. Everything runs inside one atomic
// unit of work, so a failure anywhere leaves no payment side effects.
package paymentservice

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/internal/pg"
	"github.com/dkovalev/loancore/internal/service/auditservice"
	"github.com/dkovalev/loancore/pkg/fincalc"
)

type LoanRepo interface {
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error)
	SetOutstanding(ctx context.Context, id string, outstanding float64, status string) error
}

type DisbursementRepo interface {
	GetByLoanID(ctx context.Context, loanID string) (*domain.Disbursement, error)
}

type ScheduleRepo interface {
	ListOpenByLoan(ctx context.Context, loanID string) ([]domain.RepaymentSchedule, error)
	UpdateStatus(ctx context.Context, id, status string, paidDate *time.Time) error
}

type PaymentRepo interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetLastCompleted(ctx context.Context, loanID string) (*domain.Payment, error)
	ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error)
	SumPaidBySchedule(ctx context.Context, scheduleID string) (float64, error)
	SetTransaction(ctx context.Context, id, transactionID string) error
}

type TransactionRepo interface {
	Create(ctx context.Context, txType, refID string, amount float64) (*domain.Transaction, error)
}

type Ledger interface {
	TransferFromBorrower(ctx context.Context, borrowerAccountID string, amount float64) error
}

type Audit interface {
	Record(ctx context.Context, event auditservice.Event)
}

type Service struct {
	loanRepo         LoanRepo
	disbursementRepo DisbursementRepo
	scheduleRepo     ScheduleRepo
	paymentRepo      PaymentRepo
	transactionRepo  TransactionRepo
	ledger           Ledger
	audit            Audit
	txManager        pg.TXManager
}

func New(
	loanRepo LoanRepo,
	disbursementRepo DisbursementRepo,
	scheduleRepo ScheduleRepo,
	paymentRepo PaymentRepo,
	transactionRepo TransactionRepo,
	ledger Ledger,
	audit Audit,
	txManager pg.TXManager,
) *Service {
	return &Service{
		loanRepo:         loanRepo,
		disbursementRepo: disbursementRepo,
		scheduleRepo:     scheduleRepo,
		paymentRepo:      paymentRepo,
		transactionRepo:  transactionRepo,
		ledger:           ledger,
		audit:            audit,
		txManager:        txManager,
	}
}

// a schedule counts as fully settled when remaining principal falls below
// half a cent.
const paidEpsilon = 0.005

// leftover interest below a cent is rounding noise, not a real obligation.
const interestEpsilon = 0.01

type Result struct {
	Payments                []domain.Payment
	TotalAmountCharged      float64
	TotalPrincipalPaid      float64
	TotalInterestPaid       float64
	TotalLateFeePaid        float64
	NewOutstandingPrincipal float64
	SchedulesCovered        int
	LoanClosed              bool
}

// dueItem is a schedule due on the payment date together with its remaining
// obligations.
type dueItem struct {
	schedule           domain.RepaymentSchedule
	principalRemaining float64
	lateFeeDue         float64
	daysLate           int
}

// Process settles a payment against a loan. A zero amount means "pay
// everything currently due". Partial payments are accepted; overpayments
// beyond the total due are rejected.
func (s *Service) Process(ctx context.Context, loanID string, amount float64, paymentDate time.Time) (*Result, error) {
	if amount < 0 {
		return nil, errs.New(errs.KindValidation, "payment amount must not be negative")
	}

	var result *Result
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		loan, err := s.loanRepo.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return errs.Newf(errs.KindNotFound, "loan %s not found", loanID)
		}
		if loan.Status != domain.LoanStatusActive {
			return errs.Newf(errs.KindValidation, "loan is not ACTIVE, status: %s", loan.Status)
		}
		if loan.OutstandingPrincipal <= 0 {
			return errs.New(errs.KindValidation, "loan has no outstanding principal")
		}

		disbursement, err := s.disbursementRepo.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		if disbursement == nil {
			return errs.New(errs.KindValidation, "loan has no disbursement")
		}

		lastEventDate := disbursement.DisbursementDate
		if last, err := s.paymentRepo.GetLastCompleted(ctx, loanID); err != nil {
			return err
		} else if last != nil {
			lastEventDate = last.PaymentDate
		}
		if paymentDate.Before(lastEventDate) {
			return errs.Newf(errs.KindValidation,
				"payment date %s is before the last payment event %s",
				paymentDate.Format("2006-01-02"), lastEventDate.Format("2006-01-02"))
		}

		days := fincalc.DaysBetween(lastEventDate, paymentDate)
		totalInterest := fincalc.Round2(fincalc.AccruedInterest(
			loan.OutstandingPrincipal, loan.AnnualRatePercent, days))

		due, err := s.collectDue(ctx, loanID, paymentDate)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			return errs.New(errs.KindValidation, "no installments are due yet")
		}

		var principalDue, totalLateFee float64
		for _, item := range due {
			principalDue += item.principalRemaining
			totalLateFee += item.lateFeeDue
		}
		totalDue := fincalc.Round2(principalDue + totalInterest + totalLateFee)

		charged := amount
		if charged == 0 {
			charged = totalDue
		}
		if charged > totalDue {
			return errs.Newf(errs.KindValidation,
				"payment %.2f exceeds total due %.2f", charged, totalDue)
		}

		allocation := fincalc.Allocate(charged, totalInterest, totalLateFee)

		payments, err := s.distribute(ctx, loan, due, allocation, paymentDate)
		if err != nil {
			return err
		}

		if err := s.ledger.TransferFromBorrower(ctx, loan.AccountID, charged); err != nil {
			return err
		}
		txn, err := s.transactionRepo.Create(ctx, domain.TransactionTypeRepayment, loanID, charged)
		if err != nil {
			return err
		}
		for i := range payments {
			if err := s.paymentRepo.SetTransaction(ctx, payments[i].ID, txn.ID); err != nil {
				return err
			}
			payments[i].TransactionID = txn.ID
		}

		// the outstanding balance never goes negative; a cent of schedule
		// rounding residue settles to zero here
		newOutstanding := fincalc.Round2(loan.OutstandingPrincipal - allocation.PrincipalPaid)
		if newOutstanding < 0 {
			newOutstanding = 0
		}
		status := domain.LoanStatusActive
		if newOutstanding == 0 {
			status = domain.LoanStatusClosed
		}
		if err := s.loanRepo.SetOutstanding(ctx, loanID, newOutstanding, status); err != nil {
			return err
		}

		result = &Result{
			Payments:                payments,
			TotalAmountCharged:      charged,
			TotalPrincipalPaid:      allocation.PrincipalPaid,
			TotalInterestPaid:       allocation.InterestPaid,
			TotalLateFeePaid:        allocation.LateFeePaid,
			NewOutstandingPrincipal: newOutstanding,
			SchedulesCovered:        len(payments),
			LoanClosed:              status == domain.LoanStatusClosed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditservice.Event{
		TransactionID: loanID,
		Operation:     "PAYMENT_COMPLETED",
		Service:       "payment",
		Metadata: map[string]any{
			"amount":         result.TotalAmountCharged,
			"principalPaid":  result.TotalPrincipalPaid,
			"newOutstanding": result.NewOutstandingPrincipal,
			"loanClosed":     result.LoanClosed,
		},
	})
	zap.L().Info("payment processed",
		zap.String("loanID", loanID),
		zap.Float64("charged", result.TotalAmountCharged),
		zap.Int("schedules", result.SchedulesCovered))
	return result, nil
}

// collectDue loads the open schedule rows due on or before the payment date
// with their remaining principal and accrued late fee.
func (s *Service) collectDue(ctx context.Context, loanID string, paymentDate time.Time) ([]dueItem, error) {
	open, err := s.scheduleRepo.ListOpenByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	var due []dueItem
	for _, sched := range open {
		if sched.DueDate.After(paymentDate) {
			continue
		}
		remaining := sched.PrincipalAmount
		if sched.Status == domain.ScheduleStatusPartiallyPaid {
			paid, err := s.paymentRepo.SumPaidBySchedule(ctx, sched.ID)
			if err != nil {
				return nil, err
			}
			remaining = fincalc.Round2(sched.PrincipalAmount - paid)
			if remaining < 0 {
				remaining = 0
			}
		}
		daysLate := fincalc.DaysBetween(sched.DueDate, paymentDate)
		if daysLate < 0 {
			daysLate = 0
		}
		due = append(due, dueItem{
			schedule:           sched,
			principalRemaining: remaining,
			lateFeeDue:         fincalc.LateFee(daysLate),
			daysLate:           daysLate,
		})
	}
	return due, nil
}

// share is a per-schedule slice of the global allocation before it becomes a
// Payment row.
type share struct {
	scheduleID string
	interest   float64
	fee        float64
	principal  float64
	daysLate   int
	settled    bool
}

// distribute writes the per-schedule Payment rows for a global allocation.
// Interest is split proportionally to each due schedule's remaining
// principal over the loan's full outstanding balance; fees and principal are
// settled in installment order. Interest attributable to future installments
// lands on the next open schedule as an interest-only partial payment.
func (s *Service) distribute(
	ctx context.Context,
	loan *domain.Loan,
	due []dueItem,
	allocation fincalc.Allocation,
	paymentDate time.Time,
) ([]domain.Payment, error) {
	remInterest := allocation.InterestPaid
	remFee := allocation.LateFeePaid
	remPrincipal := allocation.PrincipalPaid

	shares := make([]share, 0, len(due))
	for _, item := range due {
		interestShare := fincalc.Round2(allocation.InterestPaid * item.principalRemaining / loan.OutstandingPrincipal)
		if interestShare > remInterest {
			interestShare = remInterest
		}

		feeShare := item.lateFeeDue
		if feeShare > remFee {
			feeShare = remFee
		}

		principalShare := item.principalRemaining
		if principalShare > remPrincipal {
			principalShare = remPrincipal
		}
		principalShare = fincalc.Round2(principalShare)

		shares = append(shares, share{
			scheduleID: item.schedule.ID,
			interest:   interestShare,
			fee:        feeShare,
			principal:  principalShare,
			daysLate:   item.daysLate,
			settled:    item.principalRemaining-principalShare < paidEpsilon,
		})

		remInterest = fincalc.Round2(remInterest - interestShare)
		remFee = fincalc.Round2(remFee - feeShare)
		remPrincipal = fincalc.Round2(remPrincipal - principalShare)
	}

	// Interest accrued on principal that is not yet due belongs to the next
	// open installment. Without one, the last due share absorbs it so no
	// collected cent goes unrecorded.
	var carry *share
	if remInterest > interestEpsilon {
		next, err := s.nextOpenSchedule(ctx, loan.ID, paymentDate)
		if err != nil {
			return nil, err
		}
		if next != nil {
			carry = &share{scheduleID: next.ID, interest: remInterest}
		} else if len(shares) > 0 {
			last := &shares[len(shares)-1]
			last.interest = fincalc.Round2(last.interest + remInterest)
		}
	}

	var payments []domain.Payment
	for _, sh := range shares {
		if sh.interest == 0 && sh.fee == 0 && sh.principal == 0 {
			continue
		}

		created, err := s.paymentRepo.Create(ctx, &domain.Payment{
			LoanID:              loan.ID,
			RepaymentScheduleID: sh.scheduleID,
			Amount:              fincalc.Round2(sh.interest + sh.fee + sh.principal),
			PaymentDate:         paymentDate,
			PrincipalPaid:       sh.principal,
			InterestPaid:        sh.interest,
			LateFeePaid:         sh.fee,
			DaysLate:            sh.daysLate,
		})
		if err != nil {
			return nil, err
		}
		payments = append(payments, *created)

		status := domain.ScheduleStatusPartiallyPaid
		var paidDate *time.Time
		if sh.settled {
			status = domain.ScheduleStatusPaid
			d := paymentDate
			paidDate = &d
		}
		if err := s.scheduleRepo.UpdateStatus(ctx, sh.scheduleID, status, paidDate); err != nil {
			return nil, err
		}
	}

	if carry != nil {
		created, err := s.paymentRepo.Create(ctx, &domain.Payment{
			LoanID:              loan.ID,
			RepaymentScheduleID: carry.scheduleID,
			Amount:              carry.interest,
			PaymentDate:         paymentDate,
			InterestPaid:        carry.interest,
		})
		if err != nil {
			return nil, err
		}
		payments = append(payments, *created)
		if err := s.scheduleRepo.UpdateStatus(ctx,
			carry.scheduleID, domain.ScheduleStatusPartiallyPaid, nil); err != nil {
			return nil, err
		}
	}

	return payments, nil
}

func (s *Service) nextOpenSchedule(ctx context.Context, loanID string, paymentDate time.Time) (*domain.RepaymentSchedule, error) {
	open, err := s.scheduleRepo.ListOpenByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	for i := range open {
		if open[i].DueDate.After(paymentDate) {
			return &open[i], nil
		}
	}
	return nil, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, errs.Newf(errs.KindNotFound, "payment %s not found", id)
	}
	return payment, nil
}

func (s *Service) ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error) {
	return s.paymentRepo.ListByLoan(ctx, loanID)
}
