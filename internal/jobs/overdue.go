// Package jobs runs the background maintenance work: a daily sweep that
// flags overdue installments on active loans into the audit trail.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/service/auditservice"
	"github.com/dkovalev/loancore/pkg/fincalc"
)

type LoanRepo interface {
	ListActive(ctx context.Context) ([]domain.Loan, error)
}

type ScheduleRepo interface {
	ListOpenByLoan(ctx context.Context, loanID string) ([]domain.RepaymentSchedule, error)
}

type Audit interface {
	Record(ctx context.Context, event auditservice.Event)
}

type OverdueSweeper struct {
	loanRepo     LoanRepo
	scheduleRepo ScheduleRepo
	audit        Audit
	schedule     string
	cron         *cron.Cron
}

func NewOverdueSweeper(loanRepo LoanRepo, scheduleRepo ScheduleRepo, audit Audit, schedule string) *OverdueSweeper {
	if schedule == "" {
		schedule = "0 2 * * *"
	}
	return &OverdueSweeper{
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		audit:        audit,
		schedule:     schedule,
	}
}

func (s *OverdueSweeper) Start(ctx context.Context) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.Sweep(ctx, time.Now())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	zap.L().Info("overdue sweeper started", zap.String("schedule", s.schedule))

	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()
	return nil
}

// Sweep walks every active loan and records an audit event per overdue
// installment past the grace period, with its current late fee.
func (s *OverdueSweeper) Sweep(ctx context.Context, asOf time.Time) {
	loans, err := s.loanRepo.ListActive(ctx)
	if err != nil {
		zap.L().Error("overdue sweep failed to list loans", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, loan := range loans {
		loan := loan
		g.Go(func() error {
			return s.sweepLoan(ctx, loan, asOf)
		})
	}
	if err := g.Wait(); err != nil {
		zap.L().Error("overdue sweep finished with errors", zap.Error(err))
	}
}

func (s *OverdueSweeper) sweepLoan(ctx context.Context, loan domain.Loan, asOf time.Time) error {
	schedules, err := s.scheduleRepo.ListOpenByLoan(ctx, loan.ID)
	if err != nil {
		return err
	}

	for _, sched := range schedules {
		daysLate := fincalc.DaysBetween(sched.DueDate, asOf)
		if daysLate <= fincalc.GraceDays {
			continue
		}
		s.audit.Record(ctx, auditservice.Event{
			TransactionID: loan.ID,
			Operation:     "INSTALLMENT_OVERDUE",
			Level:         auditservice.LevelError,
			Service:       "jobs",
			Metadata: map[string]any{
				"scheduleId":        sched.ID,
				"installmentNumber": sched.InstallmentNumber,
				"dueDate":           sched.DueDate.Format("2006-01-02"),
				"daysLate":          daysLate,
				"lateFee":           fincalc.LateFee(daysLate),
			},
		})
	}
	return nil
}
