package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/service/auditservice"
)

func TestSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	loanRepo := NewMockLoanRepo(ctrl)
	scheduleRepo := NewMockScheduleRepo(ctrl)
	audit := NewMockAudit(ctrl)
	sweeper := NewOverdueSweeper(loanRepo, scheduleRepo, audit, "")

	asOf := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	loanRepo.EXPECT().ListActive(gomock.Any()).
		Return([]domain.Loan{{ID: "loan-1", Status: domain.LoanStatusActive}}, nil)
	scheduleRepo.EXPECT().ListOpenByLoan(gomock.Any(), "loan-1").
		Return([]domain.RepaymentSchedule{
			// 33 days late, past grace
			{ID: "sch-1", InstallmentNumber: 1,
				DueDate: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
			// 2 days late, still within grace
			{ID: "sch-2", InstallmentNumber: 2,
				DueDate: time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)},
			// not yet due
			{ID: "sch-3", InstallmentNumber: 3,
				DueDate: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)},
		}, nil)

	var events []auditservice.Event
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, event auditservice.Event) {
			events = append(events, event)
		})

	sweeper.Sweep(context.Background(), asOf)

	assert.Len(t, events, 1)
	assert.Equal(t, "loan-1", events[0].TransactionID)
	assert.Equal(t, "INSTALLMENT_OVERDUE", events[0].Operation)
	assert.Equal(t, auditservice.LevelError, events[0].Level)
	assert.Equal(t, "sch-1", events[0].Metadata["scheduleId"])
	assert.Equal(t, 33, events[0].Metadata["daysLate"])
	assert.Equal(t, 25.0, events[0].Metadata["lateFee"])
}

func TestSweepNoActiveLoans(t *testing.T) {
	ctrl := gomock.NewController(t)
	loanRepo := NewMockLoanRepo(ctrl)
	scheduleRepo := NewMockScheduleRepo(ctrl)
	audit := NewMockAudit(ctrl)
	sweeper := NewOverdueSweeper(loanRepo, scheduleRepo, audit, "")

	loanRepo.EXPECT().ListActive(gomock.Any()).Return(nil, nil)

	sweeper.Sweep(context.Background(), time.Now())
}
