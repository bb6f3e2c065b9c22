package paymentservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/internal/pg"
)

type mocks struct {
	loanRepo         *MockLoanRepo
	disbursementRepo *MockDisbursementRepo
	scheduleRepo     *MockScheduleRepo
	paymentRepo      *MockPaymentRepo
	transactionRepo  *MockTransactionRepo
	ledger           *MockLedger
	audit            *MockAudit
	txManager        *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		loanRepo:         NewMockLoanRepo(ctrl),
		disbursementRepo: NewMockDisbursementRepo(ctrl),
		scheduleRepo:     NewMockScheduleRepo(ctrl),
		paymentRepo:      NewMockPaymentRepo(ctrl),
		transactionRepo:  NewMockTransactionRepo(ctrl),
		ledger:           NewMockLedger(ctrl),
		audit:            NewMockAudit(ctrl),
		txManager:        pg.NewMockTXManager(ctrl),
	}
	service := New(m.loanRepo, m.disbursementRepo, m.scheduleRepo, m.paymentRepo,
		m.transactionRepo, m.ledger, m.audit, m.txManager)
	return service, m
}

func passthroughTx(m *mocks) {
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		})
}

var (
	disbursedAt = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	firstDue    = time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	secondDue   = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
)

func activeLoan() *domain.Loan {
	return &domain.Loan{
		ID:                   "loan-1",
		AccountID:            "acc-1",
		Principal:            12000,
		AnnualRatePercent:    12,
		TenorMonths:          12,
		Status:               domain.LoanStatusActive,
		OutstandingPrincipal: 12000,
	}
}

func openSchedules() []domain.RepaymentSchedule {
	return []domain.RepaymentSchedule{
		{ID: "sch-1", LoanID: "loan-1", InstallmentNumber: 1, DueDate: firstDue,
			PrincipalAmount: 946.19, InterestAmount: 120, Status: domain.ScheduleStatusPending},
		{ID: "sch-2", LoanID: "loan-1", InstallmentNumber: 2, DueDate: secondDue,
			PrincipalAmount: 955.65, InterestAmount: 110.54, Status: domain.ScheduleStatusPending},
	}
}

// expectEntry wires loading the loan, disbursement and last-payment lookups.
func expectEntry(m *mocks) {
	m.loanRepo.EXPECT().GetByIDForUpdate(gomock.Any(), "loan-1").Return(activeLoan(), nil)
	m.disbursementRepo.EXPECT().GetByLoanID(gomock.Any(), "loan-1").
		Return(&domain.Disbursement{ID: "dis-1", LoanID: "loan-1", Amount: 12000,
			DisbursementDate: disbursedAt, Status: domain.DisbursementStatusCompleted}, nil)
	m.paymentRepo.EXPECT().GetLastCompleted(gomock.Any(), "loan-1").Return(nil, nil)
}

func captureCreates(m *mocks, created *[]domain.Payment) {
	m.paymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
			p.ID = "pay-" + p.RepaymentScheduleID
			p.Status = domain.PaymentStatusCompleted
			*created = append(*created, *p)
			return p, nil
		}).AnyTimes()
	m.paymentRepo.EXPECT().SetTransaction(gomock.Any(), gomock.Any(), "txn-1").Return(nil).AnyTimes()
}

func TestProcessFullPayment(t *testing.T) {
	service, m := NewMock(t)
	paymentDate := firstDue // 31 days of interest on 12000 at 12% = 122.30

	passthroughTx(m)
	expectEntry(m)
	m.scheduleRepo.EXPECT().ListOpenByLoan(gomock.Any(), "loan-1").Return(openSchedules(), nil).Times(2)

	var created []domain.Payment
	captureCreates(m, &created)

	m.scheduleRepo.EXPECT().UpdateStatus(gomock.Any(), "sch-1", domain.ScheduleStatusPaid, gomock.Any()).Return(nil)
	m.scheduleRepo.EXPECT().UpdateStatus(gomock.Any(), "sch-2", domain.ScheduleStatusPartiallyPaid, nil).Return(nil)
	m.ledger.EXPECT().TransferFromBorrower(gomock.Any(), "acc-1", 1068.49).Return(nil)
	m.transactionRepo.EXPECT().Create(gomock.Any(), domain.TransactionTypeRepayment, "loan-1", 1068.49).
		Return(&domain.Transaction{ID: "txn-1"}, nil)
	m.loanRepo.EXPECT().SetOutstanding(gomock.Any(), "loan-1", 11053.81, domain.LoanStatusActive).Return(nil)
	m.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	result, err := service.Process(context.Background(), "loan-1", 0, paymentDate)
	assert.NoError(t, err)
	assert.Equal(t, 1068.49, result.TotalAmountCharged)
	assert.Equal(t, 946.19, result.TotalPrincipalPaid)
	assert.Equal(t, 122.30, result.TotalInterestPaid)
	assert.Equal(t, 0.0, result.TotalLateFeePaid)
	assert.Equal(t, 11053.81, result.NewOutstandingPrincipal)
	assert.False(t, result.LoanClosed)

	// interest prorated over the full outstanding balance: the due
	// installment takes its slice, the remainder lands interest-only on the
	// next one.
	assert.Len(t, created, 2)
	assert.Equal(t, "sch-1", created[0].RepaymentScheduleID)
	assert.Equal(t, 946.19, created[0].PrincipalPaid)
	assert.Equal(t, 9.64, created[0].InterestPaid)
	assert.Equal(t, "sch-2", created[1].RepaymentScheduleID)
	assert.Equal(t, 112.66, created[1].InterestPaid)
	assert.Equal(t, 0.0, created[1].PrincipalPaid)
}

func TestProcessPartialPayment(t *testing.T) {
	service, m := NewMock(t)

	passthroughTx(m)
	expectEntry(m)
	m.scheduleRepo.EXPECT().ListOpenByLoan(gomock.Any(), "loan-1").Return(openSchedules(), nil).Times(2)

	var created []domain.Payment
	captureCreates(m, &created)

	m.scheduleRepo.EXPECT().UpdateStatus(gomock.Any(), "sch-1", domain.ScheduleStatusPartiallyPaid, nil).Return(nil)
	m.scheduleRepo.EXPECT().UpdateStatus(gomock.Any(), "sch-2", domain.ScheduleStatusPartiallyPaid, nil).Return(nil)
	m.ledger.EXPECT().TransferFromBorrower(gomock.Any(), "acc-1", 200.0).Return(nil)
	m.transactionRepo.EXPECT().Create(gomock.Any(), domain.TransactionTypeRepayment, "loan-1", 200.0).
		Return(&domain.Transaction{ID: "txn-1"}, nil)
	m.loanRepo.EXPECT().SetOutstanding(gomock.Any(), "loan-1", 11922.30, domain.LoanStatusActive).Return(nil)
	m.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	result, err := service.Process(context.Background(), "loan-1", 200, firstDue)
	assert.NoError(t, err)
	assert.Equal(t, 200.0, result.TotalAmountCharged)
	assert.Equal(t, 77.70, result.TotalPrincipalPaid)
	assert.Equal(t, 122.30, result.TotalInterestPaid)
	assert.Equal(t, 11922.30, result.NewOutstandingPrincipal)
}

func TestProcessLatePayment(t *testing.T) {
	service, m := NewMock(t)
	// 38 days past the first due date: one full 30-day block beyond the
	// 3-day grace period, flat fee 25.
	paymentDate := time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)

	passthroughTx(m)
	expectEntry(m)

	schedules := openSchedules()
	schedules[1].DueDate = time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	m.scheduleRepo.EXPECT().ListOpenByLoan(gomock.Any(), "loan-1").Return(schedules, nil).Times(2)

	var created []domain.Payment
	captureCreates(m, &created)

	m.scheduleRepo.EXPECT().UpdateStatus(gomock.Any(), "sch-1", domain.ScheduleStatusPaid, gomock.Any()).Return(nil)
	m.scheduleRepo.EXPECT().UpdateStatus(gomock.Any(), "sch-2", domain.ScheduleStatusPartiallyPaid, nil).Return(nil)
	m.ledger.EXPECT().TransferFromBorrower(gomock.Any(), "acc-1", 1243.41).Return(nil)
	m.transactionRepo.EXPECT().Create(gomock.Any(), domain.TransactionTypeRepayment, "loan-1", 1243.41).
		Return(&domain.Transaction{ID: "txn-1"}, nil)
	m.loanRepo.EXPECT().SetOutstanding(gomock.Any(), "loan-1", 11053.81, domain.LoanStatusActive).Return(nil)
	m.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	result, err := service.Process(context.Background(), "loan-1", 0, paymentDate)
	assert.NoError(t, err)
	assert.Equal(t, 1243.41, result.TotalAmountCharged)
	assert.Equal(t, 25.0, result.TotalLateFeePaid)
	assert.Equal(t, 272.22, result.TotalInterestPaid)
	assert.Equal(t, 38, created[0].DaysLate)
	assert.Equal(t, 25.0, created[0].LateFeePaid)
}

func TestProcessValidation(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		paymentDate  time.Time
		prepareMock  func(m *mocks)
		expectedKind errs.Kind
	}{
		{
			name:         "negative amount",
			amount:       -1,
			paymentDate:  firstDue,
			prepareMock:  func(m *mocks) {},
			expectedKind: errs.KindValidation,
		},
		{
			name:        "loan not active",
			paymentDate: firstDue,
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				loan := activeLoan()
				loan.Status = domain.LoanStatusPending
				m.loanRepo.EXPECT().GetByIDForUpdate(gomock.Any(), "loan-1").Return(loan, nil)
			},
			expectedKind: errs.KindValidation,
		},
		{
			name:        "payment date before last event",
			paymentDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				expectEntry(m)
			},
			expectedKind: errs.KindValidation,
		},
		{
			name:        "nothing due yet",
			paymentDate: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				expectEntry(m)
				m.scheduleRepo.EXPECT().ListOpenByLoan(gomock.Any(), "loan-1").Return(openSchedules(), nil)
			},
			expectedKind: errs.KindValidation,
		},
		{
			name:        "overpayment rejected",
			amount:      5000,
			paymentDate: firstDue,
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				expectEntry(m)
				m.scheduleRepo.EXPECT().ListOpenByLoan(gomock.Any(), "loan-1").Return(openSchedules(), nil)
			},
			expectedKind: errs.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			result, err := service.Process(context.Background(), "loan-1", tt.amount, tt.paymentDate)
			assert.Nil(t, result)
			assert.Equal(t, tt.expectedKind, errs.KindOf(err))
		})
	}
}

func TestProcessPartiallyPaidRemainder(t *testing.T) {
	service, m := NewMock(t)

	passthroughTx(m)
	expectEntry(m)

	schedules := openSchedules()
	schedules[0].Status = domain.ScheduleStatusPartiallyPaid
	m.scheduleRepo.EXPECT().ListOpenByLoan(gomock.Any(), "loan-1").Return(schedules, nil).Times(2)
	// 77.70 of sch-1 principal was settled by an earlier partial payment.
	m.paymentRepo.EXPECT().SumPaidBySchedule(gomock.Any(), "sch-1").Return(77.70, nil)

	var created []domain.Payment
	captureCreates(m, &created)

	m.scheduleRepo.EXPECT().UpdateStatus(gomock.Any(), "sch-1", domain.ScheduleStatusPaid, gomock.Any()).Return(nil)
	m.scheduleRepo.EXPECT().UpdateStatus(gomock.Any(), "sch-2", domain.ScheduleStatusPartiallyPaid, nil).Return(nil)
	m.ledger.EXPECT().TransferFromBorrower(gomock.Any(), "acc-1", gomock.Any()).Return(nil)
	m.transactionRepo.EXPECT().Create(gomock.Any(), domain.TransactionTypeRepayment, "loan-1", gomock.Any()).
		Return(&domain.Transaction{ID: "txn-1"}, nil)
	m.loanRepo.EXPECT().SetOutstanding(gomock.Any(), "loan-1", gomock.Any(), domain.LoanStatusActive).Return(nil)
	m.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	result, err := service.Process(context.Background(), "loan-1", 0, firstDue)
	assert.NoError(t, err)
	// only the unsettled remainder of sch-1's principal is charged again
	assert.Equal(t, 868.49, result.TotalPrincipalPaid)
	assert.Equal(t, 868.49, created[0].PrincipalPaid)
}

func TestProcessFinalInstallmentClosesLoan(t *testing.T) {
	lastPaid := time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC)
	finalDue := time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		outstanding float64
	}{
		{
			name:        "balance matches the final installment",
			outstanding: 950.00,
		},
		{
			// the schedule row carries a cent of rounding residue above the
			// tracked balance; the outstanding must settle to zero, not -0.01
			name:        "residue cent settles to zero",
			outstanding: 949.99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)

			passthroughTx(m)
			loan := activeLoan()
			loan.OutstandingPrincipal = tt.outstanding
			m.loanRepo.EXPECT().GetByIDForUpdate(gomock.Any(), "loan-1").Return(loan, nil)
			m.disbursementRepo.EXPECT().GetByLoanID(gomock.Any(), "loan-1").
				Return(&domain.Disbursement{ID: "dis-1", LoanID: "loan-1", Amount: 12000,
					DisbursementDate: disbursedAt, Status: domain.DisbursementStatusCompleted}, nil)
			m.paymentRepo.EXPECT().GetLastCompleted(gomock.Any(), "loan-1").
				Return(&domain.Payment{ID: "pay-11", LoanID: "loan-1", PaymentDate: lastPaid}, nil)
			m.scheduleRepo.EXPECT().ListOpenByLoan(gomock.Any(), "loan-1").
				Return([]domain.RepaymentSchedule{
					{ID: "sch-12", LoanID: "loan-1", InstallmentNumber: 12, DueDate: finalDue,
						PrincipalAmount: 950.00, InterestAmount: 9.41, Status: domain.ScheduleStatusPending},
				}, nil)

			var created []domain.Payment
			captureCreates(m, &created)

			m.scheduleRepo.EXPECT().UpdateStatus(gomock.Any(), "sch-12", domain.ScheduleStatusPaid, gomock.Any()).Return(nil)
			m.ledger.EXPECT().TransferFromBorrower(gomock.Any(), "acc-1", 959.37).Return(nil)
			m.transactionRepo.EXPECT().Create(gomock.Any(), domain.TransactionTypeRepayment, "loan-1", 959.37).
				Return(&domain.Transaction{ID: "txn-1"}, nil)
			m.loanRepo.EXPECT().SetOutstanding(gomock.Any(), "loan-1", 0.0, domain.LoanStatusClosed).Return(nil)
			m.audit.EXPECT().Record(gomock.Any(), gomock.Any())

			result, err := service.Process(context.Background(), "loan-1", 0, finalDue)
			assert.NoError(t, err)
			assert.True(t, result.LoanClosed)
			assert.Equal(t, 0.0, result.NewOutstandingPrincipal)
			assert.Equal(t, 959.37, result.TotalAmountCharged)
			assert.Equal(t, 9.37, result.TotalInterestPaid)

			assert.Len(t, created, 1)
			assert.Equal(t, 950.00, created[0].PrincipalPaid)
		})
	}
}

func TestGet(t *testing.T) {
	service, m := NewMock(t)

	m.paymentRepo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(nil, nil)
	_, err := service.Get(context.Background(), "pay-1")
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}
