package rollbackservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/internal/pg"
)

type mocks struct {
	disbursementRepo *MockDisbursementRepo
	paymentRepo      *MockPaymentRepo
	loanRepo         *MockLoanRepo
	scheduleRepo     *MockScheduleRepo
	transactionRepo  *MockTransactionRepo
	rollbackRepo     *MockRollbackRepo
	ledger           *MockLedger
	audit            *MockAudit
	txManager        *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		disbursementRepo: NewMockDisbursementRepo(ctrl),
		paymentRepo:      NewMockPaymentRepo(ctrl),
		loanRepo:         NewMockLoanRepo(ctrl),
		scheduleRepo:     NewMockScheduleRepo(ctrl),
		transactionRepo:  NewMockTransactionRepo(ctrl),
		rollbackRepo:     NewMockRollbackRepo(ctrl),
		ledger:           NewMockLedger(ctrl),
		audit:            NewMockAudit(ctrl),
		txManager:        pg.NewMockTXManager(ctrl),
	}
	service := New(m.disbursementRepo, m.paymentRepo, m.loanRepo, m.scheduleRepo,
		m.transactionRepo, m.rollbackRepo, m.ledger, m.audit, m.txManager)
	return service, m
}

func passthroughTx(m *mocks) {
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		})
}

func TestRollbackDisbursement(t *testing.T) {
	rolledBackAt := time.Now()

	completed := func() *domain.Disbursement {
		return &domain.Disbursement{
			ID:     "dis-1",
			LoanID: "loan-1",
			Amount: 12000,
			Status: domain.DisbursementStatusCompleted,
		}
	}
	loan := func() *domain.Loan {
		return &domain.Loan{
			ID:                   "loan-1",
			AccountID:            "acc-1",
			Status:               domain.LoanStatusActive,
			OutstandingPrincipal: 12000,
		}
	}

	tests := []struct {
		name         string
		actor        string
		prepareMock  func(m *mocks)
		expectedKind errs.Kind
	}{
		{
			name:  "successful rollback",
			actor: "admin-1",
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.disbursementRepo.EXPECT().GetByID(gomock.Any(), "dis-1").Return(completed(), nil)
				m.loanRepo.EXPECT().GetByIDForUpdate(gomock.Any(), "loan-1").Return(loan(), nil)
				m.paymentRepo.EXPECT().HasCompletedByLoan(gomock.Any(), "loan-1").Return(false, nil)
				m.ledger.EXPECT().TransferFromBorrower(gomock.Any(), "acc-1", 12000.0).Return(nil)
				m.transactionRepo.EXPECT().Create(gomock.Any(), domain.TransactionTypeDisbursement, "dis-1", 12000.0).
					Return(&domain.Transaction{ID: "txn-2"}, nil)
				m.disbursementRepo.EXPECT().MarkRolledBack(gomock.Any(), "dis-1", gomock.Any()).Return(nil)
				m.loanRepo.EXPECT().SetOutstanding(gomock.Any(), "loan-1", 0.0, domain.LoanStatusApproved).Return(nil)
				m.scheduleRepo.EXPECT().DeleteByLoan(gomock.Any(), "loan-1").Return(nil)
				m.rollbackRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, rec *domain.RollbackRecord) (*domain.RollbackRecord, error) {
						assert.Equal(t, domain.OperationDisbursement, rec.OriginalOperation)
						assert.Equal(t, "admin-1", rec.RolledBackBy)
						return rec, nil
					})
				m.audit.EXPECT().Record(gomock.Any(), gomock.Any())
			},
		},
		{
			name:  "not found",
			actor: "admin-1",
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.disbursementRepo.EXPECT().GetByID(gomock.Any(), "dis-1").Return(nil, nil)
			},
			expectedKind: errs.KindNotFound,
		},
		{
			name:  "already rolled back",
			actor: "admin-1",
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				d := completed()
				d.Status = domain.DisbursementStatusRolledBack
				d.RolledBackAt = &rolledBackAt
				m.disbursementRepo.EXPECT().GetByID(gomock.Any(), "dis-1").Return(d, nil)
			},
			expectedKind: errs.KindConflict,
		},
		{
			name:  "pending rejected for manual actor",
			actor: "admin-1",
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				d := completed()
				d.Status = domain.DisbursementStatusPending
				m.disbursementRepo.EXPECT().GetByID(gomock.Any(), "dis-1").Return(d, nil)
			},
			expectedKind: errs.KindValidation,
		},
		{
			name:  "pending accepted for system actor",
			actor: domain.SystemActor,
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				d := completed()
				d.Status = domain.DisbursementStatusPending
				m.disbursementRepo.EXPECT().GetByID(gomock.Any(), "dis-1").Return(d, nil)
				m.loanRepo.EXPECT().GetByIDForUpdate(gomock.Any(), "loan-1").Return(loan(), nil)
				m.paymentRepo.EXPECT().HasCompletedByLoan(gomock.Any(), "loan-1").Return(false, nil)
				m.ledger.EXPECT().TransferFromBorrower(gomock.Any(), "acc-1", 12000.0).Return(nil)
				m.transactionRepo.EXPECT().Create(gomock.Any(), domain.TransactionTypeDisbursement, "dis-1", 12000.0).
					Return(&domain.Transaction{ID: "txn-2"}, nil)
				m.disbursementRepo.EXPECT().MarkRolledBack(gomock.Any(), "dis-1", gomock.Any()).Return(nil)
				m.loanRepo.EXPECT().SetOutstanding(gomock.Any(), "loan-1", 0.0, domain.LoanStatusApproved).Return(nil)
				m.scheduleRepo.EXPECT().DeleteByLoan(gomock.Any(), "loan-1").Return(nil)
				m.rollbackRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, rec *domain.RollbackRecord) (*domain.RollbackRecord, error) {
						return rec, nil
					})
				m.audit.EXPECT().Record(gomock.Any(), gomock.Any())
			},
		},
		{
			name:  "loan has completed payments",
			actor: "admin-1",
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.disbursementRepo.EXPECT().GetByID(gomock.Any(), "dis-1").Return(completed(), nil)
				m.loanRepo.EXPECT().GetByIDForUpdate(gomock.Any(), "loan-1").Return(loan(), nil)
				m.paymentRepo.EXPECT().HasCompletedByLoan(gomock.Any(), "loan-1").Return(true, nil)
			},
			expectedKind: errs.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			err := service.RollbackDisbursement(context.Background(), "dis-1", tt.actor, "test")
			if tt.expectedKind != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedKind, errs.KindOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRollbackPayment(t *testing.T) {
	payment := func() *domain.Payment {
		return &domain.Payment{
			ID:                  "pay-1",
			LoanID:              "loan-1",
			RepaymentScheduleID: "sch-1",
			TransactionID:       "txn-1",
			Amount:              1066.19,
			PrincipalPaid:       946.19,
			InterestPaid:        120,
			Status:              domain.PaymentStatusCompleted,
		}
	}

	tests := []struct {
		name         string
		prepareMock  func(m *mocks)
		expectedKind errs.Kind
	}{
		{
			name: "principal-only reversal reopens loan",
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.paymentRepo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(payment(), nil)
				m.loanRepo.EXPECT().GetByIDForUpdate(gomock.Any(), "loan-1").Return(&domain.Loan{
					ID:                   "loan-1",
					AccountID:            "acc-1",
					Status:               domain.LoanStatusClosed,
					OutstandingPrincipal: 0,
				}, nil)
				m.ledger.EXPECT().TransferToBorrower(gomock.Any(), "acc-1", 946.19).Return(nil)
				m.transactionRepo.EXPECT().Create(gomock.Any(), domain.TransactionTypeRepayment, "pay-1", -946.19).
					Return(&domain.Transaction{ID: "txn-2"}, nil)
				m.paymentRepo.EXPECT().UpdateStatus(gomock.Any(), "pay-1", domain.PaymentStatusRolledBack).Return(nil)
				m.loanRepo.EXPECT().SetOutstanding(gomock.Any(), "loan-1", 946.19, domain.LoanStatusActive).Return(nil)
				m.scheduleRepo.EXPECT().UpdateStatus(gomock.Any(), "sch-1", domain.ScheduleStatusRolledBack, nil).Return(nil)
				m.rollbackRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, rec *domain.RollbackRecord) (*domain.RollbackRecord, error) {
						assert.Equal(t, domain.OperationRepayment, rec.OriginalOperation)
						assert.Equal(t, "txn-1", rec.TransactionID)
						return rec, nil
					})
				m.audit.EXPECT().Record(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "not found",
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.paymentRepo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(nil, nil)
			},
			expectedKind: errs.KindNotFound,
		},
		{
			name: "already rolled back",
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				p := payment()
				p.Status = domain.PaymentStatusRolledBack
				m.paymentRepo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(p, nil)
			},
			expectedKind: errs.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			err := service.RollbackPayment(context.Background(), "pay-1", "admin-1", "test")
			if tt.expectedKind != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedKind, errs.KindOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLogRollback(t *testing.T) {
	service, m := NewMock(t)

	m.rollbackRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *domain.RollbackRecord) (*domain.RollbackRecord, error) {
			assert.Equal(t, "dis-1", rec.TransactionID)
			assert.Equal(t, "SYSTEM", rec.RolledBackBy)
			assert.Contains(t, rec.ErrorDetails, "boom")
			return rec, nil
		})

	service.LogRollback(context.Background(), "dis-1", domain.OperationDisbursement,
		"unit aborted", errors.New("boom"))
}
