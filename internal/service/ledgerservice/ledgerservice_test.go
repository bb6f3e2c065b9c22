package ledgerservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockAccountRepo, *MockTransactionRepo, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	accountRepo := NewMockAccountRepo(ctrl)
	transactionRepo := NewMockTransactionRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	service := New(accountRepo, transactionRepo, txManager)
	defer ctrl.Finish()
	return service, accountRepo, transactionRepo, txManager
}

func TestTransfer(t *testing.T) {
	service, accountRepo, _, _ := NewMock(t)

	borrower := &domain.Account{ID: "acc-borrower", Type: domain.AccountTypeUser, Balance: 100}
	platform := &domain.Account{ID: "acc-platform", Type: domain.AccountTypePlatform, Balance: 50}

	tests := []struct {
		name          string
		from, to      string
		amount        float64
		allowNegative bool
		prepareMock   func()
		expectedKind  errs.Kind
	}{
		{
			name:   "successful transfer",
			from:   "acc-borrower",
			to:     "acc-platform",
			amount: 40,
			prepareMock: func() {
				accountRepo.EXPECT().GetByID(gomock.Any(), "acc-borrower").Return(borrower, nil)
				accountRepo.EXPECT().GetByID(gomock.Any(), "acc-platform").Return(platform, nil)
				accountRepo.EXPECT().AddToBalance(gomock.Any(), "acc-borrower", -40.0).Return(nil)
				accountRepo.EXPECT().AddToBalance(gomock.Any(), "acc-platform", 40.0).Return(nil)
			},
		},
		{
			name:         "non-positive amount",
			from:         "acc-borrower",
			to:           "acc-platform",
			amount:       0,
			expectedKind: errs.KindValidation,
		},
		{
			name:   "missing source account",
			from:   "acc-missing",
			to:     "acc-platform",
			amount: 40,
			prepareMock: func() {
				accountRepo.EXPECT().GetByID(gomock.Any(), "acc-missing").Return(nil, nil)
			},
			expectedKind: errs.KindNotFound,
		},
		{
			name:   "insufficient borrower balance",
			from:   "acc-borrower",
			to:     "acc-platform",
			amount: 500,
			prepareMock: func() {
				accountRepo.EXPECT().GetByID(gomock.Any(), "acc-borrower").Return(borrower, nil)
				accountRepo.EXPECT().GetByID(gomock.Any(), "acc-platform").Return(platform, nil)
			},
			expectedKind: errs.KindInsufficientFunds,
		},
		{
			name:          "platform may go negative",
			from:          "acc-platform",
			to:            "acc-borrower",
			amount:        500,
			allowNegative: true,
			prepareMock: func() {
				accountRepo.EXPECT().GetByID(gomock.Any(), "acc-platform").Return(platform, nil)
				accountRepo.EXPECT().GetByID(gomock.Any(), "acc-borrower").Return(borrower, nil)
				accountRepo.EXPECT().AddToBalance(gomock.Any(), "acc-platform", -500.0).Return(nil)
				accountRepo.EXPECT().AddToBalance(gomock.Any(), "acc-borrower", 500.0).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			err := service.Transfer(context.Background(), tt.from, tt.to, tt.amount, tt.allowNegative)
			if tt.expectedKind != 0 {
				assert.Error(t, err)
				assert.True(t, errs.IsKind(err, tt.expectedKind))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFund(t *testing.T) {
	service, accountRepo, transactionRepo, txManager := NewMock(t)
	platform := &domain.Account{ID: "acc-platform", Type: domain.AccountTypePlatform}

	tests := []struct {
		name        string
		amount      float64
		prepareMock func()
		expectErr   bool
	}{
		{
			name:   "funds the platform account",
			amount: 1000,
			prepareMock: func() {
				txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn pg.TransactionalFn) error { return fn(ctx) })
				accountRepo.EXPECT().GetPlatform(gomock.Any()).Return(platform, nil)
				transactionRepo.EXPECT().Create(gomock.Any(), domain.TransactionTypeFunding, "", 1000.0).
					Return(&domain.Transaction{ID: "txn-1", Amount: 1000}, nil)
				accountRepo.EXPECT().AddToBalance(gomock.Any(), "acc-platform", 1000.0).Return(nil)
			},
		},
		{
			name:      "rejects non-positive amount",
			amount:    -5,
			expectErr: true,
		},
		{
			name:   "repo error aborts the unit",
			amount: 1000,
			prepareMock: func() {
				txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn pg.TransactionalFn) error { return fn(ctx) })
				accountRepo.EXPECT().GetPlatform(gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			transaction, err := service.Fund(context.Background(), tt.amount)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, transaction)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, transaction)
			}
		})
	}
}

func TestAvailableFunds(t *testing.T) {
	service, _, transactionRepo, _ := NewMock(t)

	transactionRepo.EXPECT().AvailableFunds(gomock.Any()).Return(1500.0, nil)

	available, err := service.AvailableFunds(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, available)
}
