package ledgerservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/internal/pg"
	"github.com/dkovalev/loancore/pkg/fincalc"
)

type AccountRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetPlatform(ctx context.Context) (*domain.Account, error)
	GetByOwner(ctx context.Context, ownerRef string) (*domain.Account, error)
	Create(ctx context.Context, ownerRef string) (*domain.Account, error)
	AddToBalance(ctx context.Context, id string, delta float64) error
}

type TransactionRepo interface {
	Create(ctx context.Context, txType, refID string, amount float64) (*domain.Transaction, error)
	AvailableFunds(ctx context.Context) (float64, error)
}

// Service is the exclusive owner of account balance mutation. Every balance
// change in the system flows through Transfer or Fund.
type Service struct {
	accountRepo     AccountRepo
	transactionRepo TransactionRepo
	txManager       pg.TXManager
}

func New(accountRepo AccountRepo, transactionRepo TransactionRepo, txManager pg.TXManager) *Service {
	return &Service{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
	}
}

// Transfer moves funds between two accounts inside the caller's unit of work.
// It never commits on its own. allowNegativeSource is set only on the
// disbursement path, where the platform account may go below zero.
func (s *Service) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount float64, allowNegativeSource bool) error {
	if amount <= 0 {
		return errs.New(errs.KindValidation, "transfer amount must be positive")
	}

	fromAccount, err := s.accountRepo.GetByID(ctx, fromAccountID)
	if err != nil {
		return err
	}
	if fromAccount == nil {
		return errs.Newf(errs.KindNotFound, "source account %s not found", fromAccountID)
	}

	toAccount, err := s.accountRepo.GetByID(ctx, toAccountID)
	if err != nil {
		return err
	}
	if toAccount == nil {
		return errs.Newf(errs.KindNotFound, "destination account %s not found", toAccountID)
	}

	if !allowNegativeSource && fromAccount.Balance < amount {
		return errs.Newf(errs.KindInsufficientFunds,
			"insufficient balance: available %.2f, required %.2f", fromAccount.Balance, amount)
	}

	if err := s.accountRepo.AddToBalance(ctx, fromAccountID, -amount); err != nil {
		return err
	}
	if err := s.accountRepo.AddToBalance(ctx, toAccountID, amount); err != nil {
		return err
	}

	zap.L().Debug("transfer applied",
		zap.String("from", fromAccountID),
		zap.String("to", toAccountID),
		zap.Float64("amount", amount))
	return nil
}

// TransferToBorrower moves funds platform → borrower. The platform is the
// only account allowed to go negative.
func (s *Service) TransferToBorrower(ctx context.Context, borrowerAccountID string, amount float64) error {
	platform, err := s.platform(ctx)
	if err != nil {
		return err
	}
	return s.Transfer(ctx, platform.ID, borrowerAccountID, amount, true)
}

// TransferFromBorrower moves funds borrower → platform with the balance
// check enforced.
func (s *Service) TransferFromBorrower(ctx context.Context, borrowerAccountID string, amount float64) error {
	platform, err := s.platform(ctx)
	if err != nil {
		return err
	}
	return s.Transfer(ctx, borrowerAccountID, platform.ID, amount, false)
}

// AvailableFunds is the platform's spendable total: the signed sum of all
// ledger transactions.
func (s *Service) AvailableFunds(ctx context.Context) (float64, error) {
	return s.transactionRepo.AvailableFunds(ctx)
}

// Fund credits the platform account and records a FUNDING transaction in one
// atomic unit.
func (s *Service) Fund(ctx context.Context, amount float64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, errs.New(errs.KindValidation, "funding amount must be positive")
	}
	amount = fincalc.Round2(amount)

	var transaction *domain.Transaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		platform, err := s.platform(ctx)
		if err != nil {
			return err
		}
		transaction, err = s.transactionRepo.Create(ctx, domain.TransactionTypeFunding, "", amount)
		if err != nil {
			return err
		}
		return s.accountRepo.AddToBalance(ctx, platform.ID, amount)
	})
	if err != nil {
		zap.L().Error("failed to fund platform account", zap.Error(err))
		return nil, err
	}
	return transaction, nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errs.Newf(errs.KindNotFound, "account %s not found", id)
	}
	return account, nil
}

func (s *Service) GetAccountByOwner(ctx context.Context, ownerRef string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByOwner(ctx, ownerRef)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errs.Newf(errs.KindNotFound, "account not found for owner %s", ownerRef)
	}
	return account, nil
}

func (s *Service) CreateAccount(ctx context.Context, ownerRef string) (*domain.Account, error) {
	return s.accountRepo.Create(ctx, ownerRef)
}

func (s *Service) platform(ctx context.Context) (*domain.Account, error) {
	platform, err := s.accountRepo.GetPlatform(ctx)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, errs.New(errs.KindNotFound, "platform account not found")
	}
	return platform, nil
}
