package repo

import (
	"github.com/dkovalev/loancore/internal/pg"
	accountrepo "github.com/dkovalev/loancore/internal/repo/account-repo"
	auditrepo "github.com/dkovalev/loancore/internal/repo/audit-repo"
	disbursementrepo "github.com/dkovalev/loancore/internal/repo/disbursement-repo"
	loanrepo "github.com/dkovalev/loancore/internal/repo/loan-repo"
	paymentrepo "github.com/dkovalev/loancore/internal/repo/payment-repo"
	rollbackrepo "github.com/dkovalev/loancore/internal/repo/rollback-repo"
	schedulerepo "github.com/dkovalev/loancore/internal/repo/schedule-repo"
	transactionrepo "github.com/dkovalev/loancore/internal/repo/transaction-repo"
	userrepo "github.com/dkovalev/loancore/internal/repo/user-repo"
)

// Repositories bundles the per-entity stores. Each service narrows these
// down to its own consumer interface.
type Repositories struct {
	UserRepo         *userrepo.Repository
	AccountRepo      *accountrepo.Repository
	LoanRepo         *loanrepo.Repository
	DisbursementRepo *disbursementrepo.Repository
	ScheduleRepo     *schedulerepo.Repository
	PaymentRepo      *paymentrepo.Repository
	TransactionRepo  *transactionrepo.Repository
	RollbackRepo     *rollbackrepo.Repository
	AuditRepo        *auditrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:         userrepo.New(conn),
		AccountRepo:      accountrepo.New(conn),
		LoanRepo:         loanrepo.New(conn),
		DisbursementRepo: disbursementrepo.New(conn),
		ScheduleRepo:     schedulerepo.New(conn),
		PaymentRepo:      paymentrepo.New(conn),
		TransactionRepo:  transactionrepo.New(conn),
		RollbackRepo:     rollbackrepo.New(conn),
		AuditRepo:        auditrepo.New(conn),
	}
}
