package service

import (
	"context"

	"github.com/dkovalev/loancore/internal/config"
	"github.com/dkovalev/loancore/internal/handlers/accounts"
	"github.com/dkovalev/loancore/internal/handlers/audit"
	authhandlers "github.com/dkovalev/loancore/internal/handlers/auth"
	"github.com/dkovalev/loancore/internal/handlers/disbursements"
	"github.com/dkovalev/loancore/internal/handlers/loans"
	"github.com/dkovalev/loancore/internal/handlers/payments"
	"github.com/dkovalev/loancore/internal/handlers/rollbacks"
	"github.com/dkovalev/loancore/internal/pg"
	"github.com/dkovalev/loancore/internal/repo"
	"github.com/dkovalev/loancore/internal/service/auditservice"
	"github.com/dkovalev/loancore/internal/service/authservice"
	"github.com/dkovalev/loancore/internal/service/disbursementservice"
	"github.com/dkovalev/loancore/internal/service/ledgerservice"
	"github.com/dkovalev/loancore/internal/service/loanservice"
	"github.com/dkovalev/loancore/internal/service/paymentservice"
	"github.com/dkovalev/loancore/internal/service/rollbackservice"
	pkgauth "github.com/dkovalev/loancore/pkg/auth"
	"github.com/dkovalev/loancore/pkg/clients"
)

type Services struct {
	AuthService         authhandlers.Service
	LoanService         loans.Service
	DisbursementService disbursements.Service
	PaymentService      payments.Service
	RollbackService     rollbacks.Service
	LedgerService       accounts.Service
	AuditService        audit.Service

	JWTService pkgauth.JWTServiceInterface

	// AuditSink is the concrete audit service; the application hands it to
	// background jobs and closes its worker pool on shutdown.
	AuditSink *auditservice.Service

	auth *authservice.Service
}

func New(repos *repo.Repositories, txManager pg.TXManager, cfg *config.Config) *Services {
	jwtService := pkgauth.NewJWTService(cfg.JWTSecret)

	auditService := auditservice.New(repos.AuditRepo, cfg.AuditWebhook, clients.NewHTTPClient())
	ledgerService := ledgerservice.New(repos.AccountRepo, repos.TransactionRepo, txManager)
	rollbackService := rollbackservice.New(
		repos.DisbursementRepo, repos.PaymentRepo, repos.LoanRepo, repos.ScheduleRepo,
		repos.TransactionRepo, repos.RollbackRepo, ledgerService, auditService, txManager)
	disbursementService := disbursementservice.New(
		repos.LoanRepo, repos.DisbursementRepo, repos.ScheduleRepo, repos.TransactionRepo,
		ledgerService, rollbackService, auditService, txManager)
	paymentService := paymentservice.New(
		repos.LoanRepo, repos.DisbursementRepo, repos.ScheduleRepo, repos.PaymentRepo,
		repos.TransactionRepo, ledgerService, auditService, txManager)
	loanService := loanservice.New(repos.LoanRepo, repos.AccountRepo, repos.ScheduleRepo)
	authService := authservice.New(repos.UserRepo, ledgerService, jwtService, &pkgauth.HashService{}, txManager)

	return &Services{
		AuthService:         authService,
		LoanService:         loanService,
		DisbursementService: disbursementService,
		PaymentService:      paymentService,
		RollbackService:     rollbackService,
		LedgerService:       ledgerService,
		AuditService:        auditService,
		JWTService:          jwtService,
		AuditSink:           auditService,
		auth:                authService,
	}
}

// Bootstrap seeds the state a fresh deployment needs before serving traffic,
// currently the administrative user.
func (s *Services) Bootstrap(ctx context.Context, cfg *config.Config) error {
	return s.auth.EnsureAdmin(ctx, cfg.AdminLogin, cfg.AdminPassword)
}

// Close drains the audit webhook worker pool.
func (s *Services) Close() {
	s.AuditSink.Close()
}
