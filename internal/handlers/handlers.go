package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/dkovalev/loancore/docs"
	"github.com/dkovalev/loancore/internal/domain"
	accounthandlers "github.com/dkovalev/loancore/internal/handlers/accounts"
	audithandlers "github.com/dkovalev/loancore/internal/handlers/audit"
	authhandlers "github.com/dkovalev/loancore/internal/handlers/auth"
	disbursementhandlers "github.com/dkovalev/loancore/internal/handlers/disbursements"
	loanhandlers "github.com/dkovalev/loancore/internal/handlers/loans"
	paymenthandlers "github.com/dkovalev/loancore/internal/handlers/payments"
	rollbackhandlers "github.com/dkovalev/loancore/internal/handlers/rollbacks"
	"github.com/dkovalev/loancore/internal/service"
	"github.com/dkovalev/loancore/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type LoanHandler interface {
	CreateLoan(w http.ResponseWriter, r *http.Request)
	ApproveLoan(w http.ResponseWriter, r *http.Request)
	GetLoan(w http.ResponseWriter, r *http.Request)
	ListLoans(w http.ResponseWriter, r *http.Request)
	GetSchedules(w http.ResponseWriter, r *http.Request)
}

type DisbursementHandler interface {
	Disburse(w http.ResponseWriter, r *http.Request)
	GetByLoan(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler interface {
	ProcessPayment(w http.ResponseWriter, r *http.Request)
	ListPayments(w http.ResponseWriter, r *http.Request)
}

type RollbackHandler interface {
	RollbackDisbursement(w http.ResponseWriter, r *http.Request)
	RollbackPayment(w http.ResponseWriter, r *http.Request)
	ListRollbacks(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	GetMyAccount(w http.ResponseWriter, r *http.Request)
	GetAccount(w http.ResponseWriter, r *http.Request)
	GetAvailableFunds(w http.ResponseWriter, r *http.Request)
	Fund(w http.ResponseWriter, r *http.Request)
}

type AuditHandler interface {
	GetTrail(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler         AuthHandler
	LoanHandler         LoanHandler
	DisbursementHandler DisbursementHandler
	PaymentHandler      PaymentHandler
	RollbackHandler     RollbackHandler
	AccountHandler      AccountHandler
	AuditHandler        AuditHandler

	jwtService auth.JWTServiceInterface
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:         authhandlers.New(s.AuthService),
		LoanHandler:         loanhandlers.New(s.LoanService),
		DisbursementHandler: disbursementhandlers.New(s.DisbursementService),
		PaymentHandler:      paymenthandlers.New(s.PaymentService),
		RollbackHandler:     rollbackhandlers.New(s.RollbackService),
		AccountHandler:      accounthandlers.New(s.LedgerService),
		AuditHandler:        audithandlers.New(s.AuditService),
		jwtService:          s.JWTService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.AuthHandler.Register)
		r.Post("/auth/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.jwtService))

			r.Route("/loans", func(r chi.Router) {
				r.Post("/", h.LoanHandler.CreateLoan)
				r.Get("/", h.LoanHandler.ListLoans)
				r.Get("/{id}", h.LoanHandler.GetLoan)
				r.Get("/{id}/schedules", h.LoanHandler.GetSchedules)
				r.Get("/{loanId}/disbursement", h.DisbursementHandler.GetByLoan)
				r.Post("/{loanId}/payments", h.PaymentHandler.ProcessPayment)
				r.Get("/{loanId}/payments", h.PaymentHandler.ListPayments)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(domain.RoleAdmin))
					r.Post("/{id}/approve", h.LoanHandler.ApproveLoan)
					r.Post("/{loanId}/disburse", h.DisbursementHandler.Disburse)
				})
			})

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/me", h.AccountHandler.GetMyAccount)
				r.Get("/{id}", h.AccountHandler.GetAccount)
			})

			r.Get("/audit/{transactionId}", h.AuditHandler.GetTrail)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleAdmin))
				r.Get("/platform/funds", h.AccountHandler.GetAvailableFunds)
				r.Post("/platform/fund", h.AccountHandler.Fund)
				r.Route("/rollbacks", func(r chi.Router) {
					r.Get("/", h.RollbackHandler.ListRollbacks)
					r.Post("/disbursements/{id}", h.RollbackHandler.RollbackDisbursement)
					r.Post("/payments/{id}", h.RollbackHandler.RollbackPayment)
				})
			})
		})
	})

	return r
}
