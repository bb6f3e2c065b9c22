package loans

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/dto"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, accountID string, principal, annualRatePercent float64, tenorMonths int) (*domain.Loan, error)
	Approve(ctx context.Context, id string) (*domain.Loan, error)
	Get(ctx context.Context, id string) (*domain.Loan, error)
	List(ctx context.Context) ([]domain.Loan, error)
	Schedules(ctx context.Context, loanID string) ([]domain.RepaymentSchedule, error)
}

type LoanHandler struct {
	loanService Service
}

func New(loanService Service) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// CreateLoan godoc
//
//	@Summary		Create a loan application
//	@Description	Register a loan in PENDING state against a borrower account.
//	@Tags			Loans
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateLoanRequestDTO	true	"Loan parameters"
//	@Success		201		{object}	dto.LoanResponseDTO			"Created loan"
//	@Failure		400		{object}	utils.Response				"Invalid parameters"
//	@Failure		404		{object}	utils.Response				"Account not found"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/loans [post]
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loan, err := h.loanService.Create(r.Context(), req.AccountID, req.Principal, req.AnnualRatePercent, req.TenorMonths)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toLoanDTO(loan))
}

// ApproveLoan godoc
//
//	@Summary		Approve a loan
//	@Description	Move a PENDING loan to APPROVED so it can be disbursed.
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string				true	"Loan ID"
//	@Success		200	{object}	dto.LoanResponseDTO	"Approved loan"
//	@Failure		404	{object}	utils.Response		"Loan not found"
//	@Failure		409	{object}	utils.Response		"Loan not PENDING"
//	@Failure		500	{object}	utils.Response		"Internal server error"
//	@Router			/api/loans/{id}/approve [post]
func (h *LoanHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loanService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toLoanDTO(loan))
}

// GetLoan godoc
//
//	@Summary		Get a loan
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string				true	"Loan ID"
//	@Success		200	{object}	dto.LoanResponseDTO	"Loan"
//	@Failure		404	{object}	utils.Response		"Loan not found"
//	@Failure		500	{object}	utils.Response		"Internal server error"
//	@Router			/api/loans/{id} [get]
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loanService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toLoanDTO(loan))
}

// ListLoans godoc
//
//	@Summary		List loans
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.LoanResponseDTO	"Loans"
//	@Failure		500	{object}	utils.Response		"Internal server error"
//	@Router			/api/loans [get]
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanService.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}

	response := make([]dto.LoanResponseDTO, len(loans))
	for i := range loans {
		response[i] = toLoanDTO(&loans[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetSchedules godoc
//
//	@Summary		Get the repayment schedule
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string					true	"Loan ID"
//	@Success		200	{array}		dto.ScheduleResponseDTO	"Installments in order"
//	@Failure		404	{object}	utils.Response			"Loan not found"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/loans/{id}/schedules [get]
func (h *LoanHandler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.loanService.Schedules(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}

	response := make([]dto.ScheduleResponseDTO, len(schedules))
	for i, s := range schedules {
		response[i] = dto.ScheduleResponseDTO{
			ID:                s.ID,
			InstallmentNumber: s.InstallmentNumber,
			DueDate:           s.DueDate,
			PrincipalAmount:   s.PrincipalAmount,
			InterestAmount:    s.InterestAmount,
			Status:            s.Status,
			PaidDate:          s.PaidDate,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toLoanDTO(loan *domain.Loan) dto.LoanResponseDTO {
	return dto.LoanResponseDTO{
		ID:                   loan.ID,
		AccountID:            loan.AccountID,
		Principal:            loan.Principal,
		AnnualRatePercent:    loan.AnnualRatePercent,
		TenorMonths:          loan.TenorMonths,
		Status:               loan.Status,
		OutstandingPrincipal: loan.OutstandingPrincipal,
		CreatedAt:            loan.CreatedAt,
	}
}
