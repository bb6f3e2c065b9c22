package disbursements

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/dto"
	"github.com/dkovalev/loancore/internal/errs"
	disbursementservice "github.com/dkovalev/loancore/internal/service/disbursementservice"
	"github.com/dkovalev/loancore/pkg/utils"
)

const dateLayout = "2006-01-02"

type Service interface {
	Disburse(ctx context.Context, loanID string, amount float64, date time.Time) (*disbursementservice.Result, error)
	Get(ctx context.Context, id string) (*domain.Disbursement, error)
	GetByLoan(ctx context.Context, loanID string) (*domain.Disbursement, error)
}

type DisbursementHandler struct {
	disbursementService Service
}

func New(disbursementService Service) *DisbursementHandler {
	return &DisbursementHandler{
		disbursementService: disbursementService,
	}
}

// Disburse godoc
//
//	@Summary		Disburse an approved loan
//	@Description	Transfer the principal platform→borrower, activate the loan and generate its repayment schedule. One disbursement per loan.
//	@Tags			Disbursements
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			loanId	path		string					true	"Loan ID"
//	@Param			request	body		dto.DisburseRequestDTO	true	"Amount and value date"
//	@Success		201		{object}	dto.DisburseResponseDTO	"Disbursement result"
//	@Failure		400		{object}	utils.Response			"Validation failure"
//	@Failure		402		{object}	utils.Response			"Insufficient platform funds"
//	@Failure		404		{object}	utils.Response			"Loan not found"
//	@Failure		409		{object}	utils.Response			"Loan already disbursed"
//	@Failure		500		{object}	utils.Response			"Failed after commit and was rolled back"
//	@Router			/api/loans/{loanId}/disburse [post]
func (h *DisbursementHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	var req dto.DisburseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse(dateLayout, req.DisbursementDate)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "disbursementDate must be YYYY-MM-DD")
		return
	}

	result, err := h.disbursementService.Disburse(r.Context(), chi.URLParam(r, "loanId"), req.Amount, date)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dto.DisburseResponseDTO{
		Disbursement: toDisbursementDTO(result.Disbursement),
		Loan: dto.LoanResponseDTO{
			ID:                   result.Loan.ID,
			AccountID:            result.Loan.AccountID,
			Principal:            result.Loan.Principal,
			AnnualRatePercent:    result.Loan.AnnualRatePercent,
			TenorMonths:          result.Loan.TenorMonths,
			Status:               result.Loan.Status,
			OutstandingPrincipal: result.Loan.OutstandingPrincipal,
			CreatedAt:            result.Loan.CreatedAt,
		},
		ScheduleCount: result.ScheduleCount,
	})
}

// GetByLoan godoc
//
//	@Summary		Get the disbursement of a loan
//	@Tags			Disbursements
//	@Security		BearerAuth
//	@Produce		json
//	@Param			loanId	path		string						true	"Loan ID"
//	@Success		200		{object}	dto.DisbursementResponseDTO	"Disbursement"
//	@Failure		404		{object}	utils.Response				"No disbursement for the loan"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/loans/{loanId}/disbursement [get]
func (h *DisbursementHandler) GetByLoan(w http.ResponseWriter, r *http.Request) {
	disbursement, err := h.disbursementService.GetByLoan(r.Context(), chi.URLParam(r, "loanId"))
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toDisbursementDTO(disbursement))
}

func toDisbursementDTO(d *domain.Disbursement) dto.DisbursementResponseDTO {
	return dto.DisbursementResponseDTO{
		ID:               d.ID,
		LoanID:           d.LoanID,
		Amount:           d.Amount,
		DisbursementDate: d.DisbursementDate,
		Status:           d.Status,
		RolledBackAt:     d.RolledBackAt,
	}
}
