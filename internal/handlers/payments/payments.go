package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/dto"
	"github.com/dkovalev/loancore/internal/errs"
	paymentservice "github.com/dkovalev/loancore/internal/service/paymentservice"
	"github.com/dkovalev/loancore/pkg/utils"
)

const dateLayout = "2006-01-02"

type Service interface {
	Process(ctx context.Context, loanID string, amount float64, paymentDate time.Time) (*paymentservice.Result, error)
	Get(ctx context.Context, id string) (*domain.Payment, error)
	ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error)
}

type PaymentHandler struct {
	paymentService Service
}

func New(paymentService Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// ProcessPayment godoc
//
//	@Summary		Settle a repayment
//	@Description	Allocate a payment across due installments (interest first, late fee second, principal last) and move funds borrower→platform. A zero amount pays everything due.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			loanId	path		string							true	"Loan ID"
//	@Param			request	body		dto.PaymentRequestDTO			true	"Payment amount and date"
//	@Success		201		{object}	dto.ProcessPaymentResponseDTO	"Allocation result"
//	@Failure		400		{object}	utils.Response					"Loan not active, nothing due, or date before last event"
//	@Failure		402		{object}	utils.Response					"Insufficient borrower funds"
//	@Failure		404		{object}	utils.Response					"Loan not found"
//	@Failure		500		{object}	utils.Response					"Internal server error"
//	@Router			/api/loans/{loanId}/payments [post]
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "paymentDate must be YYYY-MM-DD")
		return
	}

	result, err := h.paymentService.Process(r.Context(), chi.URLParam(r, "loanId"), req.Amount, date)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}

	payments := make([]dto.PaymentResponseDTO, len(result.Payments))
	for i := range result.Payments {
		payments[i] = toPaymentDTO(&result.Payments[i])
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.ProcessPaymentResponseDTO{
		Payments:                payments,
		TotalAmountCharged:      result.TotalAmountCharged,
		TotalPrincipalPaid:      result.TotalPrincipalPaid,
		NewOutstandingPrincipal: result.NewOutstandingPrincipal,
		SchedulesCovered:        result.SchedulesCovered,
		LoanClosed:              result.LoanClosed,
	})
}

// ListPayments godoc
//
//	@Summary		List payments of a loan
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			loanId	path		string					true	"Loan ID"
//	@Success		200		{array}		dto.PaymentResponseDTO	"Payments in date order"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/loans/{loanId}/payments [get]
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	list, err := h.paymentService.ListByLoan(r.Context(), chi.URLParam(r, "loanId"))
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}

	response := make([]dto.PaymentResponseDTO, len(list))
	for i := range list {
		response[i] = toPaymentDTO(&list[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toPaymentDTO(p *domain.Payment) dto.PaymentResponseDTO {
	return dto.PaymentResponseDTO{
		ID:                  p.ID,
		LoanID:              p.LoanID,
		RepaymentScheduleID: p.RepaymentScheduleID,
		TransactionID:       p.TransactionID,
		Amount:              p.Amount,
		PaymentDate:         p.PaymentDate,
		PrincipalPaid:       p.PrincipalPaid,
		InterestPaid:        p.InterestPaid,
		LateFeePaid:         p.LateFeePaid,
		DaysLate:            p.DaysLate,
		Status:              p.Status,
	}
}
