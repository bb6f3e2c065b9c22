package rollbacks

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/dto"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/pkg/auth"
	"github.com/dkovalev/loancore/pkg/utils"
)

type Service interface {
	RollbackDisbursement(ctx context.Context, disbursementID, actor, reason string) error
	RollbackPayment(ctx context.Context, paymentID, actor, reason string) error
	List(ctx context.Context) ([]domain.RollbackRecord, error)
}

type RollbackHandler struct {
	rollbackService Service
}

func New(rollbackService Service) *RollbackHandler {
	return &RollbackHandler{
		rollbackService: rollbackService,
	}
}

// RollbackDisbursement godoc
//
//	@Summary		Reverse a completed disbursement
//	@Description	Move funds back borrower→platform, revert the loan to APPROVED and delete its schedule. Rejected when the loan has completed payments.
//	@Tags			Rollbacks
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Disbursement ID"
//	@Param			request	body		dto.RollbackRequestDTO	true	"Reason"
//	@Success		200		{object}	utils.Response			"Rolled back"
//	@Failure		400		{object}	utils.Response			"Wrong status or dependent payments exist"
//	@Failure		402		{object}	utils.Response			"Borrower balance insufficient for reversal"
//	@Failure		404		{object}	utils.Response			"Disbursement not found"
//	@Failure		409		{object}	utils.Response			"Already rolled back"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/rollbacks/disbursements/{id} [post]
func (h *RollbackHandler) RollbackDisbursement(w http.ResponseWriter, r *http.Request) {
	var req dto.RollbackRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor, _ := r.Context().Value(auth.UserIDKey).(string)
	err := h.rollbackService.RollbackDisbursement(r.Context(), chi.URLParam(r, "id"), actor, req.Reason)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "disbursement rolled back"})
}

// RollbackPayment godoc
//
//	@Summary		Reverse a completed payment
//	@Description	Return the principal portion platform→borrower and reopen the loan. Interest and fees are retained.
//	@Tags			Rollbacks
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Payment ID"
//	@Param			request	body		dto.RollbackRequestDTO	true	"Reason"
//	@Success		200		{object}	utils.Response			"Rolled back"
//	@Failure		400		{object}	utils.Response			"Payment not COMPLETED"
//	@Failure		404		{object}	utils.Response			"Payment not found"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/rollbacks/payments/{id} [post]
func (h *RollbackHandler) RollbackPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RollbackRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor, _ := r.Context().Value(auth.UserIDKey).(string)
	err := h.rollbackService.RollbackPayment(r.Context(), chi.URLParam(r, "id"), actor, req.Reason)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "payment rolled back"})
}

// ListRollbacks godoc
//
//	@Summary		List rollback records
//	@Tags			Rollbacks
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.RollbackRecordResponseDTO	"Records, newest first"
//	@Failure		500	{object}	utils.Response					"Internal server error"
//	@Router			/api/rollbacks [get]
func (h *RollbackHandler) ListRollbacks(w http.ResponseWriter, r *http.Request) {
	records, err := h.rollbackService.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}

	response := make([]dto.RollbackRecordResponseDTO, len(records))
	for i, rec := range records {
		response[i] = dto.RollbackRecordResponseDTO{
			ID:                  rec.ID,
			TransactionID:       rec.TransactionID,
			OriginalOperation:   rec.OriginalOperation,
			RollbackReason:      rec.RollbackReason,
			CompensatingActions: rec.CompensatingActions,
			RolledBackBy:        rec.RolledBackBy,
			ErrorDetails:        rec.ErrorDetails,
			CreatedAt:           rec.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
