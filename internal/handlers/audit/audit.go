package audit

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/dto"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/pkg/utils"
)

type Service interface {
	GetTrail(ctx context.Context, transactionID string) ([]domain.AuditEvent, error)
}

type AuditHandler struct {
	auditService Service
}

func New(auditService Service) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// GetTrail godoc
//
//	@Summary		Get the audit trail of a transaction
//	@Tags			Audit
//	@Security		BearerAuth
//	@Produce		json
//	@Param			transactionId	path		string						true	"Transaction or operation reference ID"
//	@Success		200				{array}		dto.AuditEventResponseDTO	"Events, oldest first"
//	@Failure		500				{object}	utils.Response				"Internal server error"
//	@Router			/api/audit/{transactionId} [get]
func (h *AuditHandler) GetTrail(w http.ResponseWriter, r *http.Request) {
	events, err := h.auditService.GetTrail(r.Context(), chi.URLParam(r, "transactionId"))
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}

	response := make([]dto.AuditEventResponseDTO, len(events))
	for i, e := range events {
		response[i] = dto.AuditEventResponseDTO{
			ID:            e.ID,
			TransactionID: e.TransactionID,
			Operation:     e.Operation,
			Level:         e.Level,
			Service:       e.Service,
			Metadata:      e.Metadata,
			CreatedAt:     e.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
