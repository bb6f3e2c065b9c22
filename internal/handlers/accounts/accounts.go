package accounts

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
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetAccountByOwner(ctx context.Context, ownerRef string) (*domain.Account, error)
	AvailableFunds(ctx context.Context) (float64, error)
	Fund(ctx context.Context, amount float64) (*domain.Transaction, error)
}

type AccountHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *AccountHandler {
	return &AccountHandler{
		ledgerService: ledgerService,
	}
}

// GetMyAccount godoc
//
//	@Summary		Get the caller's ledger account
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.AccountResponseDTO	"Account"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		404	{object}	utils.Response			"No account for the caller"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/accounts/me [get]
func (h *AccountHandler) GetMyAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.UserIDKey).(string)

	account, err := h.ledgerService.GetAccountByOwner(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toAccountDTO(account))
}

// GetAccount godoc
//
//	@Summary		Get an account by ID
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string					true	"Account ID"
//	@Success		200	{object}	dto.AccountResponseDTO	"Account"
//	@Failure		404	{object}	utils.Response			"Account not found"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/accounts/{id} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.ledgerService.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toAccountDTO(account))
}

// GetAvailableFunds godoc
//
//	@Summary		Get available platform funds
//	@Description	Signed sum over the transaction ledger: funding and repayments in, disbursements out.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.AvailableFundsResponseDTO	"Available funds"
//	@Failure		500	{object}	utils.Response					"Internal server error"
//	@Router			/api/platform/funds [get]
func (h *AccountHandler) GetAvailableFunds(w http.ResponseWriter, r *http.Request) {
	available, err := h.ledgerService.AvailableFunds(r.Context())
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.AvailableFundsResponseDTO{Available: available})
}

// Fund godoc
//
//	@Summary		Add capital to the platform
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.FundRequestDTO	true	"Amount"
//	@Success		201		{object}	utils.Response		"Funded"
//	@Failure		400		{object}	utils.Response		"Non-positive amount"
//	@Failure		403		{object}	utils.Response		"Admin role required"
//	@Failure		500		{object}	utils.Response		"Internal server error"
//	@Router			/api/platform/fund [post]
func (h *AccountHandler) Fund(w http.ResponseWriter, r *http.Request) {
	var req dto.FundRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.ledgerService.Fund(r.Context(), req.Amount); err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.Response{Message: "platform funded"})
}

func toAccountDTO(account *domain.Account) dto.AccountResponseDTO {
	return dto.AccountResponseDTO{
		ID:      account.ID,
		Type:    account.Type,
		Balance: account.Balance,
	}
}
