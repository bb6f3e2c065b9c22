package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkovalev/loancore/internal/dto"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/pkg/utils"
)

type Service interface {
	Register(ctx context.Context, login, password string) (string, error)
	Login(ctx context.Context, login, password string) (string, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
//
//	@Summary		Register a borrower
//	@Description	Create a borrower user together with their ledger account and return a bearer token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Registration payload"
//	@Success		200		{object}	dto.TokenResponseDTO	"Token for the new user"
//	@Failure		400		{object}	utils.Response			"Missing login or password"
//	@Failure		409		{object}	utils.Response			"Login already taken"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TokenResponseDTO{Token: token})
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Check credentials and return a bearer token carrying the user's role.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO		true	"Login payload"
//	@Success		200		{object}	dto.TokenResponseDTO	"Token"
//	@Failure		400		{object}	utils.Response			"Missing login or password"
//	@Failure		401		{object}	utils.Response			"Invalid credentials"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		utils.RespondWithError(w, errs.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TokenResponseDTO{Token: token})
}
