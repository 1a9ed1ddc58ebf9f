package account_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cleansched/internal/accounts"
	"cleansched/internal/auth"
	"cleansched/internal/logger"
	"cleansched/internal/models"
	"cleansched/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Accounts *accounts.AccountService
	Logger   *logger.Logger
}

func NewHandler(service *accounts.AccountService, log *logger.Logger) *Handler {
	return &Handler{Accounts: service, Logger: log}
}

// RegisterPublicRoutes mounts the unauthenticated session endpoints.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
}

// RegisterRoutes mounts the endpoints that need an authenticated caller.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Delete("/account", h.DeleteAccount)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.Accounts.Register(r.Context(), req)
	if errors.Is(err, accounts.ErrEmailTaken) {
		utils.WriteError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Register: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to register")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, session)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.Accounts.Login(r.Context(), req)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		utils.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Login: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	utils.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := auth.AccountID(r.Context())
	if err := h.Accounts.DeleteAccount(r.Context(), accountID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteAccount: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
