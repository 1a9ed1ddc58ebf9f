package staff_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cleansched/internal/auth"
	"cleansched/internal/logger"
	"cleansched/internal/models"
	"cleansched/internal/staff"
	"cleansched/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	StaffService *staff.StaffService
	Logger       *logger.Logger
}

func NewHandler(staffService *staff.StaffService, log *logger.Logger) *Handler {
	return &Handler{StaffService: staffService, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/staff", func(r chi.Router) {
		r.Get("/", h.ListStaff)
		r.Post("/", h.CreateStaff)
		r.Get("/{staffID}", h.GetStaff)
		r.Delete("/{staffID}", h.DeleteStaff)
	})
}

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	accountID := auth.AccountID(r.Context())
	search := r.URL.Query().Get("search")

	list, err := h.StaffService.ListStaff(r.Context(), accountID, search)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListStaff: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to list staff")
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffID")
	if uuid.Validate(staffID) != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid staff id")
		return
	}

	member, err := h.StaffService.GetStaff(r.Context(), auth.AccountID(r.Context()), staffID)
	if errors.Is(err, staff.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "staff member not found")
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetStaff: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load staff member")
		return
	}
	utils.WriteJSON(w, http.StatusOK, member)
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req models.StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.StaffService.CreateStaff(r.Context(), auth.AccountID(r.Context()), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateStaff: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to create staff member")
		return
	}
	h.Logger.LogDatabase("INSERT", "staff", created.ID)
	utils.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffID")
	if uuid.Validate(staffID) != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid staff id")
		return
	}

	err := h.StaffService.DeleteStaff(r.Context(), auth.AccountID(r.Context()), staffID)
	if errors.Is(err, staff.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "staff member not found")
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteStaff: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to delete staff member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
