package stats_api

import (
	"fmt"
	"net/http"

	"cleansched/internal/auth"
	"cleansched/internal/logger"
	"cleansched/internal/stats"
	"cleansched/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Stats  *stats.Service
	Logger *logger.Logger
}

func NewHandler(service *stats.Service, log *logger.Logger) *Handler {
	return &Handler{Stats: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/statistics", h.GetStatistics)
}

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.Stats.Statistics(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetStatistics: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
