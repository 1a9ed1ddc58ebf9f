package calendar_api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cleansched/internal/auth"
	"cleansched/internal/calendar"
	"cleansched/internal/logger"
	"cleansched/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Calendar *calendar.Service
	Logger   *logger.Logger
}

func NewHandler(service *calendar.Service, log *logger.Logger) *Handler {
	return &Handler{Calendar: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calendar", func(r chi.Router) {
		r.Get("/{year}/{month}", h.OrdersByMonth)
		r.Get("/{year}/{month}/{day}", h.OrdersByDay)
	})
}

func (h *Handler) OrdersByMonth(w http.ResponseWriter, r *http.Request) {
	year, err1 := strconv.Atoi(chi.URLParam(r, "year"))
	month, err2 := strconv.Atoi(chi.URLParam(r, "month"))
	if err1 != nil || err2 != nil {
		utils.WriteError(w, http.StatusBadRequest, "year and month must be numbers")
		return
	}

	list, err := h.Calendar.OrdersByMonth(r.Context(), auth.AccountID(r.Context()), year, month)
	if err != nil {
		h.writeQueryError(w, "OrdersByMonth", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) OrdersByDay(w http.ResponseWriter, r *http.Request) {
	year, err1 := strconv.Atoi(chi.URLParam(r, "year"))
	month, err2 := strconv.Atoi(chi.URLParam(r, "month"))
	day, err3 := strconv.Atoi(chi.URLParam(r, "day"))
	if err1 != nil || err2 != nil || err3 != nil {
		utils.WriteError(w, http.StatusBadRequest, "year, month and day must be numbers")
		return
	}

	list, err := h.Calendar.OrdersByDay(r.Context(), auth.AccountID(r.Context()), year, month, day)
	if err != nil {
		h.writeQueryError(w, "OrdersByDay", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) writeQueryError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, utils.ErrInvalidDate) {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
	utils.WriteError(w, http.StatusInternalServerError, "failed to load calendar")
}
