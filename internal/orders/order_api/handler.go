package order_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cleansched/internal/auth"
	"cleansched/internal/logger"
	"cleansched/internal/models"
	"cleansched/internal/orders"
	"cleansched/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	OrderService *orders.OrderService
	Logger       *logger.Logger
}

func NewHandler(orderService *orders.OrderService, log *logger.Logger) *Handler {
	return &Handler{OrderService: orderService, Logger: log}
}

// RegisterRoutes mounts the order endpoints on an authenticated router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Get("/{orderID}", h.GetOrder)
		r.Put("/{orderID}", h.UpdateOrder)
		r.Delete("/{orderID}", h.DeleteOrder)
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	accountID := auth.AccountID(r.Context())
	sortBy := r.URL.Query().Get("sortBy")
	search := r.URL.Query().Get("search")

	list, err := h.OrderService.ListOrders(r.Context(), accountID, sortBy, search)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if uuid.Validate(orderID) != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.OrderService.GetOrder(r.Context(), auth.AccountID(r.Context()), orderID)
	if errors.Is(err, orders.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.OrderService.CreateOrder(r.Context(), auth.AccountID(r.Context()), req)
	if errors.Is(err, orders.ErrUnknownStaff) {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateOrder: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to create order")
		return
	}
	h.Logger.LogDatabase("INSERT", "orders", created.ID)
	utils.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if uuid.Validate(orderID) != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.OrderService.UpdateOrder(r.Context(), auth.AccountID(r.Context()), orderID, req)
	if errors.Is(err, orders.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "order not found")
		return
	}
	if errors.Is(err, orders.ErrUnknownStaff) {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateOrder: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to update order")
		return
	}
	utils.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if uuid.Validate(orderID) != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	err := h.OrderService.DeleteOrder(r.Context(), auth.AccountID(r.Context()), orderID)
	if errors.Is(err, orders.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeleteOrder: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
