package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cleansched/internal/logger"
	"cleansched/internal/models"
	ordersdb "cleansched/internal/orders/db"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an order id does not exist for the caller's
// account. Handlers map it to 404.
var ErrNotFound = errors.New("order not found")

// ErrUnknownStaff is returned when a requested assignment names a staff id the
// caller's account does not own. Handlers map it to 400.
var ErrUnknownStaff = errors.New("one or more staff ids do not exist")

type DBLayer interface {
	ListOrders(ctx context.Context, accountID, sortBy, search string) ([]models.OrderWithStaff, error)
	GetOrderWithStaff(ctx context.Context, accountID, id string) (*models.OrderWithStaff, error)
	CreateOrder(ctx context.Context, order models.Order, staffIDs []string) (*models.OrderWithStaff, error)
	UpdateOrder(ctx context.Context, order models.Order, staffIDs []string) (*models.OrderWithStaff, error)
	DeleteOrder(ctx context.Context, accountID, id string) error
}

type EventPublisher interface {
	PublishOrderCreated(order models.Order) error
	PublishOrderUpdated(order models.Order) error
	PublishOrderDeleted(orderID string) error
}

type OrderService struct {
	DB     DBLayer
	Events EventPublisher
	Logger *logger.Logger
}

func NewOrderService(db DBLayer, events EventPublisher, log *logger.Logger) *OrderService {
	return &OrderService{DB: db, Events: events, Logger: log}
}

func (s *OrderService) ListOrders(ctx context.Context, accountID, sortBy, search string) ([]models.OrderWithStaff, error) {
	return s.DB.ListOrders(ctx, accountID, sortBy, search)
}

func (s *OrderService) GetOrder(ctx context.Context, accountID, id string) (*models.OrderWithStaff, error) {
	order, err := s.DB.GetOrderWithStaff(ctx, accountID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return order, err
}

func (s *OrderService) CreateOrder(ctx context.Context, accountID string, req models.OrderRequest) (*models.OrderWithStaff, error) {
	order := models.Order{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		Name:          req.Name,
		CleaningDate:  req.CleaningDate,
		StartTime:     req.StartTime,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Notes:         req.Notes,
		Price:         req.Price,
		CreatedAt:     time.Now(),
	}

	created, err := s.DB.CreateOrder(ctx, order, req.StaffIDs)
	if errors.Is(err, ordersdb.ErrUnknownStaff) {
		return nil, ErrUnknownStaff
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.Events.PublishOrderCreated(created.Order); err != nil {
		s.Logger.Warn("EVENTS", fmt.Sprintf("publish order created: %v", err))
	}
	return created, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, accountID, id string, req models.OrderRequest) (*models.OrderWithStaff, error) {
	order := models.Order{
		ID:            id,
		AccountID:     accountID,
		Name:          req.Name,
		CleaningDate:  req.CleaningDate,
		StartTime:     req.StartTime,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Notes:         req.Notes,
		Price:         req.Price,
	}

	updated, err := s.DB.UpdateOrder(ctx, order, req.StaffIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if errors.Is(err, ordersdb.ErrUnknownStaff) {
		return nil, ErrUnknownStaff
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	if err := s.Events.PublishOrderUpdated(updated.Order); err != nil {
		s.Logger.Warn("EVENTS", fmt.Sprintf("publish order updated: %v", err))
	}
	return updated, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, accountID, id string) error {
	err := s.DB.DeleteOrder(ctx, accountID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}

	if err := s.Events.PublishOrderDeleted(id); err != nil {
		s.Logger.Warn("EVENTS", fmt.Sprintf("publish order deleted: %v", err))
	}
	return nil
}
