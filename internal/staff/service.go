package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cleansched/internal/logger"
	"cleansched/internal/models"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("staff member not found")

type DBLayer interface {
	ListStaff(ctx context.Context, accountID, search string) ([]models.StaffWithOrders, error)
	GetStaffWithOrders(ctx context.Context, accountID, id string) (*models.StaffWithOrders, error)
	CreateStaff(ctx context.Context, member models.Staff) error
	DeleteStaff(ctx context.Context, accountID, id string) error
}

type EventPublisher interface {
	PublishStaffCreated(member models.Staff) error
	PublishStaffDeleted(staffID string) error
}

type StaffService struct {
	DB     DBLayer
	Events EventPublisher
	Logger *logger.Logger
}

func NewStaffService(db DBLayer, events EventPublisher, log *logger.Logger) *StaffService {
	return &StaffService{DB: db, Events: events, Logger: log}
}

func (s *StaffService) ListStaff(ctx context.Context, accountID, search string) ([]models.StaffWithOrders, error) {
	return s.DB.ListStaff(ctx, accountID, search)
}

func (s *StaffService) GetStaff(ctx context.Context, accountID, id string) (*models.StaffWithOrders, error) {
	member, err := s.DB.GetStaffWithOrders(ctx, accountID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return member, err
}

func (s *StaffService) CreateStaff(ctx context.Context, accountID string, req models.StaffRequest) (*models.StaffWithOrders, error) {
	member := models.Staff{
		ID:        uuid.NewString(),
		AccountID: accountID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: time.Now(),
	}

	if err := s.DB.CreateStaff(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}

	if err := s.Events.PublishStaffCreated(member); err != nil {
		s.Logger.Warn("EVENTS", fmt.Sprintf("publish staff created: %v", err))
	}
	return &models.StaffWithOrders{Staff: member, Orders: []models.Order{}}, nil
}

func (s *StaffService) DeleteStaff(ctx context.Context, accountID, id string) error {
	err := s.DB.DeleteStaff(ctx, accountID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete staff member %s: %w", id, err)
	}

	if err := s.Events.PublishStaffDeleted(id); err != nil {
		s.Logger.Warn("EVENTS", fmt.Sprintf("publish staff deleted: %v", err))
	}
	return nil
}
