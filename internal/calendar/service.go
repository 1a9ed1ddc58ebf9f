package calendar

import (
	"context"

	"cleansched/internal/models"
	"cleansched/internal/utils"
)

type DBLayer interface {
	OrdersByRange(ctx context.Context, accountID, from, to string) ([]models.OrderWithStaff, error)
	OrdersByDate(ctx context.Context, accountID, date string) ([]models.OrderWithStaff, error)
}

// Service answers the calendar views over the order storage layer.
type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

// OrdersByMonth returns the account's orders inside one calendar month,
// ordered by date then start time.
func (s *Service) OrdersByMonth(ctx context.Context, accountID string, year, month int) ([]models.OrderWithStaff, error) {
	from, to, err := utils.MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	return s.DB.OrdersByRange(ctx, accountID, from, to)
}

// OrdersByDay returns the account's orders on one exact date, ordered by
// start time.
func (s *Service) OrdersByDay(ctx context.Context, accountID string, year, month, day int) ([]models.OrderWithStaff, error) {
	date, err := utils.DateString(year, month, day)
	if err != nil {
		return nil, err
	}
	return s.DB.OrdersByDate(ctx, accountID, date)
}
