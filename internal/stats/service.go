package stats

import (
	"context"
	"fmt"

	"cleansched/internal/models"
)

// leaderboardSize caps the top-staff and busiest-days lists.
const leaderboardSize = 3

type Service struct {
	db *DB
}

func NewService(db *DB) *Service {
	return &Service{db: db}
}

// Statistics assembles the read-only aggregate view for one account.
func (s *Service) Statistics(ctx context.Context, accountID string) (*models.Statistics, error) {
	total, err := s.db.CountOrders(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	topStaff, err := s.db.TopStaff(ctx, accountID, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("top staff: %w", err)
	}

	busiestDays, err := s.db.BusiestDays(ctx, accountID, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("busiest days: %w", err)
	}

	return &models.Statistics{
		TotalOrders: total,
		TopStaff:    topStaff,
		BusiestDays: busiestDays,
	}, nil
}
