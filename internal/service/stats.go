package service

import (
	"context"
	"fmt"

	"giftbot/internal/models"
)

// Stats returns the current summary counts and pledge total. An empty
// store reports zeros, not an error.
func (s *Service) Stats(ctx context.Context, userID int64) (*models.Stats, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}

	stats, err := s.Aggregates.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	return stats, nil
}
