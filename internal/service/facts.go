package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"giftbot/internal/models"
)

// AddFact appends a piece of trivia about the gift recipient. Text must be
// between 5 and 500 characters, both bounds inclusive.
func (s *Service) AddFact(ctx context.Context, userID int64, text string) (*models.Fact, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < models.FactMinLength || n > models.FactMaxLength {
		return nil, ErrFactLength
	}

	fact, err := s.Facts.Add(ctx, &models.Fact{
		AuthorID: userID,
		Text:     text,
	})
	if err != nil {
		return nil, fmt.Errorf("add fact: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"fact_id": fact.ID,
		"user_id": userID,
	}).Info("Fact added")
	return fact, nil
}

// ListFacts returns all facts in creation order, oldest first. Display
// truncation is the front-end's concern.
func (s *Service) ListFacts(ctx context.Context, userID int64) ([]*models.Fact, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}
	return s.Facts.List(ctx)
}

// FactCount returns the number of recorded facts.
func (s *Service) FactCount(ctx context.Context) (int, error) {
	return s.Facts.Count(ctx)
}
