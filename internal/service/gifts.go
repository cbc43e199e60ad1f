package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"giftbot/internal/models"
	"giftbot/pkg/metrics"
)

// CreateGift proposes a new gift idea. The gift starts in the available
// status; name, price and category are immutable afterwards.
func (s *Service) CreateGift(ctx context.Context, userID int64, userName, name string, price *int, category models.GiftCategory) (*models.Gift, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if price != nil {
		if *price < 0 {
			return nil, ErrInvalidAmount
		}
		if *price == 0 {
			price = nil
		}
	}
	if category != "" && !category.Valid() {
		return nil, ErrBadCategory
	}

	gift, err := s.Gifts.Create(ctx, &models.Gift{
		Name:        name,
		Price:       price,
		Category:    category,
		AddedByID:   userID,
		AddedByName: userName,
	})
	if err != nil {
		return nil, fmt.Errorf("create gift: %w", err)
	}

	metrics.GiftTransitionsTotal.WithLabelValues("create").Inc()
	s.logger.WithFields(logrus.Fields{
		"gift_id": gift.ID,
		"user_id": userID,
	}).Info("Gift created")

	return gift, nil
}

// GetGift returns the gift with its contributor list, or ErrNotFound.
func (s *Service) GetGift(ctx context.Context, userID, giftID int64) (*models.Gift, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}
	return s.loadGift(ctx, giftID)
}

// ListGifts returns every gift ordered by status rank, category and name,
// each with its contributor list attached.
func (s *Service) ListGifts(ctx context.Context, userID int64) ([]*models.Gift, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}

	gifts, err := s.Gifts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gifts: %w", err)
	}
	for _, g := range gifts {
		if g.Contributions, err = s.Contributions.ListByGift(ctx, g.ID); err != nil {
			return nil, fmt.Errorf("list contributions for gift %d: %w", g.ID, err)
		}
	}
	return gifts, nil
}

// MyGifts returns the gifts the actor contributes to, with the actor's own
// pledge amount attached.
func (s *Service) MyGifts(ctx context.Context, userID int64) ([]*models.Gift, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}
	gifts, err := s.Gifts.ListByContributor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list gifts for user %d: %w", userID, err)
	}
	return gifts, nil
}

// Claim records a solo claim: the actor's contribution is inserted
// (overwriting a previous one rather than duplicating) and the gift moves
// to claimed.
func (s *Service) Claim(ctx context.Context, userID int64, userName string, giftID int64) (*models.Gift, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.ensureGiftExists(ctx, giftID); err != nil {
		return nil, err
	}

	if _, err := s.Contributions.Upsert(ctx, &models.Contribution{
		GiftID:   giftID,
		UserID:   userID,
		UserName: userName,
	}); err != nil {
		return nil, fmt.Errorf("claim gift %d: %w", giftID, err)
	}
	if err := s.Gifts.SetStatus(ctx, giftID, models.GiftStatusClaimed); err != nil {
		return nil, fmt.Errorf("mark gift %d claimed: %w", giftID, err)
	}

	metrics.GiftTransitionsTotal.WithLabelValues("claim").Inc()
	s.logger.WithFields(logrus.Fields{
		"gift_id": giftID,
		"user_id": userID,
	}).Info("Gift claimed")

	return s.loadGift(ctx, giftID)
}

// Join adds the actor to a co-funded purchase. An actor already
// contributing gets ErrAlreadyJoined instead of a silent overwrite of
// their pledge.
func (s *Service) Join(ctx context.Context, userID int64, userName string, giftID int64) (*models.Gift, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.ensureGiftExists(ctx, giftID); err != nil {
		return nil, err
	}

	existing, err := s.Contributions.Get(ctx, giftID, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup contribution: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyJoined
	}

	if _, err := s.Contributions.Upsert(ctx, &models.Contribution{
		GiftID:   giftID,
		UserID:   userID,
		UserName: userName,
	}); err != nil {
		return nil, fmt.Errorf("join gift %d: %w", giftID, err)
	}
	if err := s.Gifts.SetStatus(ctx, giftID, models.GiftStatusClaimed); err != nil {
		return nil, fmt.Errorf("mark gift %d claimed: %w", giftID, err)
	}

	metrics.GiftTransitionsTotal.WithLabelValues("join").Inc()
	s.logger.WithFields(logrus.Fields{
		"gift_id": giftID,
		"user_id": userID,
	}).Info("Joined co-funded gift")

	return s.loadGift(ctx, giftID)
}

// SetPledge records the amount the actor is willing to put in. The actor
// must already hold a contribution on the gift.
func (s *Service) SetPledge(ctx context.Context, userID, giftID int64, amount int) error {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	existing, err := s.Contributions.Get(ctx, giftID, userID)
	if err != nil {
		return fmt.Errorf("lookup contribution: %w", err)
	}
	if existing == nil {
		return ErrNoContribution
	}

	if err := s.Contributions.SetAmount(ctx, giftID, userID, amount); err != nil {
		return fmt.Errorf("set pledge on gift %d: %w", giftID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"gift_id": giftID,
		"user_id": userID,
		"amount":  amount,
	}).Info("Pledge amount set")
	return nil
}

// Withdraw removes the actor's contribution. When the contributor set
// becomes empty the gift reverts to available; otherwise it stays claimed.
func (s *Service) Withdraw(ctx context.Context, userID, giftID int64) (*models.Gift, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.ensureGiftExists(ctx, giftID); err != nil {
		return nil, err
	}

	existing, err := s.Contributions.Get(ctx, giftID, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup contribution: %w", err)
	}
	if existing == nil {
		return nil, ErrNoContribution
	}

	if err := s.Contributions.Withdraw(ctx, giftID, userID); err != nil {
		return nil, fmt.Errorf("withdraw from gift %d: %w", giftID, err)
	}

	metrics.GiftTransitionsTotal.WithLabelValues("withdraw").Inc()
	s.logger.WithFields(logrus.Fields{
		"gift_id": giftID,
		"user_id": userID,
	}).Info("Withdrew from gift")

	return s.loadGift(ctx, giftID)
}

// MarkBought flips the gift to bought. Contributions are retained as the
// purchase record.
func (s *Service) MarkBought(ctx context.Context, userID, giftID int64) (*models.Gift, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.ensureGiftExists(ctx, giftID); err != nil {
		return nil, err
	}

	if err := s.Gifts.SetStatus(ctx, giftID, models.GiftStatusBought); err != nil {
		return nil, fmt.Errorf("mark gift %d bought: %w", giftID, err)
	}

	metrics.GiftTransitionsTotal.WithLabelValues("bought").Inc()
	s.logger.WithFields(logrus.Fields{
		"gift_id": giftID,
		"user_id": userID,
	}).Info("Gift marked bought")

	return s.loadGift(ctx, giftID)
}

// MarkAlreadyHas flips the gift to already_has and deletes every
// contribution for it. The gift will not be purchased, so in-flight
// pledges are invalidated.
func (s *Service) MarkAlreadyHas(ctx context.Context, userID, giftID int64) (*models.Gift, error) {
	if err := s.requireNotBanned(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.ensureGiftExists(ctx, giftID); err != nil {
		return nil, err
	}

	if err := s.Gifts.MarkAlreadyHas(ctx, giftID); err != nil {
		return nil, fmt.Errorf("mark gift %d already-has: %w", giftID, err)
	}

	metrics.GiftTransitionsTotal.WithLabelValues("already_has").Inc()
	s.logger.WithFields(logrus.Fields{
		"gift_id": giftID,
		"user_id": userID,
	}).Info("Gift marked as already owned")

	return s.loadGift(ctx, giftID)
}

// DeleteGift permanently removes the gift and its contributions.
// Admin-only.
func (s *Service) DeleteGift(ctx context.Context, adminID, giftID int64) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.ensureGiftExists(ctx, giftID); err != nil {
		return err
	}

	if err := s.Gifts.Delete(ctx, giftID); err != nil {
		return fmt.Errorf("delete gift %d: %w", giftID, err)
	}

	metrics.GiftTransitionsTotal.WithLabelValues("delete").Inc()
	s.logger.WithFields(logrus.Fields{
		"gift_id":  giftID,
		"admin_id": adminID,
	}).Info("Gift deleted")
	return nil
}

// ensureGiftExists maps an absent gift to ErrNotFound.
func (s *Service) ensureGiftExists(ctx context.Context, giftID int64) error {
	gift, err := s.Gifts.GetByID(ctx, giftID)
	if err != nil {
		return fmt.Errorf("lookup gift %d: %w", giftID, err)
	}
	if gift == nil {
		return ErrNotFound
	}
	return nil
}

// loadGift fetches the gift with its contributor list.
func (s *Service) loadGift(ctx context.Context, giftID int64) (*models.Gift, error) {
	gift, err := s.Gifts.GetByID(ctx, giftID)
	if err != nil {
		return nil, fmt.Errorf("lookup gift %d: %w", giftID, err)
	}
	if gift == nil {
		return nil, ErrNotFound
	}
	if gift.Contributions, err = s.Contributions.ListByGift(ctx, giftID); err != nil {
		return nil, fmt.Errorf("list contributions for gift %d: %w", giftID, err)
	}
	return gift, nil
}
