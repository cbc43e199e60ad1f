package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"giftbot/pkg/metrics"
)

// BroadcastFunc delivers one broadcast message to a participant's chat.
type BroadcastFunc func(chatID int64, text string)

// Broadcast sends the text to every recorded participant except banned
// actors (the honoree must not see coordination traffic). Admin-only.
// Returns the number of deliveries attempted.
func (s *Service) Broadcast(ctx context.Context, adminID int64, text string, send BroadcastFunc) (int, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return 0, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrEmptyText
	}

	participants, err := s.Participants.List(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, p := range participants {
		banned, err := s.Bans.IsBanned(ctx, p.UserID)
		if err != nil {
			return sent, err
		}
		if banned || p.ChatID == 0 {
			continue
		}
		send(p.ChatID, text)
		sent++
		metrics.BroadcastsDelivered.Inc()
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id": adminID,
		"sent":     sent,
	}).Info("Broadcast delivered")
	return sent, nil
}
