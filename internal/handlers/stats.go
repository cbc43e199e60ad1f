package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"giftbot/internal/service"
)

// StatsHandler handles the "stats" callback showing overall progress.
type StatsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewStatsHandler creates a new statistics handler
func NewStatsHandler(svc *service.Service, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "stats" callback.
func (h *StatsHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	stats, err := h.svc.Stats(ctx, query.From.ID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("📊 *Statistics*\n\n")
	sb.WriteString(fmt.Sprintf("Ideas total: *%d*\n", stats.Total))
	sb.WriteString(fmt.Sprintf("🟢 Free: %d\n", stats.Available))
	sb.WriteString(fmt.Sprintf("🟡 Claimed: %d\n", stats.Claimed))
	sb.WriteString(fmt.Sprintf("✅ Bought: %d\n", stats.Bought))
	sb.WriteString(fmt.Sprintf("🚫 Already has: %d\n", stats.AlreadyHas))
	sb.WriteString(fmt.Sprintf("\n👥 Buyers: %d\n", stats.Participants))
	sb.WriteString(fmt.Sprintf("💰 Pledged in total: *%d ₽*\n", stats.TotalAmount))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("menu", "◀️ Menu"))
	editText(bot, query, sb.String(), &keyboard)
	return nil
}
