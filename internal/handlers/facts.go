package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"giftbot/internal/models"
	"giftbot/internal/service"
	"giftbot/internal/telegram"
)

// FactsHandler handles the "facts" callback listing trivia about the
// guest of honor.
type FactsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewFactsHandler creates a new facts list handler
func NewFactsHandler(svc *service.Service, logger *logrus.Logger) *FactsHandler {
	return &FactsHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "facts" callback.
func (h *FactsHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	facts, err := h.svc.ListFacts(ctx, query.From.ID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	var sb strings.Builder
	if len(facts) == 0 {
		sb.WriteString("No stories yet. Share the first one! 💡")
	} else {
		sb.WriteString("💡 *Facts about the guest of honor*\n\n")
		for i, f := range facts {
			sb.WriteString(fmt.Sprintf("%d. %s\n\n", i+1, f.Text))
		}
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✍️ Add a fact", "add_fact")),
		backRow("menu", "◀️ Menu"))
	editText(bot, query, sb.String(), &keyboard)
	return nil
}

// AddFactHandler handles the "add_fact" callback starting the fact entry
// step.
type AddFactHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewAddFactHandler creates a new fact entry handler
func NewAddFactHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *AddFactHandler {
	return &AddFactHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "add_fact" callback.
func (h *AddFactHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	if banned, err := h.svc.IsBanned(ctx, query.From.ID); err != nil {
		return fmt.Errorf("check ban: %w", err)
	} else if banned {
		editText(bot, query, honoreeReply, nil)
		return nil
	}

	h.conversations.Begin(query.From.ID, telegram.StepFactText)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("menu", "❌ Cancel"))
	editText(bot, query,
		fmt.Sprintf("✍️ Tell us something about the guest of honor (%d–%d characters):",
			models.FactMinLength, models.FactMaxLength),
		&keyboard)
	return nil
}
