package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"giftbot/internal/models"
	"giftbot/internal/service"
	"giftbot/internal/telegram"
)

// categoryKeyboard lists every category two per row, plus a cancel row.
func categoryKeyboard() tgbotapi.InlineKeyboardMarkup {
	cats := models.Categories()
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(cats); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(cats[i].Label(), "category:"+string(cats[i])),
		}
		if i+1 < len(cats) {
			row = append(row,
				tgbotapi.NewInlineKeyboardButtonData(cats[i+1].Label(), "category:"+string(cats[i+1])))
		}
		rows = append(rows, row)
	}
	rows = append(rows, backRow("menu", "❌ Cancel"))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// AddGiftHandler handles the "add_gift" callback starting the three-step
// creation flow: name, price, category.
type AddGiftHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewAddGiftHandler creates a new gift creation handler
func NewAddGiftHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *AddGiftHandler {
	return &AddGiftHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "add_gift" callback.
func (h *AddGiftHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	// Banned actors never reach a text step.
	if banned, err := h.svc.IsBanned(ctx, query.From.ID); err != nil {
		return fmt.Errorf("check ban: %w", err)
	} else if banned {
		editText(bot, query, honoreeReply, nil)
		return nil
	}

	h.conversations.Begin(query.From.ID, telegram.StepGiftName)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("menu", "❌ Cancel"))
	editText(bot, query, "➕ *New idea*\n\nWhat should we gift? Send the name:", &keyboard)
	return nil
}

// SkipPriceHandler handles the "skip_price" callback: the draft keeps no
// price and the flow jumps to the category step.
type SkipPriceHandler struct {
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewSkipPriceHandler creates a new skip-price handler
func NewSkipPriceHandler(conversations *telegram.Conversations, logger *logrus.Logger) *SkipPriceHandler {
	return &SkipPriceHandler{conversations: conversations, logger: logger}
}

// HandleCallback processes the "skip_price" callback.
func (h *SkipPriceHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	conv := h.conversations.Get(query.From.ID)
	if conv == nil || conv.Step != telegram.StepGiftPrice {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("menu", "◀️ Menu"))
		editText(bot, query, "Nothing to skip here. Use the menu:", &keyboard)
		return nil
	}

	conv.Step = telegram.StepGiftCategory
	conv.Draft.Price = nil

	keyboard := categoryKeyboard()
	editText(bot, query, "Pick a category:", &keyboard)
	return nil
}

// CategoryHandler handles the "category:<key>" callback finishing the
// creation flow.
type CategoryHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewCategoryHandler creates a new category selection handler
func NewCategoryHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "category:<key>" callback.
func (h *CategoryHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	conv := h.conversations.Get(query.From.ID)
	if conv == nil || conv.Step != telegram.StepGiftCategory {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("menu", "◀️ Menu"))
		editText(bot, query, "This flow has expired. Start over from the menu:", &keyboard)
		return nil
	}

	category := models.GiftCategory(payload)
	if !category.Valid() {
		return fmt.Errorf("unknown category %q", payload)
	}

	gift, err := h.svc.CreateGift(ctx, query.From.ID, userFullName(query.From),
		conv.Draft.Name, conv.Draft.Price, category)
	h.conversations.Clear(query.From.ID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"gift_id": gift.ID,
		"user_id": query.From.ID,
	}).Info("Gift idea added")

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Gift list", "gifts")),
		backRow("menu", "◀️ Menu"))
	editText(bot, query,
		fmt.Sprintf("Added! 🎉\n\n%s *%s*\n💰 %s\n🏷 %s",
			gift.StatusEmoji(), gift.Name, priceString(gift.Price), gift.Category.Label()),
		&keyboard)
	return nil
}
