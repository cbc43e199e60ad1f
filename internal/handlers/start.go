package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"giftbot/internal/service"
	"giftbot/internal/telegram"
)

// mainMenuText is the greeting above the main menu.
const mainMenuText = "🎁 *Gift Coordination Bot* 🎁\n\n" +
	"We collect gift ideas here and coordinate who buys what!\n\n" +
	"📋 — browse all ideas\n" +
	"➕ — propose your own idea\n" +
	"🎁 — see what you are buying\n" +
	"💡 — trivia about the guest of honor\n" +
	"📊 — overall statistics\n"

// mainMenuKeyboard builds the main menu, with the admin panel row added
// for administrators.
func mainMenuKeyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📋 Gift list", "gifts")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Add an idea", "add_gift")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎁 My gifts", "my_gifts")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💡 Facts", "facts")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📊 Statistics", "stats")),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Admin panel", "admin")))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// StartHandler handles the /start and /menu commands: it initializes the
// session (participant directory, admin bootstrap, ban check) and shows
// the main menu.
type StartHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *StartHandler {
	return &StartHandler{svc: svc, conversations: conversations, logger: logger}
}

// Handle processes the /start command.
func (h *StartHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()

	// A fresh /start always abandons any in-flight flow.
	h.conversations.Clear(message.From.ID)

	session, err := h.svc.InitSession(ctx,
		message.From.ID, message.From.UserName, userFullName(message.From), message.Chat.ID)
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}

	if session.Banned {
		msg := tgbotapi.NewMessage(message.Chat.ID, honoreeReply)
		bot.Send(msg)
		return nil
	}

	if session.BecameAdmin {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"👑 You are the first user here — you are now an administrator!")
		bot.Send(msg)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, mainMenuText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	keyboard := mainMenuKeyboard(session.Admin)
	msg.ReplyMarkup = keyboard
	bot.Send(msg)

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
		"admin":   session.Admin,
	}).Info("Session initialized")

	return nil
}

// MenuHandler handles the "menu" callback: it cancels any in-flight flow
// and re-renders the main menu in place.
type MenuHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewMenuHandler creates a new main menu callback handler
func NewMenuHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "menu" callback.
func (h *MenuHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	// Navigating away discards scratch state without a store mutation.
	h.conversations.Clear(query.From.ID)

	isAdmin, err := h.svc.IsAdmin(ctx, query.From.ID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}

	keyboard := mainMenuKeyboard(isAdmin)
	editText(bot, query, mainMenuText, &keyboard)
	return nil
}

// CancelHandler handles the /cancel command, discarding any in-flight
// multi-step flow.
type CancelHandler struct {
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewCancelHandler creates a new cancel command handler
func NewCancelHandler(conversations *telegram.Conversations, logger *logrus.Logger) *CancelHandler {
	return &CancelHandler{conversations: conversations, logger: logger}
}

// Handle processes the /cancel command.
func (h *CancelHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	h.conversations.Clear(message.From.ID)

	msg := tgbotapi.NewMessage(message.Chat.ID, "Cancelled. Use /start to open the menu.")
	bot.Send(msg)
	return nil
}
