package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const helpText = "ℹ️ *How this works*\n\n" +
	"We are putting together gifts for the guest of honor — without them knowing.\n\n" +
	"• Browse the list and tap 🙋 to take a gift yourself\n" +
	"• Or 🤝 chip in on a gift someone already claimed\n" +
	"• Tell the others how much you're putting in\n" +
	"• Mark the gift ✅ once it's bought\n" +
	"• If the guest of honor already has it — tap 🚫\n\n" +
	"Commands:\n" +
	"/start — open the menu\n" +
	"/menu — open the menu\n" +
	"/cancel — abort the current step\n" +
	"/help — this message\n"

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

// NewHelpHandler creates a new help command handler
func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

// Handle processes the /help command.
func (h *HelpHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, helpText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(backRow("menu", "📋 Open menu"))
	bot.Send(msg)
	return nil
}
