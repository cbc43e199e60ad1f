package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"giftbot/pkg/metrics"
)

// Router handles message routing, command parsing and callback dispatch
type Router struct {
	logger    *logrus.Logger
	commands  map[string]CommandHandler
	callbacks map[string]CallbackHandler
	fallback  MessageHandler
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error
}

// CallbackHandler defines the interface for inline-keyboard callback
// handlers. Callback data has the form "action" or "action:payload".
type CallbackHandler interface {
	HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error
}

// MessageHandler defines the interface for plain-text message handlers
// (multi-step conversation input).
type MessageHandler interface {
	HandleText(bot *tgbotapi.BotAPI, message *tgbotapi.Message) error
}

// NewRouter creates a new message router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		logger:    logger,
		commands:  make(map[string]CommandHandler),
		callbacks: make(map[string]CallbackHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.commands[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback registers a callback handler for an action prefix
func (r *Router) RegisterCallback(action string, handler CallbackHandler) {
	r.callbacks[action] = handler
	r.logger.Debugf("Registered callback action: %s", action)
}

// RegisterFallback registers the plain-text message handler
func (r *Router) RegisterFallback(handler MessageHandler) {
	r.fallback = handler
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	r.logger.WithFields(logrus.Fields{
		"chat_id":    message.Chat.ID,
		"user_id":    message.From.ID,
		"username":   message.From.UserName,
		"message_id": message.MessageID,
	}).Info("Received message")

	if !message.IsCommand() {
		// Plain text feeds the active multi-step conversation, if any.
		if r.fallback != nil {
			if err := r.fallback.HandleText(bot, message); err != nil {
				r.logger.WithFields(logrus.Fields{
					"chat_id": message.Chat.ID,
					"user_id": message.From.ID,
					"error":   err,
				}).Error("Conversation handler failed")
				r.sendError(bot, message.Chat.ID)
			}
		}
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())

	handler, exists := r.commands[command]
	if !exists {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
		}).Warn("Unknown command")

		unknownMsg := tgbotapi.NewMessage(message.Chat.ID, "❓ Unknown command. Use /start to open the menu.")
		bot.Send(unknownMsg)
		return
	}

	metrics.CommandsTotal.WithLabelValues(command).Inc()

	if err := handler.Handle(bot, message, args); err != nil {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
			"error":   err,
		}).Error("Command handler failed")
		r.sendError(bot, message.Chat.ID)
	}
}

// HandleCallbackQuery handles callback queries from inline keyboards
func (r *Router) HandleCallbackQuery(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery) {
	r.logger.WithFields(logrus.Fields{
		"callback_id": query.ID,
		"user_id":     query.From.ID,
		"data":        query.Data,
	}).Info("Received callback query")

	// Answer the callback query to remove the loading state
	callback := tgbotapi.NewCallback(query.ID, "")
	bot.Request(callback)

	action, payload := splitCallbackData(query.Data)

	handler, exists := r.callbacks[action]
	if !exists {
		r.logger.WithFields(logrus.Fields{
			"action":  action,
			"user_id": query.From.ID,
		}).Warn("Unknown callback action")
		return
	}

	metrics.CallbacksTotal.WithLabelValues(action).Inc()

	if err := handler.HandleCallback(bot, query, payload); err != nil {
		r.logger.WithFields(logrus.Fields{
			"action":  action,
			"user_id": query.From.ID,
			"error":   err,
		}).Error("Callback handler failed")
		if query.Message != nil {
			r.sendError(bot, query.Message.Chat.ID)
		}
	}
}

func (r *Router) sendError(bot *tgbotapi.BotAPI, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "❌ An error occurred while processing your request. Please try again.")
	bot.Send(msg)
}

// splitCallbackData splits "action:payload" callback data. The payload is
// empty when the data carries no argument.
func splitCallbackData(data string) (action, payload string) {
	if i := strings.IndexByte(data, ':'); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, ""
}
