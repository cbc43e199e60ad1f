package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"giftbot/internal/service"
	"giftbot/internal/telegram"
)

// FlowHandler is the fallback text handler. It advances whatever
// multi-step flow the sender has in flight; text outside a flow gets a
// pointer to the menu.
type FlowHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewFlowHandler creates a new conversation flow handler
func NewFlowHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *FlowHandler {
	return &FlowHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleText routes the message to the step the sender is on.
func (h *FlowHandler) HandleText(bot *tgbotapi.BotAPI, message *tgbotapi.Message) error {
	conv := h.conversations.Get(message.From.ID)
	if conv == nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, "I didn't catch that. Use /start to open the menu.")
		bot.Send(msg)
		return nil
	}

	switch conv.Step {
	case telegram.StepGiftName:
		return h.giftName(bot, message, conv)
	case telegram.StepGiftPrice:
		return h.giftPrice(bot, message, conv)
	case telegram.StepPledgeAmount:
		return h.pledgeAmount(bot, message, conv)
	case telegram.StepFactText:
		return h.factText(bot, message)
	case telegram.StepBanTarget:
		return h.banTarget(bot, message)
	case telegram.StepPromoteTarget:
		return h.promoteTarget(bot, message)
	case telegram.StepBroadcastText:
		return h.broadcastText(bot, message)
	}

	h.conversations.Clear(message.From.ID)
	msg := tgbotapi.NewMessage(message.Chat.ID, "Something went wrong. Use /start to open the menu.")
	bot.Send(msg)
	return nil
}

func (h *FlowHandler) giftName(bot *tgbotapi.BotAPI, message *tgbotapi.Message, conv *telegram.Conversation) error {
	name := strings.TrimSpace(message.Text)
	if name == "" {
		msg := tgbotapi.NewMessage(message.Chat.ID, "The name can't be empty. What should we gift?")
		bot.Send(msg)
		return nil
	}

	conv.Draft.Name = name
	conv.Step = telegram.StepGiftPrice

	msg := tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("*%s* — nice!\n\nRoughly how much does it cost? Send a number in rubles:", name))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(backRow("skip_price", "⏭ Don't know"))
	bot.Send(msg)
	return nil
}

func (h *FlowHandler) giftPrice(bot *tgbotapi.BotAPI, message *tgbotapi.Message, conv *telegram.Conversation) error {
	amount, err := parseAmount(message.Text)
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, "That doesn't look like a price. Send a number, e.g. 3000:")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(backRow("skip_price", "⏭ Don't know"))
		bot.Send(msg)
		return nil
	}

	if amount > 0 {
		conv.Draft.Price = &amount
	}
	conv.Step = telegram.StepGiftCategory

	msg := tgbotapi.NewMessage(message.Chat.ID, "Pick a category:")
	msg.ReplyMarkup = categoryKeyboard()
	bot.Send(msg)
	return nil
}

func (h *FlowHandler) pledgeAmount(bot *tgbotapi.BotAPI, message *tgbotapi.Message, conv *telegram.Conversation) error {
	ctx := context.Background()

	amount, err := parseAmount(message.Text)
	if err != nil || amount <= 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Send a positive number, e.g. 1500:")
		bot.Send(msg)
		return nil
	}

	giftID := conv.GiftID
	err = h.svc.SetPledge(ctx, message.From.ID, giftID, amount)
	if handled, err := respond(bot, message.Chat.ID, err); handled || err != nil {
		h.conversations.Clear(message.From.ID)
		return err
	}
	h.conversations.Clear(message.From.ID)

	gift, err := h.svc.GetGift(ctx, message.From.ID, giftID)
	if err != nil {
		return fmt.Errorf("reload gift %d: %w", giftID, err)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("Noted: *%d ₽* toward *%s* 💸", amount, gift.Name))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎁 To the gift", fmt.Sprintf("gift:%d", giftID))),
		backRow("menu", "◀️ Menu"))
	bot.Send(msg)
	return nil
}

func (h *FlowHandler) factText(bot *tgbotapi.BotAPI, message *tgbotapi.Message) error {
	ctx := context.Background()

	_, err := h.svc.AddFact(ctx, message.From.ID, message.Text)
	if handled, err := respond(bot, message.Chat.ID, err); handled || err != nil {
		// Length errors keep the step open for a retry.
		return err
	}
	h.conversations.Clear(message.From.ID)

	msg := tgbotapi.NewMessage(message.Chat.ID, "Saved! 💡 Thanks for the story.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💡 All facts", "facts")),
		backRow("menu", "◀️ Menu"))
	bot.Send(msg)
	return nil
}

// parseTarget reads "<user id> [display name]" from admin input.
func parseTarget(text string) (int64, string, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return 0, "", fmt.Errorf("empty target")
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse target id %q: %w", fields[0], err)
	}
	return id, strings.Join(fields[1:], " "), nil
}

func (h *FlowHandler) banTarget(bot *tgbotapi.BotAPI, message *tgbotapi.Message) error {
	ctx := context.Background()

	targetID, name, err := parseTarget(message.Text)
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Send the numeric user ID, optionally followed by a name:")
		bot.Send(msg)
		return nil
	}
	h.conversations.Clear(message.From.ID)

	err = h.svc.BanActor(ctx, message.From.ID, targetID, name)
	if handled, err := respond(bot, message.Chat.ID, err); handled || err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id":  message.From.ID,
		"target_id": targetID,
	}).Info("User banned")

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("🔒 User %d is now hidden from the bot.", targetID))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(backRow("admin", "◀️ Admin panel"))
	bot.Send(msg)
	return nil
}

func (h *FlowHandler) promoteTarget(bot *tgbotapi.BotAPI, message *tgbotapi.Message) error {
	ctx := context.Background()

	targetID, name, err := parseTarget(message.Text)
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Send the numeric user ID, optionally followed by a name:")
		bot.Send(msg)
		return nil
	}
	h.conversations.Clear(message.From.ID)

	err = h.svc.PromoteAdmin(ctx, message.From.ID, targetID, name)
	if handled, err := respond(bot, message.Chat.ID, err); handled || err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id":  message.From.ID,
		"target_id": targetID,
	}).Info("Admin promoted")

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("👑 User %d is now an administrator.", targetID))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(backRow("admin", "◀️ Admin panel"))
	bot.Send(msg)
	return nil
}

func (h *FlowHandler) broadcastText(bot *tgbotapi.BotAPI, message *tgbotapi.Message) error {
	ctx := context.Background()
	h.conversations.Clear(message.From.ID)

	sent, err := h.svc.Broadcast(ctx, message.From.ID, message.Text,
		func(chatID int64, text string) {
			msg := tgbotapi.NewMessage(chatID, "📣 "+text)
			bot.Send(msg)
		})
	if handled, err := respond(bot, message.Chat.ID, err); handled || err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id": message.From.ID,
		"sent":     sent,
	}).Info("Broadcast delivered")

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("📣 Delivered to %d participants.", sent))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(backRow("admin", "◀️ Admin panel"))
	bot.Send(msg)
	return nil
}
