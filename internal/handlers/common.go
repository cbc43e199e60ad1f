package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"giftbot/internal/models"
	"giftbot/internal/service"
)

// honoreeReply is the only message a banned actor (the gift recipient)
// ever receives.
const honoreeReply = "🎂 Hey, guest of honor! 🎂\n\n" +
	"This bot is a secret — no peeking! 😉\n" +
	"Wait for your surprises at the party! 🎁"

// currencyStrip removes whitespace and common currency symbols before
// numeric parsing.
var currencyStrip = strings.NewReplacer(" ", "", " ", "", "₽", "", "$", "", "€", "", "£", "")

// parseAmount parses a user-entered price or pledge. Whitespace and
// currency symbols are stripped; the result must be a non-negative
// integer.
func parseAmount(text string) (int, error) {
	cleaned := currencyStrip.Replace(strings.TrimSpace(text))
	amount, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", text)
	}
	if amount < 0 {
		return 0, fmt.Errorf("negative amount: %d", amount)
	}
	return amount, nil
}

// priceString renders an optional price for display.
func priceString(price *int) string {
	if price == nil {
		return "not specified"
	}
	return fmt.Sprintf("%d ₽", *price)
}

// userFullName joins the Telegram first and last names.
func userFullName(u *tgbotapi.User) string {
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}

// firstName returns the leading word of a display name, for compact
// contributor listings.
func firstName(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

// noticeFor maps service sentinel errors to the text shown to the actor.
// The second return value is false for unexpected errors, which the
// caller should propagate instead.
func noticeFor(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrBanned):
		return honoreeReply, true
	case errors.Is(err, service.ErrNotFound):
		return "❌ Gift not found. It may have been deleted.", true
	case errors.Is(err, service.ErrPermissionDenied):
		return "❌ Administrators only.", true
	case errors.Is(err, service.ErrSelfBan):
		return "❌ You cannot ban yourself.", true
	case errors.Is(err, service.ErrAlreadyJoined):
		return "You are already in on this gift!", true
	case errors.Is(err, service.ErrNoContribution):
		return "You are not contributing to this gift.", true
	case errors.Is(err, service.ErrEmptyName):
		return "❌ The gift needs a name. Please try again.", true
	case errors.Is(err, service.ErrInvalidAmount):
		return "❌ Please enter a positive number. For example: 5000", true
	case errors.Is(err, service.ErrFactLength):
		return fmt.Sprintf("❌ A fact must be %d-%d characters long.",
			models.FactMinLength, models.FactMaxLength), true
	}
	return "", false
}

// respond sends a notice for a known service error and reports whether
// the error was handled.
func respond(bot *tgbotapi.BotAPI, chatID int64, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if notice, ok := noticeFor(err); ok {
		msg := tgbotapi.NewMessage(chatID, notice)
		bot.Send(msg)
		return true, nil
	}
	return false, err
}

// editText replaces the message the callback came from.
func editText(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if query.Message == nil {
		return
	}
	if keyboard != nil {
		msg := tgbotapi.NewEditMessageTextAndMarkup(query.Message.Chat.ID, query.Message.MessageID, text, *keyboard)
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return
	}
	msg := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
}

// parseGiftID parses a callback payload carrying a gift id.
func parseGiftID(payload string) (int64, error) {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid gift id %q: %w", payload, err)
	}
	return id, nil
}

// backRow is a single-button row returning to the given action.
func backRow(action, label string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(label, action),
	)
}
