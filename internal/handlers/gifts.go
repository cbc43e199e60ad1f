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

// giftListText renders the full gift list grouped by status emoji.
func giftListText(gifts []*models.Gift) string {
	if len(gifts) == 0 {
		return "The list is empty so far. Be the first to add an idea! ➕"
	}

	var sb strings.Builder
	sb.WriteString("🎁 *Gift ideas*\n\n")
	sb.WriteString("🟢 free  🟡 claimed  ✅ bought  🚫 already has\n\n")
	for _, g := range gifts {
		sb.WriteString(fmt.Sprintf("%s %s", g.StatusEmoji(), g.Name))
		if g.Price != nil {
			sb.WriteString(fmt.Sprintf(" — %d ₽", *g.Price))
		}
		if len(g.Contributions) > 0 {
			names := make([]string, 0, len(g.Contributions))
			for _, c := range g.Contributions {
				names = append(names, firstName(c.UserName))
			}
			sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(names, ", ")))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nTap a gift for details:")
	return sb.String()
}

// giftListKeyboard builds one button per gift plus the back row.
func giftListKeyboard(gifts []*models.Gift) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(gifts)+1)
	for _, g := range gifts {
		label := fmt.Sprintf("%s %s", g.StatusEmoji(), g.Name)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("gift:%d", g.ID))))
	}
	rows = append(rows, backRow("menu", "◀️ Menu"))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// giftDetailText renders the detail card for one gift.
func giftDetailText(gift *models.Gift) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *%s*\n\n", gift.StatusEmoji(), gift.Name))
	sb.WriteString(fmt.Sprintf("💰 Price: %s\n", priceString(gift.Price)))
	if gift.Category != "" {
		sb.WriteString(fmt.Sprintf("🏷 Category: %s\n", gift.Category.Label()))
	}
	sb.WriteString(fmt.Sprintf("💡 Suggested by %s\n", firstName(gift.AddedByName)))

	switch gift.Status {
	case models.GiftStatusBought:
		sb.WriteString("\n✅ Already bought")
	case models.GiftStatusAlreadyHas:
		sb.WriteString("\n🚫 The guest of honor already has this one")
	}

	if len(gift.Contributions) > 0 {
		sb.WriteString("\n\n🤝 *Buyers:*\n")
		total := 0
		for _, c := range gift.Contributions {
			sb.WriteString(fmt.Sprintf("• %s", firstName(c.UserName)))
			if c.Amount != nil {
				sb.WriteString(fmt.Sprintf(" — %d ₽", *c.Amount))
				total += *c.Amount
			}
			sb.WriteString("\n")
		}
		if total > 0 {
			sb.WriteString(fmt.Sprintf("\nCollected so far: *%d ₽*", total))
		}
	}
	return sb.String()
}

// giftDetailKeyboard builds the context-sensitive action buttons for a
// gift: what the viewer can do depends on the status and on whether they
// already contribute.
func giftDetailKeyboard(gift *models.Gift, viewerID int64, isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	contributes := false
	for _, c := range gift.Contributions {
		if c.UserID == viewerID {
			contributes = true
			break
		}
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	id := gift.ID

	switch gift.Status {
	case models.GiftStatusAvailable:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🙋 I'll buy it", fmt.Sprintf("claim:%d", id))))
	case models.GiftStatusClaimed:
		if contributes {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("💸 My amount", fmt.Sprintf("pledge:%d", id)),
				tgbotapi.NewInlineKeyboardButtonData("🚪 Withdraw", fmt.Sprintf("withdraw:%d", id))))
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ We bought it", fmt.Sprintf("bought:%d", id))))
		} else {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🤝 Chip in", fmt.Sprintf("join:%d", id))))
		}
	}

	if !gift.Status.Terminal() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 Already has it", fmt.Sprintf("already_has:%d", id))))
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("delete:%d", id))))
	}
	rows = append(rows, backRow("gifts", "◀️ Back to list"))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// GiftListHandler handles the "gifts" callback showing every gift idea.
type GiftListHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewGiftListHandler creates a new gift list handler
func NewGiftListHandler(svc *service.Service, logger *logrus.Logger) *GiftListHandler {
	return &GiftListHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "gifts" callback.
func (h *GiftListHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	gifts, err := h.svc.ListGifts(ctx, query.From.ID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	keyboard := giftListKeyboard(gifts)
	editText(bot, query, giftListText(gifts), &keyboard)
	return nil
}

// GiftDetailHandler handles the "gift:<id>" callback showing one gift.
type GiftDetailHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewGiftDetailHandler creates a new gift detail handler
func NewGiftDetailHandler(svc *service.Service, logger *logrus.Logger) *GiftDetailHandler {
	return &GiftDetailHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "gift:<id>" callback.
func (h *GiftDetailHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	giftID, err := parseGiftID(payload)
	if err != nil {
		return err
	}

	gift, err := h.svc.GetGift(ctx, query.From.ID, giftID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	isAdmin, err := h.svc.IsAdmin(ctx, query.From.ID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}

	keyboard := giftDetailKeyboard(gift, query.From.ID, isAdmin)
	editText(bot, query, giftDetailText(gift), &keyboard)
	return nil
}

// showGift re-renders the detail card after a state transition.
func showGift(bot *tgbotapi.BotAPI, svc *service.Service, query *tgbotapi.CallbackQuery, gift *models.Gift) error {
	isAdmin, err := svc.IsAdmin(context.Background(), query.From.ID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	keyboard := giftDetailKeyboard(gift, query.From.ID, isAdmin)
	editText(bot, query, giftDetailText(gift), &keyboard)
	return nil
}

// ClaimHandler handles the "claim:<id>" callback: the actor takes the gift
// alone and is then asked for an amount.
type ClaimHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *ClaimHandler {
	return &ClaimHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "claim:<id>" callback.
func (h *ClaimHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	giftID, err := parseGiftID(payload)
	if err != nil {
		return err
	}

	gift, err := h.svc.Claim(ctx, query.From.ID, userFullName(query.From), giftID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"gift_id": giftID,
		"user_id": query.From.ID,
	}).Info("Claim accepted")

	return askPledge(bot, h.conversations, query, gift)
}

// JoinHandler handles the "join:<id>" callback adding the actor to a
// co-funded purchase.
type JoinHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewJoinHandler creates a new join handler
func NewJoinHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *JoinHandler {
	return &JoinHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "join:<id>" callback.
func (h *JoinHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	giftID, err := parseGiftID(payload)
	if err != nil {
		return err
	}

	gift, err := h.svc.Join(ctx, query.From.ID, userFullName(query.From), giftID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"gift_id": giftID,
		"user_id": query.From.ID,
	}).Info("Joined gift")

	return askPledge(bot, h.conversations, query, gift)
}

// askPledge starts the pledge-amount step after a claim or join.
func askPledge(bot *tgbotapi.BotAPI, conversations *telegram.Conversations, query *tgbotapi.CallbackQuery, gift *models.Gift) error {
	conv := conversations.Begin(query.From.ID, telegram.StepPledgeAmount)
	conv.GiftID = gift.ID

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		backRow(fmt.Sprintf("skip_pledge:%d", gift.ID), "⏭ Skip for now"))
	editText(bot, query,
		fmt.Sprintf("You're in! 🎉\n\n*%s*\n\nHow much are you putting in? Send a number in rubles:", gift.Name),
		&keyboard)
	return nil
}

// PledgeHandler handles the "pledge:<id>" callback: an existing
// contributor updates their amount.
type PledgeHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewPledgeHandler creates a new pledge handler
func NewPledgeHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *PledgeHandler {
	return &PledgeHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "pledge:<id>" callback.
func (h *PledgeHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	giftID, err := parseGiftID(payload)
	if err != nil {
		return err
	}

	conv := h.conversations.Begin(query.From.ID, telegram.StepPledgeAmount)
	conv.GiftID = giftID

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow(fmt.Sprintf("gift:%d", giftID), "◀️ Back"))
	editText(bot, query, "How much are you putting in? Send a number in rubles:", &keyboard)
	return nil
}

// SkipPledgeHandler handles the "skip_pledge:<id>" callback: the actor
// keeps their claim but leaves the amount undeclared.
type SkipPledgeHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewSkipPledgeHandler creates a new skip-pledge handler
func NewSkipPledgeHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *SkipPledgeHandler {
	return &SkipPledgeHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "skip_pledge:<id>" callback.
func (h *SkipPledgeHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	giftID, err := parseGiftID(payload)
	if err != nil {
		return err
	}
	h.conversations.Clear(query.From.ID)

	gift, err := h.svc.GetGift(ctx, query.From.ID, giftID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}
	return showGift(bot, h.svc, query, gift)
}

// WithdrawHandler handles the "withdraw:<id>" callback removing the
// actor's contribution.
type WithdrawHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWithdrawHandler creates a new withdraw handler
func NewWithdrawHandler(svc *service.Service, logger *logrus.Logger) *WithdrawHandler {
	return &WithdrawHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "withdraw:<id>" callback.
func (h *WithdrawHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	giftID, err := parseGiftID(payload)
	if err != nil {
		return err
	}

	gift, err := h.svc.Withdraw(ctx, query.From.ID, giftID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"gift_id": giftID,
		"user_id": query.From.ID,
	}).Info("Contribution withdrawn")

	return showGift(bot, h.svc, query, gift)
}

// BoughtHandler handles the "bought:<id>" callback marking the purchase
// done.
type BoughtHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewBoughtHandler creates a new bought handler
func NewBoughtHandler(svc *service.Service, logger *logrus.Logger) *BoughtHandler {
	return &BoughtHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "bought:<id>" callback.
func (h *BoughtHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	giftID, err := parseGiftID(payload)
	if err != nil {
		return err
	}

	gift, err := h.svc.MarkBought(ctx, query.From.ID, giftID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}
	return showGift(bot, h.svc, query, gift)
}

// AlreadyHasHandler handles the "already_has:<id>" callback.
type AlreadyHasHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewAlreadyHasHandler creates a new already-has handler
func NewAlreadyHasHandler(svc *service.Service, logger *logrus.Logger) *AlreadyHasHandler {
	return &AlreadyHasHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "already_has:<id>" callback.
func (h *AlreadyHasHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	giftID, err := parseGiftID(payload)
	if err != nil {
		return err
	}

	gift, err := h.svc.MarkAlreadyHas(ctx, query.From.ID, giftID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}
	return showGift(bot, h.svc, query, gift)
}

// DeleteGiftHandler handles the "delete:<id>" callback. Admin-only.
type DeleteGiftHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteGiftHandler creates a new gift deletion handler
func NewDeleteGiftHandler(svc *service.Service, logger *logrus.Logger) *DeleteGiftHandler {
	return &DeleteGiftHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "delete:<id>" callback.
func (h *DeleteGiftHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	giftID, err := parseGiftID(payload)
	if err != nil {
		return err
	}

	err = h.svc.DeleteGift(ctx, query.From.ID, giftID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	gifts, err := h.svc.ListGifts(ctx, query.From.ID)
	if err != nil {
		return fmt.Errorf("list gifts: %w", err)
	}
	keyboard := giftListKeyboard(gifts)
	editText(bot, query, "🗑 Deleted.\n\n"+giftListText(gifts), &keyboard)
	return nil
}

// MyGiftsHandler handles the "my_gifts" callback listing the gifts the
// viewer contributes to.
type MyGiftsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewMyGiftsHandler creates a new my-gifts handler
func NewMyGiftsHandler(svc *service.Service, logger *logrus.Logger) *MyGiftsHandler {
	return &MyGiftsHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "my_gifts" callback.
func (h *MyGiftsHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	gifts, err := h.svc.MyGifts(ctx, query.From.ID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	var sb strings.Builder
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(gifts)+1)
	if len(gifts) == 0 {
		sb.WriteString("You are not buying anything yet. Pick something from the list! 📋")
	} else {
		sb.WriteString("🎁 *Your gifts*\n\n")
		for _, g := range gifts {
			sb.WriteString(fmt.Sprintf("%s %s", g.StatusEmoji(), g.Name))
			if g.ViewerAmount != nil {
				sb.WriteString(fmt.Sprintf(" — my part: %d ₽", *g.ViewerAmount))
			}
			sb.WriteString("\n")
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(g.Name, fmt.Sprintf("gift:%d", g.ID))))
		}
	}
	rows = append(rows, backRow("menu", "◀️ Menu"))
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	editText(bot, query, sb.String(), &keyboard)
	return nil
}
