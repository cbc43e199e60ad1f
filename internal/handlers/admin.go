package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"giftbot/internal/service"
	"giftbot/internal/telegram"
)

// adminPanelKeyboard is the admin panel menu.
func adminPanelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔒 Ban a user", "admin_ban"),
			tgbotapi.NewInlineKeyboardButtonData("🔓 Unban", "admin_unban")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📜 Banned list", "admin_banned"),
			tgbotapi.NewInlineKeyboardButtonData("👑 Make admin", "admin_promote")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📣 Broadcast", "admin_broadcast")),
		backRow("menu", "◀️ Menu"))
}

// AdminPanelHandler handles the "admin" callback opening the admin panel.
type AdminPanelHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewAdminPanelHandler creates a new admin panel handler
func NewAdminPanelHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *AdminPanelHandler {
	return &AdminPanelHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "admin" callback.
func (h *AdminPanelHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()
	h.conversations.Clear(query.From.ID)

	isAdmin, err := h.svc.IsAdmin(ctx, query.From.ID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if !isAdmin {
		editText(bot, query, "⛔ Administrators only.", nil)
		return nil
	}

	keyboard := adminPanelKeyboard()
	editText(bot, query, "⚙️ *Admin panel*", &keyboard)
	return nil
}

// AdminBanHandler handles the "admin_ban" callback: known participants
// become buttons, and a text fallback accepts an arbitrary user ID.
type AdminBanHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewAdminBanHandler creates a new ban menu handler
func NewAdminBanHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *AdminBanHandler {
	return &AdminBanHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "admin_ban" callback.
func (h *AdminBanHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	if ok, err := panelAdmin(ctx, bot, h.svc, query); !ok {
		return err
	}

	participants, err := h.svc.Participants.List(ctx)
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range participants {
		if p.UserID == query.From.ID {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.DisplayName(), fmt.Sprintf("ban:%d", p.UserID))))
	}
	rows = append(rows, backRow("admin", "◀️ Back"))

	h.conversations.Begin(query.From.ID, telegram.StepBanTarget)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	editText(bot, query,
		"🔒 Who should stop seeing the bot? Pick below, or send a user ID as text:",
		&keyboard)
	return nil
}

// BanUserHandler handles the "ban:<id>" callback banning a known
// participant.
type BanUserHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewBanUserHandler creates a new ban action handler
func NewBanUserHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *BanUserHandler {
	return &BanUserHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "ban:<id>" callback.
func (h *BanUserHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	targetID, err := parseGiftID(payload)
	if err != nil {
		return err
	}
	h.conversations.Clear(query.From.ID)

	name := ""
	if p, err := h.svc.Participants.Get(ctx, targetID); err != nil {
		return fmt.Errorf("lookup participant %d: %w", targetID, err)
	} else if p != nil {
		name = p.DisplayName()
	}

	err = h.svc.BanActor(ctx, query.From.ID, targetID, name)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id":  query.From.ID,
		"target_id": targetID,
	}).Info("User banned")

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("admin", "◀️ Admin panel"))
	editText(bot, query, fmt.Sprintf("🔒 %s is now hidden from the bot.", name), &keyboard)
	return nil
}

// AdminUnbanHandler handles the "admin_unban" callback listing banned
// users as unban buttons.
type AdminUnbanHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewAdminUnbanHandler creates a new unban menu handler
func NewAdminUnbanHandler(svc *service.Service, logger *logrus.Logger) *AdminUnbanHandler {
	return &AdminUnbanHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "admin_unban" callback.
func (h *AdminUnbanHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	banned, err := h.svc.ListBanned(ctx, query.From.ID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	if len(banned) == 0 {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("admin", "◀️ Back"))
		editText(bot, query, "Nobody is banned.", &keyboard)
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, b := range banned {
		label := b.Name
		if label == "" {
			label = fmt.Sprintf("user %d", b.UserID)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔓 "+label, fmt.Sprintf("unban:%d", b.UserID))))
	}
	rows = append(rows, backRow("admin", "◀️ Back"))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	editText(bot, query, "🔓 Who gets access back?", &keyboard)
	return nil
}

// UnbanUserHandler handles the "unban:<id>" callback.
type UnbanUserHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewUnbanUserHandler creates a new unban action handler
func NewUnbanUserHandler(svc *service.Service, logger *logrus.Logger) *UnbanUserHandler {
	return &UnbanUserHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "unban:<id>" callback.
func (h *UnbanUserHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, payload string) error {
	ctx := context.Background()

	targetID, err := parseGiftID(payload)
	if err != nil {
		return err
	}

	err = h.svc.UnbanActor(ctx, query.From.ID, targetID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id":  query.From.ID,
		"target_id": targetID,
	}).Info("User unbanned")

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("admin", "◀️ Admin panel"))
	editText(bot, query, fmt.Sprintf("🔓 User %d can use the bot again.", targetID), &keyboard)
	return nil
}

// BannedListHandler handles the "admin_banned" callback.
type BannedListHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewBannedListHandler creates a new banned list handler
func NewBannedListHandler(svc *service.Service, logger *logrus.Logger) *BannedListHandler {
	return &BannedListHandler{svc: svc, logger: logger}
}

// HandleCallback processes the "admin_banned" callback.
func (h *BannedListHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	banned, err := h.svc.ListBanned(ctx, query.From.ID)
	if handled, err := respond(bot, query.Message.Chat.ID, err); handled || err != nil {
		return err
	}

	var sb strings.Builder
	if len(banned) == 0 {
		sb.WriteString("Nobody is banned.")
	} else {
		sb.WriteString("📜 *Banned users*\n\n")
		for _, b := range banned {
			name := b.Name
			if name == "" {
				name = "(no name)"
			}
			sb.WriteString(fmt.Sprintf("• %s — `%d`, since %s\n",
				name, b.UserID, b.BannedAt.Format("02.01.2006")))
		}
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("admin", "◀️ Back"))
	editText(bot, query, sb.String(), &keyboard)
	return nil
}

// AdminPromoteHandler handles the "admin_promote" callback starting the
// promotion step.
type AdminPromoteHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewAdminPromoteHandler creates a new promotion handler
func NewAdminPromoteHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *AdminPromoteHandler {
	return &AdminPromoteHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "admin_promote" callback.
func (h *AdminPromoteHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	if ok, err := panelAdmin(ctx, bot, h.svc, query); !ok {
		return err
	}

	h.conversations.Begin(query.From.ID, telegram.StepPromoteTarget)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("admin", "◀️ Back"))
	editText(bot, query, "👑 Send the user ID of the new administrator:", &keyboard)
	return nil
}

// AdminBroadcastHandler handles the "admin_broadcast" callback starting
// the broadcast text step.
type AdminBroadcastHandler struct {
	svc           *service.Service
	conversations *telegram.Conversations
	logger        *logrus.Logger
}

// NewAdminBroadcastHandler creates a new broadcast handler
func NewAdminBroadcastHandler(svc *service.Service, conversations *telegram.Conversations, logger *logrus.Logger) *AdminBroadcastHandler {
	return &AdminBroadcastHandler{svc: svc, conversations: conversations, logger: logger}
}

// HandleCallback processes the "admin_broadcast" callback.
func (h *AdminBroadcastHandler) HandleCallback(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery, _ string) error {
	ctx := context.Background()

	if ok, err := panelAdmin(ctx, bot, h.svc, query); !ok {
		return err
	}

	h.conversations.Begin(query.From.ID, telegram.StepBroadcastText)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("admin", "❌ Cancel"))
	editText(bot, query, "📣 Send the announcement text. Banned users will not receive it:", &keyboard)
	return nil
}

// panelAdmin rejects non-admin callers of panel sub-menus in place. It
// returns false after the rejection notice went out.
func panelAdmin(ctx context.Context, bot *tgbotapi.BotAPI, svc *service.Service, query *tgbotapi.CallbackQuery) (bool, error) {
	isAdmin, err := svc.IsAdmin(ctx, query.From.ID)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if !isAdmin {
		editText(bot, query, "⛔ Administrators only.", nil)
		return false, nil
	}
	return true, nil
}
