package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"

	"reprasp/internal/logger"
	"reprasp/internal/models"
)

func (h *Handler) send(ctx context.Context, chatID int64, text string, markup telego.ReplyMarkup) error {
	params := &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	_, err := h.bot.SendMessage(ctx, params)
	return err
}

// sendText is send with failures only logged.
func (h *Handler) sendText(ctx context.Context, chatID int64, text string, markup telego.ReplyMarkup) {
	if err := h.send(ctx, chatID, text, markup); err != nil {
		logger.Warningf("Error sending message to %d: %v", chatID, err)
	}
}

func (h *Handler) answer(ctx context.Context, queryID, text string, alert bool) {
	err := h.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		logger.Warningf("Error answering callback query %s: %v", queryID, err)
	}
}

func (h *Handler) sendMenu(ctx context.Context, chatID, userID int64) {
	isAdmin, err := h.wf.IsAdmin(ctx, userID)
	if err != nil {
		logger.Warningf("Error checking admin status of %d: %v", userID, err)
	}
	h.sendText(ctx, chatID, h.t("menu_title"), h.menuKeyboard(isAdmin))
}

func (h *Handler) sendHelp(ctx context.Context, chatID, userID int64) {
	isAdmin, err := h.wf.IsAdmin(ctx, userID)
	if err != nil {
		logger.Warningf("Error checking admin status of %d: %v", userID, err)
	}
	h.sendText(ctx, chatID, h.t("help_text"), h.menuKeyboard(isAdmin))
}

// scheduleText renders one "DD.MM.YYYY HH:MM: group" line per entry.
func (h *Handler) scheduleText(entries []models.ScheduleEntry) string {
	if len(entries) == 0 {
		return h.t("schedule_empty")
	}
	var sb strings.Builder
	sb.WriteString(h.t("schedule_title"))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("\n%s: %s", h.wf.FormatTime(e.StartTime), e.GroupName))
	}
	return sb.String()
}

func (h *Handler) sendSchedule(ctx context.Context, chatID int64) {
	entries, err := h.wf.ListSchedule(ctx)
	if err != nil {
		logger.Errorf("Error listing schedule: %v", err)
		h.sendText(ctx, chatID, h.t("internal_error"), nil)
		return
	}
	h.sendText(ctx, chatID, h.scheduleText(entries), nil)
}

// inputErrorKey maps a parse or validation error to the message shown to
// the user, and reports whether a retry makes sense.
func inputErrorKey(err error) (string, bool) {
	switch {
	case errors.Is(err, errBadLines):
		return "invalid_lines", true
	case errors.Is(err, errBadDate):
		return "invalid_date", true
	case errors.Is(err, errBadGroup):
		return "invalid_group", true
	case errors.Is(err, errBadUserID):
		return "invalid_user_id", true
	case errors.Is(err, models.ErrInvalidFormat):
		return "invalid_lines", true
	case errors.Is(err, models.ErrForbidden):
		return "not_admin", false
	default:
		return "internal_error", false
	}
}

func (h *Handler) sendInputError(ctx context.Context, chatID int64, err error) {
	key, retry := inputErrorKey(err)
	if key == "internal_error" {
		logger.Errorf("Error handling input from chat %d: %v", chatID, err)
	}
	var markup telego.ReplyMarkup
	if retry {
		markup = h.retryKeyboard()
	}
	h.sendText(ctx, chatID, h.t(key), markup)
}
