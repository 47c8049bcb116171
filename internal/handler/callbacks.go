package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/mymmrac/telego"

	"reprasp/internal/logger"
	"reprasp/internal/models"
)

// HandleCallbackQuery handles menu buttons and admin decisions on requests.
func (h *Handler) HandleCallbackQuery(ctx context.Context, query telego.CallbackQuery) error {
	message, ok := query.Message.(*telego.Message)
	if !ok || message == nil {
		h.answer(ctx, query.ID, "", false)
		return nil
	}

	switch {
	case strings.HasPrefix(query.Data, cbMenu+":"):
		return h.handleMenu(ctx, query, message.Chat.ID, strings.TrimPrefix(query.Data, cbMenu+":"))
	case strings.HasPrefix(query.Data, cbRequest+":"):
		return h.handleRequestDecision(ctx, query, message)
	default:
		logger.Warningf("Unknown callback data %q from %d", query.Data, query.From.ID)
		h.answer(ctx, query.ID, "", false)
		return nil
	}
}

func (h *Handler) handleMenu(ctx context.Context, query telego.CallbackQuery, chatID int64, item string) error {
	userID := query.From.ID

	switch item {
	case menuAdd, menuDelete:
		flow := models.FlowAddEntry
		if item == menuDelete {
			flow = models.FlowDeleteEntry
		}
		h.inputs.Expect(userID, models.PendingInput{Flow: flow, ChatID: chatID})
		h.answer(ctx, query.ID, "", false)
		h.sendText(ctx, chatID, h.t("prompt_entry"), nil)

	case menuSchedule:
		h.answer(ctx, query.ID, "", false)
		h.sendSchedule(ctx, chatID)

	case menuAddAdmin, menuRemoveAdmin:
		if !h.requireAdmin(ctx, query) {
			return nil
		}
		flow, prompt := models.FlowAddAdmin, "prompt_add_admin"
		if item == menuRemoveAdmin {
			flow, prompt = models.FlowRemoveAdmin, "prompt_remove_admin"
		}
		h.inputs.Expect(userID, models.PendingInput{Flow: flow, ChatID: chatID})
		h.answer(ctx, query.ID, "", false)
		h.sendText(ctx, chatID, h.t(prompt), nil)

	default:
		logger.Warningf("Unknown menu item %q from %d", item, userID)
		h.answer(ctx, query.ID, "", false)
	}
	return nil
}

// requireAdmin answers the query with an alert and returns false for non-admins.
func (h *Handler) requireAdmin(ctx context.Context, query telego.CallbackQuery) bool {
	isAdmin, err := h.wf.IsAdmin(ctx, query.From.ID)
	if err != nil {
		logger.Errorf("Error checking admin status of %d: %v", query.From.ID, err)
		h.answer(ctx, query.ID, h.t("internal_error"), true)
		return false
	}
	if !isAdmin {
		h.answer(ctx, query.ID, h.t("not_admin"), true)
		return false
	}
	return true
}

func (h *Handler) handleRequestDecision(ctx context.Context, query telego.CallbackQuery, message *telego.Message) error {
	op, id, err := parseRequestData(query.Data)
	if err != nil {
		logger.Warningf("Bad request callback from %d: %v", query.From.ID, err)
		h.answer(ctx, query.ID, "", false)
		return nil
	}
	chatID := message.Chat.ID

	if op == reqEdit {
		if !h.requireAdmin(ctx, query) {
			return nil
		}
		h.inputs.Expect(query.From.ID, models.PendingInput{Flow: models.FlowEditRequest, ChatID: chatID, RequestID: id})
		h.answer(ctx, query.ID, "", false)
		h.sendText(ctx, chatID, h.t("prompt_edit"), nil)
		return nil
	}

	approve := op == reqApprove
	req, err := h.wf.Decide(ctx, query.From.ID, id, approve)
	switch {
	case errors.Is(err, models.ErrForbidden):
		h.answer(ctx, query.ID, h.t("not_admin"), true)
		return nil
	case errors.Is(err, models.ErrNotFound):
		h.answer(ctx, query.ID, h.t("decision_stale"), true)
		h.clearButtons(ctx, chatID, message.MessageID)
		return nil
	case err != nil:
		logger.Errorf("Error deciding request %d: %v", id, err)
		h.answer(ctx, query.ID, h.t("internal_error"), true)
		return nil
	}

	key := "decision_rejected"
	if approve {
		key = "decision_approved_add"
		if req.Action == models.ActionDelete {
			key = "decision_approved_delete"
		}
	}
	h.answer(ctx, query.ID, h.t(key), false)
	h.clearButtons(ctx, chatID, message.MessageID)
	h.sendText(ctx, chatID, h.t(key), nil)
	return nil
}

// clearButtons removes the decision keyboard from an admin notification.
func (h *Handler) clearButtons(ctx context.Context, chatID int64, messageID int) {
	_, err := h.bot.EditMessageReplyMarkup(ctx, &telego.EditMessageReplyMarkupParams{
		ChatID:    telego.ChatID{ID: chatID},
		MessageID: messageID,
	})
	if err != nil {
		logger.Debugf("Error clearing buttons of message %d: %v", messageID, err)
	}
}
