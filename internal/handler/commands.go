package handler

import (
	"context"
	"errors"

	"github.com/mymmrac/telego"

	"reprasp/internal/logger"
	"reprasp/internal/models"
	"reprasp/internal/service"
)

// HandleMessage routes a private message: Web App submissions, commands,
// answers to an earlier prompt, and everything else.
func (h *Handler) HandleMessage(ctx context.Context, message telego.Message) error {
	if message.From == nil || message.From.IsBot {
		return nil
	}
	userID := message.From.ID
	chatID := message.Chat.ID

	if message.WebAppData != nil {
		h.handleWebAppData(ctx, chatID, userID, message.WebAppData.Data)
		return nil
	}

	if cmd := commandName(message.Text); cmd != "" {
		// any command abandons a half finished dialog
		h.inputs.Cancel(userID)
		return h.handleCommand(ctx, cmd, chatID, userID)
	}

	if message.Text == h.t("btn_retry") {
		h.inputs.Cancel(userID)
		h.sendMenu(ctx, chatID, userID)
		return nil
	}

	if input, ok := h.inputs.Take(userID); ok {
		h.handleInput(ctx, input, chatID, userID, message.Text)
		return nil
	}

	h.sendText(ctx, chatID, h.t("unknown_message"), nil)
	return nil
}

func (h *Handler) handleCommand(ctx context.Context, cmd string, chatID, userID int64) error {
	switch cmd {
	case "/start":
		h.sendMenu(ctx, chatID, userID)
	case "/help":
		h.sendHelp(ctx, chatID, userID)
	case "/schedule":
		h.sendSchedule(ctx, chatID)
	case "/cancel":
		h.sendText(ctx, chatID, h.t("input_cancelled"), &telego.ReplyKeyboardRemove{RemoveKeyboard: true})
	default:
		h.sendText(ctx, chatID, h.t("unknown_message"), nil)
	}
	return nil
}

func (h *Handler) handleWebAppData(ctx context.Context, chatID, userID int64, data string) {
	action, text, err := parseWebAppData(data)
	if err != nil {
		logger.Warningf("Bad web app data from %d: %v", userID, err)
		h.sendText(ctx, chatID, h.t("webapp_error"), nil)
		return
	}
	group, datetime, err := ParseEntryInput(text, h.wf.Location())
	if err != nil {
		h.sendInputError(ctx, chatID, err)
		return
	}
	if err := h.submit(ctx, chatID, userID, group, datetime, action, models.SourceWebApp); err != nil {
		h.sendInputError(ctx, chatID, err)
	}
}

func (h *Handler) handleInput(ctx context.Context, input models.PendingInput, chatID, userID int64, text string) {
	err := h.processInput(ctx, input, chatID, userID, text)
	if err == nil {
		return
	}
	if _, retry := inputErrorKey(err); retry {
		// keep waiting so that the corrected text can simply be resent
		h.inputs.Expect(userID, input)
	}
	h.sendInputError(ctx, chatID, err)
}

func (h *Handler) processInput(ctx context.Context, input models.PendingInput, chatID, userID int64, text string) error {
	switch input.Flow {
	case models.FlowAddEntry, models.FlowDeleteEntry:
		action := models.ActionAdd
		if input.Flow == models.FlowDeleteEntry {
			action = models.ActionDelete
		}
		group, datetime, err := ParseEntryInput(text, h.wf.Location())
		if err != nil {
			return err
		}
		return h.submit(ctx, chatID, userID, group, datetime, action, models.SourceBot)

	case models.FlowEditRequest:
		group, datetime, err := ParseEntryInput(text, h.wf.Location())
		if err != nil {
			return err
		}
		if _, err := h.wf.CommitRevision(ctx, userID, group, datetime); err != nil {
			return err
		}
		h.sendText(ctx, chatID, h.t("entry_edited"), &telego.ReplyKeyboardRemove{RemoveKeyboard: true})

	case models.FlowAddAdmin:
		target, err := ParseUserID(text)
		if err != nil {
			return err
		}
		if err := h.wf.AddAdmin(ctx, userID, target); err != nil {
			return err
		}
		h.sendText(ctx, chatID, h.t("admin_added"), &telego.ReplyKeyboardRemove{RemoveKeyboard: true})

	case models.FlowRemoveAdmin:
		target, err := ParseUserID(text)
		if err != nil {
			return err
		}
		if err := h.wf.RemoveAdmin(ctx, userID, target); err != nil {
			if errors.Is(err, models.ErrForbidden) {
				// the actor passed the admin check, so the target is the primary
				if ok, _ := h.wf.IsAdmin(ctx, userID); ok {
					h.sendText(ctx, chatID, h.t("admin_primary"), nil)
					return nil
				}
			}
			return err
		}
		h.sendText(ctx, chatID, h.t("admin_removed"), &telego.ReplyKeyboardRemove{RemoveKeyboard: true})

	default:
		logger.Warningf("Unknown input flow %q for user %d", input.Flow, userID)
	}
	return nil
}

func (h *Handler) submit(ctx context.Context, chatID, userID int64, group, datetime string, action models.Action, source models.Source) error {
	result, err := h.wf.SubmitChange(ctx, userID, group, datetime, action, source)
	if err != nil {
		return err
	}

	var key string
	switch {
	case result.Outcome == service.OutcomeCommitted && action == models.ActionAdd:
		key = "entry_added"
	case result.Outcome == service.OutcomeCommitted:
		key = "entry_deleted"
	case action == models.ActionAdd:
		key = "request_sent_add"
	default:
		key = "request_sent_delete"
	}
	h.sendText(ctx, chatID, h.t(key), &telego.ReplyKeyboardRemove{RemoveKeyboard: true})
	return nil
}
