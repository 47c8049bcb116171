package handler

import (
	"github.com/mymmrac/telego"
)

func (h *Handler) menuKeyboard(isAdmin bool) *telego.InlineKeyboardMarkup {
	rows := [][]telego.InlineKeyboardButton{
		{
			{Text: h.t("btn_add_entry"), CallbackData: menuData(menuAdd)},
			{Text: h.t("btn_delete_entry"), CallbackData: menuData(menuDelete)},
		},
		{
			{Text: h.t("btn_show_schedule"), CallbackData: menuData(menuSchedule)},
		},
	}
	if isAdmin {
		rows = append(rows, []telego.InlineKeyboardButton{
			{Text: h.t("btn_add_admin"), CallbackData: menuData(menuAddAdmin)},
			{Text: h.t("btn_remove_admin"), CallbackData: menuData(menuRemoveAdmin)},
		})
	}
	if h.webAppURL != "" {
		rows = append(rows, []telego.InlineKeyboardButton{
			{Text: h.t("btn_web_app"), WebApp: &telego.WebAppInfo{URL: h.webAppURL}},
		})
	}
	return &telego.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (h *Handler) retryKeyboard() *telego.ReplyKeyboardMarkup {
	return &telego.ReplyKeyboardMarkup{
		Keyboard: [][]telego.KeyboardButton{
			{{Text: h.t("btn_retry")}},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

func (h *Handler) requestKeyboard(id uint, withEdit bool) *telego.InlineKeyboardMarkup {
	rows := [][]telego.InlineKeyboardButton{
		{
			{Text: h.t("btn_accept"), CallbackData: requestData(reqApprove, id)},
			{Text: h.t("btn_reject"), CallbackData: requestData(reqReject, id)},
		},
	}
	if withEdit {
		rows = append(rows, []telego.InlineKeyboardButton{
			{Text: h.t("btn_edit"), CallbackData: requestData(reqEdit, id)},
		})
	}
	return &telego.InlineKeyboardMarkup{InlineKeyboard: rows}
}
