package models

// Language constants
const (
	LangRussian = "ru"
	LangEnglish = "en"
)

// Translation is a map of message keys to translated text
type Translation map[string]string

// Translations stores all language translations
var Translations = map[string]Translation{
	LangRussian: {
		"menu_title":               "Бот для расписания репетиций. Выберите опцию:",
		"btn_add_entry":            "Добавить репу➕",
		"btn_delete_entry":         "Удалить репу➖",
		"btn_show_schedule":        "Посмотреть репы🍳",
		"btn_add_admin":            "Добавить админа👤",
		"btn_remove_admin":         "Удалить админа🚫",
		"btn_web_app":              "Открыть Web App 🌐",
		"btn_retry":                "Повторить🔁",
		"btn_accept":               "Принять✔",
		"btn_reject":               "Отклонить❌",
		"btn_edit":                 "Изменить дату и время🔁",
		"cmd_desc_start":           "Главное меню",
		"cmd_desc_schedule":        "Показать расписание",
		"cmd_desc_help":            "Справка",
		"cmd_desc_cancel":          "Отменить ввод",
		"help_text":                "Команды:\n/start - главное меню\n/schedule - расписание\n/cancel - отменить ввод\n\nДля записи отправьте две строки:\n{Название группы}\n{DD.MM.YYYY HH:MM}",
		"prompt_entry":             "Напишите данные для записи в формате:\n\n{Название группы}\n{Дата и время в формате DD.MM.YYYY HH:MM}",
		"prompt_edit":              "Введите измененные данные для записи в формате:\n\n{Название группы}\n{Дата и время в формате DD.MM.YYYY HH:MM}",
		"prompt_add_admin":         "Введите chat id человека для добавления его в админы.",
		"prompt_remove_admin":      "Введите chat id человека для удаления его из админов.",
		"input_cancelled":          "Ввод отменен.",
		"invalid_lines":            "Неверный формат данных. Попробуйте снова.",
		"invalid_date":             "Неверный формат даты. Используйте DD.MM.YYYY HH:MM.",
		"invalid_group":            "Неверное название группы. Попробуйте снова.",
		"invalid_user_id":          "Неверные данные. Попробуйте еще раз.",
		"schedule_title":           "Расписание:",
		"schedule_empty":           "Репетиций нет.",
		"entry_added":              "Запись успешно добавлена!",
		"entry_deleted":            "Запись успешно удалена!",
		"entry_edited":             "Измененная запись успешно добавлена!",
		"request_sent_add":         "Запрос на добавление записи отправлен админам.",
		"request_sent_delete":      "Запрос на удаление записи отправлен админам.",
		"notify_add":               "Поступил запрос (%s) на репетицию:\n\n%s\n%s",
		"notify_delete":            "Поступил запрос (%s) на удаление репетиции:\n\n%s\n%s",
		"source_bot":               "🤖 бот",
		"source_webapp":            "🌐 Web App",
		"source_api":               "🔌 API",
		"decision_approved_add":    "Запись успешно добавлена в расписание✔",
		"decision_approved_delete": "Запись успешно удалена из расписания✔",
		"decision_rejected":        "Запрос отклонен❌",
		"decision_stale":           "Запрос уже обработан другим админом.",
		"requester_approved":       "Ваш запрос одобрен✔\n\n%s\n%s",
		"requester_rejected":       "Ваш запрос отклонен❌\n\n%s\n%s",
		"not_admin":                "У вас недостаточно прав для этого.",
		"admin_added":              "Админ успешно добавлен✔.",
		"admin_removed":            "Админ успешно удален✔.",
		"admin_primary":            "Невозможно удалить первичного админа❌.",
		"webapp_error":             "Произошла ошибка при обработке заявки.",
		"internal_error":           "Что-то пошло не так, попробуйте позже.",
		"unknown_message":          "Отправьте /start, чтобы открыть меню.",
	},
	LangEnglish: {
		"menu_title":               "Rehearsal schedule bot. Choose an option:",
		"btn_add_entry":            "Add rehearsal➕",
		"btn_delete_entry":         "Remove rehearsal➖",
		"btn_show_schedule":        "Show schedule🍳",
		"btn_add_admin":            "Add admin👤",
		"btn_remove_admin":         "Remove admin🚫",
		"btn_web_app":              "Open Web App 🌐",
		"btn_retry":                "Retry🔁",
		"btn_accept":               "Accept✔",
		"btn_reject":               "Reject❌",
		"btn_edit":                 "Change date and time🔁",
		"cmd_desc_start":           "Main menu",
		"cmd_desc_schedule":        "Show the schedule",
		"cmd_desc_help":            "Help",
		"cmd_desc_cancel":          "Cancel input",
		"help_text":                "Commands:\n/start - main menu\n/schedule - schedule\n/cancel - cancel input\n\nTo book a slot send two lines:\n{Group name}\n{DD.MM.YYYY HH:MM}",
		"prompt_entry":             "Send the booking as:\n\n{Group name}\n{Date and time as DD.MM.YYYY HH:MM}",
		"prompt_edit":              "Send the corrected booking as:\n\n{Group name}\n{Date and time as DD.MM.YYYY HH:MM}",
		"prompt_add_admin":         "Send the chat id of the user to make admin.",
		"prompt_remove_admin":      "Send the chat id of the admin to remove.",
		"input_cancelled":          "Input cancelled.",
		"invalid_lines":            "Invalid format. Please try again.",
		"invalid_date":             "Invalid date. Use DD.MM.YYYY HH:MM.",
		"invalid_group":            "Invalid group name. Please try again.",
		"invalid_user_id":          "Invalid user id. Please try again.",
		"schedule_title":           "Schedule:",
		"schedule_empty":           "No rehearsals.",
		"entry_added":              "Rehearsal added!",
		"entry_deleted":            "Rehearsal removed!",
		"entry_edited":             "Corrected rehearsal added!",
		"request_sent_add":         "Your add request was sent to the admins.",
		"request_sent_delete":      "Your remove request was sent to the admins.",
		"notify_add":               "New rehearsal request (%s):\n\n%s\n%s",
		"notify_delete":            "New removal request (%s):\n\n%s\n%s",
		"source_bot":               "🤖 bot",
		"source_webapp":            "🌐 Web App",
		"source_api":               "🔌 API",
		"decision_approved_add":    "Rehearsal added to the schedule✔",
		"decision_approved_delete": "Rehearsal removed from the schedule✔",
		"decision_rejected":        "Request rejected❌",
		"decision_stale":           "This request was already processed by another admin.",
		"requester_approved":       "Your request was approved✔\n\n%s\n%s",
		"requester_rejected":       "Your request was rejected❌\n\n%s\n%s",
		"not_admin":                "You don't have permission to do this.",
		"admin_added":              "Admin added✔.",
		"admin_removed":            "Admin removed✔.",
		"admin_primary":            "The primary admin cannot be removed❌.",
		"webapp_error":             "Failed to process the request.",
		"internal_error":           "Something went wrong, please try later.",
		"unknown_message":          "Send /start to open the menu.",
	},
}

// GetTranslation returns the translated text for a key in the specified language
func GetTranslation(lang, key string) string {
	if translations, ok := Translations[lang]; ok {
		if translation, ok := translations[key]; ok {
			return translation
		}
	}

	// Fall back to Russian if key not found in specified language
	if translation, ok := Translations[LangRussian][key]; ok {
		return translation
	}

	// Return the key itself if translation not found
	return key
}

// SourceLabel returns the localized label of a request source.
func SourceLabel(lang string, source Source) string {
	switch source {
	case SourceWebApp:
		return GetTranslation(lang, "source_webapp")
	case SourceAPI:
		return GetTranslation(lang, "source_api")
	default:
		return GetTranslation(lang, "source_bot")
	}
}
