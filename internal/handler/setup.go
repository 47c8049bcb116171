package handler

import (
	"context"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"reprasp/internal/config"
	"reprasp/internal/models"
	"reprasp/internal/service"
)

// Sender is the subset of *telego.Bot the handlers call.
type Sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error
	EditMessageReplyMarkup(ctx context.Context, params *telego.EditMessageReplyMarkupParams) (*telego.Message, error)
}

// Workflow is the part of service.Workflow the bot front-end drives.
type Workflow interface {
	SubmitChange(ctx context.Context, actorID int64, group, datetime string, action models.Action, source models.Source) (*service.SubmitResult, error)
	Decide(ctx context.Context, deciderID int64, requestID uint, approve bool) (*models.PendingRequest, error)
	CommitRevision(ctx context.Context, actorID int64, group, datetime string) (*service.SubmitResult, error)
	ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error)
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	AddAdmin(ctx context.Context, actorID, targetID int64) error
	RemoveAdmin(ctx context.Context, actorID, targetID int64) error
	FormatTime(t time.Time) string
	Location() *time.Location
}

// Handler translates Telegram updates into workflow calls.
type Handler struct {
	wf        Workflow
	bot       Sender
	inputs    *models.PendingInputManager
	lang      string
	webAppURL string
}

// New creates the bot handler. inputs tracks "next message answers a
// prompt" state per user.
func New(wf Workflow, bot Sender, inputs *models.PendingInputManager, cfg config.BotConfig) *Handler {
	lang := cfg.Language
	if _, ok := models.Translations[lang]; !ok {
		lang = models.LangRussian
	}
	return &Handler{
		wf:        wf,
		bot:       bot,
		inputs:    inputs,
		lang:      lang,
		webAppURL: cfg.WebAppURL,
	}
}

// SetupMessageHandlers configures all bot message and update handlers
func (h *Handler) SetupMessageHandlers(bh *th.BotHandler) {
	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		return h.HandleMessage(ctx, message)
	})

	bh.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		return h.HandleCallbackQuery(ctx, query)
	})
}

func (h *Handler) t(key string) string {
	return models.GetTranslation(h.lang, key)
}
