package bot

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"reprasp/internal/config"
	"reprasp/internal/logger"
	"reprasp/internal/models"
)

// BotService represents the Telegram bot service
type BotService struct {
	Bot     *telego.Bot
	Handler *th.BotHandler
}

// Start runs the update loop; it blocks until Stop.
func (b *BotService) Start() {
	b.Handler.Start()
}

// Stop stops the bot handler
func (b *BotService) Stop() {
	b.Handler.Stop()
}

// allowedUpdates are the only update kinds the bot reacts to.
var allowedUpdates = []string{"message", "callback_query"}

// Initialize connects to Telegram and prepares the update source. In webhook
// mode the webhook route is registered on mux, which the API server serves.
func Initialize(ctx context.Context, cfg *config.Config, mux *http.ServeMux) (*BotService, error) {
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	var opts []telego.BotOption
	if cfg.Bot.Debug {
		opts = append(opts, telego.WithDefaultDebugLogger())
	}
	bot, err := telego.NewBot(cfg.Bot.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	botUser, err := bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	logger.Infof("Authorized on account %s", botUser.Username)

	setLocalizedCommands(ctx, bot, cfg.Bot.Language)

	var updates <-chan telego.Update
	switch cfg.Bot.Mode {
	case config.ModeWebhook:
		updates, err = SetupWebhook(ctx, bot, mux, cfg.Bot.Webhook.Endpoint, cfg.Bot.Webhook.Path, cfg.WebhookSecret())
	default:
		updates, err = startPolling(ctx, bot)
	}
	if err != nil {
		return nil, err
	}

	bh, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	return &BotService{
		Bot:     bot,
		Handler: bh,
	}, nil
}

func startPolling(ctx context.Context, bot *telego.Bot) (<-chan telego.Update, error) {
	// a webhook left from an earlier deployment blocks getUpdates
	if err := bot.DeleteWebhook(ctx, &telego.DeleteWebhookParams{}); err != nil {
		return nil, fmt.Errorf("failed to delete existing webhook: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		AllowedUpdates: allowedUpdates,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start long polling: %w", err)
	}
	logger.Infof("Receiving updates via long polling")
	return updates, nil
}

// setLocalizedCommands sets bot commands in different languages
func setLocalizedCommands(ctx context.Context, bot *telego.Bot, defaultLang string) {
	commandKeys := []struct {
		Command string
		DescKey string
	}{
		{Command: "start", DescKey: "cmd_desc_start"},
		{Command: "schedule", DescKey: "cmd_desc_schedule"},
		{Command: "cancel", DescKey: "cmd_desc_cancel"},
		{Command: "help", DescKey: "cmd_desc_help"},
	}

	commandsFor := func(lang string) []telego.BotCommand {
		var commands []telego.BotCommand
		for _, cmd := range commandKeys {
			commands = append(commands, telego.BotCommand{
				Command:     cmd.Command,
				Description: models.GetTranslation(lang, cmd.DescKey),
			})
		}
		return commands
	}

	for lang := range models.Translations {
		err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
			Commands:     commandsFor(lang),
			LanguageCode: lang,
		})
		if err != nil {
			logger.Warningf("Failed to set bot commands for %s: %v", lang, err)
		}
	}

	// commands for clients whose language has no translation
	err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: commandsFor(defaultLang),
	})
	if err != nil {
		logger.Warningf("Failed to set default bot commands: %v", err)
	}
}
