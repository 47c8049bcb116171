package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mymmrac/telego"

	"reprasp/internal/logger"
)

// SetupWebhook registers the webhook with Telegram and mounts the update
// receiver on mux at path. The endpoint must be the public HTTPS URL that
// reaches that path.
func SetupWebhook(ctx context.Context, bot *telego.Bot, mux *http.ServeMux, endpoint, path, secretToken string) (<-chan telego.Update, error) {
	if mux == nil {
		return nil, fmt.Errorf("webhook mode needs the API server mux")
	}
	hookURL, err := webhookURL(endpoint, path)
	if err != nil {
		return nil, err
	}

	logger.Infof("Setting webhook to: %s", hookURL)
	err = bot.SetWebhook(ctx, &telego.SetWebhookParams{
		URL:            hookURL,
		AllowedUpdates: allowedUpdates,
		SecretToken:    secretToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook: %w", err)
	}

	webhookInfo, err := bot.GetWebhookInfo(ctx)
	if err != nil {
		logger.Warningf("Failed to get webhook info: %v", err)
	} else {
		logger.Infof("Webhook info: URL=%s, PendingUpdateCount=%d", webhookInfo.URL, webhookInfo.PendingUpdateCount)
		if webhookInfo.LastErrorDate > 0 {
			logger.Warningf("Webhook last error: [%d] %s", webhookInfo.LastErrorDate, webhookInfo.LastErrorMessage)
		}
	}

	updates, err := bot.UpdatesViaWebhook(ctx, telego.WebhookHTTPServeMux(mux, path, secretToken))
	if err != nil {
		return nil, fmt.Errorf("failed to get updates channel: %w", err)
	}
	return updates, nil
}

// webhookURL joins the public endpoint and the local route. An endpoint
// that already ends with path is used as is.
func webhookURL(endpoint, path string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid webhook endpoint: %w", err)
	}
	if u.Scheme != "https" {
		return "", fmt.Errorf("webhook endpoint must use https, got %q", endpoint)
	}
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("webhook path must start with /, got %q", path)
	}
	if !strings.HasSuffix(u.Path, path) {
		u.Path = strings.TrimSuffix(u.Path, "/") + path
	}
	return u.String(), nil
}
