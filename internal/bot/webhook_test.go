package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookURL(t *testing.T) {
	tests := []struct {
		endpoint string
		path     string
		want     string
	}{
		{"https://bot.example.org", "/telegram/webhook", "https://bot.example.org/telegram/webhook"},
		{"https://bot.example.org/", "/telegram/webhook", "https://bot.example.org/telegram/webhook"},
		{"https://bot.example.org/prefix", "/telegram/webhook", "https://bot.example.org/prefix/telegram/webhook"},
		{"https://bot.example.org/telegram/webhook", "/telegram/webhook", "https://bot.example.org/telegram/webhook"},
	}
	for _, tt := range tests {
		got, err := webhookURL(tt.endpoint, tt.path)
		require.NoError(t, err, tt.endpoint)
		assert.Equal(t, tt.want, got)
	}

	_, err := webhookURL("http://bot.example.org", "/hook")
	assert.Error(t, err)
	_, err = webhookURL("https://bot.example.org", "hook")
	assert.Error(t, err)
}
