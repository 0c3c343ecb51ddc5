// Package telegram builds the bot transport: poller selection, a tuned HTTP
// client, and the shared handler middleware chain.
package telegram

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/codecrafter02/papersbot/internal/config"
)

// BuildPoller returns a telebot poller based on the configured run mode:
// a webhook listener for deployments or long polling for development.
func BuildPoller(cfg *config.Config) tele.Poller {
	runMode := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if runMode == config.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}

	timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &tele.LongPoller{Timeout: time.Duration(timeoutSec) * time.Second}
}
