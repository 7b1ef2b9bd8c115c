package internal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	chord "github.com/WelcomerTeam/Chord"
)

// Embed colours for webhooks.
const (
	EmbedColourChord   = 5793266
	EmbedColourWarning = 16760839
	EmbedColourDanger  = 14431557

	WebhookRateLimitDuration = 5 * time.Second
	WebhookRateLimitLimit    = 5
)

// PublishSimpleWebhook is a helper function for creating quicker webhook
// messages.
func (d *Daemon) PublishSimpleWebhook(title, description, footer string, colour int32) {
	timestamp := chord.Timestamp(webhookTime(time.Now().UTC()))

	d.PublishWebhook(chord.WebhookMessage{
		Embeds: chord.EmbedList{
			{
				Title:       title,
				Description: description,
				Color:       colour,
				Timestamp:   &timestamp,
				Footer: &chord.EmbedFooter{
					Text: footer,
				},
			},
		},
	})
}

// PublishWebhook sends a webhook message to all webhooks in the
// configuration.
func (d *Daemon) PublishWebhook(message chord.WebhookMessage) {
	d.configurationMu.RLock()
	webhooks := d.Configuration.Webhooks
	d.configurationMu.RUnlock()

	for _, webhook := range webhooks {
		err := d.SendWebhook(webhook, message)
		if err != nil && !errors.Is(err, context.Canceled) {
			d.Logger.Warn().Err(err).Str("url", webhook).Msg("Failed to send webhook")
		}
	}
}

// SendWebhook executes a single webhook. The webhook url must carry its
// token.
func (d *Daemon) SendWebhook(webhookURL string, message chord.WebhookMessage) error {
	webhookURL = strings.TrimSpace(webhookURL)

	parsedURL, err := url.Parse(webhookURL)
	if err != nil {
		return fmt.Errorf("failed to parse webhook URL: %w", err)
	}

	endpoint := parsedURL.Path
	if parsedURL.RawQuery != "" {
		endpoint += "?" + parsedURL.RawQuery
	}

	_ = d.webhookBuckets.CreateWaitForBucket(webhookURL, WebhookRateLimitLimit, WebhookRateLimitDuration)

	err = d.Client.Interface.FetchJJ(d.Client, "POST", endpoint, message, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to execute webhook: %w", err)
	}

	return nil
}
