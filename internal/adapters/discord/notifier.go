// Package discord posts host notices to a Discord channel webhook.
package discord

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"dinnerbell/internal/ports/output"
	pkgdiscord "dinnerbell/pkg/discord"
)

var _ output.HostNotifier = (*WebhookNotifier)(nil)

// WebhookNotifier needs no bot token: webhook calls authenticate with the
// token embedded in the webhook URL.
type WebhookNotifier struct {
	session *discordgo.Session
	id      string
	token   string
	log     zerolog.Logger
}

// NewWebhookNotifier parses https://discord.com/api/webhooks/{id}/{token}.
func NewWebhookNotifier(webhookURL string, log zerolog.Logger) (*WebhookNotifier, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &WebhookNotifier{
		session: s,
		id:      id,
		token:   token,
		log:     log.With().Str("component", "discord").Logger(),
	}, nil
}

func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("discord webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("discord webhook url: expected /api/webhooks/{id}/{token}")
}

func (n *WebhookNotifier) NotifyHost(ctx context.Context, notice output.HostNotice) error {
	params := &discordgo.WebhookParams{
		Embeds:          []*discordgo.MessageEmbed{pkgdiscord.BuildNoticeEmbed(&notice.Event, notice.Title, notice.Body)},
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}
	if _, err := n.session.WebhookExecute(n.id, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	n.log.Debug().Str("event_id", notice.Event.ID).Msg("host notice posted")
	return nil
}
