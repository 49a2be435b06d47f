package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"dinnerbell/internal/domain/entities"
	"dinnerbell/pkg/tz"
)

const (
	embedColor  = 0xE0A526
	embedFooter = "Dinner Bell"
	// Discord rejects embed descriptions above 4096 characters.
	maxDescription = 4096
)

// FormatBellTime renders the bell time in the event's own timezone.
func FormatBellTime(event *entities.Event) string {
	if event.BellTime.IsZero() {
		return ""
	}
	return tz.Format(event.BellTime, event.Timezone, "Mon 02 Jan 2006 15:04 MST")
}

// BuildNoticeEmbed builds the embed posted for a host notice.
func BuildNoticeEmbed(event *entities.Event, title, body string) *discordgo.MessageEmbed {
	var b strings.Builder
	b.WriteString(body)
	if when := FormatBellTime(event); when != "" {
		b.WriteString(fmt.Sprintf("\n\n**🔔** %s", when))
	}
	desc := b.String()
	if len(desc) > maxDescription {
		desc = desc[:maxDescription]
	}
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: desc,
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: embedFooter + " • " + event.Title},
	}
	if event.CoverImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: event.CoverImageURL}
	}
	return embed
}
