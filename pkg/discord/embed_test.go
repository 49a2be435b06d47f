package discord

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dinnerbell/internal/domain/entities"
)

func TestBuildNoticeEmbed(t *testing.T) {
	event := &entities.Event{
		Title:         "Taco night",
		BellTime:      time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		Timezone:      "Europe/Paris",
		CoverImageURL: "https://res.cloudinary.com/demo/cover.jpg",
	}
	embed := BuildNoticeEmbed(event, "New RSVP", "Sam is going")

	assert.Equal(t, "New RSVP", embed.Title)
	assert.True(t, strings.HasPrefix(embed.Description, "Sam is going"))
	assert.Contains(t, embed.Description, "19:30")
	assert.Equal(t, "Dinner Bell • Taco night", embed.Footer.Text)
	assert.Equal(t, event.CoverImageURL, embed.Thumbnail.URL)
}

func TestBuildNoticeEmbed_TruncatesLongBody(t *testing.T) {
	event := &entities.Event{Title: "Long"}
	embed := BuildNoticeEmbed(event, "t", strings.Repeat("x", maxDescription+10))
	assert.Len(t, embed.Description, maxDescription)
	assert.Nil(t, embed.Thumbnail)
}
