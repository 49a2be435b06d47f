package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookURL(t *testing.T) {
	id, token, err := ParseWebhookURL("https://discord.com/api/webhooks/123456/abc-DEF_ghi")
	require.NoError(t, err)
	assert.Equal(t, "123456", id)
	assert.Equal(t, "abc-DEF_ghi", token)
}

func TestParseWebhookURL_Rejects(t *testing.T) {
	for _, raw := range []string{
		"https://discord.com/api/channels/1/messages",
		"https://discord.com/api/webhooks/123456",
		"://bad",
	} {
		_, _, err := ParseWebhookURL(raw)
		assert.Error(t, err, raw)
	}
}
