package mail

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinnerbell/internal/ports/output"
)

func TestNewInviteMessage(t *testing.T) {
	msg := NewInviteMessage("host@example.com", output.InviteEmail{
		To:         "guest@example.com",
		Subject:    "You're invited: Taco night",
		HTMLBody:   `<p><a href="https://dinnerbell.app/invite/e1?token=abc">RSVP</a></p>`,
		InviteLink: "https://dinnerbell.app/invite/e1?token=abc",
	})

	assert.Equal(t, []string{"host@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"guest@example.com"}, msg.GetHeader("To"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
	assert.Contains(t, buf.String(), "text/plain")
}

func TestNewSMTPMailer_DefaultsFromToUser(t *testing.T) {
	m := NewSMTPMailer("localhost", 2525, "bot@example.com", "pw", "")
	assert.Equal(t, "bot@example.com", m.from)
}
