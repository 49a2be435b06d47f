// Package mail sends invite emails over SMTP.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"dinnerbell/internal/ports/output"
)

var _ output.Mailer = (*SMTPMailer)(nil)

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	if from == "" {
		from = user
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// SendInvite opens one SMTP session per message.
func (m *SMTPMailer) SendInvite(ctx context.Context, mail output.InviteEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(NewInviteMessage(m.from, mail)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// NewInviteMessage builds the MIME message with an HTML part and a plain
// text fallback carrying the link.
func NewInviteMessage(from string, mail output.InviteEmail) *gomail.Message {
	message := gomail.NewMessage()
	message.SetHeader("From", from)
	message.SetHeader("To", mail.To)
	message.SetHeader("Subject", mail.Subject)
	message.SetBody("text/plain", mail.InviteLink)
	message.AddAlternative("text/html", mail.HTMLBody)
	return message
}
