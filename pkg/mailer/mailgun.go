package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

var errNoRecipient = errors.New("mailer: empty recipient")

// Mailgun sends email through the Mailgun HTTP API.
type Mailgun struct {
	client  mg.Mailgun
	from    string
	timeout time.Duration
}

var _ Sender = (*Mailgun)(nil)

func NewMailgun(domain, apiKey, from string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), from: from, timeout: 10 * time.Second}
}

// Send delivers one message. html is optional and, when set, becomes the HTML part.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if to == "" {
		return errNoRecipient
	}
	msg := m.client.NewMessage(m.from, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
