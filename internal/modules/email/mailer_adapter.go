package email

import (
	"context"

	"ugiot.co.il/app/internal/mailer"
)

// MailerAdapter sends through any mailer.Service (SMTP in production, Mock in tests).
type MailerAdapter struct {
	mailer   mailer.Service
	fromAddr string
	fromName string
}

func NewMailerAdapter(m mailer.Service, fromAddr, fromName string) *MailerAdapter {
	return &MailerAdapter{mailer: m, fromAddr: fromAddr, fromName: fromName}
}

func (a *MailerAdapter) Send(ctx context.Context, m Message) error {
	return a.mailer.Send(ctx, mailer.Email{
		From:     a.fromAddr,
		FromName: a.fromName,
		To:       []string{m.To},
		Subject:  m.Subject,
		TextBody: m.Text,
		HTMLBody: m.HTML,
	})
}
