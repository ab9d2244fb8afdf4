package email

import (
	"context"
	"fmt"
	"log/slog"

	"ugiot.co.il/app/internal/config"
	"ugiot.co.il/app/internal/mailer"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// NewSender picks the transport named by EMAIL_DRIVER.
func NewSender(cfg config.Config, log *slog.Logger) (Sender, error) {
	switch cfg.Email.Driver {
	case "smtp":
		return NewMailerAdapter(mailer.NewSMTPMailer(cfg.SMTP), cfg.Email.From, cfg.Email.FromName), nil
	case "mailtrap":
		return NewMailtrapSender(cfg.Email), nil
	case "log", "":
		return LogSender{Log: log}, nil
	default:
		return nil, fmt.Errorf("unknown email driver: %s", cfg.Email.Driver)
	}
}

// LogSender writes the message to the log instead of delivering it.
type LogSender struct{ Log *slog.Logger }

func (s LogSender) Send(ctx context.Context, m Message) error {
	l := s.Log
	if l == nil {
		l = slog.Default()
	}
	l.InfoContext(ctx, "email (log driver)", "to", m.To, "subject", m.Subject)
	return nil
}
