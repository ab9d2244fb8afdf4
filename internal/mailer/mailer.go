package mailer

import "context"

type Service interface {
	Send(ctx context.Context, e Email) error
}

type Email struct {
	FromName string
	From     string

	To      []string
	ReplyTo string

	Subject string

	TextBody string
	HTMLBody string

	Headers map[string]string
}

func (e Email) Recipients() []string {
	out := make([]string, 0, len(e.To))
	return append(out, e.To...)
}
