package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ugiot.co.il/app/internal/config"
)

type MailtrapSender struct {
	apiURL   string
	apiKey   string
	from     PersonInfo
	client   *http.Client
	category string
}

type MailtrapPayload struct {
	From     PersonInfo   `json:"from"`
	To       []PersonInfo `json:"to"`
	Subject  string       `json:"subject"`
	Text     string       `json:"text,omitempty"`
	HTML     string       `json:"html,omitempty"`
	Category string       `json:"category,omitempty"`
}

type PersonInfo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func NewMailtrapSender(cfg config.EmailConfig) *MailtrapSender {
	return &MailtrapSender{
		apiURL:   cfg.MailtrapURL,
		apiKey:   cfg.MailtrapToken,
		from:     PersonInfo{Email: cfg.From, Name: cfg.FromName},
		client:   &http.Client{Timeout: 10 * time.Second},
		category: "Order Confirmation",
	}
}

func (s *MailtrapSender) Send(ctx context.Context, m Message) error {
	if s.apiURL == "" || s.apiKey == "" {
		return fmt.Errorf("mailtrap credentials not configured")
	}

	body, err := json.Marshal(MailtrapPayload{
		From:     s.from,
		To:       []PersonInfo{{Email: m.To, Name: m.ToName}},
		Subject:  m.Subject,
		Text:     m.Text,
		HTML:     m.HTML,
		Category: s.category,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))

	if res.StatusCode >= 400 {
		return fmt.Errorf("mailtrap API error: %d", res.StatusCode)
	}
	return nil
}
