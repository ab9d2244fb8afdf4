package email

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"strings"

	"ugiot.co.il/app/internal/modules/pricing"
)

var ErrNoRecipient = errors.New("confirmation email requires a customer email")

// OrderConfirmation is the payload of the confirmation email call.
type OrderConfirmation struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	OrderDetails  string `json:"orderDetails"`
	TotalPrice    int    `json:"totalPrice"`
	OrderNumber   string `json:"orderNumber,omitempty"`
}

type ConfirmationSender struct {
	sender Sender
}

func NewConfirmationSender(s Sender) *ConfirmationSender {
	return &ConfirmationSender{sender: s}
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<!doctype html>
<html lang="he" dir="rtl">
  <body style="font-family: Arial, sans-serif;">
    <h2>תודה על ההזמנה, {{.CustomerName}}!</h2>
    {{if .OrderNumber}}<p><strong>מספר הזמנה:</strong> #{{.OrderNumber}}</p>{{end}}
    <pre style="font-family: inherit;">{{.OrderDetails}}</pre>
    <p><strong>סה"כ לתשלום:</strong> {{.Total}}</p>
    <p>ניצור איתך קשר בטלפון {{.CustomerPhone}} לתיאום.</p>
  </body>
</html>
`))

func (s *ConfirmationSender) SendOrderConfirmation(ctx context.Context, in OrderConfirmation) error {
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return ErrNoRecipient
	}
	m, err := renderConfirmation(in)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, m)
}

func renderConfirmation(in OrderConfirmation) (Message, error) {
	total := pricing.Label(in.TotalPrice)

	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, struct {
		OrderConfirmation
		Total string
	}{in, total}); err != nil {
		return Message{}, err
	}

	subject := "אישור הזמנה"
	if in.OrderNumber != "" {
		subject += " #" + in.OrderNumber
	}

	var text strings.Builder
	text.WriteString("שלום " + in.CustomerName + ",\n\n")
	text.WriteString("ההזמנה שלך התקבלה.\n\n")
	text.WriteString(in.OrderDetails)
	text.WriteString("\n\nסה\"כ לתשלום: " + total + "\n")

	return Message{
		To:      in.CustomerEmail,
		ToName:  in.CustomerName,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
