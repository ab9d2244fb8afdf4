package checkout

import (
	"fmt"
	"strings"

	"ugiot.co.il/app/internal/modules/cart"
	"ugiot.co.il/app/internal/modules/pricing"
)

// Line is one cart line as submitted: unit price parsed from its label.
type Line struct {
	Name     string
	Quantity int
	Price    int
}

func linesFromCart(c *cart.Cart) []Line {
	out := make([]Line, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Quantity <= 0 {
			continue
		}
		out = append(out, Line{Name: it.Name, Quantity: it.Quantity, Price: pricing.ParseLabel(it.Price)})
	}
	return out
}

// OrderDetails is the plain-text item list used by the email and WhatsApp messages.
func OrderDetails(lines []Line) string {
	var b strings.Builder
	for i, ln := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s x%d (%s)", ln.Name, ln.Quantity, pricing.Label(ln.Price*ln.Quantity))
	}
	return b.String()
}

type messageData struct {
	OrderNumber string
	Form        Form
	Details     string
	Totals      pricing.Totals
}

func ownerMessage(d messageData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍪 הזמנה חדשה #%s\n\n", d.OrderNumber)
	fmt.Fprintf(&b, "שם: %s\nטלפון: %s\nאימייל: %s\n", d.Form.FullName, d.Form.Phone, d.Form.Email)
	if d.Form.DeliveryMethod == pricing.Delivery {
		fmt.Fprintf(&b, "משלוח: %s, %s\n", d.Form.Address, d.Form.City)
	} else {
		b.WriteString("איסוף עצמי\n")
	}
	if d.Form.Notes != "" {
		fmt.Fprintf(&b, "הערות: %s\n", d.Form.Notes)
	}
	fmt.Fprintf(&b, "\nפריטים:\n%s\n", d.Details)
	if d.Totals.DeliveryFee > 0 {
		fmt.Fprintf(&b, "דמי משלוח: %s\n", pricing.Label(d.Totals.DeliveryFee))
	}
	fmt.Fprintf(&b, "סה\"כ: %s", pricing.Label(d.Totals.Total))
	return b.String()
}

func customerMessage(d messageData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "שלום %s, תודה על ההזמנה! 🍪\n", d.Form.FullName)
	fmt.Fprintf(&b, "מספר הזמנה: #%s\n\n%s\n\n", d.OrderNumber, d.Details)
	fmt.Fprintf(&b, "סה\"כ לתשלום: %s\n", pricing.Label(d.Totals.Total))
	b.WriteString("ניצור איתך קשר בקרוב לתיאום.")
	return b.String()
}
