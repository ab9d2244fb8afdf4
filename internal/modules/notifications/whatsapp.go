package notifications

import (
	"net/url"
	"strings"
)

const DefaultOwnerNumber = "972528882929"

// WhatsAppLink builds a wa.me deep link with a pre-filled message.
func WhatsAppLink(number, text string) string {
	return "https://wa.me/" + digits(number) + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// CustomerNumber turns a local Israeli number (05x…) into international form.
func CustomerNumber(phone string) string {
	d := digits(phone)
	switch {
	case strings.HasPrefix(d, "972"):
		return d
	case strings.HasPrefix(d, "0"):
		return "972" + d[1:]
	default:
		return "972" + d
	}
}

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
