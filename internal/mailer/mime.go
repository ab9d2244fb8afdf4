package mailer

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"sort"
	"strings"
	"time"
)

var (
	ErrNoRecipient = errors.New("mailer: at least one recipient required")
	ErrNoFrom      = errors.New("mailer: from address required")
	ErrNoSubject   = errors.New("mailer: subject required")
	ErrNoBody      = errors.New("mailer: text or html body required")
)

func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), addr)
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func validate(e Email) error {
	switch {
	case len(e.To) == 0:
		return ErrNoRecipient
	case e.From == "":
		return ErrNoFrom
	case e.Subject == "":
		return ErrNoSubject
	case e.TextBody == "" && e.HTMLBody == "":
		return ErrNoBody
	}
	return nil
}

// buildMessage renders e as RFC 5322 text. Bodies are quoted-printable so
// Hebrew content survives 7-bit relays.
func buildMessage(e Email, domain string, now time.Time) ([]byte, error) {
	if err := validate(e); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }

	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", randomHex(12), domain))
	header("From", formatAddress(e.FromName, e.From))
	header("To", strings.Join(e.To, ", "))
	if e.ReplyTo != "" {
		header("Reply-To", e.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", e.Subject))
	header("MIME-Version", "1.0")

	keys := make([]string, 0, len(e.Headers))
	for k, v := range e.Headers {
		if k != "" && v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		header(k, e.Headers[k])
	}

	if e.TextBody != "" && e.HTMLBody != "" {
		boundary := "alt-" + randomHex(12)
		header("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundary))
		b.WriteString("\r\n")
		for _, p := range []struct{ ctype, body string }{
			{"text/plain", e.TextBody},
			{"text/html", e.HTMLBody},
		} {
			fmt.Fprintf(&b, "--%s\r\n", boundary)
			if err := writePart(&b, p.ctype, p.body); err != nil {
				return nil, err
			}
		}
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
		return b.Bytes(), nil
	}

	ctype, body := "text/plain", e.TextBody
	if e.HTMLBody != "" {
		ctype, body = "text/html", e.HTMLBody
	}
	if err := writePart(&b, ctype, body); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func writePart(b *bytes.Buffer, ctype, body string) error {
	fmt.Fprintf(b, "Content-Type: %s; charset=UTF-8\r\n", ctype)
	b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	w := quotedprintable.NewWriter(b)
	if _, err := w.Write([]byte(body)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	b.WriteString("\r\n")
	return nil
}
