package cartcookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/modules/cart"
)

// CountHeader carries the cart's item count on every response that touches it.
const CountHeader = "X-Cart-Count"

// maxValue stays under the 4KB browser cookie limit with room for attributes.
const maxValue = 3800

var (
	ErrInvalid  = errors.New("invalid cart cookie")
	ErrTooLarge = errors.New("cart too large for cookie")
)

// Codec stores the whole cart in a signed session cookie. It has no MaxAge,
// so the cart ends with the browser session.
type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
}

func New(secret []byte, name string, secure bool) *Codec {
	return &Codec{Secret: secret, CookieName: name, Secure: secure}
}

// value format: base64url(json).base64url(hmac(payload))
func (c *Codec) Encode(ct *cart.Cart) (string, error) {
	raw, err := json.Marshal(ct)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	v := payload + "." + sign(c.Secret, payload)
	if len(v) > maxValue {
		return "", ErrTooLarge
	}
	return v, nil
}

func (c *Codec) Decode(v string) (*cart.Cart, error) {
	payload, sig, ok := strings.Cut(v, ".")
	if !ok || payload == "" || strings.Contains(sig, ".") {
		return nil, ErrInvalid
	}
	if !verify(c.Secret, payload, sig) {
		return nil, ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalid
	}
	ct := cart.New()
	if err := json.Unmarshal(raw, ct); err != nil {
		return nil, ErrInvalid
	}
	if ct.Items == nil {
		ct.Items = []cart.Item{}
	}
	ct.Normalize()
	return ct, nil
}

// Load returns the request's cart, or an empty one. A tampered cookie is cleared.
func (c *Codec) Load(ctx *gin.Context) *cart.Cart {
	v, err := ctx.Cookie(c.CookieName)
	if err != nil || v == "" {
		return cart.New()
	}
	ct, err := c.Decode(v)
	if err != nil {
		c.Clear(ctx)
		return cart.New()
	}
	return ct
}

// Save writes the cart back. A cart with no lines and no order number removes
// the cookie; an emptied cart keeps its order number until cleared.
func (c *Codec) Save(ctx *gin.Context, ct *cart.Cart) error {
	if ct == nil || (ct.IsEmpty() && ct.OrderNumber == "") {
		c.Clear(ctx)
		return nil
	}
	val, err := c.Encode(ct)
	if err != nil {
		return err
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, val, 0, "/", "", c.Secure, true)
	ctx.Header(CountHeader, strconv.Itoa(ct.TotalItems()))
	return nil
}

func (c *Codec) Clear(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, "", -1, "/", "", c.Secure, true)
	ctx.Header(CountHeader, "0")
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verify(secret []byte, payload, sig string) bool {
	return hmac.Equal([]byte(sign(secret, payload)), []byte(sig))
}
