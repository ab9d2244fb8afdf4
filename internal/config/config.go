// Package config loads the storefront configuration from the environment.
// A local .env file is honoured in development; production uses real env vars.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string // development|production
	Addr     string
	BaseURL  string
	LogLevel string

	// TrustedProxies may set X-Forwarded-For. Empty means the client IP is
	// always the connection's remote address.
	TrustedProxies []string

	DBDSN string

	SessionCookie string
	SessionTTL    time.Duration
	SessionSecret []byte
	CartCookie    string
	SecureCookies bool

	DefaultLang string

	// WhatsApp number of the bakery owner, E.164 digits without "+".
	OwnerWhatsApp string

	GuestRateLimit  int
	GuestRateWindow time.Duration

	Email   EmailConfig
	SMTP    SMTPConfig
	Storage StorageConfig
}

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // none|starttls|tls
	SkipVerifyTLS bool
}

type EmailConfig struct {
	Driver   string // smtp|mailtrap|log
	From     string
	FromName string

	MailtrapURL   string
	MailtrapToken string
}

type StorageConfig struct {
	Driver string // local|s3

	LocalDir       string
	LocalURLPrefix string

	S3Region        string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary env lookup (used by tests).
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(k, def string) string {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Env:      get("APP_ENV", "development"),
		Addr:     get("HTTP_ADDR", ":8080"),
		BaseURL:  get("APP_BASE_URL", "http://localhost:8080"),
		LogLevel: get("LOG_LEVEL", "info"),

		DBDSN: get("DB_DSN", ""),

		SessionCookie: get("SESSION_COOKIE", "ugiot_session"),
		SessionSecret: []byte(get("SESSION_SECRET", "")),
		CartCookie:    get("CART_COOKIE", "ugiot_cart"),

		DefaultLang:   get("DEFAULT_LANG", "he"),
		OwnerWhatsApp: get("WHATSAPP_OWNER_NUMBER", "972528882929"),

		Email: EmailConfig{
			Driver:        get("EMAIL_DRIVER", "log"),
			From:          get("EMAIL_FROM", "orders@ugiot.co.il"),
			FromName:      get("EMAIL_FROM_NAME", "Ugiot"),
			MailtrapURL:   get("MAILTRAP_API_URL", ""),
			MailtrapToken: get("MAILTRAP_API_TOKEN", ""),
		},
		SMTP: SMTPConfig{
			Host:    get("SMTP_HOST", "localhost"),
			Port:    get("SMTP_PORT", "1025"),
			User:    get("SMTP_USER", ""),
			Pass:    get("SMTP_PASS", ""),
			TLSMode: strings.ToLower(get("SMTP_TLS_MODE", "none")),
		},
		Storage: StorageConfig{
			Driver:          get("STORAGE_DRIVER", "local"),
			LocalDir:        get("LOCAL_UPLOAD_DIR", "./storage/uploads"),
			LocalURLPrefix:  get("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
			S3Region:        get("S3_REGION", ""),
			S3Bucket:        get("S3_BUCKET", ""),
			S3Prefix:        get("S3_PREFIX", "uploads"),
			S3PublicBaseURL: get("S3_PUBLIC_BASE_URL", ""),
		},
	}

	var err error
	if cfg.SessionTTL, err = parseDuration(get("SESSION_TTL", "720h")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.GuestRateWindow, err = parseDuration(get("GUEST_CHECKOUT_WINDOW", "1h")); err != nil {
		return Config{}, fmt.Errorf("GUEST_CHECKOUT_WINDOW: %w", err)
	}
	if cfg.GuestRateLimit, err = strconv.Atoi(get("GUEST_CHECKOUT_LIMIT", "10")); err != nil {
		return Config{}, fmt.Errorf("GUEST_CHECKOUT_LIMIT: %w", err)
	}
	cfg.TrustedProxies = splitList(get("TRUSTED_PROXIES", ""))
	cfg.SMTP.SkipVerifyTLS = parseBool(get("SMTP_SKIP_VERIFY", "false"))
	cfg.SecureCookies = parseBool(get("SECURE_COOKIES", strconv.FormatBool(cfg.IsProduction())))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// Validate checks required settings.
func (c Config) Validate() error {
	var errs []error
	if c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required"))
	}
	if len(c.SessionSecret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 bytes"))
	}
	if c.GuestRateLimit < 1 {
		errs = append(errs, errors.New("GUEST_CHECKOUT_LIMIT must be positive"))
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: invalid IP or CIDR %q", p))
			}
		}
	}
	if !isDigits(c.OwnerWhatsApp) {
		errs = append(errs, errors.New("WHATSAPP_OWNER_NUMBER must contain digits only"))
	}
	switch c.Email.Driver {
	case "smtp", "log":
	case "mailtrap":
		if c.Email.MailtrapURL == "" || c.Email.MailtrapToken == "" {
			errs = append(errs, errors.New("MAILTRAP_API_URL and MAILTRAP_API_TOKEN are required for EMAIL_DRIVER=mailtrap"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_DRIVER: %s", c.Email.Driver))
	}
	return errors.Join(errs...)
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
