package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type Lang string

const (
	He Lang = "he"
	En Lang = "en"
)

// ParseLang accepts "en", "en-US", "he-IL" and similar; anything else is Hebrew.
func ParseLang(s string) Lang {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, ",;"); i >= 0 {
		s = s[:i]
	}
	if strings.HasPrefix(s, "en") {
		return En
	}
	return He
}

type FieldErrors map[string]string

// FieldError is one failed field in declaration order.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	nameRe  = regexp.MustCompile(`^[\p{Hebrew}A-Za-z\s'\-]+$`)
	phoneRe = regexp.MustCompile(`^0(5[0-9]|7[0-9])[0-9]{7}$`)
)

// Register adds the storefront tags to v: person_name, il_phone, strong_password.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return ValidName(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("il_phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
}

func ValidName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 2 && n <= 100 && nameRe.MatchString(s)
}

func ValidPhone(s string) bool { return phoneRe.MatchString(s) }

// StrongPassword: at least 8 characters, one uppercase Latin letter and one digit.
func StrongPassword(s string) bool {
	if utf8.RuneCountInString(s) < 8 {
		return false
	}
	var upper, digit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && digit
}

var (
	defaultOnce sync.Once
	defaultV    *validator.Validate
)

// Default returns a shared validator with the storefront tags registered.
func Default() *validator.Validate {
	defaultOnce.Do(func() {
		defaultV = validator.New(validator.WithRequiredStructEnabled())
		if err := Register(defaultV); err != nil {
			panic(err)
		}
	})
	return defaultV
}

// Struct validates dst and returns the failures in field order.
func Struct(dst any, lang Lang) []FieldError {
	err := Default().Struct(dst)
	if err == nil {
		return nil
	}
	return Ordered(err, dst, lang)
}

// Ordered converts a bind/validation error to per-field messages, keeping the
// struct declaration order so the first entry is the one to show.
func Ordered(err error, dst any, lang Lang) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: msg(lang, "הנתונים שנשלחו אינם תקינים.", "The submitted data is invalid.")}}
	}
	out := make([]FieldError, 0, len(ve))
	seen := map[string]bool{}
	for _, fe := range ve {
		key := fieldKey(dst, fe.StructField())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, FieldError{Field: key, Message: messageForTag(fe.Tag(), fe.Param(), key, lang)})
	}
	return out
}

// FromBindError is the map form of Ordered.
func FromBindError(err error, dst any, lang Lang) FieldErrors {
	out := FieldErrors{}
	for _, fe := range Ordered(err, dst, lang) {
		out[fe.Field] = fe.Message
	}
	return out
}

// ToMap flattens ordered errors.
func ToMap(errs []FieldError) FieldErrors {
	out := make(FieldErrors, len(errs))
	for _, fe := range errs {
		out[fe.Field] = fe.Message
	}
	return out
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t == nil {
		return strings.ToLower(structField)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	for _, name := range []string{"json", "form"} {
		tag := f.Tag.Get(name)
		if i := strings.Index(tag, ","); i >= 0 {
			tag = tag[:i]
		}
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return strings.ToLower(structField)
}
