package checkout

import (
	"errors"
	"strings"

	"ugiot.co.il/app/internal/http/validation"
)

var (
	ErrValidation       = errors.New("checkout form invalid")
	ErrEmptyUpsert      = errors.New("profile upsert returned no rows")
	ErrGuestUnconfirmed = errors.New("guest checkout did not confirm the order")
	ErrAlreadySubmitted = errors.New("cart already submitted")
)

// RateLimitMarker is the substring by which the guest procedure signals its quota.
const RateLimitMarker = "rate limit"

func IsRateLimit(msg string) bool {
	return strings.Contains(strings.ToLower(msg), RateLimitMarker)
}

func msgFor(lang validation.Lang, he, en string) string {
	if lang == validation.En {
		return en
	}
	return he
}

func cartEmptyMsg(lang validation.Lang) string {
	return msgFor(lang, "העגלה ריקה.", "Your cart is empty.")
}

func rateLimitMsg(lang validation.Lang) string {
	return msgFor(lang,
		"בוצעו יותר מדי הזמנות. אנא נסו שוב מאוחר יותר.",
		"Too many orders. Please try again later.")
}

func genericMsg(lang validation.Lang) string {
	return msgFor(lang, "אירעה שגיאה, אנא נסו שוב.", "Something went wrong, please try again.")
}

func alreadySubmittedMsg(lang validation.Lang) string {
	return msgFor(lang, "ההזמנה הזו כבר נשלחה.", "This order was already submitted.")
}
