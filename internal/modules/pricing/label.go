package pricing

import (
	"strconv"
	"strings"
)

const CurrencySymbol = "₪"

// Label formats whole shekels the way prices are displayed and stored: "₪25".
func Label(amount int) string {
	return CurrencySymbol + strconv.Itoa(amount)
}

// ParseLabel reads an amount back from a label by dropping every non-digit
// character. Unparseable input yields 0.
func ParseLabel(label string) int {
	var b strings.Builder
	for _, r := range label {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}
