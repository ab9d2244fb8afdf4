package slug

import (
	"regexp"
	"strconv"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\p{Hebrew}a-z0-9]+`)

// FromName lowercases s and joins its Latin, Hebrew and digit runs with "-".
func FromName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonWord.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "cookie"
	}
	return s
}

// Unique appends -2, -3, … until taken reports false.
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		s := base + "-" + strconv.Itoa(i)
		if !taken(s) {
			return s
		}
	}
}
