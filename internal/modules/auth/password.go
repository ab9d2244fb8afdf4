package auth

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinSignupPassword is the generic signup rule. Password changes use the
// stricter validation.StrongPassword.
const MinSignupPassword = 6

var ErrWeakPassword = errors.New("password too short")

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func validSignupPassword(pw string) bool {
	return utf8.RuneCountInString(pw) >= MinSignupPassword
}
