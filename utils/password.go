package utils

import (
	"errors"
	"strings"
	"unicode"
)

// ErrPasswordTooWeak is returned by PasswordPolicy.Validate; callers map it
// onto their own error vocabulary.
var ErrPasswordTooWeak = errors.New("password does not meet the strength requirements")

// PasswordPolicy validates new passwords during registration and reset.
// The strength rule mirrors the platform default: at least 8 characters and
// not entirely numeric. PINMode additionally requires exactly 8 decimal
// digits; the two rules are independently configured because they contradict
// each other and only one should be active per deployment.
type PasswordPolicy struct {
	MinLength int
	PINMode   bool
}

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8}
}

func (p PasswordPolicy) Validate(password string) error {
	if p.PINMode {
		if len(password) != 8 || !allDigits(password) {
			return ErrPasswordTooWeak
		}
		return nil
	}

	if len(password) < p.MinLength {
		return ErrPasswordTooWeak
	}
	if allDigits(password) {
		return ErrPasswordTooWeak
	}
	if strings.TrimSpace(password) == "" {
		return ErrPasswordTooWeak
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
