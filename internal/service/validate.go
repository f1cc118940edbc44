package service

import (
	"net/mail"
	"strings"
	"unicode"
)

// MinStaffPasswordLength is the shortest password accepted for staff accounts.
const MinStaffPasswordLength = 6

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// validateStaffPassword requires a lower case letter, an upper case letter
// and a character that is neither a letter, digit nor underscore.
func validateStaffPassword(pw string) error {
	if len(pw) < MinStaffPasswordLength {
		return invalid("password", "Password must be at least 6 characters long.")
	}

	var lower, upper, special bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_':
			special = true
		}
	}
	if !lower || !upper || !special {
		return invalid("password", "Password must contain at least one uppercase letter, one lowercase letter, and one special character.")
	}
	return nil
}

// required fails with message when any of values is blank.
func required(message string, values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return invalid("", message)
		}
	}
	return nil
}
