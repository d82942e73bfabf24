package utils

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var (
	emailRe  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	digitRe  = regexp.MustCompile(`\d`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// ValidEmail reports whether the address has a plausible mailbox@domain shape.
func ValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// ValidatePassword checks registration password complexity: at least 8
// characters, one digit and one symbol.  It returns a list of human-readable
// problems; an empty list means the password is acceptable.
func ValidatePassword(plain string) []string {
	var problems []string
	if len(plain) < 8 {
		problems = append(problems, "password must be at least 8 characters long")
	}
	if !digitRe.MatchString(plain) {
		problems = append(problems, "password must contain at least one number")
	}
	if !symbolRe.MatchString(plain) {
		problems = append(problems, "password must contain at least one symbol")
	}
	return problems
}
