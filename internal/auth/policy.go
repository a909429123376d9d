package auth

import (
	"strings"
	"unicode"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// specialChars is the set of characters that satisfy the special-character
// rule.
const specialChars = "@$!%*?&#"

// PolicyError lists every password rule a candidate violated.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return strings.Join(e.Violations, ". ")
}

// ValidatePassword checks a candidate password against the complexity rules.
// All violations are collected so the caller can report them at once.
func ValidatePassword(candidate string) error {
	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, r := range candidate {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
		if strings.ContainsRune(specialChars, r) {
			hasSpecial = true
		}
	}

	var violations []string
	if len(candidate) < MinPasswordLength {
		violations = append(violations, "Password must be at least 8 characters long")
	}
	if !hasDigit {
		violations = append(violations, "Password must contain at least one number")
	}
	if !hasUpper {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if !hasSpecial {
		violations = append(violations, "Password must contain at least one special character")
	}
	if len(violations) > 0 {
		return &PolicyError{Violations: violations}
	}
	return nil
}
