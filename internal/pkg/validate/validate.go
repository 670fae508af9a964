package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// Shape rules below are exact contracts asserted by tests; they are stricter
// (and in the email case looser) than general-purpose libraries, so they are
// expressed as plain regular expressions.

var (
	// Spanish mobile numbers only: +34, first digit 6 or 7, 9 digits total.
	phoneRe = regexp.MustCompile(`^\+34[67][0-9]{8}$`)
	// One-time codes are exactly 7 ASCII digits.
	codeRe = regexp.MustCompile(`^[0-9]{7}$`)
	// RFC-light on purpose: local part with optional dot/dash/underscore
	// separated segments, domain, TLD of 2-3 letters.
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9]+([._-][a-zA-Z0-9]+)*@[a-zA-Z0-9]+(-[a-zA-Z0-9]+)*(\.[a-zA-Z0-9]+(-[a-zA-Z0-9]+)*)*\.[a-zA-Z]{2,3}$`)

	digitRe = regexp.MustCompile(`[0-9]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	upperRe = regexp.MustCompile(`[A-Z]`)
)

// Phone strips all whitespace from raw and reports whether the result is an
// accepted Spanish mobile number. The normalized form is returned either way.
func Phone(raw string) (string, bool) {
	normalized := strings.Join(strings.Fields(raw), "")
	return normalized, phoneRe.MatchString(normalized)
}

// Code reports whether s is a well-formed one-time code.
func Code(s string) bool { return codeRe.MatchString(s) }

// Email reports whether s has an acceptable email shape.
func Email(s string) bool { return emailRe.MatchString(s) }

// Password enforces the strength rule: minimum 8 characters with at least one
// digit, one lowercase and one uppercase ASCII letter.
func Password(s string) bool {
	return len(s) >= 8 && digitRe.MatchString(s) && lowerRe.MatchString(s) && upperRe.MatchString(s)
}
