// Package validate holds the input checks shared by the services.
package validate

import (
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wedding-planner/internal/apperr"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps, local date-times and plain dates.
// Values without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Validation("Invalid date: " + s)
}

// Blank reports whether any value is empty after trimming.
func Blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func Email(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return apperr.Validation("Invalid email address: " + email)
	}
	return nil
}

func Positive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// Trimmed returns nil for blank strings so optional columns stay NULL.
func Trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
