package validate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/apperr"
)

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2027-06-12":                time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC),
		"2027-06-12T15:30":          time.Date(2027, 6, 12, 15, 30, 0, 0, time.UTC),
		"2027-06-12T15:30:00":       time.Date(2027, 6, 12, 15, 30, 0, 0, time.UTC),
		"2027-06-12T15:30:00+02:00": time.Date(2027, 6, 12, 13, 30, 0, 0, time.UTC),
		" 2027-06-12T15:30:00.5Z ":  time.Date(2027, 6, 12, 15, 30, 0, 500000000, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	_, err := ParseDate("next friday")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestHelpers(t *testing.T) {
	assert.True(t, Blank("a", "  "))
	assert.False(t, Blank("a", "b"))
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
	assert.NoError(t, Email("ana@example.com"))
	assert.Error(t, Email("not-an-email"))
	assert.True(t, Positive(decimal.RequireFromString("0.01")))
	assert.False(t, Positive(decimal.Zero))

	blank := "  "
	assert.Nil(t, Trimmed(&blank))
	v := " x "
	assert.Equal(t, "x", *Trimmed(&v))
}
