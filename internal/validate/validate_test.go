package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPersonName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"typical name", "Laurette O.", true},
		{"all caps name", "MARIA L.", true},
		{"two word first name", "Mary Ann K.", true},
		{"section label", "How I can help:", false},
		{"colon anywhere", "Ivan T.:", false},
		{"rate string", "$25/hr", false},
		{"too short", "a", false},
		{"digits only", "123456", false},
		{"punctuation only", "!!!", false},
		{"boilerplate phrase", "View Profile", false},
		{"reviews label", "142 reviews", false},
		{"missing abbreviation", "Ivan", false},
		{"trailing period missing", "Ivan T", false},
		{"too long", strings.Repeat("A", 49) + " B.", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidPersonName(tt.input))
		})
	}
}

func TestIsValidPersonNameAcceptsStrictShape(t *testing.T) {
	// Anything matching the canonical "words + single-letter-dot" shape
	// within the length bound must pass.
	for _, s := range []string{
		"Ivan T.",
		"Jose Luis R.",
		"ANNA B.",
		"De La Cruz M.",
	} {
		assert.True(t, IsValidPersonName(s), s)
	}
}

func TestIsValidPersonNameRejectsAnyColon(t *testing.T) {
	for _, s := range []string{
		"Ivan T.:",
		": Ivan T.",
		"About: Ivan T.",
		":",
	} {
		assert.False(t, IsValidPersonName(s), s)
	}
}

func TestIsPotentialName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"name shape", "Ivan T.", true},
		{"no period", "Ivan", false},
		{"too many words", "one two three four.", false},
		{"ui keyword", "Read more.", false},
		{"book keyword", "Book now.", false},
		{"no letters", "1.5", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsPotentialName(tt.input))
		})
	}
}

func TestNameLengthBoundAlignsAcrossTiers(t *testing.T) {
	// Both tiers share the 50-character bound, so a candidate surviving
	// the loose scan is never dropped at the strict gate over length
	// alone.
	atBound := strings.Repeat("A", 47) + " B."
	pastBound := strings.Repeat("A", 48) + " B."

	assert.True(t, IsPotentialName(atBound))
	assert.True(t, IsValidPersonName(atBound))
	assert.False(t, IsPotentialName(pastBound))
	assert.False(t, IsValidPersonName(pastBound))
}

func TestIsRateCandidate(t *testing.T) {
	assert.True(t, IsRateCandidate("$25/hr"))
	assert.True(t, IsRateCandidate("$39.23/hr"))
	assert.False(t, IsRateCandidate("$25"))
	assert.False(t, IsRateCandidate("25/hr"))
	assert.False(t, IsRateCandidate("rates start at $25/hr for most tasks"))
}
