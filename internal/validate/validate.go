// Package validate holds the field-level plausibility checks used by the
// extraction cascade. Extraction strategies are deliberately permissive, so
// every candidate string passes through one of these predicates before it is
// accepted into a record.
package validate

import (
	"regexp"
	"strings"
)

// invalidNamePhrases are boilerplate UI strings that extraction strategies
// regularly pick up instead of a name. The list is exhaustive by
// construction: every new boilerplate string discovered in practice is added
// here, never inferred.
var invalidNamePhrases = []string{
	"how i can help",
	"about me",
	"my experience",
	"what i do",
	"services",
	"skills",
	"description",
	"profile",
	"bio",
	"overview",
	"details",
	"info",
	"contact",
	"book now",
	"view profile",
	"hire me",
	"get quote",
	"message",
	"reviews",
	"rating",
	"stars",
	"feedback",
	"testimonial",
}

// looseScanKeywords reject obvious UI noise during whole-page candidate
// scanning, before the strict check runs.
var looseScanKeywords = []string{
	"select", "continue", "read", "more", "book", "view",
	"how", "help", "about", "task", "review", "experience",
}

var (
	nameCharsPattern  = regexp.MustCompile(`^[A-Za-z .'-]+$`)
	strictNamePattern = regexp.MustCompile(`^[A-Za-z]+(?: [A-Za-z]+)* [A-Za-z]\.$`)
)

// IsPotentialName is the loose tier, used while scanning a whole page for
// name-like tokens. It keeps short, letter-bearing strings shaped like
// "Firstname I." and rejects obvious UI noise. Candidates that survive still
// need IsValidPersonName before acceptance.
func IsPotentialName(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > 50 {
		return false
	}
	if !strings.Contains(text, ".") {
		return false
	}
	if len(strings.Fields(text)) > 3 {
		return false
	}
	if !containsLetter(text) {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range looseScanKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// IsValidPersonName is the strict tier, the final gate before a name is
// accepted into a record. Rules apply in order; any failure rejects.
func IsValidPersonName(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) < 2 || len(text) > 50 {
		return false
	}

	lower := strings.ToLower(text)
	for _, phrase := range invalidNamePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	// Labels like "How I can help:" are never names.
	if strings.Contains(text, ":") {
		return false
	}

	// Mostly punctuation or digits means a stray fragment, not a name.
	alnum := 0
	for _, c := range text {
		if isAlnum(c) {
			alnum++
		}
	}
	if alnum*2 < len(text) {
		return false
	}

	if !nameCharsPattern.MatchString(text) {
		return false
	}
	if !containsLetter(text) {
		return false
	}

	// Canonical listing shape: one or more word tokens followed by an
	// abbreviated surname, "Ivan T." or "MARIA L.".
	return strictNamePattern.MatchString(text)
}

// IsRateCandidate reports whether text plausibly holds an hourly rate.
// Rates are short; long strings that merely mention a price are rejected.
func IsRateCandidate(text string) bool {
	return strings.Contains(text, "$") &&
		strings.Contains(text, "/hr") &&
		len(text) < 20
}

func containsLetter(s string) bool {
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}

func isAlnum(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
