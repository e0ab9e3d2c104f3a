package scraper

import (
	"regexp"
	"strings"

	"github.com/maltedev/tasker-scraper/internal/extract"
	"github.com/maltedev/tasker-scraper/internal/validate"
)

// The listing is rendered by MUI with hashed utility class names that change
// between site builds, so every field carries an ordered selector cascade
// followed by regex tiers over rendered text and raw markup. Selectors are
// ordered most precise first; append new fallbacks at the end, never
// interleave.

// containerSelectors locate tasker cards. The data-testid selector is the
// stable one; the rest are fallbacks from observed earlier builds.
var containerSelectors = []string{
	`div[data-testid="tasker-card-mobile"]`,
	`div[class*="mui-1m4n54b"]`,
	`div[data-testid*="tasker"]`,
	`div[class*="tasker"]`,
	`div[class*="card"]`,
}

var nameSelectors = []string{
	`button[class*="mui-1pbxn54"]`,
	`button[class*="TRTextButtonPrimary-Root"]`,
	`span[class*="mui-5xjf89"]`,
	`h3`,
}

var rateSelectors = []string{
	`div[class*="mui-loubxv"]`,
	`div[class*="rate"]`,
}

var (
	// "Ivan T." or "IVAN T." in rendered text.
	nameTextPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)* [A-Z]\.|\b[A-Z][A-Z]+(?: [A-Z][A-Z]+)* [A-Z]\.`)
	// Raw markup keeps names as element text between tags.
	nameHTMLPattern = regexp.MustCompile(`>([A-Za-z][a-z]+(?:\s+[A-Za-z][a-z]+)*\s+[A-Z]\.)<|>([A-Z][A-Z]+(?:\s+[A-Z][A-Z]+)*\s+[A-Z]\.)<`)

	rateTextPattern = regexp.MustCompile(`\$\d+(?:\.\d+)?/hr`)
	// Last resort: a bare decimal price in markup, rendered rate split
	// across wrapper elements.
	rateBarePattern = regexp.MustCompile(`\$(\d+\.\d+)`)

	reviewPattern = regexp.MustCompile(`(\d+\.\d+)\s*\((\d+)\s*review`)
)

// overallTaskPatterns are ordered most specific first: a card can mention
// both a category count and an overall count, and the wrong number must not
// win.
var overallTaskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s+Assembly tasks overall`),
	regexp.MustCompile(`(?i)(\d+)\s+tasks overall`),
	regexp.MustCompile(`(?i)(\d+)\s+overall tasks`),
	regexp.MustCompile(`(?i)(\d+)\s+total tasks`),
	regexp.MustCompile(`(?i)(\d+)\s+tasks completed`),
}

var twoHourMinimumFlag = extract.FlagCascade{
	TextPatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)2\s*Hour\s*Minimum`),
		regexp.MustCompile(`(?i)2\s*hr\s*minimum`),
		regexp.MustCompile(`(?i)2\s*hour\s*min`),
		regexp.MustCompile(`(?i)minimum\s*2\s*hour`),
		regexp.MustCompile(`(?i)min\s*2\s*hr`),
	},
	HTMLPatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)2\s*Hour\s*Minimum`),
		regexp.MustCompile(`(?i)minimum\s*2\s*h`),
	},
	VisibleSelectors: []string{
		`[class*="minimum"]`,
	},
}

var eliteFlag = extract.FlagCascade{
	TextPatterns: []*regexp.Regexp{regexp.MustCompile(`\b[Ee][Ll][Ii][Tt][Ee]\b`)},
	HTMLPatterns: []*regexp.Regexp{regexp.MustCompile(`\b[Ee][Ll][Ii][Tt][Ee]\b`)},
	VisibleSelectors: []string{
		`[class*="elite"]`,
		`[class*="Elite"]`,
	},
}

func nameCascade() extract.FieldCascade {
	strategies := make([]extract.Strategy, 0, len(nameSelectors))
	for _, sel := range nameSelectors {
		strategies = append(strategies, extract.VisibleSelectorTexts(sel))
	}
	return extract.FieldCascade{
		Strategies:   strategies,
		TextPatterns: []*regexp.Regexp{nameTextPattern},
		HTMLPatterns: []*regexp.Regexp{nameHTMLPattern},
		Validate:     validate.IsPotentialName,
	}
}

func rateCascade() extract.FieldCascade {
	strategies := make([]extract.Strategy, 0, len(rateSelectors))
	for _, sel := range rateSelectors {
		strategies = append(strategies, extract.VisibleSelectorTexts(sel))
	}
	return extract.FieldCascade{
		Strategies:   strategies,
		TextPatterns: []*regexp.Regexp{rateTextPattern},
		HTMLPatterns: []*regexp.Regexp{rateTextPattern, rateBarePattern},
		Validate:     validate.IsRateCandidate,
		Clean:        cleanRate,
	}
}

// cleanRate normalizes "$39.23/hr" and friends down to "39.23".
func cleanRate(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "/hr")
	raw = strings.TrimPrefix(raw, "$")
	return strings.TrimSpace(raw)
}

// extractReviews pulls the rating and backing count out of text like
// "4.9 (142 reviews)". Both or neither.
func extractReviews(c extract.Container) (rating string, count string, ok bool) {
	if m := reviewPattern.FindStringSubmatch(c.Text()); m != nil {
		return m[1], m[2], true
	}
	if m := reviewPattern.FindStringSubmatch(c.HTML()); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

// extractTaskCounts returns the category-specific and overall task counts.
// overallFound distinguishes a genuinely absent count from an explicit zero.
func extractTaskCounts(c extract.Container, categoryPattern *regexp.Regexp) (category, overall int, categoryFound, overallFound bool) {
	text := c.Text()
	if categoryPattern != nil {
		category, categoryFound = extract.FirstIntMatch(text, []*regexp.Regexp{categoryPattern})
	}
	overall, overallFound = extract.FirstIntMatch(text, overallTaskPatterns)

	if categoryFound && overallFound {
		return
	}

	html := c.HTML()
	if !categoryFound && categoryPattern != nil {
		category, categoryFound = extract.FirstIntMatch(html, []*regexp.Regexp{categoryPattern})
	}
	if !overallFound {
		overall, overallFound = extract.FirstIntMatch(html, overallTaskPatterns)
	}
	return
}
