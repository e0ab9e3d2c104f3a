// Package extract implements the layered extraction cascade used to recover
// fields from documents whose structural selectors churn between site builds.
// Each field is configured as an ordered list of strategies, most precise
// first; a candidate is only accepted once it passes the field's validator.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Container is one record-sized document fragment.
type Container interface {
	// Text returns the rendered visible text of the fragment.
	Text() string
	// HTML returns the raw underlying markup. Raw markup preserves
	// fragments that visible-text concatenation can destroy, such as a
	// value split across decorative wrapper elements.
	HTML() string
	// Visible reports whether the fragment is actually rendered.
	Visible() bool
	// Query returns the sub-fragments matching a selector, in document
	// order.
	Query(selector string) []Container
}

// Page is a whole-document view. The current page is a single shared
// resource; handles returned by Containers are only valid until the next
// navigation.
type Page interface {
	Containers(selector string) []Container
	Text() string
	HTML() string
}

// Strategy produces zero or more raw text candidates from a container.
// Strategies are tried in order and must never panic on missing structure.
type Strategy func(Container) []string

// SelectorTexts returns a Strategy that yields the rendered text of every
// node matching selector.
func SelectorTexts(selector string) Strategy {
	return func(c Container) []string {
		var out []string
		for _, n := range c.Query(selector) {
			if t := strings.TrimSpace(n.Text()); t != "" {
				out = append(out, t)
			}
		}
		return out
	}
}

// VisibleSelectorTexts is SelectorTexts restricted to visible nodes.
func VisibleSelectorTexts(selector string) Strategy {
	return func(c Container) []string {
		var out []string
		for _, n := range c.Query(selector) {
			if !n.Visible() {
				continue
			}
			if t := strings.TrimSpace(n.Text()); t != "" {
				out = append(out, t)
			}
		}
		return out
	}
}

// FieldCascade is the per-field fallback configuration. Structural
// strategies run first because they false-positive least; TextPatterns run
// over the rendered text when structure fails; HTMLPatterns are the last
// resort over raw markup.
type FieldCascade struct {
	Strategies   []Strategy
	TextPatterns []*regexp.Regexp
	HTMLPatterns []*regexp.Regexp
	// Validate gates structural candidates. Pattern tiers carry their own
	// precision and are not re-validated.
	Validate func(string) bool
	// Clean normalizes an accepted value, e.g. stripping a unit suffix.
	Clean func(string) string
}

// Extract runs the cascade against one container. A false result means the
// field is absent on this rendering; that is a normal outcome, not an error.
func (fc FieldCascade) Extract(c Container) (string, bool) {
	for _, strat := range fc.Strategies {
		for _, cand := range strat(c) {
			cand = strings.TrimSpace(cand)
			if cand == "" {
				continue
			}
			if fc.Validate == nil || fc.Validate(cand) {
				return fc.clean(cand), true
			}
		}
	}

	if v, ok := firstPatternMatch(c.Text(), fc.TextPatterns); ok {
		return fc.clean(v), true
	}
	if v, ok := firstPatternMatch(c.HTML(), fc.HTMLPatterns); ok {
		return fc.clean(v), true
	}

	return "", false
}

func (fc FieldCascade) clean(v string) string {
	if fc.Clean != nil {
		return fc.Clean(v)
	}
	return v
}

func firstPatternMatch(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		// Patterns with alternation can leave some groups empty; the
		// first non-empty capture is the value.
		for _, g := range m[1:] {
			if g = strings.TrimSpace(g); g != "" {
				return g, true
			}
		}
		if len(m) > 1 {
			continue
		}
		return strings.TrimSpace(m[0]), true
	}
	return "", false
}

// FirstIntMatch tries an ordered list of numeric patterns against text and
// parses the first capture that matches. Order matters: a page may carry
// several superficially similar numeric mentions, so the most specific
// pattern must come first to win.
func FirstIntMatch(text string, patterns []*regexp.Regexp) (int, bool) {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

// FlagCascade detects a boolean badge with an OR-cascade: rendered text,
// then raw markup, then a structural check that an element bearing the
// keyword is actually visible. True short-circuits.
type FlagCascade struct {
	TextPatterns     []*regexp.Regexp
	HTMLPatterns     []*regexp.Regexp
	VisibleSelectors []string
}

// Detect reports whether any tier of the cascade matches the container.
func (fc FlagCascade) Detect(c Container) bool {
	text := c.Text()
	for _, p := range fc.TextPatterns {
		if p.MatchString(text) {
			return true
		}
	}

	html := c.HTML()
	for _, p := range fc.HTMLPatterns {
		if p.MatchString(html) {
			return true
		}
	}

	for _, sel := range fc.VisibleSelectors {
		for _, n := range c.Query(sel) {
			if n.Visible() {
				return true
			}
		}
	}

	return false
}
