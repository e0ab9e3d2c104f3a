package scraper

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/maltedev/tasker-scraper/internal/extract"
)

// paginationSelectors locate the numbered page buttons of the MUI pagination
// control.
var paginationSelectors = []string{
	`button[class*="MuiPaginationItem-page"]`,
	`button[class*="MuiPaginationItem-root"]`,
	`nav[aria-label*="pagination"] button`,
}

// pageLinkSelectors are the fallback when no numbered control exists: any
// link whose target carries a page query parameter.
var pageLinkSelectors = []string{
	`nav a[href*="page="]`,
	`div[class*="pagination"] a[href*="page="]`,
	`ul[class*="pagination"] a[href*="page="]`,
	`a[href*="page="]`,
}

var pageParamPattern = regexp.MustCompile(`page=(\d+)`)

// ResolvePageIndices inspects the current page's pagination control and
// returns the complete ordered list of page indices to visit.
//
// An elided control renders only a subset of page buttons ("1 2 3 4 5 24").
// When the highest visible label exceeds the number of visible labels, the
// gap pages exist but are not rendered, and the highest label is the only
// total-count signal available, so the result is the dense range 1..max.
// maxPages > 0 truncates to the first maxPages entries; order stays
// ascending, so truncation always means "the first N pages".
func ResolvePageIndices(page extract.Page, maxPages int) []int {
	indices := collectNumericLabels(page)

	if len(indices) >= 2 {
		if max := indices[len(indices)-1]; max > len(indices) {
			indices = denseRange(max)
		}
	}

	if len(indices) == 0 {
		indices = collectPageLinks(page)
	}

	// An unpaginated listing is a single page, not an error.
	if len(indices) == 0 {
		indices = []int{1}
	}

	if maxPages > 0 && len(indices) > maxPages {
		indices = indices[:maxPages]
	}
	return indices
}

// collectNumericLabels gathers the integer labels of visible pagination
// buttons, deduplicated and sorted ascending.
func collectNumericLabels(page extract.Page) []int {
	seen := make(map[int]bool)
	var out []int

	for _, sel := range paginationSelectors {
		for _, btn := range page.Containers(sel) {
			if !btn.Visible() {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(btn.Text()))
			if err != nil || n < 1 {
				continue
			}
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
		if len(out) > 0 {
			break
		}
	}

	sort.Ints(out)
	return out
}

// collectPageLinks extracts page indices from link targets, deduplicating by
// parameter value.
func collectPageLinks(page extract.Page) []int {
	seen := make(map[int]bool)
	var out []int

	for _, sel := range pageLinkSelectors {
		for _, link := range page.Containers(sel) {
			m := pageParamPattern.FindStringSubmatch(link.HTML())
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 {
				continue
			}
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
		if len(out) > 0 {
			break
		}
	}

	sort.Ints(out)
	return out
}

func denseRange(max int) []int {
	out := make([]int, max)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
