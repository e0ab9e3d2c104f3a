package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/tasker-scraper/internal/extract"
)

// Page adapts a live playwright page to the extraction engine's document
// view and navigator contracts. There is exactly one current page per Page;
// container handles become stale after navigation.
type Page struct {
	page   playwright.Page
	logger *slog.Logger
}

// WrapPage builds the document view over an already-navigated playwright
// page.
func WrapPage(page playwright.Page, logger *slog.Logger) *Page {
	return &Page{
		page:   page,
		logger: logger.With("component", "page"),
	}
}

// Raw exposes the underlying playwright page for flows that need direct
// interaction, like the booking funnel.
func (p *Page) Raw() playwright.Page {
	return p.page
}

func (p *Page) Containers(selector string) []extract.Container {
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		p.logger.Debug("selector query failed", "selector", selector, "error", err)
		return nil
	}
	out := make([]extract.Container, 0, len(handles))
	for _, h := range handles {
		out = append(out, &element{handle: h})
	}
	return out
}

func (p *Page) Text() string {
	text, err := p.page.InnerText("body")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (p *Page) HTML() string {
	content, err := p.page.Content()
	if err != nil {
		return ""
	}
	return content
}

// element adapts one live DOM handle to extract.Container.
type element struct {
	handle playwright.ElementHandle
}

func (e *element) Text() string {
	text, err := e.handle.TextContent()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (e *element) HTML() string {
	html, err := e.handle.Evaluate("el => el.outerHTML")
	if err != nil {
		return ""
	}
	s, _ := html.(string)
	return s
}

func (e *element) Visible() bool {
	visible, err := e.handle.IsVisible()
	if err != nil {
		return false
	}
	return visible
}

func (e *element) Query(selector string) []extract.Container {
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil
	}
	out := make([]extract.Container, 0, len(handles))
	for _, h := range handles {
		out = append(out, &element{handle: h})
	}
	return out
}

var paginationButtonSelectors = []string{
	`button[class*="MuiPaginationItem-page"]`,
	`button[class*="MuiPaginationItem-root"]`,
}

// NavigateToPage clicks the numbered pagination button for index. Plain
// clicks are intercepted by MUI's ripple layer often enough that the click
// is dispatched through JavaScript instead. Arrival is left for the caller
// to verify through CurrentPageIndex.
func (p *Page) NavigateToPage(ctx context.Context, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	label := strconv.Itoa(index)
	for _, sel := range paginationButtonSelectors {
		handles, err := p.page.QuerySelectorAll(sel)
		if err != nil {
			continue
		}
		for _, h := range handles {
			text, err := h.TextContent()
			if err != nil || strings.TrimSpace(text) != label {
				continue
			}
			if isCurrentPageButton(h) {
				// Already there; clicking the selected button is a no-op.
				return nil
			}
			if _, err := h.Evaluate("el => el.click()"); err != nil {
				p.logger.Warn("pagination click failed", "page", index, "error", err)
				continue
			}
			p.page.WaitForTimeout(4000)
			DismissOverlays(p.page, p.logger)
			return nil
		}
	}

	return fmt.Errorf("no pagination button for page %d", index)
}

// CurrentPageIndex reads the selected pagination button. A page with no
// pagination control is page 1.
func (p *Page) CurrentPageIndex() int {
	for _, sel := range []string{
		`button[aria-current="page"]`,
		`button[class*="MuiPaginationItem"][class*="selected"]`,
	} {
		h, err := p.page.QuerySelector(sel)
		if err != nil || h == nil {
			continue
		}
		text, err := h.TextContent()
		if err != nil {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			return n
		}
	}
	return 1
}

func isCurrentPageButton(h playwright.ElementHandle) bool {
	if v, err := h.GetAttribute("aria-current"); err == nil && v == "page" {
		return true
	}
	class, err := h.GetAttribute("class")
	if err != nil {
		return false
	}
	class = strings.ToLower(class)
	return strings.Contains(class, "selected") ||
		strings.Contains(class, "current") ||
		strings.Contains(class, "active")
}
