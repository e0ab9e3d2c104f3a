package browser

import (
	"log/slog"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Promo modals and cookie walls block interaction at every step of the
// booking funnel. Dismissal is best-effort and never fatal: a missed overlay
// just means a later click fails and retries.

var overlayCloseSelectors = []string{
	`iframe[aria-label*="Modal Overlay"]`,
	`button[class*="close"]`,
	`div[class*="close"]`,
	`span[class*="close"]`,
	`a[class*="close"]`,
	`button[aria-label*="close" i]`,
	`button:has-text("×")`,
	`button:has-text("X")`,
}

// DismissOverlays clicks visible close controls and presses Escape. Returns
// how many overlays were acted on.
func DismissOverlays(page playwright.Page, logger *slog.Logger) int {
	dismissed := 0

	for _, sel := range overlayCloseSelectors {
		handles, err := page.QuerySelectorAll(sel)
		if err != nil {
			continue
		}
		for _, h := range handles {
			visible, err := h.IsVisible()
			if err != nil || !visible {
				continue
			}
			if strings.HasPrefix(sel, "iframe") {
				// Iframe overlays cannot be clicked away; drop the node.
				if _, err := h.Evaluate("el => el.remove()"); err != nil {
					continue
				}
			} else if err := h.Click(playwright.ElementHandleClickOptions{
				Timeout: playwright.Float(2000),
			}); err != nil {
				if _, err := h.Evaluate("el => el.click()"); err != nil {
					continue
				}
			}
			dismissed++
			time.Sleep(500 * time.Millisecond)
		}
	}

	if err := page.Keyboard().Press("Escape"); err == nil {
		time.Sleep(500 * time.Millisecond)
	}

	if dismissed > 0 && logger != nil {
		logger.Debug("dismissed overlays", "count", dismissed)
	}
	return dismissed
}

// RemoveOverlaysAggressively strips any fixed-position element stacked above
// the page. Used when polite dismissal leaves something blocking the flow.
func RemoveOverlaysAggressively(page playwright.Page, logger *slog.Logger) {
	script := `() => {
		var removed = 0;
		var elements = document.querySelectorAll('*');
		for (var i = 0; i < elements.length; i++) {
			var style = window.getComputedStyle(elements[i]);
			var zIndex = parseInt(style.zIndex);
			if (zIndex > 1000 && style.position === 'fixed') {
				elements[i].remove();
				removed++;
			}
		}
		return removed;
	}`

	result, err := page.Evaluate(script)
	if err != nil {
		if logger != nil {
			logger.Debug("aggressive overlay removal failed", "error", err)
		}
		return
	}

	if logger != nil {
		logger.Debug("aggressive overlay removal", "removed", result)
	}
	DismissOverlays(page, logger)
}
