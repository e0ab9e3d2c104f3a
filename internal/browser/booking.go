package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/tasker-scraper/internal/scraper"
)

// DefaultAddress seeds the booking form; the listing only renders for a
// concrete service address.
const DefaultAddress = "6619 10th Ave, brooklyn, 11219, NY"

var addressFieldSelectors = []string{
	`input[placeholder="Street address"]`,
	`input[name="address"]`,
	`input[id*="address"]`,
	`input[placeholder*="address"]`,
	`input[class*="address"]`,
	`input[placeholder*="zip"]`,
	`input[placeholder*="location"]`,
	`textarea[placeholder*="address"]`,
}

var taskDetailsSelectors = []string{
	`textarea[placeholder*="details"]`,
	`textarea[placeholder*="task"]`,
	`textarea[placeholder*="Tell us"]`,
	`input[type="text"][placeholder*="details"]`,
	`textarea`,
}

var continueButtonSelectors = []string{
	`button:has-text("Continue")`,
	`a:has-text("Continue")`,
	`button:has-text("Next")`,
	`input[type="submit"]`,
	`button[type="submit"]`,
}

// BookingFlow drives the multi-step booking form that stands between a
// category landing page and the tasker listing. The flow is pure UI
// mechanics; the extraction engine takes over once the first listing page is
// up.
type BookingFlow struct {
	browser *Browser
	page    playwright.Page
	logger  *slog.Logger
	Address string
}

func NewBookingFlow(b *Browser, page playwright.Page, logger *slog.Logger) *BookingFlow {
	return &BookingFlow{
		browser: b,
		page:    page,
		logger:  logger.With("component", "booking"),
		Address: DefaultAddress,
	}
}

// ReachListing walks the booking form for one category until tasker cards
// render. Individual steps are tolerant: a missing optional form control is
// logged and skipped, because the funnel layout differs per category.
func (f *BookingFlow) ReachListing(ctx context.Context, cat scraper.Category) error {
	f.logger.Info("starting booking flow", "category", cat.Key, "url", cat.URL)

	if err := f.browser.NavigateWithRetry(f.page, cat.URL, 3); err != nil {
		return fmt.Errorf("failed to open category page: %w", err)
	}
	f.browser.HumanizeInteraction(f.page)

	if err := f.enterAddress(ctx); err != nil {
		return err
	}

	finalButton := ""
	for _, opt := range cat.Options {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opt.FinalButton != "" {
			finalButton = opt.FinalButton
		}
		f.applyOption(opt)
	}

	f.submitListing(finalButton)

	if _, err := f.page.WaitForSelector(`div[data-testid="tasker-card-mobile"]`, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(20000),
	}); err != nil {
		// The cards may still be reachable through fallback selectors;
		// leave the decision to the collector.
		f.logger.Warn("tasker cards did not appear after booking flow", "error", err)
	}

	f.logger.Info("booking flow finished", "category", cat.Key)
	return nil
}

func (f *BookingFlow) enterAddress(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, sel := range addressFieldSelectors {
		field, err := f.page.QuerySelector(sel)
		if err != nil || field == nil {
			continue
		}
		if visible, err := field.IsVisible(); err != nil || !visible {
			continue
		}
		if err := field.Fill(f.Address); err != nil {
			f.logger.Debug("address fill failed", "selector", sel, "error", err)
			continue
		}
		f.logger.Info("address entered", "selector", sel)
		time.Sleep(time.Second)
		f.clickContinue()
		return nil
	}

	// Some categories skip the address step when a location cookie exists.
	f.logger.Warn("no address field found, continuing without it")
	return nil
}

// applyOption selects one booking form option. Free-text options fill the
// details field; choice options click the element carrying the label.
func (f *BookingFlow) applyOption(opt scraper.BookingOption) {
	DismissOverlays(f.page, f.logger)

	if opt.Type == "task_details" {
		f.fillTaskDetails(opt.Value)
		return
	}

	if f.clickByText(opt.Value) {
		f.logger.Info("option selected", "type", opt.Type, "value", opt.Value)
		time.Sleep(2 * time.Second)
		return
	}
	f.logger.Warn("option not found on form", "type", opt.Type, "value", opt.Value)
}

func (f *BookingFlow) fillTaskDetails(text string) {
	for _, sel := range taskDetailsSelectors {
		field, err := f.page.QuerySelector(sel)
		if err != nil || field == nil {
			continue
		}
		if visible, err := field.IsVisible(); err != nil || !visible {
			continue
		}
		if err := field.Fill(text); err != nil {
			continue
		}
		f.logger.Info("task details entered")
		time.Sleep(time.Second)
		return
	}
	f.logger.Warn("no task details field found")
}

// submitListing fires the click that takes the funnel to the listing. A
// late promo modal tends to land right on this button, so anything
// stacked above the page is stripped before the click; a failed click
// gets one more attempt after another sweep.
func (f *BookingFlow) submitListing(finalButton string) bool {
	RemoveOverlaysAggressively(f.page, f.logger)

	if f.clickSubmit(finalButton) {
		return true
	}

	f.logger.Warn("final submit failed, sweeping overlays and retrying")
	RemoveOverlaysAggressively(f.page, f.logger)
	return f.clickSubmit(finalButton)
}

func (f *BookingFlow) clickSubmit(finalButton string) bool {
	if finalButton != "" {
		return f.clickByText(finalButton)
	}
	return f.clickContinue()
}

func (f *BookingFlow) clickByText(label string) bool {
	loc := f.page.Locator(fmt.Sprintf(`text=%q`, label)).First()
	count, err := loc.Count()
	if err != nil || count == 0 {
		return false
	}
	if err := loc.Click(); err != nil {
		f.logger.Debug("click by text failed", "label", label, "error", err)
		return false
	}
	return true
}

func (f *BookingFlow) clickContinue() bool {
	for _, sel := range continueButtonSelectors {
		loc := f.page.Locator(sel).First()
		count, err := loc.Count()
		if err != nil || count == 0 {
			continue
		}
		if err := loc.Click(); err != nil {
			continue
		}
		time.Sleep(2 * time.Second)
		return true
	}
	return false
}
