package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maltedev/tasker-scraper/internal/browser"
	"github.com/maltedev/tasker-scraper/internal/ratelimit"
	"github.com/maltedev/tasker-scraper/internal/scraper"
)

// Runner executes one category walk end to end.
type Runner interface {
	Run(ctx context.Context, category scraper.Category, cfg scraper.WalkConfig) (*scraper.WalkResult, error)
}

// BrowserRunner drives a real browser through the booking flow and
// walks the listing pages behind it.
type BrowserRunner struct {
	browser *browser.Browser
	limiter *ratelimit.AdaptiveRateLimiter
	address string
	logger  *slog.Logger
}

func NewBrowserRunner(b *browser.Browser, limiter *ratelimit.AdaptiveRateLimiter, address string, logger *slog.Logger) *BrowserRunner {
	return &BrowserRunner{
		browser: b,
		limiter: limiter,
		address: address,
		logger:  logger.With("component", "runner"),
	}
}

func (r *BrowserRunner) Run(ctx context.Context, category scraper.Category, cfg scraper.WalkConfig) (*scraper.WalkResult, error) {
	page, err := r.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	flow := browser.NewBookingFlow(r.browser, page, r.logger)
	if r.address != "" {
		flow.Address = r.address
	}

	if err := flow.ReachListing(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to reach listing for %s: %w", category.Key, err)
	}

	wrapped := browser.WrapPage(page, r.logger)
	collector := scraper.NewCollector(category.TaskPattern, r.logger)
	nav := &limitedNavigator{inner: wrapped, limiter: r.limiter}
	walker := scraper.NewWalker(wrapped, nav, collector, r.logger)

	return walker.Walk(ctx, cfg)
}

// limitedNavigator paces page navigation and feeds outcomes back to the
// adaptive limiter.
type limitedNavigator struct {
	inner   scraper.Navigator
	limiter *ratelimit.AdaptiveRateLimiter
}

func (n *limitedNavigator) NavigateToPage(ctx context.Context, index int) error {
	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	err := n.inner.NavigateToPage(ctx, index)
	if n.limiter != nil {
		if err != nil {
			n.limiter.RecordError()
		} else {
			n.limiter.RecordSuccess()
		}
	}
	return err
}

func (n *limitedNavigator) CurrentPageIndex() int {
	return n.inner.CurrentPageIndex()
}
