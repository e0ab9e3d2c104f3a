package scraper

import (
	"context"
	"log/slog"

	"github.com/maltedev/tasker-scraper/internal/extract"
	"github.com/maltedev/tasker-scraper/internal/models"
)

// Navigator moves the shared document view between listing pages.
// NavigateToPage only reports that an attempt was dispatched; the walker
// independently re-verifies arrival through CurrentPageIndex.
type Navigator interface {
	NavigateToPage(ctx context.Context, index int) error
	CurrentPageIndex() int
}

// WalkConfig carries the per-walk limits. No process-wide state: every walk
// gets its own config.
type WalkConfig struct {
	// MaxPages truncates the resolved page list to its first N entries.
	// Zero means no limit.
	MaxPages int
	// PerPageCap bounds containers per page; zero means DefaultPerPageCap.
	PerPageCap int
}

// Walker traverses every resolved listing page sequentially and accumulates
// the collected records. The document view is a single shared mutable
// resource, so a walk is strictly sequential; run independent walks (one per
// category) for parallelism, never pages within one walk.
type Walker struct {
	page      extract.Page
	navigator Navigator
	collector *Collector
	logger    *slog.Logger
}

// NewWalker wires a walker against one document view and navigator.
func NewWalker(page extract.Page, navigator Navigator, collector *Collector, logger *slog.Logger) *Walker {
	return &Walker{
		page:      page,
		navigator: navigator,
		collector: collector,
		logger:    logger.With("component", "walker"),
	}
}

// WalkResult summarizes one finished (or cancelled) walk.
type WalkResult struct {
	Taskers       []models.Tasker
	PagesResolved int
	PagesVisited  int
	Unresolved    int
}

// Walk resolves the page set once from the current page state, then visits
// each index in order. Failed navigation skips that index; a page yielding
// zero records continues to the next. No page-level failure aborts the walk,
// and a zero-record total is a valid outcome callers must check for
// themselves. The returned error only reflects context cancellation.
func (w *Walker) Walk(ctx context.Context, cfg WalkConfig) (*WalkResult, error) {
	indices := ResolvePageIndices(w.page, cfg.MaxPages)
	w.logger.Info("resolved page indices", "pages", indices)

	result := &WalkResult{PagesResolved: len(indices)}

	for _, idx := range indices {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if w.navigator.CurrentPageIndex() != idx {
			if !w.navigateAndVerify(ctx, idx) {
				w.logger.Warn("navigation failed, skipping page", "page", idx)
				continue
			}
		}

		result.PagesVisited++
		records, unresolved := w.collector.CollectFromPage(w.page, cfg.PerPageCap)
		result.Unresolved += unresolved
		if len(records) == 0 {
			w.logger.Warn("page yielded no records, continuing",
				"page", idx, "unresolved", unresolved)
			continue
		}

		for i := range records {
			records[i].Page = idx
		}
		result.Taskers = append(result.Taskers, records...)
		w.logger.Info("page done",
			"page", idx, "records", len(records), "total", len(result.Taskers))
	}

	w.logger.Info("walk complete",
		"pages", len(indices), "records", len(result.Taskers))
	return result, nil
}

// navigateAndVerify dispatches navigation and confirms arrival by reading
// back the current page indicator.
func (w *Walker) navigateAndVerify(ctx context.Context, idx int) bool {
	if err := w.navigator.NavigateToPage(ctx, idx); err != nil {
		w.logger.Warn("navigation dispatch failed", "page", idx, "error", err)
		return false
	}
	if current := w.navigator.CurrentPageIndex(); current != idx {
		w.logger.Warn("navigation did not verify", "wanted", idx, "current", current)
		return false
	}
	return true
}
