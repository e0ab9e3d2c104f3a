package scraper

import (
	"log/slog"
	"regexp"
	"strconv"

	"github.com/maltedev/tasker-scraper/internal/extract"
	"github.com/maltedev/tasker-scraper/internal/models"
	"github.com/maltedev/tasker-scraper/internal/validate"
)

// DefaultPerPageCap bounds how many containers one page may contribute. The
// listing shows at most this many real cards per page; more discovered
// containers means a fallback selector also matched unrelated containers of
// the same shape, so truncation bounds the false-positive blast radius.
const DefaultPerPageCap = 15

// Collector extracts tasker records from the containers of one page.
type Collector struct {
	logger          *slog.Logger
	categoryPattern *regexp.Regexp
	name            extract.FieldCascade
	rate            extract.FieldCascade
}

// NewCollector builds a Collector. categoryPattern extracts the
// category-specific task count and may be nil for categories without one.
func NewCollector(categoryPattern *regexp.Regexp, logger *slog.Logger) *Collector {
	return &Collector{
		logger:          logger.With("component", "collector"),
		categoryPattern: categoryPattern,
		name:            nameCascade(),
		rate:            rateCascade(),
	}
}

// CollectFromPage discovers record containers on the page, runs the field
// cascades on each, and returns the accepted records plus the number of
// containers that failed strict identity validation. A record only enters
// the result set with a strictly valid name: a rate with no name is garbage,
// a name with no rate is a usable partial record.
func (c *Collector) CollectFromPage(page extract.Page, limit int) ([]models.Tasker, int) {
	if limit <= 0 {
		limit = DefaultPerPageCap
	}

	containers := c.discoverContainers(page)
	if len(containers) == 0 {
		c.logger.Warn("no tasker containers found on page")
		return nil, 0
	}

	if len(containers) > limit {
		c.logger.Info("truncating containers to per-page cap",
			"found", len(containers), "cap", limit)
		containers = containers[:limit]
	}

	var records []models.Tasker
	unresolved := 0

	for i, container := range containers {
		record, ok := c.extractRecord(container)
		if !ok {
			unresolved++
			c.logger.Debug("container failed identity validation", "index", i)
			continue
		}
		records = append(records, record)
	}

	c.logger.Info("page collected",
		"records", len(records), "unresolved", unresolved)
	return records, unresolved
}

// discoverContainers tries each container locator in order and keeps the
// first non-empty result.
func (c *Collector) discoverContainers(page extract.Page) []extract.Container {
	for i, sel := range containerSelectors {
		containers := page.Containers(sel)
		if len(containers) > 0 {
			if i > 0 {
				c.logger.Info("containers found with fallback selector",
					"selector", sel, "count", len(containers))
			}
			return containers
		}
	}
	return nil
}

// extractRecord runs every field cascade against one container. Returns
// false when the container has no strictly valid name.
func (c *Collector) extractRecord(container extract.Container) (models.Tasker, bool) {
	name, ok := c.name.Extract(container)
	if !ok || !validate.IsValidPersonName(name) {
		return models.Tasker{}, false
	}

	record := models.Tasker{Name: name}

	if rate, ok := c.rate.Extract(container); ok {
		record.HourlyRate = models.StrPtr(rate)
	}

	if rating, count, ok := extractReviews(container); ok {
		record.ReviewRating = models.StrPtr(rating)
		if n, err := strconv.Atoi(count); err == nil {
			record.ReviewCount = models.IntPtr(n)
		}
	}

	category, overall, categoryFound, overallFound := extractTaskCounts(container, c.categoryPattern)
	if categoryFound {
		record.CategoryTasks = models.IntPtr(category)
	}
	if overallFound {
		record.OverallTasks = models.IntPtr(overall)
	}

	record.TwoHourMinimum = twoHourMinimumFlag.Detect(container)
	record.EliteStatus = eliteFlag.Detect(container)

	return record, true
}
