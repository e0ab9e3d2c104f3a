package jobs

import (
	"context"
	"time"

	"github.com/maltedev/tasker-scraper/internal/scraper"
	"github.com/maltedev/tasker-scraper/internal/storage"
)

// StartWorker starts the background job worker
func (m *Manager) StartWorker(ctx context.Context) {
	m.logger.Info("job worker started")

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("job worker stopping")
			return
		case <-ticker.C:
			m.processNextJob(ctx)
		}
	}
}

// processNextJob claims and processes the oldest pending job
func (m *Manager) processNextJob(ctx context.Context) {
	query := `
		SELECT id, category, max_pages
		FROM scraper_jobs
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var jobID, categoryKey string
	var maxPages int

	err := m.db.QueryRow(ctx, query).Scan(&jobID, &categoryKey, &maxPages)
	if err != nil {
		// No pending jobs
		return
	}

	m.logger.Info("processing job", "id", jobID, "category", categoryKey)

	if err := m.updateJobStatus(ctx, jobID, "running", nil); err != nil {
		m.logger.Error("failed to update job status", "error", err)
		return
	}

	if err := m.processJob(ctx, jobID, categoryKey, maxPages); err != nil {
		m.logger.Error("job failed", "id", jobID, "error", err)
		m.updateJobStatus(ctx, jobID, "failed", err)
		return
	}

	if err := m.updateJobStatus(ctx, jobID, "completed", nil); err != nil {
		m.logger.Error("failed to mark job as completed", "error", err)
	}

	m.logger.Info("job completed", "id", jobID)
}

// processJob runs the walk, persists and publishes every tasker, then
// exports the run to CSV.
func (m *Manager) processJob(ctx context.Context, jobID, categoryKey string, maxPages int) error {
	category, err := scraper.GetCategory(categoryKey)
	if err != nil {
		return err
	}

	if maxPages == 0 {
		maxPages = m.cfg.MaxPages
	}

	result, err := m.runner.Run(ctx, category, scraper.WalkConfig{
		MaxPages:   maxPages,
		PerPageCap: m.cfg.PerPageCap,
	})
	if err != nil {
		return err
	}

	published := 0
	for i := range result.Taskers {
		tasker := &result.Taskers[i]
		tasker.Category = categoryKey
		if tasker.ScrapedAt.IsZero() {
			tasker.ScrapedAt = time.Now()
		}

		if err := m.publisher.PublishTaskerScraped(ctx, tasker); err != nil {
			m.logger.Error("failed to publish tasker",
				"job", jobID, "name", tasker.Name, "error", err)
			continue
		}
		published++
	}

	if err := m.updateJobProgress(ctx, jobID,
		result.PagesVisited, published, result.Unresolved); err != nil {
		m.logger.Error("failed to update progress", "job", jobID, "error", err)
	}

	if err := m.publisher.PublishCategoryCompleted(ctx, categoryKey,
		published, result.PagesVisited, result.Unresolved); err != nil {
		m.logger.Error("failed to publish completion", "job", jobID, "error", err)
	}

	if m.cfg.OutputDir != "" && len(result.Taskers) > 0 {
		path := storage.CSVPath(m.cfg.OutputDir, categoryKey, time.Now())
		if err := storage.WriteCSV(path, result.Taskers); err != nil {
			m.logger.Error("failed to write csv", "job", jobID, "error", err)
		} else {
			m.logger.Info("csv written", "job", jobID, "path", path)
		}
	}

	m.logger.Info("job processing complete",
		"job", jobID,
		"taskers", len(result.Taskers),
		"published", published,
		"pages", result.PagesVisited,
		"unresolved", result.Unresolved)
	return nil
}
