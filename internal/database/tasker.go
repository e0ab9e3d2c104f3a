package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maltedev/tasker-scraper/internal/models"
)

// InsertTaskerWithTx upserts one tasker record inside a transaction,
// keyed by (name, category). Re-scraping a category refreshes the row
// instead of duplicating it. Optional fields stay NULL when the page
// never yielded them, which is distinct from an explicit zero.
func (db *DB) InsertTaskerWithTx(ctx context.Context, tx pgx.Tx, t *models.Tasker) error {
	query := `
		INSERT INTO taskers (
			name, hourly_rate, review_rating, review_count,
			category_tasks, overall_tasks, two_hour_minimum, elite_status,
			category, page, scraped_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (name, category) DO UPDATE SET
			hourly_rate = EXCLUDED.hourly_rate,
			review_rating = EXCLUDED.review_rating,
			review_count = EXCLUDED.review_count,
			category_tasks = EXCLUDED.category_tasks,
			overall_tasks = EXCLUDED.overall_tasks,
			two_hour_minimum = EXCLUDED.two_hour_minimum,
			elite_status = EXCLUDED.elite_status,
			page = EXCLUDED.page,
			scraped_at = EXCLUDED.scraped_at,
			updated_at = CURRENT_TIMESTAMP`

	scrapedAt := t.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now()
	}

	_, err := tx.Exec(ctx, query,
		t.Name, t.HourlyRate, t.ReviewRating, t.ReviewCount,
		t.CategoryTasks, t.OverallTasks, t.TwoHourMinimum, t.EliteStatus,
		t.Category, t.Page, scrapedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert tasker: %w", err)
	}

	return nil
}

// GetTaskersByCategory returns all taskers scraped for a category,
// ordered by the page they appeared on.
func (db *DB) GetTaskersByCategory(ctx context.Context, category string) ([]models.Tasker, error) {
	query := `
		SELECT name, hourly_rate, review_rating, review_count,
			   category_tasks, overall_tasks, two_hour_minimum, elite_status,
			   category, page, scraped_at
		FROM taskers
		WHERE category = $1
		ORDER BY page ASC, name ASC`

	rows, err := db.pool.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query taskers: %w", err)
	}
	defer rows.Close()

	var taskers []models.Tasker
	for rows.Next() {
		var t models.Tasker
		err := rows.Scan(
			&t.Name, &t.HourlyRate, &t.ReviewRating, &t.ReviewCount,
			&t.CategoryTasks, &t.OverallTasks, &t.TwoHourMinimum, &t.EliteStatus,
			&t.Category, &t.Page, &t.ScrapedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tasker: %w", err)
		}
		taskers = append(taskers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return taskers, nil
}

// GetTasker retrieves a single tasker by name and category
func (db *DB) GetTasker(ctx context.Context, name, category string) (*models.Tasker, error) {
	query := `
		SELECT name, hourly_rate, review_rating, review_count,
			   category_tasks, overall_tasks, two_hour_minimum, elite_status,
			   category, page, scraped_at
		FROM taskers
		WHERE name = $1 AND category = $2`

	t := &models.Tasker{}
	err := db.pool.QueryRow(ctx, query, name, category).Scan(
		&t.Name, &t.HourlyRate, &t.ReviewRating, &t.ReviewCount,
		&t.CategoryTasks, &t.OverallTasks, &t.TwoHourMinimum, &t.EliteStatus,
		&t.Category, &t.Page, &t.ScrapedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tasker: %w", err)
	}

	return t, nil
}

// CountTaskersByCategory returns per-category record counts
func (db *DB) CountTaskersByCategory(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT category, COUNT(*) as count
		FROM taskers
		GROUP BY category`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count taskers: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[category] = count
	}

	return counts, nil
}
