package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maltedev/tasker-scraper/internal/config"
	"github.com/maltedev/tasker-scraper/internal/database"
	"github.com/maltedev/tasker-scraper/internal/events"
	"github.com/maltedev/tasker-scraper/internal/scraper"
)

type Manager struct {
	db        *database.DB
	runner    Runner
	publisher *events.Publisher
	cfg       config.ScraperConfig
	logger    *slog.Logger
}

func NewManager(db *database.DB, runner Runner, publisher *events.Publisher, cfg config.ScraperConfig, logger *slog.Logger) *Manager {
	return &Manager{
		db:        db,
		runner:    runner,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With("component", "job_manager"),
	}
}

// Job represents one queued category walk
type Job struct {
	ID           string     `json:"id"`
	Category     string     `json:"category"`
	MaxPages     int        `json:"max_pages"`
	Status       string     `json:"status"`
	PagesWalked  int        `json:"pages_walked"`
	TaskersFound int        `json:"taskers_found"`
	Unresolved   int        `json:"unresolved"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// Stats represents scraper statistics
type Stats struct {
	TotalJobs     int            `json:"total_jobs"`
	PendingJobs   int            `json:"pending_jobs"`
	RunningJobs   int            `json:"running_jobs"`
	CompletedJobs int            `json:"completed_jobs"`
	FailedJobs    int            `json:"failed_jobs"`
	TotalTaskers  int            `json:"total_taskers"`
	ByCategory    map[string]int `json:"by_category"`
	SuccessRate   float64        `json:"success_rate"`
}

// CreateJob queues a new category walk
func (m *Manager) CreateJob(ctx context.Context, category string, maxPages int) (*Job, error) {
	if _, err := scraper.GetCategory(category); err != nil {
		return nil, err
	}

	job := &Job{
		ID:        uuid.New().String(),
		Category:  category,
		MaxPages:  maxPages,
		Status:    "pending",
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO scraper_jobs
		(id, category, max_pages, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := m.db.Exec(ctx, query,
		job.ID, job.Category, job.MaxPages, job.Status, job.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	m.logger.Info("job created", "id", job.ID, "category", category)
	return job, nil
}

// GetJob retrieves a job by ID
func (m *Manager) GetJob(ctx context.Context, jobID string) (*Job, error) {
	query := `
		SELECT id, category, max_pages, status,
		       pages_walked, taskers_found, unresolved,
		       created_at, started_at, completed_at, COALESCE(error, '')
		FROM scraper_jobs
		WHERE id = $1
	`

	job := &Job{}
	err := m.db.QueryRow(ctx, query, jobID).Scan(
		&job.ID, &job.Category, &job.MaxPages, &job.Status,
		&job.PagesWalked, &job.TaskersFound, &job.Unresolved,
		&job.CreatedAt, &job.StartedAt, &job.CompletedAt, &job.Error,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// ListJobs lists recent jobs, newest first
func (m *Manager) ListJobs(ctx context.Context) ([]*Job, error) {
	query := `
		SELECT id, category, max_pages, status,
		       pages_walked, taskers_found, unresolved,
		       created_at, started_at, completed_at, COALESCE(error, '')
		FROM scraper_jobs
		ORDER BY created_at DESC
		LIMIT 100
	`

	rows, err := m.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job := &Job{}
		err := rows.Scan(
			&job.ID, &job.Category, &job.MaxPages, &job.Status,
			&job.PagesWalked, &job.TaskersFound, &job.Unresolved,
			&job.CreatedAt, &job.StartedAt, &job.CompletedAt, &job.Error,
		)
		if err != nil {
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// GetStats retrieves scraper statistics
func (m *Manager) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	query := `
		SELECT
			COUNT(*) as total_jobs,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) as pending_jobs,
			COUNT(CASE WHEN status = 'running' THEN 1 END) as running_jobs,
			COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed_jobs,
			COUNT(CASE WHEN status = 'failed' THEN 1 END) as failed_jobs
		FROM scraper_jobs
	`

	err := m.db.QueryRow(ctx, query).Scan(
		&stats.TotalJobs, &stats.PendingJobs, &stats.RunningJobs,
		&stats.CompletedJobs, &stats.FailedJobs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	if stats.TotalJobs > 0 {
		stats.SuccessRate = float64(stats.CompletedJobs) / float64(stats.TotalJobs) * 100
	}

	byCategory, err := m.db.CountTaskersByCategory(ctx)
	if err != nil {
		return nil, err
	}
	stats.ByCategory = byCategory
	for _, n := range byCategory {
		stats.TotalTaskers += n
	}

	return stats, nil
}

// updateJobStatus updates the status of a job
func (m *Manager) updateJobStatus(ctx context.Context, jobID, status string, jobErr error) error {
	var query string
	var args []interface{}

	now := time.Now()
	switch {
	case status == "running":
		query = `UPDATE scraper_jobs SET status = $1, started_at = $2 WHERE id = $3`
		args = []interface{}{status, now, jobID}
	case status == "completed":
		query = `UPDATE scraper_jobs SET status = $1, completed_at = $2 WHERE id = $3`
		args = []interface{}{status, now, jobID}
	case status == "failed" && jobErr != nil:
		query = `UPDATE scraper_jobs SET status = $1, completed_at = $2, error = $3 WHERE id = $4`
		args = []interface{}{status, now, jobErr.Error(), jobID}
	default:
		query = `UPDATE scraper_jobs SET status = $1 WHERE id = $2`
		args = []interface{}{status, jobID}
	}

	_, execErr := m.db.Exec(ctx, query, args...)
	return execErr
}

// updateJobProgress records the walk outcome on the job row
func (m *Manager) updateJobProgress(ctx context.Context, jobID string, pagesWalked, taskersFound, unresolved int) error {
	query := `
		UPDATE scraper_jobs
		SET pages_walked = $1, taskers_found = $2, unresolved = $3
		WHERE id = $4
	`
	_, err := m.db.Exec(ctx, query, pagesWalked, taskersFound, unresolved, jobID)
	return err
}
