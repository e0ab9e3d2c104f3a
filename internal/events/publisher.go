package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maltedev/tasker-scraper/internal/database"
	"github.com/maltedev/tasker-scraper/internal/models"
)

// EventType represents the type of event
type EventType string

const (
	// EventTypeTaskerScraped is published for every tasker collected from a listing page
	EventTypeTaskerScraped EventType = "TASKER_SCRAPED"
	// EventTypeCategoryCompleted is published once a category walk finishes
	EventTypeCategoryCompleted EventType = "CATEGORY_COMPLETED"
)

// TaskerScrapedPayload is the payload for TASKER_SCRAPED events
type TaskerScrapedPayload struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	Timestamp      time.Time `json:"timestamp"`
	Name           string    `json:"name"`
	HourlyRate     *string   `json:"hourly_rate,omitempty"`
	ReviewRating   *string   `json:"review_rating,omitempty"`
	ReviewCount    *int      `json:"review_count,omitempty"`
	CategoryTasks  *int      `json:"category_tasks,omitempty"`
	OverallTasks   *int      `json:"overall_tasks,omitempty"`
	TwoHourMinimum bool      `json:"two_hour_minimum"`
	EliteStatus    bool      `json:"elite_status"`
	Category       string    `json:"category"`
	Page           int       `json:"page"`
	Source         string    `json:"source"`
}

// CategoryCompletedPayload is the payload for CATEGORY_COMPLETED events
type CategoryCompletedPayload struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Category    string    `json:"category"`
	TaskerCount int       `json:"tasker_count"`
	PageCount   int       `json:"page_count"`
	Unresolved  int       `json:"unresolved"`
	Source      string    `json:"source"`
}

// Publisher handles event publishing using the transactional outbox pattern
type Publisher struct {
	db     *database.DB
	outbox *database.OutboxRepository
	logger *slog.Logger
}

// NewPublisher creates a new event publisher with database connection
func NewPublisher(db *database.DB, logger *slog.Logger) *Publisher {
	return &Publisher{
		db:     db,
		outbox: database.NewOutboxRepository(db),
		logger: logger.With("component", "event_publisher"),
	}
}

// PublishTaskerScraped persists the tasker and stages a TASKER_SCRAPED
// event in the same transaction, so the record and its event are never
// observed apart.
func (p *Publisher) PublishTaskerScraped(ctx context.Context, tasker *models.Tasker) error {
	payload := &TaskerScrapedPayload{
		EventID:        uuid.New().String(),
		EventType:      string(EventTypeTaskerScraped),
		Timestamp:      time.Now(),
		Name:           tasker.Name,
		HourlyRate:     tasker.HourlyRate,
		ReviewRating:   tasker.ReviewRating,
		ReviewCount:    tasker.ReviewCount,
		CategoryTasks:  tasker.CategoryTasks,
		OverallTasks:   tasker.OverallTasks,
		TwoHourMinimum: tasker.TwoHourMinimum,
		EliteStatus:    tasker.EliteStatus,
		Category:       tasker.Category,
		Page:           tasker.Page,
		Source:         "scraper",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	outboxEvent := &database.OutboxEvent{
		AggregateType: "tasker",
		AggregateID:   aggregateID(tasker.Name, tasker.Category),
		EventType:     string(EventTypeTaskerScraped),
		Payload:       data,
	}

	err = p.db.Transaction(ctx, func(tx pgx.Tx) error {
		if err := p.db.InsertTaskerWithTx(ctx, tx, tasker); err != nil {
			return err
		}
		if err := p.outbox.InsertWithTx(ctx, tx, outboxEvent); err != nil {
			return fmt.Errorf("failed to insert outbox event: %w", err)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("event published to outbox",
		"type", payload.EventType,
		"event_id", payload.EventID,
		"name", tasker.Name,
		"category", tasker.Category,
		"outbox_id", outboxEvent.ID,
	)

	return nil
}

// PublishCategoryCompleted stages a CATEGORY_COMPLETED event summarizing
// a finished walk.
func (p *Publisher) PublishCategoryCompleted(ctx context.Context, category string, taskerCount, pageCount, unresolved int) error {
	payload := &CategoryCompletedPayload{
		EventID:     uuid.New().String(),
		EventType:   string(EventTypeCategoryCompleted),
		Timestamp:   time.Now(),
		Category:    category,
		TaskerCount: taskerCount,
		PageCount:   pageCount,
		Unresolved:  unresolved,
		Source:      "scraper",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	outboxEvent := &database.OutboxEvent{
		AggregateType: "category",
		AggregateID:   category,
		EventType:     string(EventTypeCategoryCompleted),
		Payload:       data,
	}

	err = p.db.Transaction(ctx, func(tx pgx.Tx) error {
		return p.outbox.InsertWithTx(ctx, tx, outboxEvent)
	})

	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("event published to outbox",
		"type", payload.EventType,
		"event_id", payload.EventID,
		"category", category,
		"tasker_count", taskerCount,
	)

	return nil
}

func aggregateID(name, category string) string {
	return name + ":" + category
}
