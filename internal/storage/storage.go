package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/maltedev/tasker-scraper/internal/models"
)

// RunResult is the persisted outcome of one category walk.
type RunResult struct {
	Category   string          `json:"category"`
	Status     string          `json:"status"` // pending, running, completed, failed
	Pages      int             `json:"pages"`
	Unresolved int             `json:"unresolved"`
	Taskers    []models.Tasker `json:"taskers"`
	StartedAt  time.Time       `json:"started_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Error      string          `json:"error,omitempty"`
}

// ResultStore keeps the latest run per category in a single JSON file,
// written atomically so a crash mid-save never corrupts earlier results.
type ResultStore struct {
	mu       sync.RWMutex
	runs     map[string]*RunResult
	filename string
}

func NewResultStore(filename string) (*ResultStore, error) {
	rs := &ResultStore{
		runs:     make(map[string]*RunResult),
		filename: filename,
	}

	if err := rs.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return rs, nil
}

func (rs *ResultStore) Put(result *RunResult) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if result.Category == "" {
		return fmt.Errorf("category is required")
	}

	if result.StartedAt.IsZero() {
		result.StartedAt = time.Now()
	}
	result.UpdatedAt = time.Now()
	if result.Status == "" {
		result.Status = "pending"
	}

	rs.runs[result.Category] = result
	return rs.save()
}

func (rs *ResultStore) Get(category string) (*RunResult, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	run, exists := rs.runs[category]
	return run, exists
}

func (rs *ResultStore) UpdateStatus(category, status string, errorMsg string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	run, exists := rs.runs[category]
	if !exists {
		return fmt.Errorf("run not found: %s", category)
	}

	run.Status = status
	run.UpdatedAt = time.Now()
	run.Error = errorMsg

	return rs.save()
}

func (rs *ResultStore) Stats() map[string]int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	stats := make(map[string]int)
	taskers := 0
	for _, run := range rs.runs {
		stats[run.Status]++
		taskers += len(run.Taskers)
	}
	stats["total"] = len(rs.runs)
	stats["taskers"] = taskers
	return stats
}

func (rs *ResultStore) save() error {
	data, err := json.MarshalIndent(rs.runs, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first for atomicity
	tmpFile := rs.filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, rs.filename)
}

func (rs *ResultStore) Load() error {
	data, err := os.ReadFile(rs.filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &rs.runs)
}
