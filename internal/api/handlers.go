package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maltedev/tasker-scraper/internal/database"
	"github.com/maltedev/tasker-scraper/internal/jobs"
	"github.com/maltedev/tasker-scraper/internal/scraper"
)

type Handlers struct {
	db     *database.DB
	jobs   *jobs.Manager
	logger *slog.Logger
}

func NewHandlers(db *database.DB, jobs *jobs.Manager, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:     db,
		jobs:   jobs,
		logger: logger,
	}
}

// CreateJobRequest represents a new category walk request
type CreateJobRequest struct {
	Category string `json:"category"`
	MaxPages int    `json:"max_pages"`
}

// CreateJobResponse represents the job creation response
type CreateJobResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreateJob handles new scraping job creation
func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Category == "" {
		h.respondError(w, http.StatusBadRequest, "category is required")
		return
	}

	if req.MaxPages < 0 {
		h.respondError(w, http.StatusBadRequest, "max_pages cannot be negative")
		return
	}

	job, err := h.jobs.CreateJob(r.Context(), req.Category, req.MaxPages)
	if err != nil {
		h.logger.Error("failed to create job", "error", err)
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, CreateJobResponse{
		JobID:   job.ID,
		Status:  job.Status,
		Message: "Job created successfully",
	})
}

// GetJob handles job status retrieval
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		h.respondError(w, http.StatusBadRequest, "job ID is required")
		return
	}

	job, err := h.jobs.GetJob(r.Context(), jobID)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "job not found")
		return
	}

	h.respondJSON(w, http.StatusOK, job)
}

// ListJobs handles listing recent jobs
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobList, err := h.jobs.ListJobs(r.Context())
	if err != nil {
		h.logger.Error("failed to list jobs", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	h.respondJSON(w, http.StatusOK, jobList)
}

// ListCategories returns the scrapeable categories
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	keys := scraper.CategoryKeys()

	type categoryInfo struct {
		Key  string `json:"key"`
		Name string `json:"name"`
		URL  string `json:"url"`
	}

	out := make([]categoryInfo, 0, len(keys))
	for _, key := range keys {
		c, err := scraper.GetCategory(key)
		if err != nil {
			continue
		}
		out = append(out, categoryInfo{Key: c.Key, Name: c.Name, URL: c.URL})
	}

	h.respondJSON(w, http.StatusOK, out)
}

// GetCategoryTaskers returns the persisted taskers for one category
func (h *Handlers) GetCategoryTaskers(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "category")
	if key == "" {
		h.respondError(w, http.StatusBadRequest, "category is required")
		return
	}

	if _, err := scraper.GetCategory(key); err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	taskers, err := h.db.GetTaskersByCategory(r.Context(), key)
	if err != nil {
		h.logger.Error("failed to get taskers", "category", key, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to get taskers")
		return
	}

	h.respondJSON(w, http.StatusOK, taskers)
}

// GetStats handles statistics retrieval
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.jobs.GetStats(r.Context())
	if err != nil {
		h.logger.Error("failed to get stats", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

// Helper methods
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
