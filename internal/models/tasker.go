package models

import (
	"strconv"
	"time"
)

// Tasker is one extracted listing record. Every field except Name is
// optional: absence is represented with a nil pointer, never guessed.
// OverallTasks keeps "not found" (nil) and an explicit zero distinct; the
// two must never be conflated in any output.
type Tasker struct {
	Name           string    `json:"name"`
	HourlyRate     *string   `json:"hourly_rate,omitempty"`
	ReviewRating   *string   `json:"review_rating,omitempty"`
	ReviewCount    *int      `json:"review_count,omitempty"`
	CategoryTasks  *int      `json:"category_tasks,omitempty"`
	OverallTasks   *int      `json:"overall_tasks,omitempty"`
	TwoHourMinimum bool      `json:"two_hour_minimum"`
	EliteStatus    bool      `json:"elite_status"`
	Category       string    `json:"category,omitempty"`
	Page           int       `json:"page,omitempty"`
	ScrapedAt      time.Time `json:"scraped_at,omitzero"`
}

// CSVHeader is the fixed export column order.
func CSVHeader() []string {
	return []string{
		"name",
		"hourly_rate",
		"review_rating",
		"review_count",
		"category_tasks",
		"overall_tasks",
		"two_hour_minimum",
		"elite_status",
		"category",
		"page",
	}
}

// CSVRow renders the record in CSVHeader order. Missing optionals become
// empty cells; an explicit zero stays "0". Flags serialize as literal
// booleans.
func (t *Tasker) CSVRow() []string {
	return []string{
		t.Name,
		strOrEmpty(t.HourlyRate),
		strOrEmpty(t.ReviewRating),
		intOrEmpty(t.ReviewCount),
		intOrEmpty(t.CategoryTasks),
		intOrEmpty(t.OverallTasks),
		strconv.FormatBool(t.TwoHourMinimum),
		strconv.FormatBool(t.EliteStatus),
		t.Category,
		strconv.Itoa(t.Page),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// IntPtr and StrPtr build optional fields from extracted values.
func IntPtr(n int) *int       { return &n }
func StrPtr(s string) *string { return &s }
