package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maltedev/tasker-scraper/internal/models"
)

// WriteCSV exports records with the fixed column order from models.
// Missing optionals stay empty cells; explicit zeros stay "0".
func WriteCSV(path string, taskers []models.Tasker) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.CSVHeader()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range taskers {
		if err := w.Write(taskers[i].CSVRow()); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// CSVPath builds a timestamped per-category export filename.
func CSVPath(dir, category string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("taskers_%s_%s.csv", category, now.Format("20060102_150405")))
}
