package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRowKeepsMissingAndZeroDistinct(t *testing.T) {
	missing := &Tasker{Name: "Ivan T."}
	zero := &Tasker{Name: "Ivan T.", OverallTasks: IntPtr(0)}

	rowMissing := missing.CSVRow()
	rowZero := zero.CSVRow()

	idx := indexOf(t, CSVHeader(), "overall_tasks")
	assert.Equal(t, "", rowMissing[idx])
	assert.Equal(t, "0", rowZero[idx])
	assert.NotEqual(t, rowMissing[idx], rowZero[idx])
}

func TestCSVRowMatchesHeaderLength(t *testing.T) {
	tk := &Tasker{
		Name:           "Laurette O.",
		HourlyRate:     StrPtr("39.23"),
		ReviewRating:   StrPtr("4.9"),
		ReviewCount:    IntPtr(142),
		CategoryTasks:  IntPtr(57),
		OverallTasks:   IntPtr(340),
		TwoHourMinimum: true,
		EliteStatus:    false,
		Category:       "furniture_assembly",
		Page:           2,
	}

	row := tk.CSVRow()
	require.Len(t, row, len(CSVHeader()))
	assert.Equal(t, "Laurette O.", row[0])
	assert.Equal(t, "39.23", row[1])
	assert.Equal(t, "true", row[6])
	assert.Equal(t, "false", row[7])
}

func TestJSONKeepsMissingAndZeroDistinct(t *testing.T) {
	missing, err := json.Marshal(&Tasker{Name: "Ivan T."})
	require.NoError(t, err)
	zero, err := json.Marshal(&Tasker{Name: "Ivan T.", OverallTasks: IntPtr(0)})
	require.NoError(t, err)

	assert.NotContains(t, string(missing), "overall_tasks")
	assert.Contains(t, string(zero), `"overall_tasks":0`)
}

func indexOf(t *testing.T, header []string, col string) int {
	t.Helper()
	for i, h := range header {
		if h == col {
			return i
		}
	}
	t.Fatalf("column %s not in header", col)
	return -1
}
