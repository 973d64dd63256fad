package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/walkersim/internal/experiment"
)

// ExportData is the flat JSON form of a report.
type ExportData struct {
	Agent      string             `json:"agent"`
	Seed       int64              `json:"seed"`
	Duration   int                `json:"duration"`
	Population int                `json:"population"`
	Batches    []experiment.Batch `json:"batches"`
	ElapsedMS  int64              `json:"elapsed_ms"`
}

func newExportData(report *experiment.Report) ExportData {
	return ExportData{
		Agent:      report.Config.Agent,
		Seed:       report.Config.Seed,
		Duration:   report.Config.Duration,
		Population: report.Config.Population,
		Batches:    report.Batches,
		ElapsedMS:  report.Elapsed.Milliseconds(),
	}
}

func ExportJSON(path string, report *experiment.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, report)
}

// WriteJSON writes the indented export form of report to w.
func WriteJSON(w io.Writer, report *experiment.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(report))
}
