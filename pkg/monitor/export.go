// pkg/monitor/export.go
package monitor

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ExportCSV writes the metrics of the lookback window to a CSV file under
// the monitoring directory and returns its path.
func (s *Store) ExportCSV(hours int) (string, error) {
	metrics, err := s.LoadRecent(hours)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, fmt.Sprintf("export_%s.csv", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"execution_id", "dataset_name", "timestamp", "status",
		"duration_seconds", "input_rows", "output_rows",
		"transformations_attempted", "transformations_successful", "transformation_success_rate",
		"rules_evaluated", "rules_passed", "validation_success_rate",
		"quality_score",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write export header: %w", err)
	}

	for _, m := range metrics {
		record := []string{
			m.ExecutionID,
			m.DatasetName,
			m.Timestamp.Format(time.RFC3339),
			string(m.Status),
			strconv.FormatFloat(m.Duration.Seconds(), 'f', 3, 64),
			strconv.Itoa(m.InputRows),
			strconv.Itoa(m.OutputRows),
			strconv.Itoa(m.TransformationsAttempted),
			strconv.Itoa(m.TransformationsSuccessful),
			strconv.FormatFloat(m.TransformationSuccessRate, 'f', 1, 64),
			strconv.Itoa(m.RulesEvaluated),
			strconv.Itoa(m.RulesPassed),
			strconv.FormatFloat(m.ValidationSuccessRate, 'f', 1, 64),
			strconv.FormatFloat(m.QualityScore, 'f', 1, 64),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write export record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export file: %w", err)
	}

	return path, nil
}
