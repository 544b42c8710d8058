// pkg/monitor/store.go
package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/model"
)

// Store persists one ExecutionMetric per pipeline run beneath a monitoring
// directory: a structured JSON record per execution plus one human-readable
// line in a per-day log. Execution IDs embed a microsecond timestamp, so
// concurrent writers get unique filenames and never need a cross-process
// lock.
type Store struct {
	logger *zap.Logger
	dir    string
	// Guards the daily-log append and ID generation within this process.
	mu     sync.Mutex
	lastID string
}

// NewStore creates a MonitoringStore rooted at dir, creating the directory
// if needed.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("monitoring directory cannot be empty")
	}
	if logger == nil {
		logger = zap.L().Named("monitor")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create monitoring directory: %w", err)
	}
	return &Store{logger: logger, dir: dir}, nil
}

// Dir returns the monitoring directory.
func (s *Store) Dir() string {
	return s.dir
}

// Start creates the metric record for a new run. The returned metric is not
// persisted until Finish.
func (s *Store) Start(datasetName string) *model.ExecutionMetric {
	now := time.Now()
	executionID := executionIDAt(datasetName, now)

	// Two starts within the same microsecond would collide; wait the clock
	// out rather than hand out a duplicate ID.
	s.mu.Lock()
	for executionID == s.lastID {
		now = time.Now()
		executionID = executionIDAt(datasetName, now)
	}
	s.lastID = executionID
	s.mu.Unlock()

	metric := &model.ExecutionMetric{
		ExecutionID: executionID,
		DatasetName: datasetName,
		Timestamp:   now,
		StartTime:   now,
		Status:      model.ExecutionFailed, // pessimistic until finalized
	}

	s.logger.Info("Started pipeline execution",
		zap.String("executionId", executionID),
		zap.String("dataset", datasetName))

	return metric
}

// Finish persists a finalized metric exactly once: the per-execution JSON
// record (create-new, never overwrite) and one line appended to the daily
// log.
func (s *Store) Finish(metric *model.ExecutionMetric) error {
	if metric.EndTime.IsZero() {
		metric.EndTime = time.Now()
	}
	if metric.Duration == 0 {
		metric.Duration = metric.EndTime.Sub(metric.StartTime)
	}

	if err := s.writeRecord(metric); err != nil {
		return err
	}
	if err := s.appendDailyLog(metric); err != nil {
		return err
	}

	s.logger.Info("Persisted execution metric",
		zap.String("executionId", metric.ExecutionID),
		zap.String("status", string(metric.Status)),
		zap.Duration("duration", metric.Duration))

	return nil
}

func (s *Store) writeRecord(metric *model.ExecutionMetric) error {
	path := filepath.Join(s.dir, fmt.Sprintf("metrics_%s.json", metric.ExecutionID))

	data, err := json.MarshalIndent(metric, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metric: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create metric file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write metric file: %w", err)
	}
	return nil
}

func (s *Store) appendDailyLog(metric *model.ExecutionMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, fmt.Sprintf("quality_%s.log", metric.Timestamp.Format("20060102")))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open daily log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s status=%s duration=%.2fs rows=%d/%d transform_rate=%.1f%% quality=%.1f\n",
		metric.Timestamp.Format(time.RFC3339),
		metric.ExecutionID,
		metric.Status,
		metric.Duration.Seconds(),
		metric.InputRows,
		metric.OutputRows,
		metric.TransformationSuccessRate,
		metric.QualityScore)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append daily log: %w", err)
	}
	return nil
}

func executionIDAt(datasetName string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%06d",
		datasetName, now.Format("20060102_150405"), now.Nanosecond()/1000)
}

// LoadRecent returns all persisted metrics whose timestamp falls within the
// lookback window, oldest first. Unreadable files are logged and skipped.
func (s *Store) LoadRecent(hours int) ([]model.ExecutionMetric, error) {
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)

	paths, err := filepath.Glob(filepath.Join(s.dir, "metrics_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list metric files: %w", err)
	}

	var metrics []model.ExecutionMetric
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("Could not read metric file", zap.String("path", path), zap.Error(err))
			continue
		}
		var m model.ExecutionMetric
		if err := json.Unmarshal(data, &m); err != nil {
			s.logger.Warn("Could not parse metric file", zap.String("path", path), zap.Error(err))
			continue
		}
		if m.Timestamp.Before(cutoff) {
			continue
		}
		metrics = append(metrics, m)
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].Timestamp.Before(metrics[j].Timestamp)
	})
	return metrics, nil
}
