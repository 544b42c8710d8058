// pkg/monitor/alerts.go
package monitor

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/model"
)

// Within the last repeatedFailureWindow executions, repeatedFailureCount or
// more failures escalate straight to RED regardless of aggregate rates.
const (
	repeatedFailureWindow = 5
	repeatedFailureCount  = 2
)

// Evaluator classifies recent pipeline health against configured thresholds.
type Evaluator struct {
	logger     *zap.Logger
	store      *Store
	thresholds model.AlertThresholds
}

// NewEvaluator creates an AlertEvaluator reading from store. Zero-valued
// thresholds fall back to the global defaults.
func NewEvaluator(store *Store, thresholds model.AlertThresholds, logger *zap.Logger) *Evaluator {
	if thresholds == (model.AlertThresholds{}) {
		thresholds = model.DefaultAlertThresholds()
	}
	if logger == nil {
		logger = zap.L().Named("alerts")
	}
	return &Evaluator{logger: logger, store: store, thresholds: thresholds}
}

// CheckHealth aggregates the metrics of the lookback window into a health
// report: GREEN when everything is within thresholds, YELLOW on degraded
// quality, duration, or error rate, RED when the success rate falls below
// the minimum or failures repeat.
func (e *Evaluator) CheckHealth(hours int) (*model.HealthReport, error) {
	metrics, err := e.store.LoadRecent(hours)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent metrics: %w", err)
	}

	report := e.Evaluate(metrics, time.Duration(hours)*time.Hour)

	e.logger.Info("Health check complete",
		zap.String("level", report.LevelName),
		zap.Int("executions", report.TotalExecutions),
		zap.Int("alerts", len(report.Alerts)))

	return report, nil
}

// Evaluate classifies an already-loaded window of metrics.
func (e *Evaluator) Evaluate(metrics []model.ExecutionMetric, window time.Duration) *model.HealthReport {
	report := &model.HealthReport{
		GeneratedAt: time.Now(),
		Window:      window,
		Level:       model.LevelGreen,
	}

	if len(metrics) == 0 {
		report.Level = model.LevelYellow
		report.Alerts = append(report.Alerts, model.Alert{
			Type:     "NO_DATA",
			Severity: model.SeverityWarning,
			Message:  "No pipeline executions recorded in the monitoring window",
		})
		report.Recommendations = append(report.Recommendations,
			"Verify that scheduled pipeline runs are being triggered")
		report.LevelName = report.Level.String()
		return report
	}

	var failed int
	var totalDuration, totalQuality, totalTransform float64
	for _, m := range metrics {
		if m.Status == model.ExecutionFailed {
			failed++
		}
		totalDuration += m.Duration.Seconds()
		totalQuality += m.QualityScore
		totalTransform += m.TransformationSuccessRate
	}

	n := float64(len(metrics))
	report.TotalExecutions = len(metrics)
	report.FailedExecutions = failed
	report.SuccessRate = (n - float64(failed)) / n * 100.0
	report.AvgDuration = totalDuration / n
	report.AvgQualityScore = totalQuality / n
	report.AvgTransformRate = totalTransform / n
	report.ErrorRate = float64(failed) / n * 100.0

	if report.SuccessRate < e.thresholds.MinSuccessRate {
		report.Level = report.Level.Escalate(model.LevelRed)
		report.Alerts = append(report.Alerts, model.Alert{
			Type:      "LOW_SUCCESS_RATE",
			Severity:  model.SeverityCritical,
			Message:   fmt.Sprintf("Success rate %.1f%% is below the %.1f%% minimum", report.SuccessRate, e.thresholds.MinSuccessRate),
			Value:     report.SuccessRate,
			Threshold: e.thresholds.MinSuccessRate,
		})
		report.Recommendations = append(report.Recommendations,
			"Inspect the error lists of recent FAILED executions for a common cause")
	}

	if report.AvgDuration > e.thresholds.MaxDurationSeconds {
		report.Level = report.Level.Escalate(model.LevelYellow)
		report.Alerts = append(report.Alerts, model.Alert{
			Type:      "SLOW_EXECUTIONS",
			Severity:  model.SeverityWarning,
			Message:   fmt.Sprintf("Average duration %.1fs exceeds the %.1fs limit", report.AvgDuration, e.thresholds.MaxDurationSeconds),
			Value:     report.AvgDuration,
			Threshold: e.thresholds.MaxDurationSeconds,
		})
		report.Recommendations = append(report.Recommendations,
			"Profile the transformation stage; large datasets may need batching")
	}

	if report.AvgQualityScore < e.thresholds.MinQualityScore {
		report.Level = report.Level.Escalate(model.LevelYellow)
		report.Alerts = append(report.Alerts, model.Alert{
			Type:      "LOW_QUALITY_SCORE",
			Severity:  model.SeverityWarning,
			Message:   fmt.Sprintf("Average quality score %.1f is below the %.1f minimum", report.AvgQualityScore, e.thresholds.MinQualityScore),
			Value:     report.AvgQualityScore,
			Threshold: e.thresholds.MinQualityScore,
		})
		report.Recommendations = append(report.Recommendations,
			"Review validation failures and null rates in the affected datasets")
	}

	if report.ErrorRate > e.thresholds.MaxErrorRate {
		report.Level = report.Level.Escalate(model.LevelYellow)
		report.Alerts = append(report.Alerts, model.Alert{
			Type:      "HIGH_ERROR_RATE",
			Severity:  model.SeverityWarning,
			Message:   fmt.Sprintf("Error rate %.1f%% exceeds the %.1f%% limit", report.ErrorRate, e.thresholds.MaxErrorRate),
			Value:     report.ErrorRate,
			Threshold: e.thresholds.MaxErrorRate,
		})
		report.Recommendations = append(report.Recommendations,
			"Check upstream data sources for schema or availability changes")
	}

	if recent := recentFailures(metrics); recent >= repeatedFailureCount {
		report.Level = report.Level.Escalate(model.LevelRed)
		report.Alerts = append(report.Alerts, model.Alert{
			Type:      "REPEATED_FAILURES",
			Severity:  model.SeverityCritical,
			Message:   fmt.Sprintf("%d of the last %d executions failed", recent, repeatedFailureWindow),
			Value:     float64(recent),
			Threshold: float64(repeatedFailureCount),
		})
		report.Recommendations = append(report.Recommendations,
			"Pipeline is failing repeatedly; pause scheduled runs until the root cause is fixed")
	}

	report.LevelName = report.Level.String()
	return report
}

// recentFailures counts FAILED executions among the newest
// repeatedFailureWindow metrics. The input is expected oldest first, as
// LoadRecent returns it.
func recentFailures(metrics []model.ExecutionMetric) int {
	start := 0
	if len(metrics) > repeatedFailureWindow {
		start = len(metrics) - repeatedFailureWindow
	}
	count := 0
	for _, m := range metrics[start:] {
		if m.Status == model.ExecutionFailed {
			count++
		}
	}
	return count
}
