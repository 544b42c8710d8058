// pkg/monitor/alerts_test.go
package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/model"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	return NewEvaluator(newTestStore(t), model.DefaultAlertThresholds(), zap.NewNop())
}

func metricWith(status model.ExecutionStatus, duration time.Duration, quality float64) model.ExecutionMetric {
	return model.ExecutionMetric{
		Timestamp:    time.Now(),
		Status:       status,
		Duration:     duration,
		QualityScore: quality,
	}
}

func healthy(n int) []model.ExecutionMetric {
	metrics := make([]model.ExecutionMetric, 0, n)
	for i := 0; i < n; i++ {
		m := metricWith(model.ExecutionSuccess, 5*time.Second, 95)
		m.TransformationSuccessRate = 100
		metrics = append(metrics, m)
	}
	return metrics
}

func TestHealthyWindowIsGreen(t *testing.T) {
	e := newTestEvaluator(t)

	report := e.Evaluate(healthy(10), 24*time.Hour)

	assert.Equal(t, model.LevelGreen, report.Level)
	assert.Equal(t, "GREEN", report.LevelName)
	assert.Empty(t, report.Alerts)
	assert.Equal(t, 100.0, report.SuccessRate)
}

func TestLowSuccessRateIsRed(t *testing.T) {
	e := newTestEvaluator(t)

	// 4 of 10 failed: success rate 60 < 70.
	metrics := healthy(6)
	for i := 0; i < 4; i++ {
		metrics = append(metrics, metricWith(model.ExecutionFailed, 5*time.Second, 0))
	}

	report := e.Evaluate(metrics, 24*time.Hour)

	assert.Equal(t, model.LevelRed, report.Level)
	assert.Equal(t, 60.0, report.SuccessRate)
	require.NotEmpty(t, report.Alerts)

	var types []string
	for _, a := range report.Alerts {
		types = append(types, a.Type)
	}
	assert.Contains(t, types, "LOW_SUCCESS_RATE")
	assert.NotEmpty(t, report.Recommendations)
}

func TestDegradedQualityIsYellow(t *testing.T) {
	e := newTestEvaluator(t)

	metrics := make([]model.ExecutionMetric, 0, 10)
	for i := 0; i < 10; i++ {
		metrics = append(metrics, metricWith(model.ExecutionSuccess, 5*time.Second, 50))
	}

	report := e.Evaluate(metrics, 24*time.Hour)

	assert.Equal(t, model.LevelYellow, report.Level)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, "LOW_QUALITY_SCORE", report.Alerts[0].Type)
	assert.Equal(t, model.SeverityWarning, report.Alerts[0].Severity)
	assert.Equal(t, 50.0, report.Alerts[0].Value)
	assert.Equal(t, 60.0, report.Alerts[0].Threshold)
}

func TestSlowExecutionsAreYellow(t *testing.T) {
	e := newTestEvaluator(t)

	metrics := make([]model.ExecutionMetric, 0, 5)
	for i := 0; i < 5; i++ {
		metrics = append(metrics, metricWith(model.ExecutionSuccess, 90*time.Second, 95))
	}

	report := e.Evaluate(metrics, 24*time.Hour)

	assert.Equal(t, model.LevelYellow, report.Level)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, "SLOW_EXECUTIONS", report.Alerts[0].Type)
}

// A single recent failure among many old successes is fine; two failures in
// the last five executions escalate to RED even when the aggregate success
// rate is acceptable.
func TestRepeatedRecentFailuresAreRed(t *testing.T) {
	e := newTestEvaluator(t)

	metrics := healthy(18) // aggregate success rate 90%
	metrics = append(metrics,
		metricWith(model.ExecutionFailed, 5*time.Second, 0),
		metricWith(model.ExecutionFailed, 5*time.Second, 0))

	report := e.Evaluate(metrics, 24*time.Hour)

	assert.Equal(t, model.LevelRed, report.Level)

	var types []string
	for _, a := range report.Alerts {
		types = append(types, a.Type)
	}
	assert.Contains(t, types, "REPEATED_FAILURES")
}

func TestEmptyWindowIsYellowNoData(t *testing.T) {
	e := newTestEvaluator(t)

	report := e.Evaluate(nil, 24*time.Hour)

	assert.Equal(t, model.LevelYellow, report.Level)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, "NO_DATA", report.Alerts[0].Type)
	assert.Equal(t, 0, report.TotalExecutions)
}

func TestCheckHealthReadsStore(t *testing.T) {
	store := newTestStore(t)
	e := NewEvaluator(store, model.AlertThresholds{}, zap.NewNop())

	metric := store.Start("d")
	metric.Status = model.ExecutionSuccess
	metric.QualityScore = 95
	metric.TransformationSuccessRate = 100
	metric.Duration = 2 * time.Second
	require.NoError(t, store.Finish(metric))

	report, err := e.CheckHealth(24)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalExecutions)
	assert.Equal(t, model.LevelGreen, report.Level)
}

func TestDashboardRendersAlertsAndRecommendations(t *testing.T) {
	e := newTestEvaluator(t)

	metrics := []model.ExecutionMetric{metricWith(model.ExecutionFailed, 5*time.Second, 0)}
	report := e.Evaluate(metrics, 24*time.Hour)

	text := GenerateHealthDashboard(report)
	assert.Contains(t, text, "Pipeline Health Dashboard")
	assert.Contains(t, text, "Alert Level")
	assert.Contains(t, text, "RED")
	assert.Contains(t, text, "Active Alerts")
	assert.Contains(t, text, "LOW_SUCCESS_RATE")
	assert.Contains(t, text, "Recommendations")
}
