// pkg/model/health.go
package model

import (
	"fmt"
	"time"
)

// AlertLevel classifies overall pipeline health.
type AlertLevel int

const (
	LevelGreen AlertLevel = iota
	LevelYellow
	LevelRed
)

// String returns a string representation of the alert level.
func (l AlertLevel) String() string {
	switch l {
	case LevelGreen:
		return "GREEN"
	case LevelYellow:
		return "YELLOW"
	case LevelRed:
		return "RED"
	default:
		return fmt.Sprintf("Unknown(%d)", l)
	}
}

// Escalate raises l to at least other, never lowering it.
func (l AlertLevel) Escalate(other AlertLevel) AlertLevel {
	if other > l {
		return other
	}
	return l
}

// AlertThresholds are the health evaluation limits. Defaults apply globally
// and callers may override per evaluation.
type AlertThresholds struct {
	MinSuccessRate     float64 `yaml:"min_success_rate"`
	MaxDurationSeconds float64 `yaml:"max_duration_seconds"`
	MinQualityScore    float64 `yaml:"min_quality_score"`
	MaxErrorRate       float64 `yaml:"max_error_rate"`
}

// DefaultAlertThresholds returns the global default thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		MinSuccessRate:     70.0,
		MaxDurationSeconds: 60.0,
		MinQualityScore:    60.0,
		MaxErrorRate:       10.0,
	}
}

// AlertSeverity ranks an individual alert.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// Alert names one breached threshold.
type Alert struct {
	Type      string        `json:"type"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Value     float64       `json:"value"`
	Threshold float64       `json:"threshold"`
}

// HealthReport aggregates a recent window of execution metrics into a single
// health classification with one named alert per breached threshold.
type HealthReport struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Window      time.Duration `json:"window_ns"`

	TotalExecutions  int     `json:"total_executions"`
	FailedExecutions int     `json:"failed_executions"`
	SuccessRate      float64 `json:"success_rate"`
	AvgDuration      float64 `json:"avg_duration_seconds"`
	AvgQualityScore  float64 `json:"avg_quality_score"`
	AvgTransformRate float64 `json:"avg_transformation_rate"`
	ErrorRate        float64 `json:"error_rate"`

	Level           AlertLevel `json:"-"`
	LevelName       string     `json:"alert_level"`
	Alerts          []Alert    `json:"alerts"`
	Recommendations []string   `json:"recommendations,omitempty"`
}
