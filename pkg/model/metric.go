// pkg/model/metric.go
package model

import (
	"fmt"
	"time"
)

// RunState is the lifecycle state of one pipeline run. FAILED is terminal and
// reachable from any non-terminal state.
type RunState int

const (
	RunStarted RunState = iota
	RunTransforming
	RunValidating
	RunScoring
	RunFinalized
	RunFailed
)

// String returns a string representation of the run state.
func (s RunState) String() string {
	switch s {
	case RunStarted:
		return "STARTED"
	case RunTransforming:
		return "TRANSFORMING"
	case RunValidating:
		return "VALIDATING"
	case RunScoring:
		return "SCORING"
	case RunFinalized:
		return "FINALIZED"
	case RunFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Terminal reports whether the state permits no further transitions.
func (s RunState) Terminal() bool {
	return s == RunFinalized || s == RunFailed
}

// CanTransitionTo reports whether moving from s to next is a legal step in
// the run state machine.
func (s RunState) CanTransitionTo(next RunState) bool {
	if s.Terminal() {
		return false
	}
	if next == RunFailed {
		return true
	}
	return next == s+1
}

// ExecutionStatus is the persisted outcome of a run.
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "SUCCESS"
	ExecutionPartial ExecutionStatus = "PARTIAL"
	ExecutionFailed  ExecutionStatus = "FAILED"
)

// ExecutionMetric is the persisted record of one pipeline run: timing,
// volume, and outcome. Created at run start, finalized and persisted exactly
// once, including on failure.
type ExecutionMetric struct {
	ExecutionID string    `json:"execution_id"`
	DatasetName string    `json:"dataset_name"`
	Timestamp   time.Time `json:"timestamp"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration_ns"`

	InputRows     int `json:"input_rows"`
	OutputRows    int `json:"output_rows"`
	InputColumns  int `json:"input_columns"`
	OutputColumns int `json:"output_columns"`

	TransformationsAttempted  int     `json:"transformations_attempted"`
	TransformationsSuccessful int     `json:"transformations_successful"`
	TransformationSuccessRate float64 `json:"transformation_success_rate"`

	RulesEvaluated        int     `json:"rules_evaluated"`
	RulesPassed           int     `json:"rules_passed"`
	ValidationSuccessRate float64 `json:"validation_success_rate"`

	QualityScore float64         `json:"quality_score"`
	Status       ExecutionStatus `json:"status"`
	Errors       []string        `json:"errors,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// DurationSeconds returns the run duration in seconds.
func (m *ExecutionMetric) DurationSeconds() float64 {
	return m.Duration.Seconds()
}
