// pkg/model/report.go
package model

// RuleFailure carries the per-rule failure detail: which rule, how many rows
// offended, and a bounded sample of offending row indexes.
type RuleFailure struct {
	RuleID      string `json:"rule_id"`
	Severity    string `json:"severity"`
	FailingRows int    `json:"failing_rows"`
	SampleRows  []int  `json:"sample_rows,omitempty"`
	Detail      string `json:"detail"`
}

// ValidationReport is the outcome of evaluating a rule catalog against one
// dataset. Rules whose target columns are absent are skipped and excluded
// from RulesEvaluated.
type ValidationReport struct {
	DatasetName    string        `json:"dataset_name"`
	RulesEvaluated int           `json:"rules_evaluated"`
	RulesPassed    int           `json:"rules_passed"`
	RulesSkipped   int           `json:"rules_skipped"`
	Failures       []RuleFailure `json:"failures,omitempty"`
}

// SuccessRate returns passed/evaluated in [0,1], defined as 1.0 when no rule
// was evaluated.
func (r *ValidationReport) SuccessRate() float64 {
	if r.RulesEvaluated == 0 {
		return 1.0
	}
	return float64(r.RulesPassed) / float64(r.RulesEvaluated)
}
