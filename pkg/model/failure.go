// pkg/model/failure.go
package model

import "fmt"

// FailureKind categorizes failures during a pipeline run, in increasing
// severity. Only PipelineFatal aborts a run; everything below it degrades to
// a best-effort result plus a failure report.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureFieldInferenceAmbiguous
	FailureTransformation
	FailureValidationRule
	FailurePersistence
	FailurePipelineFatal
)

// String returns a string representation of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "None"
	case FailureFieldInferenceAmbiguous:
		return "FieldInferenceAmbiguous"
	case FailureTransformation:
		return "TransformationFailure"
	case FailureValidationRule:
		return "ValidationRuleFailure"
	case FailurePersistence:
		return "PersistenceFailure"
	case FailurePipelineFatal:
		return "PipelineFatal"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Fatal reports whether the failure aborts the run instead of degrading it.
func (k FailureKind) Fatal() bool {
	return k == FailurePipelineFatal
}
