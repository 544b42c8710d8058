// pkg/model/result.go
package model

// FieldOutcome is the explicit result of converting a single cell. Expected
// parse failures are values, not errors: callers branch on Converted.
type FieldOutcome struct {
	Value      interface{}
	Converted  bool
	Diagnostic string
}

// ColumnChange records the transformation attempted on one column.
type ColumnChange struct {
	Column         string
	FromType       string
	ToType         SemanticType
	Outcome        TransformStatus
	CellsConverted int
	CellsFailed    int
	Diagnostics    []string
}

// TransformationResult aggregates the per-column outcomes for one dataset.
// Attempted counts columns the engine actually tried to convert; skipped
// columns (already in their target representation) are excluded.
type TransformationResult struct {
	DatasetName string
	Attempted   int
	Succeeded   int
	Changes     []ColumnChange
}

// SuccessRate returns succeeded/attempted in [0,1], defined as 1.0 when no
// transformation was attempted.
func (r *TransformationResult) SuccessRate() float64 {
	if r.Attempted == 0 {
		return 1.0
	}
	return float64(r.Succeeded) / float64(r.Attempted)
}
