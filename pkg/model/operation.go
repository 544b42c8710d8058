// pkg/model/operation.go
package model

import "time"

// Operation is the audit record of one column-level transformation, written
// to the field_transformations tracking table when an audit recorder is
// attached to the pipeline.
type Operation struct {
	OperationID   string      // unique identifier for this operation
	DatasetName   string      // dataset the column belongs to
	ExecutionID   string      // run that produced the change
	ColumnName    string      // column that was transformed
	FromType      string      // representation before the transformation
	ToType        string      // semantic type after the transformation
	CellsChanged  int         // cells rewritten by the transformation
	CellsRetained int         // cells that failed to parse and kept their value
	Outcome       string      // success, failed, or skipped
	Detail        interface{} // optional diagnostic detail (may be nil)
	RecordedAt    time.Time   // set by the database on insert
}
