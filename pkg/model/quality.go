// pkg/model/quality.go
package model

import "time"

// QualityScore is a weighted composite of four quality dimensions, each in
// [0,100]. Timeliness is a constant placeholder pending real freshness data.
type QualityScore struct {
	DatasetName string    `json:"dataset_name"`
	Timestamp   time.Time `json:"timestamp"`

	Completeness float64 `json:"completeness"`
	Validity     float64 `json:"validity"`
	Consistency  float64 `json:"consistency"`
	Timeliness   float64 `json:"timeliness"`
	Overall      float64 `json:"overall"`

	TotalRecords int `json:"total_records"`
	NullCells    int `json:"null_cells"`
}
