// pkg/model/profile.go
package model

import "fmt"

// SemanticType is the inferred logical kind of a column, independent of its
// raw textual representation. The set is closed: every type maps one-to-one
// to a transformer.
type SemanticType int

const (
	TypeFreeText SemanticType = iota
	TypeIdentifier
	TypeCurrency
	TypeDate
	TypeGeoLat
	TypeGeoLon
	TypeAdministrativeInt
	TypeCategory
	TypeBoolean
)

// String returns the canonical name for a semantic type.
func (t SemanticType) String() string {
	switch t {
	case TypeFreeText:
		return "free_text"
	case TypeIdentifier:
		return "identifier"
	case TypeCurrency:
		return "currency"
	case TypeDate:
		return "date"
	case TypeGeoLat:
		return "geo_lat"
	case TypeGeoLon:
		return "geo_lon"
	case TypeAdministrativeInt:
		return "administrative_int"
	case TypeCategory:
		return "category"
	case TypeBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// ParseSemanticType maps a canonical name back to its SemanticType.
func ParseSemanticType(s string) (SemanticType, error) {
	for _, t := range []SemanticType{
		TypeFreeText, TypeIdentifier, TypeCurrency, TypeDate, TypeGeoLat,
		TypeGeoLon, TypeAdministrativeInt, TypeCategory, TypeBoolean,
	} {
		if t.String() == s {
			return t, nil
		}
	}
	return TypeFreeText, fmt.Errorf("unknown semantic type %q", s)
}

// TransformStatus tracks the lifecycle of a single column's transformation.
type TransformStatus int

const (
	StatusPending TransformStatus = iota
	StatusSuccess
	StatusFailed
	StatusSkipped
)

// String returns a string representation of the transform status.
func (s TransformStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// ColumnProfile describes one column: its name, the inferred semantic type,
// the bounded value sample the inference was based on, and quality facts
// gathered while sampling.
type ColumnProfile struct {
	Name          string
	InferredType  SemanticType
	SampleValues  []interface{}
	Status        TransformStatus
	Completeness  float64 // fraction of non-null cells
	NullCount     int
	DistinctCount int
}

// DatasetProfile is the ordered per-column inference for one dataset,
// created once per pipeline run and discarded after the run completes.
type DatasetProfile struct {
	DatasetName string
	Columns     []ColumnProfile
}

// ColumnByName returns the profile for a named column, or nil.
func (p *DatasetProfile) ColumnByName(name string) *ColumnProfile {
	for i := range p.Columns {
		if p.Columns[i].Name == name {
			return &p.Columns[i]
		}
	}
	return nil
}
