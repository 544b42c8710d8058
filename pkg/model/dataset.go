// pkg/model/dataset.go
package model

// Row is a single record keyed by column name. Missing and nil entries both
// mean NULL.
type Row map[string]interface{}

// Dataset is a named, in-memory tabular dataset. Columns carries the column
// order; Rows hold the values. The cleaning engine treats a Dataset as
// immutable input and always produces a fresh copy.
type Dataset struct {
	Name    string
	Columns []string
	Rows    []Row
}

// NumRows returns the number of records in the dataset.
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// NumColumns returns the number of columns in the dataset.
func (d *Dataset) NumColumns() int {
	return len(d.Columns)
}

// Column returns all values for a named column, in row order.
func (d *Dataset) Column(name string) []interface{} {
	values := make([]interface{}, 0, len(d.Rows))
	for _, row := range d.Rows {
		values = append(values, row[name])
	}
	return values
}

// HasColumn reports whether the dataset contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the dataset. Row maps are duplicated so the
// copy can be mutated without touching the original; cell values are shared.
func (d *Dataset) Copy() *Dataset {
	out := &Dataset{
		Name:    d.Name,
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([]Row, 0, len(d.Rows)),
	}
	for _, row := range d.Rows {
		copied := make(Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out.Rows = append(out.Rows, copied)
	}
	return out
}

// NullCells counts the nil cells across all declared columns.
func (d *Dataset) NullCells() int {
	nulls := 0
	for _, row := range d.Rows {
		for _, col := range d.Columns {
			if v, ok := row[col]; !ok || v == nil {
				nulls++
			}
		}
	}
	return nulls
}
