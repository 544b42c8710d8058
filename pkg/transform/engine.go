// pkg/transform/engine.go
package transform

import (
	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/config"
	"github.com/market-radar/dataquality/pkg/model"
)

// Engine converts each column of a dataset to its inferred semantic type.
// It is a pure column-wise map: the output always has exactly the same rows
// as the input, and a column whose values cannot be parsed is returned
// untouched.
type Engine struct {
	logger       *zap.Logger
	transformers map[model.SemanticType]cellTransformer
}

// cellTransformer converts one cell, reporting the outcome explicitly.
type cellTransformer func(v interface{}) model.FieldOutcome

// NewEngine creates a TransformationEngine. The transformer lookup table is
// closed over the configured date formats; dispatch is exhaustive over the
// semantic type enum.
func NewEngine(cfg *config.Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.L().Named("transform")
	}

	e := &Engine{logger: logger}
	e.transformers = map[model.SemanticType]cellTransformer{
		model.TypeIdentifier:        transformIdentifier,
		model.TypeCurrency:          transformCurrency,
		model.TypeGeoLat:            transformFloat,
		model.TypeGeoLon:            transformFloat,
		model.TypeAdministrativeInt: transformAdministrativeInt,
		model.TypeDate:              makeDateTransformer(cfg.DateFormats),
		model.TypeBoolean:           transformBoolean,
		// Category and free text never rewrite values; only the declared
		// type changes. They are handled as pass-through columns.
		model.TypeCategory: passThrough,
		model.TypeFreeText: passThrough,
	}
	return e
}

// PlannedChange is one column the engine intends to convert.
type PlannedChange struct {
	Column   string
	FromType string
	ToType   model.SemanticType
}

// Plan compares each profiled column against its current representation and
// lists the columns that actually need conversion. Columns already in their
// target representation are omitted, which is what makes repeated runs
// converge without double-counting attempts.
func (e *Engine) Plan(profile *model.DatasetProfile, ds *model.Dataset) []PlannedChange {
	var plan []PlannedChange
	for _, col := range profile.Columns {
		if !ds.HasColumn(col.Name) {
			continue
		}
		values := ds.Column(col.Name)
		if converged(col.InferredType, values) {
			continue
		}
		plan = append(plan, PlannedChange{
			Column:   col.Name,
			FromType: representationName(values),
			ToType:   col.InferredType,
		})
	}
	return plan
}

// Transform converts the dataset according to the profile and returns the
// transformed copy together with a TransformationResult. The input dataset
// is never mutated and the row count is always preserved.
func (e *Engine) Transform(profile *model.DatasetProfile, ds *model.Dataset) (*model.Dataset, *model.TransformationResult) {
	out := ds.Copy()
	result := &model.TransformationResult{DatasetName: ds.Name}

	planned := make(map[string]PlannedChange)
	for _, p := range e.Plan(profile, ds) {
		planned[p.Column] = p
	}

	for i := range profile.Columns {
		col := &profile.Columns[i]
		if !ds.HasColumn(col.Name) {
			col.Status = model.StatusSkipped
			continue
		}

		p, needsWork := planned[col.Name]
		if !needsWork {
			// Already in target representation: skipped, not attempted.
			col.Status = model.StatusSkipped
			result.Changes = append(result.Changes, model.ColumnChange{
				Column:   col.Name,
				FromType: representationName(ds.Column(col.Name)),
				ToType:   col.InferredType,
				Outcome:  model.StatusSkipped,
			})
			continue
		}

		change := e.transformColumn(out, col.Name, p)
		col.Status = change.Outcome

		result.Attempted++
		if change.Outcome == model.StatusSuccess {
			result.Succeeded++
		}
		result.Changes = append(result.Changes, change)
	}

	e.logger.Info("Transformed dataset",
		zap.String("dataset", ds.Name),
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("rows", out.NumRows()))

	return out, result
}

// transformColumn applies one transformer to every cell of a column. Nil
// cells are preserved as nil. A cell that fails to convert keeps its
// original value; the column as a whole fails only when every non-null cell
// failed, in which case no value was rewritten at all.
func (e *Engine) transformColumn(ds *model.Dataset, column string, p PlannedChange) model.ColumnChange {
	transformer := e.transformers[p.ToType]

	change := model.ColumnChange{
		Column:   column,
		FromType: p.FromType,
		ToType:   p.ToType,
	}

	converted := make([]interface{}, len(ds.Rows))
	nonNull := 0
	for i, row := range ds.Rows {
		v, ok := row[column]
		if !ok || v == nil {
			converted[i] = nil
			continue
		}
		nonNull++

		outcome := transformer(v)
		converted[i] = outcome.Value
		if outcome.Converted {
			change.CellsConverted++
		} else {
			change.CellsFailed++
		}
		if outcome.Diagnostic != "" && len(change.Diagnostics) < maxDiagnostics {
			change.Diagnostics = append(change.Diagnostics, outcome.Diagnostic)
		}
	}

	if nonNull > 0 && change.CellsConverted == 0 {
		// Nothing parsed: leave the column byte-for-byte as it was.
		change.Outcome = model.StatusFailed
		return change
	}

	for i, row := range ds.Rows {
		row[column] = converted[i]
	}
	change.Outcome = model.StatusSuccess
	return change
}

// maxDiagnostics bounds the per-column diagnostic sample.
const maxDiagnostics = 10
