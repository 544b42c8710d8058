// pkg/validate/engine.go
package validate

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/model"
)

// maxSampleRows bounds the offending-row sample attached to a rule failure.
const maxSampleRows = 10

// Engine evaluates a declarative rule catalog against a dataset. It never
// mutates data; it only reports.
type Engine struct {
	logger   *zap.Logger
	catalogs map[string]*Catalog
}

// NewEngine creates a ValidationEngine over the given catalogs. A nil
// catalogs map falls back to the builtin catalogs.
func NewEngine(catalogs map[string]*Catalog, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.L().Named("validate")
	}
	if catalogs == nil {
		catalogs = BuiltinCatalogs()
	}
	return &Engine{logger: logger, catalogs: catalogs}
}

// Validate evaluates every applicable rule for the dataset's category. Rules
// whose target columns are absent are skipped, not counted as failures. A
// dataset without a catalog yields an empty report with success rate 1.0.
func (e *Engine) Validate(ds *model.Dataset) *model.ValidationReport {
	report := &model.ValidationReport{DatasetName: ds.Name}

	catalog, ok := e.catalogs[ds.Name]
	if !ok {
		e.logger.Warn("No rule catalog for dataset", zap.String("dataset", ds.Name))
		return report
	}

	for i := range catalog.Rules {
		rule := &catalog.Rules[i]

		if !columnsPresent(ds, rule.Columns) {
			report.RulesSkipped++
			continue
		}

		report.RulesEvaluated++
		failure := e.evaluate(rule, ds)
		if failure == nil {
			report.RulesPassed++
			continue
		}
		report.Failures = append(report.Failures, *failure)
	}

	e.logger.Info("Validated dataset",
		zap.String("dataset", ds.Name),
		zap.Int("evaluated", report.RulesEvaluated),
		zap.Int("passed", report.RulesPassed),
		zap.Int("skipped", report.RulesSkipped),
		zap.Float64("successRate", report.SuccessRate()))

	return report
}

// evaluate runs one rule and returns nil when it passes.
func (e *Engine) evaluate(rule *Rule, ds *model.Dataset) *model.RuleFailure {
	var failing []int
	var detail string

	switch rule.Predicate {
	case PredicateRange:
		failing, detail = evalRange(rule, ds)
	case PredicateInSet:
		failing, detail = evalInSet(rule, ds)
	case PredicateNullRateMax:
		failing, detail = evalNullRate(rule, ds)
	case PredicateOrdering:
		failing, detail = evalOrdering(rule, ds)
	}

	if len(failing) == 0 {
		return nil
	}

	sample := failing
	if len(sample) > maxSampleRows {
		sample = sample[:maxSampleRows]
	}
	return &model.RuleFailure{
		RuleID:      rule.ID,
		Severity:    string(rule.Severity),
		FailingRows: len(failing),
		SampleRows:  append([]int(nil), sample...),
		Detail:      detail,
	}
}

// evalRange checks numeric values against inclusive bounds. Null and
// non-numeric cells are ignored; unparseable values are a transformation
// concern, not a range violation.
func evalRange(rule *Rule, ds *model.Dataset) ([]int, string) {
	col := rule.Columns[0]
	var failing []int
	for i, row := range ds.Rows {
		f, ok := numericValue(row[col])
		if !ok {
			continue
		}
		if (rule.Min != nil && f < *rule.Min) || (rule.Max != nil && f > *rule.Max) {
			failing = append(failing, i)
		}
	}
	return failing, fmt.Sprintf("%s outside [%s, %s]", col, boundString(rule.Min), boundString(rule.Max))
}

// evalInSet checks values against the allowed set, case-insensitively.
func evalInSet(rule *Rule, ds *model.Dataset) ([]int, string) {
	col := rule.Columns[0]
	allowed := make(map[string]struct{}, len(rule.AllowedValues))
	for _, v := range rule.AllowedValues {
		allowed[strings.ToUpper(v)] = struct{}{}
	}

	var failing []int
	for i, row := range ds.Rows {
		v := row[col]
		if v == nil {
			continue
		}
		if _, ok := allowed[strings.ToUpper(strings.TrimSpace(stringValue(v)))]; !ok {
			failing = append(failing, i)
		}
	}
	return failing, fmt.Sprintf("%s not in allowed set", col)
}

// evalNullRate fails when the column's null fraction exceeds the ceiling.
// The failing rows are the null rows themselves.
func evalNullRate(rule *Rule, ds *model.Dataset) ([]int, string) {
	col := rule.Columns[0]
	if len(ds.Rows) == 0 {
		return nil, ""
	}

	var nullRows []int
	for i, row := range ds.Rows {
		if v, ok := row[col]; !ok || v == nil {
			nullRows = append(nullRows, i)
		}
	}

	rate := float64(len(nullRows)) / float64(len(ds.Rows))
	if rate > rule.MaxNullRate {
		return nullRows, fmt.Sprintf("%s null rate %.3f exceeds ceiling %.3f", col, rate, rule.MaxNullRate)
	}
	return nil, ""
}

// evalOrdering requires columns[0] <= columns[1] wherever both are
// comparable (both dates or both numerics). Rows with missing or
// incomparable values are skipped.
func evalOrdering(rule *Rule, ds *model.Dataset) ([]int, string) {
	first, second := rule.Columns[0], rule.Columns[1]
	var failing []int
	for i, row := range ds.Rows {
		a, b := row[first], row[second]
		if a == nil || b == nil {
			continue
		}

		if at, aok := a.(time.Time); aok {
			if bt, bok := b.(time.Time); bok {
				if at.After(bt) {
					failing = append(failing, i)
				}
				continue
			}
		}
		af, aok := numericValue(a)
		bf, bok := numericValue(b)
		if aok && bok && af > bf {
			failing = append(failing, i)
		}
	}
	return failing, fmt.Sprintf("%s exceeds %s", first, second)
}

func columnsPresent(ds *model.Dataset, columns []string) bool {
	for _, col := range columns {
		if !ds.HasColumn(col) {
			return false
		}
	}
	return true
}

func numericValue(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func boundString(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *f)
}
