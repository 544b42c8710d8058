// pkg/validate/rules.go
package validate

import (
	"fmt"
	"strings"
)

// Predicate is the kind of check an expectation rule performs.
type Predicate string

const (
	// PredicateRange checks numeric values against inclusive bounds.
	PredicateRange Predicate = "range"
	// PredicateInSet checks values against an allowed set.
	PredicateInSet Predicate = "in_set"
	// PredicateNullRateMax caps the fraction of null cells in a column.
	PredicateNullRateMax Predicate = "null_rate_max"
	// PredicateOrdering requires column[0] <= column[1] row by row.
	PredicateOrdering Predicate = "ordering"
)

// Severity ranks a rule failure.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Rule is a declarative, named predicate over one or more columns used to
// assess data validity. Rules never mutate data.
type Rule struct {
	ID            string    `yaml:"id"`
	Columns       []string  `yaml:"columns"`
	Predicate     Predicate `yaml:"predicate"`
	Min           *float64  `yaml:"min,omitempty"`
	Max           *float64  `yaml:"max,omitempty"`
	AllowedValues []string  `yaml:"allowed_values,omitempty"`
	MaxNullRate   float64   `yaml:"max_null_rate,omitempty"`
	Severity      Severity  `yaml:"severity"`
}

// Validate checks the rule definition itself.
func (r *Rule) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("rule has no id")
	}
	if len(r.Columns) == 0 {
		return fmt.Errorf("rule %s targets no columns", r.ID)
	}
	switch r.Predicate {
	case PredicateRange:
		if r.Min == nil && r.Max == nil {
			return fmt.Errorf("range rule %s has no bounds", r.ID)
		}
	case PredicateInSet:
		if len(r.AllowedValues) == 0 {
			return fmt.Errorf("in_set rule %s has no allowed values", r.ID)
		}
	case PredicateNullRateMax:
		if r.MaxNullRate < 0 || r.MaxNullRate > 1 {
			return fmt.Errorf("null_rate_max rule %s needs a ceiling in [0,1]", r.ID)
		}
	case PredicateOrdering:
		if len(r.Columns) != 2 {
			return fmt.Errorf("ordering rule %s needs exactly two columns", r.ID)
		}
	default:
		return fmt.Errorf("rule %s has unknown predicate %q", r.ID, r.Predicate)
	}
	return nil
}

// Catalog is the static set of expectation rules for one dataset category.
type Catalog struct {
	Category string `yaml:"category"`
	Rules    []Rule `yaml:"rules"`
}

// Validate checks every rule in the catalog.
func (c *Catalog) Validate() error {
	if strings.TrimSpace(c.Category) == "" {
		return fmt.Errorf("catalog has no category")
	}
	for i := range c.Rules {
		if err := c.Rules[i].Validate(); err != nil {
			return fmt.Errorf("catalog %s: %w", c.Category, err)
		}
	}
	return nil
}

func floatPtr(f float64) *float64 { return &f }
