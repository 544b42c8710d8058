// pkg/classifier/classifier.go
package classifier

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/config"
	"github.com/market-radar/dataquality/pkg/model"
)

// FieldClassifier infers one semantic type per column from naming heuristics
// and a bounded sample of values. Classification is a pure function of the
// column name and sample; the classifier carries no mutable state.
type FieldClassifier struct {
	logger      *zap.Logger
	groups      []patternGroup
	dateFormats []string
	// A sample whose distinct/size ratio is below this threshold is treated
	// as categorical rather than free text.
	categoryMaxRatio float64
	sampleSize       int
}

type patternGroup struct {
	semanticType model.SemanticType
	keywords     []string
}

// NewFieldClassifier creates a FieldClassifier from configuration. Pattern
// group order is the tie-break priority for ambiguous names.
func NewFieldClassifier(cfg *config.Config, logger *zap.Logger) (*FieldClassifier, error) {
	if logger == nil {
		logger = zap.L().Named("classifier")
	}

	groups := make([]patternGroup, 0, len(cfg.PatternGroups))
	for _, g := range cfg.PatternGroups {
		t, err := g.SemanticType()
		if err != nil {
			return nil, err
		}
		groups = append(groups, patternGroup{semanticType: t, keywords: g.Keywords})
	}

	return &FieldClassifier{
		logger:           logger,
		groups:           groups,
		dateFormats:      cfg.DateFormats,
		categoryMaxRatio: cfg.CategoryMaxRatio,
		sampleSize:       cfg.SampleSize,
	}, nil
}

// Classify returns exactly one semantic type for the column. The name phase
// runs first; only when no keyword group matches does content inspection of
// the sample decide.
func (c *FieldClassifier) Classify(name string, sample []interface{}) model.SemanticType {
	if t, ok := c.classifyByName(name); ok {
		return t
	}
	return c.classifyByContent(sample)
}

// classifyByName tests the lower-cased column name against the ordered
// pattern groups. The first matching group wins.
func (c *FieldClassifier) classifyByName(name string) (model.SemanticType, bool) {
	lower := strings.ToLower(name)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, g := range c.groups {
		for _, kw := range g.keywords {
			if matchKeyword(lower, tokens, kw) {
				return g.semanticType, true
			}
		}
	}
	return model.TypeFreeText, false
}

// matchKeyword matches multi-word keywords ("community_area", "is_") as
// substrings and single-word keywords against whole name tokens, so that
// "id" matches "license_id" but never the inside of "paid".
func matchKeyword(lower string, tokens []string, kw string) bool {
	if strings.Contains(kw, "_") {
		return strings.Contains(lower, kw)
	}
	for _, t := range tokens {
		if t == kw {
			return true
		}
	}
	return false
}

// classifyByContent inspects sample values in a fixed order: numeric parse,
// date parse, boolean tokens, then the categorical-ratio fallback.
func (c *FieldClassifier) classifyByContent(sample []interface{}) model.SemanticType {
	sample = nonNull(sample)
	if len(sample) == 0 {
		return model.TypeFreeText
	}

	if allInt, allNumeric := numericShape(sample); allNumeric {
		if allInt {
			return model.TypeAdministrativeInt
		}
		// Fractional numerics have no dedicated semantic type; currency is
		// the generic float transformer and its symbol stripping is a no-op
		// on plain numbers.
		return model.TypeCurrency
	}

	if c.allParseAsDates(sample) {
		return model.TypeDate
	}

	if allBooleanTokens(sample) {
		return model.TypeBoolean
	}

	if ratio := distinctRatio(sample); ratio < c.categoryMaxRatio {
		return model.TypeCategory
	}
	return model.TypeFreeText
}

// Profile classifies every column of the dataset and captures per-column
// quality facts. The profile is created once per pipeline run.
func (c *FieldClassifier) Profile(ds *model.Dataset) *model.DatasetProfile {
	profile := &model.DatasetProfile{
		DatasetName: ds.Name,
		Columns:     make([]model.ColumnProfile, 0, len(ds.Columns)),
	}

	for _, name := range ds.Columns {
		values := ds.Column(name)
		sample := sampleNonNull(values, c.sampleSize)
		inferred := c.Classify(name, sample)

		nulls := 0
		distinct := make(map[string]struct{})
		for _, v := range values {
			if v == nil {
				nulls++
				continue
			}
			distinct[asString(v)] = struct{}{}
		}

		completeness := 1.0
		if len(values) > 0 {
			completeness = float64(len(values)-nulls) / float64(len(values))
		}

		profile.Columns = append(profile.Columns, model.ColumnProfile{
			Name:          name,
			InferredType:  inferred,
			SampleValues:  sample,
			Status:        model.StatusPending,
			Completeness:  completeness,
			NullCount:     nulls,
			DistinctCount: len(distinct),
		})
	}

	c.logger.Info("Profiled dataset",
		zap.String("dataset", ds.Name),
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", len(profile.Columns)))

	return profile
}

// sampleNonNull returns up to limit non-null values from the head of the
// column.
func sampleNonNull(values []interface{}, limit int) []interface{} {
	sample := make([]interface{}, 0, limit)
	for _, v := range values {
		if v == nil {
			continue
		}
		sample = append(sample, v)
		if len(sample) >= limit {
			break
		}
	}
	return sample
}

func nonNull(values []interface{}) []interface{} {
	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func distinctRatio(sample []interface{}) float64 {
	seen := make(map[string]struct{}, len(sample))
	for _, v := range sample {
		seen[asString(v)] = struct{}{}
	}
	return float64(len(seen)) / float64(len(sample))
}
