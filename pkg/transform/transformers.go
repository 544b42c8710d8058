// pkg/transform/transformers.go
package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/market-radar/dataquality/pkg/model"
)

// success wraps a converted value.
func success(v interface{}) model.FieldOutcome {
	return model.FieldOutcome{Value: v, Converted: true}
}

// retain keeps the original value on an expected parse failure.
func retain(original interface{}, diagnostic string) model.FieldOutcome {
	return model.FieldOutcome{Value: original, Converted: false, Diagnostic: diagnostic}
}

// passThrough declares the type without rewriting the value.
func passThrough(v interface{}) model.FieldOutcome {
	return success(v)
}

// transformCurrency strips formatting characters and parses a float.
// Accounting-style parentheses become a negative sign. Negative amounts are
// flagged as a validation concern but still count as converted; a value
// that does not parse keeps its original representation.
func transformCurrency(v interface{}) model.FieldOutcome {
	if f, ok := v.(float64); ok {
		return success(f)
	}

	s := strings.TrimSpace(toString(v))
	negative := strings.Contains(s, "(") && strings.Contains(s, ")")
	cleaned := strings.NewReplacer("$", "", ",", "", "(", "", ")", "", " ", "").Replace(s)
	if cleaned == "" {
		return retain(v, "empty currency value")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return retain(v, fmt.Sprintf("unparseable currency %q", s))
	}
	if negative {
		f = -f
	}

	out := success(f)
	if f < 0 {
		out.Diagnostic = fmt.Sprintf("negative amount %v", f)
	}
	return out
}

// transformFloat parses geographic coordinates to float64. Bounds checking
// belongs to the validation engine, not the transformer.
func transformFloat(v interface{}) model.FieldOutcome {
	switch val := v.(type) {
	case float64:
		return success(val)
	case float32:
		return success(float64(val))
	case int:
		return success(float64(val))
	case int64:
		return success(float64(val))
	}

	s := strings.TrimSpace(toString(v))
	if s == "" {
		return retain(v, "empty coordinate")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return retain(v, fmt.Sprintf("unparseable float %q", s))
	}
	return success(f)
}

// transformAdministrativeInt parses a nullable integer. Integral floats such
// as "12.0" are accepted; range checks are deferred to validation.
func transformAdministrativeInt(v interface{}) model.FieldOutcome {
	switch val := v.(type) {
	case int64:
		return success(val)
	case int:
		return success(int64(val))
	case float64:
		if val == math.Trunc(val) {
			return success(int64(val))
		}
		return retain(v, fmt.Sprintf("non-integral value %v", val))
	}

	s := strings.TrimSpace(toString(v))
	if s == "" {
		return retain(v, "empty integer value")
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return success(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		return success(int64(f))
	}
	return retain(v, fmt.Sprintf("unparseable integer %q", s))
}

// makeDateTransformer builds a transformer that attempts each configured
// format in priority order and accepts the first success.
func makeDateTransformer(formats []string) cellTransformer {
	return func(v interface{}) model.FieldOutcome {
		if t, ok := v.(time.Time); ok {
			return success(t)
		}

		s := strings.TrimSpace(toString(v))
		if s == "" {
			return retain(v, "empty date value")
		}
		for _, format := range formats {
			if t, err := time.Parse(format, s); err == nil {
				return success(t)
			}
		}
		return retain(v, fmt.Sprintf("no date format matched %q", s))
	}
}

// booleanTokens is the canonical case-insensitive truthy/falsy vocabulary.
var booleanTokens = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "1": true, "active": true,
	"false": false, "f": false, "no": false, "n": false, "0": false, "inactive": false,
}

// transformBoolean maps the canonical token set to a boolean. Unmapped
// values fail and are retained.
func transformBoolean(v interface{}) model.FieldOutcome {
	if b, ok := v.(bool); ok {
		return success(b)
	}

	s := strings.ToLower(strings.TrimSpace(toString(v)))
	if b, ok := booleanTokens[s]; ok {
		return success(b)
	}
	return retain(v, fmt.Sprintf("unmapped boolean token %q", toString(v)))
}

// transformIdentifier standardizes mixed-representation ID fields: trims
// whitespace, collapses trailing ".0" left over from float round-trips,
// normalizes pipe-separated multi-IDs, and uppercases alpha-prefixed permit
// numbers.
func transformIdentifier(v interface{}) model.FieldOutcome {
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return retain(v, "empty identifier")
	}
	return success(standardizeIdentifier(s))
}

func standardizeIdentifier(s string) string {
	if strings.Contains(s, "|") {
		parts := strings.Split(s, "|")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return strings.Join(parts, " | ")
	}

	if isNumericLike(s) {
		return strings.TrimSuffix(s, ".0")
	}

	// Permit-style identifiers carry a single alpha prefix.
	if len(s) > 1 && isAlpha(s[0]) && isNumericLike(s[1:]) {
		return strings.ToUpper(s)
	}
	return s
}

func isNumericLike(s string) bool {
	stripped := strings.NewReplacer(".", "", "-", "").Replace(s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// toString converts an interface to string.
func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
