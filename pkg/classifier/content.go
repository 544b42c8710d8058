// pkg/classifier/content.go
package classifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// truthy/falsy vocabulary shared with the boolean transformer. The tokens
// mirror the source data's Y/N and active/inactive conventions.
var booleanTokens = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "1": true, "active": true,
	"false": false, "f": false, "no": false, "n": false, "0": false, "inactive": false,
}

// numericShape reports whether every sample value parses as a number, and
// whether all of them are integral.
func numericShape(sample []interface{}) (allInt, allNumeric bool) {
	allInt = true
	for _, v := range sample {
		f, ok := parseFloat(v)
		if !ok {
			return false, false
		}
		if f != math.Trunc(f) {
			allInt = false
		}
	}
	return allInt, true
}

func (c *FieldClassifier) allParseAsDates(sample []interface{}) bool {
	for _, v := range sample {
		if _, ok := parseDate(v, c.dateFormats); !ok {
			return false
		}
	}
	return true
}

func allBooleanTokens(sample []interface{}) bool {
	for _, v := range sample {
		if _, ok := v.(bool); ok {
			continue
		}
		s := strings.ToLower(strings.TrimSpace(asString(v)))
		if _, ok := booleanTokens[s]; !ok {
			return false
		}
	}
	return true
}

// parseFloat converts numeric Go values and numeric-looking strings.
func parseFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// parseDate tries each format in priority order and accepts the first
// success.
func parseDate(v interface{}, formats []string) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asString(v interface{}) string {
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
