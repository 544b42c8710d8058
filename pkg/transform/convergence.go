// pkg/transform/convergence.go
package transform

import (
	"time"

	"github.com/market-radar/dataquality/pkg/model"
)

// converged reports whether every non-null value of a column is already in
// the Go representation its semantic type targets. Converged columns are
// skipped entirely so that repeated runs do not re-count them as attempts.
func converged(t model.SemanticType, values []interface{}) bool {
	switch t {
	case model.TypeCategory, model.TypeFreeText:
		// No value rewriting ever occurs; only the declared type changes.
		return true
	case model.TypeCurrency, model.TypeGeoLat, model.TypeGeoLon:
		return allNonNull(values, func(v interface{}) bool {
			_, ok := v.(float64)
			return ok
		})
	case model.TypeAdministrativeInt:
		return allNonNull(values, func(v interface{}) bool {
			_, ok := v.(int64)
			return ok
		})
	case model.TypeDate:
		return allNonNull(values, func(v interface{}) bool {
			_, ok := v.(time.Time)
			return ok
		})
	case model.TypeBoolean:
		return allNonNull(values, func(v interface{}) bool {
			_, ok := v.(bool)
			return ok
		})
	case model.TypeIdentifier:
		return allNonNull(values, func(v interface{}) bool {
			s, ok := v.(string)
			return ok && s == standardizeIdentifier(s)
		})
	default:
		return true
	}
}

func allNonNull(values []interface{}, pred func(interface{}) bool) bool {
	for _, v := range values {
		if v == nil {
			continue
		}
		if !pred(v) {
			return false
		}
	}
	return true
}

// representationName describes the current Go representation of a column for
// reporting purposes.
func representationName(values []interface{}) string {
	name := ""
	for _, v := range values {
		if v == nil {
			continue
		}
		n := typeName(v)
		if name == "" {
			name = n
		} else if name != n {
			return "mixed"
		}
	}
	if name == "" {
		return "null"
	}
	return name
}

func typeName(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case float64, float32:
		return "float64"
	case int, int32, int64:
		return "int64"
	case bool:
		return "bool"
	case time.Time:
		return "datetime"
	default:
		return "other"
	}
}
