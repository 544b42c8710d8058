// pkg/transform/engine_test.go
package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/classifier"
	"github.com/market-radar/dataquality/pkg/config"
	"github.com/market-radar/dataquality/pkg/model"
)

func newTestEngine(t *testing.T) (*Engine, *classifier.FieldClassifier) {
	t.Helper()
	cfg := config.DefaultConfig()
	fc, err := classifier.NewFieldClassifier(cfg, zap.NewNop())
	require.NoError(t, err)
	return NewEngine(cfg, zap.NewNop()), fc
}

func TestTransformCurrencyColumn(t *testing.T) {
	engine, fc := newTestEngine(t)

	ds := &model.Dataset{
		Name:    "building_permits",
		Columns: []string{"building_fee_paid"},
		Rows: []model.Row{
			{"building_fee_paid": "$1,234.56"},
			{"building_fee_paid": "N/A"},
			{"building_fee_paid": "(500.00)"},
			{"building_fee_paid": nil},
		},
	}

	profile := fc.Profile(ds)
	out, result := engine.Transform(profile, ds)

	assert.Equal(t, 1, result.Attempted)
	assert.Equal(t, 1, result.Succeeded)

	assert.Equal(t, 1234.56, out.Rows[0]["building_fee_paid"])
	assert.Equal(t, "N/A", out.Rows[1]["building_fee_paid"])
	assert.Equal(t, -500.00, out.Rows[2]["building_fee_paid"])
	assert.Nil(t, out.Rows[3]["building_fee_paid"])

	require.Len(t, result.Changes, 1)
	change := result.Changes[0]
	assert.Equal(t, 2, change.CellsConverted)
	assert.Equal(t, 1, change.CellsFailed)
	assert.NotEmpty(t, change.Diagnostics)
}

func TestTransformPreservesRowCount(t *testing.T) {
	engine, fc := newTestEngine(t)

	ds := &model.Dataset{
		Name:    "business_licenses",
		Columns: []string{"latitude", "ward", "license_start_date"},
		Rows: []model.Row{
			{"latitude": "41.88", "ward": "5", "license_start_date": "2024-01-15"},
			{"latitude": "not-a-number", "ward": nil, "license_start_date": "garbage"},
			{"latitude": nil, "ward": "12.0", "license_start_date": nil},
		},
	}

	profile := fc.Profile(ds)
	out, _ := engine.Transform(profile, ds)

	assert.Equal(t, ds.NumRows(), out.NumRows())
	assert.Equal(t, 41.88, out.Rows[0]["latitude"])
	assert.Equal(t, int64(5), out.Rows[0]["ward"])
	assert.Equal(t, int64(12), out.Rows[2]["ward"])
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), out.Rows[0]["license_start_date"])
	// Failed cells keep their original value.
	assert.Equal(t, "not-a-number", out.Rows[1]["latitude"])
	assert.Equal(t, "garbage", out.Rows[1]["license_start_date"])
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	engine, fc := newTestEngine(t)

	ds := &model.Dataset{
		Name:    "licenses",
		Columns: []string{"total_fee"},
		Rows:    []model.Row{{"total_fee": "$10.00"}},
	}

	profile := fc.Profile(ds)
	out, _ := engine.Transform(profile, ds)

	assert.Equal(t, "$10.00", ds.Rows[0]["total_fee"])
	assert.Equal(t, 10.00, out.Rows[0]["total_fee"])
}

// A column where no non-null cell parses fails as a whole and stays
// byte-identical to the input.
func TestFailedColumnUntouched(t *testing.T) {
	engine, fc := newTestEngine(t)

	ds := &model.Dataset{
		Name:    "licenses",
		Columns: []string{"total_fee"},
		Rows: []model.Row{
			{"total_fee": "free"},
			{"total_fee": "gratis"},
			{"total_fee": nil},
		},
	}

	profile := fc.Profile(ds)
	out, result := engine.Transform(profile, ds)

	assert.Equal(t, 1, result.Attempted)
	assert.Equal(t, 0, result.Succeeded)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, model.StatusFailed, result.Changes[0].Outcome)

	assert.Equal(t, "free", out.Rows[0]["total_fee"])
	assert.Equal(t, "gratis", out.Rows[1]["total_fee"])
	assert.Nil(t, out.Rows[2]["total_fee"])
}

// Running the engine over its own output must converge: every column is
// already in its target representation, so nothing is attempted again.
func TestTransformIdempotentConvergence(t *testing.T) {
	engine, fc := newTestEngine(t)

	ds := &model.Dataset{
		Name:    "business_licenses",
		Columns: []string{"latitude", "ward", "total_fee"},
		Rows: []model.Row{
			{"latitude": "41.88", "ward": "5", "total_fee": "$100"},
			{"latitude": "41.90", "ward": "7", "total_fee": "$250.50"},
		},
	}

	first, firstResult := engine.Transform(fc.Profile(ds), ds)
	assert.Equal(t, 3, firstResult.Attempted)
	assert.Equal(t, 3, firstResult.Succeeded)

	second, secondResult := engine.Transform(fc.Profile(first), first)
	assert.Equal(t, 0, secondResult.Attempted)
	assert.Equal(t, 1.0, secondResult.SuccessRate())
	for _, ch := range secondResult.Changes {
		assert.Equal(t, model.StatusSkipped, ch.Outcome)
	}
	assert.Equal(t, first.Rows, second.Rows)
}

func TestPlanOmitsConvergedColumns(t *testing.T) {
	engine, fc := newTestEngine(t)

	ds := &model.Dataset{
		Name:    "mixed",
		Columns: []string{"latitude", "longitude"},
		Rows: []model.Row{
			{"latitude": 41.88, "longitude": "-87.62"},
		},
	}

	plan := engine.Plan(fc.Profile(ds), ds)
	require.Len(t, plan, 1)
	assert.Equal(t, "longitude", plan[0].Column)
	assert.Equal(t, model.TypeGeoLon, plan[0].ToType)
}

func TestTransformBooleanColumn(t *testing.T) {
	engine, fc := newTestEngine(t)

	ds := &model.Dataset{
		Name:    "licenses",
		Columns: []string{"approval_flag"},
		Rows: []model.Row{
			{"approval_flag": "Y"},
			{"approval_flag": "no"},
			{"approval_flag": "ACTIVE"},
			{"approval_flag": "maybe"},
		},
	}

	out, _ := engine.Transform(fc.Profile(ds), ds)

	assert.Equal(t, true, out.Rows[0]["approval_flag"])
	assert.Equal(t, false, out.Rows[1]["approval_flag"])
	assert.Equal(t, true, out.Rows[2]["approval_flag"])
	assert.Equal(t, "maybe", out.Rows[3]["approval_flag"])
}

func TestStandardizeIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain numeric", "12345", "12345"},
		{"float round-trip", "12345.0", "12345"},
		{"pipe separated", "100 |200| 300", "100 | 200 | 300"},
		{"alpha prefixed permit", "b123456", "B123456"},
		{"free-form untouched", "ACME Corp", "ACME Corp"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, standardizeIdentifier(tc.in))
		})
	}
}

func TestDateFormatPriority(t *testing.T) {
	transformer := makeDateTransformer(config.DefaultConfig().DateFormats)

	outcome := transformer("2024-03-01T08:30:00")
	require.True(t, outcome.Converted)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), outcome.Value)

	outcome = transformer("03/15/2024")
	require.True(t, outcome.Converted)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), outcome.Value)

	outcome = transformer("15th of March")
	assert.False(t, outcome.Converted)
	assert.Equal(t, "15th of March", outcome.Value)
}
