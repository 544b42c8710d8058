// pkg/model/model_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStateTransitions(t *testing.T) {
	assert.True(t, RunStarted.CanTransitionTo(RunTransforming))
	assert.True(t, RunTransforming.CanTransitionTo(RunValidating))
	assert.True(t, RunScoring.CanTransitionTo(RunFinalized))

	// FAILED is reachable from any non-terminal state.
	assert.True(t, RunStarted.CanTransitionTo(RunFailed))
	assert.True(t, RunScoring.CanTransitionTo(RunFailed))

	// No skipping, no leaving terminal states.
	assert.False(t, RunStarted.CanTransitionTo(RunValidating))
	assert.False(t, RunFinalized.CanTransitionTo(RunFailed))
	assert.False(t, RunFailed.CanTransitionTo(RunStarted))
}

func TestSemanticTypeRoundTrip(t *testing.T) {
	for _, typ := range []SemanticType{
		TypeFreeText, TypeIdentifier, TypeCurrency, TypeDate, TypeGeoLat,
		TypeGeoLon, TypeAdministrativeInt, TypeCategory, TypeBoolean,
	} {
		parsed, err := ParseSemanticType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}

	_, err := ParseSemanticType("imaginary")
	assert.Error(t, err)
}

func TestAlertLevelEscalateNeverLowers(t *testing.T) {
	assert.Equal(t, LevelRed, LevelYellow.Escalate(LevelRed))
	assert.Equal(t, LevelRed, LevelRed.Escalate(LevelGreen))
	assert.Equal(t, LevelYellow, LevelGreen.Escalate(LevelYellow))
}

func TestDatasetCopyIsDeep(t *testing.T) {
	ds := &Dataset{
		Name:    "d",
		Columns: []string{"a"},
		Rows:    []Row{{"a": "x"}},
	}

	cp := ds.Copy()
	cp.Rows[0]["a"] = "mutated"

	assert.Equal(t, "x", ds.Rows[0]["a"])
}

func TestSuccessRateDefinedWithoutAttempts(t *testing.T) {
	tr := &TransformationResult{}
	assert.Equal(t, 1.0, tr.SuccessRate())

	vr := &ValidationReport{}
	assert.Equal(t, 1.0, vr.SuccessRate())
}

func TestNullCellsCountsMissingKeys(t *testing.T) {
	ds := &Dataset{
		Name:    "d",
		Columns: []string{"a", "b"},
		Rows:    []Row{{"a": 1}, {"a": nil, "b": 2}},
	}
	assert.Equal(t, 2, ds.NullCells())
}
