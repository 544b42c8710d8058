// pkg/monitor/store_test.go
package monitor

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestStartAssignsUniqueExecutionIDs(t *testing.T) {
	s := newTestStore(t)

	a := s.Start("business_licenses")
	b := s.Start("business_licenses")

	assert.NotEqual(t, a.ExecutionID, b.ExecutionID)
	assert.Contains(t, a.ExecutionID, "business_licenses_")
	assert.Equal(t, model.ExecutionFailed, a.Status, "status is pessimistic until finalized")
}

func TestFinishPersistsRecordAndDailyLog(t *testing.T) {
	s := newTestStore(t)

	metric := s.Start("cta_boardings")
	metric.Status = model.ExecutionSuccess
	metric.InputRows = 10
	metric.OutputRows = 10
	metric.QualityScore = 92.5

	require.NoError(t, s.Finish(metric))

	records, err := filepath.Glob(filepath.Join(s.Dir(), "metrics_*.json"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	logs, err := filepath.Glob(filepath.Join(s.Dir(), "quality_*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	line, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(line), metric.ExecutionID)
	assert.Contains(t, string(line), "status=SUCCESS")
}

func TestFinishRefusesOverwrite(t *testing.T) {
	s := newTestStore(t)

	metric := s.Start("d")
	metric.Status = model.ExecutionSuccess
	require.NoError(t, s.Finish(metric))
	assert.Error(t, s.Finish(metric))
}

func TestLoadRecentFiltersByWindow(t *testing.T) {
	s := newTestStore(t)

	recent := s.Start("d")
	recent.Status = model.ExecutionSuccess
	require.NoError(t, s.Finish(recent))

	old := s.Start("d")
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	old.Status = model.ExecutionSuccess
	require.NoError(t, s.Finish(old))

	metrics, err := s.LoadRecent(24)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, recent.ExecutionID, metrics[0].ExecutionID)
}

func TestLoadRecentOrdersOldestFirst(t *testing.T) {
	s := newTestStore(t)

	first := s.Start("d")
	first.Timestamp = time.Now().Add(-2 * time.Hour)
	require.NoError(t, s.Finish(first))

	second := s.Start("d")
	second.Timestamp = time.Now().Add(-1 * time.Hour)
	require.NoError(t, s.Finish(second))

	metrics, err := s.LoadRecent(24)
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, first.ExecutionID, metrics[0].ExecutionID)
	assert.Equal(t, second.ExecutionID, metrics[1].ExecutionID)
}

func TestExportCSV(t *testing.T) {
	s := newTestStore(t)

	metric := s.Start("d")
	metric.Status = model.ExecutionPartial
	metric.QualityScore = 75.0
	require.NoError(t, s.Finish(metric))

	path, err := s.ExportCSV(24)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "execution_id", rows[0][0])
	assert.Equal(t, metric.ExecutionID, rows[1][0])
	assert.Equal(t, "PARTIAL", rows[1][3])
}

func TestRunStateMachine(t *testing.T) {
	s := newTestStore(t)
	run := NewRun(s, "d")

	assert.Equal(t, model.RunStarted, run.State())

	// Skipping a state is illegal.
	assert.Error(t, run.Advance(model.RunValidating))

	require.NoError(t, run.Advance(model.RunTransforming))
	require.NoError(t, run.Advance(model.RunValidating))
	require.NoError(t, run.Advance(model.RunScoring))
	require.NoError(t, run.Finalize(model.ExecutionSuccess))

	assert.Equal(t, model.RunFinalized, run.State())
	assert.Error(t, run.Advance(model.RunFailed), "terminal states permit no transitions")
	assert.Error(t, run.Finalize(model.ExecutionSuccess))
}

func TestRunFailPersistsOnce(t *testing.T) {
	s := newTestStore(t)
	run := NewRun(s, "d")

	require.NoError(t, run.Advance(model.RunTransforming))
	require.NoError(t, run.Fail(assert.AnError))

	assert.Equal(t, model.RunFailed, run.State())
	assert.Equal(t, model.ExecutionFailed, run.Metric().Status)
	assert.NotEmpty(t, run.Metric().Errors)

	// Failing again is a no-op, not a double persist.
	require.NoError(t, run.Fail(assert.AnError))

	metrics, err := s.LoadRecent(1)
	require.NoError(t, err)
	assert.Len(t, metrics, 1)
}

func TestFinalizeRequiresScoringState(t *testing.T) {
	s := newTestStore(t)
	run := NewRun(s, "d")

	assert.Error(t, run.Finalize(model.ExecutionSuccess))
}
