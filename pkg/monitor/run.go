// pkg/monitor/run.go
package monitor

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/model"
)

// Run tracks one pipeline execution through the lifecycle
// STARTED -> TRANSFORMING -> VALIDATING -> SCORING -> FINALIZED, with FAILED
// reachable from any non-terminal state. It guarantees the metric is
// persisted exactly once, whichever terminal state is reached.
type Run struct {
	store  *Store
	logger *zap.Logger

	mu        sync.Mutex
	state     model.RunState
	metric    *model.ExecutionMetric
	persisted bool
}

// NewRun starts tracking a run for the named dataset.
func NewRun(store *Store, datasetName string) *Run {
	return &Run{
		store:  store,
		logger: store.logger,
		state:  model.RunStarted,
		metric: store.Start(datasetName),
	}
}

// Metric returns the in-progress metric record for the caller to fill in.
func (r *Run) Metric() *model.ExecutionMetric {
	return r.metric
}

// State returns the current lifecycle state.
func (r *Run) State() model.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Advance moves the run to the next lifecycle state. Skipping a state or
// moving out of a terminal state is an error.
func (r *Run) Advance(next model.RunState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.CanTransitionTo(next) {
		return fmt.Errorf("illegal run transition %s -> %s", r.state, next)
	}
	r.logger.Debug("Run state transition",
		zap.String("executionId", r.metric.ExecutionID),
		zap.String("from", r.state.String()),
		zap.String("to", next.String()))
	r.state = next
	return nil
}

// Finalize moves the run to FINALIZED with the given status and persists the
// metric. It is an error to finalize a run twice.
func (r *Run) Finalize(status model.ExecutionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.CanTransitionTo(model.RunFinalized) {
		return fmt.Errorf("cannot finalize run in state %s", r.state)
	}
	r.state = model.RunFinalized
	r.metric.Status = status
	return r.persist()
}

// Fail moves the run to FAILED, records the error on the metric, and
// persists it. Failing an already-terminal run is a no-op so that deferred
// recovery paths cannot double-persist.
func (r *Run) Fail(cause error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Terminal() {
		return nil
	}
	r.state = model.RunFailed
	r.metric.Status = model.ExecutionFailed
	if cause != nil {
		r.metric.Errors = append(r.metric.Errors, cause.Error())
	}
	return r.persist()
}

func (r *Run) persist() error {
	if r.persisted {
		return fmt.Errorf("metric %s already persisted", r.metric.ExecutionID)
	}
	r.persisted = true
	return r.store.Finish(r.metric)
}
