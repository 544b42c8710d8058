// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/audit"
	"github.com/market-radar/dataquality/pkg/classifier"
	"github.com/market-radar/dataquality/pkg/config"
	"github.com/market-radar/dataquality/pkg/model"
	"github.com/market-radar/dataquality/pkg/monitor"
	"github.com/market-radar/dataquality/pkg/quality"
	"github.com/market-radar/dataquality/pkg/transform"
	"github.com/market-radar/dataquality/pkg/validate"
)

// Pipeline orchestrates one cleaning run: classify, transform, validate,
// score, persist the execution metric. It fails open: whatever goes wrong,
// the caller gets a dataset back, and a fatal error degrades to the original
// input plus a FAILED metric rather than losing data.
type Pipeline struct {
	logger *zap.Logger
	cfg    *config.Config

	classifier *classifier.FieldClassifier
	engine     *transform.Engine
	validator  *validate.Engine
	scorer     *quality.Scorer
	store      *monitor.Store
	recorder   *audit.Recorder
}

// Result bundles everything one run produced. Dataset is never nil: on a
// fatal failure it is the original input, unchanged.
type Result struct {
	Dataset        *model.Dataset
	Profile        *model.DatasetProfile
	Transformation *model.TransformationResult
	Validation     *model.ValidationReport
	Quality        model.QualityScore
	Metric         *model.ExecutionMetric
}

// New wires a pipeline from configuration. The audit recorder is attached
// only when an audit DSN is configured; without one the pipeline runs
// database-free.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = zap.L().Named("pipeline")
	}

	fc, err := classifier.NewFieldClassifier(cfg, logger.Named("classifier"))
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	catalogs, err := validate.LoadCatalogDir(cfg.RuleCatalogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule catalogs: %w", err)
	}

	store, err := monitor.NewStore(cfg.MonitoringDir, logger.Named("monitor"))
	if err != nil {
		return nil, fmt.Errorf("failed to create monitoring store: %w", err)
	}

	p := &Pipeline{
		logger:     logger,
		cfg:        cfg,
		classifier: fc,
		engine:     transform.NewEngine(cfg, logger.Named("transform")),
		validator:  validate.NewEngine(catalogs, logger.Named("validate")),
		scorer:     quality.NewScorer(logger.Named("quality")),
		store:      store,
	}

	if cfg.AuditDSN != "" {
		recorder, err := audit.NewRecorder(cfg.AuditDSN, logger.Named("audit"))
		if err != nil {
			return nil, fmt.Errorf("failed to create audit recorder: %w", err)
		}
		p.recorder = recorder
	}

	return p, nil
}

// Store exposes the monitoring store for health checks and exports.
func (p *Pipeline) Store() *monitor.Store {
	return p.store
}

// Close releases held resources.
func (p *Pipeline) Close() error {
	if p.recorder != nil {
		return p.recorder.Close()
	}
	return nil
}

// Run cleans one dataset end to end. A fatal failure anywhere in the run is
// recovered: the returned Result carries the original dataset unchanged, the
// FAILED metric is persisted best-effort, and the error describes the cause.
// Metric persistence failures are logged and never block the caller.
func (p *Pipeline) Run(ctx context.Context, ds *model.Dataset) (res *Result, err error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset cannot be nil")
	}

	run := monitor.NewRun(p.store, ds.Name)
	metric := run.Metric()
	metric.InputRows = ds.NumRows()
	metric.InputColumns = ds.NumColumns()

	res = &Result{Dataset: ds, Metric: metric}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", model.FailurePipelineFatal, r)
			p.logger.Error("Pipeline run aborted",
				zap.String("executionId", metric.ExecutionID),
				zap.Any("cause", r))
			res = &Result{Dataset: ds, Metric: metric}
			p.persistFailure(run, err)
		}
	}()

	if err := ctx.Err(); err != nil {
		p.persistFailure(run, err)
		return res, err
	}

	// Classify
	profile := p.classifier.Profile(ds)
	res.Profile = profile

	// Transform
	if err := run.Advance(model.RunTransforming); err != nil {
		p.persistFailure(run, err)
		return res, err
	}
	cleaned, tr := p.engine.Transform(profile, ds)
	res.Dataset = cleaned
	res.Transformation = tr
	metric.OutputRows = cleaned.NumRows()
	metric.OutputColumns = cleaned.NumColumns()
	metric.TransformationsAttempted = tr.Attempted
	metric.TransformationsSuccessful = tr.Succeeded
	metric.TransformationSuccessRate = tr.SuccessRate() * 100.0

	p.recordAudit(ctx, metric.ExecutionID, tr)

	// Validate
	if err := run.Advance(model.RunValidating); err != nil {
		p.persistFailure(run, err)
		return res, err
	}
	vr := p.validator.Validate(cleaned)
	res.Validation = vr
	metric.RulesEvaluated = vr.RulesEvaluated
	metric.RulesPassed = vr.RulesPassed
	metric.ValidationSuccessRate = vr.SuccessRate() * 100.0
	for _, f := range vr.Failures {
		metric.Warnings = append(metric.Warnings,
			fmt.Sprintf("%s: rule %s failed on %d rows", model.FailureValidationRule, f.RuleID, f.FailingRows))
	}

	// Score
	if err := run.Advance(model.RunScoring); err != nil {
		p.persistFailure(run, err)
		return res, err
	}
	score := p.scorer.Score(cleaned, tr, vr)
	res.Quality = score
	metric.QualityScore = score.Overall

	// Finalize
	status := runStatus(tr, vr)
	if err := run.Finalize(status); err != nil {
		// The run finished; a persistence failure must not undo it.
		p.logger.Error("Failed to persist execution metric",
			zap.String("kind", model.FailurePersistence.String()),
			zap.String("executionId", metric.ExecutionID),
			zap.Error(err))
	}

	p.logger.Info("Pipeline run complete",
		zap.String("executionId", metric.ExecutionID),
		zap.String("dataset", ds.Name),
		zap.String("status", string(status)),
		zap.Float64("qualityScore", score.Overall))

	return res, nil
}

// recordAudit writes one audit operation per materially changed column. Audit
// is optional and best-effort: failures are logged, never raised.
func (p *Pipeline) recordAudit(ctx context.Context, executionID string, tr *model.TransformationResult) {
	if p.recorder == nil {
		return
	}

	var operations []model.Operation
	for _, ch := range tr.Changes {
		if ch.Outcome == model.StatusSkipped || ch.CellsConverted == 0 {
			continue
		}
		op := model.Operation{
			DatasetName:   tr.DatasetName,
			ExecutionID:   executionID,
			ColumnName:    ch.Column,
			FromType:      ch.FromType,
			ToType:        ch.ToType.String(),
			CellsChanged:  ch.CellsConverted,
			CellsRetained: ch.CellsFailed,
			Outcome:       ch.Outcome.String(),
		}
		if len(ch.Diagnostics) > 0 {
			op.Detail = ch.Diagnostics
		}
		operations = append(operations, op)
	}

	if err := p.recorder.Record(ctx, operations); err != nil {
		p.logger.Error("Failed to record audit operations",
			zap.String("kind", model.FailurePersistence.String()),
			zap.String("executionId", executionID),
			zap.Error(err))
	}
}

// persistFailure moves the run to FAILED and persists the metric
// best-effort.
func (p *Pipeline) persistFailure(run *monitor.Run, cause error) {
	if err := run.Fail(cause); err != nil {
		p.logger.Error("Failed to persist failure metric",
			zap.String("kind", model.FailurePersistence.String()),
			zap.Error(err))
	}
}

// runStatus maps the run's outcomes onto a persisted status: SUCCESS when
// every attempted transformation and every evaluated rule passed, PARTIAL
// otherwise. FAILED is reserved for aborted runs.
func runStatus(tr *model.TransformationResult, vr *model.ValidationReport) model.ExecutionStatus {
	if tr.Succeeded < tr.Attempted || len(vr.Failures) > 0 {
		return model.ExecutionPartial
	}
	return model.ExecutionSuccess
}
