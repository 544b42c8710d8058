// pkg/quality/scorer.go
package quality

import (
	"time"

	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/model"
)

// Dimension weights for the overall score.
const (
	weightCompleteness = 0.3
	weightValidity     = 0.3
	weightConsistency  = 0.3
	weightTimeliness   = 0.1
)

// Scorer combines transformation and validation outcomes into a single
// weighted quality score with components in [0,100].
type Scorer struct {
	logger *zap.Logger
}

// NewScorer creates a QualityScorer.
func NewScorer(logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.L().Named("quality")
	}
	return &Scorer{logger: logger}
}

// Score computes the four quality dimensions and their weighted sum.
//
//	completeness = 1 - nullCells/totalCells
//	validity     = validation success rate
//	consistency  = transformation succeeded/attempted (1.0 when attempted==0)
//	timeliness   = 1.0, a constant placeholder until real freshness facts
//	               (source publication timestamps) are plumbed through
//
// An empty dataset scores exactly 100 by convention, which also sidesteps
// the divide-by-zero in completeness.
func (s *Scorer) Score(ds *model.Dataset, tr *model.TransformationResult, vr *model.ValidationReport) model.QualityScore {
	score := model.QualityScore{
		DatasetName:  ds.Name,
		Timestamp:    time.Now(),
		TotalRecords: ds.NumRows(),
	}

	if ds.NumRows() == 0 || ds.NumColumns() == 0 {
		score.Completeness = 100
		score.Validity = 100
		score.Consistency = 100
		score.Timeliness = 100
		score.Overall = 100
		return score
	}

	totalCells := ds.NumRows() * ds.NumColumns()
	nullCells := ds.NullCells()
	score.NullCells = nullCells

	score.Completeness = clamp(float64(totalCells-nullCells) / float64(totalCells) * 100)
	score.Validity = clamp(vr.SuccessRate() * 100)
	score.Consistency = clamp(tr.SuccessRate() * 100)
	score.Timeliness = 100

	score.Overall = clamp(score.Completeness*weightCompleteness +
		score.Validity*weightValidity +
		score.Consistency*weightConsistency +
		score.Timeliness*weightTimeliness)

	s.logger.Info("Scored dataset quality",
		zap.String("dataset", ds.Name),
		zap.Float64("completeness", score.Completeness),
		zap.Float64("validity", score.Validity),
		zap.Float64("consistency", score.Consistency),
		zap.Float64("overall", score.Overall))

	return score
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return f
}
