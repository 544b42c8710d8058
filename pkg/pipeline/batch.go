// pkg/pipeline/batch.go
package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/model"
)

// RunAll cleans multiple datasets concurrently and returns one Result per
// input, keyed by dataset name. Runs are independent; a failed run degrades
// to its original dataset without affecting the others. The only shared
// state is the monitoring directory, which uses create-new-file semantics.
func (p *Pipeline) RunAll(ctx context.Context, datasets []*model.Dataset) map[string]*Result {
	results := make(map[string]*Result, len(datasets))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, ds := range datasets {
		wg.Add(1)
		go func(ds *model.Dataset) {
			defer wg.Done()

			res, err := p.Run(ctx, ds)
			if err != nil {
				p.logger.Error("Dataset run degraded",
					zap.String("dataset", ds.Name),
					zap.Error(err))
			}

			mu.Lock()
			results[ds.Name] = res
			mu.Unlock()
		}(ds)
	}

	wg.Wait()

	p.logger.Info("Batch run complete", zap.Int("datasets", len(results)))
	return results
}
