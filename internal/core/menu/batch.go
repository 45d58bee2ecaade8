package menu

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ClassifyAll 平行分類多個互不相關的批次，結果順序與輸入相同
// workers <= 0 時不限制並行數
func ClassifyAll(ctx context.Context, batches [][]MenuRecord, workers int) ([]*Result, error) {
	results := make([]*Result, len(batches))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, batch := range batches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Classify(batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
