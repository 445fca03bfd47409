// Package workerpool runs independent tasks with a fixed concurrency bound.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every item using at most size concurrent calls and returns
// the results in input order. Each call writes only its own slot.
//
// Once ctx is done no new calls are started; Map then returns ctx's error along
// with the partially filled results.
func Map[T, R any](ctx context.Context, size int, items []T, fn func(ctx context.Context, item T) R) ([]R, error) {
	if size < 1 {
		size = 1
	}

	results := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(size)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = fn(gctx, item)
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
