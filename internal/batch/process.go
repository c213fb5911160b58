// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RowFunc transforms the non-null value s found at row i.
type RowFunc func(ctx context.Context, i int, s string) (string, error)

// Process maps every non-null value through fn using at most workers
// goroutines. Output order matches input order and null cells stay null.
// The first error cancels the remaining rows and is returned.
func Process(ctx context.Context, values []*string, workers int, fn RowFunc) ([]*string, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]*string, len(values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, v := range values {
		if v == nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := fn(ctx, i, *v)
			if err != nil {
				return err
			}
			out[i] = &s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
