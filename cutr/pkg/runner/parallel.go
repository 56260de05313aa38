package runner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// mapOrdered applies fn to every item using up to jobs goroutines. The result
// at index i is fn(items[i]), so output order always matches input order.
func mapOrdered[T, U any](ctx context.Context, jobs int, items []T, fn func(T) U) ([]U, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]U, len(items))
	if jobs <= 1 || len(items) < 2 {
		for i, item := range items {
			out[i] = fn(item)
		}
		return out, nil
	}

	chunk := (len(items) + jobs - 1) / jobs
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(items); start += chunk {
		start, end := start, start+chunk
		if end > len(items) {
			end = len(items)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if i%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i] = fn(items[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
