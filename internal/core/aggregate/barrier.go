// Package aggregate holds the list-shaping steps shared by every list screen:
// a concurrent fetch barrier, id lookups, joins, grouping by apartment, the
// apartment key ordering and client-side pagination.
package aggregate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Fetcher loads one collection and stores it in a variable owned by the caller.
type Fetcher func(ctx context.Context) error

// Gather runs every fetcher concurrently and waits for all of them. The first
// failure cancels the others and is returned; callers must not use any of the
// fetched collections when the error is non-nil.
func Gather(ctx context.Context, fetchers ...Fetcher) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fetchers {
		g.Go(func() error {
			return f(gctx)
		})
	}
	return g.Wait()
}

// Into adapts a fetch function returning a collection into a Fetcher that
// assigns the result to dst.
func Into[T any](dst *T, fetch func(ctx context.Context) (T, error)) Fetcher {
	return func(ctx context.Context) error {
		v, err := fetch(ctx)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}
