// Package runner executes independent generation jobs concurrently.
package runner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Options configures Run.
type Options struct {
	// Limit bounds the number of jobs running at once. Values below one
	// run the jobs one at a time.
	Limit int
}

// Run calls job once for every index in [0, n), at most opts.Limit at a
// time. The first failure cancels the context passed to the remaining
// jobs; jobs not yet started are skipped. Run returns that first error.
func Run(ctx context.Context, n int, opts Options, job func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Limit, 1))
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return job(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// The parent may have been cancelled before any job ran.
	return ctx.Err()
}
