package install

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Batch installs several tools, at most Options.Concurrency at a time.
// Results are in request order. Cancelling ctx stops new attempts in every
// worker and sends in-flight tools to rollback.
func (o *Orchestrator) Batch(ctx context.Context, names []string) []Result {
	results := make([]Result, len(names))

	var g errgroup.Group
	g.SetLimit(o.opts.Concurrency)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results[i] = o.Install(ctx, name)
			return nil
		})
	}

	_ = g.Wait()
	return results
}
