package hours

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BuildReports builds one report per input concurrently, at most workers at a
// time (workers <= 0 means unbounded). Output order matches input order. The
// first error cancels the remaining work and is returned.
//
// Each call to BuildReport is pure, so the only shared state is the output
// slice, and each goroutine writes its own index.
func BuildReports(ctx context.Context, inputs []ReportInput, workers int) ([]Report, error) {
	reports := make([]Report, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := BuildReport(inputs[i])
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
