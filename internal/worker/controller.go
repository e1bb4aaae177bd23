package worker

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

type WorkerFactoryFunc func(ctx context.Context, i int) func() error

// RunAll runs numWorkers workers concurrently and waits for every one of them
// to return. A failing worker does not cancel the others; all failures are
// returned together, ordered by worker index. limit bounds the number of
// workers running at once, a non-positive limit means no bound.
func RunAll(
	ctx context.Context,
	numWorkers int,
	limit int,
	f WorkerFactoryFunc,
) error {
	var (
		group errgroup.Group
		errs  = make([]error, numWorkers)
		res   *multierror.Error
	)

	if limit > 0 {
		group.SetLimit(limit)
	}

	for i := 0; i < numWorkers; i++ {
		group.Go(func() error {
			errs[i] = f(ctx, i)()
			return nil
		})
	}

	group.Wait()

	for _, err := range errs {
		if err != nil {
			res = multierror.Append(res, err)
		}
	}

	return res.ErrorOrNil()
}
