package addrspec

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ValidateAll validates addresses with up to concurrency workers; zero or a
// negative value means unlimited. Results are in input order.
func (v *Validator) ValidateAll(ctx context.Context, addresses []string, concurrency int) ([]bool, error) {
	results := make([]bool, len(addresses))
	eg, innerCtx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}
	for i, address := range addresses {
		if innerCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := innerCtx.Err(); err != nil {
				return err
			}
			results[i] = v.Validate(address)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
