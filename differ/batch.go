package differ

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/catalogdiff/catalog"
)

// Pair is one snapshot comparison of a batch.
type Pair struct {
	// Name labels the pair in the batch output
	Name     string
	Original *catalog.Snapshot
	Updated  *catalog.Snapshot
}

// BatchResult is the outcome of one Pair. Exactly one of Result and Err is set.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// EntityPair is one entity comparison of a batch. A nil Original is an
// addition and a nil Updated a deletion.
type EntityPair struct {
	Name     string
	Original any
	Updated  any
}

// DiffBatch compares independent snapshot pairs in parallel, running at most
// WithConcurrency comparisons at once. Results keep the order of pairs.
//
// A failed comparison is reported in its BatchResult and does not stop the
// others. The returned error is non-nil only for invalid options or when ctx
// is cancelled; ctx is checked between comparisons, a comparison that has
// started always runs to completion.
func DiffBatch(ctx context.Context, pairs []Pair, opts ...Option) ([]BatchResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("differ: invalid options: %w", err)
	}
	d := cfg.differ()

	out := make([]BatchResult, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrencyLimit(cfg.limits.Concurrency))
	for i, p := range pairs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := d.DiffSnapshots(p.Original, p.Updated)
			out[i] = BatchResult{Name: p.Name, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// DiffEntities classifies independent entity pairs in parallel, for example
// every component schema of a catalog. Results keep the order of pairs. The
// first classification error cancels the remaining work and is returned.
func DiffEntities(ctx context.Context, pairs []EntityPair, opts ...Option) ([]EntityVerdict, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("differ: invalid options: %w", err)
	}
	d := cfg.differ()

	out := make([]EntityVerdict, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrencyLimit(cfg.limits.Concurrency))
	for i, p := range pairs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := d.ClassifyEntity(p.Name, p.Original, p.Updated)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func concurrencyLimit(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
