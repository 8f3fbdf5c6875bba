// Package runner implements the concurrency/aggregation model of spec §5:
// parallelism expressed by cloning, one goroutine per worker, each owning
// its own Evaluator/EvalState/Scenario/RandomGenerator, with no
// synchronization during path evaluation and aggregation only after every
// path completes.
package runner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nummus/payoffscript/pkg/eval"
	"github.com/nummus/payoffscript/pkg/scenario"
	"github.com/nummus/payoffscript/pkg/types"
)

// GeneratorFactory builds a fresh, worker-exclusive RandomGenerator. Run
// calls it once per worker, then advances the result by that worker's
// starting path offset via SkipAhead, giving every worker an independent,
// deterministically-partitioned slice of the path sequence.
type GeneratorFactory func() scenario.RandomGenerator

// Config configures one valuation run.
type Config struct {
	// NumPaths is the total number of Monte-Carlo paths to simulate.
	NumPaths int
	// Concurrency is the number of worker goroutines. Values < 1 are
	// treated as 1, which runs every path on a single worker goroutine.
	Concurrency int
	// DrawsPerPath is how many random draws src.NextPath consumes per
	// path, used to compute each worker's SkipAhead offset. Callers using
	// a PathSource that ignores the generator (e.g. scenario.WasmSource)
	// may pass 0.
	DrawsPerPath int64
	// Evaluator is eval.Sharp{} or eval.Fuzzy{}.
	Evaluator eval.Evaluator
}

// Run simulates cfg.NumPaths paths of product against src, aggregates each
// path's final variable vector, and returns the per-variable average
// keyed by product.VarNames (spec §6: "sums across paths then divides by
// path count"). It returns ctx.Err() if ctx is canceled between paths.
func Run(ctx context.Context, product *types.Product, src scenario.PathSource, newGen GeneratorFactory, cfg Config) (map[string]float64, error) {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	numVars := product.NumVars()
	workerTotals := make([][]float64, concurrency)

	g, gctx := errgroup.WithContext(ctx)

	perWorker := cfg.NumPaths / concurrency
	remainder := cfg.NumPaths % concurrency
	startPath := 0
	for w := 0; w < concurrency; w++ {
		w := w
		n := perWorker
		if w < remainder {
			n++
		}
		offset := startPath
		startPath += n

		g.Go(func() error {
			gen := newGen()
			if offset > 0 && cfg.DrawsPerPath > 0 {
				if err := gen.SkipAhead(int64(offset) * cfg.DrawsPerPath); err != nil {
					return err
				}
			}

			total := make([]float64, numVars)
			state := eval.NewState(numVars, product.MaxNestedIfs)

			for p := 0; p < n; p++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				sc, err := src.NextPath(gen)
				if err != nil {
					return err
				}
				state.Reset()
				state.Scen = sc
				for i, ev := range product.Events {
					sc.Seek(i)
					if err := cfg.Evaluator.EvalEvent(ev, state); err != nil {
						return err
					}
				}
				for i, v := range state.Variables {
					total[i] += v
				}
			}
			workerTotals[w] = total
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := make([]float64, numVars)
	for _, t := range workerTotals {
		for i, v := range t {
			sum[i] += v
		}
	}

	out := make(map[string]float64, numVars)
	for i, name := range product.VarNames {
		out[name] = sum[i] / float64(cfg.NumPaths)
	}
	return out, nil
}
