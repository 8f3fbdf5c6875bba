// Package payoffscript provides a domain-specific scripting engine for
// financial payoff scripts (spec §1): parse, analyze and compile a
// Date-ordered set of event scripts into a types.Product, then evaluate
// it against Monte-Carlo scenarios with either the sharp (boolean) or
// fuzzy (degree-of-truth) evaluator.
//
// # Quick Start
//
//	// Build once, valuate many times.
//	p, err := payoffscript.Build([]product.EventInput{
//	    {Date: 1, Text: "RESULT PAYS MAX(SPOT() - 100, 0)"},
//	})
//	result, err := payoffscript.Valuate(ctx, p, src, gen, payoffscript.ValuateOptions{
//	    NumPaths: 100000,
//	})
//
//	// Or skip straight to a result vector from event text.
//	result, str := payoffscript.ValuateString(ctx, events, src, gen, opts)
package payoffscript

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nummus/payoffscript/pkg/eval"
	"github.com/nummus/payoffscript/pkg/product"
	"github.com/nummus/payoffscript/pkg/runner"
	"github.com/nummus/payoffscript/pkg/scenario"
	"github.com/nummus/payoffscript/pkg/types"
)

// Build compiles a date-ordered set of event scripts into a Product,
// running the full parse/index/analyze/compile pipeline (pkg/product).
func Build(events []product.EventInput, opts ...product.BuildOption) (*types.Product, error) {
	return product.Build(events, opts...)
}

// ValuateOptions configures Valuate.
type ValuateOptions struct {
	NumPaths     int
	Concurrency  int
	DrawsPerPath int64
	// Fuzzy selects the fuzzy (degree-of-truth) evaluator in place of the
	// default sharp (boolean) one. The Discrete/LB/RB annotations the fuzzy
	// evaluator uses for discrete comparisons are populated at build time
	// only when the Product was built with product.WithFuzzy(true); without
	// them every comparison is smoothed as continuous.
	Fuzzy bool
	// DefaultEps overrides the fuzzy evaluator's fallback epsilon (eval's
	// package default otherwise). Ignored when Fuzzy is false.
	DefaultEps float64
	// Logger receives one Debug record per event evaluated, if set.
	Logger *slog.Logger
}

func (o ValuateOptions) evaluator() eval.Evaluator {
	return eval.New(
		eval.WithFuzzy(o.Fuzzy),
		eval.WithDefaultEps(o.DefaultEps),
		eval.WithLogger(o.Logger),
	)
}

// Valuate runs a Monte-Carlo valuation of p against src, aggregating
// opts.NumPaths independent paths across opts.Concurrency worker goroutines
// (pkg/runner's cloning model, spec §5), and returns the per-variable
// average keyed by p.VarNames.
func Valuate(ctx context.Context, p *types.Product, src scenario.PathSource, newGen runner.GeneratorFactory, opts ValuateOptions) (map[string]float64, error) {
	cfg := runner.Config{
		NumPaths:     opts.NumPaths,
		Concurrency:  opts.Concurrency,
		DrawsPerPath: opts.DrawsPerPath,
		Evaluator:    opts.evaluator(),
	}
	return runner.Run(ctx, p, src, newGen, cfg)
}

// ValuateString builds events, runs Valuate, and collapses any error —
// a *types.Error or a recovered panic alike — into the plain string a
// host spreadsheet or embedding application expects in place of a result
// (spec §7's user-visible failure path). It never panics.
func ValuateString(ctx context.Context, events []product.EventInput, src scenario.PathSource, newGen runner.GeneratorFactory, opts ValuateOptions, buildOpts ...product.BuildOption) (result map[string]float64, errStr string) {
	defer func() {
		if r := recover(); r != nil {
			result, errStr = nil, fmt.Sprintf("payoffscript: %v", r)
		}
	}()

	p, err := Build(events, buildOpts...)
	if err != nil {
		return nil, err.Error()
	}
	result, err = Valuate(ctx, p, src, newGen, opts)
	if err != nil {
		return nil, err.Error()
	}
	return result, ""
}
