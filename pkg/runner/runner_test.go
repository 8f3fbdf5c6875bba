package runner

import (
	"context"
	"testing"

	"github.com/nummus/payoffscript/pkg/eval"
	"github.com/nummus/payoffscript/pkg/scenario"
	"github.com/nummus/payoffscript/pkg/types"
)

// constSource always returns the same scenario, independent of gen, so
// tests can assert exact aggregated values without relying on randomness.
type constSource struct {
	spot, numeraire float64
	n               int
}

func (s constSource) NextPath(gen scenario.RandomGenerator) (*scenario.Scenario, error) {
	sc := scenario.New(s.n)
	for i := 0; i < s.n; i++ {
		sc.Set(i, s.spot, s.numeraire)
	}
	return sc, nil
}

func newPaysProduct() *types.Product {
	v := types.NewVar(0, "X")
	v.Index = 0
	pays := &types.Node{
		Kind:      types.KindPays,
		Args:      []*types.Node{v, types.NewNode(types.KindSpot, 0)},
		FirstElse: -1,
		Eps:       -1,
	}
	return &types.Product{
		Events:   []*types.Event{{Date: 1, Stmts: []*types.Node{pays}}},
		VarNames: []string{"X"},
	}
}

func TestRunAggregatesAcrossPathsAndWorkers(t *testing.T) {
	product := newPaysProduct()
	src := constSource{spot: 100, numeraire: 2, n: 1}
	cfg := Config{NumPaths: 10, Concurrency: 4, Evaluator: eval.Sharp{}}

	out, err := Run(context.Background(), product, src, func() scenario.RandomGenerator {
		return scenario.NewStdGenerator(1)
	}, cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	// Each path pays 100/2 = 50 into X; average across paths is still 50.
	if got, want := out["X"], 50.0; got != want {
		t.Errorf("X = %v, want %v", got, want)
	}
}

func TestRunSingleWorkerMatchesMultiWorker(t *testing.T) {
	product := newPaysProduct()
	src := constSource{spot: 50, numeraire: 1, n: 1}
	gen := func() scenario.RandomGenerator { return scenario.NewStdGenerator(7) }

	single, err := Run(context.Background(), product, src, gen, Config{NumPaths: 8, Concurrency: 1, Evaluator: eval.Sharp{}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	multi, err := Run(context.Background(), product, src, gen, Config{NumPaths: 8, Concurrency: 3, Evaluator: eval.Sharp{}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if single["X"] != multi["X"] {
		t.Errorf("single-worker X = %v, multi-worker X = %v, want equal", single["X"], multi["X"])
	}
}
