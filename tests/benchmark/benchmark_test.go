// Package benchmark provides performance benchmarks for the payoff
// scripting engine.
//
// Run all benchmarks:
//
//	go test -bench=. -benchmem ./tests/benchmark/...
//
// Run specific category:
//
//	go test -bench=BenchmarkParse -benchmem ./tests/benchmark/...
//	go test -bench=BenchmarkValuate -benchmem ./tests/benchmark/...
package benchmark_test

import (
	"context"
	"testing"

	"github.com/nummus/payoffscript"
	"github.com/nummus/payoffscript/pkg/parser"
	"github.com/nummus/payoffscript/pkg/product"
	"github.com/nummus/payoffscript/pkg/scenario"
	"github.com/nummus/payoffscript/pkg/types"
)

const (
	simpleAssign = "X = 1 + 2 * 3"
	vanillaCall  = "X PAYS MAX(SPOT() - 100, 0)"
	digital      = "IF SPOT() > 100 THEN X = 1 ELSE X = 0 ENDIF"
	knockOut     = "IF SPOT() > 120 THEN ALIVE = 0 ENDIF"
)

func BenchmarkParseSimpleAssign(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := parser.Parse(simpleAssign); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseVanillaCall(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := parser.Parse(vanillaCall); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseDigital(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := parser.Parse(digital); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildVanillaCall(b *testing.B) {
	events := []product.EventInput{{Date: 1, Text: vanillaCall}}
	for i := 0; i < b.N; i++ {
		if _, err := payoffscript.Build(events); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildKnockOutAccumulator(b *testing.B) {
	events := []product.EventInput{
		{Date: 0, Text: "ALIVE = 1"},
		{Date: 0.5, Text: knockOut},
		{Date: 1, Text: "X PAYS ALIVE * MAX(SPOT() - 100, 0)"},
	}
	for i := 0; i < b.N; i++ {
		if _, err := payoffscript.Build(events); err != nil {
			b.Fatal(err)
		}
	}
}

func valuateBench(b *testing.B, events []product.EventInput, numPaths, concurrency int) {
	b.Helper()
	p, err := payoffscript.Build(events)
	if err != nil {
		b.Fatal(err)
	}
	dates := make([]types.Date, len(p.Events))
	for i, ev := range p.Events {
		dates[i] = ev.Date
	}
	src := &scenario.BlackScholes{Dates: dates, Spot0: 100, Vol: 0.2, Rate: 0.0}
	newGen := func() scenario.RandomGenerator { return scenario.NewStdGenerator(1) }
	cfg := payoffscript.ValuateOptions{NumPaths: numPaths, Concurrency: concurrency, DrawsPerPath: int64(len(dates))}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := payoffscript.Valuate(context.Background(), p, src, newGen, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValuateVanillaCall_1k_SingleWorker(b *testing.B) {
	valuateBench(b, []product.EventInput{{Date: 1, Text: vanillaCall}}, 1000, 1)
}

func BenchmarkValuateVanillaCall_10k_SingleWorker(b *testing.B) {
	valuateBench(b, []product.EventInput{{Date: 1, Text: vanillaCall}}, 10000, 1)
}

func BenchmarkValuateVanillaCall_10k_FourWorkers(b *testing.B) {
	valuateBench(b, []product.EventInput{{Date: 1, Text: vanillaCall}}, 10000, 4)
}

func BenchmarkValuateKnockOutAccumulator_10k_FourWorkers(b *testing.B) {
	events := []product.EventInput{
		{Date: 0, Text: "ALIVE = 1"},
		{Date: 0.5, Text: knockOut},
		{Date: 1, Text: "X PAYS ALIVE * MAX(SPOT() - 100, 0)"},
	}
	valuateBench(b, events, 10000, 4)
}
