//go:build js && wasm

// Command payoffscript-wasm-js is the WebAssembly entrypoint for browser
// and Node.js hosts that embed the payoff scripting engine (spec §1).
//
// It exposes a single global function:
//
//	valuateScript(configJSON) → resultJSON  (throws on error)
//
// configJSON shape:
//
//	{
//	  "events":      [{"date": 1, "text": "RESULT PAYS MAX(SPOT()-100,0)"}],
//	  "today":       0,
//	  "fuzzy":       false,
//	  "numPaths":    10000,
//	  "concurrency": 1,
//	  "seed":        1,
//	  "model":       {"spot0": 100, "vol": 0.2, "rate": 0.0}
//	}
//
// resultJSON is {"<varName>": <average>, ...} with keys in sorted order
// on success, or the engine throws a JS Error carrying the plain
// failure string described in spec §7.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o payoffscript.wasm ./cmd/wasm/js/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/nummus/payoffscript/pkg/product"
	"github.com/nummus/payoffscript/pkg/scenario"
	"github.com/nummus/payoffscript/pkg/types"

	"github.com/nummus/payoffscript"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	panic(js.Global().Get("Error").New(msg))
}

type eventInput struct {
	Date float64 `json:"date"`
	Text string  `json:"text"`
}

type modelConfig struct {
	Spot0 float64 `json:"spot0"`
	Vol   float64 `json:"vol"`
	Rate  float64 `json:"rate"`
}

type valuateConfig struct {
	Events      []eventInput `json:"events"`
	Today       float64      `json:"today"`
	Fuzzy       bool         `json:"fuzzy"`
	NumPaths    int          `json:"numPaths"`
	Concurrency int          `json:"concurrency"`
	Seed        int64        `json:"seed"`
	Model       modelConfig  `json:"model"`
}

// jsValuateScript implements valuateScript(configJSON) → resultJSON.
func jsValuateScript(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("valuateScript requires 1 argument: config (JSON string)")
	}

	var cfg valuateConfig
	if err := json.Unmarshal([]byte(args[0].String()), &cfg); err != nil {
		jsThrow(fmt.Sprintf("valuateScript: invalid config JSON: %v", err))
	}

	var inputs []product.EventInput
	dates := make([]types.Date, 0, len(cfg.Events))
	for _, e := range cfg.Events {
		d := types.Date(e.Date)
		inputs = append(inputs, product.EventInput{Date: d, Text: e.Text})
		dates = append(dates, d)
	}

	p, err := payoffscript.Build(inputs,
		product.WithToday(types.Date(cfg.Today)),
		product.WithFuzzy(cfg.Fuzzy),
	)
	if err != nil {
		jsThrow(fmt.Sprintf("valuateScript: %v", err))
	}

	src := &scenario.BlackScholes{
		Dates: dates,
		Spot0: cfg.Model.Spot0,
		Vol:   cfg.Model.Vol,
		Rate:  cfg.Model.Rate,
	}
	newGen := func() scenario.RandomGenerator { return scenario.NewStdGenerator(cfg.Seed) }

	result, err := payoffscript.Valuate(context.Background(), p, src, newGen, payoffscript.ValuateOptions{
		NumPaths:     cfg.NumPaths,
		Concurrency:  cfg.Concurrency,
		DrawsPerPath: int64(len(dates)),
		Fuzzy:        cfg.Fuzzy,
	})
	if err != nil {
		jsThrow(fmt.Sprintf("valuateScript: %v", err))
	}

	out, err := json.Marshal(result)
	if err != nil {
		jsThrow(fmt.Sprintf("valuateScript: marshal result: %v", err))
	}
	return string(out)
}

func main() {
	js.Global().Set("valuateScript", js.FuncOf(jsValuateScript))

	// Block forever — the JS event loop owns execution from here.
	select {}
}
