package scenario

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/nummus/payoffscript/pkg/types"
)

// WasmSource wraps a compiled WASM module implementing a pricing model as
// an external collaborator (spec §1): a "next_path" export that, given a
// path seed, one event date and that event's index, returns the
// (spot, numeraire) pair for that date on that path. This lets a pricing model be
// swapped, sandboxed or written in any wasm-targeting language without
// this package knowing anything about its internals.
type WasmSource struct {
	runtime  wazero.Runtime
	module   api.Module
	nextPath api.Function
	dates    []types.Date
	pathSeq  uint64
}

// NewWasmSource instantiates the WASM module in wasmBytes, resolves its
// next_path export, and binds it to dates. The caller owns shutdown via
// Close.
func NewWasmSource(ctx context.Context, wasmBytes []byte, dates []types.Date) (*WasmSource, error) {
	r := wazero.NewRuntime(ctx)
	mod, err := r.Instantiate(ctx, wasmBytes)
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("scenario: instantiating wasm module: %w", err)
	}
	fn := mod.ExportedFunction("next_path")
	if fn == nil {
		mod.Close(ctx)
		r.Close(ctx)
		return nil, fmt.Errorf("scenario: wasm module has no next_path export")
	}
	return &WasmSource{runtime: r, module: mod, nextPath: fn, dates: dates}, nil
}

// Close releases the underlying WASM runtime and module instance.
func (w *WasmSource) Close(ctx context.Context) error {
	err := w.module.Close(ctx)
	if cerr := w.runtime.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// NextPath calls next_path once per event date, passing this source's own
// monotonically increasing path sequence number as the seed — the WASM
// module owns its RNG state entirely, which is why WasmSource.NextPath
// ignores the RandomGenerator parameter required by the PathSource
// interface. Embed gen in scenario.NonSkippable when handing it to
// pkg/runner, since a WASM model's internal state cannot be skipped ahead
// from outside the module.
func (w *WasmSource) NextPath(gen RandomGenerator) (*Scenario, error) {
	ctx := context.Background()
	seed := w.pathSeq
	w.pathSeq++

	sc := New(len(w.dates))
	for i, date := range w.dates {
		results, err := w.nextPath.Call(ctx, seed, api.EncodeF64(float64(date)), uint64(i))
		if err != nil {
			return nil, fmt.Errorf("scenario: calling next_path for event %d: %w", i, err)
		}
		if len(results) != 2 {
			return nil, fmt.Errorf("scenario: next_path returned %d values, want 2", len(results))
		}
		sc.Set(i, api.DecodeF64(results[0]), api.DecodeF64(results[1]))
	}
	return sc, nil
}
