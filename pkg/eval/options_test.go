package eval

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/nummus/payoffscript/pkg/types"
)

func TestNewPicksSharpOrFuzzyByOption(t *testing.T) {
	if _, ok := New().(Sharp); !ok {
		t.Error("New() without WithFuzzy should return Sharp")
	}
	if _, ok := New(WithFuzzy(true)).(Fuzzy); !ok {
		t.Error("New(WithFuzzy(true)) should return Fuzzy")
	}
}

func TestNewWithDefaultEpsAppliesToFuzzyResolveEps(t *testing.T) {
	f, ok := New(WithFuzzy(true), WithDefaultEps(4)).(Fuzzy)
	if !ok {
		t.Fatal("expected Fuzzy")
	}
	n := types.NewNode(types.KindEqual, 0)
	if got := f.resolveEps(n); got != 4 {
		t.Errorf("resolveEps = %v, want 4", got)
	}
}

func TestNewWithLoggerEmitsDebugRecordPerEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sharp := New(WithLogger(logger))
	state := NewState(0, 0)
	state.Scen = fakeScen{numeraire: 1}
	ev := &types.Event{Date: 1, Stmts: nil}

	if err := sharp.EvalEvent(ev, state); err != nil {
		t.Fatalf("EvalEvent error: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected a Debug record to be logged")
	}
}
