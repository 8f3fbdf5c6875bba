package eval

import (
	"testing"

	"github.com/nummus/payoffscript/pkg/types"
)

type fakeScen struct {
	spot, numeraire float64
}

func (s fakeScen) Spot() float64      { return s.spot }
func (s fakeScen) Numeraire() float64 { return s.numeraire }

func newAssign(idx int, rhs *types.Node) *types.Node {
	v := types.NewVar(0, "X")
	v.Index = idx
	return &types.Node{Kind: types.KindAssign, Args: []*types.Node{v, rhs}, FirstElse: -1, Eps: -1}
}

func TestSharpAssignAndPaysAccumulate(t *testing.T) {
	state := NewState(1, 1)
	state.Scen = fakeScen{spot: 100, numeraire: 2}

	pays1 := &types.Node{Kind: types.KindPays, Args: []*types.Node{varAt(0), types.NewConst(0, 100)}, FirstElse: -1, Eps: -1}
	pays2 := &types.Node{Kind: types.KindPays, Args: []*types.Node{varAt(0), types.NewConst(0, 50)}, FirstElse: -1, Eps: -1}
	ev := &types.Event{Stmts: []*types.Node{pays1, pays2}}

	if err := (Sharp{}).EvalEvent(ev, state); err != nil {
		t.Fatalf("EvalEvent error: %v", err)
	}
	if got, want := state.Variables[0], 75.0; got != want {
		t.Errorf("variables[0] = %v, want %v (50+25 accumulated)", got, want)
	}
}

func varAt(idx int) *types.Node {
	v := types.NewVar(0, "X")
	v.Index = idx
	return v
}

func TestSharpIfSelectsBranchByCondition(t *testing.T) {
	state := NewState(1, 1)
	state.Scen = fakeScen{numeraire: 1}

	cond := types.NewNode(types.KindTrue, 0)
	then := newAssign(0, types.NewConst(0, 1))
	els := newAssign(0, types.NewConst(0, 2))
	ifNode := types.NewIf(0, cond, []*types.Node{then}, []*types.Node{els})
	ev := &types.Event{Stmts: []*types.Node{ifNode}}

	if err := (Sharp{}).EvalEvent(ev, state); err != nil {
		t.Fatalf("EvalEvent error: %v", err)
	}
	if state.Variables[0] != 1 {
		t.Errorf("variables[0] = %v, want 1 (then branch)", state.Variables[0])
	}
}

func TestSharpSmoothCascade(t *testing.T) {
	state := NewState(0, 0)
	state.Scen = fakeScen{numeraire: 1}

	smoothNode := &types.Node{
		Kind: types.KindSmooth,
		Args: []*types.Node{
			types.NewConst(0, -10), // x
			types.NewConst(0, 10),  // vPos
			types.NewConst(0, 0),   // vNeg
			types.NewConst(0, 0.5), // eps
		},
	}
	v, err := sharpExpr(smoothNode, state)
	if err != nil {
		t.Fatalf("sharpExpr error: %v", err)
	}
	if v != 0 {
		t.Errorf("smooth(-10) = %v, want 0 (deep negative -> vNeg)", v)
	}
}

func TestSharpAndOrShortCircuit(t *testing.T) {
	state := NewState(0, 0)
	// And(False, X > 0) and Or(True, X > 0): state has no variables, so
	// evaluating the right operand would index out of range.
	falseNode := types.NewNode(types.KindFalse, 0)
	unevaluated := types.NewUnary(types.KindSup, 0, varAt(5))
	andNode := types.NewBinary(types.KindAnd, 0, falseNode, unevaluated)
	v, err := sharpBool(andNode, state)
	if err != nil {
		t.Fatalf("sharpBool error: %v", err)
	}
	if v {
		t.Error("And(False, X > 0) = true, want false")
	}
	orNode := types.NewBinary(types.KindOr, 0, types.NewNode(types.KindTrue, 0), unevaluated)
	v, err = sharpBool(orNode, state)
	if err != nil {
		t.Fatalf("sharpBool error: %v", err)
	}
	if !v {
		t.Error("Or(True, X > 0) = false, want true")
	}
}
