package constfold

import (
	"testing"

	"github.com/nummus/payoffscript/pkg/types"
)

func newAssign(v *types.Node, rhs *types.Node) *types.Node {
	return &types.Node{Kind: types.KindAssign, Args: []*types.Node{v, rhs}, FirstElse: -1, Eps: -1}
}

func TestConstantArithmeticFolds(t *testing.T) {
	expr := types.NewBinary(types.KindAdd, 0, types.NewConst(0, 2), types.NewConst(0, 3))
	v := types.NewVar(0, "X")
	v.Index = 0
	stmt := newAssign(v, expr)
	product := &types.Product{Events: []*types.Event{{Stmts: []*types.Node{stmt}}}, VarNames: []string{"X"}}

	Process(product)

	if !expr.IsConst || expr.ConstVal != 5 {
		t.Errorf("Add(2,3) const-folded to IsConst=%v ConstVal=%v, want true 5", expr.IsConst, expr.ConstVal)
	}
}

func TestSpotMakesExpressionNonConst(t *testing.T) {
	expr := types.NewBinary(types.KindAdd, 0, types.NewNode(types.KindSpot, 0), types.NewConst(0, 1))
	v := types.NewVar(0, "X")
	v.Index = 0
	stmt := newAssign(v, expr)
	product := &types.Product{Events: []*types.Event{{Stmts: []*types.Node{stmt}}}, VarNames: []string{"X"}}

	Process(product)

	if expr.IsConst {
		t.Error("SPOT + 1 should never be const")
	}
}

func TestAssignInsideIfForcesNonConst(t *testing.T) {
	v := types.NewVar(0, "X")
	v.Index = 0
	inner := newAssign(v, types.NewConst(0, 1))
	ifNode := types.NewIf(0, types.NewNode(types.KindTrue, 0), []*types.Node{inner}, nil)
	product := &types.Product{Events: []*types.Event{{Stmts: []*types.Node{ifNode}}}, VarNames: []string{"X"}}

	Process(product)

	readBack := types.NewVar(0, "X")
	readBack.Index = 0
	y := types.NewVar(0, "Y")
	y.Index = 1
	product.Events[0].Stmts = append(product.Events[0].Stmts, newAssign(y, readBack))
	product.VarNames = append(product.VarNames, "Y")
	Process(product)

	if readBack.IsConst {
		t.Error("a variable assigned inside an If must be non-const afterward")
	}
}

func TestAssignOutsideIfWithConstRhsStaysConst(t *testing.T) {
	v := types.NewVar(0, "X")
	v.Index = 0
	stmt := newAssign(v, types.NewConst(0, 7))
	readBack := types.NewVar(0, "X")
	readBack.Index = 0
	y := types.NewVar(0, "Y")
	y.Index = 1
	readStmt := newAssign(y, readBack)

	product := &types.Product{Events: []*types.Event{{Stmts: []*types.Node{stmt, readStmt}}}, VarNames: []string{"X", "Y"}}
	Process(product)

	if !readBack.IsConst || readBack.ConstVal != 7 {
		t.Errorf("X read after const assignment: IsConst=%v ConstVal=%v, want true 7", readBack.IsConst, readBack.ConstVal)
	}
}

func TestPaysAlwaysNonConst(t *testing.T) {
	v := types.NewVar(0, "X")
	v.Index = 0
	pays := &types.Node{Kind: types.KindPays, Args: []*types.Node{v, types.NewConst(0, 1)}, FirstElse: -1, Eps: -1}
	readBack := types.NewVar(0, "X")
	readBack.Index = 0
	y := types.NewVar(0, "Y")
	y.Index = 1
	readStmt := newAssign(y, readBack)

	product := &types.Product{Events: []*types.Event{{Stmts: []*types.Node{pays, readStmt}}}, VarNames: []string{"X", "Y"}}
	Process(product)

	if readBack.IsConst {
		t.Error("a variable written by Pays must be non-const afterward")
	}
}

func TestSmoothClosedFormFold(t *testing.T) {
	smooth := types.NewNode(types.KindSmooth, 0)
	smooth.Args = []*types.Node{
		types.NewConst(0, 0),
		types.NewConst(0, 10),
		types.NewConst(0, -10),
		types.NewConst(0, 4),
	}
	v := types.NewVar(0, "X")
	v.Index = 0
	stmt := newAssign(v, smooth)
	product := &types.Product{Events: []*types.Event{{Stmts: []*types.Node{stmt}}}, VarNames: []string{"X"}}

	Process(product)

	if !smooth.IsConst || smooth.ConstVal != 0 {
		t.Errorf("Smooth(0,10,-10,4) should fold to the midpoint 0, got IsConst=%v ConstVal=%v", smooth.IsConst, smooth.ConstVal)
	}
}
