// Package constfold implements the const processor (spec §4.7): a
// bottom-up pass over expressions that marks IsConst/ConstVal whenever
// every argument of a node is itself constant, including a closed-form
// evaluation of Smooth's piecewise blend.
package constfold

import (
	"math"

	"github.com/nummus/payoffscript/pkg/types"
)

// Process folds constants through every statement tree of every event of
// product, in event order, since a variable's const-ness (and value)
// carries over from one event to the next until reassigned.
func Process(product *types.Product) {
	varConst := make([]bool, product.NumVars())
	varVal := make([]float64, product.NumVars())
	for i := range varConst {
		varConst[i] = true
		varVal[i] = 0
	}

	for _, ev := range product.Events {
		for _, stmt := range ev.Stmts {
			statement(stmt, varConst, varVal, false)
		}
	}
}

// statement folds one statement node, updating the per-variable const
// tables. insideIf reports whether this statement executes under an If,
// which forces any Assign target to non-const regardless of its RHS.
func statement(n *types.Node, varConst []bool, varVal []float64, insideIf bool) {
	switch n.Kind {
	case types.KindAssign:
		expr(n.Rhs(), varConst, varVal)
		idx := n.Lhs().Index
		if !insideIf && n.Rhs().IsConst {
			varConst[idx] = true
			varVal[idx] = n.Rhs().ConstVal
		} else {
			varConst[idx] = false
		}
	case types.KindPays:
		expr(n.Rhs(), varConst, varVal)
		varConst[n.Lhs().Index] = false
	case types.KindIf:
		expr(n.Cond(), varConst, varVal)
		for _, s := range n.ThenStmts() {
			statement(s, varConst, varVal, true)
		}
		for _, s := range n.ElseStmts() {
			statement(s, varConst, varVal, true)
		}
	case types.KindCollect:
		for _, s := range n.Args {
			statement(s, varConst, varVal, insideIf)
		}
	}
}

// expr folds one expression (or boolean) node bottom-up.
func expr(n *types.Node, varConst []bool, varVal []float64) {
	switch n.Kind {
	case types.KindConst:
		// Already const by construction.
	case types.KindVar:
		n.IsConst = varConst[n.Index]
		n.ConstVal = varVal[n.Index]
	case types.KindSpot:
		n.IsConst = false
	case types.KindUplus, types.KindUminus, types.KindLog, types.KindSqrt:
		a := n.Lhs()
		expr(a, varConst, varVal)
		n.IsConst = a.IsConst
		if n.IsConst {
			n.ConstVal = unaryConst(n.Kind, a.ConstVal)
		}
	case types.KindAdd, types.KindSub, types.KindMult, types.KindDiv, types.KindPow, types.KindMin, types.KindMax:
		a, b := n.Lhs(), n.Rhs()
		expr(a, varConst, varVal)
		expr(b, varConst, varVal)
		n.IsConst = a.IsConst && b.IsConst
		if n.IsConst {
			n.ConstVal = binaryConst(n.Kind, a.ConstVal, b.ConstVal)
		}
	case types.KindSmooth:
		x, vPos, vNeg, eps := n.Args[0], n.Args[1], n.Args[2], n.Args[3]
		expr(x, varConst, varVal)
		expr(vPos, varConst, varVal)
		expr(vNeg, varConst, varVal)
		expr(eps, varConst, varVal)
		n.IsConst = x.IsConst && vPos.IsConst && vNeg.IsConst && eps.IsConst
		if n.IsConst {
			n.ConstVal = smoothConst(x.ConstVal, vPos.ConstVal, vNeg.ConstVal, eps.ConstVal)
		}
	case types.KindTrue, types.KindFalse:
		// Boolean-family nodes carry no isConst/constVal annotation
		// (spec §3 reserves those to expression nodes); nothing to do.
	case types.KindNot:
		expr(n.Lhs(), varConst, varVal)
	case types.KindAnd, types.KindOr:
		expr(n.Lhs(), varConst, varVal)
		expr(n.Rhs(), varConst, varVal)
	case types.KindEqual, types.KindSup, types.KindSupEqual:
		expr(n.Lhs(), varConst, varVal)
	}
}

func unaryConst(kind types.Kind, v float64) float64 {
	switch kind {
	case types.KindUplus:
		return v
	case types.KindUminus:
		return -v
	case types.KindLog:
		return math.Log(v)
	case types.KindSqrt:
		return math.Sqrt(v)
	default:
		return v
	}
}

func binaryConst(kind types.Kind, a, b float64) float64 {
	switch kind {
	case types.KindAdd:
		return a + b
	case types.KindSub:
		return a - b
	case types.KindMult:
		return a * b
	case types.KindDiv:
		return a / b
	case types.KindPow:
		return math.Pow(a, b)
	case types.KindMin:
		if a < b {
			return a
		}
		return b
	case types.KindMax:
		if a > b {
			return a
		}
		return b
	default:
		return 0
	}
}

// smoothConst evaluates the piecewise blend identically to the bytecode
// and tree evaluators (spec §4.8/§4.10): vNeg below -eps/2, vPos above
// +eps/2, linear in between.
func smoothConst(x, vPos, vNeg, eps float64) float64 {
	halfEps := eps / 2
	switch {
	case x < -halfEps:
		return vNeg
	case x > halfEps:
		return vPos
	default:
		return vNeg + 0.5*(vPos-vNeg)*(x+halfEps)/halfEps
	}
}
