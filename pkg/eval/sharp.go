package eval

import (
	"log/slog"
	"math"

	"github.com/nummus/payoffscript/pkg/types"
)

// Sharp evaluates a product's statement trees directly, without going
// through pkg/compiler/pkg/vm (spec §4.9: "for systems that skip
// compilation"). It implements exactly the same semantics as pkg/vm,
// including the corrected Pays accumulation and Smooth cascade, so a host
// can choose either path without observing a difference.
//
// The zero value is a usable evaluator with logging disabled. Use New for
// an evaluator configured through Option.
type Sharp struct {
	Logger *slog.Logger
}

// EvalEvent runs one event's statements against state in source order.
func (s Sharp) EvalEvent(ev *types.Event, state *State) error {
	if s.Logger != nil {
		s.Logger.Debug("evaluating event", "date", ev.Date, "stmts", len(ev.Stmts))
	}
	for _, stmt := range ev.Stmts {
		if err := sharpStatement(stmt, state); err != nil {
			return err
		}
	}
	return nil
}

func sharpStatement(n *types.Node, state *State) error {
	switch n.Kind {
	case types.KindAssign:
		v, err := sharpExpr(n.Rhs(), state)
		if err != nil {
			return err
		}
		state.Variables[n.Lhs().Index] = v
	case types.KindPays:
		v, err := sharpExpr(n.Rhs(), state)
		if err != nil {
			return err
		}
		state.Variables[n.Lhs().Index] += v / state.Scen.Numeraire()
	case types.KindIf:
		cond, err := sharpBool(n.Cond(), state)
		if err != nil {
			return err
		}
		stmts := n.ThenStmts()
		if !cond {
			stmts = n.ElseStmts()
		}
		for _, s := range stmts {
			if err := sharpStatement(s, state); err != nil {
				return err
			}
		}
	case types.KindCollect:
		for _, s := range n.Args {
			if err := sharpStatement(s, state); err != nil {
				return err
			}
		}
	}
	return nil
}

func sharpExpr(n *types.Node, state *State) (float64, error) {
	if n.IsConst {
		return n.ConstVal, nil
	}
	switch n.Kind {
	case types.KindConst:
		return n.ConstVal, nil
	case types.KindVar:
		return state.Variables[n.Index], nil
	case types.KindSpot:
		return state.Scen.Spot(), nil
	case types.KindUplus:
		return sharpExpr(n.Lhs(), state)
	case types.KindUminus:
		v, err := sharpExpr(n.Lhs(), state)
		return -v, err
	case types.KindLog:
		v, err := sharpExpr(n.Lhs(), state)
		return math.Log(v), err
	case types.KindSqrt:
		v, err := sharpExpr(n.Lhs(), state)
		return math.Sqrt(v), err
	case types.KindAdd, types.KindSub, types.KindMult, types.KindDiv, types.KindPow, types.KindMin, types.KindMax:
		a, err := sharpExpr(n.Lhs(), state)
		if err != nil {
			return 0, err
		}
		b, err := sharpExpr(n.Rhs(), state)
		if err != nil {
			return 0, err
		}
		return sharpBinary(n.Kind, a, b), nil
	case types.KindSmooth:
		x, err := sharpExpr(n.Args[0], state)
		if err != nil {
			return 0, err
		}
		vPos, err := sharpExpr(n.Args[1], state)
		if err != nil {
			return 0, err
		}
		vNeg, err := sharpExpr(n.Args[2], state)
		if err != nil {
			return 0, err
		}
		eps, err := sharpExpr(n.Args[3], state)
		if err != nil {
			return 0, err
		}
		return smoothBlend(x, vPos, vNeg, eps), nil
	}
	return 0, nil
}

func sharpBinary(kind types.Kind, a, b float64) float64 {
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
		return math.Min(a, b)
	case types.KindMax:
		return math.Max(a, b)
	default:
		return 0
	}
}

// sharpBool evaluates a boolean-family node with short-circuit And/Or
// (spec §4.9: "visit the left child first and skip the right only when the
// outcome is determined").
func sharpBool(n *types.Node, state *State) (bool, error) {
	switch n.Kind {
	case types.KindTrue:
		return true, nil
	case types.KindFalse:
		return false, nil
	case types.KindNot:
		v, err := sharpBool(n.Lhs(), state)
		return !v, err
	case types.KindAnd:
		l, err := sharpBool(n.Lhs(), state)
		if err != nil || !l {
			return false, err
		}
		return sharpBool(n.Rhs(), state)
	case types.KindOr:
		l, err := sharpBool(n.Lhs(), state)
		if err != nil || l {
			return true, err
		}
		return sharpBool(n.Rhs(), state)
	case types.KindEqual:
		v, err := sharpExpr(n.Lhs(), state)
		return v == 0, err
	case types.KindSup:
		v, err := sharpExpr(n.Lhs(), state)
		return v > 0, err
	case types.KindSupEqual:
		v, err := sharpExpr(n.Lhs(), state)
		return v >= 0, err
	}
	return false, nil
}

// smoothBlend duplicates pkg/vm's corrected three-case cascade (spec
// §4.8/§4.10) so the tree and bytecode evaluators agree bit-for-bit.
func smoothBlend(x, vPos, vNeg, eps float64) float64 {
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
