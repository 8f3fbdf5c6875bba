package eval

import (
	"log/slog"

	"github.com/nummus/payoffscript/pkg/types"
)

// ifThresholdEps bounds how close a branch's degree of truth must be to 0
// or 1 before the fuzzy evaluator treats it as a sharp decision and skips
// blending both branches (spec §4.10: "dt > 1-eps... dt < eps").
const ifThresholdEps = 1e-9

// Fuzzy evaluates a product's statement trees the way Sharp does, except
// every branch/comparison returns a degree of truth in [0,1] instead of a
// bool, and an If whose condition is not decisively true or false runs
// both branches and blends their effect on every affected variable (spec
// §4.10). Requires state's save-slot grid, sized by NewState from the
// product's NumVars/MaxNestedIfs.
//
// The zero value is a usable evaluator: DefaultEps falls back to the
// package default (0.5) and a nil Logger disables logging. Use New for an
// evaluator configured through Option.
type Fuzzy struct {
	// DefaultEps is used for any comparison node whose own eps wasn't set
	// at build time. Zero means "use the package default".
	DefaultEps float64
	Logger     *slog.Logger
}

// EvalEvent runs one event's statements against state in source order.
func (f Fuzzy) EvalEvent(ev *types.Event, state *State) error {
	if f.Logger != nil {
		f.Logger.Debug("evaluating event", "date", ev.Date, "stmts", len(ev.Stmts))
	}
	for _, s := range ev.Stmts {
		if err := f.fuzzyStatement(s, state, 0); err != nil {
			return err
		}
	}
	return nil
}

func (f Fuzzy) fuzzyStatement(n *types.Node, state *State, level int) error {
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
		return f.fuzzyIf(n, state, level)
	case types.KindCollect:
		for _, s := range n.Args {
			if err := f.fuzzyStatement(s, state, level); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f Fuzzy) fuzzyIf(n *types.Node, state *State, level int) error {
	dt, err := f.fuzzyBool(n.Cond(), state)
	if err != nil {
		return err
	}

	switch {
	case dt > 1-ifThresholdEps:
		return f.runFuzzyStmts(n.ThenStmts(), state, level)
	case dt < ifThresholdEps:
		return f.runFuzzyStmts(n.ElseStmts(), state, level)
	}

	affected := n.AffectedVars
	pre := state.saveSlots[level]
	post := state.postSlots(level)
	for _, idx := range affected {
		pre[idx] = state.Variables[idx]
	}

	if err := f.runFuzzyStmts(n.ThenStmts(), state, level+1); err != nil {
		return err
	}
	for _, idx := range affected {
		post[idx] = state.Variables[idx]
		state.Variables[idx] = pre[idx]
	}

	if err := f.runFuzzyStmts(n.ElseStmts(), state, level+1); err != nil {
		return err
	}
	for _, idx := range affected {
		thenVal, elseVal := post[idx], state.Variables[idx]
		state.Variables[idx] = dt*thenVal + (1-dt)*elseVal
	}
	return nil
}

func (f Fuzzy) runFuzzyStmts(stmts []*types.Node, state *State, level int) error {
	for _, s := range stmts {
		if err := f.fuzzyStatement(s, state, level); err != nil {
			return err
		}
	}
	return nil
}

// fuzzyBool returns n's degree of truth in [0,1]. And/Or always evaluate
// both sides (spec §4.10's dt algebra has no short-circuit: dt is a
// product/sum, not a boolean).
func (f Fuzzy) fuzzyBool(n *types.Node, state *State) (float64, error) {
	switch n.Kind {
	case types.KindTrue:
		return 1, nil
	case types.KindFalse:
		return 0, nil
	case types.KindNot:
		v, err := f.fuzzyBool(n.Lhs(), state)
		return 1 - v, err
	case types.KindAnd:
		a, err := f.fuzzyBool(n.Lhs(), state)
		if err != nil {
			return 0, err
		}
		b, err := f.fuzzyBool(n.Rhs(), state)
		if err != nil {
			return 0, err
		}
		return a * b, nil
	case types.KindOr:
		a, err := f.fuzzyBool(n.Lhs(), state)
		if err != nil {
			return 0, err
		}
		b, err := f.fuzzyBool(n.Rhs(), state)
		if err != nil {
			return 0, err
		}
		return a + b - a*b, nil
	case types.KindEqual:
		x, err := sharpExpr(n.Lhs(), state)
		if err != nil {
			return 0, err
		}
		if n.Discrete {
			return bFly(x, n.LB, n.RB), nil
		}
		eps := f.resolveEps(n)
		return bFly(x, -eps/2, eps/2), nil
	case types.KindSup, types.KindSupEqual:
		x, err := sharpExpr(n.Lhs(), state)
		if err != nil {
			return 0, err
		}
		if n.Discrete {
			return cSpr(x, n.LB, n.RB), nil
		}
		eps := f.resolveEps(n)
		return cSpr(x, -eps/2, eps/2), nil
	}
	return 0, nil
}

// bFly is the butterfly (tent) membership function: 0 outside [lb,rb],
// rising linearly to 1 at x=0 from either side (spec §4.10's Equal fuzzy
// annotation).
func bFly(x, lb, rb float64) float64 {
	switch {
	case x <= lb || x >= rb:
		return 0
	case x < 0:
		return (x - lb) / -lb
	case x > 0:
		return (rb - x) / rb
	default:
		return 1
	}
}

// cSpr is the call-spread membership function: 0 at or below lb, rising
// linearly to 1 at rb (spec §4.10's Sup/SupEqual fuzzy annotation).
func cSpr(x, lb, rb float64) float64 {
	switch {
	case x <= lb:
		return 0
	case x >= rb:
		return 1
	default:
		return (x - lb) / (rb - lb)
	}
}
