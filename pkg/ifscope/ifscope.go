// Package ifscope implements the if-scope analyzer (spec §4.4): a walk
// that records, on every If node, the set of variables mutated somewhere
// under it (directly or through a nested If), and surfaces the deepest
// observed If nesting so the fuzzy evaluator can size its per-variable
// save-slot grid.
package ifscope

import (
	"sort"

	"github.com/nummus/payoffscript/pkg/types"
)

// varSet is an insertion-order-agnostic set of variable indices; callers
// sort it before storing it on a node so AffectedVars is deterministic.
type varSet map[int]bool

// Analyzer runs the if-scope walk over a sequence of events and tracks
// the deepest nesting depth observed across all of them.
type Analyzer struct {
	stack        []varSet
	depth        int
	maxNestedIfs int
}

// Analyze walks every statement tree of every event, writing AffectedVars
// on every If node it finds, and returns the maximum If-nesting depth
// observed across the whole product.
func Analyze(events []*types.Event) int {
	a := &Analyzer{}
	for _, ev := range events {
		for _, stmt := range ev.Stmts {
			a.walk(stmt)
		}
	}
	return a.maxNestedIfs
}

func (a *Analyzer) recordVar(idx int) {
	if len(a.stack) == 0 {
		return
	}
	a.stack[len(a.stack)-1][idx] = true
}

func (a *Analyzer) walk(n *types.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case types.KindVar:
		a.recordVar(n.Index)
		return
	case types.KindAssign, types.KindPays:
		a.recordVar(n.Args[0].Index)
		a.walk(n.Args[1])
		return
	case types.KindIf:
		a.stack = append(a.stack, varSet{})
		a.depth++
		if a.depth > a.maxNestedIfs {
			a.maxNestedIfs = a.depth
		}

		a.walk(n.Cond())
		for _, s := range n.ThenStmts() {
			a.walk(s)
		}
		for _, s := range n.ElseStmts() {
			a.walk(s)
		}

		top := a.stack[len(a.stack)-1]
		a.stack = a.stack[:len(a.stack)-1]
		a.depth--

		n.AffectedVars = sortedKeys(top)
		for idx := range top {
			a.recordVar(idx)
		}
		return
	default:
		for _, arg := range n.Args {
			a.walk(arg)
		}
	}
}

func sortedKeys(s varSet) []int {
	if len(s) == 0 {
		return nil
	}
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
