// Package constcond implements the const-condition eliminator (spec §4.6):
// a tree rewriter that replaces always-true/always-false boolean nodes
// with True/False leaves, and always-true/always-false If nodes with a
// Collect of the branch that survives.
package constcond

import "github.com/nummus/payoffscript/pkg/types"

// Process rewrites every statement tree of every event of product in
// place, eliminating constant conditions. It is safe to call before or
// after indexing; it only touches AlwaysTrue/AlwaysFalse-annotated nodes.
func Process(product *types.Product) {
	for _, ev := range product.Events {
		for i, stmt := range ev.Stmts {
			ev.Stmts[i] = rewriteStatement(stmt)
		}
	}
}

// rewriteStatement returns the node that should occupy stmt's slot after
// rewriting, recursing into whatever subtree takes its place.
func rewriteStatement(n *types.Node) *types.Node {
	switch n.Kind {
	case types.KindIf:
		if n.AlwaysTrue {
			return rewriteStatement(types.NewCollect(n.Position, rewriteStatements(n.ThenStmts())))
		}
		if n.AlwaysFalse {
			return rewriteStatement(types.NewCollect(n.Position, rewriteStatements(n.ElseStmts())))
		}
		rewriteCond(n.Cond())
		thenStmts := rewriteStatements(n.ThenStmts())
		elseStmts := rewriteStatements(n.ElseStmts())
		out := types.NewIf(n.Position, n.Cond(), thenStmts, elseStmts)
		out.AffectedVars = n.AffectedVars
		return out
	case types.KindCollect:
		n.Args = rewriteStatements(n.Args)
		return n
	default: // Assign, Pays: RHS may itself contain no boolean subtrees
		// that need top-level replacement (conditions only appear under
		// If), so these are left as-is.
		return n
	}
}

func rewriteStatements(stmts []*types.Node) []*types.Node {
	if len(stmts) == 0 {
		return nil
	}
	out := make([]*types.Node, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, rewriteStatement(s))
	}
	return out
}

// rewriteCond replaces n's children in place with True/False wherever
// AlwaysTrue/AlwaysFalse was set by the domain processor, recursing into
// Not/And/Or so a constant buried under several layers of logic still
// collapses.
func rewriteCond(n *types.Node) {
	switch n.Kind {
	case types.KindNot, types.KindAnd, types.KindOr:
		for i, child := range n.Args {
			n.Args[i] = collapseIfConst(child)
		}
	}
}

func collapseIfConst(n *types.Node) *types.Node {
	if n.AlwaysTrue {
		return types.NewNode(types.KindTrue, n.Position)
	}
	if n.AlwaysFalse {
		return types.NewNode(types.KindFalse, n.Position)
	}
	rewriteCond(n)
	return n
}
