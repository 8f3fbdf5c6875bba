// Package indexer implements the variable indexer (spec §4.3): a single
// document-order walk over every event of a product that assigns each
// distinct variable name a dense integer index on first occurrence.
package indexer

import "github.com/nummus/payoffscript/pkg/types"

// Index walks every statement tree of every event in document order,
// assigning node.Index to the next free integer the first time a name is
// seen and reusing it on every later occurrence. It returns the VarNames
// table such that VarNames[i] is the name originally assigned index i.
func Index(events []*types.Event) []string {
	indexOf := make(map[string]int)
	var names []string

	var walk func(n *types.Node)
	walk = func(n *types.Node) {
		if n == nil {
			return
		}
		if n.Kind == types.KindVar {
			idx, ok := indexOf[n.Name]
			if !ok {
				idx = len(names)
				indexOf[n.Name] = idx
				names = append(names, n.Name)
			}
			n.Index = idx
		}
		for _, a := range n.Args {
			walk(a)
		}
	}

	for _, ev := range events {
		for _, stmt := range ev.Stmts {
			walk(stmt)
		}
	}
	return names
}
