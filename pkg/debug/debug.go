// Package debug renders a parsed/annotated statement tree back to a
// readable functional-form string, the same role scriptingDebugger.h's
// Debugger plays in the original implementation this scripting engine was
// distilled from: "SUP[DISCRETE,BOUNDS=-10,5]( SUB( VAR[X,0], CONST[120]
// ) )" rather than a Go %#v dump of *types.Node pointers. It has no effect
// on evaluation; it exists purely so a host can log or print what a
// product actually compiles to after every pipeline pass has rewritten it.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nummus/payoffscript/pkg/types"
)

// Node renders the subtree rooted at n in functional form, indented with
// one tab per nesting level, matching the original Debugger's layout:
// NodeKind's arguments are parenthesized and comma-separated, each on its
// own indented line.
func Node(n *types.Node) string {
	var b strings.Builder
	writeNode(&b, n, 0)
	return b.String()
}

// Product renders every statement of every event in p, labeled the way
// the original Product::debug(ostream&) labels its output ("Event: 1",
// "Statement: 1"), preceded by the variable name table.
func Product(p *types.Product) string {
	var b strings.Builder
	for i, name := range p.VarNames {
		fmt.Fprintf(&b, "Var[%d] = %s\n", i, name)
	}
	for ei, ev := range p.Events {
		fmt.Fprintf(&b, "Event: %d\n", ei+1)
		for si, stmt := range ev.Stmts {
			fmt.Fprintf(&b, "Statement: %d\n", si+1)
			b.WriteString(Node(stmt))
		}
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *types.Node, depth int) {
	prefix := strings.Repeat("\t", depth)
	b.WriteString(prefix)
	b.WriteString(tag(n))

	if len(n.Args) == 0 {
		b.WriteString("\n")
		return
	}

	b.WriteString("(\n")
	for i, arg := range n.Args {
		writeNode(b, arg, depth+1)
		if i < len(n.Args)-1 {
			b.WriteString(prefix)
			b.WriteString(",\n")
		}
	}
	b.WriteString(prefix)
	b.WriteString(")\n")
}

// tag renders a node's own label, without its children — the part the
// original Debugger appends comparison-mode/bounds and If's FIRSTELSE
// annotations to.
func tag(n *types.Node) string {
	switch n.Kind {
	case types.KindConst:
		return "CONST[" + formatFloat(n.ConstVal) + "]"
	case types.KindVar:
		return "VAR[" + n.Name + "," + strconv.Itoa(n.Index) + "]"
	case types.KindIf:
		return "IF[FIRSTELSE=" + strconv.Itoa(n.FirstElse) + "]"
	case types.KindEqual, types.KindSup, types.KindSupEqual:
		return strings.ToUpper(n.Kind.String()) + "[" + comparisonMode(n) + "]"
	default:
		return strings.ToUpper(n.Kind.String())
	}
}

// comparisonMode renders a comparison node's fuzzy annotation, matching
// the original's "CONT,EPS=..." / "DISCRETE,BOUNDS=lb,rb" suffix. A
// comparison that hasn't been through the domain processor (or was built
// for the sharp evaluator) has neither Discrete nor a meaningful Eps set,
// and renders as SHARP.
func comparisonMode(n *types.Node) string {
	if n.Discrete {
		return "DISCRETE,BOUNDS=" + formatFloat(n.LB) + "," + formatFloat(n.RB)
	}
	if n.Eps >= 0 {
		return "CONT,EPS=" + formatFloat(n.Eps)
	}
	return "SHARP"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
