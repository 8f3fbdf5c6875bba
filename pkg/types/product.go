package types

import "sort"

// Date is an event date expressed as time-to-event in years from the
// valuation date ("today"). Scenarios carry one (spot, numeraire)
// observation per event date, in product date order.
type Date float64

// Event is a single dated block of statements (spec §3). Before
// compilation Stmts holds the parsed/rewritten statement trees in source
// order. After compiler.Compile, NodeStream/ConstStream/DataStream hold the
// three parallel bytecode streams consumed by pkg/vm.
type Event struct {
	Date  Date
	Stmts []*Node

	// Populated by pkg/compiler. NodeStream alternates opcodes and inline
	// integer operands; ConstStream holds folded/referenced literal
	// values; DataStream is reserved opaque per-instruction payload (spec
	// §3) and is unused by the stack-machine opcodes this implementation
	// emits, but kept so a host embedding can attach its own annotations
	// per compiled instruction without changing the wire format.
	NodeStream  []int32
	ConstStream []float64
	DataStream  []byte
}

// Compiled reports whether Compile populated this event's bytecode streams.
func (e *Event) Compiled() bool {
	return e.NodeStream != nil
}

// Product is the ordered sequence of events plus the variable-name table
// produced by the variable indexer (spec §3). VarNames[i] is the name
// originally assigned index i; the mapping is injective and stable across
// every Var node in every event.
type Product struct {
	Events   []*Event
	VarNames []string

	// MaxNestedIfs is the deepest If nesting observed by the if-scope
	// analyzer (spec §4.4), used by the fuzzy evaluator to size its
	// per-variable save-slot grid.
	MaxNestedIfs int
}

// NumVars returns the number of distinct variables indexed in the product.
func (p *Product) NumVars() int {
	return len(p.VarNames)
}

// SortEvents orders Events by Date ascending. product.Build does not call
// it: Build sorts the merged dates itself and appends events in that order.
// Passes downstream assume the order is already correct.
func (p *Product) SortEvents() {
	sort.Slice(p.Events, func(i, j int) bool { return p.Events[i].Date < p.Events[j].Date })
}
