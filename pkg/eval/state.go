// Package eval implements the two tree-walking evaluators (spec §4.9–§4.10):
// a sharp evaluator matching pkg/vm's bytecode semantics exactly, and a
// fuzzy evaluator that replaces booleans with a degree-of-truth in [0,1]
// for use in smoothed pricing. Both share State, the per-worker mutable
// evaluation context spec §5 requires be exclusive to one goroutine.
package eval

import "github.com/nummus/payoffscript/pkg/types"

// Numeraire is the minimal scenario view an evaluator needs for the event
// currently being executed. It mirrors pkg/vm.Numeraire so a single
// scenario.Scenario type serves both evaluators.
type Numeraire interface {
	Spot() float64
	Numeraire() float64
}

// State is the mutable state of one evaluation path: the variable vector
// plus, for the fuzzy evaluator, the per-level save-slot grid used to
// unwind an If's affected variables. A State is owned by exactly one
// goroutine for the lifetime of a path (spec §5's cloning model); it never
// needs synchronization.
type State struct {
	Variables []float64
	Scen      Numeraire

	// saveSlots[level][varIndex] holds the pre-If value of varIndex while
	// evaluating an If nested at the given level; post[level][varIndex]
	// holds the post-then value while the else-branch runs. Both are sized
	// maxNestedIfs x numVars by NewState, per spec §4.10's precondition.
	saveSlots [][]float64
	post      [][]float64
}

// NewState allocates a State for a product with the given variable count
// and maximum If-nesting depth (types.Product.NumVars/MaxNestedIfs).
func NewState(numVars, maxNestedIfs int) *State {
	slots := make([][]float64, maxNestedIfs)
	post := make([][]float64, maxNestedIfs)
	for i := range slots {
		slots[i] = make([]float64, numVars)
		post[i] = make([]float64, numVars)
	}
	return &State{
		Variables: make([]float64, numVars),
		saveSlots: slots,
		post:      post,
	}
}

// postSlots returns the post-then scratch buffer for the given If-nesting
// level.
func (s *State) postSlots(level int) []float64 {
	return s.post[level]
}

// Reset zeroes the variable vector so State can be reused across paths
// without reallocating the save-slot grid.
func (s *State) Reset() {
	for i := range s.Variables {
		s.Variables[i] = 0
	}
}

// Evaluator runs one event's statements against a State. Sharp and Fuzzy
// both implement it, letting pkg/runner pick either without knowing which
// one it's driving.
type Evaluator interface {
	EvalEvent(ev *types.Event, state *State) error
}

func defaultEps() float64 { return 0.5 }

// resolveEps returns n's own epsilon when set (spec §4.10: "if the node's
// eps is >= 0 use it, else use the evaluator's default"), else f's
// configured default, else the package fallback.
func (f Fuzzy) resolveEps(n *types.Node) float64 {
	if n.Eps >= 0 {
		return n.Eps
	}
	if f.DefaultEps > 0 {
		return f.DefaultEps
	}
	return defaultEps()
}
