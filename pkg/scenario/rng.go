package scenario

import (
	"math/rand"

	"github.com/nummus/payoffscript/pkg/types"
)

// RandomGenerator produces the draws a PathSource consumes to simulate one
// path. SkipAhead must deterministically advance the generator's state by
// n draws, which is what lets pkg/runner partition the path sequence
// across workers without any synchronization (spec §5). Generators that
// cannot do this return ErrRandomGeneratorNotSkippable.
type RandomGenerator interface {
	NormalFloat64() float64
	SkipAhead(n int64) error
}

// StdGenerator is a RandomGenerator backed by math/rand, seeded
// deterministically so the same seed and partitioning scheme always
// reproduce the same paths (spec §5's reproducibility guarantee).
type StdGenerator struct {
	rnd *rand.Rand
}

// NewStdGenerator seeds a StdGenerator.
func NewStdGenerator(seed int64) *StdGenerator {
	return &StdGenerator{rnd: rand.New(rand.NewSource(seed))}
}

// NormalFloat64 draws one standard-normal sample.
func (g *StdGenerator) NormalFloat64() float64 {
	return g.rnd.NormFloat64()
}

// SkipAhead advances the generator by n draws by discarding them. math/rand
// exposes no jump-ahead primitive, so this is O(n); deterministic
// partitioning only needs the result to be reproducible, not O(1).
func (g *StdGenerator) SkipAhead(n int64) error {
	for i := int64(0); i < n; i++ {
		g.rnd.NormFloat64()
	}
	return nil
}

// NonSkippable wraps a RandomGenerator whose underlying source cannot
// deterministically jump ahead (e.g. a hardware RNG or an external WASM
// model's internal state machine), and always refuses SkipAhead per spec
// §5/§6's RandomGeneratorNotSkippable contract.
type NonSkippable struct {
	RandomGenerator
}

// SkipAhead always fails for a non-skippable source.
func (NonSkippable) SkipAhead(n int64) error {
	return types.NewError(types.ErrRandomGeneratorNotSkippable,
		"random generator does not support deterministic skip-ahead")
}
