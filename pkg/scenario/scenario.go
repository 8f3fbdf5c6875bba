// Package scenario implements the per-path (spot, numeraire) sequence
// spec §6 calls "Scenario input", the random generators that produce
// paths, and the WASM-hosted external stochastic-model collaborator of
// spec §1.
package scenario

// Scenario is one path's (spot, numeraire) observation sequence, one pair
// per event date, in the product's date order. Seek positions the cursor
// at a given event index; Spot/Numeraire then satisfy the Numeraire
// interfaces pkg/vm and pkg/eval require of the "current event" view.
type Scenario struct {
	Spots      []float64
	Numeraires []float64
	cursor     int
}

// New allocates a Scenario with room for n event observations.
func New(n int) *Scenario {
	return &Scenario{Spots: make([]float64, n), Numeraires: make([]float64, n)}
}

// Set records event i's (spot, numeraire) observation.
func (s *Scenario) Set(i int, spot, numeraire float64) {
	s.Spots[i] = spot
	s.Numeraires[i] = numeraire
}

// Seek positions the scenario at event i for subsequent Spot/Numeraire
// calls.
func (s *Scenario) Seek(i int) { s.cursor = i }

// Spot returns the spot observation at the currently sought event.
func (s *Scenario) Spot() float64 { return s.Spots[s.cursor] }

// Numeraire returns the numeraire observation at the currently sought
// event.
func (s *Scenario) Numeraire() float64 { return s.Numeraires[s.cursor] }

// Len reports how many event observations s holds.
func (s *Scenario) Len() int { return len(s.Spots) }
