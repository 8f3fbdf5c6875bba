package scenario

import (
	"math"

	"github.com/nummus/payoffscript/pkg/types"
)

// PathSource produces one Scenario per call, consuming randomness from a
// RandomGenerator. BlackScholes is the in-process default; WasmSource
// (wasmsource.go) is the external-collaborator alternative spec §1
// describes ("Monte-Carlo driver... specified only at their interface").
type PathSource interface {
	NextPath(gen RandomGenerator) (*Scenario, error)
}

// BlackScholes simulates a single risk-neutral lognormal underlying under
// a flat rate and volatility, discounting by the continuously-compounded
// numeraire exp(rate*t). Dates are time-to-event in years from today, in
// product order (types.Date).
type BlackScholes struct {
	Dates []types.Date
	Spot0 float64
	Vol   float64
	Rate  float64
}

// NextPath draws one lognormal path and returns the corresponding
// Scenario, one (spot, numeraire) pair per date.
func (m *BlackScholes) NextPath(gen RandomGenerator) (*Scenario, error) {
	sc := New(len(m.Dates))
	spot := m.Spot0
	var t float64
	for i, date := range m.Dates {
		dt := float64(date) - t
		if dt > 0 {
			drift := (m.Rate - 0.5*m.Vol*m.Vol) * dt
			diffusion := m.Vol * math.Sqrt(dt) * gen.NormalFloat64()
			spot *= math.Exp(drift + diffusion)
			t = float64(date)
		}
		sc.Set(i, spot, math.Exp(m.Rate*t))
	}
	return sc, nil
}
