package interval

import (
	"fmt"
	"sort"
)

// Domain is a normalized set of disjoint, non-adjacent Intervals: the
// reachable value-set the domain processor (spec §4.5) attaches to every
// expression and variable node. Domains are immutable; every operation
// returns a new, normalized Domain.
type Domain struct {
	Intervals []Interval
}

// Empty returns the domain containing no values.
func Empty() Domain { return Domain{} }

// All returns (−∞, +∞).
func All() Domain { return Domain{Intervals: []Interval{{LB: NegInfBound(), RB: PosInfBound()}}} }

// Singleton returns the domain containing exactly v.
func Singleton(v float64) Domain { return Domain{Intervals: []Interval{SingletonInterval(v)}} }

// NonNegative returns [0, +∞).
func NonNegative() Domain { return Domain{Intervals: []Interval{{LB: Point(0), RB: PosInfBound()}}} }

// Positive returns (0, +∞).
func Positive() Domain {
	return Domain{Intervals: []Interval{{LB: FiniteBound(0, false), RB: PosInfBound()}}}
}

// NonPositive returns (−∞, 0].
func NonPositive() Domain {
	return Domain{Intervals: []Interval{{LB: NegInfBound(), RB: Point(0)}}}
}

// FromInterval returns the domain containing exactly the given interval.
func FromInterval(iv Interval) Domain {
	if iv.empty() {
		return Empty()
	}
	return Domain{Intervals: []Interval{iv}}
}

// FromIntervals builds a normalized domain from an arbitrary interval set.
func FromIntervals(ivs []Interval) Domain {
	return normalize(ivs)
}

func normalize(ivs []Interval) Domain {
	var clean []Interval
	for _, iv := range ivs {
		if !iv.empty() {
			clean = append(clean, iv)
		}
	}
	if len(clean) == 0 {
		return Domain{}
	}
	sort.Slice(clean, func(i, j int) bool { return leftLess(clean[i].LB, clean[j].LB) })
	merged := []Interval{clean[0]}
	for _, iv := range clean[1:] {
		last := &merged[len(merged)-1]
		if touches(last.RB, iv.LB) {
			*last = mergeInterval(*last, iv)
		} else {
			merged = append(merged, iv)
		}
	}
	return Domain{Intervals: merged}
}

// IsEmpty reports whether d contains no values.
func (d Domain) IsEmpty() bool { return len(d.Intervals) == 0 }

// String renders the domain for diagnostics (debug logging, test failures).
func (d Domain) String() string {
	if d.IsEmpty() {
		return "{}"
	}
	s := ""
	for i, iv := range d.Intervals {
		if i > 0 {
			s += " U "
		}
		s += fmt.Sprintf("%s%s, %s%s",
			sideChar(iv.LB, true), boundText(iv.LB), boundText(iv.RB), sideChar(iv.RB, false))
	}
	return s
}

func sideChar(b Bound, left bool) string {
	if left {
		if b.Kind == Finite && !b.Closed {
			return "("
		}
		return "["
	}
	if b.Kind == Finite && !b.Closed {
		return ")"
	}
	return "]"
}

func boundText(b Bound) string {
	switch b.Kind {
	case NegInf:
		return "-inf"
	case PosInf:
		return "+inf"
	default:
		return fmt.Sprintf("%g", b.Value)
	}
}

// Envelope collapses d to the single interval spanning its overall
// minimum and maximum bound, discarding any internal gaps.
func (d Domain) Envelope() Domain {
	if d.IsEmpty() {
		return d
	}
	lb := d.Intervals[0].LB
	rb := d.Intervals[0].RB
	for _, iv := range d.Intervals[1:] {
		lb = minLeft(lb, iv.LB)
		rb = maxRight(rb, iv.RB)
	}
	return FromInterval(Interval{LB: lb, RB: rb})
}

// Union returns the set-union of d and e.
func (d Domain) Union(e Domain) Domain {
	all := append(append([]Interval{}, d.Intervals...), e.Intervals...)
	return normalize(all)
}

// Intersect returns the set-intersection of d and e.
func (d Domain) Intersect(e Domain) Domain {
	var out []Interval
	for _, a := range d.Intervals {
		for _, b := range e.Intervals {
			if r, ok := intersectInterval(a, b); ok {
				out = append(out, r)
			}
		}
	}
	return normalize(out)
}

func (d Domain) pairwise(e Domain, f func(a, b Interval) Interval) Domain {
	var out []Interval
	for _, a := range d.Intervals {
		for _, b := range e.Intervals {
			out = append(out, f(a, b))
		}
	}
	return normalize(out)
}

// Add returns the domain of x+y for x in d, y in e.
func (d Domain) Add(e Domain) Domain { return d.pairwise(e, addInterval) }

// Neg returns the domain of -x for x in d.
func (d Domain) Neg() Domain {
	out := make([]Interval, len(d.Intervals))
	for i, iv := range d.Intervals {
		out[i] = negInterval(iv)
	}
	return normalize(out)
}

// Sub returns the domain of x-y for x in d, y in e.
func (d Domain) Sub(e Domain) Domain { return d.Add(e.Neg()) }

// Mult returns the domain of x*y for x in d, y in e.
func (d Domain) Mult(e Domain) Domain { return d.pairwise(e, multInterval) }

// Div returns the domain of x/y for x in d, y in e, and an error if e is
// exactly the singleton zero domain (division that can never succeed).
func (d Domain) Div(e Domain) (Domain, error) {
	if d.IsEmpty() || e.IsEmpty() {
		return Empty(), nil
	}
	if len(e.Intervals) == 1 && e.Intervals[0].isSingletonZero() {
		return Empty(), fmt.Errorf("division by a domain that is always zero")
	}
	if e.CanBeZero() {
		// y can be zero but isn't forced to be: the quotient can blow up
		// to ±∞ on the branch where y approaches zero, so the sound
		// result is the unconstrained real line.
		return All(), nil
	}
	return d.Mult(e.reciprocal()), nil
}

func (d Domain) reciprocal() Domain {
	out := make([]Interval, len(d.Intervals))
	for i, iv := range d.Intervals {
		out[i] = reciprocalInterval(iv)
	}
	return normalize(out)
}

// Min returns the domain of min(x,y) for x in d, y in e.
func (d Domain) Min(e Domain) Domain { return d.pairwise(e, dminInterval) }

// Max returns the domain of max(x,y) for x in d, y in e.
func (d Domain) Max(e Domain) Domain { return d.pairwise(e, dmaxInterval) }

// Log returns the domain of log(x) for x in d. Values of x that cannot be
// positive make log's result unconstrained there (log of a non-positive
// number is not a real payoff value; we stay sound by widening to the
// full real line on that branch instead of producing NaN).
func (d Domain) Log() Domain {
	pos := d.Intersect(Positive())
	result := Empty()
	for _, iv := range pos.Intervals {
		result = result.Union(FromInterval(logInterval(iv)))
	}
	if !d.Intersect(NonPositive()).IsEmpty() {
		result = result.Union(All())
	}
	return result
}

// Sqrt returns the domain of sqrt(x) for x in d, widening to the full real
// line on any branch where x can be negative.
func (d Domain) Sqrt() Domain {
	nonNeg := d.Intersect(NonNegative())
	result := Empty()
	for _, iv := range nonNeg.Intervals {
		result = result.Union(FromInterval(sqrtInterval(iv)))
	}
	if d.CanBeNegative(true) {
		result = result.Union(All())
	}
	return result
}

// Pow returns the domain of x^y for x in d, y in e. Exponentiation with a
// negative base is not handled precisely (fractional/irrational exponents
// make real-valuedness depend on parity in ways this abstract domain
// doesn't track); any branch with a negative base widens to the full real
// line to stay sound.
func (d Domain) Pow(e Domain) Domain {
	nonNeg := d.Intersect(NonNegative())
	result := Empty()
	for _, a := range nonNeg.Intervals {
		for _, b := range e.Intervals {
			result = result.Union(FromInterval(powInterval(a, b)))
		}
	}
	if d.CanBeNegative(true) {
		result = result.Union(All())
	}
	return result
}

// CanBeZero reports whether some value in d is exactly zero.
func (d Domain) CanBeZero() bool {
	for _, iv := range d.Intervals {
		if iv.contains(0) {
			return true
		}
	}
	return false
}

// CanBeNonZero reports whether some value in d is not zero.
func (d Domain) CanBeNonZero() bool {
	for _, iv := range d.Intervals {
		if !iv.isSingletonZero() {
			return true
		}
	}
	return false
}

func intervalExceeds(rb Bound, strict bool) bool {
	if rb.Kind == PosInf {
		return true
	}
	if strict {
		return rb.Value > 0
	}
	return rb.Value > 0 || (rb.Value == 0 && rb.Closed)
}

func intervalBelow(lb Bound, strict bool) bool {
	if lb.Kind == NegInf {
		return true
	}
	if strict {
		return lb.Value < 0
	}
	return lb.Value < 0 || (lb.Value == 0 && lb.Closed)
}

// CanBePositive reports whether some value in d is >0 (strict) or >=0.
func (d Domain) CanBePositive(strict bool) bool {
	for _, iv := range d.Intervals {
		if intervalExceeds(iv.RB, strict) {
			return true
		}
	}
	return false
}

// CanBeNegative reports whether some value in d is <0 (strict) or <=0.
func (d Domain) CanBeNegative(strict bool) bool {
	for _, iv := range d.Intervals {
		if intervalBelow(iv.LB, strict) {
			return true
		}
	}
	return false
}

// ZeroIsDiscrete reports whether zero, if reachable at all, is only
// reachable as an isolated point rather than as part of a continuous
// sub-interval — the condition under which a comparison against zero can
// be treated as a discrete (non-smoothable) event by the fuzzy evaluator.
func (d Domain) ZeroIsDiscrete() bool {
	found := false
	for _, iv := range d.Intervals {
		if !iv.contains(0) {
			continue
		}
		if !iv.isSingletonZero() {
			return false
		}
		found = true
	}
	return found
}

// SmallestPosLb returns the left bound of the leftmost sub-interval that
// lies entirely right of zero (strictly right if strict), and whether one
// exists.
func (d Domain) SmallestPosLb(strict bool) (float64, bool) {
	for _, iv := range d.Intervals {
		if entirelyRightOfZero(iv.LB, strict) {
			return iv.LB.numeric(), true
		}
	}
	return 0, false
}

// BiggestNegRb returns the right bound of the rightmost sub-interval that
// lies entirely left of zero (strictly left if strict), and whether one
// exists.
func (d Domain) BiggestNegRb(strict bool) (float64, bool) {
	for i := len(d.Intervals) - 1; i >= 0; i-- {
		iv := d.Intervals[i]
		if entirelyLeftOfZero(iv.RB, strict) {
			return iv.RB.numeric(), true
		}
	}
	return 0, false
}

func entirelyRightOfZero(lb Bound, strict bool) bool {
	if lb.Kind != Finite {
		return false
	}
	if strict {
		return lb.Value > 0 || (lb.Value == 0 && !lb.Closed)
	}
	return lb.Value >= 0
}

func entirelyLeftOfZero(rb Bound, strict bool) bool {
	if rb.Kind != Finite {
		return false
	}
	if strict {
		return rb.Value < 0 || (rb.Value == 0 && !rb.Closed)
	}
	return rb.Value <= 0
}
