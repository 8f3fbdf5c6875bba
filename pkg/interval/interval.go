package interval

import "math"

// Interval is a single closed, open, or half-open range [LB, RB] over the
// extended reals.
type Interval struct {
	LB, RB Bound
}

// Of builds an Interval from two finite bounds.
func Of(lb, rb Bound) Interval { return Interval{LB: lb, RB: rb} }

// SingletonInterval builds the degenerate interval {v}.
func SingletonInterval(v float64) Interval { return Interval{LB: Point(v), RB: Point(v)} }

// empty reports whether the interval denotes no points at all (lb strictly
// after rb, or lb==rb with at least one side open).
func (iv Interval) empty() bool {
	lv, lt := leftKey(iv.LB)
	rv, rt := rightKey(iv.RB)
	c := cmpKey(lv, lt, rv, rt)
	if c > 0 {
		return true
	}
	if c == 0 {
		return !(iv.LB.Kind == Finite && iv.LB.Closed && iv.RB.Kind == Finite && iv.RB.Closed)
	}
	return false
}

// contains reports whether x lies within iv.
func (iv Interval) contains(x float64) bool {
	left := iv.LB.Kind == NegInf || x > iv.LB.Value || (x == iv.LB.Value && iv.LB.Closed)
	right := iv.RB.Kind == PosInf || x < iv.RB.Value || (x == iv.RB.Value && iv.RB.Closed)
	return left && right
}

func (iv Interval) isSingletonZero() bool {
	return iv.LB.Kind == Finite && iv.LB.Value == 0 && iv.LB.Closed &&
		iv.RB.Kind == Finite && iv.RB.Value == 0 && iv.RB.Closed
}

// touches reports whether interval a (sorted to the left) overlaps or
// abuts interval b, i.e. whether their union is itself a single interval.
func touches(aRB, bLB Bound) bool {
	if aRB.Kind == PosInf || bLB.Kind == NegInf {
		return true
	}
	va, vb := aRB.numeric(), bLB.numeric()
	if va > vb {
		return true
	}
	if va < vb {
		return false
	}
	return aRB.Closed || bLB.Closed
}

func mergeInterval(a, b Interval) Interval {
	return Interval{LB: minLeft(a.LB, b.LB), RB: maxRight(a.RB, b.RB)}
}

func intersectInterval(a, b Interval) (Interval, bool) {
	r := Interval{LB: maxLeft(a.LB, b.LB), RB: minRight(a.RB, b.RB)}
	if r.empty() {
		return Interval{}, false
	}
	return r, true
}

func addBound(a, b Bound) Bound {
	if a.Kind == NegInf || b.Kind == NegInf {
		return NegInfBound()
	}
	if a.Kind == PosInf || b.Kind == PosInf {
		return PosInfBound()
	}
	return FiniteBound(a.Value+b.Value, a.Closed && b.Closed)
}

func addInterval(a, b Interval) Interval {
	return Interval{LB: addBound(a.LB, b.LB), RB: addBound(a.RB, b.RB)}
}

func negInterval(a Interval) Interval {
	return Interval{LB: a.RB.Neg(), RB: a.LB.Neg()}
}

func multBound(a, b Bound) Bound {
	av, bv := a.numeric(), b.numeric()
	if math.IsInf(av, 0) || math.IsInf(bv, 0) {
		if av == 0 || bv == 0 {
			return FiniteBound(0, true)
		}
		if signOf(av)*signOf(bv) > 0 {
			return PosInfBound()
		}
		return NegInfBound()
	}
	return FiniteBound(av*bv, a.Closed && b.Closed)
}

func multInterval(a, b Interval) Interval {
	c1 := multBound(a.LB, b.LB)
	c2 := multBound(a.LB, b.RB)
	c3 := multBound(a.RB, b.LB)
	c4 := multBound(a.RB, b.RB)
	lb := c1
	for _, c := range []Bound{c2, c3, c4} {
		if leftLess(c, lb) {
			lb = c
		}
	}
	rb := c1
	for _, c := range []Bound{c2, c3, c4} {
		if rightLess(rb, c) {
			rb = c
		}
	}
	return Interval{LB: lb, RB: rb}
}

func invertBound(b Bound) Bound {
	switch b.Kind {
	case PosInf, NegInf:
		return FiniteBound(0, false)
	default:
		if b.Value == 0 {
			if b.Closed {
				// Reciprocal of an interval touching zero is handled by
				// the caller (Div checks CanBeZero first); this is only
				// reached for degenerate callers and is treated as
				// unbounded to stay sound.
				return PosInfBound()
			}
			return PosInfBound()
		}
		return FiniteBound(1/b.Value, b.Closed)
	}
}

func reciprocalInterval(iv Interval) Interval {
	return Interval{LB: invertBound(iv.RB), RB: invertBound(iv.LB)}
}

func minBoundValue(a, b Bound) Bound {
	av, bv := a.numeric(), b.numeric()
	switch {
	case av < bv:
		return a
	case bv < av:
		return b
	default:
		return Bound{Kind: a.Kind, Value: a.Value, Closed: a.Closed || b.Closed}
	}
}

func maxBoundValue(a, b Bound) Bound {
	av, bv := a.numeric(), b.numeric()
	switch {
	case av > bv:
		return a
	case bv > av:
		return b
	default:
		return Bound{Kind: a.Kind, Value: a.Value, Closed: a.Closed || b.Closed}
	}
}

func dminInterval(a, b Interval) Interval {
	return Interval{LB: minBoundValue(a.LB, b.LB), RB: minBoundValue(a.RB, b.RB)}
}

func dmaxInterval(a, b Interval) Interval {
	return Interval{LB: maxBoundValue(a.LB, b.LB), RB: maxBoundValue(a.RB, b.RB)}
}

func logBound(b Bound) Bound {
	switch b.Kind {
	case PosInf:
		return PosInfBound()
	case NegInf:
		return NegInfBound()
	default:
		if b.Value <= 0 {
			return NegInfBound()
		}
		return FiniteBound(math.Log(b.Value), b.Closed)
	}
}

func logInterval(iv Interval) Interval {
	return Interval{LB: logBound(iv.LB), RB: logBound(iv.RB)}
}

func sqrtBound(b Bound) Bound {
	switch b.Kind {
	case PosInf:
		return PosInfBound()
	case NegInf:
		return FiniteBound(0, true)
	default:
		if b.Value < 0 {
			return FiniteBound(0, true)
		}
		return FiniteBound(math.Sqrt(b.Value), b.Closed)
	}
}

func sqrtInterval(iv Interval) Interval {
	return Interval{LB: sqrtBound(iv.LB), RB: sqrtBound(iv.RB)}
}

func powBoundCorner(base, exp Bound) Bound {
	bv, ev := base.numeric(), exp.numeric()
	if math.IsInf(ev, 0) && bv == 1 {
		return FiniteBound(1, true)
	}
	r := math.Pow(bv, ev)
	if math.IsNaN(r) {
		return PosInfBound()
	}
	if math.IsInf(r, 1) {
		return PosInfBound()
	}
	if math.IsInf(r, -1) {
		return NegInfBound()
	}
	return FiniteBound(r, base.Closed && exp.Closed)
}

// powInterval computes a sound (possibly loose) enclosure of {x^y : x in
// base, y in exp} for a non-negative base interval, via the four corner
// evaluations. Callers must first confirm base cannot be negative.
func powInterval(base, exp Interval) Interval {
	corners := []Bound{
		powBoundCorner(base.LB, exp.LB),
		powBoundCorner(base.LB, exp.RB),
		powBoundCorner(base.RB, exp.LB),
		powBoundCorner(base.RB, exp.RB),
	}
	lb, rb := corners[0], corners[0]
	for _, c := range corners[1:] {
		if leftLess(c, lb) {
			lb = c
		}
		if rightLess(rb, c) {
			rb = c
		}
	}
	return Interval{LB: lb, RB: rb}
}
