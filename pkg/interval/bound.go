// Package interval implements the interval/domain algebra of spec §4.1: a
// Domain is a normalized, non-overlapping, non-adjacent set of Intervals
// over the extended reals, supporting the arithmetic and membership
// queries the domain processor (pkg/domainproc) needs to infer the
// reachable value-set of every expression and variable in a script.
package interval

import "math"

// BoundKind distinguishes the two infinite sentinels from a finite value.
type BoundKind int

const (
	NegInf BoundKind = iota
	Finite
	PosInf
)

// Bound is one endpoint of an Interval. Closed is only meaningful when
// Kind is Finite. Bounds are direction-aware: the same finite value used as
// a left endpoint or a right endpoint sorts differently depending on
// Closed (spec §4.1 — "a left bound of Finite(0, open) lies strictly right
// of Finite(0, closed) when used as a left bound").
type Bound struct {
	Kind   BoundKind
	Value  float64
	Closed bool
}

// NegInfBound returns the −∞ sentinel.
func NegInfBound() Bound { return Bound{Kind: NegInf} }

// PosInfBound returns the +∞ sentinel.
func PosInfBound() Bound { return Bound{Kind: PosInf} }

// FiniteBound returns a finite bound at v, open or closed.
func FiniteBound(v float64, closed bool) Bound { return Bound{Kind: Finite, Value: v, Closed: closed} }

// Point returns a closed finite bound at v (usable as either endpoint of a
// singleton interval).
func Point(v float64) Bound { return FiniteBound(v, true) }

// Neg returns the bound reflected about zero; infinities flip sign,
// finite bounds negate their value and keep their openness.
func (b Bound) Neg() Bound {
	switch b.Kind {
	case NegInf:
		return PosInfBound()
	case PosInf:
		return NegInfBound()
	default:
		return FiniteBound(-b.Value, b.Closed)
	}
}

// numeric returns the bound's position on the real line, using ±∞ for the
// infinite sentinels, for use in ordering and arithmetic.
func (b Bound) numeric() float64 {
	switch b.Kind {
	case NegInf:
		return math.Inf(-1)
	case PosInf:
		return math.Inf(1)
	default:
		return b.Value
	}
}

// leftKey/rightKey map a bound to a (value, tiebreak) pair that sorts
// correctly depending on whether the bound is being used as the left or
// right endpoint of an interval. At equal value, a closed left bound sorts
// before an open one (it reaches further left); a closed right bound sorts
// after an open one (it reaches further right).
func leftKey(b Bound) (float64, int) {
	v := b.numeric()
	if b.Kind != Finite || b.Closed {
		return v, 0
	}
	return v, 1
}

func rightKey(b Bound) (float64, int) {
	v := b.numeric()
	if b.Kind != Finite || b.Closed {
		return v, 1
	}
	return v, 0
}

func cmpKey(v1 float64, t1 int, v2 float64, t2 int) int {
	if v1 < v2 {
		return -1
	}
	if v1 > v2 {
		return 1
	}
	if t1 < t2 {
		return -1
	}
	if t1 > t2 {
		return 1
	}
	return 0
}

// leftLess reports whether a, used as a left bound, sorts before b.
func leftLess(a, b Bound) bool {
	v1, t1 := leftKey(a)
	v2, t2 := leftKey(b)
	return cmpKey(v1, t1, v2, t2) < 0
}

// rightLess reports whether a, used as a right bound, sorts before b.
func rightLess(a, b Bound) bool {
	v1, t1 := rightKey(a)
	v2, t2 := rightKey(b)
	return cmpKey(v1, t1, v2, t2) < 0
}

func maxLeft(a, b Bound) Bound {
	if leftLess(a, b) {
		return b
	}
	return a
}

func minLeft(a, b Bound) Bound {
	if leftLess(a, b) {
		return a
	}
	return b
}

func maxRight(a, b Bound) Bound {
	if rightLess(a, b) {
		return b
	}
	return a
}

func minRight(a, b Bound) Bound {
	if rightLess(a, b) {
		return a
	}
	return b
}

func signOf(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
