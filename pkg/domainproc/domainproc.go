// Package domainproc implements the domain processor (spec §4.5): it
// infers the reachable value-set of every expression and variable using
// pkg/interval's Domain algebra, and annotates every boolean node with
// AlwaysTrue/AlwaysFalse plus, in fuzzy mode, the smoothing metadata the
// fuzzy evaluator needs (Discrete, LB, RB).
package domainproc

import (
	"fmt"
	"log/slog"

	"github.com/nummus/payoffscript/pkg/interval"
	"github.com/nummus/payoffscript/pkg/types"
)

func numeraireDomain() interval.Domain { return interval.Positive() }

// condProp is the three-valued condition property tracked for every
// boolean subtree: whether it is provably always true, always false, or
// could go either way given the inferred domains.
type condProp int

const (
	either condProp = iota
	alwaysTrue
	alwaysFalse
)

type processor struct {
	varDomains  []interval.Domain
	domainStack []interval.Domain
	fuzzy       bool
	logger      *slog.Logger
}

// Process runs the domain processor over every event of product, in event
// order, threading variable domains across events since a Product's
// variables persist across its whole lifetime. It mutates AlwaysTrue,
// AlwaysFalse and (in fuzzy mode) Discrete/LB/RB directly on the AST.
func Process(product *types.Product, fuzzy bool, logger *slog.Logger) error {
	p := &processor{
		varDomains: make([]interval.Domain, product.NumVars()),
		fuzzy:      fuzzy,
		logger:     logger,
	}
	for i := range p.varDomains {
		p.varDomains[i] = interval.Singleton(0)
	}
	for _, ev := range product.Events {
		for _, stmt := range ev.Stmts {
			if err := p.statement(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *processor) pushDomain(d interval.Domain) { p.domainStack = append(p.domainStack, d) }

func (p *processor) popDomain() interval.Domain {
	n := len(p.domainStack) - 1
	d := p.domainStack[n]
	p.domainStack = p.domainStack[:n]
	return d
}

func domainErr(n *types.Node, msg string) *types.Error {
	return types.NewPositionalError(types.ErrDomain, msg, n.Position)
}

func (p *processor) statement(n *types.Node) error {
	switch n.Kind {
	case types.KindAssign:
		if err := p.expr(n.Rhs()); err != nil {
			return err
		}
		p.varDomains[n.Lhs().Index] = p.popDomain()
		return nil
	case types.KindPays:
		if err := p.expr(n.Rhs()); err != nil {
			return err
		}
		d := p.popDomain()
		divided, err := d.Div(numeraireDomain())
		if err != nil {
			return domainErr(n, fmt.Sprintf("pays amount can never be discounted: %v", err))
		}
		idx := n.Lhs().Index
		p.varDomains[idx] = p.varDomains[idx].Add(divided)
		return nil
	case types.KindIf:
		return p.ifStatement(n)
	case types.KindCollect:
		for _, s := range n.Args {
			if err := p.statement(s); err != nil {
				return err
			}
		}
		return nil
	default:
		return domainErr(n, fmt.Sprintf("domain processor: unexpected statement kind %s", n.Kind))
	}
}

func (p *processor) ifStatement(n *types.Node) error {
	prop, err := p.cond(n.Cond())
	if err != nil {
		return err
	}
	n.AlwaysTrue = prop == alwaysTrue
	n.AlwaysFalse = prop == alwaysFalse

	switch prop {
	case alwaysTrue:
		for _, s := range n.ThenStmts() {
			if err := p.statement(s); err != nil {
				return err
			}
		}
		return nil
	case alwaysFalse:
		for _, s := range n.ElseStmts() {
			if err := p.statement(s); err != nil {
				return err
			}
		}
		return nil
	default:
		snapshot := make(map[int]interval.Domain, len(n.AffectedVars))
		for _, idx := range n.AffectedVars {
			snapshot[idx] = p.varDomains[idx]
		}
		for _, s := range n.ThenStmts() {
			if err := p.statement(s); err != nil {
				return err
			}
		}
		thenResult := make(map[int]interval.Domain, len(n.AffectedVars))
		for _, idx := range n.AffectedVars {
			thenResult[idx] = p.varDomains[idx]
			p.varDomains[idx] = snapshot[idx]
		}
		for _, s := range n.ElseStmts() {
			if err := p.statement(s); err != nil {
				return err
			}
		}
		for _, idx := range n.AffectedVars {
			p.varDomains[idx] = p.varDomains[idx].Union(thenResult[idx])
		}
		if p.logger != nil {
			p.logger.Debug("domainproc: if merged branch domains",
				slog.Int("position", n.Position), slog.Int("affectedVars", len(n.AffectedVars)))
		}
		return nil
	}
}

func (p *processor) expr(n *types.Node) error {
	switch n.Kind {
	case types.KindConst:
		p.pushDomain(interval.Singleton(n.ConstVal))
		return nil
	case types.KindVar:
		p.pushDomain(p.varDomains[n.Index])
		return nil
	case types.KindSpot:
		p.pushDomain(interval.Positive())
		return nil
	case types.KindUplus:
		if err := p.expr(n.Lhs()); err != nil {
			return err
		}
		return nil
	case types.KindUminus:
		if err := p.expr(n.Lhs()); err != nil {
			return err
		}
		p.pushDomain(p.popDomain().Neg())
		return nil
	case types.KindLog:
		if err := p.expr(n.Lhs()); err != nil {
			return err
		}
		p.pushDomain(p.popDomain().Log())
		return nil
	case types.KindSqrt:
		if err := p.expr(n.Lhs()); err != nil {
			return err
		}
		p.pushDomain(p.popDomain().Sqrt())
		return nil
	case types.KindAdd, types.KindSub, types.KindMult, types.KindDiv, types.KindPow, types.KindMin, types.KindMax:
		return p.binaryExpr(n)
	case types.KindSmooth:
		return p.smooth(n)
	default:
		return domainErr(n, fmt.Sprintf("domain processor: unexpected expression kind %s", n.Kind))
	}
}

func (p *processor) binaryExpr(n *types.Node) error {
	if err := p.expr(n.Lhs()); err != nil {
		return err
	}
	if err := p.expr(n.Rhs()); err != nil {
		return err
	}
	rhs := p.popDomain()
	lhs := p.popDomain()
	switch n.Kind {
	case types.KindAdd:
		p.pushDomain(lhs.Add(rhs))
	case types.KindSub:
		p.pushDomain(lhs.Sub(rhs))
	case types.KindMult:
		p.pushDomain(lhs.Mult(rhs))
	case types.KindDiv:
		d, err := lhs.Div(rhs)
		if err != nil {
			return domainErr(n, fmt.Sprintf("division always by zero: %v", err))
		}
		p.pushDomain(d)
	case types.KindPow:
		p.pushDomain(lhs.Pow(rhs))
	case types.KindMin:
		p.pushDomain(lhs.Min(rhs))
	case types.KindMax:
		p.pushDomain(lhs.Max(rhs))
	}
	return nil
}

func (p *processor) smooth(n *types.Node) error {
	if err := p.expr(n.Args[0]); err != nil {
		return err
	}
	xDomain := p.popDomain()
	if !xDomain.CanBeZero() || xDomain.ZeroIsDiscrete() {
		return domainErr(n, "Smooth called with discrete x")
	}
	if err := p.expr(n.Args[1]); err != nil {
		return err
	}
	vPos := p.popDomain()
	if err := p.expr(n.Args[2]); err != nil {
		return err
	}
	vNeg := p.popDomain()
	if err := p.expr(n.Args[3]); err != nil {
		return err
	}
	p.popDomain() // eps domain is unused by the result envelope

	// Spec §4.5: result domain = [min(min(vNeg),min(vPos)), max(max(vNeg),max(vPos))].
	p.pushDomain(vPos.Union(vNeg).Envelope())
	return nil
}

const defaultEps = 0.5

func nearestFlanks(d interval.Domain) (lb, rb float64) {
	lb, ok := d.BiggestNegRb(true)
	if !ok {
		lb = -defaultEps
	}
	rb, ok = d.SmallestPosLb(true)
	if !ok {
		rb = defaultEps
	}
	return lb, rb
}

func (p *processor) cond(n *types.Node) (condProp, error) {
	switch n.Kind {
	case types.KindTrue:
		return alwaysTrue, nil
	case types.KindFalse:
		return alwaysFalse, nil
	case types.KindNot:
		inner, err := p.cond(n.Lhs())
		if err != nil {
			return either, err
		}
		n.Lhs().AlwaysTrue = inner == alwaysTrue
		n.Lhs().AlwaysFalse = inner == alwaysFalse
		switch inner {
		case alwaysTrue:
			return alwaysFalse, nil
		case alwaysFalse:
			return alwaysTrue, nil
		default:
			return either, nil
		}
	case types.KindAnd:
		left, err := p.cond(n.Lhs())
		if err != nil {
			return either, err
		}
		right, err := p.cond(n.Rhs())
		if err != nil {
			return either, err
		}
		p.annotateChild(n.Lhs(), left)
		p.annotateChild(n.Rhs(), right)
		if left == alwaysTrue && right == alwaysTrue {
			return alwaysTrue, nil
		}
		if left == alwaysFalse || right == alwaysFalse {
			return alwaysFalse, nil
		}
		return either, nil
	case types.KindOr:
		left, err := p.cond(n.Lhs())
		if err != nil {
			return either, err
		}
		right, err := p.cond(n.Rhs())
		if err != nil {
			return either, err
		}
		p.annotateChild(n.Lhs(), left)
		p.annotateChild(n.Rhs(), right)
		if left == alwaysTrue || right == alwaysTrue {
			return alwaysTrue, nil
		}
		if left == alwaysFalse && right == alwaysFalse {
			return alwaysFalse, nil
		}
		return either, nil
	case types.KindEqual:
		return p.equal(n)
	case types.KindSup, types.KindSupEqual:
		return p.ordering(n)
	default:
		return either, domainErr(n, fmt.Sprintf("domain processor: unexpected boolean kind %s", n.Kind))
	}
}

func (p *processor) annotateChild(n *types.Node, prop condProp) {
	if !n.Kind.IsComparison() && n.Kind != types.KindNot && n.Kind != types.KindAnd && n.Kind != types.KindOr {
		return
	}
	n.AlwaysTrue = prop == alwaysTrue
	n.AlwaysFalse = prop == alwaysFalse
}

func (p *processor) equal(n *types.Node) (condProp, error) {
	if err := p.expr(n.Lhs()); err != nil {
		return either, err
	}
	d := p.popDomain()

	var prop condProp
	switch {
	case !d.CanBeZero():
		prop = alwaysFalse
	case !d.CanBeNonZero():
		prop = alwaysTrue
	default:
		prop = either
	}
	n.AlwaysTrue = prop == alwaysTrue
	n.AlwaysFalse = prop == alwaysFalse

	if p.fuzzy && prop == either {
		n.Discrete = d.ZeroIsDiscrete()
		if n.Discrete {
			n.LB, n.RB = nearestFlanks(d)
		}
	}
	return prop, nil
}

// orderingFlanks sets n.LB/n.RB for a discrete Sup/SupEqual comparison
// (spec §4.5). Unlike Equal, a Sup/SupEqual domain that never reaches zero
// at all is still discrete — the comparison's truth value can't be nudged
// continuously through zero because zero isn't reachable — so this has two
// cases: zero unreachable (both flanks come from the nearest sub-interval
// on either side, same as Equal's nearestFlanks) and {0} a reachable
// singleton (the bound on the condition's own side of zero pins to exactly
// 0, and only the other flank is searched).
func (p *processor) orderingFlanks(n *types.Node, d interval.Domain, strict bool) {
	if !d.CanBeZero() {
		n.LB, n.RB = nearestFlanks(d)
		return
	}
	if strict {
		n.LB = 0
		if rb, ok := d.SmallestPosLb(true); ok {
			n.RB = rb
		} else {
			n.RB = defaultEps
		}
		return
	}
	n.RB = 0
	if lb, ok := d.BiggestNegRb(true); ok {
		n.LB = lb
	} else {
		n.LB = -defaultEps
	}
}

func (p *processor) ordering(n *types.Node) (condProp, error) {
	if err := p.expr(n.Lhs()); err != nil {
		return either, err
	}
	d := p.popDomain()

	strict := n.Kind == types.KindSup
	canPos := d.CanBePositive(strict)
	canNeg := d.CanBeNegative(!strict)

	var prop condProp
	switch {
	case !canPos:
		prop = alwaysFalse
	case !canNeg:
		prop = alwaysTrue
	default:
		prop = either
	}
	n.AlwaysTrue = prop == alwaysTrue
	n.AlwaysFalse = prop == alwaysFalse

	if p.fuzzy && prop == either {
		n.Discrete = !d.CanBeZero() || d.ZeroIsDiscrete()
		if n.Discrete {
			p.orderingFlanks(n, d, strict)
		}
	}
	return prop, nil
}
