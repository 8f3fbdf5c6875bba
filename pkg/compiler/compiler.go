// Package compiler implements the bytecode compiler (spec §4.7): it emits,
// per event, three parallel streams (NodeStream, ConstStream, DataStream)
// consumed by pkg/vm's stack machine, specializing binary operators when
// one operand is a compile-time constant.
package compiler

import (
	"github.com/nummus/payoffscript/pkg/types"
	"github.com/nummus/payoffscript/pkg/vm"
)

// Compile compiles every event of product, overwriting each Event's
// NodeStream/ConstStream/DataStream. Events must already have passed
// through indexer.Index, constcond.Process and constfold.Process.
func Compile(product *types.Product) {
	for _, ev := range product.Events {
		c := &compiler{}
		for _, stmt := range ev.Stmts {
			c.statement(stmt)
		}
		ev.NodeStream = c.code
		ev.ConstStream = c.consts
		ev.DataStream = nil
	}
}

type compiler struct {
	code   []int32
	consts []float64
}

func (c *compiler) emit(op vm.Opcode, operands ...int32) {
	c.code = append(c.code, int32(op))
	c.code = append(c.code, operands...)
}

func (c *compiler) reserve(op vm.Opcode, n int) int {
	pos := len(c.code)
	c.code = append(c.code, int32(op))
	for i := 0; i < n; i++ {
		c.code = append(c.code, -1)
	}
	return pos
}

func (c *compiler) patch(slot int, value int) {
	c.code[slot] = int32(value)
}

func (c *compiler) constIndex(v float64) int32 {
	idx := len(c.consts)
	c.consts = append(c.consts, v)
	return int32(idx)
}

func (c *compiler) statement(n *types.Node) {
	switch n.Kind {
	case types.KindAssign:
		c.assignLike(n, vm.OpAssign, vm.OpAssignConst)
	case types.KindPays:
		c.assignLike(n, vm.OpPays, vm.OpPaysConst)
	case types.KindIf:
		c.ifStatement(n)
	case types.KindCollect:
		for _, s := range n.Args {
			c.statement(s)
		}
	}
}

func (c *compiler) assignLike(n *types.Node, plainOp, constOp vm.Opcode) {
	idx := int32(n.Lhs().Index)
	rhs := n.Rhs()
	if rhs.IsConst {
		c.emit(constOp, c.constIndex(rhs.ConstVal), idx)
		return
	}
	c.expr(rhs)
	c.emit(plainOp, idx)
}

func (c *compiler) ifStatement(n *types.Node) {
	c.boolean(n.Cond())
	elseStmts := n.ElseStmts()
	if len(elseStmts) == 0 {
		slot := c.reserve(vm.OpIf, 1)
		for _, s := range n.ThenStmts() {
			c.statement(s)
		}
		c.patch(slot+1, len(c.code))
		return
	}
	slot := c.reserve(vm.OpIfElse, 2)
	for _, s := range n.ThenStmts() {
		c.statement(s)
	}
	c.patch(slot+1, len(c.code))
	for _, s := range elseStmts {
		c.statement(s)
	}
	c.patch(slot+2, len(c.code))
}

// expr compiles a real-valued expression node, pushing its result onto
// the data stack.
func (c *compiler) expr(n *types.Node) {
	if n.IsConst {
		c.emit(vm.OpConst, c.constIndex(n.ConstVal))
		return
	}
	switch n.Kind {
	case types.KindVar:
		c.emit(vm.OpVar, int32(n.Index))
	case types.KindSpot:
		c.emit(vm.OpSpot)
	case types.KindUplus:
		c.expr(n.Lhs())
	case types.KindUminus:
		c.expr(n.Lhs())
		c.emit(vm.OpUminus)
	case types.KindLog:
		c.expr(n.Lhs())
		c.emit(vm.OpLog)
	case types.KindSqrt:
		c.expr(n.Lhs())
		c.emit(vm.OpSqrt)
	case types.KindAdd:
		c.commutativeBinary(n, vm.OpAdd, vm.OpAddConst)
	case types.KindMult:
		c.commutativeBinary(n, vm.OpMult, vm.OpMultConst)
	case types.KindMin:
		c.commutativeBinary(n, vm.OpMin2, vm.OpMin2Const)
	case types.KindMax:
		c.commutativeBinary(n, vm.OpMax2, vm.OpMax2Const)
	case types.KindSub:
		c.asymmetricBinary(n, vm.OpSub, vm.OpSubConst, vm.OpConstSub)
	case types.KindDiv:
		c.asymmetricBinary(n, vm.OpDiv, vm.OpDivConst, vm.OpConstDiv)
	case types.KindPow:
		c.asymmetricBinary(n, vm.OpPow, vm.OpPowConst, vm.OpConstPow)
	case types.KindSmooth:
		c.smooth(n)
	}
}

// commutativeBinary emits the const-specialized variant regardless of
// which side carries the literal, since the operator doesn't care.
func (c *compiler) commutativeBinary(n *types.Node, plainOp, constOp vm.Opcode) {
	lhs, rhs := n.Lhs(), n.Rhs()
	switch {
	case lhs.IsConst && !rhs.IsConst:
		c.expr(rhs)
		c.emit(constOp, c.constIndex(lhs.ConstVal))
	case rhs.IsConst && !lhs.IsConst:
		c.expr(lhs)
		c.emit(constOp, c.constIndex(rhs.ConstVal))
	default:
		c.expr(lhs)
		c.expr(rhs)
		c.emit(plainOp)
	}
}

// asymmetricBinary emits constOnRight ("x op k") when only the rhs is
// const, constOnLeft ("k op x") when only the lhs is const.
func (c *compiler) asymmetricBinary(n *types.Node, plainOp, constOnRight, constOnLeft vm.Opcode) {
	lhs, rhs := n.Lhs(), n.Rhs()
	switch {
	case rhs.IsConst && !lhs.IsConst:
		c.expr(lhs)
		c.emit(constOnRight, c.constIndex(rhs.ConstVal))
	case lhs.IsConst && !rhs.IsConst:
		c.expr(rhs)
		c.emit(constOnLeft, c.constIndex(lhs.ConstVal))
	default:
		c.expr(lhs)
		c.expr(rhs)
		c.emit(plainOp)
	}
}

func (c *compiler) smooth(n *types.Node) {
	c.expr(n.Args[0]) // x
	c.expr(n.Args[1]) // vPos
	c.expr(n.Args[2]) // vNeg
	c.expr(n.Args[3]) // eps
	c.emit(vm.OpSmooth)
}

// boolean compiles a boolean-valued node, pushing its result onto the
// bool stack.
func (c *compiler) boolean(n *types.Node) {
	switch n.Kind {
	case types.KindTrue:
		c.emit(vm.OpTrue)
	case types.KindFalse:
		c.emit(vm.OpFalse)
	case types.KindNot:
		c.boolean(n.Lhs())
		c.emit(vm.OpNot)
	case types.KindAnd:
		c.boolean(n.Lhs())
		c.boolean(n.Rhs())
		c.emit(vm.OpAnd)
	case types.KindOr:
		c.boolean(n.Lhs())
		c.boolean(n.Rhs())
		c.emit(vm.OpOr)
	case types.KindEqual:
		c.expr(n.Lhs())
		c.emit(vm.OpEqual)
	case types.KindSup:
		c.expr(n.Lhs())
		c.emit(vm.OpSup)
	case types.KindSupEqual:
		c.expr(n.Lhs())
		c.emit(vm.OpSupEqual)
	}
}
