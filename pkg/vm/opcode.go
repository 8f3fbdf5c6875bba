// Package vm implements the bytecode instruction format and the
// stack-machine executor that consumes it (spec §4.7–§4.8). pkg/compiler
// emits programs in this format; Exec interprets them against a scenario.
package vm

// Opcode is one instruction in an event's NodeStream. Instructions are
// encoded as the opcode followed by however many inline int32 operands
// OperandCount reports for it — never a packed word, since operands here
// (constant-table indices, variable indices, jump targets) can exceed the
// 24 bits a daios-ai-msg-style packed uint32 would leave them, and a
// payoff script's bytecode is small enough that the extra words cost
// nothing measurable.
type Opcode int32

const (
	OpNop Opcode = iota

	// Leaves.
	OpConst // push constStream[operand]
	OpSpot  // push scenario spot
	OpVar   // push variables[operand]
	OpTrue  // push true onto the bool stack
	OpFalse // push false onto the bool stack

	// Arithmetic, plain (pop rhs, pop lhs, push result).
	OpAdd
	OpSub
	OpMult
	OpDiv
	OpPow

	// Arithmetic, one constant operand (pop the non-const side, combine
	// with constStream[operand], push result). Commutative ops (Add,
	// Mult, Min2, Max2) need only one such variant since side doesn't
	// matter; Sub/Div/Pow need both orderings.
	OpAddConst
	OpSubConst  // non-const - const
	OpConstSub  // const - non-const
	OpMultConst
	OpDivConst  // non-const / const
	OpConstDiv  // const / non-const
	OpPowConst  // non-const ^ const
	OpConstPow  // const ^ non-const

	// Min/Max, canonicalized to binary by the parser.
	OpMin2
	OpMin2Const
	OpMax2
	OpMax2Const

	// Unary.
	OpUminus
	OpLog
	OpSqrt

	// Statements.
	OpAssign      // pop value, variables[operand] = value
	OpAssignConst // variables[operand2] = constStream[operand1]
	OpPays        // pop value, variables[operand] += value / scen.numeraire
	OpPaysConst   // variables[operand2] += constStream[operand1] / scen.numeraire

	// Control.
	OpIf     // pop bool; if false, jump to nodeStream index operand
	OpIfElse // pop bool; if true, fall through to operand(endTrue) then jump to operand2(endFalse); if false, jump to operand(endTrue)
	OpSmooth // pop eps, vNeg, vPos, x (in that order); push the piecewise blend

	// Logic.
	OpEqual
	OpSup
	OpSupEqual
	OpAnd
	OpOr
	OpNot
)

var operandCount = map[Opcode]int{
	OpConst: 1, OpVar: 1,
	OpAddConst: 1, OpSubConst: 1, OpConstSub: 1, OpMultConst: 1,
	OpDivConst: 1, OpConstDiv: 1, OpPowConst: 1, OpConstPow: 1,
	OpMin2Const: 1, OpMax2Const: 1,
	OpAssign: 1, OpPays: 1,
	OpAssignConst: 2, OpPaysConst: 2,
	OpIf: 1, OpIfElse: 2,
}

// OperandCount reports how many inline int32 words follow op in the
// NodeStream.
func OperandCount(op Opcode) int { return operandCount[op] }

var opNames = map[Opcode]string{
	OpNop: "Nop", OpConst: "Const", OpSpot: "Spot", OpVar: "Var", OpTrue: "True", OpFalse: "False",
	OpAdd: "Add", OpSub: "Sub", OpMult: "Mult", OpDiv: "Div", OpPow: "Pow",
	OpAddConst: "AddConst", OpSubConst: "SubConst", OpConstSub: "ConstSub",
	OpMultConst: "MultConst", OpDivConst: "DivConst", OpConstDiv: "ConstDiv",
	OpPowConst: "PowConst", OpConstPow: "ConstPow",
	OpMin2: "Min2", OpMin2Const: "Min2Const", OpMax2: "Max2", OpMax2Const: "Max2Const",
	OpUminus: "Uminus", OpLog: "Log", OpSqrt: "Sqrt",
	OpAssign: "Assign", OpAssignConst: "AssignConst", OpPays: "Pays", OpPaysConst: "PaysConst",
	OpIf: "If", OpIfElse: "IfElse", OpSmooth: "Smooth",
	OpEqual: "Equal", OpSup: "Sup", OpSupEqual: "SupEqual", OpAnd: "And", OpOr: "Or", OpNot: "Not",
}

func (op Opcode) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "Unknown"
}
