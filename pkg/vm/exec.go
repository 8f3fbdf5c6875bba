package vm

import (
	"fmt"
	"math"
)

// Numeraire is the minimal scenario view the executor needs: the spot
// price and the numeraire used to discount Pays statements, both for the
// event currently being executed.
type Numeraire interface {
	Spot() float64
	Numeraire() float64
}

// machine is a two-stack interpreter over one event's NodeStream, grounded
// on daios-ai-msg's vm struct (growable slice, push/pop/top).
type machine struct {
	code      []int32
	consts    []float64
	variables []float64
	scen      Numeraire

	data  []float64
	dsp   int
	bools []bool
	bsp   int
}

func (m *machine) pushData(v float64) {
	if m.dsp >= len(m.data) {
		m.data = append(m.data, v)
	} else {
		m.data[m.dsp] = v
	}
	m.dsp++
}

func (m *machine) popData() float64 {
	m.dsp--
	return m.data[m.dsp]
}

func (m *machine) pushBool(b bool) {
	if m.bsp >= len(m.bools) {
		m.bools = append(m.bools, b)
	} else {
		m.bools[m.bsp] = b
	}
	m.bsp++
}

func (m *machine) popBool() bool {
	m.bsp--
	return m.bools[m.bsp]
}

// Exec runs the event's NodeStream against variables and scen, starting
// at ip=0 and stopping at the end of the stream. It returns the final
// data/bool stack depths, which must both be zero for a well-formed
// program emitted by pkg/compiler (spec §8's "bytecode well-formedness"
// property).
func Exec(code []int32, consts []float64, variables []float64, scen Numeraire) (dataDepth, boolDepth int, err error) {
	m := &machine{code: code, consts: consts, variables: variables, scen: scen}
	if err := m.run(0, len(code)); err != nil {
		return m.dsp, m.bsp, err
	}
	return m.dsp, m.bsp, nil
}

func (m *machine) run(ip, end int) error {
	for ip < end {
		op := Opcode(m.code[ip])
		ip++
		switch op {
		case OpConst:
			m.pushData(m.consts[m.code[ip]])
			ip++
		case OpSpot:
			m.pushData(m.scen.Spot())
		case OpVar:
			m.pushData(m.variables[m.code[ip]])
			ip++
		case OpTrue:
			m.pushBool(true)
		case OpFalse:
			m.pushBool(false)

		case OpAdd:
			b, a := m.popData(), m.popData()
			m.pushData(a + b)
		case OpSub:
			b, a := m.popData(), m.popData()
			m.pushData(a - b)
		case OpMult:
			b, a := m.popData(), m.popData()
			m.pushData(a * b)
		case OpDiv:
			b, a := m.popData(), m.popData()
			m.pushData(a / b)
		case OpPow:
			b, a := m.popData(), m.popData()
			m.pushData(math.Pow(a, b))

		case OpAddConst:
			m.pushData(m.popData() + m.consts[m.code[ip]])
			ip++
		case OpSubConst:
			m.pushData(m.popData() - m.consts[m.code[ip]])
			ip++
		case OpConstSub:
			m.pushData(m.consts[m.code[ip]] - m.popData())
			ip++
		case OpMultConst:
			m.pushData(m.popData() * m.consts[m.code[ip]])
			ip++
		case OpDivConst:
			m.pushData(m.popData() / m.consts[m.code[ip]])
			ip++
		case OpConstDiv:
			m.pushData(m.consts[m.code[ip]] / m.popData())
			ip++
		case OpPowConst:
			m.pushData(math.Pow(m.popData(), m.consts[m.code[ip]]))
			ip++
		case OpConstPow:
			m.pushData(math.Pow(m.consts[m.code[ip]], m.popData()))
			ip++

		case OpMin2:
			b, a := m.popData(), m.popData()
			m.pushData(math.Min(a, b))
		case OpMin2Const:
			m.pushData(math.Min(m.popData(), m.consts[m.code[ip]]))
			ip++
		case OpMax2:
			b, a := m.popData(), m.popData()
			m.pushData(math.Max(a, b))
		case OpMax2Const:
			m.pushData(math.Max(m.popData(), m.consts[m.code[ip]]))
			ip++

		case OpUminus:
			m.pushData(-m.popData())
		case OpLog:
			m.pushData(math.Log(m.popData()))
		case OpSqrt:
			m.pushData(math.Sqrt(m.popData()))

		case OpAssign:
			m.variables[m.code[ip]] = m.popData()
			ip++
		case OpAssignConst:
			k, i := m.code[ip], m.code[ip+1]
			m.variables[i] = m.consts[k]
			ip += 2
		case OpPays:
			v := m.popData()
			m.variables[m.code[ip]] += v / m.scen.Numeraire()
			ip++
		case OpPaysConst:
			k, i := m.code[ip], m.code[ip+1]
			m.variables[i] += m.consts[k] / m.scen.Numeraire()
			ip += 2

		case OpIf:
			endTrue := int(m.code[ip])
			ip++
			if !m.popBool() {
				ip = endTrue
			}
		case OpIfElse:
			endTrue, endFalse := int(m.code[ip]), int(m.code[ip+1])
			ip += 2
			if m.popBool() {
				if err := m.run(ip, endTrue); err != nil {
					return err
				}
				ip = endFalse
			} else {
				ip = endTrue
			}
		case OpSmooth:
			eps := m.popData()
			vNeg := m.popData()
			vPos := m.popData()
			x := m.popData()
			m.pushData(smoothBlend(x, vPos, vNeg, eps))

		case OpEqual:
			m.pushBool(m.popData() == 0)
		case OpSup:
			m.pushBool(m.popData() > 0)
		case OpSupEqual:
			m.pushBool(m.popData() >= 0)
		case OpAnd:
			b, a := m.popBool(), m.popBool()
			m.pushBool(a && b)
		case OpOr:
			b, a := m.popBool(), m.popBool()
			m.pushBool(a || b)
		case OpNot:
			m.pushBool(!m.popBool())

		default:
			return fmt.Errorf("vm: unknown opcode %d at ip=%d", op, ip-1)
		}
	}
	return nil
}

// smoothBlend implements spec §4.8/§4.10's three-case piecewise cascade:
// vNeg below -eps/2, vPos above +eps/2, linear interpolation in between.
// This is the single correct cascade spec §9 calls for, replacing the
// source's duplicated-condition variant.
func smoothBlend(x, vPos, vNeg, eps float64) float64 {
	halfEps := eps / 2
	switch {
	case x < -halfEps:
		return vNeg
	case x > halfEps:
		return vPos
	default:
		return vNeg + 0.5*(vPos-vNeg)*(x+halfEps)/halfEps
	}
}
