package jit

import (
	"math"

	"github.com/leops/hatchet/internal/ir"
)

// binaryAdd implements ast.OpAdd's two valid shapes (§4.4.3): numeric
// addition on f64 operands, or concat on String operands. Every other
// combination is a category-3 type error (§7) that the dynamically
// typed VM only catches at the point of execution, since this
// pipeline has no static type checker ahead of code generation (see
// DESIGN.md).
func (m *VM) binaryAdd() error {
	b, a := m.pop(), m.pop()
	switch {
	case a.Kind == ir.KindNumber && b.Kind == ir.KindNumber:
		m.push(ir.NumberValue(a.Number + b.Number))
	case a.Kind == ir.KindString && b.Kind == ir.KindString:
		m.push(ir.StringValue(a.Str + b.Str))
	default:
		return runtimeErrorf("operator + not defined for (%s, %s)", a.Kind, b.Kind)
	}
	return nil
}

// binaryArith handles the purely numeric arithmetic operators
// (§4.4.3 "Numeric: native f64 arithmetic").
func (m *VM) binaryArith(op ir.Opcode) error {
	b, a := m.pop(), m.pop()
	if a.Kind != ir.KindNumber || b.Kind != ir.KindNumber {
		return runtimeErrorf("operator %s not defined for (%s, %s)", op, a.Kind, b.Kind)
	}
	var result float64
	switch op {
	case ir.OpSub:
		result = a.Number - b.Number
	case ir.OpMul:
		result = a.Number * b.Number
	case ir.OpDiv:
		result = a.Number / b.Number
	case ir.OpMod:
		result = math.Mod(a.Number, b.Number)
	}
	m.push(ir.NumberValue(result))
	return nil
}

// bitwiseOp handles the i64-only operators (§4.4.3 "i64 gets only
// <<, >> (logical), & | ^, equality"): operands are f64-tagged Values
// that carry whole numbers, truncated to int64 for the duration of
// the bitwise op and converted back.
func (m *VM) bitwiseOp(op ir.Opcode) error {
	b, a := m.pop(), m.pop()
	if a.Kind != ir.KindNumber || b.Kind != ir.KindNumber {
		return runtimeErrorf("operator %s not defined for (%s, %s)", op, a.Kind, b.Kind)
	}
	ai, bi := int64(a.Number), int64(b.Number)
	var result int64
	switch op {
	case ir.OpBAnd:
		result = ai & bi
	case ir.OpBOr:
		result = ai | bi
	case ir.OpBXor:
		result = ai ^ bi
	case ir.OpShl:
		result = ai << uint64(bi)
	case ir.OpShr:
		result = int64(uint64(ai) >> uint64(bi))
	}
	m.push(ir.NumberValue(float64(result)))
	return nil
}

// comparisonOp implements the four ordering operators. §4.4.3 scopes
// these to f64 operands ("Comparisons on f64 emit ordered IEEE
// predicates"); Hatchet's grammar never produces a comparison between
// two non-numeric operands from a well-typed script.
func (m *VM) comparisonOp(op ir.Opcode) error {
	b, a := m.pop(), m.pop()
	if a.Kind != ir.KindNumber || b.Kind != ir.KindNumber {
		return runtimeErrorf("operator %s not defined for (%s, %s)", op, a.Kind, b.Kind)
	}
	var result bool
	switch op {
	case ir.OpLt:
		result = a.Number < b.Number
	case ir.OpLe:
		result = a.Number <= b.Number
	case ir.OpGt:
		result = a.Number > b.Number
	case ir.OpGe:
		result = a.Number >= b.Number
	}
	m.push(ir.BoolValue(result))
	return nil
}

// valuesEqual backs OpEq/OpNe: equality is defined across every Kind
// the VM carries, matching the union of specializations §4.5's
// eq.<T> generic family covers (f64, bool, i64, Atom, Entity, String)
// plus Void, which only ever equals itself.
func valuesEqual(a, b ir.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ir.KindNumber:
		return a.Number == b.Number
	case ir.KindBool:
		return a.Bool == b.Bool
	case ir.KindString:
		return a.Str == b.Str
	case ir.KindAtom, ir.KindEntity:
		return a.Atom == b.Atom
	case ir.KindVoid:
		return true
	default:
		return false
	}
}
