// Package ir is the bytecode backend IR that the code generator
// lowers the script AST into, and that the jit package links and
// runs. It stands in for the LLVM-flavored "optimizing backend"
// vocabulary of the compiled-map pipeline: our bytecode chunk is the
// backend IR, a peephole pass over it is the optimizer, and the VM
// executor is the linker+JIT. Grounded on funxy's internal/vm package
// (chunk.go/opcodes.go/value.go), trimmed to Hatchet's closed type
// system (§ compiler/types.rs: Void, f64, bool, i64, Context, Atom,
// Entity, String, Array, Vec, Object).
package ir

import "github.com/leops/hatchet/internal/atom"

// Kind is the closed set of runtime value types a script expression
// can carry.
type Kind int

const (
	KindVoid Kind = iota
	KindNumber
	KindBool
	KindString
	KindAtom
	KindEntity
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindNumber:
		return "f64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindAtom:
		return "atom"
	case KindEntity:
		return "entity"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "?"
	}
}

// Value is a tagged runtime value: the VM's stack, constant pool, and
// local-variable slots all hold Values.
type Value struct {
	Kind   Kind
	Number float64
	Bool   bool
	Str    string
	Atom   atom.Atom
	Array  []Value
	Object map[string]Value
}

// Void is the unit value produced by statements with no result.
var Void = Value{Kind: KindVoid}

// NumberValue wraps a float64.
func NumberValue(v float64) Value { return Value{Kind: KindNumber, Number: v} }

// BoolValue wraps a bool.
func BoolValue(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// StringValue wraps a string.
func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }

// AtomValue wraps an interned atom.
func AtomValue(v atom.Atom) Value { return Value{Kind: KindAtom, Atom: v} }

// EntityValue wraps an entity reference by its targetname atom.
func EntityValue(v atom.Atom) Value { return Value{Kind: KindEntity, Atom: v} }

// Truthy reports whether v is considered true in a boolean context.
// Numbers are truthy when non-zero; the empty string is falsy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number != 0
	case KindString:
		return v.Str != ""
	case KindVoid:
		return false
	default:
		return true
	}
}
