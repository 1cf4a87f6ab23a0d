package stdlib

import (
	"github.com/leops/hatchet/internal/ir"
)

// genericTypes is the six-type set §4.5 specializes vec_len/vec_get/eq
// over: "T ∈ {f64,bool,i64,Atom,Entity,String}". An LLVM backend emits
// one monomorphized symbol per T; our bytecode VM carries a dynamic
// Kind tag on every Value, so every specialization shares one Go
// implementation and differs only in the registered symbol name the
// code generator resolves against (kept because §4.5 calls out each
// specialization as "a separate symbol" the generator's externals
// registry must be able to look up by name, e.g. "eq.f64").
var genericTypes = []string{"f64", "bool", "i64", "Atom", "Entity", "String"}

// registerGenerics declares the vec_len.T/vec_get.T/eq.T families.
func (r *Registry) registerGenerics() {
	for _, t := range genericTypes {
		r.register(&External{Name: "vec_len." + t, Arity: 1, Attrs: ReadOnly, Impl: vecLen})
		r.register(&External{Name: "vec_get." + t, Arity: 2, Attrs: ReadOnly, Impl: vecGet})
		r.register(&External{Name: "eq." + t, Arity: 2, Attrs: ReadNone, Impl: valuesEqual})
	}
}

func vecLen(_ Context, args []ir.Value) ir.Value {
	return ir.NumberValue(float64(len(args[0].Array)))
}

func vecGet(_ Context, args []ir.Value) ir.Value {
	idx := int(args[1].Number)
	arr := args[0].Array
	if idx < 0 || idx >= len(arr) {
		fail("vec_get", "index %d out of range (len %d)", idx, len(arr))
	}
	return arr[idx]
}

func valuesEqual(_ Context, args []ir.Value) ir.Value {
	a, b := args[0], args[1]
	if a.Kind != b.Kind {
		return ir.BoolValue(false)
	}
	switch a.Kind {
	case ir.KindNumber:
		return ir.BoolValue(a.Number == b.Number)
	case ir.KindBool:
		return ir.BoolValue(a.Bool == b.Bool)
	case ir.KindString:
		return ir.BoolValue(a.Str == b.Str)
	case ir.KindAtom, ir.KindEntity:
		return ir.BoolValue(a.Atom == b.Atom)
	default:
		return ir.BoolValue(false)
	}
}
