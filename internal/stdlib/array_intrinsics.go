package stdlib

import "github.com/leops/hatchet/internal/ir"

// registerArrayIntrinsics declares the two internal-only externals
// the code generator's Iterator lowering (§4.4.2) calls through for
// every `for x in arr` loop. The spec's backend picks vec_len.T/
// vec_get.T (Vec) or a fixed-length GEP (Array) depending on the
// static TypeId of arr; this module has no separate static type
// checker ahead of code generation (see DESIGN.md), so iteration
// always goes through one runtime-length lookup that is correct for
// both shapes — a fixed-length array is just a Vec whose length
// happens to be known at construction time.
func (r *Registry) registerArrayIntrinsics() {
	r.register(&External{Name: "__array_len", Arity: 1, Attrs: ReadOnly, Impl: vecLen})
	r.register(&External{Name: "__array_get", Arity: 2, Attrs: ReadOnly, Impl: vecGet})
	r.register(&External{Name: "range", Arity: 2, Attrs: ReadNone, Impl: rangeArray})
}

// rangeArray backs the `range(start, end)` sugar of §4.4.2 iterator
// specialization 1: "induction variable of type f64, step +1.0, test
// <". Rather than give the induction variable special VM-level
// treatment, the sugar is expanded eagerly into the f64 array its
// semantics describe, so the ordinary Iterator lowering (which always
// walks a runtime array via __array_len/__array_get, see that
// comment above) handles it with no special case. start >= end yields
// zero elements (§8 boundary: "range(5,0) produces zero iterations").
func rangeArray(_ Context, args []ir.Value) ir.Value {
	start, end := args[0].Number, args[1].Number
	n := 0
	for start+float64(n) < end {
		n++
	}
	elems := make([]ir.Value, n)
	for i := 0; i < n; i++ {
		elems[i] = ir.NumberValue(start + float64(i))
	}
	return ir.Value{Kind: ir.KindArray, Array: elems}
}
