// Package stdlib is Hatchet's standard library of externally-linked
// helpers generated code calls into: arithmetic intrinsics, entity
// CRUD, property access, and string operations (§4.5). Grounded on
// funxy's internal/evaluator/builtins*.go split — one small file per
// concern, all feeding one Builtins table keyed by name — adapted to
// Hatchet's closed six-type system instead of funxy's full object
// model.
package stdlib

import (
	"fmt"

	"github.com/leops/hatchet/internal/ir"
)

// Attr is a bitset of optimizer hints an external carries, mirroring
// LLVM-style function attributes (§4.5 "Attributes on declared
// externals").
type Attr int

const (
	// ReadNone externals never observe or mutate the Context (pure
	// arithmetic intrinsics).
	ReadNone Attr = 1 << iota
	// ReadOnly externals observe the Context's entity table but never
	// mutate it.
	ReadOnly
	// ArgMemOnly externals only touch memory reachable through their
	// pointer/handle arguments, never the Context at large.
	ArgMemOnly
)

// Fn is a standard-library implementation: it receives the execution
// context and already-evaluated arguments, and returns one Value.
// Errors (fatal per §7 category 4) are reported by panicking with a
// *Error through fail; the implementation does not return in that case.
type Fn func(ctx Context, args []ir.Value) ir.Value

// External is one declared standard-library function: its arity,
// attributes, and native implementation. The code generator only
// needs Name/Arity/Attrs to type-check call sites (§4.5); the JIT
// driver binds Impl.
type External struct {
	Name     string
	Arity    int
	Variadic bool
	Attrs    Attr
	Impl     Fn
}

// Registry is the table of every external the code generator and JIT
// driver can resolve by name, plus the generic vec_len.T/vec_get.T/eq.T
// families specialized per §4.5's six-type generic set.
type Registry struct {
	byName map[string]*External
}

// NewRegistry builds the full standard registry: intrinsics, entity
// CRUD, property access, string ops, and generic specializations.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*External)}
	r.registerIntrinsics()
	r.registerEntityOps()
	r.registerPropertyOps()
	r.registerStringOps()
	r.registerGenerics()
	r.registerArrayIntrinsics()
	return r
}

func (r *Registry) register(e *External) {
	r.byName[e.Name] = e
}

// Lookup resolves name to its declared External, or (nil, false) if no
// such standard-library function exists.
func (r *Registry) Lookup(name string) (*External, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// MustLookup resolves name, panicking if it is not declared. Used by
// callers that only ever pass names they themselves registered (the
// jit package's runtime get_sub_property dispatch for OpGetProperty
// on a String operand, §4.4.3).
func (r *Registry) MustLookup(name string) *External {
	e, ok := r.byName[name]
	if !ok {
		panic("stdlib: undeclared external " + name)
	}
	return e
}

// Error is a failed standard-library call: every stdlib error is fatal
// per §7 category 4, so implementations panic with a *Error that the
// jit VM's Run recovers and returns, as-is, as its error.
type Error struct {
	Func    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Func, e.Message)
}

func fail(fn, format string, args ...interface{}) {
	panic(&Error{Func: fn, Message: fmt.Sprintf(format, args...)})
}

// SubIndex maps a deref property name to the sub-component index used
// by get_sub_property/set_sub_property (§4.4.2 Assignment lowering).
// Exported so the jit package's runtime OpGetProperty dispatch can
// resolve a sub-property deref against a plain String value the same
// way codegen's compile-time subIndex resolves one against an Entity
// value for writes.
func SubIndex(prop string) (int, bool) {
	switch prop {
	case "x", "r", "pitch":
		return 0, true
	case "y", "g", "yaw":
		return 1, true
	case "z", "b", "roll":
		return 2, true
	case "w", "a":
		return 3, true
	default:
		return 0, false
	}
}
