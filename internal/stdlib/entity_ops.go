package stdlib

import (
	"github.com/leops/hatchet/internal/ir"
)

// registerEntityOps declares the entity CRUD primitives (§4.5 "create,
// clone, remove, find, find_class"). Grounded on funxy's
// internal/evaluator/object_data.go-style small per-concern external
// set, adapted from funxy's generic host-object CRUD to Hatchet's
// fixed entity table.
func (r *Registry) registerEntityOps() {
	r.register(&External{Name: "create", Arity: 2, Impl: func(ctx Context, args []ir.Value) ir.Value {
		name := argAtom(args[0])
		class := argAtom(args[1])
		return ir.EntityValue(ctx.CreateEntity(name, class))
	}})

	r.register(&External{Name: "clone", Arity: 1, Impl: func(ctx Context, args []ir.Value) ir.Value {
		name := argAtom(args[0])
		clone, ok := ctx.CloneEntity(name)
		if !ok {
			fail("clone", "no such entity %q", name.String())
		}
		return ir.EntityValue(clone)
	}})

	r.register(&External{Name: "remove", Arity: 1, Attrs: ArgMemOnly, Impl: func(ctx Context, args []ir.Value) ir.Value {
		ctx.RemoveEntity(argAtom(args[0]))
		return ir.Void
	}})

	// find only atomizes a name string; it performs no lookup and
	// never fails, even for a name with no entity (§4.5 find).
	r.register(&External{Name: "find", Arity: 1, Attrs: ReadNone, Impl: func(_ Context, args []ir.Value) ir.Value {
		return ir.EntityValue(argAtom(args[0]))
	}})

	r.register(&External{Name: "find_class", Arity: 1, Attrs: ReadOnly, Impl: func(ctx Context, args []ir.Value) ir.Value {
		class := argAtom(args[0])
		names := ctx.EntitiesOfClass(class)
		elems := make([]ir.Value, len(names))
		for i, n := range names {
			elems[i] = ir.EntityValue(n)
		}
		return ir.Value{Kind: ir.KindArray, Array: elems}
	}})
}
