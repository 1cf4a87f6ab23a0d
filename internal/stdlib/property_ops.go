package stdlib

import (
	"fmt"
	"strings"

	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/ir"
)

// registerPropertyOps declares get_property/set_property and their
// whitespace-decomposed sub-property counterparts (§4.5), plus
// get_instance and create_connection, the two primitives the code
// generator's event-path and connection-emission lowering (§4.4.4,
// §4.4.5) are specified in terms of.
func (r *Registry) registerPropertyOps() {
	r.register(&External{Name: "get_property", Arity: 2, Attrs: ReadOnly, Impl: func(ctx Context, args []ir.Value) ir.Value {
		ent := resolveEntity(ctx, "get_property", args, 0)
		key := argAtom(args[1])
		v, ok := ent.GetProperty(key)
		if !ok {
			fail("get_property", "entity %q has no property %q", ent.Targetname.String(), key.String())
		}
		return ir.StringValue(v)
	}})

	r.register(&External{Name: "set_property", Arity: 3, Impl: func(ctx Context, args []ir.Value) ir.Value {
		ent := resolveEntity(ctx, "set_property", args, 0)
		ent.SetProperty(argAtom(args[1]), argString(args[2]))
		return ir.Void
	}})

	// get_sub_property/set_sub_property split a property value on
	// whitespace (the "1 2 3" origin-vector convention, §4.4.2): the
	// sub-index comes from the deref name (x/y/z/w, r/g/b/a,
	// pitch/yaw/roll), resolved at code-gen time for writes and by the
	// VM's OpGetProperty at run time for reads.
	r.register(&External{Name: "get_sub_property", Arity: 2, Attrs: ReadNone, Impl: func(_ Context, args []ir.Value) ir.Value {
		fields := strings.Fields(argString(args[0]))
		idx := int(args[1].Number)
		if idx < 0 || idx >= len(fields) {
			fail("get_sub_property", "index %d out of range for %q", idx, args[0].Str)
		}
		return ir.StringValue(fields[idx])
	}})

	r.register(&External{Name: "set_sub_property", Arity: 4, Impl: func(ctx Context, args []ir.Value) ir.Value {
		ent := resolveEntity(ctx, "set_sub_property", args, 0)
		key := argAtom(args[1])
		idx := int(args[2].Number)
		if idx < 0 {
			fail("set_sub_property", "negative sub-index %d", idx)
		}
		cur, _ := ent.GetProperty(key)
		fields := strings.Fields(cur)
		for len(fields) <= idx {
			fields = append(fields, "0")
		}
		fields[idx] = argString(args[3])
		ent.SetProperty(key, strings.Join(fields, " "))
		return ir.Void
	}})

	r.register(&External{Name: "get_instance", Arity: 2, Attrs: ReadNone, Impl: func(_ Context, args []ir.Value) ir.Value {
		ent := argAtom(args[0])
		method := argString(args[1])
		return ir.AtomValue(atom.From(fmt.Sprintf("instance:%s;%s", ent.String(), method)))
	}})

	r.register(&External{Name: "create_connection", Arity: 6, Impl: func(ctx Context, args []ir.Value) ir.Value {
		from := argAtom(args[0])
		event := argAtom(args[1])
		to := argAtom(args[2])
		method := argAtom(args[3])
		arg := argString(args[4])
		delay := args[5].Number
		ctx.CreateConnection(from, event, to, method, arg, delay)
		return ir.Void
	}})
}
