package stdlib

import (
	"strconv"
	"strings"

	"github.com/leops/hatchet/internal/ir"
)

// registerStringOps declares concat/to_string/parse/print (§4.5
// "string ops"). to_string is also constant-folded at code-gen time
// for literal f64 operands (§4.4.5), but the registered external
// still backs the non-constant case (e.g. to_string of a `let`-bound
// number).
func (r *Registry) registerStringOps() {
	r.register(&External{Name: "concat", Arity: 2, Attrs: ReadNone, Impl: func(_ Context, args []ir.Value) ir.Value {
		return ir.StringValue(argString(args[0]) + argString(args[1]))
	}})

	r.register(&External{Name: "to_string", Arity: 1, Attrs: ReadNone, Impl: func(_ Context, args []ir.Value) ir.Value {
		return ir.StringValue(argString(args[0]))
	}})

	r.register(&External{Name: "parse", Arity: 1, Attrs: ReadNone, Impl: func(_ Context, args []ir.Value) ir.Value {
		s := strings.TrimSpace(argString(args[0]))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return ir.NumberValue(f)
		}
		return ir.StringValue(s)
	}})

	r.register(&External{Name: "print", Variadic: true, Impl: func(ctx Context, args []ir.Value) ir.Value {
		rendered := make([]string, len(args))
		for i, a := range args {
			rendered[i] = argString(a)
		}
		ctx.Print(rendered)
		return ir.Void
	}})
}
