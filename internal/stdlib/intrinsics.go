package stdlib

import (
	"math"

	"github.com/leops/hatchet/internal/ir"
)

// registerIntrinsics declares the backend math intrinsics (§4.5
// "Backend intrinsics"). In an LLVM backend these lower directly to
// llvm.{exp,sqrt,pow,...}.f64; here they're ReadNone externals backed
// by the standard math package, since the bytecode VM has no native
// intrinsic instructions of its own; the fused multiply-add the code
// generator emits for (a*b)+c is the fmuladd external below.
func (r *Registry) registerIntrinsics() {
	unary := func(name string, fn func(float64) float64) {
		r.register(&External{Name: name, Arity: 1, Attrs: ReadNone, Impl: func(_ Context, args []ir.Value) ir.Value {
			return ir.NumberValue(fn(args[0].Number))
		}})
	}

	unary("exp", math.Exp)
	unary("sqrt", math.Sqrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)

	r.register(&External{Name: "pow", Arity: 2, Attrs: ReadNone, Impl: func(_ Context, args []ir.Value) ir.Value {
		return ir.NumberValue(math.Pow(args[0].Number, args[1].Number))
	}})

	// fmuladd backs the code generator's fused-multiply-add folding
	// (scenario 6, §8): a*b+c compiles to one call instead of a mul
	// and an add.
	r.register(&External{Name: "fmuladd", Arity: 3, Attrs: ReadNone, Impl: func(_ Context, args []ir.Value) ir.Value {
		return ir.NumberValue(math.FMA(args[0].Number, args[1].Number, args[2].Number))
	}})

	// length(a, b, ...) with at least one argument is folded by the
	// code generator into sqrt(sum(pow(x, 2))) (§4.4.5), so it does
	// not reach the registry at runtime; it is still declared here so
	// a call with no arguments resolves to 0 instead of crashing the
	// VM with an unknown external.
	r.register(&External{Name: "length", Variadic: true, Attrs: ReadNone, Impl: func(_ Context, args []ir.Value) ir.Value {
		var sum float64
		for _, a := range args {
			sum += a.Number * a.Number
		}
		return ir.NumberValue(math.Sqrt(sum))
	}})

	r.register(&External{Name: "rand", Arity: 2, Impl: func(ctx Context, args []ir.Value) ir.Value {
		lo, hi := args[0].Number, args[1].Number
		return ir.NumberValue(lo + ctx.Rand().Float64()*(hi-lo))
	}})
}
