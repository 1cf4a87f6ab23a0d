package codegen

import (
	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/ir"
	"github.com/leops/hatchet/internal/mapfile"
	"github.com/leops/hatchet/internal/script/ast"
)

var binaryOpcodes = map[ast.Operator]ir.Opcode{
	ast.OpMul:    ir.OpMul,
	ast.OpDiv:    ir.OpDiv,
	ast.OpMod:    ir.OpMod,
	ast.OpAdd:    ir.OpAdd,
	ast.OpSub:    ir.OpSub,
	ast.OpShl:    ir.OpShl,
	ast.OpShr:    ir.OpShr,
	ast.OpLt:     ir.OpLt,
	ast.OpLe:     ir.OpLe,
	ast.OpGt:     ir.OpGt,
	ast.OpGe:     ir.OpGe,
	ast.OpEq:     ir.OpEq,
	ast.OpNe:     ir.OpNe,
	ast.OpBitAnd: ir.OpBAnd,
	ast.OpBitXor: ir.OpBXor,
	ast.OpBitOr:  ir.OpBOr,
	ast.OpAnd:    ir.OpAnd,
	ast.OpOr:     ir.OpOr,
}

func (c *chunkBuilder) compileExpression(sc *scope, expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		c.chunk.WriteConstant(ir.NumberValue(e.Value), 0, 0)

	case *ast.StringLiteral:
		c.compileStringLiteral(sc, e)

	case *ast.Array:
		for _, elem := range e.Elements {
			c.compileExpression(sc, elem)
		}
		c.chunk.WriteOp(ir.OpMakeArray, 0, 0)
		c.chunk.WriteU16(uint16(len(e.Elements)), 0, 0)

	case *ast.MapLiteral:
		for _, field := range e.Fields {
			c.chunk.WriteConstant(ir.StringValue(field.Key), 0, 0)
			c.compileExpression(sc, field.Value)
		}
		c.chunk.WriteOp(ir.OpMakeObject, 0, 0)
		c.chunk.WriteU16(uint16(len(e.Fields)), 0, 0)

	case *ast.Reference:
		c.compilePath(sc, e.Path)

	case *ast.Binary:
		if c.tryCompileFusedMulAdd(sc, e) {
			return
		}
		c.compileExpression(sc, e.LHS)
		c.compileExpression(sc, e.RHS)
		op, ok := binaryOpcodes[e.Op]
		if !ok {
			c.gen.errorf("unsupported binary operator %v", e.Op)
			return
		}
		c.chunk.WriteOp(op, 0, 0)

	case *ast.Call:
		c.compileCallExpression(sc, e)

	default:
		c.gen.errorf("unsupported expression type %T", expr)
	}
}

// tryCompileFusedMulAdd recognizes "(a*b)+c" or "c+(a*b)" on f64
// operands (§4.4.3: "emit a fused fmuladd intrinsic") and, when it
// matches, emits a single fmuladd(a,b,c) call instead of a separate
// mul and add, returning true. Without a static type checker ahead of
// codegen (see DESIGN.md) the match is purely syntactic, on the
// Binary shape itself; every operand the generated call receives is
// still whatever runtime value it would otherwise have evaluated to,
// so a non-numeric operand still fails the same way at the fmuladd
// call site that a bare `*` would have failed at the `add`.
func (c *chunkBuilder) tryCompileFusedMulAdd(sc *scope, e *ast.Binary) bool {
	if e.Op != ast.OpAdd {
		return false
	}
	if mul, ok := e.LHS.(*ast.Binary); ok && mul.Op == ast.OpMul {
		c.compileExpression(sc, mul.LHS)
		c.compileExpression(sc, mul.RHS)
		c.compileExpression(sc, e.RHS)
		c.callExternal("fmuladd", 3)
		return true
	}
	if mul, ok := e.RHS.(*ast.Binary); ok && mul.Op == ast.OpMul {
		c.compileExpression(sc, mul.LHS)
		c.compileExpression(sc, mul.RHS)
		c.compileExpression(sc, e.LHS)
		c.callExternal("fmuladd", 3)
		return true
	}
	return false
}

func (c *chunkBuilder) compileStringLiteral(sc *scope, lit *ast.StringLiteral) {
	if len(lit.Parts) == 0 {
		c.chunk.WriteConstant(ir.StringValue(""), 0, 0)
		return
	}
	first := true
	for _, part := range lit.Parts {
		if part.Expr == nil {
			c.chunk.WriteConstant(ir.StringValue(part.Text), 0, 0)
		} else {
			c.compileToString(sc, part.Expr)
		}
		if !first {
			c.callExternal("concat", 2)
		}
		first = false
	}
}

func (c *chunkBuilder) compileCallExpression(sc *scope, call *ast.Call) {
	bind, ok := call.Path.(*ast.PathBinding)
	if !ok {
		c.gen.errorf("calls through a non-identifier path are not supported")
		return
	}
	if _, isLocal := sc.lookup(bind.Name); isLocal {
		c.gen.errorf("calls through a local binding are not supported")
		return
	}
	if bind.Name == "to_string" && len(call.Args) == 1 {
		c.compileToString(sc, call.Args[0])
		return
	}
	if bind.Name == "length" && len(call.Args) > 0 {
		for i, arg := range call.Args {
			c.compileExpression(sc, arg)
			c.chunk.WriteConstant(ir.NumberValue(2), 0, 0)
			c.callExternal("pow", 2)
			if i > 0 {
				c.chunk.WriteOp(ir.OpAdd, 0, 0)
			}
		}
		c.callExternal("sqrt", 1)
		return
	}
	for _, arg := range call.Args {
		c.compileExpression(sc, arg)
	}
	c.callExternal(bind.Name, len(call.Args))
}

// compileToString folds the constant case of §4.4.5's "to_string(const
// f64) -> emit the constant string" directly to a string constant;
// any other operand still calls the to_string external.
func (c *chunkBuilder) compileToString(sc *scope, expr ast.Expression) {
	if lit, ok := expr.(*ast.NumberLiteral); ok {
		c.chunk.WriteConstant(ir.StringValue(mapfile.FormatFloat(lit.Value)), 0, 0)
		return
	}
	c.compileExpression(sc, expr)
	c.callExternal("to_string", 1)
}

// compilePath pushes the value a Path resolves to. Bindings resolve
// to locals when shadowed by a `let`; otherwise a bare identifier is
// an entity-name literal resolved against the map's entity table at
// run time (scope.rs's Scope::root pre-binds every entity by name).
func (c *chunkBuilder) compilePath(sc *scope, p ast.Path) {
	switch n := p.(type) {
	case *ast.PathBinding:
		if slot, ok := sc.lookup(n.Name); ok {
			c.chunk.WriteOp(ir.OpGetLocal, 0, 0)
			c.chunk.WriteU16(uint16(slot), 0, 0)
			return
		}
		c.chunk.WriteConstant(ir.EntityValue(atom.From(n.Name)), 0, 0)

	case *ast.PathInstance:
		// Reading an instance path as a plain value has no testable
		// scenario in the spec (instance paths are specified only as
		// event targets, resolved by staticTrigger/splitTriggerPath);
		// this best-effort rendering atomizes it against the default
		// "Trigger" method the same way an unqualified event path
		// would, via the same get_instance the event-target path uses.
		c.compilePath(sc, n.Obj)
		c.chunk.WriteConstant(ir.StringValue("Trigger"), 0, 0)
		c.callExternal("get_instance", 2)

	case *ast.PathDeref:
		c.compilePath(sc, n.Obj)
		c.chunk.WriteConstant(ir.AtomValue(atom.From(n.Prop)), 0, 0)
		c.chunk.WriteOp(ir.OpGetProperty, 0, 0)

	default:
		c.gen.errorf("unsupported path shape %T", p)
	}
}
