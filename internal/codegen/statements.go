package codegen

import (
	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/ir"
	"github.com/leops/hatchet/internal/script/ast"
)

// chunkBuilder accumulates bytecode for a single script.
// Grounded on compiler/statements.rs and compiler/builder.rs: each
// statement lowers to the sequence of ops its original LLVM
// equivalent would have emitted, just targeting our stack machine.
type chunkBuilder struct {
	gen      *Generator
	chunk    *ir.Chunk
	maxSlot  int
	nextSlot int
}

func (c *chunkBuilder) compileBlock(sc *scope, body []ast.Statement) {
	for _, stmt := range body {
		c.compileStatement(sc, stmt)
	}
}

func (c *chunkBuilder) compileStatement(sc *scope, stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Auto:
		c.compileBlock(sc.forAuto(), s.Body)

	case *ast.Relay:
		c.compileBlock(sc.forRelay(s.Name), s.Body)

	case *ast.Subscriber:
		// Subscriber re-targets the current event for its body, the
		// same way Auto/Relay do; it just supplies the (entity,
		// method) pair explicitly instead of synthesizing one,
		// matching scope.rs's Scope::subscriber behavior. A
		// subscriber nested inside another event context is warned
		// about (§7) but still lowered with the new inner context
		// taking over.
		if _, _, ok := sc.event(); ok {
			c.gen.warnf("subscriber nested inside another event context; inner context takes over")
		}
		entity, method := c.gen.staticTrigger(s.Path)
		c.compileBlock(sc.forSubscriber(entity, method), s.Body)

	case *ast.Delay:
		// Evaluate this block's own delay and add it to whatever
		// delay the enclosing scope already carries (0 if none),
		// spilling the sum to a dedicated slot that connection
		// emission sites further down reload (§4.4.2: "delay T
		// nested inside delay T' produces effective delay T+T'").
		c.compileExpression(sc, s.TimeExpr)
		if outerSlot, ok := sc.delay(); ok {
			c.chunk.WriteOp(ir.OpGetLocal, 0, 0)
			c.chunk.WriteU16(uint16(outerSlot), 0, 0)
			c.chunk.WriteOp(ir.OpAdd, 0, 0)
		}
		child := sc.fork()
		slot := c.declareLocal(child, "$delay")
		c.chunk.WriteOp(ir.OpSetLocal, 0, 0)
		c.chunk.WriteU16(uint16(slot), 0, 0)
		child.hasDelay = true
		child.delaySlot = slot
		c.compileBlock(child, s.Body)

	case *ast.Loop:
		c.compileLoop(sc, s)

	case *ast.Iterator:
		c.compileIterator(sc, s)

	case *ast.Branch:
		c.compileBranch(sc, s)

	case *ast.Binding:
		c.compileExpression(sc, s.Value)
		slot := c.declareLocal(sc, s.Name)
		c.chunk.WriteOp(ir.OpSetLocal, 0, 0)
		c.chunk.WriteU16(uint16(slot), 0, 0)

	case *ast.Assignment:
		c.compileAssignment(sc, s)

	case *ast.CallStatement:
		c.compileCallStatement(sc, s.Call)

	default:
		c.gen.errorf("unsupported statement type %T", stmt)
	}
}

// declareLocal allocates the next free slot in the chunk's single flat
// locals array. Slots are assigned from a monotonic per-chunk counter
// rather than each scope's own binding count: the VM's locals array is
// shared across every forked scope, so two sibling or nested scopes
// reusing the same index (e.g. a Delay block's "$delay" colliding with
// an Iterator's "$iter_array_*" slot declared at the same depth) would
// silently alias each other's storage.
func (c *chunkBuilder) declareLocal(sc *scope, name string) int {
	slot := c.nextSlot
	c.nextSlot++
	sc.bindings[name] = slot
	if c.nextSlot > c.maxSlot {
		c.maxSlot = c.nextSlot
	}
	return slot
}

func (c *chunkBuilder) compileLoop(sc *scope, s *ast.Loop) {
	testPos := c.chunk.Len()
	c.compileExpression(sc, s.Cond)
	exitJump := c.chunk.WriteOp(ir.OpJumpIfFalse, 0, 0)
	c.chunk.WriteU16(0, 0, 0)

	c.compileBlock(sc.fork(), s.Body)

	loopPos := c.chunk.WriteOp(ir.OpLoop, 0, 0)
	c.chunk.WriteU16(uint16(testPos), 0, 0)
	_ = loopPos

	c.chunk.PatchU16(exitJump+1, uint16(c.chunk.Len()))
}

func (c *chunkBuilder) compileIterator(sc *scope, s *ast.Iterator) {
	c.compileExpression(sc, s.ArrayExpr)
	arraySlot := c.declareLocal(sc, "$iter_array_"+s.Var)
	c.chunk.WriteOp(ir.OpSetLocal, 0, 0)
	c.chunk.WriteU16(uint16(arraySlot), 0, 0)

	c.chunk.WriteConstant(ir.NumberValue(0), 0, 0)
	idxSlot := c.declareLocal(sc, "$iter_idx_"+s.Var)
	c.chunk.WriteOp(ir.OpSetLocal, 0, 0)
	c.chunk.WriteU16(uint16(idxSlot), 0, 0)

	child := sc.fork()
	varSlot := c.declareLocal(child, s.Var)

	testPos := c.chunk.Len()
	// condition: idx < len(array); length check delegates to the
	// runtime since arrays are not fixed-size in the bytecode IR.
	c.chunk.WriteOp(ir.OpGetLocal, 0, 0)
	c.chunk.WriteU16(uint16(idxSlot), 0, 0)
	c.chunk.WriteOp(ir.OpGetLocal, 0, 0)
	c.chunk.WriteU16(uint16(arraySlot), 0, 0)
	c.callExternal("__array_len", 1)
	c.chunk.WriteOp(ir.OpLt, 0, 0)
	exitJump := c.chunk.WriteOp(ir.OpJumpIfFalse, 0, 0)
	c.chunk.WriteU16(0, 0, 0)

	c.chunk.WriteOp(ir.OpGetLocal, 0, 0)
	c.chunk.WriteU16(uint16(arraySlot), 0, 0)
	c.chunk.WriteOp(ir.OpGetLocal, 0, 0)
	c.chunk.WriteU16(uint16(idxSlot), 0, 0)
	c.callExternal("__array_get", 2)
	c.chunk.WriteOp(ir.OpSetLocal, 0, 0)
	c.chunk.WriteU16(uint16(varSlot), 0, 0)

	c.compileBlock(child, s.Body)

	c.chunk.WriteOp(ir.OpGetLocal, 0, 0)
	c.chunk.WriteU16(uint16(idxSlot), 0, 0)
	c.chunk.WriteConstant(ir.NumberValue(1), 0, 0)
	c.chunk.WriteOp(ir.OpAdd, 0, 0)
	c.chunk.WriteOp(ir.OpSetLocal, 0, 0)
	c.chunk.WriteU16(uint16(idxSlot), 0, 0)

	c.chunk.WriteOp(ir.OpLoop, 0, 0)
	c.chunk.WriteU16(uint16(testPos), 0, 0)
	c.chunk.PatchU16(exitJump+1, uint16(c.chunk.Len()))
}

func (c *chunkBuilder) compileBranch(sc *scope, s *ast.Branch) {
	c.compileExpression(sc, s.Cond)
	elseJump := c.chunk.WriteOp(ir.OpJumpIfFalse, 0, 0)
	c.chunk.WriteU16(0, 0, 0)

	c.compileBlock(sc.fork(), s.Consequent)

	endJump := c.chunk.WriteOp(ir.OpJump, 0, 0)
	c.chunk.WriteU16(0, 0, 0)

	c.chunk.PatchU16(elseJump+1, uint16(c.chunk.Len()))
	if s.Alternate != nil {
		c.compileBlock(sc.fork(), s.Alternate)
	}
	c.chunk.PatchU16(endJump+1, uint16(c.chunk.Len()))
}

// compileAssignment lowers an Assignment per §4.4.2: a plain local
// name stores through its slot; a single deref ("ent.prop = v") calls
// set_property(ent, key, v); a double deref ("ent.prop.sub = v") calls
// set_sub_property(ent, key, sub_index, v), resolving sub to its index
// (x/r/pitch -> 0, ...) at code-gen time since the deref depth and
// name are syntactic, never a runtime value. Both stdlib functions
// coerce v to String themselves (§4.4.2 "value is coerced to String
// via to_string for f64"), so the value is pushed as-is.
func (c *chunkBuilder) compileAssignment(sc *scope, s *ast.Assignment) {
	switch head := s.Path.(type) {
	case *ast.PathBinding:
		if slot, ok := sc.lookup(head.Name); ok {
			c.compileExpression(sc, s.Value)
			c.chunk.WriteOp(ir.OpSetLocal, 0, 0)
			c.chunk.WriteU16(uint16(slot), 0, 0)
			return
		}
		c.gen.errorf("assignment target %q is not a local binding", head.Name)

	case *ast.PathDeref:
		if inner, ok := head.Obj.(*ast.PathDeref); ok {
			idx, ok := subIndex(head.Prop)
			if !ok {
				c.gen.errorf("unknown sub-property name %q", head.Prop)
				return
			}
			c.compilePath(sc, inner.Obj)
			c.chunk.WriteConstant(ir.AtomValue(atom.From(inner.Prop)), 0, 0)
			c.chunk.WriteConstant(ir.NumberValue(float64(idx)), 0, 0)
			c.compileExpression(sc, s.Value)
			c.callExternal("set_sub_property", 4)
			c.chunk.WriteOp(ir.OpPop, 0, 0)
			return
		}
		c.compilePath(sc, head.Obj)
		c.chunk.WriteConstant(ir.AtomValue(atom.From(head.Prop)), 0, 0)
		c.compileExpression(sc, s.Value)
		c.callExternal("set_property", 3)
		c.chunk.WriteOp(ir.OpPop, 0, 0)

	default:
		c.gen.errorf("assignment target %T is not supported", s.Path)
	}
}

// subIndex maps a sub-property deref name to its whitespace-split
// component index (§4.4.2), mirroring stdlib.SubIndex but resolved at
// code-gen time since an assignment's sub-index is always a literal
// deref name, never a runtime value.
func subIndex(prop string) (int, bool) {
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

// compileCallStatement handles the two meanings a bare call can have
// as a statement (§4.4.5): a standard-library call, or — when its
// path resolves to an Entity — a connection emission from the current
// scope's (entity, method) onto the named target. A single bare
// identifier not shadowed by a local and not a declared external is
// always the Entity case (PathDeref/PathInstance shapes always are,
// since the grammar has no other use for them in call position).
// When the target's base identifier is a local binding (e.g. `let e =
// create(...)` then `e:Enable()`), the binding's runtime value is the
// target entity; otherwise the identifier itself names it.
func (c *chunkBuilder) compileCallStatement(sc *scope, call ast.Call) {
	if bind, ok := call.Path.(*ast.PathBinding); ok {
		_, isLocal := sc.lookup(bind.Name)
		_, isExternal := c.gen.registry.Lookup(bind.Name)
		if !isLocal && isExternal {
			for _, arg := range call.Args {
				c.compileExpression(sc, arg)
			}
			c.callExternal(bind.Name, len(call.Args))
			c.chunk.WriteOp(ir.OpPop, 0, 0)
			return
		}
	}

	// §4.4.5: "compute (from, trigger) from the scope event, (target,
	// method) from the call's path, one argument, and delay; call
	// create_connection(from, trigger, target, method, arg, delay)".
	fromEntity, fromMethod, ok := sc.event()
	if !ok {
		c.gen.errorf("entity trigger call %v has no enclosing event context", call.Path)
		return
	}
	entity, method := c.gen.staticTrigger(call.Path)
	c.chunk.WriteConstant(ir.AtomValue(atom.From(fromEntity)), 0, 0)
	c.chunk.WriteConstant(ir.AtomValue(atom.From(fromMethod)), 0, 0)
	if slot, ok := sc.lookup(entity); ok {
		c.chunk.WriteOp(ir.OpGetLocal, 0, 0)
		c.chunk.WriteU16(uint16(slot), 0, 0)
	} else {
		c.chunk.WriteConstant(ir.AtomValue(atom.From(entity)), 0, 0)
	}
	c.chunk.WriteConstant(ir.AtomValue(atom.From(method)), 0, 0)
	if len(call.Args) > 0 {
		c.compileExpression(sc, call.Args[0])
		c.callExternal("to_string", 1)
	} else {
		c.chunk.WriteConstant(ir.StringValue(""), 0, 0)
	}
	if slot, ok := sc.delay(); ok {
		c.chunk.WriteOp(ir.OpGetLocal, 0, 0)
		c.chunk.WriteU16(uint16(slot), 0, 0)
	} else {
		c.chunk.WriteConstant(ir.NumberValue(0), 0, 0)
	}
	c.callExternal("create_connection", 6)
	c.chunk.WriteOp(ir.OpPop, 0, 0)
}

func (c *chunkBuilder) callExternal(name string, argc int) {
	idx := c.chunk.AddConstant(ir.StringValue(name))
	c.chunk.WriteOp(ir.OpCallExternal, 0, 0)
	c.chunk.WriteU16(idx, 0, 0)
	c.chunk.WriteU8(uint8(argc), 0, 0)
}
