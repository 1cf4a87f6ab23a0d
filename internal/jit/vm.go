// Package jit is the execution engine for spec §4.6's "JIT driver":
// given a compiled ir.Chunk and a live Context,
// it runs the chunk's bytecode to completion, calling into the
// stdlib.Registry for every external the code generator linked.
// Grounded on funxy's internal/vm package (vm.go/vm_exec.go): a flat
// operand stack, a local-variable slot array, and a switch-driven
// fetch-decode-execute loop over one instruction pointer — trimmed to
// a single frame, since a Hatchet script lowers to exactly one `main`
// chunk with no user-defined functions to call into (§4.6 step 1).
package jit

import (
	"fmt"

	"github.com/leops/hatchet/internal/ir"
	"github.com/leops/hatchet/internal/stdlib"
)

// VM executes one compiled chunk at a time against a stdlib.Registry.
// Its operand stack is reused across runs the way funxy's VM reuses
// its stack across calls, avoiding a fresh allocation per script
// compilation when an outer driver runs many in sequence (§5: "the
// outer driver may compile multiple maps concurrently; each gets an
// independent Context").
type VM struct {
	registry *stdlib.Registry
	stack    []ir.Value
}

// New returns a VM that resolves externals against registry.
func New(registry *stdlib.Registry) *VM {
	return &VM{registry: registry}
}

// RuntimeError is a category-5 (§7) VM failure: an opcode stream that
// could not be executed, as opposed to a category-4 stdlib.Error a
// called external raised deliberately.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func runtimeErrorf(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

func (m *VM) push(v ir.Value) {
	m.stack = append(m.stack, v)
}

func (m *VM) pop() ir.Value {
	n := len(m.stack)
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v
}

// Run executes chunk's bytecode against ctx to completion, in
// declaration/control-flow order (§5 "Ordering guarantees"). A
// category-4 stdlib.Error raised by an external (via stdlib.fail's
// panic/recover convention, see stdlib.Error) is returned as-is so
// the caller can report it the way every other fatal diagnostic is
// reported (§7).
func (m *VM) Run(chunk *ir.Chunk, ctx stdlib.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*stdlib.Error); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	m.stack = m.stack[:0]
	locals := make([]ir.Value, chunk.NumLocals)
	code := chunk.Code
	ip := 0

	for ip < len(code) {
		op := ir.Opcode(code[ip])
		ip++

		switch op {
		case ir.OpConst:
			idx := chunk.ReadU16(ip)
			ip += 2
			m.push(chunk.Constants[idx])

		case ir.OpPop:
			m.pop()

		case ir.OpDup:
			v := m.stack[len(m.stack)-1]
			m.push(v)

		case ir.OpAdd:
			if err := m.binaryAdd(); err != nil {
				return err
			}

		case ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod:
			if err := m.binaryArith(op); err != nil {
				return err
			}

		case ir.OpNeg:
			v := m.pop()
			if v.Kind != ir.KindNumber {
				return runtimeErrorf("unary - requires a number, got %s", v.Kind)
			}
			m.push(ir.NumberValue(-v.Number))

		case ir.OpBAnd, ir.OpBOr, ir.OpBXor, ir.OpShl, ir.OpShr:
			if err := m.bitwiseOp(op); err != nil {
				return err
			}

		case ir.OpEq:
			b, a := m.pop(), m.pop()
			m.push(ir.BoolValue(valuesEqual(a, b)))

		case ir.OpNe:
			b, a := m.pop(), m.pop()
			m.push(ir.BoolValue(!valuesEqual(a, b)))

		case ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe:
			if err := m.comparisonOp(op); err != nil {
				return err
			}

		case ir.OpAnd:
			b, a := m.pop(), m.pop()
			m.push(ir.BoolValue(a.Truthy() && b.Truthy()))

		case ir.OpOr:
			b, a := m.pop(), m.pop()
			m.push(ir.BoolValue(a.Truthy() || b.Truthy()))

		case ir.OpNot:
			v := m.pop()
			m.push(ir.BoolValue(!v.Truthy()))

		case ir.OpGetLocal:
			idx := chunk.ReadU16(ip)
			ip += 2
			m.push(locals[idx])

		case ir.OpSetLocal:
			idx := chunk.ReadU16(ip)
			ip += 2
			locals[idx] = m.pop()

		case ir.OpJump:
			ip = int(chunk.ReadU16(ip))

		case ir.OpJumpIfFalse:
			target := chunk.ReadU16(ip)
			ip += 2
			if !m.pop().Truthy() {
				ip = int(target)
			}

		case ir.OpLoop:
			ip = int(chunk.ReadU16(ip))

		case ir.OpMakeArray:
			n := int(chunk.ReadU16(ip))
			ip += 2
			elems := make([]ir.Value, n)
			copy(elems, m.stack[len(m.stack)-n:])
			m.stack = m.stack[:len(m.stack)-n]
			m.push(ir.Value{Kind: ir.KindArray, Array: elems})

		case ir.OpMakeObject:
			n := int(chunk.ReadU16(ip))
			ip += 2
			fields := make(map[string]ir.Value, n)
			base := len(m.stack) - 2*n
			for i := 0; i < n; i++ {
				key := m.stack[base+2*i]
				val := m.stack[base+2*i+1]
				fields[key.Str] = val
			}
			m.stack = m.stack[:base]
			m.push(ir.Value{Kind: ir.KindObject, Object: fields})

		case ir.OpCallExternal:
			if err := m.callExternal(chunk, &ip, ctx); err != nil {
				return err
			}

		case ir.OpGetProperty:
			key := m.pop()
			obj := m.pop()
			v, err := m.getProperty(ctx, obj, key)
			if err != nil {
				return err
			}
			m.push(v)

		case ir.OpHalt:
			return nil

		case ir.OpNop:
			// inserted by ir.Optimize's constant-folding pass to pad
			// folded instruction runs in place; nothing to do.

		default:
			return runtimeErrorf("unknown opcode %d at offset %d", op, ip-1)
		}
	}

	return nil
}

func (m *VM) callExternal(chunk *ir.Chunk, ip *int, ctx stdlib.Context) error {
	idx := chunk.ReadU16(*ip)
	*ip += 2
	argc := int(chunk.Code[*ip])
	*ip++

	name := chunk.Constants[idx].Str
	ext, ok := m.registry.Lookup(name)
	if !ok {
		return runtimeErrorf("call to undeclared external %q", name)
	}
	if !ext.Variadic && argc != ext.Arity {
		return runtimeErrorf("external %q expects %d argument(s), got %d", name, ext.Arity, argc)
	}

	args := make([]ir.Value, argc)
	copy(args, m.stack[len(m.stack)-argc:])
	m.stack = m.stack[:len(m.stack)-argc]

	m.push(ext.Impl(ctx, args))
	return nil
}

// getProperty is the one runtime-dispatched access primitive the
// opcode table reserves (§4.4.3 Reference(Deref) lowering): obj's Kind
// decides whether key resolves against an entity's property bag, a
// whitespace-split string's sub-components, or a plain Object's field
// map, mirroring the three branches codegen.Reference would pick
// between statically if the pipeline had a type checker ahead of it
// (see DESIGN.md).
func (m *VM) getProperty(ctx stdlib.Context, obj, key ir.Value) (ir.Value, error) {
	switch obj.Kind {
	case ir.KindEntity:
		ent := ctx.Entity(obj.Atom)
		if ent == nil {
			return ir.Void, &stdlib.Error{Func: "get_property", Message: fmt.Sprintf("no such entity %q", obj.Atom.String())}
		}
		v, ok := ent.GetProperty(key.Atom)
		if !ok {
			return ir.Void, &stdlib.Error{Func: "get_property", Message: fmt.Sprintf("entity %q has no property %q", obj.Atom.String(), key.Atom.String())}
		}
		return ir.StringValue(v), nil

	case ir.KindString:
		sub, ok := stdlib.SubIndex(key.Atom.String())
		if !ok {
			return ir.Void, runtimeErrorf("unknown sub-property name %q", key.Atom.String())
		}
		return m.registry.MustLookup("get_sub_property").Impl(ctx, []ir.Value{obj, ir.NumberValue(float64(sub))}), nil

	case ir.KindObject:
		v, ok := obj.Object[key.Atom.String()]
		if !ok {
			return ir.Void, runtimeErrorf("object has no field %q", key.Atom.String())
		}
		return v, nil

	default:
		return ir.Void, runtimeErrorf("cannot access property %q of a %s value", key.Atom.String(), obj.Kind)
	}
}
