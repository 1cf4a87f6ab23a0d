// Package codegen lowers a parsed script AST into ir bytecode, one
// chunk for the whole script with every Auto/Relay/Subscriber block
// lowered into it in source order. Grounded on the original Rust compiler/scope.rs,
// compiler/statements.rs, compiler/expression.rs and compiler/path.rs:
// the lexically-scoped binding chain, the implicit (entity, method)
// "current event" carried down through nested blocks, and the
// additive delay accumulator are all reproduced here, just lowering
// to ir.Opcode sequences instead of building LLVM IR.
package codegen

import "github.com/leops/hatchet/internal/ir"

// scope is one lexical scope: a chain of local-variable slot bindings
// plus the ambient (entity, method) event and cumulative delay
// inherited from enclosing Relay/Subscriber/Delay blocks.
type scope struct {
	parent   *scope
	bindings map[string]int // name -> local slot index

	hasEvent     bool
	eventEntity  ir.Value // only meaningful when hasEvent
	eventIsAtom  bool     // true if eventEntity is a constant atom rather than a runtime value
	eventMethod  string

	hasDelay  bool
	delaySlot int // local slot holding the cumulative delay in seconds; valid when hasDelay
}

func newRootScope() *scope {
	return &scope{bindings: map[string]int{}}
}

func (s *scope) fork() *scope {
	return &scope{parent: s, bindings: map[string]int{}}
}

func (s *scope) lookup(name string) (int, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if slot, ok := cur.bindings[name]; ok {
			return slot, true
		}
	}
	return 0, false
}

func (s *scope) event() (entity string, method string, ok bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.hasEvent {
			return cur.eventEntity.Str, cur.eventMethod, true
		}
	}
	return "", "", false
}

// delay returns the nearest enclosing Delay block's local slot, the
// way event() finds the nearest enclosing event context.
func (s *scope) delay() (slot int, ok bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.hasDelay {
			return cur.delaySlot, true
		}
	}
	return 0, false
}

func (s *scope) forAuto() *scope {
	child := s.fork()
	child.hasEvent = true
	child.eventEntity = ir.StringValue("")
	child.eventMethod = "OnMapSpawn"
	return child
}

func (s *scope) forRelay(entityName string) *scope {
	child := s.fork()
	child.hasEvent = true
	child.eventEntity = ir.StringValue(entityName)
	child.eventMethod = "OnTrigger"
	return child
}

func (s *scope) forSubscriber(entityName, method string) *scope {
	child := s.fork()
	child.hasEvent = true
	child.eventEntity = ir.StringValue(entityName)
	child.eventMethod = method
	return child
}
