package jit

import (
	"fmt"
	"io"

	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/codegen"
	"github.com/leops/hatchet/internal/mapfile"
	"github.com/leops/hatchet/internal/stdlib"
)

// Run is the JIT driver's entry point (§4.6): it hoists the
// Relay/Auto entities the code generator's Result says main expects
// to already exist, resolves main's externals against registry,
// executes it against a freshly constructed Context seeded from
// seed, and leaves mf mutated in place. This is the pipeline step
// §4.6 describes as "Resolve main; call it with a freshly constructed
// Context... On return, extract the mutated entity table" — here
// there is no separate extraction step since the Context operates
// directly on mf's own entity map rather than a detached copy.
func Run(mf *mapfile.MapFile, res *codegen.Result, registry *stdlib.Registry, seed uint64, out io.Writer) error {
	hoist(mf, res)

	ctx := NewContext(mf, seed, out)
	vm := New(registry)
	if err := vm.Run(res.Chunk, ctx); err != nil {
		return fmt.Errorf("jit: %w", err)
	}
	return nil
}

// hoist materializes the entities codegen.Generate's hoisting pass
// (§4.4.2) determined main needs to already exist before its first
// statement runs: a logic_relay entity per Relay name, first-seen
// order, and the anonymous logic_auto entity if any Auto block
// occurred. Idempotent against an already-hoisted entity of the same
// name, matching the spec's "declare the entity at module scope... and
// inject a constant Entity binding" without overwriting one a prior
// compile of the same map already created.
func hoist(mf *mapfile.MapFile, res *codegen.Result) {
	for _, name := range res.RelayNames {
		key := atom.From(name)
		if _, exists := mf.Entities[key]; exists {
			continue
		}
		mf.Entities[key] = &mapfile.Entity{
			Classname:  atom.LogicRelay,
			Targetname: key,
			Properties: make(map[atom.Atom]string),
		}
	}

	if res.HasAuto {
		if _, exists := mf.Entities[atom.EmptyEntity]; !exists {
			mf.Entities[atom.EmptyEntity] = &mapfile.Entity{
				Classname:  atom.LogicAuto,
				Targetname: atom.EmptyEntity,
				Properties: make(map[atom.Atom]string),
			}
		}
	}
}
