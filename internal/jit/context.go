package jit

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/mapfile"
)

// Context is the jit package's concrete implementation of
// stdlib.Context (§4.7 Execution Context): it owns the live entity
// table generated code mutates, the per-run PRNG seeded from the
// script's declared seed, and a diagnostic sink for print().
//
// The spec's Context additionally names three arenas
// (atoms/strings/ent_vec) backing every pointer handed back to
// generated code, needed because an LLVM backend's generated code
// holds raw pointers that must stay valid until main returns (§4.7
// "Arenas vs lifetimes"). Go's garbage collector already guarantees
// that for any ir.Value reachable from the operand stack or a local
// slot, so Context carries no separate arena fields — the one
// standard-library-visible consequence of per-run arenas (every
// allocation's lifetime is capped at the run) still falls out for
// free, since nothing outlives the Run call that created it.
type Context struct {
	mf  *mapfile.MapFile
	rng *rand.Rand
	out io.Writer

	// RunID correlates every diagnostic this run emits, the way
	// funxy's request-scoped logging correlates a session's output;
	// stamped once per compilation the way §4.6 step 5 constructs
	// "a freshly constructed Context" per script run.
	RunID uuid.UUID
}

// NewContext builds a Context over mf, seeded for one script
// compilation run, writing print() output to out.
func NewContext(mf *mapfile.MapFile, seed uint64, out io.Writer) *Context {
	return &Context{
		mf:    mf,
		rng:   rand.New(rand.NewSource(int64(seed))),
		out:   out,
		RunID: uuid.New(),
	}
}

// Entity implements stdlib.Context.
func (c *Context) Entity(name atom.Atom) *mapfile.Entity {
	return c.mf.Entities[name]
}

// CreateEntity implements stdlib.Context (§4.5 create).
func (c *Context) CreateEntity(name, class atom.Atom) atom.Atom {
	c.mf.Entities[name] = &mapfile.Entity{
		Classname:  class,
		Targetname: name,
		Properties: make(map[atom.Atom]string),
	}
	return name
}

// CloneEntity implements stdlib.Context (§4.5 clone: "new name based
// on clones counter").
func (c *Context) CloneEntity(name atom.Atom) (atom.Atom, bool) {
	src, ok := c.mf.Entities[name]
	if !ok {
		return atom.Invalid, false
	}
	src.Clones++
	clone := src.Clone()
	newName := atom.From(fmt.Sprintf("%s_%d", name.String(), src.Clones))
	clone.Targetname = newName
	c.mf.Entities[newName] = &clone
	return newName, true
}

// RemoveEntity implements stdlib.Context (§4.5 remove: "purge all
// connections to it from every other entity").
func (c *Context) RemoveEntity(name atom.Atom) {
	delete(c.mf.Entities, name)
	for _, ent := range c.mf.Entities {
		if !connectionsReference(ent.Connections, name) {
			continue
		}
		kept := ent.Connections[:0]
		for _, conn := range ent.Connections {
			if conn.Entity != name {
				kept = append(kept, conn)
			}
		}
		ent.Connections = kept
	}
}

func connectionsReference(conns []mapfile.Connection, name atom.Atom) bool {
	for _, c := range conns {
		if c.Entity == name {
			return true
		}
	}
	return false
}

// EntitiesOfClass implements stdlib.Context (§4.5 find_class), sorted
// by targetname for deterministic iteration order across runs.
func (c *Context) EntitiesOfClass(class atom.Atom) []atom.Atom {
	var names []atom.Atom
	for name, ent := range c.mf.Entities {
		if ent.Classname == class {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i].String() < names[j].String() })
	return names
}

// CreateConnection implements stdlib.Context (§4.5 create_connection).
// from must already exist: every (entity, method) event context a
// connection can be emitted from was either hoisted before main runs
// (Auto/Relay, §4.4.2) or supplied explicitly by a Subscriber path
// that resolved successfully at code-gen time.
func (c *Context) CreateConnection(from, event, to, method atom.Atom, arg string, delay float64) {
	ent := c.mf.Entities[from]
	if ent == nil {
		panic(fmt.Sprintf("jit: create_connection from unresolved entity %q — hoisting invariant violated", from.String()))
	}
	ent.Connections = append(ent.Connections, mapfile.Connection{
		Event:  event,
		Entity: to,
		Method: method,
		Arg:    arg,
		Delay:  delay,
		// §9 Open Questions: "the once flag ... is always written as
		// false by generated code; no script syntax sets it."
		Once: false,
	})
}

// Rand implements stdlib.Context.
func (c *Context) Rand() *rand.Rand {
	return c.rng
}

// Print implements stdlib.Context (§4.5 print: "diagnostic"),
// prefixing output with the run's correlation id the way a
// multi-script compile log disambiguates which script a given line
// came from.
func (c *Context) Print(args []string) {
	fmt.Fprintf(c.out, "[%s] %s\n", c.RunID, strings.Join(args, " "))
}
