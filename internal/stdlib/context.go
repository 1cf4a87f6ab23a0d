package stdlib

import (
	"math/rand"

	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/mapfile"
)

// Context is the execution context every standard-library external
// receives as its implicit first argument (§4.7 Execution Context).
// The jit package's concrete Context implements this against a live
// *mapfile.MapFile; stdlib only depends on the narrow surface its
// externals actually call, the way funxy's builtins depend on
// evaluator.Environment rather than the whole VM.
type Context interface {
	// Entity resolves name to its live entity, or nil if none exists.
	Entity(name atom.Atom) *mapfile.Entity

	// CreateEntity allocates and inserts a new named entity with the
	// given classname, returning its name atom.
	CreateEntity(name, class atom.Atom) atom.Atom

	// CloneEntity deep-copies name's entity under a synthesized
	// "<name>_<n>" targetname (§4.5 clone: "new name based on clones
	// counter"), returning the clone's name, or ok=false if name does
	// not exist.
	CloneEntity(name atom.Atom) (clone atom.Atom, ok bool)

	// RemoveEntity deletes name's entity and purges every connection
	// targeting it from every remaining entity (§4.5 remove).
	RemoveEntity(name atom.Atom)

	// EntitiesOfClass returns, in deterministic order, the name atoms
	// of every entity whose classname is class.
	EntitiesOfClass(class atom.Atom) []atom.Atom

	// CreateConnection appends a Connection to from's connection list.
	CreateConnection(from, event, to, method atom.Atom, arg string, delay float64)

	// Rand returns the per-run PRNG seeded from the script's declared
	// seed (§4.6 step 5).
	Rand() *rand.Rand

	// Print renders args to the diagnostic channel (§4.5 print).
	Print(args []string)
}
