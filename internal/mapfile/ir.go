package mapfile

import "github.com/leops/hatchet/internal/atom"

// Connection models "when event fires on this entity, invoke method on
// target entity with argument after delay" (§3 Map IR: Connection).
type Connection struct {
	Event  atom.Atom
	Entity atom.Atom
	Method atom.Atom
	Arg    string
	Delay  float64
	Once   bool
}

// Entity is a named (or anonymous) object in the map: a class, a
// property bag, an ordered connection list, and any non-connection
// child blocks it carried (§3 Map IR: Entity).
type Entity struct {
	Classname   atom.Atom
	Targetname  atom.Atom // atom.Invalid means anonymous
	Properties  map[atom.Atom]string
	Connections []Connection
	Body        []Block

	// Clones is a monotonic counter bumped by the stdlib clone()
	// primitive to synthesize unique entity names ("<old>_<n>").
	Clones uint64
}

// HasTargetname reports whether this entity carries a real targetname.
func (e *Entity) HasTargetname() bool {
	return e.Targetname.IsValid()
}

// GetProperty reads a property, returning ("", false) if absent.
func (e *Entity) GetProperty(key atom.Atom) (string, bool) {
	if e.Properties == nil {
		return "", false
	}
	v, ok := e.Properties[key]
	return v, ok
}

// SetProperty writes (or overwrites) a property.
func (e *Entity) SetProperty(key atom.Atom, value string) {
	if e.Properties == nil {
		e.Properties = make(map[atom.Atom]string)
	}
	e.Properties[key] = value
}

// Clone deep-copies an entity's mutable state. The caller is
// responsible for assigning the clone a fresh Targetname.
func (e *Entity) Clone() Entity {
	out := Entity{
		Classname: e.Classname,
		Clones:    0,
	}
	if e.Properties != nil {
		out.Properties = make(map[atom.Atom]string, len(e.Properties))
		for k, v := range e.Properties {
			out.Properties[k] = v
		}
	}
	if e.Connections != nil {
		out.Connections = append([]Connection(nil), e.Connections...)
	}
	if e.Body != nil {
		out.Body = append([]Block(nil), e.Body...)
	}
	return out
}

// InstFileKind distinguishes an instance reference that still points
// at its original source map from one that was recompiled and now
// points at the compiled output.
type InstFileKind int

const (
	InstOriginal InstFileKind = iota
	InstCompiled
)

// InstFile is a file reference carried by an Instance (§3 Map IR: Instance).
type InstFile struct {
	Kind InstFileKind
	Path string
}

// EntRefKind distinguishes a named instance entity (also present in
// MapFile.Entities) from an anonymous one owned solely by the Instance.
type EntRefKind int

const (
	EntNamed EntRefKind = iota
	EntAnon
)

// EntRef is the entity an Instance spawns.
type EntRef struct {
	Kind   EntRefKind
	Name   atom.Atom // valid when Kind == EntNamed
	Entity *Entity   // valid when Kind == EntAnon
}

// Instance is a func_instance reference to another map file, to be
// inlined by the (out-of-scope) outer driver at compile time.
type Instance struct {
	File   InstFile
	Entity EntRef
}

// ScriptRef is a logic_hatchet entity's payload: a path to a Hatchet
// script to compile against this map, plus its RNG seed.
type ScriptRef struct {
	Script string
	Seed   uint64
}

// MapFile is the normalized intermediate representation of a parsed
// map document (§3 Map IR: MapFile).
type MapFile struct {
	// Nodes are unnamed/unowned blocks passed through verbatim.
	Nodes []Block
	// Entities is keyed by targetname; every value has a targetname
	// equal to its key (invariant 1 in §3).
	Entities map[atom.Atom]*Entity
	Scripts  []ScriptRef
	// Instances is kept in the order its func_instance blocks appear in
	// the source; it is not sorted by file path, and instances naming
	// the same file are not merged.
	Instances []Instance
}

// NewMapFile returns an empty MapFile ready for normalization into.
func NewMapFile() *MapFile {
	return &MapFile{Entities: make(map[atom.Atom]*Entity)}
}
