// Package atom implements process-wide interning of short identifiers
// (map keys, entity classnames, event names) into fixed-width handles
// with O(1) equality.
package atom

import "sync"

// Atom is an opaque, cheaply-cloned handle to an interned string.
// Two atoms compare equal iff they were interned from equal strings.
type Atom uint32

// Invalid is the zero value; it never aliases a real interned string.
const Invalid Atom = 0

type table struct {
	mu      sync.RWMutex
	byText  map[string]Atom
	byAtom  []string
}

var global = newTable()

func newTable() *table {
	t := &table{
		byText: make(map[string]Atom, 256),
		byAtom: make([]string, 1, 256), // index 0 reserved for Invalid
	}
	return t
}

// From interns s and returns its handle, reusing an existing handle
// if s was already interned.
func From(s string) Atom {
	global.mu.RLock()
	if a, ok := global.byText[s]; ok {
		global.mu.RUnlock()
		return a
	}
	global.mu.RUnlock()

	global.mu.Lock()
	defer global.mu.Unlock()
	// Re-check: another goroutine may have interned s while we waited
	// for the write lock.
	if a, ok := global.byText[s]; ok {
		return a
	}
	a := Atom(len(global.byAtom))
	global.byAtom = append(global.byAtom, s)
	global.byText[s] = a
	return a
}

// String returns the original text an atom was interned from.
func (a Atom) String() string {
	global.mu.RLock()
	defer global.mu.RUnlock()
	if int(a) >= len(global.byAtom) {
		return ""
	}
	return global.byAtom[a]
}

// IsValid reports whether a is a real interned handle.
func (a Atom) IsValid() bool {
	return a != Invalid
}

// well-known atoms, reserved at package init so that equality against
// them is always a handle compare rather than a first-use intern.
var (
	File         = From("file")
	Entity       = From("entity")
	Connections  = From("connections")
	LogicHatchet = From("logic_hatchet")
	Script       = From("script")
	Seed         = From("seed")
	FuncInstance = From("func_instance")
	Targetname   = From("targetname")
	Classname    = From("classname")
	LogicRelay   = From("logic_relay")
	LogicAuto    = From("logic_auto")

	X = From("x")
	Y = From("y")
	Z = From("z")
	W = From("w")
	R = From("r")
	G = From("g")
	B = From("b")
	A = From("a")

	Pitch = From("pitch")
	Yaw   = From("yaw")
	Roll  = From("roll")

	Trigger     = From("Trigger")
	OnMapSpawn  = From("OnMapSpawn")
	OnTrigger   = From("OnTrigger")

	EmptyEntity = From("")
)
