package mapfile

import "github.com/leops/hatchet/internal/atom"

// Property is a single key/value pair inside a Block, as read straight
// off the wire (§3 Map IR: Property).
type Property struct {
	Key   atom.Atom
	Value string
}

// Block is a raw node of the map grammar (§4.2): a name followed by a
// brace-delimited body of properties and nested blocks, in source
// order.
type Block struct {
	Name       atom.Atom
	Properties []Property
	Blocks     []Block
}

// Get returns the value of the first property named key, and whether
// it was present.
func (b *Block) Get(key atom.Atom) (string, bool) {
	for _, p := range b.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ChildrenNamed returns the child blocks with the given name, in order.
func (b *Block) ChildrenNamed(name atom.Atom) []Block {
	var out []Block
	for _, c := range b.Blocks {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
