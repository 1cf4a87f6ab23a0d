package mapfile

import (
	"sort"
	"strings"

	"github.com/leops/hatchet/internal/atom"
)

// Serialize renders a MapFile back into the map grammar (§6 Output
// format): the untouched nodes first, then every entity (each a
// self-contained "entity { ... }" block with a trailing "connections"
// child), in a deterministic, round-trippable order.
func Serialize(mf *MapFile) string {
	var b strings.Builder
	for _, node := range mf.Nodes {
		writeBlock(&b, &node, 0)
	}

	names := make([]atom.Atom, 0, len(mf.Entities))
	for name := range mf.Entities {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].String() < names[j].String() })

	for _, name := range names {
		block := entityToBlock(mf.Entities[name])
		writeBlock(&b, &block, 0)
	}

	return b.String()
}

// entityToBlock converts an Entity back to its raw Block form, per
// §6: properties, optional targetname, classname, body blocks, then a
// trailing "connections" block.
func entityToBlock(e *Entity) Block {
	keys := make([]atom.Atom, 0, len(e.Properties))
	for k := range e.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	props := make([]Property, 0, len(keys)+2)
	for _, k := range keys {
		props = append(props, Property{Key: k, Value: e.Properties[k]})
	}
	if e.HasTargetname() {
		props = append(props, Property{Key: atom.Targetname, Value: e.Targetname.String()})
	}
	props = append(props, Property{Key: atom.Classname, Value: e.Classname.String()})

	blocks := append([]Block(nil), e.Body...)

	connProps := make([]Property, 0, len(e.Connections))
	for _, c := range e.Connections {
		connProps = append(connProps, Property{Key: c.Event, Value: c.Encode()})
	}
	blocks = append(blocks, Block{Name: atom.Connections, Properties: connProps})

	return Block{Name: atom.Entity, Properties: props, Blocks: blocks}
}

func writeBlock(b *strings.Builder, block *Block, indent int) {
	writeIndent(b, indent)
	b.WriteString(block.Name.String())
	b.WriteString(" {\n")
	for _, p := range block.Properties {
		writeIndent(b, indent+1)
		b.WriteString(quoteValue(p.Key.String()))
		b.WriteByte(' ')
		b.WriteString(quoteValue(p.Value))
		b.WriteByte('\n')
	}
	for _, c := range block.Blocks {
		writeBlock(b, &c, indent+1)
	}
	writeIndent(b, indent)
	b.WriteString("}\n")
}

// quoteValue quotes a raw property value. Map property values never
// contain embedded double quotes (§6), so a minimal quote-wrap is
// always the grammar-correct, textually-identical rendering.
func quoteValue(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	b.WriteString(v)
	b.WriteByte('"')
	return b.String()
}

func writeIndent(b *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte('\t')
	}
}
