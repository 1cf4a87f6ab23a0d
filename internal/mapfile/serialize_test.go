package mapfile

import (
	"strings"
	"testing"

	"github.com/leops/hatchet/internal/atom"
)

func TestSerializeRoundTripsThroughReparse(t *testing.T) {
	blocks := mustParse(t, `entity {
		"classname" "prop"
		"targetname" "button"
		"origin" "1 2 3"
		connections {
			"OnTrigger" "`+"target\x1bFire\x1bhello\x1b0.5\x1b-1"+`"
		}
	}`)
	mf, _, err := Normalize("test.vmap", blocks)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	out := Serialize(mf)

	blocks2, err := Parse("test.vmap", out)
	if err != nil {
		t.Fatalf("re-Parse of serialized output: %v\n%s", err, out)
	}
	mf2, _, err := Normalize("test.vmap", blocks2)
	if err != nil {
		t.Fatalf("re-Normalize: %v", err)
	}

	ent1 := mf.Entities[atom.From("button")]
	ent2 := mf2.Entities[atom.From("button")]
	if ent2 == nil {
		t.Fatalf("button entity missing after round trip")
	}
	if ent1.Classname != ent2.Classname {
		t.Fatalf("classname mismatch after round trip")
	}
	if len(ent1.Connections) != len(ent2.Connections) {
		t.Fatalf("connection count mismatch after round trip")
	}
	if ent1.Connections[0] != ent2.Connections[0] {
		t.Fatalf("connection mismatch after round trip: %+v vs %+v", ent1.Connections[0], ent2.Connections[0])
	}
}

func TestSerializeAlwaysEmitsControlByteSeparator(t *testing.T) {
	mf := NewMapFile()
	name := atom.From("e1")
	mf.Entities[name] = &Entity{
		Classname:  atom.From("prop"),
		Targetname: name,
		Connections: []Connection{
			{Event: atom.From("OnTrigger"), Entity: atom.From("e2"), Method: atom.From("Fire"), Delay: 0},
		},
	}
	out := Serialize(mf)
	if !strings.Contains(out, "e2\x1bFire\x1b\x1b0\x1b-1") {
		t.Fatalf("expected canonical 0x1B-separated connection value, got:\n%s", out)
	}
}
