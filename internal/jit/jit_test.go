package jit_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/codegen"
	"github.com/leops/hatchet/internal/jit"
	"github.com/leops/hatchet/internal/mapfile"
	"github.com/leops/hatchet/internal/script/parser"
	"github.com/leops/hatchet/internal/stdlib"
)

// compileAndRun parses src, lowers it, and runs it against mf, the
// way an outer driver's apply(map, script) call would (§1 PURPOSE &
// SCOPE). Every §8 end-to-end scenario is expressed in terms of this
// one helper.
func compileAndRun(t *testing.T, mf *mapfile.MapFile, src string) *bytes.Buffer {
	t.Helper()
	script, errs := parser.ParseScript("test.hct", src)
	require.Empty(t, errs, "parse errors: %v", errs)

	registry, err := stdlib.NewDefaultRegistry()
	require.NoError(t, err)

	gen := codegen.New("test.hct", registry)
	res := gen.Generate(script)
	require.Empty(t, gen.Diagnostics(), "codegen diagnostics: %v", gen.Diagnostics())

	var out bytes.Buffer
	require.NoError(t, jit.Run(mf, res, registry, 0, &out))
	return &out
}

// Scenario 1: Auto relay.
func TestScenarioAutoRelay(t *testing.T) {
	mf := mapfile.NewMapFile()
	mf.Entities[atom.From("button")] = &mapfile.Entity{
		Classname:  atom.From("prop"),
		Targetname: atom.From("button"),
		Properties: map[atom.Atom]string{},
	}

	compileAndRun(t, mf, `auto { button:Press() }`)

	auto, ok := mf.Entities[atom.EmptyEntity]
	require.True(t, ok, "expected logic_auto entity to be hoisted")
	require.Equal(t, atom.LogicAuto, auto.Classname)
	require.Len(t, auto.Connections, 1)

	conn := auto.Connections[0]
	require.Equal(t, atom.OnMapSpawn, conn.Event)
	require.Equal(t, atom.From("button"), conn.Entity)
	require.Equal(t, atom.From("Press"), conn.Method)
	require.Equal(t, 0.0, conn.Delay)
	require.False(t, conn.Once)
}

// Scenario 2: a for-in loop over range() unrolls into N identical
// connections at runtime, in order.
func TestScenarioLoopUnrolledAtRuntime(t *testing.T) {
	mf := mapfile.NewMapFile()
	mf.Entities[atom.From("out")] = &mapfile.Entity{
		Classname:  atom.From("prop"),
		Targetname: atom.From("out"),
		Properties: map[atom.Atom]string{},
	}

	compileAndRun(t, mf, `auto { for i in range(0.0, 3.0) { out:Fire() } }`)

	auto := mf.Entities[atom.EmptyEntity]
	require.NotNil(t, auto)
	require.Len(t, auto.Connections, 3)
	for _, conn := range auto.Connections {
		require.Equal(t, atom.OnMapSpawn, conn.Event)
		require.Equal(t, atom.From("out"), conn.Entity)
		require.Equal(t, atom.From("Fire"), conn.Method)
	}
}

// Scenario 3: entity creation and wiring.
func TestScenarioEntityCreationAndWiring(t *testing.T) {
	mf := mapfile.NewMapFile()

	compileAndRun(t, mf, `auto { let e = create("e1","prop_dynamic") e:Enable() }`)

	ent, ok := mf.Entities[atom.From("e1")]
	require.True(t, ok)
	require.Equal(t, atom.From("prop_dynamic"), ent.Classname)
	require.Equal(t, atom.From("e1"), ent.Targetname)

	auto := mf.Entities[atom.EmptyEntity]
	require.NotNil(t, auto)
	require.Len(t, auto.Connections, 1)
	require.Equal(t, atom.From("e1"), auto.Connections[0].Entity)
	require.Equal(t, atom.From("Enable"), auto.Connections[0].Method)
}

// Scenario 4: property read/write, including sub-component
// preservation on the write side.
func TestScenarioPropertyReadWrite(t *testing.T) {
	mf := mapfile.NewMapFile()
	mf.Entities[atom.From("src")] = &mapfile.Entity{
		Classname:  atom.From("info"),
		Targetname: atom.From("src"),
		Properties: map[atom.Atom]string{atom.From("origin"): "1 2 3"},
	}
	mf.Entities[atom.From("dst")] = &mapfile.Entity{
		Classname:  atom.From("info"),
		Targetname: atom.From("dst"),
		Properties: map[atom.Atom]string{atom.From("origin"): "4 5 6"},
	}

	compileAndRun(t, mf, `auto { let v = src.origin.y dst.origin.z = v }`)

	dst := mf.Entities[atom.From("dst")]
	origin, ok := dst.GetProperty(atom.From("origin"))
	require.True(t, ok)
	require.Equal(t, "4 5 2", origin)
}

// Scenario 5: instance method path atomizes "instance:<ent>;<method>".
func TestScenarioInstanceMethod(t *testing.T) {
	mf := mapfile.NewMapFile()
	mf.Entities[atom.From("inst")] = &mapfile.Entity{
		Classname:  atom.From("func_instance"),
		Targetname: atom.From("inst"),
		Properties: map[atom.Atom]string{},
	}

	compileAndRun(t, mf, `auto { inst:sub.Toggle() }`)

	auto := mf.Entities[atom.EmptyEntity]
	require.NotNil(t, auto)
	require.Len(t, auto.Connections, 1)
	require.Equal(t, atom.From("inst"), auto.Connections[0].Entity)
	require.Equal(t, "instance:sub;Toggle", auto.Connections[0].Method.String())
}

// Scenario 6: fused multiply-add folds a*b+c into one call instead of
// a separate mul and add; observed indirectly through print()'s
// output, since the VM has no instruction-count probe of its own.
func TestScenarioFusedMultiplyAdd(t *testing.T) {
	mf := mapfile.NewMapFile()

	out := compileAndRun(t, mf, `auto { let a = 2 let b = 3 let c = 4 let d = a*b + c print(d) }`)
	require.Contains(t, out.String(), "10")
}

// Boundary: an empty script compiles to a main that only returns.
func TestEmptyScriptCompiles(t *testing.T) {
	mf := mapfile.NewMapFile()
	compileAndRun(t, mf, ``)
	require.Empty(t, mf.Entities)
}

// Boundary: delay 0 nested inside delay T produces effective delay T.
func TestNestedZeroDelayIsAdditive(t *testing.T) {
	mf := mapfile.NewMapFile()
	mf.Entities[atom.From("out")] = &mapfile.Entity{
		Classname:  atom.From("prop"),
		Targetname: atom.From("out"),
		Properties: map[atom.Atom]string{},
	}

	compileAndRun(t, mf, `auto { delay 5 { delay 0 { out:Fire() } } }`)

	auto := mf.Entities[atom.EmptyEntity]
	require.NotNil(t, auto)
	require.Len(t, auto.Connections, 1)
	require.Equal(t, 5.0, auto.Connections[0].Delay)
}

// Boundary: range(5, 0) produces zero iterations (entry condition
// fails on first test).
func TestDescendingRangeIsEmpty(t *testing.T) {
	mf := mapfile.NewMapFile()
	mf.Entities[atom.From("out")] = &mapfile.Entity{
		Classname:  atom.From("prop"),
		Targetname: atom.From("out"),
		Properties: map[atom.Atom]string{},
	}

	compileAndRun(t, mf, `auto { for i in range(5.0, 0.0) { out:Fire() } }`)

	auto := mf.Entities[atom.EmptyEntity]
	require.NotNil(t, auto)
	require.Empty(t, auto.Connections)
}

// Invariant: a Relay synthesizes its logic_relay entity before any
// statement of the block runs, even one in an earlier top-level
// statement that fires the relay before its own declaration appears
// lexically later in the script.
func TestRelayHoistedBeforeUse(t *testing.T) {
	mf := mapfile.NewMapFile()

	compileAndRun(t, mf, `
		auto { rel:Trigger() }
		relay rel { print("fired") }
	`)

	rel, ok := mf.Entities[atom.From("rel")]
	require.True(t, ok)
	require.Equal(t, atom.LogicRelay, rel.Classname)
}

// clone() synthesizes "<old>_<n>" and bumps the clones counter.
func TestCloneSynthesizesName(t *testing.T) {
	mf := mapfile.NewMapFile()
	mf.Entities[atom.From("orig")] = &mapfile.Entity{
		Classname:  atom.From("prop"),
		Targetname: atom.From("orig"),
		Properties: map[atom.Atom]string{atom.From("health"): "100"},
	}

	compileAndRun(t, mf, `auto { let c = clone("orig") }`)

	clone, ok := mf.Entities[atom.From("orig_1")]
	require.True(t, ok)
	require.Equal(t, atom.From("prop"), clone.Classname)
	health, _ := clone.GetProperty(atom.From("health"))
	require.Equal(t, "100", health)
}

// remove() purges connections targeting the removed entity from every
// other entity.
func TestRemovePurgesIncomingConnections(t *testing.T) {
	mf := mapfile.NewMapFile()
	mf.Entities[atom.From("victim")] = &mapfile.Entity{
		Classname:  atom.From("prop"),
		Targetname: atom.From("victim"),
		Properties: map[atom.Atom]string{},
	}
	mf.Entities[atom.From("keeper")] = &mapfile.Entity{
		Classname:  atom.From("prop"),
		Targetname: atom.From("keeper"),
		Properties: map[atom.Atom]string{},
		Connections: []mapfile.Connection{
			{Event: atom.OnTrigger, Entity: atom.From("victim"), Method: atom.Trigger},
			{Event: atom.OnTrigger, Entity: atom.From("keeper"), Method: atom.Trigger},
		},
	}

	compileAndRun(t, mf, `auto { remove("victim") }`)

	_, ok := mf.Entities[atom.From("victim")]
	require.False(t, ok)
	keeper := mf.Entities[atom.From("keeper")]
	require.Len(t, keeper.Connections, 1)
	require.Equal(t, atom.From("keeper"), keeper.Connections[0].Entity)
}
