package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leops/hatchet/internal/ir"
	"github.com/leops/hatchet/internal/script/parser"
	"github.com/leops/hatchet/internal/stdlib"
)

func mustGenerate(t *testing.T, src string) *Result {
	t.Helper()
	script, errs := parser.ParseScript("test.hct", src)
	require.Empty(t, errs, "parse errors: %v", errs)

	g := New("test.hct", stdlib.NewRegistry())
	res := g.Generate(script)
	require.Empty(t, g.Diagnostics(), "unexpected diagnostics: %v", g.Diagnostics())
	return res
}

// constStrings collects every string-kinded constant pool entry, which
// covers both literal strings and the external names OpCallExternal's
// index operand points into.
func constStrings(chunk *ir.Chunk) map[string]bool {
	out := make(map[string]bool)
	for _, c := range chunk.Constants {
		if c.Kind == ir.KindString {
			out[c.Str] = true
		}
	}
	return out
}

// ops walks chunk.Code and returns every opcode it contains, skipping
// each instruction's operand bytes so a coincidental operand value
// never gets mistaken for an opcode.
func ops(chunk *ir.Chunk) []ir.Opcode {
	var out []ir.Opcode
	code := chunk.Code
	for i := 0; i < len(code); {
		op := ir.Opcode(code[i])
		out = append(out, op)
		switch op {
		case ir.OpConst, ir.OpGetLocal, ir.OpSetLocal, ir.OpJump, ir.OpJumpIfFalse, ir.OpLoop, ir.OpMakeArray, ir.OpMakeObject:
			i += 3
		case ir.OpCallExternal:
			i += 4
		default:
			i++
		}
	}
	return out
}

func containsOp(chunk *ir.Chunk, want ir.Opcode) bool {
	for _, op := range ops(chunk) {
		if op == want {
			return true
		}
	}
	return false
}

// A single trailing segment after ':' is a direct trigger: entity and
// method come straight from the path, with no get_instance wrapping.
func TestStaticTriggerDirectCall(t *testing.T) {
	res := mustGenerate(t, `auto { button:Press() }`)
	strs := constStrings(res.Chunk)
	require.True(t, strs["button"], "constants: %v", strs)
	require.True(t, strs["Press"], "constants: %v", strs)
	require.False(t, strs["instance:Press;Trigger"], "direct call should not be wrapped through get_instance: %v", strs)
}

// Two or more trailing segments after ':' name a method nested inside
// the instance, atomized as "instance:<subject>;<method>".
func TestStaticTriggerInstanceMethod(t *testing.T) {
	res := mustGenerate(t, `auto { inst:sub.Toggle() }`)
	strs := constStrings(res.Chunk)
	require.True(t, strs["instance:sub;Toggle"], "constants: %v", strs)
}

// A plain dotted path (no ':') behaves like the one-segment colon case.
func TestStaticTriggerDotPath(t *testing.T) {
	res := mustGenerate(t, `auto { out.Fire() }`)
	strs := constStrings(res.Chunk)
	require.True(t, strs["out"], "constants: %v", strs)
	require.True(t, strs["Fire"], "constants: %v", strs)
}

// a*b+c (and c+a*b) fold into a single fmuladd external call instead
// of separate multiply/add instructions.
func TestFusedMultiplyAddFolds(t *testing.T) {
	for _, src := range []string{
		`auto { let a = 1 let b = 2 let c = 3 let d = a*b + c }`,
		`auto { let a = 1 let b = 2 let c = 3 let d = c + a*b }`,
	} {
		res := mustGenerate(t, src)
		strs := constStrings(res.Chunk)
		require.True(t, strs["fmuladd"], "constants: %v", strs)
		require.False(t, containsOp(res.Chunk, ir.OpMul), "a*b should not also lower to a separate OpMul instruction")
	}
}

// to_string() on a literal number constant-folds at compile time
// rather than emitting a runtime call (§4.4.5).
func TestToStringFoldsNumberLiteral(t *testing.T) {
	res := mustGenerate(t, `auto { let s = to_string(42) print(s) }`)
	strs := constStrings(res.Chunk)
	require.False(t, strs["to_string"], "to_string(number literal) should fold at compile time: %v", strs)
	require.True(t, strs["42"], "expected the folded string constant \"42\": %v", strs)
}

// to_string() on a non-literal expression still emits a runtime call.
func TestToStringRuntimeCallForNonLiteral(t *testing.T) {
	res := mustGenerate(t, `auto { let a = 1 let s = to_string(a) print(s) }`)
	strs := constStrings(res.Chunk)
	require.True(t, strs["to_string"], "constants: %v", strs)
}

// Relay names are hoisted regardless of where in the script they're
// declared relative to their first use.
func TestHoistCollectsRelayNamesInFirstSeenOrder(t *testing.T) {
	res := mustGenerate(t, `
		auto { rel_b:Trigger() rel_a:Trigger() }
		relay rel_a { }
		relay rel_b { }
	`)
	require.Equal(t, []string{"rel_a", "rel_b"}, res.RelayNames)
}

func TestHoistDetectsAuto(t *testing.T) {
	res := mustGenerate(t, `auto { }`)
	require.True(t, res.HasAuto)

	res = mustGenerate(t, `relay r { }`)
	require.False(t, res.HasAuto)
}

// declareLocal must hand out a fresh slot every time, even across
// forked sibling scopes, since the VM's locals array is one flat
// slice shared by the whole chunk: two sibling scopes reusing slot 0
// (e.g. a Delay block's "$delay" and an Iterator's "$iter_array_*"
// declared at the same nesting depth) would alias each other's
// storage.
func TestDeclareLocalNeverReusesSlotsAcrossForkedScopes(t *testing.T) {
	c := &chunkBuilder{gen: New("test.hct", stdlib.NewRegistry()), chunk: ir.NewChunk("test.hct")}
	root := newRootScope()

	a := c.declareLocal(root.fork(), "$delay")
	b := c.declareLocal(root.fork(), "$iter_array_i")
	require.NotEqual(t, a, b, "sibling scopes must not be handed the same slot")
	require.Equal(t, 2, c.maxSlot)
}
