package stdlib

import (
	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/ir"
	"github.com/leops/hatchet/internal/mapfile"
)

// argString coerces any Value to its string rendering, mirroring the
// code generator's own numeric-to-string coercion (§4.4.2 Assignment
// lowering: "value is coerced to String via to_string for f64") so
// externals never have to special-case the caller's static type.
func argString(v ir.Value) string {
	switch v.Kind {
	case ir.KindString:
		return v.Str
	case ir.KindNumber:
		return mapfile.FormatFloat(v.Number)
	case ir.KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ir.KindAtom, ir.KindEntity:
		return v.Atom.String()
	default:
		return ""
	}
}

// argAtom coerces a Value carrying an entity/atom handle or a string
// naming one into an atom.Atom, interning on first use.
func argAtom(v ir.Value) atom.Atom {
	switch v.Kind {
	case ir.KindAtom, ir.KindEntity:
		return v.Atom
	case ir.KindString:
		return atom.From(v.Str)
	default:
		return atom.Invalid
	}
}

// resolveEntity fetches the entity named by args[i], failing fn's
// call with a category-4 standard-library error (§7) if it does not
// exist.
func resolveEntity(ctx Context, fn string, args []ir.Value, i int) *mapfile.Entity {
	name := argAtom(args[i])
	ent := ctx.Entity(name)
	if ent == nil {
		fail(fn, "no such entity %q", name.String())
	}
	return ent
}
