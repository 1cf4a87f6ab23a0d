// Package hatchet is the public entry point the spec's §1 scope recap
// describes: "the core exposes Apply(mapFile, script) -> mapFile".
// file discovery, instance recursion and the CLI driver built on top
// are a thin reference implementation of that contract, not
// load-bearing for the core engine's own test surface.
package hatchet

import (
	"fmt"
	"io"

	"github.com/leops/hatchet/internal/codegen"
	"github.com/leops/hatchet/internal/diag"
	"github.com/leops/hatchet/internal/jit"
	"github.com/leops/hatchet/internal/mapfile"
	"github.com/leops/hatchet/internal/script/parser"
	"github.com/leops/hatchet/internal/stdlib"
)

// Apply parses scriptSrc (tagged as file for diagnostics), lowers it,
// and runs it against mf, mutating mf's entity table in place (§4.6).
// The returned diagnostics include every warning raised during parsing
// and code generation regardless of outcome. When parsing or code
// generation fails, at least one of them is a fatal (Severity ==
// diag.Error) diagnostic describing why; a failure while running the
// script is reported through err alone.
func Apply(mf *mapfile.MapFile, file, scriptSrc string, registry *stdlib.Registry, seed uint64, out io.Writer) ([]*diag.Diagnostic, error) {
	script, errs := parser.ParseScript(file, scriptSrc)
	if len(errs) > 0 {
		diags := make([]*diag.Diagnostic, 0, len(errs))
		for _, e := range errs {
			diags = append(diags, diag.New(diag.StageParse, file, 0, 0, 0, "%s", e))
		}
		return diags, fmt.Errorf("hatchet: %d parse error(s) in %s", len(errs), file)
	}

	gen := codegen.New(file, registry)
	res := gen.Generate(script)
	diags := gen.Diagnostics()
	if hasFatal(diags) {
		return diags, fmt.Errorf("hatchet: code generation failed for %s", file)
	}

	if err := jit.Run(mf, res, registry, seed, out); err != nil {
		return diags, fmt.Errorf("hatchet: %w", err)
	}
	return diags, nil
}

func hasFatal(diags []*diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}
