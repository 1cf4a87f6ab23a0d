package hatchet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/diag"
	"github.com/leops/hatchet/internal/mapfile"
	"github.com/leops/hatchet/internal/stdlib"
)

// Build is the reference outer-driver implementation (SPEC_FULL.md §4
// "Supplemented features"): parse the map at path, apply every
// logic_hatchet script it carries in declaration order, recursively
// Build every func_instance it references the same way, and — only if
// any script actually ran — write the transformed map to a sibling
// ".hct" directory, matching the original leops/hatchet main.rs
// build() function's "don't touch files with nothing to compile"
// behavior.
//
// Build returns the path a caller (or an enclosing instance) should
// now reference: path itself, unchanged, when mf carries no scripts;
// the freshly written file under path's ".hct" sibling directory
// otherwise. A map with no scripts is returned at once: the
// func_instances it references are not built either.
func Build(path string, registry *stdlib.Registry, diagOut io.Writer) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hatchet: reading %s: %w", path, err)
	}

	blocks, err := mapfile.Parse(path, string(src))
	if err != nil {
		return "", fmt.Errorf("hatchet: parsing %s: %w", path, err)
	}
	mf, warnings, err := mapfile.Normalize(path, blocks)
	if err != nil {
		return "", fmt.Errorf("hatchet: normalizing %s: %w", path, err)
	}
	reportAll(diagOut, warnings)

	if len(mf.Scripts) == 0 {
		return path, nil
	}

	dir := filepath.Dir(path)
	for _, ref := range mf.Scripts {
		scriptPath := filepath.Join(dir, ref.Script)
		scriptSrc, err := os.ReadFile(scriptPath)
		if err != nil {
			return "", fmt.Errorf("hatchet: reading script %s: %w", scriptPath, err)
		}

		diags, err := Apply(mf, scriptPath, string(scriptSrc), registry, ref.Seed, diagOut)
		reportAll(diagOut, diags)
		if err != nil {
			return "", err
		}
	}

	for i := range mf.Instances {
		if err := buildInstance(dir, &mf.Instances[i], registry, diagOut); err != nil {
			return "", err
		}
	}
	for i := range mf.Instances {
		applyInstanceRewrite(mf, &mf.Instances[i], i)
	}

	outDir := filepath.Join(dir, ".hct")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("hatchet: creating %s: %w", outDir, err)
	}
	outPath := filepath.Join(outDir, filepath.Base(path))
	if err := os.WriteFile(outPath, []byte(mapfile.Serialize(mf)), 0o644); err != nil {
		return "", fmt.Errorf("hatchet: writing %s: %w", outPath, err)
	}
	return outPath, nil
}

// buildInstance resolves a single instance reference by walking up
// from baseDir the way the original compiler's find_instance did, then
// recursively Builds the map it names. If that recursive build
// produced a new file, inst.File is rewritten to InstCompiled with a
// path still relative to the directory the instance was found in
// (mirroring the original's `result.strip_prefix(&base)`), so a
// reference that worked before compilation keeps working after.
func buildInstance(baseDir string, inst *mapfile.Instance, registry *stdlib.Registry, diagOut io.Writer) error {
	if inst.File.Kind != mapfile.InstOriginal || inst.File.Path == "" {
		return nil
	}

	instDir, instPath, ok := findInstance(baseDir, inst.File.Path)
	if !ok {
		return fmt.Errorf("hatchet: instance file %q not found above %s", inst.File.Path, baseDir)
	}

	result, err := Build(instPath, registry, diagOut)
	if err != nil {
		return err
	}
	if result == instPath {
		return nil
	}

	rel, err := filepath.Rel(instDir, result)
	if err != nil {
		return fmt.Errorf("hatchet: relativizing %s against %s: %w", result, instDir, err)
	}
	inst.File = mapfile.InstFile{Kind: mapfile.InstCompiled, Path: filepath.ToSlash(rel)}
	return nil
}

// findInstance walks up from dir looking for target, nearest ancestor
// first — the same algorithm the original driver credited to VBSP's
// instance resolution, rather than a flat same-directory lookup.
func findInstance(dir, target string) (base, path string, ok bool) {
	for {
		candidate := filepath.Join(dir, target)
		if _, err := os.Stat(candidate); err == nil {
			return dir, candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", false
		}
		dir = parent
	}
}

// applyInstanceRewrite folds a recompiled instance's outcome back into
// mf so Serialize emits it correctly (SPEC_FULL.md §4): a named
// func_instance's "file" property is updated on its existing Entity in
// mf.Entities; an anonymous one never entered mf.Entities (§4.2
// normalization only stores entities that HasTargetname), so it is
// filed under a synthetic key here purely so the shared Serialize walk
// emits it — its Targetname stays atom.Invalid, so it still renders
// without a targetname, exactly as it would have unmodified.
func applyInstanceRewrite(mf *mapfile.MapFile, inst *mapfile.Instance, idx int) {
	var ent *mapfile.Entity
	switch inst.Entity.Kind {
	case mapfile.EntNamed:
		ent = mf.Entities[inst.Entity.Name]
	case mapfile.EntAnon:
		ent = inst.Entity.Entity
		mf.Entities[atom.From(fmt.Sprintf("__anon_instance_%d", idx))] = ent
	}
	if ent == nil || inst.File.Kind != mapfile.InstCompiled {
		return
	}
	ent.SetProperty(atom.File, inst.File.Path)
}

func reportAll(w io.Writer, diags []*diag.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	r := diag.NewReporter(w)
	for _, d := range diags {
		r.Report(d)
	}
}
