package mapfile

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/leops/hatchet/internal/atom"
	"github.com/leops/hatchet/internal/diag"
)

// Normalize reduces a flat block list (as produced by Parse) into a
// MapFile, diverting logic_hatchet and func_instance entities per
// §4.2 "Normalization to MapFile". The reduction fans data-parallel
// over independent chunks of the block list with errgroup (§5: block
// normalization is pure, and merging partial results is associative),
// then folds the partials back together in original order.
func Normalize(file string, blocks []Block) (*MapFile, []*diag.Diagnostic, error) {
	if len(blocks) == 0 {
		return NewMapFile(), nil, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(blocks) {
		workers = len(blocks)
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (len(blocks) + workers - 1) / workers
	numChunks := (len(blocks) + chunkSize - 1) / chunkSize

	partials := make([]*MapFile, numChunks)
	warningsPerChunk := make([][]*diag.Diagnostic, numChunks)

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < numChunks; i++ {
		i := i
		start := i * chunkSize
		end := start + chunkSize
		if end > len(blocks) {
			end = len(blocks)
		}
		chunk := blocks[start:end]
		g.Go(func() error {
			mf, warnings, err := normalizeChunk(file, chunk)
			if err != nil {
				return err
			}
			partials[i] = mf
			warningsPerChunk[i] = warnings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := NewMapFile()
	var warnings []*diag.Diagnostic
	for i := 0; i < numChunks; i++ {
		mergeMapFiles(out, partials[i])
		warnings = append(warnings, warningsPerChunk[i]...)
	}
	return out, warnings, nil
}

// normalizeChunk normalizes a contiguous run of top-level blocks into
// a standalone MapFile; chunks are merged sequentially afterwards.
func normalizeChunk(file string, blocks []Block) (*MapFile, []*diag.Diagnostic, error) {
	mf := NewMapFile()
	var warnings []*diag.Diagnostic

	for _, block := range blocks {
		if block.Name != atom.Entity {
			mf.Nodes = append(mf.Nodes, block)
			continue
		}

		ent, scriptRef, scriptWarn, err := entityFromBlock(file, &block)
		if err != nil {
			return nil, nil, err
		}
		if scriptWarn != nil {
			warnings = append(warnings, scriptWarn)
		}

		switch {
		case scriptRef != nil:
			mf.Scripts = append(mf.Scripts, *scriptRef)

		case ent.Classname == atom.FuncInstance:
			path, _ := ent.GetProperty(atom.File)
			inst := Instance{File: InstFile{Kind: InstOriginal, Path: path}}
			if ent.HasTargetname() {
				name := ent.Targetname
				mf.Entities[name] = ent
				inst.Entity = EntRef{Kind: EntNamed, Name: name}
			} else {
				inst.Entity = EntRef{Kind: EntAnon, Entity: ent}
			}
			mf.Instances = append(mf.Instances, inst)

		case ent.HasTargetname():
			mf.Entities[ent.Targetname] = ent

		default:
			mf.Nodes = append(mf.Nodes, block)
		}
	}

	return mf, warnings, nil
}

// entityFromBlock extracts an Entity from an "entity" block, diverting
// logic_hatchet payloads into a ScriptRef instead.
func entityFromBlock(file string, block *Block) (*Entity, *ScriptRef, *diag.Diagnostic, error) {
	ent := &Entity{Properties: make(map[atom.Atom]string)}

	for _, p := range block.Properties {
		switch p.Key {
		case atom.Classname:
			ent.Classname = atom.From(p.Value)
		case atom.Targetname:
			if p.Value != "" {
				ent.Targetname = atom.From(p.Value)
			}
		default:
			ent.Properties[p.Key] = p.Value
		}
	}

	for _, child := range block.Blocks {
		if child.Name == atom.Connections {
			for _, p := range child.Properties {
				conn, err := ParseConnection(p.Key, p.Value)
				if err != nil {
					return nil, nil, nil, err
				}
				ent.Connections = append(ent.Connections, conn)
			}
		} else {
			ent.Body = append(ent.Body, child)
		}
	}

	if ent.Classname != atom.LogicHatchet {
		return ent, nil, nil, nil
	}

	scriptPath, ok := ent.GetProperty(atom.Script)
	if !ok {
		return nil, nil, nil, errf("mapfile: logic_hatchet entity missing \"script\" property")
	}

	var seed uint64
	var warn *diag.Diagnostic
	seedStr, hasSeed := ent.GetProperty(atom.Seed)
	if hasSeed {
		if parsed, err := strconv.ParseUint(seedStr, 10, 64); err == nil {
			seed = parsed
		} else {
			warn = diag.Warn(diag.StageParse, file, 0, 0, "logic_hatchet: invalid seed %q, assuming 0", seedStr)
		}
	} else {
		warn = diag.Warn(diag.StageParse, file, 0, 0, "logic_hatchet: missing seed, assuming 0")
	}

	return nil, &ScriptRef{Script: scriptPath, Seed: seed}, warn, nil
}

// mergeMapFiles folds src into dst in place. Merging is associative:
// node/script/instance order is preserved by processing chunks in
// their original left-to-right order, and entity maps merge key-wise.
func mergeMapFiles(dst, src *MapFile) {
	dst.Nodes = append(dst.Nodes, src.Nodes...)
	dst.Scripts = append(dst.Scripts, src.Scripts...)
	dst.Instances = append(dst.Instances, src.Instances...)
	for k, v := range src.Entities {
		dst.Entities[k] = v
	}
}

func errf(format string, args ...interface{}) error {
	return &ParseError{diag.New(diag.StageParse, "", 0, 0, 0, format, args...)}
}
