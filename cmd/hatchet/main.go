// Command hatchet is the reference CLI driver (SPEC_FULL.md §2 AMBIENT
// STACK): it parses os.Args directly, the way funxy's own
// cmd/funxy/main.go does (no flag-parsing framework appears anywhere
// in the teacher's dependency graph), and mirrors the original
// leops/hatchet Rust driver's progress/timing output.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leops/hatchet/internal/config"
	"github.com/leops/hatchet/internal/stdlib"
	"github.com/leops/hatchet/pkg/hatchet"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "hatchet %s\n", config.Version)
		fmt.Fprintf(os.Stderr, "usage: %s <map file>...\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	registry, err := stdlib.NewDefaultRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hatchet: loading standard library: %s\n", err)
		os.Exit(1)
	}

	failed := false
	for _, arg := range os.Args[1:] {
		if err := transform(arg, registry); err != nil {
			fmt.Fprintf(os.Stderr, "hatchet: %s\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// transform runs one map file through the driver, printing the same
// "Transforming ... / transformed in Ns Nms" progress lines as the
// original main.rs.
func transform(argument string, registry *stdlib.Registry) error {
	path := argument
	if !strings.HasSuffix(path, config.MapFileExtension) {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + config.MapFileExtension
	}

	fmt.Printf("Transforming file %s ...\n", path)
	start := time.Now()

	if _, err := hatchet.Build(path, registry, os.Stderr); err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("Map %s transformed in %ds %dms\n", path, int(elapsed.Seconds()), elapsed.Milliseconds()%1000)
	return nil
}
