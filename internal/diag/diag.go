// Package diag implements Hatchet's diagnostic reporting: typed parse,
// name-resolution, type, and standard-library errors carrying enough
// context (offset/line/column, and the offending construct) to locate
// the failure, plus a terminal-aware renderer.
//
// Shape mirrors funxy's error reporting: typed errors with position
// info (see internal/parser/parser_errors_test.go and
// internal/vm/vm_errors_test.go), rendered with colour gated on
// isatty, the way the teacher's term builtins do.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Severity distinguishes fatal diagnostics from advisory warnings.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Stage identifies which compiler phase raised the diagnostic, per the
// error taxonomy in spec §7.
type Stage int

const (
	StageParse Stage = iota
	StageResolve
	StageType
	StageStdlib
	StageBackend
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageResolve:
		return "resolve"
	case StageType:
		return "type"
	case StageStdlib:
		return "stdlib"
	case StageBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Severity Severity
	Stage    Stage
	File     string
	Offset   int
	Line     int
	Column   int
	Message  string
}

func (d *Diagnostic) Error() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s: %s", d.Stage, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s: %s", d.File, d.Line, d.Column, d.Stage, d.Severity, d.Message)
}

// New builds a fatal Diagnostic for the given stage.
func New(stage Stage, file string, offset, line, column int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: Error,
		Stage:    stage,
		File:     file,
		Offset:   offset,
		Line:     line,
		Column:   column,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warn builds an advisory Diagnostic. Per spec §7, the only standing
// warnings are a missing or unparseable logic_hatchet seed (assumed 0)
// and nested subscriber blocks.
func Warn(stage Stage, file string, line, column int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: Warning,
		Stage:    stage,
		File:     file,
		Line:     line,
		Column:   column,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Reporter renders diagnostics to a writer, colouring them when the
// underlying descriptor is a real terminal.
type Reporter struct {
	Out    io.Writer
	colour bool
}

// NewReporter builds a Reporter writing to w. If w is *os.File and
// connected to a terminal, diagnostics are coloured.
func NewReporter(w io.Writer) *Reporter {
	colour := false
	if f, ok := w.(*os.File); ok {
		colour = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{Out: w, colour: colour}
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// Report writes a single diagnostic.
func (r *Reporter) Report(d *Diagnostic) {
	if !r.colour {
		fmt.Fprintln(r.Out, d.Error())
		return
	}
	colour := ansiRed
	if d.Severity == Warning {
		colour = ansiYellow
	}
	fmt.Fprintf(r.Out, "%s%s%s\n", colour, d.Error(), ansiReset)
}
