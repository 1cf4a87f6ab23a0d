package mapfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leops/hatchet/internal/atom"
)

// fieldSep is the canonical connection wire-field separator.
const fieldSep = "\x1b"

// legacySep is accepted on input for maps produced before the
// separator was switched to 0x1B; only 0x1B is ever written out
// (§4.2 and Design Note "Legacy connection values...").
const legacySep = ","

// splitFields splits a raw connection value on 0x1B, falling back to
// ',' only when no 0x1B byte is present at all.
func splitFields(value string) []string {
	if strings.Contains(value, fieldSep) {
		return strings.Split(value, fieldSep)
	}
	return strings.Split(value, legacySep)
}

// parseConnectionArg re-parses the raw "arg" wire field: a numeric
// literal is canonicalized by round-tripping through float64, a
// quoted string has its quotes stripped, anything else yields "".
func parseConnectionArg(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		return trimmed[1 : len(trimmed)-1]
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return FormatFloat(f)
	}
	return ""
}

// FormatFloat is the single canonical f64->string used for connection
// args assigned from number literals, to_string(f64), and serialized
// connection delays.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseConnection decodes a "connections" block property (event key,
// raw wire value) into a Connection (§4.2 "Connection parsing").
func ParseConnection(event atom.Atom, value string) (Connection, error) {
	fields := splitFields(value)
	if len(fields) != 5 {
		return Connection{}, fmt.Errorf("mapfile: connection value %q: expected 5 fields, got %d", value, len(fields))
	}

	delay, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return Connection{}, fmt.Errorf("mapfile: connection value %q: invalid delay: %w", value, err)
	}

	return Connection{
		Event:  event,
		Entity: atom.From(fields[0]),
		Method: atom.From(fields[1]),
		Arg:    parseConnectionArg(fields[2]),
		Delay:  delay,
		Once:   strings.TrimSpace(fields[4]) == "1",
	}, nil
}

// Encode formats a Connection as its canonical wire value, always
// using 0x1B as the separator (§6 Output format).
func (c Connection) Encode() string {
	once := "-1"
	if c.Once {
		once = "1"
	}
	return strings.Join([]string{
		c.Entity.String(),
		c.Method.String(),
		c.Arg,
		FormatFloat(c.Delay),
		once,
	}, fieldSep)
}
