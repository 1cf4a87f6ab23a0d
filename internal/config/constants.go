// Package config holds compile-time constants shared across the
// Hatchet toolchain: recognized file extensions, well-known names, and
// the version string. Grounded on funxy's internal/config/constants.go.
package config

// Version is the current Hatchet toolchain version, patchable at build
// time via -ldflags "-X .../internal/config.Version=...".
var Version = "0.1.0"

const SourceFileExt = ".hct"

// SourceFileExtensions are all recognized script source extensions.
var SourceFileExtensions = []string{".hct", ".hatchet"}

// MapFileExtension is the recognized map document extension.
const MapFileExtension = ".vmap"

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// Standard-library function names, as registered in the stdlib
// externals registry.
const (
	FuncLength           = "length"
	FuncToString         = "to_string"
	FuncCreate           = "create"
	FuncClone            = "clone"
	FuncRemove           = "remove"
	FuncFind             = "find"
	FuncFindClass        = "find_class"
	FuncConcat           = "concat"
	FuncParse            = "parse"
	FuncGetProperty      = "get_property"
	FuncSetProperty      = "set_property"
	FuncGetSubProperty   = "get_sub_property"
	FuncSetSubProperty   = "set_sub_property"
	FuncGetInstance      = "get_instance"
	FuncCreateConnection = "create_connection"
	FuncPrint            = "print"
	FuncRand             = "rand"
)

// ReservedWords are script keywords; none may be used as identifiers.
var ReservedWords = map[string]bool{
	"auto":  true,
	"relay": true,
	"delay": true,
	"while": true,
	"for":   true,
	"in":    true,
	"if":    true,
	"else":  true,
	"let":   true,
}
