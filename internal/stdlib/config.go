package stdlib

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed attrs.yaml
var defaultAttrsYAML []byte

// AttrOverlay is the YAML shape of a standard-library attribute
// overlay: external name -> list of hint-flag names. Grounded on
// funxy's internal/ext/config.go, which layers a YAML dependency
// config over code-generated defaults the same way.
type AttrOverlay map[string][]string

// ParseAttrOverlay decodes a YAML attribute overlay document.
func ParseAttrOverlay(data []byte) (AttrOverlay, error) {
	var overlay AttrOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("stdlib: parsing attribute overlay: %w", err)
	}
	return overlay, nil
}

func attrFromName(name string) (Attr, bool) {
	switch name {
	case "readnone":
		return ReadNone, true
	case "readonly":
		return ReadOnly, true
	case "argmemonly":
		return ArgMemOnly, true
	default:
		return 0, false
	}
}

// ApplyAttrOverlay overlays hint flags onto r's already-registered
// externals (§4.5 "Attributes on declared externals"). Unknown
// external names or flag names are reported rather than silently
// ignored, matching funxy's strict YAML config validation
// (internal/ext/config_test.go).
func (r *Registry) ApplyAttrOverlay(overlay AttrOverlay) error {
	for name, flags := range overlay {
		ext, ok := r.byName[name]
		if !ok {
			return fmt.Errorf("stdlib: attribute overlay names unknown external %q", name)
		}
		var attrs Attr
		for _, f := range flags {
			a, ok := attrFromName(f)
			if !ok {
				return fmt.Errorf("stdlib: unknown attribute %q for external %q", f, name)
			}
			attrs |= a
		}
		ext.Attrs = attrs
	}
	return nil
}

// NewDefaultRegistry builds the standard registry and applies the
// embedded default attribute overlay on top of it.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	overlay, err := ParseAttrOverlay(defaultAttrsYAML)
	if err != nil {
		return nil, err
	}
	if err := r.ApplyAttrOverlay(overlay); err != nil {
		return nil, err
	}
	return r, nil
}
