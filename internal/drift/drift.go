// Package drift computes presence drift between a version's frozen
// schema snapshot and the current live schema of the same content type.
package drift

import (
	"github.com/chroniclehq/chronicle/internal/models"
)

// Component sub-fields are expanded up to this depth; anything nested
// deeper is treated as a single opaque field.
const maxComponentDepth = 3

// UnknownAttributes reports attributes that exist in only one of the
// two schemas. Added holds attributes present in live but not frozen;
// Removed holds attributes present in frozen but not live. Attributes
// present in both are never reported, regardless of type changes.
func UnknownAttributes(frozen, live models.AttributeMap) models.SchemaDiff {
	frozenFlat := make(map[string]models.Attribute)
	liveFlat := make(map[string]models.Attribute)
	flatten("", frozen, 0, frozenFlat)
	flatten("", live, 0, liveFlat)

	diff := models.SchemaDiff{
		Added:   make(map[string]models.Attribute),
		Removed: make(map[string]models.Attribute),
	}

	for path, attr := range liveFlat {
		if _, ok := frozenFlat[path]; !ok {
			diff.Added[path] = attr
		}
	}

	for path, attr := range frozenFlat {
		if _, ok := liveFlat[path]; !ok {
			diff.Removed[path] = attr
		}
	}

	return diff
}

// flatten records every attribute under its dotted path, descending
// into component sub-fields until maxComponentDepth.
func flatten(prefix string, attrs models.AttributeMap, depth int, out map[string]models.Attribute) {
	for name, attr := range attrs {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		if len(attr.Attributes) > 0 && depth < maxComponentDepth {
			// Record the component itself without its sub-fields so a
			// wholesale removal is reported once at the parent path.
			out[path] = models.Attribute{Type: attr.Type, Required: attr.Required}
			flatten(path, attr.Attributes, depth+1, out)

			continue
		}

		out[path] = attr
	}
}
