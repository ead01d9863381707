package drift_test

import (
	"testing"

	"github.com/chroniclehq/chronicle/internal/drift"
	"github.com/chroniclehq/chronicle/internal/models"
)

func TestAddedAndRemoved(t *testing.T) {
	frozen := models.AttributeMap{
		"a": {Type: "string"},
		"b": {Type: "string"},
	}
	live := models.AttributeMap{
		"b": {Type: "string"},
		"c": {Type: "integer"},
	}

	diff := drift.UnknownAttributes(frozen, live)

	if len(diff.Added) != 1 {
		t.Fatalf("Added has %d entries, want 1", len(diff.Added))
	}
	if _, ok := diff.Added["c"]; !ok {
		t.Error("Added missing key c")
	}
	if len(diff.Removed) != 1 {
		t.Fatalf("Removed has %d entries, want 1", len(diff.Removed))
	}
	if _, ok := diff.Removed["a"]; !ok {
		t.Error("Removed missing key a")
	}
}

func TestIgnoresTypeChanges(t *testing.T) {
	frozen := models.AttributeMap{"title": {Type: "string"}}
	live := models.AttributeMap{"title": {Type: "richtext"}}

	diff := drift.UnknownAttributes(frozen, live)

	if len(diff.Added) != 0 || len(diff.Removed) != 0 {
		t.Errorf("type-only change reported: added=%v removed=%v", diff.Added, diff.Removed)
	}
}

func TestIdenticalSchemas(t *testing.T) {
	schema := models.AttributeMap{
		"title": {Type: "string", Required: true},
		"body":  {Type: "richtext"},
	}

	diff := drift.UnknownAttributes(schema, schema)

	if len(diff.Added) != 0 || len(diff.Removed) != 0 {
		t.Errorf("identical schemas reported drift: added=%v removed=%v", diff.Added, diff.Removed)
	}
}

func TestComponentSubFields(t *testing.T) {
	frozen := models.AttributeMap{
		"seo": {Type: "component", Attributes: models.AttributeMap{
			"title":    {Type: "string"},
			"keywords": {Type: "string"},
		}},
	}
	live := models.AttributeMap{
		"seo": {Type: "component", Attributes: models.AttributeMap{
			"title":       {Type: "string"},
			"description": {Type: "text"},
		}},
	}

	diff := drift.UnknownAttributes(frozen, live)

	if _, ok := diff.Added["seo.description"]; !ok {
		t.Errorf("Added = %v, want seo.description", diff.Added)
	}
	if _, ok := diff.Removed["seo.keywords"]; !ok {
		t.Errorf("Removed = %v, want seo.keywords", diff.Removed)
	}
	if _, ok := diff.Removed["seo.title"]; ok {
		t.Error("seo.title present in both schemas but reported removed")
	}
	if _, ok := diff.Removed["seo"]; ok {
		t.Error("seo component present in both schemas but reported removed")
	}
}

func TestComponentRemovedWholesale(t *testing.T) {
	frozen := models.AttributeMap{
		"meta": {Type: "component", Attributes: models.AttributeMap{
			"author": {Type: "string"},
		}},
	}
	live := models.AttributeMap{}

	diff := drift.UnknownAttributes(frozen, live)

	if _, ok := diff.Removed["meta"]; !ok {
		t.Errorf("Removed = %v, want meta", diff.Removed)
	}
	if _, ok := diff.Removed["meta.author"]; !ok {
		t.Errorf("Removed = %v, want meta.author", diff.Removed)
	}
}

func TestNestingDepthLimit(t *testing.T) {
	// Four levels deep: expansion stops after three, so the deepest
	// map is compared as one opaque field.
	deep := func(leaf string) models.AttributeMap {
		return models.AttributeMap{
			"l1": {Type: "component", Attributes: models.AttributeMap{
				"l2": {Type: "component", Attributes: models.AttributeMap{
					"l3": {Type: "component", Attributes: models.AttributeMap{
						"l4": {Type: "component", Attributes: models.AttributeMap{
							leaf: {Type: "string"},
						}},
					}},
				}},
			}},
		}
	}

	diff := drift.UnknownAttributes(deep("a"), deep("b"))

	if _, ok := diff.Added["l1.l2.l3.l4.b"]; ok {
		t.Error("leaf beyond depth limit was expanded")
	}
	// The l4 component differs as an opaque value only by its children,
	// and presence comparison sees it in both schemas.
	if _, ok := diff.Removed["l1.l2.l3.l4"]; ok {
		t.Error("opaque nested field present in both schemas but reported removed")
	}
}

func TestPure(t *testing.T) {
	frozen := models.AttributeMap{"a": {Type: "string"}}
	live := models.AttributeMap{"b": {Type: "string"}}

	first := drift.UnknownAttributes(frozen, live)
	second := drift.UnknownAttributes(frozen, live)

	if len(first.Added) != len(second.Added) || len(first.Removed) != len(second.Removed) {
		t.Error("repeated calls with identical inputs disagree")
	}
	if _, ok := frozen["b"]; ok {
		t.Error("input map mutated")
	}
}
