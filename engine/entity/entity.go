// Package entity defines EntityType, a template describing a class of
// in-game entity. Templates reference tags by ID (weak references through
// the owning tags.Collection) and carry their own properties.
package entity

import (
	"github.com/nathoo/runecore/engine/property"
	"github.com/nathoo/runecore/engine/tags"
)

// Type is an entity template. Tag references are stored in the order
// they were added; adding the same ID twice has no additional effect.
type Type struct {
	ID          string
	Name        string
	Description string
	Category    string
	tagIDs      []int
	Properties  []property.Property
}

// New creates a template with the given unique key and display name.
func New(id, name string) *Type {
	return &Type{ID: id, Name: name}
}

// WithDescription sets the description and returns the template.
func (t *Type) WithDescription(desc string) *Type {
	t.Description = desc
	return t
}

// WithCategory sets the category and returns the template.
func (t *Type) WithCategory(category string) *Type {
	t.Category = category
	return t
}

// WithTagID appends a tag reference if absent. Idempotent.
func (t *Type) WithTagID(id int) *Type {
	if !t.HasTagID(id) {
		t.tagIDs = append(t.tagIDs, id)
	}
	return t
}

// WithTagName resolves (or registers) a tag by name in the collection
// and references it.
func (t *Type) WithTagName(name string, coll *tags.Collection) *Type {
	if tag, ok := coll.GetByName(name); ok {
		return t.WithTagID(tag.ID)
	}
	return t.WithTagID(coll.AddTag(name))
}

// HasTagID reports whether the template references the tag ID.
func (t *Type) HasTagID(id int) bool {
	for _, ref := range t.tagIDs {
		if ref == id {
			return true
		}
	}
	return false
}

// TagIDs returns a copy of the referenced tag IDs in reference order.
func (t *Type) TagIDs() []int {
	out := make([]int, len(t.tagIDs))
	copy(out, t.tagIDs)
	return out
}

// WithProperty appends a legacy key/value pair, normalized into a Custom
// property.
func (t *Type) WithProperty(key, value string) *Type {
	t.Properties = append(t.Properties, property.NewCustom(key, value))
	return t
}

// WithPropertyObject appends a property directly.
func (t *Type) WithPropertyObject(p property.Property) *Type {
	t.Properties = append(t.Properties, p)
	return t
}

// GetProperty returns the first Custom property stored under key.
func (t *Type) GetProperty(key string) (property.Property, bool) {
	for _, p := range t.Properties {
		if p.Kind == property.Custom && p.Stat == key {
			return p, true
		}
	}
	return property.Property{}, false
}

// GetPropertyValue returns the text value of the first Custom property
// stored under key.
func (t *Type) GetPropertyValue(key string) (string, bool) {
	p, ok := t.GetProperty(key)
	if !ok {
		return "", false
	}
	return p.Name, true
}

// Tags resolves the referenced IDs through the collection, in reference
// order. Unresolvable IDs are skipped silently.
func (t *Type) Tags(coll *tags.Collection) []*tags.Tag {
	var out []*tags.Tag
	for _, id := range t.tagIDs {
		if tag, ok := coll.Get(id); ok {
			out = append(out, tag)
		}
	}
	return out
}

// TagPropertiesInContext collects the in-context properties of every
// resolvable referenced tag, concatenated in tag-reference order and
// tag-internal property order. Duplicate stat contributions are kept;
// the stat fold applies them all. Stale references to removed tags
// contribute nothing.
func (t *Type) TagPropertiesInContext(coll *tags.Collection, ctx string) []property.Property {
	var out []property.Property
	for _, tag := range t.Tags(coll) {
		out = append(out, tag.PropertiesInContext(ctx)...)
	}
	return out
}

// PropertiesInContext filters the template's own properties by context.
func (t *Type) PropertiesInContext(ctx string) []property.Property {
	var out []property.Property
	for _, p := range t.Properties {
		if p.AppliesIn(ctx) {
			out = append(out, p)
		}
	}
	return out
}

// AllPropertiesInContext returns own properties followed by tag
// properties, both filtered by context. This is the traversal order the
// stat fold depends on.
func (t *Type) AllPropertiesInContext(coll *tags.Collection, ctx string) []property.Property {
	out := t.PropertiesInContext(ctx)
	return append(out, t.TagPropertiesInContext(coll, ctx)...)
}
