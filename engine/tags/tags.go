// Package tags implements named, identified bundles of properties and
// the Collection registry that owns them. Entity types reference tags by
// numeric ID only; the collection is the single owner.
package tags

import (
	"sort"

	"github.com/nathoo/runecore/engine/property"
)

// Tag is a named, reusable bundle of properties. IDs are assigned by the
// owning Collection and never reused while the tag exists.
type Tag struct {
	ID         int
	Name       string
	Properties []property.Property
	Metadata   map[string]string
}

// AddProperty appends a property to the tag.
func (t *Tag) AddProperty(p property.Property) {
	t.Properties = append(t.Properties, p)
}

// SetMetadata stores a metadata key on the tag.
func (t *Tag) SetMetadata(key, value string) {
	if t.Metadata == nil {
		t.Metadata = map[string]string{}
	}
	t.Metadata[key] = value
}

// PropertiesInContext returns the tag's properties that apply in the
// given context, in insertion order.
func (t *Tag) PropertiesInContext(ctx string) []property.Property {
	var out []property.Property
	for _, p := range t.Properties {
		if p.AppliesIn(ctx) {
			out = append(out, p)
		}
	}
	return out
}

// Collection owns all tags, keyed by ID. The ID space is a monotonically
// increasing counter starting at 1; removal never frees an ID for reuse.
type Collection struct {
	tags   map[int]*Tag
	byName map[string]int
	nextID int
}

// NewCollection creates an empty tag registry.
func NewCollection() *Collection {
	return &Collection{
		tags:   map[int]*Tag{},
		byName: map[string]int{},
		nextID: 1,
	}
}

// AddTag allocates the next ID, registers an empty tag under it, and
// returns the ID. Names are not required to be unique; the name index
// keeps the first registration.
func (c *Collection) AddTag(name string) int {
	id := c.nextID
	c.nextID++
	c.tags[id] = &Tag{ID: id, Name: name}
	if _, taken := c.byName[name]; !taken {
		c.byName[name] = id
	}
	return id
}

// Get returns the tag registered under id.
func (c *Collection) Get(id int) (*Tag, bool) {
	t, ok := c.tags[id]
	return t, ok
}

// GetByName returns the first tag registered under name.
func (c *Collection) GetByName(name string) (*Tag, bool) {
	id, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.tags[id], true
}

// Remove deletes a tag. Entity types referencing the ID keep the stale
// reference; lookups through the collection simply miss, which resolvers
// treat as "contributes nothing". If the removed tag held the name
// index, the oldest surviving tag with the same name takes it over.
func (c *Collection) Remove(id int) bool {
	t, ok := c.tags[id]
	if !ok {
		return false
	}
	delete(c.tags, id)
	if c.byName[t.Name] == id {
		delete(c.byName, t.Name)
		// With duplicate names, the oldest surviving tag takes over
		// the name index.
		next := 0
		for tid, other := range c.tags {
			if other.Name == t.Name && (next == 0 || tid < next) {
				next = tid
			}
		}
		if next != 0 {
			c.byName[t.Name] = next
		}
	}
	return true
}

// InContext returns all tags having at least one property that applies
// in the given context, in ascending ID order.
func (c *Collection) InContext(ctx string) []*Tag {
	var out []*Tag
	for _, t := range c.tags {
		for _, p := range t.Properties {
			if p.AppliesIn(ctx) {
				out = append(out, t)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every tag in ascending ID order.
func (c *Collection) All() []*Tag {
	out := make([]*Tag, 0, len(c.tags))
	for _, t := range c.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of registered tags.
func (c *Collection) Count() int {
	return len(c.tags)
}
