// Package resolve implements the stat calculation pipeline: folding the
// applicable properties of an entity type, its tags, and ad-hoc
// modifiers onto base stats to produce final values.
package resolve

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nathoo/runecore/engine/entity"
	"github.com/nathoo/runecore/engine/property"
	"github.com/nathoo/runecore/engine/stats"
	"github.com/nathoo/runecore/engine/tags"
)

// ErrUnknownStat is returned when a stat has no base value and no
// applicable modifier supplies one.
var ErrUnknownStat = errors.New("unknown stat")

// Stat folds the given ordered property list onto the base value of one
// stat. The list must already be filtered by context; this function
// filters to StatModifier properties matching name whose conditions are
// satisfied.
//
// Additive modifiers fold first, left to right, then multiplicative
// modifiers apply to the additive result, left to right, in the same
// traversal order. The two-pass ordering is the documented tie-break:
// identical inputs always produce identical results.
func Stat(name string, base *stats.Stats, props []property.Property, es property.EvalState) (stats.Value, error) {
	var applicable []property.Property
	for _, p := range props {
		if p.Kind == property.StatModifier && p.Stat == name && p.IsSatisfied(es) {
			applicable = append(applicable, p)
		}
	}

	value, ok := base.Get(name)
	if !ok {
		if len(applicable) == 0 {
			return stats.Value{}, fmt.Errorf("%w: %q", ErrUnknownStat, name)
		}
		// No base value: the first modifier's kind seeds the fold.
		value = applicable[0].Value.Zero()
	}

	for _, p := range applicable {
		if p.Mode() == property.ModeMultiply {
			continue
		}
		next, err := value.Add(p.Value)
		if err != nil {
			return stats.Value{}, fmt.Errorf("stat %q: %w", name, err)
		}
		value = next
	}

	for _, p := range applicable {
		if p.Mode() != property.ModeMultiply {
			continue
		}
		next, err := value.Multiply(p.Value)
		if err != nil {
			return stats.Value{}, fmt.Errorf("stat %q: %w", name, err)
		}
		value = next
	}

	return value, nil
}

// CalculatedStats holds final stat values after modifier resolution,
// plus the ability names granted by applicable properties. It is derived
// state: recompute it after base stats or modifiers change.
type CalculatedStats struct {
	values    map[string]stats.Value
	abilities []string
}

// Get returns the final value for a stat.
func (c *CalculatedStats) Get(name string) (stats.Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// GetInt returns the integer payload of a final stat value.
func (c *CalculatedStats) GetInt(name string) (int64, bool) {
	if v, ok := c.values[name]; ok {
		return v.Int()
	}
	return 0, false
}

// GetFloat returns the float payload of a final stat value.
func (c *CalculatedStats) GetFloat(name string) (float64, bool) {
	if v, ok := c.values[name]; ok {
		return v.Float()
	}
	return 0, false
}

// GetBool returns the boolean payload of a final stat value.
func (c *CalculatedStats) GetBool(name string) (bool, bool) {
	if v, ok := c.values[name]; ok {
		return v.Bool()
	}
	return false, false
}

// GetText returns the text payload of a final stat value.
func (c *CalculatedStats) GetText(name string) (string, bool) {
	if v, ok := c.values[name]; ok {
		return v.Text()
	}
	return "", false
}

// Names returns all resolved stat names in sorted order.
func (c *CalculatedStats) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasAbility reports whether an ability was granted.
func (c *CalculatedStats) HasAbility(name string) bool {
	for _, a := range c.abilities {
		if a == name {
			return true
		}
	}
	return false
}

// Abilities returns granted ability names in grant order, deduplicated.
func (c *CalculatedStats) Abilities() []string {
	out := make([]string, len(c.abilities))
	copy(out, c.abilities)
	return out
}

// Calculate resolves every stat visible through base values and
// modifiers. The ordered property list is: the entity type's own
// properties, then tag-contributed properties (tag-reference order,
// intra-tag order), then the ad-hoc extras, all filtered by context.
//
// et may be nil (an entity with no template, such as the player
// character). When es.Stats or es.TagIDs are unset they default to base
// and the template's tag references. Base stats are never mutated.
func Calculate(base *stats.Stats, et *entity.Type, coll *tags.Collection, ctx string, es property.EvalState, extra ...property.Property) (*CalculatedStats, error) {
	var props []property.Property
	if et != nil {
		props = et.AllPropertiesInContext(coll, ctx)
	}
	for _, p := range extra {
		if p.AppliesIn(ctx) {
			props = append(props, p)
		}
	}

	if es.Stats == nil {
		es.Stats = base
	}
	if es.TagIDs == nil && et != nil {
		es.TagIDs = map[int]bool{}
		for _, id := range et.TagIDs() {
			es.TagIDs[id] = true
		}
	}

	names := base.Names()
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	// A modifier-only stat exists only while a satisfied modifier backs
	// it; a dormant conditional contributes nothing.
	for _, p := range props {
		if p.Kind == property.StatModifier && !seen[p.Stat] && p.IsSatisfied(es) {
			seen[p.Stat] = true
			names = append(names, p.Stat)
		}
	}

	out := &CalculatedStats{values: make(map[string]stats.Value, len(names))}
	for _, name := range names {
		v, err := Stat(name, base, props, es)
		if err != nil {
			return nil, err
		}
		out.values[name] = v
	}

	granted := map[string]bool{}
	for _, p := range props {
		if p.Kind != property.Ability || !p.IsSatisfied(es) {
			continue
		}
		if !granted[p.Name] {
			granted[p.Name] = true
			out.abilities = append(out.abilities, p.Name)
		}
	}

	return out, nil
}
