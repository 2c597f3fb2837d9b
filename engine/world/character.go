package world

import (
	"github.com/nathoo/runecore/engine/coords"
	"github.com/nathoo/runecore/engine/property"
	"github.com/nathoo/runecore/engine/resolve"
	"github.com/nathoo/runecore/engine/stats"
)

// Character is the player: a position, base stats, and named ad-hoc
// buff modifiers. It has no entity type; its calculated stats come from
// base values plus buffs only.
type Character struct {
	Position *coords.Coordinates
	Base     *stats.Stats
	buffs    []namedBuff
}

// namedBuff pairs a buff property with the name used to remove it.
type namedBuff struct {
	name string
	prop property.Property
}

// NewCharacter creates a character owning the given position and stats.
func NewCharacter(pos *coords.Coordinates, base *stats.Stats) *Character {
	return &Character{Position: pos, Base: base}
}

// GetPosition returns the position value for a dimension index.
func (c *Character) GetPosition(index int) (float64, bool) {
	return c.Position.Get(index)
}

// GetPositionByLabel returns the position value for an axis label.
func (c *Character) GetPositionByLabel(label string) (float64, bool) {
	return c.Position.GetByLabel(label)
}

// SetPosition assigns the position value for a dimension index.
func (c *Character) SetPosition(index int, value float64) error {
	return c.Position.Set(index, value)
}

// MoveToward moves the character toward a target by at most maxDistance.
func (c *Character) MoveToward(target *coords.Coordinates, maxDistance float64) error {
	return c.Position.MoveToward(target, maxDistance)
}

// DistanceTo returns the distance to another character.
func (c *Character) DistanceTo(other *Character) (float64, error) {
	return c.Position.DistanceTo(other.Position)
}

// AddBuff attaches a named ad-hoc modifier. Re-adding under the same
// name replaces the previous buff.
func (c *Character) AddBuff(name string, p property.Property) {
	c.RemoveBuff(name)
	c.buffs = append(c.buffs, namedBuff{name: name, prop: p})
}

// RemoveBuff detaches a named buff.
func (c *Character) RemoveBuff(name string) bool {
	for i, b := range c.buffs {
		if b.name == name {
			c.buffs = append(c.buffs[:i], c.buffs[i+1:]...)
			return true
		}
	}
	return false
}

// Buffs returns the attached buff properties in attach order.
func (c *Character) Buffs() []property.Property {
	out := make([]property.Property, len(c.buffs))
	for i, b := range c.buffs {
		out[i] = b.prop
	}
	return out
}

// Stats resolves the character's calculated stats in a context.
func (c *Character) Stats(ctx string, flags map[string]bool) (*resolve.CalculatedStats, error) {
	es := property.EvalState{Flags: flags, Stats: c.Base}
	return resolve.Calculate(c.Base, nil, nil, ctx, es, c.Buffs()...)
}
