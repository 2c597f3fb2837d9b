package world

import (
	"github.com/nathoo/runecore/engine/coords"
	"github.com/nathoo/runecore/engine/entity"
	"github.com/nathoo/runecore/engine/property"
	"github.com/nathoo/runecore/engine/resolve"
	"github.com/nathoo/runecore/engine/stats"
)

// NPC behavior states.
const (
	BehaviorIdle   = "idle"
	BehaviorPursue = "pursue"
)

// NPC is a non-player entity: a position, base stats, a weak reference
// to its entity type (by ID, resolved through Defs on demand), and
// simple behavior bookkeeping.
type NPC struct {
	ID            string
	Type          string // entity type ID; never a direct pointer
	Position      *coords.Coordinates
	Base          *stats.Stats
	Behavior      string
	StatusEffects []string
}

// NewNPC creates an idle NPC owning the given position and stats.
func NewNPC(id, typeID string, pos *coords.Coordinates, base *stats.Stats) *NPC {
	return &NPC{
		ID:       id,
		Type:     typeID,
		Position: pos,
		Base:     base,
		Behavior: BehaviorIdle,
	}
}

// EntityType resolves the NPC's template. A missing template is
// tolerated: the NPC simply has no tag or type properties.
func (n *NPC) EntityType(defs *Defs) (*entity.Type, bool) {
	return defs.EntityType(n.Type)
}

// Stats resolves the NPC's calculated stats in a context, folding in the
// properties of its entity type and that type's tags.
func (n *NPC) Stats(defs *Defs, ctx string, flags map[string]bool) (*resolve.CalculatedStats, error) {
	et, _ := n.EntityType(defs)
	es := property.EvalState{Flags: flags, Stats: n.Base}
	return resolve.Calculate(n.Base, et, defs.Tags, ctx, es)
}

// DistanceTo returns the distance to another NPC.
func (n *NPC) DistanceTo(other *NPC) (float64, error) {
	return n.Position.DistanceTo(other.Position)
}

// TakeDamage lowers the hp base stat, flooring at zero. Returns true
// when the NPC is defeated. NPCs without an integer hp stat ignore
// damage.
func (n *NPC) TakeDamage(amount int64) bool {
	hp, ok := n.Base.GetInt("hp")
	if !ok {
		return false
	}
	hp -= amount
	if hp < 0 {
		hp = 0
	}
	n.Base.SetInt("hp", hp)
	return hp == 0
}

// AddStatusEffect records a status effect once.
func (n *NPC) AddStatusEffect(effect string) {
	if n.HasStatusEffect(effect) {
		return
	}
	n.StatusEffects = append(n.StatusEffects, effect)
}

// RemoveStatusEffect clears a status effect.
func (n *NPC) RemoveStatusEffect(effect string) {
	for i, e := range n.StatusEffects {
		if e == effect {
			n.StatusEffects = append(n.StatusEffects[:i], n.StatusEffects[i+1:]...)
			return
		}
	}
}

// HasStatusEffect reports whether a status effect is active.
func (n *NPC) HasStatusEffect(effect string) bool {
	for _, e := range n.StatusEffects {
		if e == effect {
			return true
		}
	}
	return false
}
