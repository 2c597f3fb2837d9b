// Package world holds the immutable definitions produced by the loader
// and the mutable simulation state built from them: the player character,
// NPCs, flags, and the tick-driven update loop.
package world

import (
	"fmt"

	"github.com/nathoo/runecore/engine/coords"
	"github.com/nathoo/runecore/engine/entity"
	"github.com/nathoo/runecore/engine/stats"
	"github.com/nathoo/runecore/engine/tags"
)

// GameDef holds world metadata from Lua.
type GameDef struct {
	Title      string
	Version    string
	Author     string
	Dimensions int      // dimension count for every position in this world
	Labels     []string // optional axis labels, empty or len == Dimensions
}

// SpawnDef describes an NPC to create when the world starts.
type SpawnDef struct {
	ID       string
	Type     string // entity type ID
	Position []float64
	Base     *stats.Stats
	Behavior string // "" means idle
}

// PlayerDef seeds the player character.
type PlayerDef struct {
	Position []float64
	Base     *stats.Stats
}

// Defs holds the immutable world definitions loaded from Lua.
type Defs struct {
	Game        GameDef
	Tags        *tags.Collection
	EntityTypes map[string]*entity.Type
	Player      PlayerDef
	Spawns      []SpawnDef
}

// EntityType resolves an entity type ID.
func (d *Defs) EntityType(id string) (*entity.Type, bool) {
	et, ok := d.EntityTypes[id]
	return et, ok
}

// NewPosition builds coordinates of the world's dimensionality. values
// may be nil (all zeros) or must match the dimension count. World labels
// are applied when present.
func (d *Defs) NewPosition(values []float64) (*coords.Coordinates, error) {
	pos, err := coords.New(d.Game.Dimensions, values)
	if err != nil {
		return nil, err
	}
	if len(d.Game.Labels) > 0 {
		if err := pos.SetLabels(d.Game.Labels); err != nil {
			return nil, err
		}
	}
	return pos, nil
}

// World is the complete mutable simulation state. Single-threaded: one
// Update tick runs to completion before the next begins, and nothing in
// this package locks.
type World struct {
	Player     *Character
	NPCs       []*NPC
	Flags      map[string]bool   // condition evaluation flags
	Properties map[string]string // free-form game properties
	Tick       uint64
	GameTime   float64
}

// New creates the runtime state from definitions, spawning the player
// and every defined NPC.
func New(defs *Defs) (*World, error) {
	playerPos, err := defs.NewPosition(defs.Player.Position)
	if err != nil {
		return nil, fmt.Errorf("player position: %w", err)
	}
	base := defs.Player.Base
	if base == nil {
		base = stats.New()
	}

	w := &World{
		Player:     NewCharacter(playerPos, base.Clone()),
		Flags:      map[string]bool{},
		Properties: map[string]string{},
	}

	for _, spawn := range defs.Spawns {
		npc, err := w.Spawn(defs, spawn)
		if err != nil {
			return nil, fmt.Errorf("spawning %q: %w", spawn.ID, err)
		}
		_ = npc
	}

	return w, nil
}

// Spawn creates an NPC from a spawn definition and adds it to the world.
func (w *World) Spawn(defs *Defs, spawn SpawnDef) (*NPC, error) {
	if _, ok := w.FindNPC(spawn.ID); ok {
		return nil, fmt.Errorf("npc %q already exists", spawn.ID)
	}
	pos, err := defs.NewPosition(spawn.Position)
	if err != nil {
		return nil, err
	}
	base := spawn.Base
	if base == nil {
		base = stats.New()
	}
	npc := NewNPC(spawn.ID, spawn.Type, pos, base.Clone())
	if spawn.Behavior != "" {
		npc.Behavior = spawn.Behavior
	}
	w.NPCs = append(w.NPCs, npc)
	return npc, nil
}

// FindNPC returns the NPC with the given ID.
func (w *World) FindNPC(id string) (*NPC, bool) {
	for _, n := range w.NPCs {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// RemoveNPC deletes an NPC from the world.
func (w *World) RemoveNPC(id string) bool {
	for i, n := range w.NPCs {
		if n.ID == id {
			w.NPCs = append(w.NPCs[:i], w.NPCs[i+1:]...)
			return true
		}
	}
	return false
}

// Update advances the simulation by one tick. Pursuing NPCs move toward
// the player by their resolved movement speed times deltaTime; NPCs
// without a usable speed stat stay put. All movement within the tick
// completes before Update returns.
func (w *World) Update(defs *Defs, deltaTime float64) error {
	w.Tick++
	w.GameTime += deltaTime

	for _, npc := range w.NPCs {
		if npc.Behavior != BehaviorPursue {
			continue
		}
		calc, err := npc.Stats(defs, "movement", w.Flags)
		if err != nil {
			return fmt.Errorf("npc %q: %w", npc.ID, err)
		}
		speed, ok := calc.GetFloat("speed")
		if !ok || speed <= 0 {
			continue
		}
		if err := npc.Position.MoveToward(w.Player.Position, speed*deltaTime); err != nil {
			return fmt.Errorf("npc %q: %w", npc.ID, err)
		}
	}

	return nil
}
