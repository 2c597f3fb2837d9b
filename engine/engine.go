// Package engine provides the Step() orchestrator that dispatches
// commands against the world: movement, stat resolution, tag and entity
// type queries, and simulation ticks.
package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/runecore/engine/entity"
	"github.com/nathoo/runecore/engine/property"
	"github.com/nathoo/runecore/engine/world"
)

// DefaultDelta is the simulated time per tick when none is given,
// matching the 10 updates-per-second cadence of the interactive loop.
const DefaultDelta = 0.1

// Engine holds the world definitions and mutable state.
type Engine struct {
	Defs    *world.Defs
	World   *world.World
	Running bool
}

// Result is the output of a single command.
type Result struct {
	Output []string
}

// New creates an engine with a fresh world built from definitions.
func New(defs *world.Defs) (*Engine, error) {
	w, err := world.New(defs)
	if err != nil {
		return nil, err
	}
	return &Engine{Defs: defs, World: w, Running: true}, nil
}

// Step processes one command and returns the result. Core errors are
// reported as output lines; Step never panics.
func (e *Engine) Step(input string) Result {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return out("What do you want to do?")
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "quit", "exit":
		e.Running = false
		return out("Shutting down...")

	case "help":
		return Result{Output: helpText()}

	case "status":
		return e.cmdStatus()

	case "move":
		return e.cmdMove(args)

	case "approach":
		return e.cmdApproach(args)

	case "tick":
		return e.cmdTick(args)

	case "stat":
		return e.cmdStat(args)

	case "stats":
		return e.cmdStats(args)

	case "tags":
		return e.cmdTags(args)

	case "tag":
		return e.cmdTag(args)

	case "entity":
		return e.cmdEntity(args)

	case "entities":
		return e.cmdEntities()

	case "npcs":
		return e.cmdNPCs()

	case "spawn":
		return e.cmdSpawn(args)

	case "damage":
		return e.cmdDamage(args)

	case "flag":
		return e.cmdFlag(args)

	case "set":
		return e.cmdSet(args)

	case "get":
		return e.cmdGet(args)

	default:
		return out(fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", cmd))
	}
}

func out(lines ...string) Result {
	return Result{Output: lines}
}

func helpText() []string {
	return []string{
		"Available commands:",
		"  move <v1> <v2> ...        - Set player position values",
		"  approach <npc> <dist>     - Move player toward an NPC",
		"  tick [n] [delta]          - Advance the simulation",
		"  status                    - Show world status",
		"  stat <who> <name> [ctx]   - Resolve one stat (who: player or NPC id)",
		"  stats <who> [ctx]         - Resolve all stats",
		"  tags [context]            - List tags, optionally by context",
		"  tag <id|name>             - Show one tag",
		"  entity <type-id>          - Show an entity type with its tags",
		"  entities                  - List entity types",
		"  npcs                      - List NPCs",
		"  spawn <type> <id> [v...]  - Spawn an NPC",
		"  damage <npc> <amount>     - Apply damage to an NPC",
		"  flag <name> on|off        - Toggle a condition flag",
		"  set <key> <value>         - Set a world property",
		"  get <key>                 - Read a world property",
		"  quit/exit                 - Exit",
	}
}

func (e *Engine) cmdStatus() Result {
	w := e.World
	lines := []string{
		fmt.Sprintf("%s v%s", e.Defs.Game.Title, e.Defs.Game.Version),
		fmt.Sprintf("Tick: %d  Game time: %.1fs", w.Tick, w.GameTime),
		fmt.Sprintf("Player position: %s", w.Player.Position),
		fmt.Sprintf("NPCs: %d  Tags: %d  Entity types: %d",
			len(w.NPCs), e.Defs.Tags.Count(), len(e.Defs.EntityTypes)),
	}
	if len(w.Flags) > 0 {
		var set []string
		for name, v := range w.Flags {
			if v {
				set = append(set, name)
			}
		}
		sort.Strings(set)
		if len(set) > 0 {
			lines = append(lines, fmt.Sprintf("Flags: %s", strings.Join(set, ", ")))
		}
	}
	return Result{Output: lines}
}

func (e *Engine) cmdMove(args []string) Result {
	if len(args) == 0 {
		return out("Not enough arguments. Usage: move <v1> <v2> ...")
	}
	values, err := parseFloats(args)
	if err != nil {
		return out("Invalid coordinates. Usage: move <v1> <v2> ...")
	}
	if len(values) != e.World.Player.Position.Dimensions() {
		return out(fmt.Sprintf("This world has %d dimensions, got %d values.",
			e.World.Player.Position.Dimensions(), len(values)))
	}
	for i, v := range values {
		if err := e.World.Player.SetPosition(i, v); err != nil {
			return out(fmt.Sprintf("Move failed: %v", err))
		}
	}
	return out(fmt.Sprintf("Player moved to %s", e.World.Player.Position))
}

func (e *Engine) cmdApproach(args []string) Result {
	if len(args) < 2 {
		return out("Not enough arguments. Usage: approach <npc> <distance>")
	}
	npc, ok := e.World.FindNPC(args[0])
	if !ok {
		return out(fmt.Sprintf("No NPC named %q.", args[0]))
	}
	dist, err := strconv.ParseFloat(args[1], 64)
	if err != nil || dist < 0 {
		return out("Invalid distance.")
	}
	if err := e.World.Player.MoveToward(npc.Position, dist); err != nil {
		return out(fmt.Sprintf("Approach failed: %v", err))
	}
	return out(fmt.Sprintf("Player moved to %s", e.World.Player.Position))
}

func (e *Engine) cmdTick(args []string) Result {
	n := 1
	delta := DefaultDelta
	if len(args) >= 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return out("Invalid tick count.")
		}
		n = v
	}
	if len(args) >= 2 {
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil || v <= 0 {
			return out("Invalid delta time.")
		}
		delta = v
	}
	for i := 0; i < n; i++ {
		if err := e.World.Update(e.Defs, delta); err != nil {
			return out(fmt.Sprintf("Update failed: %v", err))
		}
	}
	return out(fmt.Sprintf("Advanced %d tick(s) to tick %d (game time %.1fs).",
		n, e.World.Tick, e.World.GameTime))
}

// statTarget resolves "player" or an NPC ID to its calculated stats.
func (e *Engine) statTarget(who, ctx string) (names func() []string, get func(string) (string, bool), err error) {
	if who == "player" {
		calc, cerr := e.World.Player.Stats(ctx, e.World.Flags)
		if cerr != nil {
			return nil, nil, cerr
		}
		return calc.Names, func(name string) (string, bool) {
			v, ok := calc.Get(name)
			return v.String(), ok
		}, nil
	}
	npc, ok := e.World.FindNPC(who)
	if !ok {
		return nil, nil, fmt.Errorf("no NPC named %q", who)
	}
	calc, cerr := npc.Stats(e.Defs, ctx, e.World.Flags)
	if cerr != nil {
		return nil, nil, cerr
	}
	return calc.Names, func(name string) (string, bool) {
		v, ok := calc.Get(name)
		return v.String(), ok
	}, nil
}

func (e *Engine) cmdStat(args []string) Result {
	if len(args) < 2 {
		return out("Not enough arguments. Usage: stat <who> <name> [context]")
	}
	ctx := ""
	if len(args) >= 3 {
		ctx = args[2]
	}
	_, get, err := e.statTarget(args[0], ctx)
	if err != nil {
		return out(fmt.Sprintf("Stat resolution failed: %v", err))
	}
	v, ok := get(args[1])
	if !ok {
		return out(fmt.Sprintf("Unknown stat %q.", args[1]))
	}
	return out(fmt.Sprintf("%s = %s", args[1], v))
}

func (e *Engine) cmdStats(args []string) Result {
	if len(args) < 1 {
		return out("Not enough arguments. Usage: stats <who> [context]")
	}
	ctx := ""
	if len(args) >= 2 {
		ctx = args[1]
	}
	names, get, err := e.statTarget(args[0], ctx)
	if err != nil {
		return out(fmt.Sprintf("Stat resolution failed: %v", err))
	}
	lines := []string{fmt.Sprintf("Stats for %s (context %q):", args[0], ctx)}
	for _, name := range names() {
		v, _ := get(name)
		lines = append(lines, fmt.Sprintf("  %s = %s", name, v))
	}
	return Result{Output: lines}
}

func (e *Engine) cmdTags(args []string) Result {
	tagList := e.Defs.Tags.All()
	header := "Tags:"
	if len(args) >= 1 {
		tagList = e.Defs.Tags.InContext(args[0])
		header = fmt.Sprintf("Tags in context %q:", args[0])
	}
	if len(tagList) == 0 {
		return out(header, "  (none)")
	}
	lines := []string{header}
	for _, t := range tagList {
		lines = append(lines, fmt.Sprintf("  %d: %s (%d properties)", t.ID, t.Name, len(t.Properties)))
	}
	return Result{Output: lines}
}

func (e *Engine) cmdTag(args []string) Result {
	if len(args) < 1 {
		return out("Not enough arguments. Usage: tag <id|name>")
	}
	tag, ok := e.Defs.Tags.GetByName(args[0])
	if !ok {
		if id, err := strconv.Atoi(args[0]); err == nil {
			tag, ok = e.Defs.Tags.Get(id)
		}
	}
	if !ok {
		return out(fmt.Sprintf("No tag %q.", args[0]))
	}
	lines := []string{fmt.Sprintf("%s (ID: %d)", tag.Name, tag.ID)}
	for _, key := range sortedKeys(tag.Metadata) {
		lines = append(lines, fmt.Sprintf("  * %s: %s", key, tag.Metadata[key]))
	}
	for _, p := range tag.Properties {
		lines = append(lines, "  - "+describeProperty(p))
	}
	return Result{Output: lines}
}

func (e *Engine) cmdEntity(args []string) Result {
	if len(args) < 1 {
		return out("Not enough arguments. Usage: entity <type-id>")
	}
	et, ok := e.Defs.EntityType(args[0])
	if !ok {
		return out(fmt.Sprintf("No entity type %q.", args[0]))
	}
	return Result{Output: formatEntityType(et, e.Defs)}
}

func (e *Engine) cmdEntities() Result {
	if len(e.Defs.EntityTypes) == 0 {
		return out("No entity types defined.")
	}
	ids := make([]string, 0, len(e.Defs.EntityTypes))
	for id := range e.Defs.EntityTypes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	lines := []string{"Entity types:"}
	for _, id := range ids {
		et := e.Defs.EntityTypes[id]
		lines = append(lines, fmt.Sprintf("  %s: %s (%d tags)", id, et.Name, len(et.TagIDs())))
	}
	return Result{Output: lines}
}

func (e *Engine) cmdNPCs() Result {
	if len(e.World.NPCs) == 0 {
		return out("No NPCs in the world.")
	}
	lines := []string{"NPCs:"}
	for _, n := range e.World.NPCs {
		lines = append(lines, fmt.Sprintf("  %s (%s) at %s, %s", n.ID, n.Type, n.Position, n.Behavior))
	}
	return Result{Output: lines}
}

func (e *Engine) cmdSpawn(args []string) Result {
	if len(args) < 2 {
		return out("Not enough arguments. Usage: spawn <type> <id> [v1 v2 ...]")
	}
	if _, ok := e.Defs.EntityType(args[0]); !ok {
		return out(fmt.Sprintf("No entity type %q.", args[0]))
	}
	var values []float64
	if len(args) > 2 {
		var err error
		values, err = parseFloats(args[2:])
		if err != nil {
			return out("Invalid coordinates.")
		}
	}
	npc, err := e.World.Spawn(e.Defs, world.SpawnDef{ID: args[1], Type: args[0], Position: values})
	if err != nil {
		return out(fmt.Sprintf("Spawn failed: %v", err))
	}
	return out(fmt.Sprintf("Spawned %s (%s) at %s.", npc.ID, npc.Type, npc.Position))
}

func (e *Engine) cmdDamage(args []string) Result {
	if len(args) < 2 {
		return out("Not enough arguments. Usage: damage <npc> <amount>")
	}
	npc, ok := e.World.FindNPC(args[0])
	if !ok {
		return out(fmt.Sprintf("No NPC named %q.", args[0]))
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount < 0 {
		return out("Invalid damage amount.")
	}
	defeated := npc.TakeDamage(amount)
	hp, _ := npc.Base.GetInt("hp")
	if defeated {
		return out(fmt.Sprintf("%s is defeated (hp 0).", npc.ID))
	}
	return out(fmt.Sprintf("%s takes %d damage (hp %d).", npc.ID, amount, hp))
}

func (e *Engine) cmdFlag(args []string) Result {
	if len(args) < 2 || (args[1] != "on" && args[1] != "off") {
		return out("Not enough arguments. Usage: flag <name> on|off")
	}
	e.World.Flags[args[0]] = args[1] == "on"
	return out(fmt.Sprintf("Flag %q is %s.", args[0], args[1]))
}

func (e *Engine) cmdSet(args []string) Result {
	if len(args) < 2 {
		return out("Not enough arguments. Usage: set <key> <value>")
	}
	value := strings.Join(args[1:], " ")
	e.World.Properties[args[0]] = value
	return out(fmt.Sprintf("Property %q set to %q.", args[0], value))
}

func (e *Engine) cmdGet(args []string) Result {
	if len(args) < 1 {
		return out("Not enough arguments. Usage: get <key>")
	}
	if v, ok := e.World.Properties[args[0]]; ok {
		return out(fmt.Sprintf("%s: %s", args[0], v))
	}
	return out(fmt.Sprintf("Property %q not found.", args[0]))
}

// formatEntityType renders an entity type with its resolved tags and
// properties.
func formatEntityType(et *entity.Type, defs *world.Defs) []string {
	lines := []string{fmt.Sprintf("%s (%s)", et.Name, et.ID)}
	if et.Description != "" {
		lines = append(lines, "Description: "+et.Description)
	}
	if et.Category != "" {
		lines = append(lines, "Category: "+et.Category)
	}
	lines = append(lines, "Tags:")
	resolved := et.Tags(defs.Tags)
	if len(resolved) == 0 {
		lines = append(lines, "  (none)")
	}
	for _, tag := range resolved {
		lines = append(lines, fmt.Sprintf("  - %s (ID: %d)", tag.Name, tag.ID))
		for _, key := range sortedKeys(tag.Metadata) {
			lines = append(lines, fmt.Sprintf("    * %s: %s", key, tag.Metadata[key]))
		}
	}
	if len(et.Properties) > 0 {
		lines = append(lines, "Properties:")
		for _, p := range et.Properties {
			lines = append(lines, "  - "+describeProperty(p))
		}
	}
	return lines
}

func describeProperty(p property.Property) string {
	var s string
	switch p.Kind {
	case property.StatModifier:
		op := "+"
		if p.Mode() == property.ModeMultiply {
			op = "x"
		}
		s = fmt.Sprintf("%s %s%s", p.Stat, op, p.Value)
	case property.Ability:
		s = "ability " + p.Name
	case property.Custom:
		s = fmt.Sprintf("%s = %s", p.Stat, p.Name)
	default:
		s = "unknown property"
	}
	if p.Context != "" {
		s += fmt.Sprintf(" [%s]", p.Context)
	}
	if p.Cond != nil {
		s += " (conditional)"
	}
	return s
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
