// Package loader loads Lua world content into Go structs at load time.
// The Lua VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"fmt"

	"github.com/nathoo/runecore/engine/entity"
	"github.com/nathoo/runecore/engine/property"
	"github.com/nathoo/runecore/engine/stats"
	"github.com/nathoo/runecore/engine/tags"
	"github.com/nathoo/runecore/engine/world"
	lua "github.com/yuin/gopher-lua"
)

// rawTag holds a tag table before compilation.
type rawTag struct {
	name  string
	table *lua.LTable
}

// rawEntityType holds an entity type table before compilation.
type rawEntityType struct {
	id    string
	table *lua.LTable
}

// rawNPC holds an NPC spawn table before compilation.
type rawNPC struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toStatsValue converts a Lua value into a typed stat value. Marker
// tables from Int/Float/Bool/Text carry an explicit kind; bare Lua
// values infer one (whole numbers become integers).
func toStatsValue(v lua.LValue) (stats.Value, error) {
	switch val := v.(type) {
	case lua.LBool:
		return stats.Bool(bool(val)), nil
	case lua.LString:
		return stats.Text(string(val)), nil
	case lua.LNumber:
		f := float64(val)
		if f == float64(int64(f)) {
			return stats.Int(int64(f)), nil
		}
		return stats.Float(f), nil
	case *lua.LTable:
		kind := getString(val, "__kind")
		raw := val.RawGetString("value")
		switch kind {
		case "integer":
			n, ok := raw.(lua.LNumber)
			if !ok {
				return stats.Value{}, fmt.Errorf("Int() needs a number")
			}
			return stats.Int(int64(n)), nil
		case "float":
			n, ok := raw.(lua.LNumber)
			if !ok {
				return stats.Value{}, fmt.Errorf("Float() needs a number")
			}
			return stats.Float(float64(n)), nil
		case "boolean":
			b, ok := raw.(lua.LBool)
			if !ok {
				return stats.Value{}, fmt.Errorf("Bool() needs a boolean")
			}
			return stats.Bool(bool(b)), nil
		case "text":
			s, ok := raw.(lua.LString)
			if !ok {
				return stats.Value{}, fmt.Errorf("Text() needs a string")
			}
			return stats.Text(string(s)), nil
		default:
			return stats.Value{}, fmt.Errorf("not a stat value (use Int, Float, Bool or Text)")
		}
	default:
		return stats.Value{}, fmt.Errorf("unsupported stat value type %s", v.Type())
	}
}

// compileStats converts a { name = value } table into base stats.
func compileStats(tbl *lua.LTable) (*stats.Stats, error) {
	st := stats.New()
	if tbl == nil {
		return st, nil
	}
	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok || err != nil {
			return
		}
		value, verr := toStatsValue(v)
		if verr != nil {
			err = fmt.Errorf("stat %q: %w", string(ks), verr)
			return
		}
		st.Set(string(ks), value)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// compileFloats converts an array table into a float slice.
func compileFloats(tbl *lua.LTable) []float64 {
	if tbl == nil {
		return nil
	}
	n := tbl.MaxN()
	out := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		if v, ok := tbl.RawGetInt(i).(lua.LNumber); ok {
			out = append(out, float64(v))
		}
	}
	return out
}

// compileStrings converts an array table into a string slice.
func compileStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	n := tbl.MaxN()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if v, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(v))
		}
	}
	return out
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// compile converts all collected Lua data into a Defs struct. Tags are
// registered first so entity types and conditions can resolve names to
// numeric IDs.
func compile(coll *collector) (*world.Defs, error) {
	defs := &world.Defs{
		Tags:        tags.NewCollection(),
		EntityTypes: map[string]*entity.Type{},
	}

	// World metadata.
	if coll.game == nil {
		return nil, fmt.Errorf("no World{} definition found")
	}
	defs.Game = compileGame(coll.game)

	// Tags, in definition order. IDs are assigned monotonically from 1.
	seen := map[string]bool{}
	for _, raw := range coll.tags {
		if seen[raw.name] {
			return nil, fmt.Errorf("duplicate tag %q", raw.name)
		}
		seen[raw.name] = true
		id := defs.Tags.AddTag(raw.name)
		tag, _ := defs.Tags.Get(id)
		if err := compileTag(tag, raw, defs.Tags); err != nil {
			return nil, fmt.Errorf("compiling tag %s: %w", raw.name, err)
		}
	}

	// Entity types.
	for _, raw := range coll.entityTypes {
		if _, ok := defs.EntityTypes[raw.id]; ok {
			return nil, fmt.Errorf("duplicate entity type %q", raw.id)
		}
		et, err := compileEntityType(raw, defs.Tags)
		if err != nil {
			return nil, fmt.Errorf("compiling entity type %s: %w", raw.id, err)
		}
		defs.EntityTypes[raw.id] = et
	}

	// Player.
	if coll.player != nil {
		player, err := compilePlayer(coll.player)
		if err != nil {
			return nil, fmt.Errorf("compiling player: %w", err)
		}
		defs.Player = player
	}

	// NPC spawns.
	for _, raw := range coll.npcs {
		spawn, err := compileNPC(raw, defs.Tags)
		if err != nil {
			return nil, fmt.Errorf("compiling npc %s: %w", raw.id, err)
		}
		defs.Spawns = append(defs.Spawns, spawn)
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) world.GameDef {
	return world.GameDef{
		Title:      getString(tbl, "title"),
		Version:    getString(tbl, "version"),
		Author:     getString(tbl, "author"),
		Dimensions: getInt(tbl, "dimensions"),
		Labels:     compileStrings(getTable(tbl, "labels")),
	}
}

func compileTag(tag *tags.Tag, raw rawTag, coll *tags.Collection) error {
	for k, v := range tableToStringMap(getTable(raw.table, "metadata")) {
		tag.SetMetadata(k, v)
	}
	props, err := compileProperties(getTable(raw.table, "properties"), coll)
	if err != nil {
		return err
	}
	for _, p := range props {
		tag.AddProperty(p)
	}
	return nil
}

func compileEntityType(raw rawEntityType, coll *tags.Collection) (*entity.Type, error) {
	tbl := raw.table
	name := getString(tbl, "name")
	if name == "" {
		name = raw.id
	}
	et := entity.New(raw.id, name).
		WithDescription(getString(tbl, "description")).
		WithCategory(getString(tbl, "category"))

	// Tag references, by name, in source order.
	for _, tagName := range compileStrings(getTable(tbl, "tags")) {
		tag, ok := coll.GetByName(tagName)
		if !ok {
			return nil, fmt.Errorf("unknown tag %q", tagName)
		}
		et.WithTagID(tag.ID)
	}

	// Own properties.
	props, err := compileProperties(getTable(tbl, "properties"), coll)
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		et.WithPropertyObject(p)
	}

	// Legacy key/value attributes.
	for k, v := range tableToStringMap(getTable(tbl, "attributes")) {
		et.WithProperty(k, v)
	}

	return et, nil
}

func compilePlayer(tbl *lua.LTable) (world.PlayerDef, error) {
	base, err := compileStats(getTable(tbl, "stats"))
	if err != nil {
		return world.PlayerDef{}, err
	}
	return world.PlayerDef{
		Position: compileFloats(getTable(tbl, "position")),
		Base:     base,
	}, nil
}

func compileNPC(raw rawNPC, coll *tags.Collection) (world.SpawnDef, error) {
	tbl := raw.table
	base, err := compileStats(getTable(tbl, "stats"))
	if err != nil {
		return world.SpawnDef{}, err
	}
	return world.SpawnDef{
		ID:       raw.id,
		Type:     getString(tbl, "type"),
		Position: compileFloats(getTable(tbl, "position")),
		Base:     base,
		Behavior: getString(tbl, "behavior"),
	}, nil
}

// compileProperties converts an array of property tables built by the
// StatModifier/Ability helpers.
func compileProperties(tbl *lua.LTable, coll *tags.Collection) ([]property.Property, error) {
	if tbl == nil {
		return nil, nil
	}
	var props []property.Property
	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok || err != nil {
			return
		}
		propTbl, ok := v.(*lua.LTable)
		if !ok {
			err = fmt.Errorf("property entries must be StatModifier or Ability tables")
			return
		}
		p, perr := compileProperty(propTbl, coll)
		if perr != nil {
			err = perr
			return
		}
		props = append(props, p)
	})
	if err != nil {
		return nil, err
	}
	return props, nil
}

func compileProperty(tbl *lua.LTable, coll *tags.Collection) (property.Property, error) {
	var p property.Property

	switch propType := getString(tbl, "type"); propType {
	case "stat_modifier":
		value, err := toStatsValue(tbl.RawGetString("value"))
		if err != nil {
			return p, fmt.Errorf("stat modifier %q: %w", getString(tbl, "stat"), err)
		}
		p = property.NewStatModifier(getString(tbl, "stat"), value)
		if getString(tbl, "mode") == property.ModeMultiply {
			p = p.Multiplicative()
		}
	case "ability":
		p = property.NewAbility(getString(tbl, "name"))
	default:
		return p, fmt.Errorf("unknown property type %q", propType)
	}

	if ctx := getString(tbl, "context"); ctx != "" {
		p = p.WithContext(ctx)
	}
	if condTbl := getTable(tbl, "when"); condTbl != nil {
		cond, err := compileCondition(condTbl, coll)
		if err != nil {
			return p, err
		}
		p = p.WithCondition(cond)
	}
	return p, nil
}

func compileCondition(tbl *lua.LTable, coll *tags.Collection) (property.Condition, error) {
	switch condType := getString(tbl, "type"); condType {
	case "flag_set":
		return property.FlagSet(getString(tbl, "flag")), nil

	case "flag_not":
		return property.FlagNot(getString(tbl, "flag")), nil

	case "stat_above", "stat_below":
		threshold, err := toStatsValue(tbl.RawGetString("value"))
		if err != nil {
			return property.Condition{}, fmt.Errorf("%s threshold: %w", condType, err)
		}
		if condType == "stat_above" {
			return property.StatAbove(getString(tbl, "stat"), threshold), nil
		}
		return property.StatBelow(getString(tbl, "stat"), threshold), nil

	case "has_tag":
		name := getString(tbl, "tag")
		tag, ok := coll.GetByName(name)
		if !ok {
			return property.Condition{}, fmt.Errorf("condition has_tag references unknown tag %q", name)
		}
		return property.HasTag(tag.ID), nil

	default:
		return property.Condition{}, fmt.Errorf("unknown condition type %q", condType)
	}
}
