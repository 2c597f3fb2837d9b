package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerValueHelpers(L)
	registerPropertyHelpers(L)
	registerConditionHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// World { title = "...", dimensions = 2, ... }
	L.SetGlobal("World", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Player { position = {0, 0}, stats = { hp = Int(100) } }
	L.SetGlobal("Player", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.player = tbl
		return 0
	}))

	// Tag "name" { ... } — curried: Tag("name") returns a function that
	// takes a table. Tag IDs are assigned in definition order.
	L.SetGlobal("Tag", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.tags = append(coll.tags, rawTag{name: name, table: tbl})
			return 0
		}))
		return 1
	}))

	// EntityType "id" { ... } — curried.
	L.SetGlobal("EntityType", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.entityTypes = append(coll.entityTypes, rawEntityType{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// NPC "id" { type = "goblin", position = {10, 0}, ... } — curried.
	L.SetGlobal("NPC", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.npcs = append(coll.npcs, rawNPC{id: id, table: tbl})
			return 0
		}))
		return 1
	}))
}

// typedValue builds a marker table carrying an explicitly typed stat
// value, so content can distinguish Int(3) from Float(3).
func typedValue(L *lua.LState, kind string, v lua.LValue) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("__kind", lua.LString(kind))
	tbl.RawSetString("value", v)
	return tbl
}

func registerValueHelpers(L *lua.LState) {
	// Int(3)
	L.SetGlobal("Int", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckNumber(1)
		L.Push(typedValue(L, "integer", n))
		return 1
	}))

	// Float(1.5)
	L.SetGlobal("Float", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckNumber(1)
		L.Push(typedValue(L, "float", n))
		return 1
	}))

	// Bool(true)
	L.SetGlobal("Bool", L.NewFunction(func(L *lua.LState) int {
		b := L.CheckBool(1)
		L.Push(typedValue(L, "boolean", lua.LBool(b)))
		return 1
	}))

	// Text("hello")
	L.SetGlobal("Text", L.NewFunction(func(L *lua.LState) int {
		s := L.CheckString(1)
		L.Push(typedValue(L, "text", lua.LString(s)))
		return 1
	}))
}

func registerPropertyHelpers(L *lua.LState) {
	// StatModifier("attack", Int(5))
	L.SetGlobal("StatModifier", L.NewFunction(func(L *lua.LState) int {
		stat := L.CheckString(1)
		value := L.Get(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("stat_modifier"))
		tbl.RawSetString("stat", lua.LString(stat))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))

	// Ability("fire_breath")
	L.SetGlobal("Ability", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("ability"))
		tbl.RawSetString("name", lua.LString(name))
		L.Push(tbl)
		return 1
	}))

	// Multiply(prop) — marks a stat modifier as multiplicative.
	L.SetGlobal("Multiply", L.NewFunction(func(L *lua.LState) int {
		prop := L.CheckTable(1)
		prop.RawSetString("mode", lua.LString("multiply"))
		L.Push(prop)
		return 1
	}))

	// InContext(prop, "combat") — restricts a property to one context.
	L.SetGlobal("InContext", L.NewFunction(func(L *lua.LState) int {
		prop := L.CheckTable(1)
		ctx := L.CheckString(2)
		prop.RawSetString("context", lua.LString(ctx))
		L.Push(prop)
		return 1
	}))

	// When(prop, condition) — gates a property on a condition.
	L.SetGlobal("When", L.NewFunction(func(L *lua.LState) int {
		prop := L.CheckTable(1)
		cond := L.CheckTable(2)
		prop.RawSetString("when", cond)
		L.Push(prop)
		return 1
	}))
}

func registerConditionHelpers(L *lua.LState) {
	// FlagSet("flag")
	L.SetGlobal("FlagSet", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("flag_set"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// FlagNot("flag")
	L.SetGlobal("FlagNot", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("flag_not"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// StatAbove("hp", Int(10))
	L.SetGlobal("StatAbove", L.NewFunction(func(L *lua.LState) int {
		stat := L.CheckString(1)
		value := L.Get(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("stat_above"))
		tbl.RawSetString("stat", lua.LString(stat))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))

	// StatBelow("hp", Int(10))
	L.SetGlobal("StatBelow", L.NewFunction(func(L *lua.LState) int {
		stat := L.CheckString(1)
		value := L.Get(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("stat_below"))
		tbl.RawSetString("stat", lua.LString(stat))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))

	// HasTag("fire") — resolved to the tag's numeric ID at compile time.
	L.SetGlobal("HasTag", L.NewFunction(func(L *lua.LState) int {
		tag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("has_tag"))
		tbl.RawSetString("tag", lua.LString(tag))
		L.Push(tbl)
		return 1
	}))
}
