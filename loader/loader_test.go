package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeWorld writes named .lua files into a temp directory.
func writeWorld(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

const minimalWorld = `
World {
	title = "Testland",
	version = "1.0",
	dimensions = 2,
	labels = {"x", "y"},
}
`

func TestLoadFullWorld(t *testing.T) {
	dir := writeWorld(t, map[string]string{
		"world.lua": minimalWorld + `
Tag "fire" {
	metadata = { element = "fire" },
	properties = {
		InContext(StatModifier("attack", Int(5)), "combat"),
		Ability("fire_breath"),
	},
}

Tag "swift" {
	properties = {
		Multiply(StatModifier("speed", Float(1.5))),
	},
}

EntityType "goblin" {
	name = "Goblin",
	description = "A small green menace.",
	category = "hostile",
	tags = {"fire", "swift"},
	properties = {
		When(StatModifier("defense", Int(2)), FlagSet("alert")),
	},
	attributes = { loot_table = "common" },
}

Player {
	position = {0, 0},
	stats = { hp = Int(100), attack = Int(10) },
}

NPC "goblin_1" {
	type = "goblin",
	position = {10, 0},
	behavior = "pursue",
	stats = { hp = Int(30), speed = Float(2.0) },
}
`,
	})

	defs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if defs.Game.Title != "Testland" || defs.Game.Dimensions != 2 {
		t.Errorf("game = %+v", defs.Game)
	}

	// Tag IDs follow definition order.
	fire, ok := defs.Tags.GetByName("fire")
	if !ok || fire.ID != 1 {
		t.Fatalf("fire tag = %+v, %v", fire, ok)
	}
	swift, ok := defs.Tags.GetByName("swift")
	if !ok || swift.ID != 2 {
		t.Fatalf("swift tag = %+v, %v", swift, ok)
	}
	if fire.Metadata["element"] != "fire" {
		t.Errorf("fire metadata = %v", fire.Metadata)
	}
	if len(fire.Properties) != 2 {
		t.Fatalf("fire properties = %d, want 2", len(fire.Properties))
	}
	if fire.Properties[0].Context != "combat" {
		t.Errorf("modifier context = %q", fire.Properties[0].Context)
	}
	if swift.Properties[0].Mode() != "multiply" {
		t.Errorf("swift mode = %q", swift.Properties[0].Mode())
	}

	goblin, ok := defs.EntityType("goblin")
	if !ok {
		t.Fatal("goblin type missing")
	}
	if got := goblin.TagIDs(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("goblin tag IDs = %v", got)
	}
	if goblin.Properties[0].Cond == nil {
		t.Error("conditional property lost its condition")
	}
	if v, ok := goblin.GetPropertyValue("loot_table"); !ok || v != "common" {
		t.Errorf("loot_table = %q, %v", v, ok)
	}

	if hp, ok := defs.Player.Base.GetInt("hp"); !ok || hp != 100 {
		t.Errorf("player hp = %d, %v", hp, ok)
	}

	if len(defs.Spawns) != 1 {
		t.Fatalf("spawns = %d, want 1", len(defs.Spawns))
	}
	spawn := defs.Spawns[0]
	if spawn.ID != "goblin_1" || spawn.Type != "goblin" || spawn.Behavior != "pursue" {
		t.Errorf("spawn = %+v", spawn)
	}
	if speed, ok := spawn.Base.GetFloat("speed"); !ok || speed != 2.0 {
		t.Errorf("spawn speed = %v, %v", speed, ok)
	}
}

func TestLoadWorldFileFirst(t *testing.T) {
	// Tags in world.lua get lower IDs than tags in later files, no
	// matter the alphabetical order of the filenames.
	dir := writeWorld(t, map[string]string{
		"a_extra.lua": `Tag "second" {}`,
		"world.lua":   minimalWorld + `Tag "first" {}`,
	})

	defs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	first, _ := defs.Tags.GetByName("first")
	second, _ := defs.Tags.GetByName("second")
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("IDs = %d, %d, want 1, 2", first.ID, second.ID)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"no world block",
			`Tag "fire" {}`,
			"no World{} definition",
		},
		{
			"unknown tag reference",
			minimalWorld + `EntityType "g" { tags = {"ghost"} }`,
			`unknown tag "ghost"`,
		},
		{
			"duplicate tag",
			minimalWorld + `Tag "fire" {}` + "\n" + `Tag "fire" {}`,
			`duplicate tag "fire"`,
		},
		{
			"unknown condition tag",
			minimalWorld + `Tag "x" { properties = { When(StatModifier("a", Int(1)), HasTag("nope")) } }`,
			`unknown tag "nope"`,
		},
		{
			"lua syntax error",
			`World {`,
			"executing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeWorld(t, map[string]string{"world.lua": tt.content})
			_, err := Load(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"missing title",
			`World { dimensions = 2 }`,
			"World.title is required",
		},
		{
			"bad dimensions",
			`World { title = "T" }`,
			"dimensions must be at least 1",
		},
		{
			"label count mismatch",
			`World { title = "T", dimensions = 3, labels = {"x", "y"} }`,
			"labels has 2 entries for 3 dimensions",
		},
		{
			"npc with undefined type",
			minimalWorld + `NPC "g1" { type = "ghost" }`,
			`undefined entity type "ghost"`,
		},
		{
			"npc position shape",
			minimalWorld + `EntityType "g" {}` + "\n" + `NPC "g1" { type = "g", position = {1, 2, 3} }`,
			"position has 3 values for 2 dimensions",
		},
		{
			"duplicate npc",
			minimalWorld + `EntityType "g" {}` + "\n" + `NPC "g1" { type = "g" }` + "\n" + `NPC "g1" { type = "g" }`,
			`duplicate npc ID "g1"`,
		},
		{
			"non-numeric modifier",
			minimalWorld + `Tag "x" { properties = { StatModifier("name", Text("bob")) } }`,
			"non-numeric value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeWorld(t, map[string]string{"world.lua": tt.content})
			_, err := Load(dir)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadNoLuaFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestSandboxBlocksDangerousGlobals(t *testing.T) {
	// Sandboxed scripts cannot reach the filesystem or dynamic loading.
	dir := writeWorld(t, map[string]string{
		"world.lua": minimalWorld + `
if os ~= nil or io ~= nil or dofile ~= nil or loadstring ~= nil then
	error("sandbox leak")
end
`,
	})
	if _, err := Load(dir); err != nil {
		t.Fatalf("Load error: %v", err)
	}
}
