package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/runecore/engine/property"
	"github.com/nathoo/runecore/engine/stats"
	"github.com/nathoo/runecore/engine/world"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known NPC behaviors.
var validBehaviors = map[string]bool{
	"":                   true,
	world.BehaviorIdle:   true,
	world.BehaviorPursue: true,
}

// validate checks the compiled defs for referential integrity and
// consistency. Compile already resolves tag names, so this pass covers
// shape constraints and cross-references compile cannot see locally.
func validate(defs *world.Defs) error {
	ve := &ValidationError{}

	// World metadata.
	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "World.title is required")
	}
	if defs.Game.Dimensions < 1 {
		ve.Errors = append(ve.Errors, "World.dimensions must be at least 1")
	}
	if n := len(defs.Game.Labels); n > 0 && n != defs.Game.Dimensions {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"World.labels has %d entries for %d dimensions", n, defs.Game.Dimensions))
	}

	// Tag properties.
	for _, tag := range defs.Tags.All() {
		validateProperties(fmt.Sprintf("tag %q", tag.Name), tag.Properties, ve)
	}

	// Entity type properties.
	for id, et := range defs.EntityTypes {
		validateProperties(fmt.Sprintf("entity type %q", id), et.Properties, ve)
	}

	// Player position shape.
	validatePosition("player", defs.Player.Position, defs.Game.Dimensions, ve)

	// NPC spawns: unique IDs, known entity types, position shape.
	seen := map[string]bool{}
	for _, spawn := range defs.Spawns {
		if seen[spawn.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate npc ID %q", spawn.ID))
		}
		seen[spawn.ID] = true

		if spawn.Type == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("npc %q has no type", spawn.ID))
		} else if _, ok := defs.EntityTypes[spawn.Type]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"npc %q references undefined entity type %q", spawn.ID, spawn.Type))
		}

		validatePosition(fmt.Sprintf("npc %q", spawn.ID), spawn.Position, defs.Game.Dimensions, ve)

		if !validBehaviors[spawn.Behavior] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"npc %q uses unrecognized behavior %q", spawn.ID, spawn.Behavior))
		}
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validatePosition accepts an empty position (spawn at the origin) or
// one matching the world's dimension count.
func validatePosition(owner string, position []float64, dims int, ve *ValidationError) {
	if len(position) != 0 && len(position) != dims {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"%s position has %d values for %d dimensions", owner, len(position), dims))
	}
}

// validateProperties checks that stat modifiers fold: numeric values
// only, with a subject stat name.
func validateProperties(owner string, props []property.Property, ve *ValidationError) {
	for _, p := range props {
		if p.Kind != property.StatModifier {
			continue
		}
		if p.Stat == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s has a stat modifier with no stat name", owner))
		}
		switch p.Value.Kind() {
		case stats.KindInteger, stats.KindFloat:
		default:
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s stat modifier %q has non-numeric value %s (%s)",
				owner, p.Stat, p.Value, p.Value.Kind()))
		}
	}
}
