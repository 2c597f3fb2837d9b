package property

import (
	"testing"

	"github.com/nathoo/runecore/engine/stats"
)

func condTestState() EvalState {
	base := stats.New()
	base.SetInt("health", 50)
	base.SetFloat("speed", 2.5)
	base.SetText("faction", "wild")
	return EvalState{
		Flags:  map[string]bool{"night": true},
		Stats:  base,
		TagIDs: map[int]bool{1: true, 3: true},
	}
}

func TestEvalCondition(t *testing.T) {
	es := condTestState()

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"flag_set: set", FlagSet("night"), true},
		{"flag_set: unset", FlagSet("day"), false},
		{"flag_not: unset", FlagNot("day"), true},
		{"flag_not: set", FlagNot("night"), false},
		{"stat_above: greater", StatAbove("health", stats.Int(40)), true},
		{"stat_above: equal", StatAbove("health", stats.Int(50)), false},
		{"stat_above: less", StatAbove("health", stats.Int(60)), false},
		{"stat_below: less", StatBelow("health", stats.Int(60)), true},
		{"stat_below: equal", StatBelow("health", stats.Int(50)), false},
		{"stat_above: float", StatAbove("speed", stats.Float(2.0)), true},
		{"stat_below: float", StatBelow("speed", stats.Float(2.0)), false},
		{"stat threshold kind mismatch", StatAbove("health", stats.Float(40)), false},
		{"stat missing", StatAbove("mana", stats.Int(1)), false},
		{"stat non-numeric", StatAbove("faction", stats.Text("a")), false},
		{"has_tag: present", HasTag(3), true},
		{"has_tag: absent", HasTag(2), false},
		{"unknown type", Condition{Type: "full_moon"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvalCondition(tt.cond, es); got != tt.want {
				t.Errorf("EvalCondition(%v) = %v, want %v", tt.cond.Type, got, tt.want)
			}
		})
	}
}

func TestEvalConditionNilStats(t *testing.T) {
	es := EvalState{Flags: map[string]bool{}}
	if EvalCondition(StatAbove("health", stats.Int(1)), es) {
		t.Error("stat_above with nil stats should be false")
	}
}
