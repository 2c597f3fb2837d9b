package property

import "github.com/nathoo/runecore/engine/stats"

// Condition is a structured predicate that gates when a property is
// active. It is deliberately minimal (flag presence, stat thresholds,
// tag membership) rather than an expression language; new condition
// types extend the switch in EvalCondition.
type Condition struct {
	Type   string // "flag_set", "flag_not", "stat_above", "stat_below", "has_tag"
	Params map[string]stats.Value
}

// FlagSet builds a condition that holds when a named flag is set.
func FlagSet(flag string) Condition {
	return Condition{Type: "flag_set", Params: map[string]stats.Value{"flag": stats.Text(flag)}}
}

// FlagNot builds a condition that holds when a named flag is unset.
func FlagNot(flag string) Condition {
	return Condition{Type: "flag_not", Params: map[string]stats.Value{"flag": stats.Text(flag)}}
}

// StatAbove builds a condition that holds when a stat strictly exceeds
// the threshold. The threshold kind must match the stat's kind.
func StatAbove(stat string, threshold stats.Value) Condition {
	return Condition{Type: "stat_above", Params: map[string]stats.Value{
		"stat":      stats.Text(stat),
		"threshold": threshold,
	}}
}

// StatBelow builds a condition that holds when a stat is strictly below
// the threshold.
func StatBelow(stat string, threshold stats.Value) Condition {
	return Condition{Type: "stat_below", Params: map[string]stats.Value{
		"stat":      stats.Text(stat),
		"threshold": threshold,
	}}
}

// HasTag builds a condition that holds when the entity references the
// given tag ID.
func HasTag(tagID int) Condition {
	return Condition{Type: "has_tag", Params: map[string]stats.Value{"tag": stats.Int(int64(tagID))}}
}

// EvalState is the caller-supplied state conditions evaluate against.
type EvalState struct {
	Flags  map[string]bool
	Stats  *stats.Stats // may be nil
	TagIDs map[int]bool // tag IDs referenced by the owning entity type
}

// EvalCondition evaluates a single condition against the state. Unknown
// condition types evaluate to false.
func EvalCondition(c Condition, es EvalState) bool {
	switch c.Type {
	case "flag_set":
		flag, _ := c.Params["flag"].Text()
		return es.Flags[flag]

	case "flag_not":
		flag, _ := c.Params["flag"].Text()
		return !es.Flags[flag]

	case "stat_above":
		return compareStat(c, es, func(cmp int) bool { return cmp > 0 })

	case "stat_below":
		return compareStat(c, es, func(cmp int) bool { return cmp < 0 })

	case "has_tag":
		id, _ := c.Params["tag"].Int()
		return es.TagIDs[int(id)]

	default:
		return false
	}
}

// compareStat looks up the named stat and compares it to the threshold.
// Missing stats and kind mismatches evaluate to false.
func compareStat(c Condition, es EvalState, pass func(cmp int) bool) bool {
	if es.Stats == nil {
		return false
	}
	name, _ := c.Params["stat"].Text()
	threshold := c.Params["threshold"]
	actual, ok := es.Stats.Get(name)
	if !ok || actual.Kind() != threshold.Kind() {
		return false
	}
	switch actual.Kind() {
	case stats.KindInteger:
		a, _ := actual.Int()
		b, _ := threshold.Int()
		return pass(compareInt(a, b))
	case stats.KindFloat:
		a, _ := actual.Float()
		b, _ := threshold.Float()
		return pass(compareFloat(a, b))
	default:
		return false
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
