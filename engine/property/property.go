// Package property defines the atomic effect unit of the rules engine:
// a typed, contextual, conditionally-applicable Property, along with the
// structured conditions that gate when a property is active.
package property

import (
	"github.com/nathoo/runecore/engine/stats"
)

// Kind identifies what kind of effect a Property carries.
type Kind int

const (
	// StatModifier adjusts a named stat by a typed value.
	StatModifier Kind = iota
	// Ability grants a named special ability.
	Ability
	// Custom is a free-form key/value attribute, the normalized form of
	// the legacy string property pairs on entity types.
	Custom
)

func (k Kind) String() string {
	switch k {
	case StatModifier:
		return "stat_modifier"
	case Ability:
		return "ability"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Modifier combination modes, read from the "mode" metadata key.
const (
	ModeAdd      = "add"
	ModeMultiply = "multiply"
)

// Property is an immutable value object. The WithX builders return
// updated copies; a Property is never shared between two owners that
// might diverge.
type Property struct {
	Kind     Kind
	Stat     string      // stat modifier: target stat name; custom: key
	Value    stats.Value // stat modifier: typed value
	Name     string      // ability: ability name; custom: text value
	Context  string      // "" applies everywhere
	Cond     *Condition  // nil is always satisfied
	Metadata map[string]string
}

// NewStatModifier creates a stat modifier property. The value must be
// Integer or Float; the loader validates this for Lua-defined content.
func NewStatModifier(stat string, value stats.Value) Property {
	return Property{Kind: StatModifier, Stat: stat, Value: value}
}

// NewAbility creates an ability grant property.
func NewAbility(name string) Property {
	return Property{Kind: Ability, Name: name}
}

// NewCustom creates a free-form key/value attribute property.
func NewCustom(key, value string) Property {
	return Property{Kind: Custom, Stat: key, Name: value}
}

// WithContext returns a copy that applies only in the given context.
func (p Property) WithContext(ctx string) Property {
	p.Context = ctx
	return p
}

// WithCondition returns a copy gated by the given condition.
func (p Property) WithCondition(c Condition) Property {
	p.Cond = &c
	return p
}

// WithMetadata returns a copy with the key set. The metadata map is
// copied so the original property is untouched.
func (p Property) WithMetadata(key, value string) Property {
	md := make(map[string]string, len(p.Metadata)+1)
	for k, v := range p.Metadata {
		md[k] = v
	}
	md[key] = value
	p.Metadata = md
	return p
}

// Multiplicative returns a copy marked as a multiplicative modifier.
func (p Property) Multiplicative() Property {
	return p.WithMetadata("mode", ModeMultiply)
}

// Mode returns the combination mode, defaulting to additive.
func (p Property) Mode() string {
	if m, ok := p.Metadata["mode"]; ok {
		return m
	}
	return ModeAdd
}

// AppliesIn reports whether the property applies in the queried context.
// An unset context applies everywhere; otherwise the match is exact and
// case-sensitive.
func (p Property) AppliesIn(ctx string) bool {
	return p.Context == "" || p.Context == ctx
}

// IsSatisfied reports whether the property's condition holds against the
// given evaluation state. A nil condition is always satisfied.
func (p Property) IsSatisfied(es EvalState) bool {
	if p.Cond == nil {
		return true
	}
	return EvalCondition(*p.Cond, es)
}
