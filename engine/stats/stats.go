// Package stats defines the StatValue tagged union and the base stat
// table entities carry before modifier resolution.
package stats

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrTypeMismatch is returned when two StatValues of different (or
// non-numeric) kinds are combined. There is no implicit coercion.
var ErrTypeMismatch = errors.New("stat value type mismatch")

// Kind identifies the variant a Value holds.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindBoolean
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a closed tagged union: Integer | Float | Boolean | Text.
// The zero value is Integer(0).
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

// Int creates an Integer value.
func Int(v int64) Value { return Value{kind: KindInteger, i: v} }

// Float creates a Float value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Bool creates a Boolean value.
func Bool(v bool) Value { return Value{kind: KindBoolean, b: v} }

// Text creates a Text value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Kind returns the variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer payload. ok is false for other kinds.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInteger }

// Float returns the float payload. ok is false for other kinds.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Bool returns the boolean payload. ok is false for other kinds.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBoolean }

// Text returns the text payload. ok is false for other kinds.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

// Equal reports whether two values hold the same kind and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

// Add combines two values by type-matched addition. Only Integer/Integer
// and Float/Float are defined.
func (v Value) Add(other Value) (Value, error) {
	if v.kind == KindInteger && other.kind == KindInteger {
		return Int(v.i + other.i), nil
	}
	if v.kind == KindFloat && other.kind == KindFloat {
		return Float(v.f + other.f), nil
	}
	return Value{}, fmt.Errorf("%w: cannot add %s to %s", ErrTypeMismatch, other.kind, v.kind)
}

// Multiply combines two values by type-matched multiplication. Only
// Integer/Integer and Float/Float are defined.
func (v Value) Multiply(other Value) (Value, error) {
	if v.kind == KindInteger && other.kind == KindInteger {
		return Int(v.i * other.i), nil
	}
	if v.kind == KindFloat && other.kind == KindFloat {
		return Float(v.f * other.f), nil
	}
	return Value{}, fmt.Errorf("%w: cannot multiply %s by %s", ErrTypeMismatch, v.kind, other.kind)
}

// Zero returns the additive identity of the same kind. For Boolean and
// Text there is no arithmetic identity; the zero value of the kind is
// returned.
func (v Value) Zero() Value {
	return Value{kind: v.kind}
}

// String renders the payload without kind decoration.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// Stats is a mutable table of named base stat values. It tracks a
// modification counter so cached derivations can detect staleness.
type Stats struct {
	values map[string]Value
	mods   uint64
}

// New creates an empty stat table.
func New() *Stats {
	return &Stats{values: map[string]Value{}}
}

// Get returns the value for a stat name.
func (s *Stats) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// GetInt returns the integer payload for a stat, or false when the stat
// is missing or holds another kind.
func (s *Stats) GetInt(name string) (int64, bool) {
	if v, ok := s.values[name]; ok {
		return v.Int()
	}
	return 0, false
}

// GetFloat returns the float payload for a stat.
func (s *Stats) GetFloat(name string) (float64, bool) {
	if v, ok := s.values[name]; ok {
		return v.Float()
	}
	return 0, false
}

// GetBool returns the boolean payload for a stat.
func (s *Stats) GetBool(name string) (bool, bool) {
	if v, ok := s.values[name]; ok {
		return v.Bool()
	}
	return false, false
}

// GetText returns the text payload for a stat.
func (s *Stats) GetText(name string) (string, bool) {
	if v, ok := s.values[name]; ok {
		return v.Text()
	}
	return "", false
}

// Set stores a value under a stat name.
func (s *Stats) Set(name string, v Value) {
	s.values[name] = v
	s.mods++
}

// SetInt stores an Integer stat.
func (s *Stats) SetInt(name string, v int64) { s.Set(name, Int(v)) }

// SetFloat stores a Float stat.
func (s *Stats) SetFloat(name string, v float64) { s.Set(name, Float(v)) }

// SetBool stores a Boolean stat.
func (s *Stats) SetBool(name string, v bool) { s.Set(name, Bool(v)) }

// SetText stores a Text stat.
func (s *Stats) SetText(name string, v string) { s.Set(name, Text(v)) }

// Has reports whether a stat is present.
func (s *Stats) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Remove deletes a stat and returns its former value.
func (s *Stats) Remove(name string) (Value, bool) {
	v, ok := s.values[name]
	if ok {
		delete(s.values, name)
		s.mods++
	}
	return v, ok
}

// Names returns all stat names in sorted order.
func (s *Stats) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stats.
func (s *Stats) Len() int {
	return len(s.values)
}

// Modifications returns the modification counter.
func (s *Stats) Modifications() uint64 {
	return s.mods
}

// Clone returns a deep copy that starts with a fresh modification counter.
func (s *Stats) Clone() *Stats {
	out := New()
	for name, v := range s.values {
		out.values[name] = v
	}
	return out
}
