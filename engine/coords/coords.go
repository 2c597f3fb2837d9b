// Package coords implements an arbitrary-dimensional coordinate system
// with optional per-axis labels. Indices are the primary addressing mode;
// labels are a convenience layer resolved by linear scan.
package coords

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrDimensionMismatch is returned when two coordinates (or a value/label
// slice and a dimension count) disagree on dimensionality.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// ErrIndexOutOfRange is returned when a dimension index is out of range.
var ErrIndexOutOfRange = errors.New("dimension index out of range")

// Coordinates is a point/vector with a fixed dimension count set at
// construction. Each entity exclusively owns its Coordinates; movement
// operations mutate in place.
type Coordinates struct {
	values []float64
	labels []string // nil when unlabeled, otherwise parallel to values
}

// New creates coordinates with the given dimension count. If values is
// non-nil its length must equal dims; nil means all dimensions start at 0.
func New(dims int, values []float64) (*Coordinates, error) {
	if values == nil {
		return &Coordinates{values: make([]float64, dims)}, nil
	}
	if len(values) != dims {
		return nil, fmt.Errorf("%w: %d values for %d dimensions", ErrDimensionMismatch, len(values), dims)
	}
	c := &Coordinates{values: make([]float64, dims)}
	copy(c.values, values)
	return c, nil
}

// New1D creates labeled 1-dimensional coordinates.
func New1D(x float64) *Coordinates {
	return &Coordinates{values: []float64{x}, labels: []string{"x"}}
}

// New2D creates labeled 2-dimensional coordinates.
func New2D(x, y float64) *Coordinates {
	return &Coordinates{values: []float64{x, y}, labels: []string{"x", "y"}}
}

// New3D creates labeled 3-dimensional coordinates.
func New3D(x, y, z float64) *Coordinates {
	return &Coordinates{values: []float64{x, y, z}, labels: []string{"x", "y", "z"}}
}

// New4D creates labeled 4-dimensional coordinates (3 spatial + time).
func New4D(x, y, z, t float64) *Coordinates {
	return &Coordinates{values: []float64{x, y, z, t}, labels: []string{"x", "y", "z", "t"}}
}

// SetLabels replaces the label slice. The label count must equal the
// dimension count. Duplicate labels are not rejected; lookups resolve to
// the first match.
func (c *Coordinates) SetLabels(labels []string) error {
	if len(labels) != len(c.values) {
		return fmt.Errorf("%w: %d labels for %d dimensions", ErrDimensionMismatch, len(labels), len(c.values))
	}
	c.labels = make([]string, len(labels))
	copy(c.labels, labels)
	return nil
}

// Dimensions returns the dimension count.
func (c *Coordinates) Dimensions() int {
	return len(c.values)
}

// Labels returns a copy of the label slice, or nil if unlabeled.
func (c *Coordinates) Labels() []string {
	if c.labels == nil {
		return nil
	}
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Values returns a copy of the component values.
func (c *Coordinates) Values() []float64 {
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

// Get returns the value at the given dimension index.
func (c *Coordinates) Get(index int) (float64, bool) {
	if index < 0 || index >= len(c.values) {
		return 0, false
	}
	return c.values[index], true
}

// GetByLabel returns the value for the first dimension carrying the given
// label. Returns false when the label is absent or the coordinates are
// unlabeled.
func (c *Coordinates) GetByLabel(label string) (float64, bool) {
	for i, l := range c.labels {
		if l == label {
			return c.values[i], true
		}
	}
	return 0, false
}

// Set assigns the value at the given dimension index.
func (c *Coordinates) Set(index int, value float64) error {
	if index < 0 || index >= len(c.values) {
		return fmt.Errorf("%w: index %d, dimensions %d", ErrIndexOutOfRange, index, len(c.values))
	}
	c.values[index] = value
	return nil
}

// SetByLabel assigns the value for the first dimension carrying the given
// label.
func (c *Coordinates) SetByLabel(label string, value float64) error {
	for i, l := range c.labels {
		if l == label {
			c.values[i] = value
			return nil
		}
	}
	return fmt.Errorf("%w: no dimension labeled %q", ErrIndexOutOfRange, label)
}

// clone returns a deep copy.
func (c *Coordinates) clone() *Coordinates {
	out := &Coordinates{values: make([]float64, len(c.values))}
	copy(out.values, c.values)
	if c.labels != nil {
		out.labels = make([]string, len(c.labels))
		copy(out.labels, c.labels)
	}
	return out
}

// Add returns a new Coordinates holding the componentwise sum. The result
// carries the left operand's labels.
func (c *Coordinates) Add(other *Coordinates) (*Coordinates, error) {
	if len(c.values) != len(other.values) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(c.values), len(other.values))
	}
	out := c.clone()
	for i := range out.values {
		out.values[i] += other.values[i]
	}
	return out, nil
}

// Subtract returns a new Coordinates holding the componentwise difference.
// The result carries the left operand's labels.
func (c *Coordinates) Subtract(other *Coordinates) (*Coordinates, error) {
	if len(c.values) != len(other.values) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(c.values), len(other.values))
	}
	out := c.clone()
	for i := range out.values {
		out.values[i] -= other.values[i]
	}
	return out, nil
}

// Scale returns a new Coordinates with every component multiplied by factor.
func (c *Coordinates) Scale(factor float64) *Coordinates {
	out := c.clone()
	for i := range out.values {
		out.values[i] *= factor
	}
	return out
}

// DistanceTo returns the Euclidean distance to other.
func (c *Coordinates) DistanceTo(other *Coordinates) (float64, error) {
	if len(c.values) != len(other.values) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(c.values), len(other.values))
	}
	var sum float64
	for i := range c.values {
		d := c.values[i] - other.values[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// MoveToward mutates c in place, moving it toward target. When the target
// is within maxDistance, c takes the target's values exactly (labels are
// kept, not copied from the target). Already being at the target is a
// no-op. Otherwise c advances by maxDistance along the unit vector toward
// the target.
func (c *Coordinates) MoveToward(target *Coordinates, maxDistance float64) error {
	dist, err := c.DistanceTo(target)
	if err != nil {
		return err
	}
	if dist == 0 {
		return nil
	}
	if dist <= maxDistance {
		copy(c.values, target.values)
		return nil
	}
	for i := range c.values {
		c.values[i] += (target.values[i] - c.values[i]) / dist * maxDistance
	}
	return nil
}

// String renders the coordinates as "(x:1.5, y:2.75)" or "(0:1.5, 1:2.75)"
// when unlabeled.
func (c *Coordinates) String() string {
	if len(c.values) == 0 {
		return "(empty)"
	}
	var b strings.Builder
	b.WriteString("(")
	for i, v := range c.values {
		if i > 0 {
			b.WriteString(", ")
		}
		if c.labels != nil {
			b.WriteString(c.labels[i])
		} else {
			b.WriteString(strconv.Itoa(i))
		}
		b.WriteString(":")
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteString(")")
	return b.String()
}
