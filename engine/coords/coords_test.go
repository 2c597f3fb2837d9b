package coords

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestNew(t *testing.T) {
	c, err := New(3, nil)
	if err != nil {
		t.Fatalf("New(3, nil) error: %v", err)
	}
	if c.Dimensions() != 3 {
		t.Errorf("Dimensions() = %d, want 3", c.Dimensions())
	}
	for i := 0; i < 3; i++ {
		if v, ok := c.Get(i); !ok || v != 0 {
			t.Errorf("Get(%d) = %v, %v; want 0, true", i, v, ok)
		}
	}

	c, err = New(2, []float64{10, 20})
	if err != nil {
		t.Fatalf("New(2, values) error: %v", err)
	}
	if v, _ := c.Get(1); v != 20 {
		t.Errorf("Get(1) = %v, want 20", v)
	}

	if _, err := New(2, []float64{1, 2, 3}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("New(2, 3 values) error = %v, want ErrDimensionMismatch", err)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	c := New4D(1, 2, 3, 4)
	if c.Dimensions() != 4 {
		t.Fatalf("New4D dimensions = %d, want 4", c.Dimensions())
	}
	for label, want := range map[string]float64{"x": 1, "y": 2, "z": 3, "t": 4} {
		if v, ok := c.GetByLabel(label); !ok || v != want {
			t.Errorf("GetByLabel(%q) = %v, %v; want %v, true", label, v, ok, want)
		}
	}
}

func TestGetSet(t *testing.T) {
	c, _ := New(2, nil)

	if err := c.Set(0, 5.5); err != nil {
		t.Errorf("Set(0) error: %v", err)
	}
	if v, _ := c.Get(0); v != 5.5 {
		t.Errorf("Get(0) = %v, want 5.5", v)
	}

	// Out of range never panics.
	if _, ok := c.Get(2); ok {
		t.Error("Get(2) ok = true, want false")
	}
	if _, ok := c.Get(-1); ok {
		t.Error("Get(-1) ok = true, want false")
	}
	if err := c.Set(2, 1.0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Set(2) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestLabels(t *testing.T) {
	c, _ := New(2, []float64{7, 8})

	// Unlabeled lookup returns false.
	if _, ok := c.GetByLabel("x"); ok {
		t.Error("GetByLabel on unlabeled coordinates returned true")
	}

	if err := c.SetLabels([]string{"row", "col"}); err != nil {
		t.Fatalf("SetLabels error: %v", err)
	}
	if v, ok := c.GetByLabel("col"); !ok || v != 8 {
		t.Errorf("GetByLabel(col) = %v, %v; want 8, true", v, ok)
	}
	if err := c.SetByLabel("row", 9); err != nil {
		t.Errorf("SetByLabel(row) error: %v", err)
	}
	if v, _ := c.Get(0); v != 9 {
		t.Errorf("Get(0) after SetByLabel = %v, want 9", v)
	}
	if err := c.SetByLabel("depth", 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetByLabel(depth) error = %v, want ErrIndexOutOfRange", err)
	}

	if err := c.SetLabels([]string{"only"}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("SetLabels with wrong count error = %v, want ErrDimensionMismatch", err)
	}
}

func TestDuplicateLabelsFirstMatch(t *testing.T) {
	c, _ := New(2, []float64{1, 2})
	if err := c.SetLabels([]string{"a", "a"}); err != nil {
		t.Fatalf("SetLabels error: %v", err)
	}
	if v, _ := c.GetByLabel("a"); v != 1 {
		t.Errorf("duplicate label lookup = %v, want first match 1", v)
	}
}

func TestArithmetic(t *testing.T) {
	a := New2D(1, 2)
	b := New2D(3, 4)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if v, _ := sum.Get(0); v != 4 {
		t.Errorf("Add[0] = %v, want 4", v)
	}

	// a.Add(b).Subtract(b) == a within tolerance.
	back, err := sum.Subtract(b)
	if err != nil {
		t.Fatalf("Subtract error: %v", err)
	}
	for i := 0; i < 2; i++ {
		av, _ := a.Get(i)
		bv, _ := back.Get(i)
		if !almostEqual(av, bv) {
			t.Errorf("round trip [%d] = %v, want %v", i, bv, av)
		}
	}

	scaled := a.Scale(2.5)
	if v, _ := scaled.Get(1); v != 5 {
		t.Errorf("Scale[1] = %v, want 5", v)
	}
	// Scale never mutates the receiver.
	if v, _ := a.Get(1); v != 2 {
		t.Errorf("receiver mutated by Scale: %v", v)
	}

	three := New3D(1, 1, 1)
	if _, err := a.Add(three); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Add across dimensions error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := a.Subtract(three); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Subtract across dimensions error = %v, want ErrDimensionMismatch", err)
	}
}

func TestArithmeticKeepsLeftLabels(t *testing.T) {
	a := New2D(0, 0)
	b, _ := New(2, []float64{1, 1})
	_ = b.SetLabels([]string{"u", "v"})

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	labels := sum.Labels()
	if len(labels) != 2 || labels[0] != "x" || labels[1] != "y" {
		t.Errorf("result labels = %v, want [x y]", labels)
	}
}

func TestDistance(t *testing.T) {
	a := New2D(0, 0)
	b := New2D(3, 4)

	d, err := a.DistanceTo(b)
	if err != nil {
		t.Fatalf("DistanceTo error: %v", err)
	}
	if d != 5 {
		t.Errorf("DistanceTo = %v, want 5", d)
	}

	// Symmetry.
	d2, _ := b.DistanceTo(a)
	if d != d2 {
		t.Errorf("distance not symmetric: %v vs %v", d, d2)
	}

	// Identity.
	if d, _ := a.DistanceTo(a); d != 0 {
		t.Errorf("DistanceTo(self) = %v, want 0", d)
	}

	c := New3D(0, 0, 0)
	if _, err := a.DistanceTo(c); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("DistanceTo across dimensions error = %v, want ErrDimensionMismatch", err)
	}
}

func TestMoveToward(t *testing.T) {
	start := New2D(0, 0)
	target := New2D(10, 0)

	// Partial move: resulting distance from origin equals maxDistance,
	// distance to target strictly decreases.
	c := New2D(0, 0)
	if err := c.MoveToward(target, 4); err != nil {
		t.Fatalf("MoveToward error: %v", err)
	}
	dFromStart, _ := c.DistanceTo(start)
	if !almostEqual(dFromStart, 4) {
		t.Errorf("distance moved = %v, want 4", dFromStart)
	}
	dToTarget, _ := c.DistanceTo(target)
	if dToTarget >= 10 {
		t.Errorf("distance to target did not decrease: %v", dToTarget)
	}

	// Within range: snaps exactly to target values.
	if err := c.MoveToward(target, 100); err != nil {
		t.Fatalf("MoveToward error: %v", err)
	}
	if v, _ := c.Get(0); v != 10 {
		t.Errorf("snapped x = %v, want exactly 10", v)
	}
	if v, _ := c.Get(1); v != 0 {
		t.Errorf("snapped y = %v, want exactly 0", v)
	}

	// Already at target: no-op, no error.
	if err := c.MoveToward(target, 1); err != nil {
		t.Errorf("MoveToward at target error: %v", err)
	}
	if v, _ := c.Get(0); v != 10 {
		t.Errorf("no-op moved x to %v", v)
	}

	other := New3D(0, 0, 0)
	if err := c.MoveToward(other, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("MoveToward across dimensions error = %v, want ErrDimensionMismatch", err)
	}
}

func TestMoveTowardKeepsOwnLabels(t *testing.T) {
	c := New2D(0, 0)
	target, _ := New(2, []float64{1, 1})
	_ = target.SetLabels([]string{"u", "v"})

	if err := c.MoveToward(target, 10); err != nil {
		t.Fatalf("MoveToward error: %v", err)
	}
	labels := c.Labels()
	if len(labels) != 2 || labels[0] != "x" {
		t.Errorf("labels after snap = %v, want [x y]", labels)
	}
}

func TestString(t *testing.T) {
	c := New2D(1.5, 2.75)
	if got := c.String(); got != "(x:1.5, y:2.75)" {
		t.Errorf("String() = %q, want (x:1.5, y:2.75)", got)
	}

	u, _ := New(2, []float64{1, 2})
	if got := u.String(); got != "(0:1, 1:2)" {
		t.Errorf("String() = %q, want (0:1, 1:2)", got)
	}

	empty, _ := New(0, nil)
	if got := empty.String(); got != "(empty)" {
		t.Errorf("String() = %q, want (empty)", got)
	}
}
