package types

import (
	"encoding/json"
	"image"
	"testing"
)

func TestCanon(t *testing.T) {
	// Drag from bottom-right to top-left
	b := Box{X: 100, Y: 80, W: -40, H: -30}.Canon()

	if b.X != 60 || b.Y != 50 {
		t.Errorf("Expected origin (60,50), got (%d,%d)", b.X, b.Y)
	}
	if b.W != 40 || b.H != 30 {
		t.Errorf("Expected size 40x30, got %dx%d", b.W, b.H)
	}

	// Already canonical boxes are unchanged
	c := Box{X: 10, Y: 20, W: 5, H: 5}
	if c.Canon() != c {
		t.Errorf("Canonical box changed: %+v", c.Canon())
	}
}

func TestClamp(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	b := Box{X: -5, Y: 10, W: 20, H: 20}.Clamp(bounds)
	if b.X != 0 || b.W != 15 {
		t.Errorf("Expected x=0 w=15, got x=%d w=%d", b.X, b.W)
	}
	if b.Y != 10 || b.H != 20 {
		t.Errorf("Expected y=10 h=20, got y=%d h=%d", b.Y, b.H)
	}

	// Fully outside clamps to empty
	out := Box{X: 200, Y: 200, W: 10, H: 10}.Clamp(bounds)
	if !out.Empty() {
		t.Errorf("Expected empty box, got %+v", out)
	}
}

func TestContains(t *testing.T) {
	b := Box{X: 10, Y: 10, W: 20, H: 20}

	if !b.Contains(Point{X: 10, Y: 10}) {
		t.Error("Expected top-left corner to be inside")
	}
	if b.Contains(Point{X: 30, Y: 10}) {
		t.Error("Expected right edge to be exclusive")
	}
	if b.Contains(Point{X: 9, Y: 15}) {
		t.Error("Expected point left of box to be outside")
	}
}

func TestBoxJSONTuple(t *testing.T) {
	b := Box{X: 3, Y: 4, W: 10, H: 20}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "[3,4,10,20]" {
		t.Errorf("Expected [3,4,10,20], got %s", data)
	}

	var back Box
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != b {
		t.Errorf("Round-trip mismatch: %+v != %+v", back, b)
	}

	if err := json.Unmarshal([]byte(`{"x":1}`), &back); err == nil {
		t.Error("Expected error for non-tuple box")
	}
}
