package types

import (
	"encoding/json"
	"fmt"
	"image"
)

// Point is a pixel position, either in display space or image space
// depending on context.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Box is an axis-aligned redaction rectangle in image-space pixels.
// A valid box has W > 0 and H > 0.
type Box struct {
	X int
	Y int
	W int
	H int
}

// Canon returns the box with negative width/height folded back into the
// origin, so a drag in any direction yields a top-left anchored rectangle.
func (b Box) Canon() Box {
	if b.W < 0 {
		b.X += b.W
		b.W = -b.W
	}
	if b.H < 0 {
		b.Y += b.H
		b.H = -b.H
	}
	return b
}

// Empty reports whether the box covers no pixels.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Rect converts the box to a standard image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// FromRect converts an image.Rectangle back to a Box.
func FromRect(r image.Rectangle) Box {
	return Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Clamp intersects the box with the given bounds. The result may be empty
// when the box lies entirely outside the bounds.
func (b Box) Clamp(bounds image.Rectangle) Box {
	return FromRect(b.Rect().Intersect(bounds))
}

// Contains reports whether the image-space point lies inside the box.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.X+b.W && p.Y >= b.Y && p.Y < b.Y+b.H
}

// MarshalJSON encodes the box as a [x, y, w, h] tuple, the wire format the
// downstream game application consumes.
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X, b.Y, b.W, b.H})
}

// UnmarshalJSON decodes a [x, y, w, h] tuple.
func (b *Box) UnmarshalJSON(data []byte) error {
	var t [4]int
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("box must be a [x, y, w, h] tuple: %w", err)
	}
	b.X, b.Y, b.W, b.H = t[0], t[1], t[2], t[3]
	return nil
}
