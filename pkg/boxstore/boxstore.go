// Package boxstore holds the ordered redaction rectangles for the record
// currently being edited. One store per editing session; it is discarded or
// replaced when the operator navigates to another record.
package boxstore

import (
	"errors"

	"github.com/skivault/trailmask/pkg/types"
)

// ErrDegenerateBox is returned when a zero or negative size box is appended.
var ErrDegenerateBox = errors.New("boxstore: box width and height must be positive")

// Store is an ordered collection of redaction boxes in image space.
// Insertion order is significant: draw order equals removal order for
// undo-last, and later boxes paint over earlier ones.
type Store struct {
	boxes []types.Box
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Len returns the number of boxes in the store.
func (s *Store) Len() int {
	return len(s.boxes)
}

// Append adds a box to the end of the store. Boxes with zero or negative
// width or height are rejected and the store is left unchanged.
func (s *Store) Append(b types.Box) error {
	if b.W <= 0 || b.H <= 0 {
		return ErrDegenerateBox
	}
	s.boxes = append(s.boxes, b)
	return nil
}

// AppendDrag builds a box from two drag corners, normalizes it, and appends
// it when both sides reach minSize pixels. Sub-threshold drags are dropped
// silently, matching the editor's behavior for accidental clicks.
// Returns the appended box and whether it was kept.
func (s *Store) AppendDrag(a, b types.Point, minSize int) (types.Box, bool) {
	box := types.Box{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}.Canon()
	if box.W < minSize || box.H < minSize {
		return types.Box{}, false
	}
	s.boxes = append(s.boxes, box)
	return box, true
}

// RemoveLast removes and returns the most recently appended box. On an
// empty store it is a no-op, so repeated undo clicks are harmless.
func (s *Store) RemoveLast() (types.Box, bool) {
	if len(s.boxes) == 0 {
		return types.Box{}, false
	}
	last := s.boxes[len(s.boxes)-1]
	s.boxes = s.boxes[:len(s.boxes)-1]
	return last, true
}

// RemoveAt deletes the box at index i, preserving the order of the rest.
// Out-of-range indices are a no-op.
func (s *Store) RemoveAt(i int) bool {
	if i < 0 || i >= len(s.boxes) {
		return false
	}
	s.boxes = append(s.boxes[:i], s.boxes[i+1:]...)
	return true
}

// IndexAt returns the index of the topmost box containing the image-space
// point, or -1 when no box contains it. Topmost means last in draw order.
func (s *Store) IndexAt(p types.Point) int {
	for i := len(s.boxes) - 1; i >= 0; i-- {
		if s.boxes[i].Contains(p) {
			return i
		}
	}
	return -1
}

// Clear removes all boxes.
func (s *Store) Clear() {
	s.boxes = s.boxes[:0]
}

// ReplaceAll swaps in the boxes from a persisted record. The input slice is
// copied; degenerate boxes are dropped rather than rejected, since persisted
// metadata is trusted input being restored, not a fresh edit.
func (s *Store) ReplaceAll(boxes []types.Box) {
	s.boxes = s.boxes[:0]
	for _, b := range boxes {
		if !b.Empty() {
			s.boxes = append(s.boxes, b)
		}
	}
}

// Snapshot returns a copy of the boxes in insertion order.
func (s *Store) Snapshot() []types.Box {
	out := make([]types.Box, len(s.boxes))
	copy(out, s.boxes)
	return out
}
