// Package viewport maps between display-space and image-space coordinates
// for a zoomed, panned view of a source image.
package viewport

import (
	"errors"
	"image"
	"math"

	"github.com/skivault/trailmask/pkg/types"
)

// Zoom bounds for the editing view.
const (
	MinZoom = 0.1
	MaxZoom = 8.0
)

// ErrInvalidZoom is returned when a mapping is attempted with a
// non-positive zoom factor.
var ErrInvalidZoom = errors.New("viewport: zoom factor must be positive")

// Viewport describes the current view transform: the source image is scaled
// by Zoom and then shifted by Offset (in display pixels).
type Viewport struct {
	Zoom    float64
	OffsetX float64
	OffsetY float64
}

// New returns a viewport at 1:1 zoom with no pan.
func New() *Viewport {
	return &Viewport{Zoom: 1.0}
}

// ToImage converts a display-space point to image-space pixels.
// Both directions round to the nearest pixel: at zoom >= 1 an image pixel
// survives a display round-trip exactly, and at zoom < 1 repeated
// round-trips stay within one display pixel.
func (v *Viewport) ToImage(p types.Point) (types.Point, error) {
	if v.Zoom <= 0 {
		return types.Point{}, ErrInvalidZoom
	}
	return types.Point{
		X: int(math.Round((float64(p.X) - v.OffsetX) / v.Zoom)),
		Y: int(math.Round((float64(p.Y) - v.OffsetY) / v.Zoom)),
	}, nil
}

// ToDisplay converts an image-space point back to display space.
func (v *Viewport) ToDisplay(p types.Point) types.Point {
	return types.Point{
		X: int(math.Round(float64(p.X)*v.Zoom + v.OffsetX)),
		Y: int(math.Round(float64(p.Y)*v.Zoom + v.OffsetY)),
	}
}

// SetZoom sets the zoom factor, clamping silently to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(zoom float64) {
	v.Zoom = math.Min(math.Max(zoom, MinZoom), MaxZoom)
}

// ZoomToward scales the zoom by factor while keeping the display point
// (x, y) anchored on the same image pixel, so the view zooms toward the
// cursor rather than the origin.
func (v *Viewport) ZoomToward(x, y float64, factor float64) {
	old := v.Zoom
	if old <= 0 {
		v.Zoom = MinZoom
		return
	}
	v.SetZoom(old * factor)
	ratio := v.Zoom / old
	v.OffsetX = x - (x-v.OffsetX)*ratio
	v.OffsetY = y - (y-v.OffsetY)*ratio
}

// Pan shifts the view by a display-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// Fit sets the zoom so the whole image is visible inside the given view
// size and centers it. The fitted zoom is clamped like any other.
func (v *Viewport) Fit(imageSize, viewSize image.Point) {
	iw := math.Max(1, float64(imageSize.X))
	ih := math.Max(1, float64(imageSize.Y))
	v.SetZoom(math.Min(float64(viewSize.X)/iw, float64(viewSize.Y)/ih))
	v.OffsetX = (float64(viewSize.X) - iw*v.Zoom) / 2
	v.OffsetY = (float64(viewSize.Y) - ih*v.Zoom) / 2
}
