package redact

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/skivault/trailmask/pkg/types"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}

	return img
}

func TestRenderFillsBoxes(t *testing.T) {
	r := New()
	src := createTestImage(100, 100)

	out := r.Render(src, []types.Box{{X: 10, Y: 10, W: 20, H: 20}})

	if out.Bounds() != src.Bounds() {
		t.Errorf("Expected same dimensions, got %v vs %v", out.Bounds(), src.Bounds())
	}

	// Inside the box: opaque black
	if got := out.NRGBAAt(15, 15); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("Expected black inside box, got %v", got)
	}
	// Corners of the box region
	if got := out.NRGBAAt(10, 10); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("Expected black at box origin, got %v", got)
	}
	if got := out.NRGBAAt(29, 29); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("Expected black at box far corner, got %v", got)
	}
	// Just outside
	if got := out.NRGBAAt(30, 30); got == (color.NRGBA{0, 0, 0, 255}) {
		t.Error("Expected untouched pixel outside box")
	}
}

func TestRenderNeverMutatesSource(t *testing.T) {
	r := New()
	src := createTestImage(64, 64)
	before := make([]uint8, len(src.Pix))
	copy(before, src.Pix)

	r.Render(src, []types.Box{{X: 0, Y: 0, W: 64, H: 64}})

	if !bytes.Equal(before, src.Pix) {
		t.Error("Render mutated the source image")
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := New()
	src := createTestImage(80, 60)
	boxes := []types.Box{
		{X: 5, Y: 5, W: 30, H: 20},
		{X: 20, Y: 10, W: 40, H: 40},
	}

	a := r.Render(src, boxes)
	b := r.Render(src, boxes)

	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("Expected identical output for identical inputs")
	}
}

func TestRenderClampsOutOfBounds(t *testing.T) {
	r := New()
	src := createTestImage(100, 100)

	// Box reaching past the left edge clips to x in [0,15), y in [10,30)
	out := r.Render(src, []types.Box{{X: -5, Y: 10, W: 20, H: 20}})

	black := color.NRGBA{0, 0, 0, 255}
	if got := out.NRGBAAt(0, 10); got != black {
		t.Errorf("Expected clipped fill at (0,10), got %v", got)
	}
	if got := out.NRGBAAt(14, 29); got != black {
		t.Errorf("Expected clipped fill at (14,29), got %v", got)
	}
	if got := out.NRGBAAt(15, 10); got == black {
		t.Error("Fill leaked past the clamped right edge")
	}
	if got := out.NRGBAAt(0, 9); got == black {
		t.Error("Fill leaked above the box")
	}

	// A box entirely off-canvas is a no-op, not a panic
	out = r.Render(src, []types.Box{{X: 500, Y: 500, W: 50, H: 50}})
	if !bytes.Equal(out.Pix, r.Render(src, nil).Pix) {
		t.Error("Off-canvas box altered the image")
	}
}

func TestRenderCustomFill(t *testing.T) {
	red := NewWithFill(color.NRGBA{255, 0, 0, 0}) // alpha forced opaque
	src := createTestImage(50, 50)

	out := red.Render(src, []types.Box{{X: 0, Y: 0, W: 50, H: 50}})
	if got := out.NRGBAAt(25, 25); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("Expected opaque red, got %v", got)
	}
}

func TestPreviewOutlines(t *testing.T) {
	r := New()
	src := createTestImage(100, 100)

	out := r.Preview(src, []types.Box{{X: 20, Y: 20, W: 30, H: 30}}, 2)

	green := color.NRGBA{0, 255, 0, 255}
	if got := out.NRGBAAt(25, 20); got != green {
		t.Errorf("Expected outline on top edge, got %v", got)
	}
	// Interior stays visible
	if got := out.NRGBAAt(35, 35); got == green || got == (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("Expected interior pixel untouched, got %v", got)
	}
}

func TestDisplayImageSize(t *testing.T) {
	src := createTestImage(200, 100)

	out := DisplayImage(src, 0.5, 10, 20, image.Pt(300, 200))
	if out.Bounds().Dx() != 300 || out.Bounds().Dy() != 200 {
		t.Errorf("Expected 300x200 canvas, got %v", out.Bounds())
	}
}

func TestSaveAndLoadImage(t *testing.T) {
	dir := t.TempDir()
	src := createTestImage(40, 30)

	for _, name := range []string{"map.png", "map.jpg", "map.webp"} {
		path := filepath.Join(dir, name)
		if err := SaveImage(src, path, SaveOptions{Quality: 90}); err != nil {
			t.Fatalf("SaveImage %s failed: %v", name, err)
		}
		img, err := LoadImage(path)
		if err != nil {
			t.Fatalf("LoadImage %s failed: %v", name, err)
		}
		if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
			t.Errorf("%s: expected 40x30, got %v", name, img.Bounds())
		}
	}

	if err := SaveImage(src, filepath.Join(dir, "map.xyz"), SaveOptions{}); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
