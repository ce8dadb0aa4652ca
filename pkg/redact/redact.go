// Package redact paints opaque redaction boxes onto copies of scanned
// trail-map images and handles the image IO around it.
package redact

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/skivault/trailmask/pkg/types"
)

// Renderer rasterizes redaction boxes onto image copies.
type Renderer struct {
	fill    color.NRGBA
	outline color.NRGBA
}

// New returns a renderer with the default opaque black fill.
func New() *Renderer {
	return &Renderer{
		fill:    color.NRGBA{0, 0, 0, 255},
		outline: color.NRGBA{0, 255, 0, 255},
	}
}

// NewWithFill returns a renderer using a custom fill color. The alpha
// channel is forced opaque so redacted text cannot shine through.
func NewWithFill(fill color.NRGBA) *Renderer {
	fill.A = 255
	return &Renderer{fill: fill, outline: color.NRGBA{0, 255, 0, 255}}
}

// Render returns a fresh copy of src with every box painted as a solid
// opaque rectangle, in store order (last box wins on overlap). Boxes
// reaching past the image edge are clamped, not rejected. The source image
// is never written to, and identical inputs produce identical output.
func (r *Renderer) Render(src image.Image, boxes []types.Box) *image.NRGBA {
	out := imaging.Clone(src)
	bounds := out.Bounds()
	for _, b := range boxes {
		c := b.Canon().Clamp(bounds)
		if c.Empty() {
			continue
		}
		fillRect(out, c, r.fill)
	}
	return out
}

// Preview returns a copy of src with box outlines instead of fills, for
// the editing view where the operator still needs to see what sits under
// each box.
func (r *Renderer) Preview(src image.Image, boxes []types.Box, stroke int) *image.NRGBA {
	if stroke < 1 {
		stroke = 2
	}
	out := imaging.Clone(src)
	bounds := out.Bounds()
	for _, b := range boxes {
		c := b.Canon().Clamp(bounds)
		if c.Empty() {
			continue
		}
		drawOutline(out, c, r.outline, stroke)
	}
	return out
}

// DisplayImage produces the zoomed, panned canvas shown to the operator:
// src scaled by the zoom factor, placed at the view offset on a black
// canvas of viewSize. Mapping back from this canvas is the viewport's job.
func DisplayImage(src image.Image, zoom, offsetX, offsetY float64, viewSize image.Point) *image.NRGBA {
	if zoom <= 0 {
		zoom = 1
	}
	b := src.Bounds()
	zw := maxInt(1, int(float64(b.Dx())*zoom))
	zh := maxInt(1, int(float64(b.Dy())*zoom))
	scaled := imaging.Resize(src, zw, zh, imaging.Linear)

	canvas := imaging.New(maxInt(1, viewSize.X), maxInt(1, viewSize.Y), color.NRGBA{0, 0, 0, 255})
	return imaging.Paste(canvas, scaled, image.Pt(int(offsetX), int(offsetY)))
}

func fillRect(img *image.NRGBA, b types.Box, c color.NRGBA) {
	for y := b.Y; y < b.Y+b.H; y++ {
		drawHLine(img, y, b.X, b.X+b.W, c)
	}
}

func drawOutline(img *image.NRGBA, b types.Box, c color.NRGBA, stroke int) {
	x0, y0, x1, y1 := b.X, b.Y, b.X+b.W, b.Y+b.H
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, c)
		drawHLine(img, y1-1-s, x0, x1, c)
		drawVLine(img, x0+s, y0, y1, c)
		drawVLine(img, x1-1-s, y0, y1, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}

// LoadImage loads an image from a file path with WebP support.
func LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
		if _, err := f.Seek(0, 0); err != nil {
			return nil, err
		}
	}
	if img, _, err := image.Decode(f); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// SaveOptions control the output encoding for SaveImage.
type SaveOptions struct {
	Quality  int
	Lossless bool
}

// SaveImage saves an image to a file, choosing the encoder from the
// extension (png, jpg/jpeg, webp).
func SaveImage(img image.Image, path string, opts SaveOptions) error {
	q := opts.Quality
	if q <= 0 || q > 100 {
		q = 90
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.TrimPrefix(strings.ToLower(pathExt(path)), ".") {
	case "webp":
		return webp.Encode(f, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(q)})
	case "png":
		return png.Encode(f, img)
	case "jpg", "jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: q})
	default:
		return fmt.Errorf("unsupported output format: %s", pathExt(path))
	}
}

func pathExt(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i:]
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
