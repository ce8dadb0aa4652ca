// Package trailmask annotates scanned ski-trail-map images with rectangular
// redaction regions and structured resort metadata, and builds the
// consolidated index a game application consumes.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		"github.com/skivault/trailmask"
//		"github.com/skivault/trailmask/pkg/types"
//	)
//
//	func main() {
//		session, err := trailmask.NewSession("./library")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		if err := session.Open("zermatt"); err != nil {
//			log.Fatal(err)
//		}
//
//		// Redact the resort name printed on the map
//		if err := session.AppendBox(types.Box{X: 120, Y: 40, W: 300, H: 60}); err != nil {
//			log.Fatal(err)
//		}
//
//		fields := session.Fields()
//		fields.Name = "Zermatt"
//		fields.Country = "Switzerland"
//		session.SetFields(fields)
//
//		if err := session.Save(); err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println("saved", session.Folder())
//	}
//
// The library consists of six components:
//
//  1. Viewport (pkg/viewport): maps pointer positions on the zoomed, panned
//     view back to true image pixels
//  2. Box store (pkg/boxstore): the ordered redaction rectangles of the
//     record being edited
//  3. Renderer (pkg/redact): paints opaque boxes onto a copy of the source
//     map without touching the original
//  4. Record (pkg/record): per-resort metadata persistence
//  5. Vocabulary (pkg/vocab): per-field suggestion sets learned from every
//     saved record
//  6. Catalog (pkg/catalog): the consolidated index over all records
//
// The GUI layer is an external collaborator: it feeds pointer coordinates,
// zoom changes, and field values into a Session and renders whatever the
// Session returns.
package trailmask

import (
	"fmt"
	"image"

	"github.com/skivault/trailmask/internal/utils"
	"github.com/skivault/trailmask/pkg/boxstore"
	"github.com/skivault/trailmask/pkg/catalog"
	"github.com/skivault/trailmask/pkg/record"
	"github.com/skivault/trailmask/pkg/redact"
	"github.com/skivault/trailmask/pkg/types"
	"github.com/skivault/trailmask/pkg/viewport"
	"github.com/skivault/trailmask/pkg/vocab"
)

// Version of the trailmask library
const Version = "1.0.0"

// MinBoxSize is the smallest drag (per side, in image pixels) accepted as
// a redaction box; anything smaller is treated as an accidental click.
const MinBoxSize = 5

// Session is the editing session for one resort record at a time. It owns
// the viewport, the box store, and the in-memory record, and goes through
// the record store for all persistence.
type Session struct {
	store    *record.Store
	vocab    *vocab.Index
	renderer *redact.Renderer
	view     *viewport.Viewport
	boxes    *boxstore.Store

	folder string
	fields record.Record
	saved  record.Record
	source image.Image
}

// NewSession opens a library root and rebuilds the vocabulary index from
// every record already on disk.
func NewSession(root string) (*Session, error) {
	renderer := redact.New()
	store := record.NewStore(root, renderer)

	folders, err := utils.ListResortFolders(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}

	index := vocab.New()
	index.Rebuild(store, folders)

	return &Session{
		store:    store,
		vocab:    index,
		renderer: renderer,
		view:     viewport.New(),
		boxes:    boxstore.New(),
	}, nil
}

// Folders lists the resort folders in the library, lexicographically.
func (s *Session) Folders() ([]string, error) {
	return utils.ListResortFolders(s.store.Root())
}

// Open loads a resort folder: its source image, its persisted metadata (or
// an empty record when none exists yet), and its boxes. Any box list from
// a previously open folder is discarded. Opening a folder without a source
// image fails fast, since nothing could be rendered for it.
func (s *Session) Open(folder string) error {
	srcPath, err := s.store.SourceImagePath(folder)
	if err != nil {
		return err
	}
	src, err := redact.LoadImage(srcPath)
	if err != nil {
		return fmt.Errorf("failed to load source image for %s: %w", folder, err)
	}

	rec, err := s.store.Load(folder)
	if err != nil {
		return err
	}

	s.folder = folder
	s.fields = rec
	s.saved = rec.Clone()
	s.source = src
	s.boxes.ReplaceAll(rec.Boxes)
	return nil
}

// Folder returns the currently open folder name.
func (s *Session) Folder() string {
	return s.folder
}

// SourceImage returns the loaded source map for the open folder.
func (s *Session) SourceImage() image.Image {
	return s.source
}

// Viewport returns the session's view transform for the GUI to drive.
func (s *Session) Viewport() *viewport.Viewport {
	return s.view
}

// Vocab returns the vocabulary index for populating suggestions.
func (s *Session) Vocab() *vocab.Index {
	return s.vocab
}

// Fields returns the current record with the live box snapshot filled in.
func (s *Session) Fields() record.Record {
	rec := s.fields.Clone()
	rec.Boxes = s.boxes.Snapshot()
	return rec
}

// SetFields replaces the record's scalar fields. Boxes are managed through
// the box operations, not through SetFields.
func (s *Session) SetFields(rec record.Record) {
	boxes := s.fields.Boxes
	s.fields = rec.Clone()
	s.fields.Boxes = boxes
}

// AppendBox adds a redaction box in image space.
func (s *Session) AppendBox(b types.Box) error {
	return s.boxes.Append(b)
}

// AppendDrag converts a display-space drag to image space and appends the
// resulting box when it reaches the minimum size. Returns whether a box
// was added.
func (s *Session) AppendDrag(start, end types.Point) (bool, error) {
	a, err := s.view.ToImage(start)
	if err != nil {
		return false, err
	}
	b, err := s.view.ToImage(end)
	if err != nil {
		return false, err
	}
	_, ok := s.boxes.AppendDrag(a, b, MinBoxSize)
	return ok, nil
}

// UndoBox removes the most recently drawn box. Harmless on an empty list.
func (s *Session) UndoBox() {
	s.boxes.RemoveLast()
}

// ClearBoxes removes every box.
func (s *Session) ClearBoxes() {
	s.boxes.Clear()
}

// RemoveBoxAt deletes the topmost box under a display-space point, for
// click-to-delete editing. Returns whether a box was removed.
func (s *Session) RemoveBoxAt(p types.Point) (bool, error) {
	ip, err := s.view.ToImage(p)
	if err != nil {
		return false, err
	}
	i := s.boxes.IndexAt(ip)
	if i < 0 {
		return false, nil
	}
	return s.boxes.RemoveAt(i), nil
}

// Boxes returns the current box snapshot in draw order.
func (s *Session) Boxes() []types.Box {
	return s.boxes.Snapshot()
}

// Preview renders the source with box outlines for the editing view, or
// with opaque fills when redacted is true.
func (s *Session) Preview(redacted bool) *image.NRGBA {
	if redacted {
		return s.renderer.Render(s.source, s.boxes.Snapshot())
	}
	return s.renderer.Preview(s.source, s.boxes.Snapshot(), 2)
}

// Display produces the zoomed, panned canvas for the GUI at the given view
// size, using the current viewport transform.
func (s *Session) Display(viewSize image.Point, redacted bool) *image.NRGBA {
	return redact.DisplayImage(s.Preview(redacted), s.view.Zoom, s.view.OffsetX, s.view.OffsetY, viewSize)
}

// IsDirty reports whether the current fields or boxes differ from the last
// persisted state. The GUI decides what to do about unsaved edits; the
// session never blocks navigation itself.
func (s *Session) IsDirty() bool {
	return !s.Fields().Equal(s.saved)
}

// Save persists the record and regenerates the redacted image, then feeds
// the saved field values to the vocabulary index. On success the session
// is clean again.
func (s *Session) Save() error {
	if s.folder == "" {
		return fmt.Errorf("no folder open")
	}
	rec := s.Fields()
	if err := s.store.Save(s.folder, rec); err != nil {
		return err
	}
	s.vocab.ObserveRecord(rec)
	s.fields = rec
	s.saved = rec.Clone()
	return nil
}

// BuildCatalog builds the consolidated index over every folder in the
// library and returns the entries plus per-folder warnings.
func (s *Session) BuildCatalog() ([]catalog.Entry, []catalog.Warning, error) {
	folders, err := s.Folders()
	if err != nil {
		return nil, nil, err
	}
	entries, warnings := catalog.Build(s.store, folders)
	return entries, warnings, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
