// Package record implements the per-resort metadata record and its
// on-disk lifecycle. Each resort lives in its own folder under the library
// root, holding the scanned source map, a metadata.json, and the generated
// redacted copy of the map.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skivault/trailmask/internal/utils"
	"github.com/skivault/trailmask/pkg/redact"
	"github.com/skivault/trailmask/pkg/types"
)

// Per-folder file layout.
const (
	MetadataFile   = "metadata.json"
	RedactedSuffix = "_redacted"
)

var (
	// ErrRecordLoad marks metadata that is present but unparsable.
	ErrRecordLoad = errors.New("record: failed to load metadata")
	// ErrRecordSave marks an I/O failure while persisting metadata or the
	// redacted image. A save that returns nil wrote both.
	ErrRecordSave = errors.New("record: failed to save")
	// ErrSourceImageMissing marks a folder with no source raster to redact.
	ErrSourceImageMissing = errors.New("record: no source image in folder")
)

// Record holds the structured metadata for one resort plus its redaction
// boxes. The zero value is a valid, empty record. Acreage and lift count
// are pointers so a blank field persists as absent rather than zero and
// survives load/save round-trips unchanged.
type Record struct {
	Name           string      `json:"name"`
	Country        string      `json:"country"`
	Region         string      `json:"region"`
	ParentCompany  string      `json:"parent_company"`
	Continent      string      `json:"continent"`
	SkiableAcreage *float64    `json:"skiable_acreage,omitempty"`
	Lifts          *int        `json:"lifts,omitempty"`
	Boxes          []types.Box `json:"boxes"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	if r.SkiableAcreage != nil {
		v := *r.SkiableAcreage
		out.SkiableAcreage = &v
	}
	if r.Lifts != nil {
		v := *r.Lifts
		out.Lifts = &v
	}
	if r.Boxes != nil {
		out.Boxes = make([]types.Box, len(r.Boxes))
		copy(out.Boxes, r.Boxes)
	}
	return out
}

// Equal reports whether two records carry the same field values and the
// same box sequence. Used for dirty tracking against the last persisted
// snapshot.
func (r Record) Equal(o Record) bool {
	if r.Name != o.Name || r.Country != o.Country || r.Region != o.Region ||
		r.ParentCompany != o.ParentCompany || r.Continent != o.Continent {
		return false
	}
	if !eqFloatPtr(r.SkiableAcreage, o.SkiableAcreage) || !eqIntPtr(r.Lifts, o.Lifts) {
		return false
	}
	if len(r.Boxes) != len(o.Boxes) {
		return false
	}
	for i := range r.Boxes {
		if r.Boxes[i] != o.Boxes[i] {
			return false
		}
	}
	return true
}

func eqFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Store reads and writes records under a library root directory.
type Store struct {
	root     string
	renderer *redact.Renderer
	saveOpts redact.SaveOptions
}

// NewStore creates a store rooted at the library directory.
func NewStore(root string, renderer *redact.Renderer) *Store {
	return &Store{
		root:     root,
		renderer: renderer,
		saveOpts: redact.SaveOptions{Quality: 90},
	}
}

// SetSaveOptions overrides the encoding options used for redacted images.
func (s *Store) SetSaveOptions(opts redact.SaveOptions) {
	s.saveOpts = opts
}

// Root returns the library root directory.
func (s *Store) Root() string {
	return s.root
}

// FolderPath returns the absolute path of a resort folder.
func (s *Store) FolderPath(folder string) string {
	return filepath.Join(s.root, folder)
}

// MetadataPath returns the metadata file path for a resort folder.
func (s *Store) MetadataPath(folder string) string {
	return filepath.Join(s.root, folder, MetadataFile)
}

// HasMetadata reports whether a folder has a persisted record.
func (s *Store) HasMetadata(folder string) bool {
	return utils.FileExists(s.MetadataPath(folder))
}

// Load reads the persisted record for a folder. A folder without metadata
// yields an empty record, not an error; metadata that exists but cannot be
// parsed yields ErrRecordLoad and the caller decides whether to proceed
// with defaults.
func (s *Store) Load(folder string) (Record, error) {
	data, err := os.ReadFile(s.MetadataPath(folder))
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", ErrRecordLoad, folder, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", ErrRecordLoad, folder, err)
	}
	return rec, nil
}

// SourceImagePath locates the scanned source map in a resort folder.
func (s *Store) SourceImagePath(folder string) (string, error) {
	path, err := utils.FindSourceImage(s.FolderPath(folder), RedactedSuffix)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSourceImageMissing, folder, err)
	}
	if path == "" {
		return "", fmt.Errorf("%w: %s", ErrSourceImageMissing, folder)
	}
	return path, nil
}

// RedactedImagePath returns where the redacted copy for a folder is
// written, derived from the source image name.
func (s *Store) RedactedImagePath(folder string) (string, error) {
	src, err := s.SourceImagePath(folder)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(src), utils.RedactedName(filepath.Base(src), RedactedSuffix)), nil
}

// Save persists the record's metadata and regenerates the redacted image
// from the current source and box snapshot. Either both artifacts are
// written or an error is returned; metadata is written atomically via
// temp-and-rename. Saving twice without edits produces identical bytes.
// An empty name is allowed; field completeness is the form's concern.
func (s *Store) Save(folder string, rec Record) error {
	if rec.Boxes == nil {
		rec.Boxes = []types.Box{}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRecordSave, folder, err)
	}
	data = append(data, '\n')

	// Locate the source before touching anything, so a folder without a
	// source image fails the save cleanly.
	srcPath, err := s.SourceImagePath(folder)
	if err != nil {
		return err
	}

	if err := utils.WriteFileAtomic(s.MetadataPath(folder), data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRecordSave, folder, err)
	}

	if err := s.renderRedacted(folder, srcPath, rec.Boxes); err != nil {
		return err
	}
	return nil
}

// Render regenerates only the redacted image for a folder from its
// persisted boxes. Used for idempotent batch regeneration.
func (s *Store) Render(folder string) error {
	rec, err := s.Load(folder)
	if err != nil {
		return err
	}
	srcPath, err := s.SourceImagePath(folder)
	if err != nil {
		return err
	}
	return s.renderRedacted(folder, srcPath, rec.Boxes)
}

func (s *Store) renderRedacted(folder, srcPath string, boxes []types.Box) error {
	src, err := redact.LoadImage(srcPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRecordSave, folder, err)
	}
	out := s.renderer.Render(src, boxes)

	dst := filepath.Join(filepath.Dir(srcPath), utils.RedactedName(filepath.Base(srcPath), RedactedSuffix))

	// Encode to a sibling temp path (same extension, so the encoder switch
	// still applies) and rename into place.
	tmp := filepath.Join(filepath.Dir(dst), ".tmp_"+filepath.Base(dst))
	if err := redact.SaveImage(out, tmp, s.saveOpts); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %s: %v", ErrRecordSave, folder, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %s: %v", ErrRecordSave, folder, err)
	}
	return nil
}
