// Package catalog builds the consolidated index of all annotated resorts
// that the game application consumes.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/skivault/trailmask/internal/utils"
	"github.com/skivault/trailmask/pkg/record"
)

// Entry is the scalar projection of one resort's record, plus the folder
// identifier tying it back to its images.
type Entry struct {
	Folder         string   `json:"folder"`
	Name           string   `json:"name"`
	Country        string   `json:"country"`
	Region         string   `json:"region"`
	ParentCompany  string   `json:"parent_company"`
	Continent      string   `json:"continent"`
	SkiableAcreage *float64 `json:"skiable_acreage,omitempty"`
	Lifts          *int     `json:"lifts,omitempty"`
}

// FromRecord projects a record into a catalog entry.
func FromRecord(folder string, rec record.Record) Entry {
	return Entry{
		Folder:         folder,
		Name:           rec.Name,
		Country:        rec.Country,
		Region:         rec.Region,
		ParentCompany:  rec.ParentCompany,
		Continent:      rec.Continent,
		SkiableAcreage: rec.SkiableAcreage,
		Lifts:          rec.Lifts,
	}
}

// Warning records a folder that could not contribute an entry. Warnings
// are informational; the rest of the catalog still builds.
type Warning struct {
	Folder string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Folder, w.Reason)
}

// Build emits one entry per folder with a persisted record, in the order
// the folders are given (callers pass them lexicographically sorted so
// regeneration is reproducible). Folders without metadata and folders
// whose metadata fails to parse become warnings, never a fatal error —
// a partial catalog is still useful.
func Build(store *record.Store, folders []string) ([]Entry, []Warning) {
	var entries []Entry
	var warnings []Warning

	for _, folder := range folders {
		if !store.HasMetadata(folder) {
			warnings = append(warnings, Warning{Folder: folder, Reason: "no metadata record"})
			slog.Warn("Skipping folder without metadata", "folder", folder)
			continue
		}
		rec, err := store.Load(folder)
		if err != nil {
			warnings = append(warnings, Warning{Folder: folder, Reason: err.Error()})
			slog.Warn("Skipping folder with unreadable metadata", "folder", folder, "error", err)
			continue
		}
		entries = append(entries, FromRecord(folder, rec))
	}

	return entries, warnings
}

// WriteIndex persists the entries as the consolidated JSON index. Kept
// separate from Build so building stays side-effect free.
func WriteIndex(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	data = append(data, '\n')
	return utils.WriteFileAtomic(path, data, 0644)
}
