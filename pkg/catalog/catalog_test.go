package catalog

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skivault/trailmask/pkg/record"
	"github.com/skivault/trailmask/pkg/redact"
)

func newLibrary(t *testing.T) (*record.Store, string) {
	t.Helper()
	root := t.TempDir()
	return record.NewStore(root, redact.New()), root
}

func addResort(t *testing.T, store *record.Store, root, folder string, rec record.Record) {
	t.Helper()
	dir := filepath.Join(root, folder)
	require.NoError(t, os.MkdirAll(dir, 0755))
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	require.NoError(t, imaging.Save(img, filepath.Join(dir, "map.png")))
	require.NoError(t, store.Save(folder, rec))
}

func TestBuildEmitsOneEntryPerRecord(t *testing.T) {
	store, root := newLibrary(t)
	addResort(t, store, root, "alpha", record.Record{Name: "Alpha", Country: "France"})
	addResort(t, store, root, "bravo", record.Record{Name: "Bravo", Country: "Italy"})

	entries, warnings := Build(store, []string{"alpha", "bravo"})

	require.Len(t, entries, 2)
	assert.Empty(t, warnings)
	assert.Equal(t, "alpha", entries[0].Folder)
	assert.Equal(t, "Alpha", entries[0].Name)
	assert.Equal(t, "France", entries[0].Country)
	assert.Equal(t, "bravo", entries[1].Folder)
}

func TestBuildIsolatesCorruptRecords(t *testing.T) {
	store, root := newLibrary(t)
	addResort(t, store, root, "alpha", record.Record{Name: "Alpha"})
	addResort(t, store, root, "charlie", record.Record{Name: "Charlie"})

	// One folder with unparsable metadata among the three
	dir := filepath.Join(root, "bravo")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, record.MetadataFile), []byte("{broken"), 0644))

	entries, warnings := Build(store, []string{"alpha", "bravo", "charlie"})

	require.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries[0].Folder)
	assert.Equal(t, "charlie", entries[1].Folder)
	require.Len(t, warnings, 1)
	assert.Equal(t, "bravo", warnings[0].Folder)
}

func TestBuildWarnsOnMissingMetadata(t *testing.T) {
	store, root := newLibrary(t)
	addResort(t, store, root, "alpha", record.Record{Name: "Alpha"})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "no-metadata"), 0755))

	entries, warnings := Build(store, []string{"alpha", "no-metadata"})

	require.Len(t, entries, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, "no-metadata", warnings[0].Folder)
	assert.Contains(t, warnings[0].String(), "no metadata record")
}

func TestBuildKeepsIncompleteEntries(t *testing.T) {
	store, root := newLibrary(t)
	addResort(t, store, root, "unnamed", record.Record{})

	entries, warnings := Build(store, []string{"unnamed"})

	// An empty name is an incomplete entry, not a rejected one
	require.Len(t, entries, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, "", entries[0].Name)
}

func TestWriteIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	lifts := 12
	entries := []Entry{
		{Folder: "alpha", Name: "Alpha", Country: "France", Lifts: &lifts},
	}

	require.NoError(t, WriteIndex(path, entries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back []Entry
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 1)
	assert.Equal(t, entries[0].Folder, back[0].Folder)
	assert.Equal(t, 12, *back[0].Lifts)
}

func TestWriteIndexEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, WriteIndex(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
