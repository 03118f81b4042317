package deck

import (
	"archive/zip"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// makeAnkiPackage builds a minimal .apkg fixture: a collection database with
// the given (sfld, flds) note rows, one card per note, zipped up.
func makeAnkiPackage(t *testing.T, path string, notes [][2]string) {
	t.Helper()
	tmp := t.TempDir()

	dbPath := filepath.Join(tmp, "collection.anki2")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)

	_, err = db.Exec(`
		CREATE TABLE notes (id INTEGER PRIMARY KEY, sfld TEXT, flds TEXT);
		CREATE TABLE cards (id INTEGER PRIMARY KEY, nid INTEGER);
	`)
	require.NoError(t, err)

	for i, n := range notes {
		_, err = db.Exec(`INSERT INTO notes (id, sfld, flds) VALUES (?, ?, ?)`, i+1, n[0], n[1])
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO cards (id, nid) VALUES (?, ?)`, i+1, i+1)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()
	zw := zip.NewWriter(out)
	defer zw.Close()

	w, err := zw.Create("collection.anki2")
	require.NoError(t, err)
	f, err := os.Open(dbPath)
	require.NoError(t, err)
	defer f.Close()
	_, err = io.Copy(w, f)
	require.NoError(t, err)
}

// zipFixture writes a zip at path with the given name → content entries.
func zipFixture(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
}

func TestImportAnkiPackage(t *testing.T) {
	pkg := filepath.Join(t.TempDir(), "geography.apkg")
	makeAnkiPackage(t, pkg, [][2]string{
		{"Capital of France", "Capital of France\x1fParis"},   // two fields: back wins
		{"Standalone note", "Standalone note"},                // one field: sfld wins
		{"Blank back", "Blank back\x1f   "},                   // skipped: blank answer
	})

	im := NewImporter(NewAssetStore(filepath.Join(t.TempDir(), "assets")))

	result, err := im.ImportAnkiPackage(context.Background(), pkg, "")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Accepted)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Deck.Flashcards, 2)

	answers := make(map[string]bool)
	for _, f := range result.Deck.Flashcards {
		answers[f.Answer] = true
		assert.Empty(t, f.ImageName, "Anki text notes carry no image")
	}
	assert.True(t, answers["Paris"])
	assert.True(t, answers["Standalone note"])

	// Fallback deck name comes from the archive, not the scratch dir.
	assert.Equal(t, "geography", result.Deck.Name)
	assert.Equal(t, pkg, result.Deck.SourcePath)
}

func TestImportAnkiPackageErrors(t *testing.T) {
	im := NewImporter(NewAssetStore(filepath.Join(t.TempDir(), "assets")))
	ctx := context.Background()

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.apkg")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))
		_, err := im.ImportAnkiPackage(ctx, path, "")
		assert.True(t, errors.Is(err, ErrInvalidPackage))
	})

	t.Run("missing collection database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.apkg")
		zipFixture(t, path, map[string]string{"media": "{}"})
		_, err := im.ImportAnkiPackage(ctx, path, "")
		assert.True(t, errors.Is(err, ErrInvalidPackage))
	})

	t.Run("no usable notes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "blank.apkg")
		makeAnkiPackage(t, path, [][2]string{{"  ", "  "}})
		_, err := im.ImportAnkiPackage(ctx, path, "")
		assert.True(t, errors.Is(err, ErrNoFlashcards))
	})
}

func TestAnkiExportImportRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	assets := NewAssetStore(filepath.Join(tmp, "assets"))

	// Store an image so the exporter can bundle it as media.
	src := filepath.Join(tmp, "tower.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0644))
	require.NoError(t, assets.Copy("tower.png", src))

	d := NewDeck("Landmarks", "/tmp/landmarks", []Flashcard{
		NewFlashcard("tower.png", "Eiffel Tower"),
		NewFlashcard("", "Big Ben"),
	})

	pkg := filepath.Join(tmp, "landmarks.apkg")
	out, err := os.Create(pkg)
	require.NoError(t, err)
	require.NoError(t, NewAnkiExporter(assets).ExportDeck(d, out))
	require.NoError(t, out.Close())

	im := NewImporter(NewAssetStore(filepath.Join(tmp, "assets2")))
	result, err := im.ImportAnkiPackage(context.Background(), pkg, "")
	require.NoError(t, err)

	require.Len(t, result.Deck.Flashcards, 2)
	answers := make(map[string]bool)
	for _, f := range result.Deck.Flashcards {
		answers[f.Answer] = true
	}
	assert.True(t, answers["Eiffel Tower"])
	assert.True(t, answers["Big Ben"])
}
