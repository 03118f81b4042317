package deck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestRoundTrip(t *testing.T) {
	d := NewDeck("capitals", "/decks/capitals", []Flashcard{
		NewFlashcard("france.png", "Paris"),
		NewFlashcard("", "London"),
	})
	d.TotalScore = 7 // score state must not travel through manifests

	path := filepath.Join(t.TempDir(), "capitals.yaml")
	require.NoError(t, WriteManifest(d, path))

	got, err := ReadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "capitals", got.Name)
	assert.Equal(t, path, got.SourcePath, "manifest location becomes the source path")
	assert.Zero(t, got.TotalScore)
	assert.Zero(t, got.CompletedRounds)

	require.Len(t, got.Flashcards, 2)
	assert.Equal(t, "france.png", got.Flashcards[0].ImageName)
	assert.Equal(t, "Paris", got.Flashcards[0].Answer)
	assert.NotEqual(t, d.Flashcards[0].ID, got.Flashcards[0].ID, "fresh ids on import")
	assert.Equal(t, "", got.Flashcards[1].ImageName)
	assert.Equal(t, "London", got.Flashcards[1].Answer)
}

func TestReadManifestSkipsBlankAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	manifest := `name: mixed
cards:
  - image: a.png
    answer: Kept
  - image: b.png
    answer: ""
  - answer: Also kept
`
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0644))

	got, err := ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, got.Flashcards, 2)
	assert.Equal(t, "Kept", got.Flashcards[0].Answer)
	assert.Equal(t, "Also kept", got.Flashcards[1].Answer)
}

func TestImportRoutesManifests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	manifest := "name: routed\ncards:\n  - answer: Paris\n"
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0644))

	im := NewImporter(NewAssetStore(filepath.Join(t.TempDir(), "images")))
	result, err := im.Import(context.Background(), path, "renamed")
	require.NoError(t, err)
	assert.Equal(t, "renamed", result.Deck.Name)
	assert.Equal(t, 1, result.Accepted)
	assert.Zero(t, result.Skipped)
}

func TestReadManifestErrors(t *testing.T) {
	t.Run("no usable entries", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: empty\ncards: []\n"), 0644))
		_, err := ReadManifest(path)
		assert.True(t, errors.Is(err, ErrNoFlashcards))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0644))
		_, err := ReadManifest(path)
		assert.Error(t, err)
	})
}
