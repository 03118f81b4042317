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

func TestImportNoteArchive(t *testing.T) {
	pkg := filepath.Join(t.TempDir(), "biology.note")
	zipFixture(t, pkg, map[string]string{
		"pages/page_1.pdf": "pdf-1",
		"pages/page_2.pdf": "pdf-2",
		"pages/cover.pdf":  "pdf-cover",
		"pages/notes.txt":  "ignored",
	})

	assets := NewAssetStore(filepath.Join(t.TempDir(), "assets"))
	im := NewImporter(assets)

	result, err := im.ImportNoteArchive(context.Background(), pkg, "")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Accepted)
	require.Len(t, result.Deck.Flashcards, 3)

	answers := make(map[string]string)
	for _, f := range result.Deck.Flashcards {
		answers[f.ImageName] = f.Answer
	}
	assert.Equal(t, "Page 1", answers["page_1.pdf"])
	assert.Equal(t, "Page 2", answers["page_2.pdf"])
	assert.Equal(t, "Page cover", answers["cover.pdf"], "non-matching name keeps its stem")

	// Page files survive scratch cleanup because they go through the
	// asset store like any other image.
	for _, name := range []string{"page_1.pdf", "page_2.pdf", "cover.pdf"} {
		path, ok := assets.Resolve(name)
		require.True(t, ok, "page %s should be in the asset store", name)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}

	assert.Equal(t, "biology", result.Deck.Name)
}

func TestImportNoteArchiveSearchTiers(t *testing.T) {
	im := NewImporter(NewAssetStore(filepath.Join(t.TempDir(), "assets")))
	ctx := context.Background()

	t.Run("root beats media", func(t *testing.T) {
		pkg := filepath.Join(t.TempDir(), "root.note")
		zipFixture(t, pkg, map[string]string{
			"page_1.pdf":       "root page",
			"media/page_9.pdf": "never reached",
		})
		result, err := im.ImportNoteArchive(ctx, pkg, "")
		require.NoError(t, err)
		require.Len(t, result.Deck.Flashcards, 1)
		assert.Equal(t, "page_1.pdf", result.Deck.Flashcards[0].ImageName)
	})

	t.Run("media beats pages", func(t *testing.T) {
		pkg := filepath.Join(t.TempDir(), "media.note")
		zipFixture(t, pkg, map[string]string{
			"media/page_1.pdf": "media page",
			"pages/page_9.pdf": "never reached",
		})
		result, err := im.ImportNoteArchive(ctx, pkg, "")
		require.NoError(t, err)
		require.Len(t, result.Deck.Flashcards, 1)
		assert.Equal(t, "page_1.pdf", result.Deck.Flashcards[0].ImageName)
	})

	t.Run("recursive scan as last resort", func(t *testing.T) {
		pkg := filepath.Join(t.TempDir(), "nested.note")
		zipFixture(t, pkg, map[string]string{
			"deep/nested/dir/page_7.pdf": "deep page",
		})
		result, err := im.ImportNoteArchive(ctx, pkg, "")
		require.NoError(t, err)
		require.Len(t, result.Deck.Flashcards, 1)
		assert.Equal(t, "Page 7", result.Deck.Flashcards[0].Answer)
	})
}

func TestImportNoteArchiveErrors(t *testing.T) {
	im := NewImporter(NewAssetStore(filepath.Join(t.TempDir(), "assets")))
	ctx := context.Background()

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.note")
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
		_, err := im.ImportNoteArchive(ctx, path, "")
		assert.True(t, errors.Is(err, ErrInvalidPackage))
	})

	t.Run("no pages anywhere", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.note")
		zipFixture(t, path, map[string]string{"readme.txt": "no pages here"})
		_, err := im.ImportNoteArchive(ctx, path, "")
		assert.True(t, errors.Is(err, ErrNoFlashcards))
	})
}

func TestPageAnswer(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"page_1.pdf", "Page 1"},
		{"page_42.pdf", "Page 42"},
		{"cover.pdf", "Page cover"},
		{"page_.pdf", "Page "},
		{"summary.notes.pdf", "Page summary.notes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pageAnswer(tt.filename), "filename %s", tt.filename)
	}
}
