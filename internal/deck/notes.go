// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package deck

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ImportNoteArchive parses a note-export archive whose pages are per-page
// PDF files. The archive is extracted into a scratch directory that is
// removed unconditionally before returning. Page files are searched tier by
// tier (archive root, then "media", then "pages", then a full recursive
// walk) and the first tier that yields any pages wins. Every accepted page
// is copied into the asset store so its reference outlives the scratch
// directory.
func (im *Importer) ImportNoteArchive(ctx context.Context, archivePath, nameOverride string) (*ImportResult, error) {
	scratch, err := os.MkdirTemp("", "note-import-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create scratch dir: %v", ErrInvalidPackage, err)
	}
	defer os.RemoveAll(scratch)

	if err := extractArchive(archivePath, scratch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPackage, err)
	}

	pages := findPageFiles(scratch)
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFlashcards, archivePath)
	}

	var cards []Flashcard
	skipped := 0
	for _, page := range pages {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		name := filepath.Base(page)
		if err := im.assets.Copy(name, page); err != nil {
			slog.Warn("page copy failed, dropping flashcard",
				"page", name, "error", err)
			skipped++
			continue
		}
		cards = append(cards, NewFlashcard(name, pageAnswer(name)))
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFlashcards, archivePath)
	}

	deckTitle := deckName(nameOverride, baseNameWithoutExt(archivePath))
	return &ImportResult{
		Deck:     NewDeck(deckTitle, archivePath, cards),
		Accepted: len(cards),
		Skipped:  skipped,
	}, nil
}

// findPageFiles returns page PDFs from the first search tier that has any.
func findPageFiles(root string) []string {
	tiers := []string{root, filepath.Join(root, "media"), filepath.Join(root, "pages")}
	for _, dir := range tiers {
		if pages := pagesInDir(dir); len(pages) > 0 {
			return pages
		}
	}

	// Last resort: recursive scan.
	var pages []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			pages = append(pages, path)
		}
		return nil
	})
	return pages
}

func pagesInDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var pages []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			pages = append(pages, filepath.Join(dir, e.Name()))
		}
	}
	return pages
}

// pageAnswer derives the answer text from a page filename: "page_3.pdf"
// becomes "Page 3". Filenames outside that pattern contribute whatever is
// left after stripping the extension.
func pageAnswer(filename string) string {
	number := strings.TrimSuffix(filename, filepath.Ext(filename))
	number = strings.TrimPrefix(number, "page_")
	return "Page " + number
}
