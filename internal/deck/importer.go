// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package deck

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ImportResult carries an imported deck together with the parser's row
// accounting. Skipped counts rows dropped by the permissive cleaning policy
// (missing image, empty answer, failed asset copy); they are reported here
// rather than surfaced as errors.
type ImportResult struct {
	Deck     *Deck
	Accepted int
	Skipped  int
}

// Importer turns external archives and folders into decks, copying image
// assets into the shared AssetStore as it goes.
type Importer struct {
	assets *AssetStore
}

// NewImporter creates an importer writing assets into the given store.
func NewImporter(assets *AssetStore) *Importer {
	return &Importer{assets: assets}
}

// Import routes a filesystem location to the matching parser by extension:
// Anki packages (.apkg, .colpkg), note archives (.note, .zip), deck
// manifests (.yaml, .yml), and anything else to the folder importer.
// nameOverride, when non-blank after trimming, becomes the deck name.
func (im *Importer) Import(ctx context.Context, path, nameOverride string) (*ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".apkg", ".colpkg":
		return im.ImportAnkiPackage(ctx, path, nameOverride)
	case ".note", ".zip":
		return im.ImportNoteArchive(ctx, path, nameOverride)
	case ".yaml", ".yml":
		return im.importManifest(path, nameOverride)
	default:
		return im.ImportFolder(ctx, path, nameOverride)
	}
}

func (im *Importer) importManifest(path, nameOverride string) (*ImportResult, error) {
	d, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	d.Name = deckName(nameOverride, d.Name)
	return &ImportResult{Deck: d, Accepted: len(d.Flashcards)}, nil
}

// deckName resolves the caller-supplied override against a fallback.
func deckName(override, fallback string) string {
	if name := strings.TrimSpace(override); name != "" {
		return name
	}
	return fallback
}

// baseNameWithoutExt is the filename minus its extension, used as the
// fallback deck name for archive imports.
func baseNameWithoutExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// extractArchive unpacks a zip-compatible container into dst, refusing
// entries that would escape it.
func extractArchive(src, dst string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dst, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(dst)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes extraction dir: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
