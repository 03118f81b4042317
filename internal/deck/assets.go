// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package deck

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AssetStore manages the single persistent directory holding all deck
// images, addressed by their original filename. Two decks whose sources both
// contain an "image1.jpg" share one stored file; the first writer wins.
type AssetStore struct {
	dir string
}

// NewAssetStore creates a store rooted at dir. The directory is created
// lazily on first use.
func NewAssetStore(dir string) *AssetStore {
	return &AssetStore{dir: dir}
}

// Dir returns the asset directory path, creating it on first use.
func (a *AssetStore) Dir() (string, error) {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	return a.dir, nil
}

// Copy stores the file at sourcePath under name. A pre-existing file of the
// same name is left untouched. I/O failures wrap ErrCopyFailed; callers
// treat them as non-fatal per flashcard.
func (a *AssetStore) Copy(name, sourcePath string) error {
	dir, err := a.Dir()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}

	dst := filepath.Join(dir, name)
	if _, err := os.Stat(dst); err == nil {
		return nil // already stored
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrCopyFailed, sourcePath, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrCopyFailed, dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return fmt.Errorf("%w: write %s: %v", ErrCopyFailed, dst, err)
	}
	return nil
}

// Resolve reports the stored path for name, if it exists. It never creates
// anything.
func (a *AssetStore) Resolve(name string) (string, bool) {
	path := filepath.Join(a.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Remove deletes the stored file for name, if present.
func (a *AssetStore) Remove(name string) error {
	path := filepath.Join(a.dir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
