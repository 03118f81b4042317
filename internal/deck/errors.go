// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package deck

import "errors"

// Import error taxonomy. Per-row failures inside a parser are skipped
// silently; only a total absence of usable rows surfaces as ErrNoFlashcards.
// Use errors.Is to check: errors.Is(err, deck.ErrDuplicateSource)
var (
	ErrMissingDatabase     = errors.New("deck: no database file found in folder")
	ErrMissingImagesFolder = errors.New("deck: no images folder found in folder")
	ErrInvalidPackage      = errors.New("deck: invalid or incomplete package archive")
	ErrNoFlashcards        = errors.New("deck: no usable flashcards found")
	ErrDuplicateSource     = errors.New("deck: source path already imported")
	ErrCopyFailed          = errors.New("deck: asset copy failed")
	ErrDatabaseOpen        = errors.New("deck: cannot open database")
	ErrQueryPrepare        = errors.New("deck: cannot prepare database query")
	ErrDeckNotFound        = errors.New("deck: deck not found")
)
