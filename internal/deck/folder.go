// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package deck

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// databaseExts are the file extensions recognized as the folder's card
// database.
var databaseExts = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// ImportFolder parses a folder containing a card database and an "images"
// subfolder. Rows whose image is missing from the images folder or whose
// answer is blank are skipped, not errors; accepted images are copied into
// the asset store before the flashcard is included.
func (im *Importer) ImportFolder(ctx context.Context, folderPath, nameOverride string) (*ImportResult, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingDatabase, folderPath)
	}

	var dbPath, imagesDir string
	for _, e := range entries {
		if e.IsDir() {
			if strings.EqualFold(e.Name(), "images") {
				imagesDir = filepath.Join(folderPath, e.Name())
			}
			continue
		}
		if databaseExts[strings.ToLower(filepath.Ext(e.Name()))] {
			dbPath = filepath.Join(folderPath, e.Name())
		}
	}
	if dbPath == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingDatabase, folderPath)
	}
	if imagesDir == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingImagesFolder, folderPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT front, back, front_image_file_name, back_image_file_name
		FROM cards
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryPrepare, err)
	}
	defer rows.Close()

	var cards []Flashcard
	skipped := 0
	for rows.Next() {
		var front, back, frontImage, backImage sql.NullString
		if err := rows.Scan(&front, &back, &frontImage, &backImage); err != nil {
			skipped++
			continue
		}

		imageName := frontImage.String
		if imageName == "" {
			imageName = backImage.String
		}

		answer := back.String
		if answer == "" {
			answer = front.String
		}
		if answer == "" {
			answer = "No answer found"
		}
		answer = strings.TrimSpace(answer)

		imagePath := filepath.Join(imagesDir, imageName)
		if imageName == "" || answer == "" {
			skipped++
			continue
		}
		if _, err := os.Stat(imagePath); err != nil {
			skipped++
			continue
		}

		if err := im.assets.Copy(imageName, imagePath); err != nil {
			slog.Warn("asset copy failed, dropping flashcard",
				"image", imageName, "error", err)
			skipped++
			continue
		}

		cards = append(cards, NewFlashcard(imageName, answer))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryPrepare, err)
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFlashcards, folderPath)
	}

	name := deckName(nameOverride, filepath.Base(folderPath))
	return &ImportResult{
		Deck:     NewDeck(name, folderPath, cards),
		Accepted: len(cards),
		Skipped:  skipped,
	}, nil
}
