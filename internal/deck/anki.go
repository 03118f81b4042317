// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package deck

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ankiFieldSep is Anki's field separator inside the flds blob.
const ankiFieldSep = "\x1f"

// ImportAnkiPackage parses a .apkg/.colpkg archive. The archive is extracted
// into a scratch directory that is removed unconditionally before returning.
// Cards are synthesized from the collection database's notes: with a
// two-field note model the answer is the second field, otherwise the primary
// sort field. Anki text notes carry no image in this path, so ImageName is
// always empty.
func (im *Importer) ImportAnkiPackage(ctx context.Context, archivePath, nameOverride string) (*ImportResult, error) {
	scratch, err := os.MkdirTemp("", "anki-import-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create scratch dir: %v", ErrInvalidPackage, err)
	}
	defer os.RemoveAll(scratch)

	if err := extractArchive(archivePath, scratch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPackage, err)
	}

	dbPath := filepath.Join(scratch, "collection.anki2")
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: missing collection.anki2", ErrInvalidPackage)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT n.sfld, n.flds
		FROM notes n
		JOIN cards c ON c.nid = n.id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryPrepare, err)
	}
	defer rows.Close()

	var cards []Flashcard
	skipped := 0
	for rows.Next() {
		var sfld, flds sql.NullString
		if err := rows.Scan(&sfld, &flds); err != nil {
			skipped++
			continue
		}

		answer := sfld.String
		if parts := strings.Split(flds.String, ankiFieldSep); len(parts) >= 2 {
			answer = parts[1]
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			skipped++
			continue
		}

		cards = append(cards, NewFlashcard("", answer))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryPrepare, err)
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFlashcards, archivePath)
	}

	// Fallback name comes from the original archive, not the scratch dir,
	// so an unnamed import still reads sensibly in the deck list.
	name := deckName(nameOverride, baseNameWithoutExt(archivePath))
	return &ImportResult{
		Deck:     NewDeck(name, archivePath, cards),
		Accepted: len(cards),
		Skipped:  skipped,
	}, nil
}

// AnkiExporter generates .apkg files from a deck.
type AnkiExporter struct {
	assets *AssetStore
}

// NewAnkiExporter creates an exporter resolving card images against the
// given asset store.
func NewAnkiExporter(assets *AssetStore) *AnkiExporter {
	return &AnkiExporter{assets: assets}
}

// ExportDeck writes d as an Anki package. Card fronts show the image when
// one is stored, the answer text otherwise; backs always show the answer.
func (e *AnkiExporter) ExportDeck(d *Deck, w io.Writer) error {
	tmpDir, err := os.MkdirTemp("", "anki-export-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "collection.anki2")

	media, err := e.createDatabase(dbPath, d)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}

	// Anki media manifest: numbered entries mapping to original filenames.
	manifest := make(map[string]string, len(media))
	for i, name := range media {
		manifest[fmt.Sprintf("%d", i)] = name
	}
	manifestJSON, _ := json.Marshal(manifest)
	mediaPath := filepath.Join(tmpDir, "media")
	if err := os.WriteFile(mediaPath, manifestJSON, 0644); err != nil {
		return fmt.Errorf("create media manifest: %w", err)
	}

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	if err := e.addFileToZip(zipWriter, dbPath, "collection.anki2"); err != nil {
		return fmt.Errorf("add database to zip: %w", err)
	}
	if err := e.addFileToZip(zipWriter, mediaPath, "media"); err != nil {
		return fmt.Errorf("add media manifest to zip: %w", err)
	}
	for i, name := range media {
		stored, ok := e.assets.Resolve(name)
		if !ok {
			continue
		}
		if err := e.addFileToZip(zipWriter, stored, fmt.Sprintf("%d", i)); err != nil {
			return fmt.Errorf("add media %s to zip: %w", name, err)
		}
	}

	return nil
}

// createDatabase builds the collection database and returns the image names
// referenced by the deck, in card order.
func (e *AnkiExporter) createDatabase(dbPath string, d *Deck) ([]string, error) {
	os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	schema := `
		CREATE TABLE col (
			id INTEGER PRIMARY KEY,
			crt INTEGER NOT NULL,
			mod INTEGER NOT NULL,
			scm INTEGER NOT NULL,
			ver INTEGER NOT NULL,
			dty INTEGER NOT NULL,
			usn INTEGER NOT NULL,
			ls INTEGER NOT NULL,
			conf TEXT NOT NULL,
			models TEXT NOT NULL,
			decks TEXT NOT NULL,
			dconf TEXT NOT NULL,
			tags TEXT NOT NULL
		);

		CREATE TABLE notes (
			id INTEGER PRIMARY KEY,
			guid TEXT NOT NULL,
			mid INTEGER NOT NULL,
			usn INTEGER NOT NULL,
			mod INTEGER NOT NULL,
			sfld INTEGER NOT NULL,
			csum INTEGER NOT NULL,
			flags INTEGER NOT NULL,
			data TEXT NOT NULL,
			flds TEXT NOT NULL
		);

		CREATE TABLE cards (
			id INTEGER PRIMARY KEY,
			nid INTEGER NOT NULL,
			did INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			mod INTEGER NOT NULL,
			usn INTEGER NOT NULL,
			type INTEGER NOT NULL,
			queue INTEGER NOT NULL,
			due INTEGER NOT NULL,
			ivl INTEGER NOT NULL,
			factor INTEGER NOT NULL,
			reps INTEGER NOT NULL,
			lapses INTEGER NOT NULL,
			left INTEGER NOT NULL,
			odue INTEGER NOT NULL,
			odid INTEGER NOT NULL,
			flags INTEGER NOT NULL,
			data TEXT NOT NULL
		);

		CREATE INDEX ix_cards_nid ON cards (nid);
		CREATE INDEX ix_cards_sched ON cards (did, queue, due);
		CREATE INDEX ix_notes_csum ON notes (csum);
	`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	now := time.Now().UnixMilli()
	deckID := int64(1)
	modelID := int64(1)

	conf := map[string]interface{}{
		"curModel":    modelID,
		"activeDecks": []int64{deckID},
	}
	confJSON, _ := json.Marshal(conf)

	// Basic two-field note model, front/back.
	model := map[string]interface{}{
		fmt.Sprintf("%d", modelID): map[string]interface{}{
			"id":    modelID,
			"name":  "Basic",
			"type":  0,
			"mod":   now,
			"usn":   -1,
			"sortf": 0,
			"did":   deckID,
			"tmpls": []map[string]interface{}{
				{
					"name":  "Card 1",
					"ord":   0,
					"qfmt":  "{{Front}}",
					"afmt":  "{{FrontSide}}<hr id=\"answer\">{{Back}}",
					"bqfmt": "",
					"bafmt": "",
					"did":   nil,
				},
			},
			"flds": []map[string]interface{}{
				{"name": "Front", "ord": 0, "sticky": false, "rtl": false, "font": "Arial", "size": 20, "media": []string{}},
				{"name": "Back", "ord": 1, "sticky": false, "rtl": false, "font": "Arial", "size": 20, "media": []string{}},
			},
			"css":  ".card { font-family: arial; font-size: 20px; text-align: center; color: black; background-color: white; }",
			"req":  [][]interface{}{{0, "all", []int{0}}},
			"tags": []string{},
		},
	}
	modelsJSON, _ := json.Marshal(model)

	ankiDeck := map[string]interface{}{
		fmt.Sprintf("%d", deckID): map[string]interface{}{
			"id":        deckID,
			"name":      d.Name,
			"desc":      "",
			"mod":       now,
			"usn":       -1,
			"collapsed": false,
			"dyn":       0,
			"newToday":  []interface{}{0, 0},
			"revToday":  []interface{}{0, 0},
			"lrnToday":  []interface{}{0, 0},
			"timeToday": []interface{}{0, 0},
			"conf":      1,
		},
	}
	decksJSON, _ := json.Marshal(ankiDeck)

	dconf := map[string]interface{}{
		"1": map[string]interface{}{
			"id":       1,
			"mod":      now,
			"usn":      -1,
			"maxTaken": 60,
			"autoplay": true,
			"timer":    0,
			"new": map[string]interface{}{
				"delays":        []float64{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
			},
			"rev": map[string]interface{}{
				"perDay": 200,
				"fuzz":   0.05,
				"maxIvl": 36500,
			},
			"lapse": map[string]interface{}{
				"delays":     []float64{10},
				"mult":       0,
				"minInt":     1,
				"leechFails": 8,
			},
		},
	}
	dconfJSON, _ := json.Marshal(dconf)

	_, err = db.Exec(`
		INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, 1, now/1000, now, now, 11, 0, 0, 0, string(confJSON), string(modelsJSON), string(decksJSON), string(dconfJSON), "[]")
	if err != nil {
		return nil, fmt.Errorf("insert collection: %w", err)
	}

	var media []string
	for i, card := range d.Flashcards {
		if err := e.insertCard(db, int64(i), card, modelID, deckID, now); err != nil {
			return nil, fmt.Errorf("insert card %d: %w", i, err)
		}
		if card.ImageName != "" {
			media = append(media, card.ImageName)
		}
	}

	return media, nil
}

func (e *AnkiExporter) insertCard(db *sql.DB, idx int64, card Flashcard, modelID, deckID, now int64) error {
	noteID := now + idx*1000
	cardID := noteID + 1

	front := card.Answer
	if card.ImageName != "" {
		front = fmt.Sprintf("<img src=%q>", card.ImageName)
	}
	back := card.Answer

	fields := front + ankiFieldSep + back
	sfld := front

	// Checksum (simple hash of fields)
	csum := int64(0)
	for _, c := range fields {
		csum = (csum*31 + int64(c)) & 0xFFFFFFFF
	}

	_, err := db.Exec(`
		INSERT INTO notes (id, guid, mid, usn, mod, sfld, csum, flags, data, flds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, noteID, fmt.Sprintf("fc-%d", noteID), modelID, -1, now, sfld, csum, 0, "", fields)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cardID, noteID, deckID, 0, now, -1, 0, 0, 0, 0, 2500, 0, 0, 0, 0, 0, 0, "")
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}

	return nil
}

func (e *AnkiExporter) addFileToZip(zw *zip.Writer, filePath, nameInZip string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = nameInZip
	header.Method = zip.Deflate

	writer, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(writer, file)
	return err
}
