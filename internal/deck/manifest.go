// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package deck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a portable YAML description of a deck: the name and the
// image/answer pairs, without ids or score state. It round-trips through
// WriteManifest and ReadManifest.
type Manifest struct {
	Name  string         `yaml:"name"`
	Cards []ManifestCard `yaml:"cards"`
}

// ManifestCard is one flashcard entry in a deck manifest.
type ManifestCard struct {
	Image  string `yaml:"image,omitempty"`
	Answer string `yaml:"answer"`
}

// WriteManifest writes d's manifest to path.
func WriteManifest(d *Deck, path string) error {
	m := Manifest{Name: d.Name}
	for _, f := range d.Flashcards {
		m.Cards = append(m.Cards, ManifestCard{Image: f.ImageName, Answer: f.Answer})
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadManifest loads a manifest and builds a fresh, unscored deck from it.
// The manifest file's location becomes the deck's source path. Entries with
// a blank answer are skipped; a manifest with no usable entries fails with
// ErrNoFlashcards.
func ReadManifest(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	var cards []Flashcard
	for _, c := range m.Cards {
		if c.Answer == "" {
			continue
		}
		cards = append(cards, NewFlashcard(c.Image, c.Answer))
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFlashcards, path)
	}

	return NewDeck(m.Name, path, cards), nil
}
