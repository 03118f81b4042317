// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

// Package deck implements the deck import and persistence engine: format
// parsers for external archives, the image asset store, and the repository
// that owns the canonical deck list.
package deck

import (
	"time"

	"github.com/google/uuid"
)

// Flashcard is one question/answer unit: an image reference and the textual
// answer it represents. Score fields are mutated only during a study session.
type Flashcard struct {
	ID        string `json:"id" yaml:"id"`
	ImageName string `json:"image_name,omitempty" yaml:"image_name,omitempty"`
	Answer    string `json:"answer" yaml:"answer"`
	IsCorrect bool   `json:"is_correct" yaml:"is_correct"`
	UserScore int    `json:"user_score" yaml:"user_score"` // -1, 0 or 1
}

// NewFlashcard creates an unscored flashcard with a generated ID.
func NewFlashcard(imageName, answer string) Flashcard {
	return Flashcard{
		ID:        uuid.New().String(),
		ImageName: imageName,
		Answer:    answer,
	}
}

// ContentKey is the structural identity of a card: the (image name, answer)
// pair, independent of the generated ID. Merge deduplication collapses cards
// with equal content keys.
func (f Flashcard) ContentKey() string {
	return f.ImageName + "\x1f" + f.Answer
}

// Deck is a named, ordered collection of flashcards plus cumulative study
// statistics. SourcePath is the import origin and acts as the natural key
// for duplicate-import detection; it never changes after creation.
type Deck struct {
	ID              string      `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	SourcePath      string      `json:"source_path" yaml:"source_path"`
	Flashcards      []Flashcard `json:"flashcards" yaml:"flashcards"`
	TotalScore      int         `json:"total_score" yaml:"total_score"`
	CompletedRounds int         `json:"completed_rounds" yaml:"completed_rounds"`
	LastPlayed      *time.Time  `json:"last_played,omitempty" yaml:"last_played,omitempty"`
	CreatedAt       time.Time   `json:"created_at" yaml:"created_at"`
}

// NewDeck creates a deck around an imported flashcard sequence.
func NewDeck(name, sourcePath string, cards []Flashcard) *Deck {
	return &Deck{
		ID:         uuid.New().String(),
		Name:       name,
		SourcePath: sourcePath,
		Flashcards: cards,
		CreatedAt:  time.Now(),
	}
}

// AverageScore is the cumulative score divided by completed rounds, or 0
// when the deck has never been played.
func (d *Deck) AverageScore() float64 {
	if d.CompletedRounds == 0 {
		return 0
	}
	return float64(d.TotalScore) / float64(d.CompletedRounds)
}

// ProgressPercentage is the share of flashcards that carry a non-zero user
// score, in [0, 100]. An empty deck reports 0.
func (d *Deck) ProgressPercentage() float64 {
	if len(d.Flashcards) == 0 {
		return 0
	}
	scored := 0
	for _, f := range d.Flashcards {
		if f.UserScore != 0 {
			scored++
		}
	}
	return float64(scored) / float64(len(d.Flashcards)) * 100
}

// Clone returns a deep copy of the deck. Study sessions work on a clone so
// the repository keeps the authoritative copy until Commit.
func (d *Deck) Clone() *Deck {
	out := *d
	out.Flashcards = make([]Flashcard, len(d.Flashcards))
	copy(out.Flashcards, d.Flashcards)
	if d.LastPlayed != nil {
		t := *d.LastPlayed
		out.LastPlayed = &t
	}
	return &out
}
