// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package deck

import (
	"context"
	"math/rand"
	"time"
)

// Session is one study run over a deck. It borrows a shuffled copy; the
// repository keeps the authoritative deck until Commit merges the session
// results back.
type Session struct {
	deck  *Deck
	score int
	done  bool
}

// NewSession starts a session over a shuffled copy of d.
func NewSession(d *Deck) *Session {
	working := d.Clone()
	rand.Shuffle(len(working.Flashcards), func(i, j int) {
		working.Flashcards[i], working.Flashcards[j] = working.Flashcards[j], working.Flashcards[i]
	})
	return &Session{deck: working}
}

// Cards exposes the session's shuffled flashcard order.
func (s *Session) Cards() []Flashcard {
	return s.deck.Flashcards
}

// Score is the running session score: +1 per correct, -1 per wrong answer.
func (s *Session) Score() int {
	return s.score
}

// Mark records the user's verdict on a card. Correct answers score +1,
// wrong answers -1. Marking an already-marked card replaces its verdict.
func (s *Session) Mark(cardID string, correct bool) bool {
	for i := range s.deck.Flashcards {
		f := &s.deck.Flashcards[i]
		if f.ID != cardID {
			continue
		}
		s.score -= f.UserScore
		if correct {
			f.UserScore = 1
			f.IsCorrect = true
		} else {
			f.UserScore = -1
			f.IsCorrect = false
		}
		s.score += f.UserScore
		return true
	}
	return false
}

// Commit finishes the session: the deck's cumulative score and round count
// absorb the session results, the play timestamp is set to the commit time,
// and the mutated copy is handed to the repository's update operation.
// A session commits at most once.
func (s *Session) Commit(ctx context.Context, repo *Repository) (*Deck, error) {
	if s.done {
		return s.deck.Clone(), nil
	}

	now := time.Now()
	s.deck.TotalScore += s.score
	s.deck.CompletedRounds++
	s.deck.LastPlayed = &now

	if err := repo.Update(ctx, s.deck); err != nil {
		return nil, err
	}
	s.done = true
	return s.deck.Clone(), nil
}
