// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/anilaygunn/FlashCard-Creator/internal/config"
	"github.com/anilaygunn/FlashCard-Creator/internal/deck"
)

// NewRootCmd creates the root command for flashcards.
func NewRootCmd(cfg *config.Config, repo *deck.Repository) *cobra.Command {

	root := &cobra.Command{
		Use:   "flashcards",
		Short: "Import and study image flashcard decks",
		Long: `Import flashcard decks from folders, Anki packages or note archives,
study them in a shuffle-and-score loop, and track per-deck statistics.

flashcards provides tools to:
- Import decks from a folder (database + images), .apkg or note archive
- Play a study session over a shuffled deck
- Merge decks, deduplicating identical cards
- Show per-deck scores and progress
- Export decks back to Anki packages`,
	}

	root.AddCommand(newImportCmd(cfg, repo))
	root.AddCommand(newListCmd(cfg, repo))
	root.AddCommand(newPlayCmd(cfg, repo))
	root.AddCommand(newMergeCmd(cfg, repo))
	root.AddCommand(newRenameCmd(cfg, repo))
	root.AddCommand(newDeleteCmd(cfg, repo))
	root.AddCommand(newStatsCmd(cfg, repo))
	root.AddCommand(newExportCmd(cfg, repo))

	return root
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
