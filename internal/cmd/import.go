// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anilaygunn/FlashCard-Creator/internal/config"
	"github.com/anilaygunn/FlashCard-Creator/internal/deck"
)

func newImportCmd(cfg *config.Config, repo *deck.Repository) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a flashcard deck",
		Long: `Import a deck from the filesystem into the deck list.

Supported sources:
- Folder with a card database (.db/.sqlite) and an "images" subfolder
- Anki package (.apkg, .colpkg)
- Note-export archive (.note, .zip) with per-page PDFs

Examples:
  flashcards import ~/decks/capitals                # folder deck
  flashcards import ~/Downloads/geography.apkg      # Anki package
  flashcards import ~/notes/biology.note --name Bio # note archive, named`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importPath := args[0]

			// Expand ~ to home directory
			if strings.HasPrefix(importPath, "~") {
				home, _ := os.UserHomeDir()
				importPath = filepath.Join(home, importPath[1:])
			}

			result, err := repo.ImportInto(cmd.Context(), importPath, name)
			if err != nil {
				if errors.Is(err, deck.ErrDuplicateSource) {
					return fmt.Errorf("already imported: %s", importPath)
				}
				return err
			}

			d := result.Deck
			fmt.Printf("Imported: %s (%d cards", d.Name, result.Accepted)
			if result.Skipped > 0 {
				fmt.Printf(", %d rows skipped", result.Skipped)
			}
			fmt.Println(")")
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Deck name (default: derived from the source)")

	return cmd
}
