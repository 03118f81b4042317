// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anilaygunn/FlashCard-Creator/internal/config"
	"github.com/anilaygunn/FlashCard-Creator/internal/deck"
)

func newListCmd(cfg *config.Config, repo *deck.Repository) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List imported decks",
		RunE: func(cmd *cobra.Command, args []string) error {
			decks := repo.Decks()

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(decks)
			}

			if len(decks) == 0 {
				fmt.Println("No decks imported yet.")
				return nil
			}

			for _, d := range decks {
				fmt.Printf("%s  %-30s %3d cards  %5.1f%% studied\n",
					d.ID[:8], truncate(d.Name, 30), len(d.Flashcards), d.ProgressPercentage())
			}
			fmt.Printf("\nTotal: %d deck(s)\n", len(decks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
