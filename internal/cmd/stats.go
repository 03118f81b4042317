// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anilaygunn/FlashCard-Creator/internal/config"
	"github.com/anilaygunn/FlashCard-Creator/internal/deck"
)

func newStatsCmd(cfg *config.Config, repo *deck.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [deck-id]",
		Short: "Show study statistics",
		Long:  `Display per-deck study statistics: rounds played, average score, progress.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var decks []*deck.Deck
			if len(args) == 1 {
				d, err := resolveDeck(repo, args[0])
				if err != nil {
					return err
				}
				decks = []*deck.Deck{d}
			} else {
				decks = repo.Decks()
			}

			if len(decks) == 0 {
				fmt.Println("No decks imported yet.")
				return nil
			}

			fmt.Printf("Study Statistics\n")
			fmt.Printf("================\n\n")

			totalCards := 0
			totalRounds := 0
			for _, d := range decks {
				totalCards += len(d.Flashcards)
				totalRounds += d.CompletedRounds

				last := "never"
				if d.LastPlayed != nil {
					last = d.LastPlayed.Format(time.DateOnly)
				}
				fmt.Printf("%s\n", d.Name)
				fmt.Printf("  Cards:    %d\n", len(d.Flashcards))
				fmt.Printf("  Rounds:   %d\n", d.CompletedRounds)
				fmt.Printf("  Average:  %.2f\n", d.AverageScore())
				fmt.Printf("  Progress: %.1f%%\n", d.ProgressPercentage())
				fmt.Printf("  Played:   %s\n\n", last)
			}

			fmt.Printf("Decks:  %d\n", len(decks))
			fmt.Printf("Cards:  %d\n", totalCards)
			fmt.Printf("Rounds: %d\n", totalRounds)
			return nil
		},
	}

	return cmd
}
