// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anilaygunn/FlashCard-Creator/internal/config"
	"github.com/anilaygunn/FlashCard-Creator/internal/deck"
)

func newPlayCmd(cfg *config.Config, repo *deck.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <deck-id>",
		Short: "Study a deck in a shuffle-and-score session",
		Long: `Run a study session over a shuffled copy of the deck. Each card shows
its image file and asks whether you recalled the answer; the session score
and per-card verdicts are committed back to the deck when the run ends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDeck(repo, args[0])
			if err != nil {
				return err
			}

			session := deck.NewSession(d)
			reader := bufio.NewReader(os.Stdin)

			fmt.Printf("Studying %q (%d cards). Answer y/n, or q to stop early.\n\n",
				d.Name, len(session.Cards()))

			for i, card := range session.Cards() {
				if card.ImageName != "" {
					fmt.Printf("[%d/%d] Image: %s\n", i+1, len(session.Cards()), card.ImageName)
				} else {
					fmt.Printf("[%d/%d]\n", i+1, len(session.Cards()))
				}
				fmt.Printf("       Answer: %s\n", card.Answer)
				fmt.Print("Did you know it? [y/n/q] ")

				line, err := reader.ReadString('\n')
				if err != nil {
					break
				}
				answer := strings.ToLower(strings.TrimSpace(line))
				if answer == "q" {
					break
				}
				session.Mark(card.ID, answer == "y")
				fmt.Println()
			}

			updated, err := session.Commit(cmd.Context(), repo)
			if err != nil {
				return fmt.Errorf("commit session: %w", err)
			}

			fmt.Printf("\nSession score: %+d\n", session.Score())
			fmt.Printf("Deck total: %d over %d round(s), average %.2f\n",
				updated.TotalScore, updated.CompletedRounds, updated.AverageScore())
			return nil
		},
	}

	return cmd
}

// resolveDeck accepts a full deck ID, an ID prefix, or an exact deck name.
func resolveDeck(repo *deck.Repository, ref string) (*deck.Deck, error) {
	if d, err := repo.Get(ref); err == nil {
		return d, nil
	}
	var match *deck.Deck
	for _, d := range repo.Decks() {
		if strings.HasPrefix(d.ID, ref) || strings.EqualFold(d.Name, ref) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous deck reference: %s", ref)
			}
			match = d
		}
	}
	if match == nil {
		return nil, fmt.Errorf("deck not found: %s", ref)
	}
	return match, nil
}
