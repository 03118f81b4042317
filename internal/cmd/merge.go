// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anilaygunn/FlashCard-Creator/internal/config"
	"github.com/anilaygunn/FlashCard-Creator/internal/deck"
)

func newMergeCmd(cfg *config.Config, repo *deck.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <deck-a> <deck-b> <new-name>",
		Short: "Merge two decks into a new one",
		Long: `Create a new deck from the flashcards of two existing decks. Cards that
are structurally identical (same image and answer) appear once in the
result. The source decks are left untouched.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveDeck(repo, args[0])
			if err != nil {
				return err
			}
			b, err := resolveDeck(repo, args[1])
			if err != nil {
				return err
			}

			merged, err := repo.Merge(cmd.Context(), a.ID, b.ID, args[2])
			if err != nil {
				return fmt.Errorf("merge decks: %w", err)
			}

			fmt.Printf("Merged %q + %q into %q (%d cards)\n",
				a.Name, b.Name, merged.Name, len(merged.Flashcards))
			return nil
		},
	}

	return cmd
}

func newRenameCmd(cfg *config.Config, repo *deck.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <deck-id> <new-name>",
		Short: "Rename a deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDeck(repo, args[0])
			if err != nil {
				return err
			}

			old := d.Name
			d.Name = args[1]
			if err := repo.Update(cmd.Context(), d); err != nil {
				return fmt.Errorf("rename deck: %w", err)
			}

			fmt.Printf("Renamed %q to %q\n", old, d.Name)
			return nil
		},
	}

	return cmd
}

func newDeleteCmd(cfg *config.Config, repo *deck.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck and its exclusively owned images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDeck(repo, args[0])
			if err != nil {
				return err
			}

			if err := repo.Delete(cmd.Context(), d.ID); err != nil {
				return fmt.Errorf("delete deck: %w", err)
			}

			fmt.Printf("Deleted %q (%d cards)\n", d.Name, len(d.Flashcards))
			return nil
		},
	}

	return cmd
}
