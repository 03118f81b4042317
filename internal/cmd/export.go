// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anilaygunn/FlashCard-Creator/internal/config"
	"github.com/anilaygunn/FlashCard-Creator/internal/deck"
)

func newExportCmd(cfg *config.Config, repo *deck.Repository) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <deck-id> <output-file>",
		Short: "Export a deck",
		Long: `Export a deck for use outside the app.

Formats:
  apkg      Anki package with the deck's images as media (default)
  manifest  YAML listing of the deck's image/answer pairs`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := resolveDeck(repo, args[0])
			if err != nil {
				return err
			}
			outPath := args[1]

			switch strings.ToLower(format) {
			case "apkg":
				out, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer out.Close()

				exporter := deck.NewAnkiExporter(deck.NewAssetStore(cfg.AssetDir()))
				if err := exporter.ExportDeck(d, out); err != nil {
					return fmt.Errorf("export apkg: %w", err)
				}

			case "manifest":
				if err := deck.WriteManifest(d, outPath); err != nil {
					return fmt.Errorf("export manifest: %w", err)
				}

			default:
				return fmt.Errorf("unknown format %q (choose apkg or manifest)", format)
			}

			fmt.Printf("Exported %q (%d cards) to %s\n", d.Name, len(d.Flashcards), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "apkg", "Export format (apkg, manifest)")

	return cmd
}
