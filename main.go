// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/anilaygunn/FlashCard-Creator/internal/cmd"
	"github.com/anilaygunn/FlashCard-Creator/internal/config"
	"github.com/anilaygunn/FlashCard-Creator/internal/deck"
	"github.com/anilaygunn/FlashCard-Creator/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flashcards: failed to load config: %v\n", err)
		os.Exit(1)
	}
	config.SetupLogger(cfg)

	// Storage backend selection. Default: "sqlite" (persistent KV store).
	// If SQLite fails (missing, corrupted, permissions), fall back to the
	// in-memory store so the tool remains operational without persistence.
	var kv store.KVStore
	switch cfg.Storage {
	case "sqlite":
		s, err := store.OpenSQLiteStore(cfg.DBPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: cannot open SQLite database: %v\n", err)
			fmt.Fprintln(os.Stderr, "         falling back to in-memory store (no persistence)")
			kv = store.NewMemoryStore()
		} else {
			kv = s
		}

	case "memory":
		kv = store.NewMemoryStore()

	default:
		fmt.Fprintf(os.Stderr, "flashcards: unknown storage backend %q (choose sqlite or memory)\n", cfg.Storage)
		os.Exit(1)
	}
	defer kv.Close()

	assets := deck.NewAssetStore(cfg.AssetDir())
	repo := deck.NewRepository(kv, assets)
	if err := repo.Load(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "flashcards: failed to load decks: %v\n", err)
		os.Exit(1)
	}

	root := cmd.NewRootCmd(cfg, repo)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
