// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

package deck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/anilaygunn/FlashCard-Creator/internal/store"
)

// deckListKey is the single storage key holding the serialized deck list.
// Every mutation rewrites the whole blob.
const deckListKey = "flashcards:decks"

// Repository owns the canonical deck list. All mutations go through a single
// mutex, so concurrent imports can parse in parallel but serialize when they
// touch the collection. Imports of the same source path are additionally
// single-flighted so two racing imports cannot both pass the duplicate check.
type Repository struct {
	mu       sync.Mutex
	kv       store.KVStore
	assets   *AssetStore
	importer *Importer
	decks    []*Deck

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

// NewRepository creates a repository over the given KV store and asset
// store. Call Load before use to hydrate the persisted deck list.
func NewRepository(kv store.KVStore, assets *AssetStore) *Repository {
	return &Repository{
		kv:       kv,
		assets:   assets,
		importer: NewImporter(assets),
		inflight: make(map[string]struct{}),
	}
}

// Load hydrates the deck list from storage. Flashcards whose image cannot be
// resolved in the asset store, and cannot be re-copied from the deck's
// original source folder, are dropped from the in-memory copy; decks left
// empty are dropped entirely. The surviving deck order is randomized on each
// load for variety in the deck list.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.kv.Get(ctx, deckListKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.decks = nil
			return nil
		}
		return fmt.Errorf("load decks: %w", err)
	}

	var decks []*Deck
	if err := json.Unmarshal(data, &decks); err != nil {
		return fmt.Errorf("unmarshal decks: %w", err)
	}

	kept := make([]*Deck, 0, len(decks))
	for _, d := range decks {
		filtered, dropped := r.filterAssets(d)
		if dropped > 0 {
			slog.Warn("dropped flashcards with missing assets",
				"deck", d.Name, "dropped", dropped)
		}
		if len(filtered.Flashcards) == 0 {
			slog.Warn("dropping deck with no resolvable flashcards", "deck", d.Name)
			continue
		}
		kept = append(kept, filtered)
	}

	rand.Shuffle(len(kept), func(i, j int) {
		kept[i], kept[j] = kept[j], kept[i]
	})

	r.decks = kept
	return nil
}

// filterAssets returns a copy of d containing only flashcards whose image
// (when set) is present in the asset store. A missing image is first
// re-copied from the deck's source folder before the card is given up on.
func (r *Repository) filterAssets(d *Deck) (*Deck, int) {
	out := d.Clone()
	kept := out.Flashcards[:0]
	dropped := 0
	for _, f := range out.Flashcards {
		if f.ImageName == "" {
			kept = append(kept, f)
			continue
		}
		if _, ok := r.assets.Resolve(f.ImageName); ok {
			kept = append(kept, f)
			continue
		}
		original := filepath.Join(d.SourcePath, f.ImageName)
		if _, err := os.Stat(original); err == nil {
			if err := r.assets.Copy(f.ImageName, original); err == nil {
				kept = append(kept, f)
				continue
			}
		}
		dropped++
	}
	out.Flashcards = kept
	return out, dropped
}

// Decks returns a snapshot of the deck list. Callers get clones; the
// repository keeps the authoritative copies.
func (r *Repository) Decks() []*Deck {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Deck, len(r.decks))
	for i, d := range r.decks {
		out[i] = d.Clone()
	}
	return out
}

// Get returns a clone of the deck with the given ID.
func (r *Repository) Get(id string) (*Deck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.decks {
		if d.ID == id {
			return d.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
}

// Add appends an imported deck and persists the list. A deck whose source
// path matches an existing deck is rejected with ErrDuplicateSource.
func (r *Repository) Add(ctx context.Context, d *Deck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.decks {
		if existing.SourcePath == d.SourcePath {
			return fmt.Errorf("%w: %s", ErrDuplicateSource, d.SourcePath)
		}
	}

	r.decks = append(r.decks, d.Clone())
	return r.persistLocked(ctx)
}

// Update replaces the deck matching by ID, re-runs the per-flashcard asset
// resolution pass, and persists the filtered result. This is how a finished
// study session commits its score mutations.
func (r *Repository) Update(ctx context.Context, d *Deck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.decks {
		if existing.ID != d.ID {
			continue
		}
		filtered, dropped := r.filterAssets(d)
		if dropped > 0 {
			slog.Warn("dropped flashcards with missing assets on update",
				"deck", d.Name, "dropped", dropped)
		}
		r.decks[i] = filtered
		return r.persistLocked(ctx)
	}
	return fmt.Errorf("%w: %s", ErrDeckNotFound, d.ID)
}

// Delete removes the deck by ID from memory and storage, then best-effort
// removes its images from the asset store. Images still referenced by a
// surviving deck are kept; removal failures are logged, not surfaced.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed *Deck
	kept := make([]*Deck, 0, len(r.decks))
	for _, d := range r.decks {
		if d.ID == id {
			removed = d
			continue
		}
		kept = append(kept, d)
	}
	if removed == nil {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	r.decks = kept

	if err := r.persistLocked(ctx); err != nil {
		return err
	}

	stillReferenced := make(map[string]bool)
	for _, d := range r.decks {
		for _, f := range d.Flashcards {
			if f.ImageName != "" {
				stillReferenced[f.ImageName] = true
			}
		}
	}
	for _, f := range removed.Flashcards {
		if f.ImageName == "" || stillReferenced[f.ImageName] {
			continue
		}
		if err := r.assets.Remove(f.ImageName); err != nil {
			slog.Warn("could not remove deck image", "image", f.ImageName, "error", err)
		}
	}

	return nil
}

// Merge builds a new independent deck from the flashcards of a and b,
// collapsing cards with equal content keys (first occurrence wins). The
// merged deck gets a fresh synthetic source path so it can never trip the
// duplicate-source check; a and b are left untouched.
func (r *Repository) Merge(ctx context.Context, aID, bID, name string) (*Deck, error) {
	a, err := r.Get(aID)
	if err != nil {
		return nil, err
	}
	b, err := r.Get(bID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var cards []Flashcard
	for _, f := range append(a.Flashcards, b.Flashcards...) {
		key := f.ContentKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		cards = append(cards, f)
	}

	merged := NewDeck(name, "merged://"+uuid.New().String(), cards)
	if err := r.Add(ctx, merged); err != nil {
		return nil, err
	}
	return merged.Clone(), nil
}

// ImportInto parses the given location and adds the resulting deck. Imports
// of a source path already held by the repository fail fast with
// ErrDuplicateSource; concurrent imports of the same path are
// single-flighted so the parse work runs at most once.
func (r *Repository) ImportInto(ctx context.Context, path, nameOverride string) (*ImportResult, error) {
	if err := r.claimSource(path); err != nil {
		return nil, err
	}
	defer r.releaseSource(path)

	if r.sourceKnown(path) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, path)
	}

	result, err := r.importer.Import(ctx, path, nameOverride)
	if err != nil {
		return nil, err
	}
	if err := r.Add(ctx, result.Deck); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository) claimSource(path string) error {
	r.inflightMu.Lock()
	defer r.inflightMu.Unlock()
	if _, busy := r.inflight[path]; busy {
		return fmt.Errorf("%w: import in progress for %s", ErrDuplicateSource, path)
	}
	r.inflight[path] = struct{}{}
	return nil
}

func (r *Repository) releaseSource(path string) {
	r.inflightMu.Lock()
	defer r.inflightMu.Unlock()
	delete(r.inflight, path)
}

func (r *Repository) sourceKnown(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.decks {
		if d.SourcePath == path {
			return true
		}
	}
	return false
}

func (r *Repository) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(r.decks)
	if err != nil {
		return fmt.Errorf("marshal decks: %w", err)
	}
	if err := r.kv.Set(ctx, deckListKey, data); err != nil {
		return fmt.Errorf("persist decks: %w", err)
	}
	return nil
}
