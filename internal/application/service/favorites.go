package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"merval/internal/application/port"
	"merval/internal/domain"
)

// Favorites is the persisted set of pinned (identifier, panel) pairs.
// The whole set is written through the store on every toggle; there is
// a single local writer, so no conflict resolution is needed.
type Favorites struct {
	mu    sync.Mutex
	store port.FavoritesStore
	items []port.Favorite
}

func NewFavorites(store port.FavoritesStore) *Favorites {
	return &Favorites{store: store}
}

// Load reads the persisted set. Called once at startup.
func (f *Favorites) Load(ctx context.Context) error {
	items, err := f.store.Load(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
	return nil
}

// Toggle adds the pair when absent and removes it when present, then
// persists the full set. Toggling twice restores the prior state. A
// persistence failure is logged; the in-memory set still changes.
func (f *Favorites) Toggle(ctx context.Context, id string, class domain.Class) {
	f.mu.Lock()
	found := false
	kept := f.items[:0]
	for _, it := range f.items {
		if it.ID == id && it.Class == class {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	if !found {
		f.items = append(f.items, port.Favorite{ID: id, Class: class})
	}
	snapshot := make([]port.Favorite, len(f.items))
	copy(snapshot, f.items)
	f.mu.Unlock()

	if err := f.store.Save(ctx, snapshot); err != nil {
		log.Warn().Err(err).Str("id", id).Str("class", string(class)).Msg("persist favorites failed")
	}
}

// IsFavorite reports set membership, matching both fields exactly.
func (f *Favorites) IsFavorite(id string, class domain.Class) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ID == id && it.Class == class {
			return true
		}
	}
	return false
}

// List returns a copy of the set. Order is persistence order and not
// significant.
func (f *Favorites) List() []port.Favorite {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]port.Favorite, len(f.items))
	copy(out, f.items)
	return out
}
