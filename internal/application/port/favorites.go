package port

import (
	"context"

	"merval/internal/domain"
)

// Favorite marks an identifier the user pinned on one panel. The pair
// is the set key: the same identifier may be pinned on several panels.
type Favorite struct {
	ID    string       `json:"id"`
	Class domain.Class `json:"type"`
}

// FavoritesStore persists the favorites set. The set is read once at
// startup and written back wholesale on every mutation; there is a
// single local writer.
type FavoritesStore interface {
	Load(ctx context.Context) ([]Favorite, error)
	Save(ctx context.Context, favs []Favorite) error
}
