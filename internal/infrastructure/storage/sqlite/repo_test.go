package sqlite

import (
	"context"
	"os"
	"testing"

	"merval/internal/application/port"
	"merval/internal/domain"
)

func TestRepoUpsertLatestQuote(t *testing.T) {
	dbPath := "test_quotes.db"
	defer os.Remove(dbPath)

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.UpsertLatestQuote(ctx, "bond", "AL30", 5000, 1000); err != nil {
		t.Fatalf("UpsertLatestQuote failed: %v", err)
	}
	if err := repo.UpsertLatestQuote(ctx, "bond", "AL30", 5100, 2000); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	var price float64
	var ts int64
	row := repo.db.QueryRowContext(ctx, `SELECT price, ts_ms FROM quotes WHERE class='bond' AND symbol='AL30'`)
	if err := row.Scan(&price, &ts); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if price != 5100 || ts != 2000 {
		t.Errorf("expected latest price 5100 at ts 2000, got %v at %d", price, ts)
	}

	var count int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("upsert should keep one row per (class, symbol), got %d", count)
	}
}

func TestRepoInsertSnapshot(t *testing.T) {
	dbPath := "test_snapshots.db"
	defer os.Remove(dbPath)

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.InsertSnapshot(ctx, 1000, `{"stocks":[]}`); err != nil {
		t.Fatalf("InsertSnapshot failed: %v", err)
	}
	if err := repo.InsertSnapshot(ctx, 2000, `{"stocks":[]}`); err != nil {
		t.Fatalf("InsertSnapshot failed: %v", err)
	}

	var count int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("snapshots should append, expected 2 rows, got %d", count)
	}
}

func TestRepoFavoritesRoundTrip(t *testing.T) {
	dbPath := "test_favorites.db"
	defer os.Remove(dbPath)

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	empty, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load on fresh db failed: %v", err)
	}
	if empty != nil {
		t.Errorf("fresh db should yield an empty set, got %+v", empty)
	}

	favs := []port.Favorite{
		{ID: "GGAL", Class: domain.ClassStock},
		{ID: "AL30", Class: domain.ClassBond},
	}
	if err := repo.Save(ctx, favs); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(ctx, favs[:1]); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "GGAL" || got[0].Class != domain.ClassStock {
		t.Errorf("Save should overwrite wholesale, got %+v", got)
	}
}
