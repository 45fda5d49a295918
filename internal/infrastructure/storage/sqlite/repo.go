package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"merval/internal/application/port"
)

// Repo is the local archive: latest quote per instrument, one JSON row
// for the favorites set, and the raw cycle snapshots.
type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS quotes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  class TEXT NOT NULL,
  symbol TEXT NOT NULL,
  price REAL NOT NULL,
  ts_ms INTEGER NOT NULL,
  UNIQUE(class, symbol)
);
CREATE INDEX IF NOT EXISTS idx_quotes_ts ON quotes(ts_ms);
CREATE INDEX IF NOT EXISTS idx_quotes_symbol ON quotes(symbol);

CREATE TABLE IF NOT EXISTS snapshots (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_ms INTEGER NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);

CREATE TABLE IF NOT EXISTS favorites (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  payload TEXT NOT NULL
);
`)
	return err
}

func (r *Repo) UpsertLatestQuote(ctx context.Context, class, symbol string, price float64, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quotes(class, symbol, price, ts_ms)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(class, symbol) DO UPDATE SET
		price=excluded.price, ts_ms=excluded.ts_ms
	`, class, symbol, price, ts)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(ts_ms, payload) VALUES(?, ?)`, ts, payload)
	return err
}

// Load reads the favorites set. A database with no row yet yields an
// empty set, not an error.
func (r *Repo) Load(ctx context.Context) ([]port.Favorite, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM favorites WHERE id=1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var favs []port.Favorite
	if err := json.Unmarshal([]byte(payload), &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

// Save overwrites the favorites set wholesale.
func (r *Repo) Save(ctx context.Context, favs []port.Favorite) error {
	payload, err := json.Marshal(favs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO favorites(id, payload) VALUES(1, ?)
		ON CONFLICT(id) DO UPDATE SET payload=excluded.payload
	`, string(payload))
	return err
}

var (
	_ port.Repository     = (*Repo)(nil)
	_ port.FavoritesStore = (*Repo)(nil)
)
