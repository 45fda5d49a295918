package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"merval/internal/application/port"
)

// Repo caches the latest quote per instrument in a hash and publishes
// each cycle snapshot for external consumers.
type Repo struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	keyLatest string // prefix + ":latest"
	snapKey   string // prefix + ":snapshot"
	snapChan  string // prefix + ":snapshot:pub"
}

type latestQuote struct {
	Class  string  `json:"class"`
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Ts     int64   `json:"ts"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Repo {
	return &Repo{
		rdb:       rdb,
		prefix:    prefix,
		ttl:       ttl,
		keyLatest: prefix + ":latest",
		snapKey:   prefix + ":snapshot",
		snapChan:  prefix + ":snapshot:pub",
	}
}

func (r *Repo) UpsertLatestQuote(ctx context.Context, class, symbol string, price float64, ts int64) error {
	if price <= 0 {
		return nil
	}
	b, _ := json.Marshal(latestQuote{Class: class, Symbol: symbol, Price: price, Ts: ts})

	// Hash: field = "bond:AL30" -> json
	field := fmt.Sprintf("%s:%s", class, symbol)
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, field, string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	pipe := r.rdb.Pipeline()
	pipe.Set(ctx, r.snapKey, payload, r.ttl)
	pipe.Publish(ctx, r.snapChan, payload)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.Repository = (*Repo)(nil)
