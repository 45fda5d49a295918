package service

import (
	"context"

	"merval/internal/application/port"
)

// NoopRepo satisfies port.Repository when no storage backend is
// configured.
type NoopRepo struct{}

func NewNoopRepo() *NoopRepo { return &NoopRepo{} }

func (NoopRepo) UpsertLatestQuote(ctx context.Context, class, symbol string, price float64, ts int64) error {
	return nil
}

func (NoopRepo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	return nil
}

func (NoopRepo) Close() error { return nil }

var _ port.Repository = (*NoopRepo)(nil)
