package port

import "context"

// Repository archives merged quote data outside the in-memory board.
// Implementations must tolerate being called once per instrument per
// cycle; failures are logged by the caller and never abort a cycle.
type Repository interface {
	UpsertLatestQuote(ctx context.Context, class, symbol string, price float64, ts int64) error
	InsertSnapshot(ctx context.Context, ts int64, payload string) error
	Close() error
}
