package port

import (
	"context"

	"merval/internal/domain"
)

// QuoteFeed pulls the four live panels from the market data service.
// Each method is one independent fetch; on error the caller keeps its
// previous data for that panel.
type QuoteFeed interface {
	FetchStocks(ctx context.Context) ([]domain.Quote, error)
	FetchBonds(ctx context.Context) ([]domain.Quote, error)
	FetchCorp(ctx context.Context) ([]domain.Quote, error)
	FetchMEP(ctx context.Context) ([]domain.MEPQuote, error)
}
