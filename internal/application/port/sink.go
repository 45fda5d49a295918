package port

import (
	"time"

	"merval/internal/domain"
)

// Snapshot is the read-only view of one completed poll cycle. It is
// fully formed before being handed to any consumer; consumers never see
// a mix of two cycles for the same panel.
type Snapshot struct {
	Updated   time.Time         `json:"updated"` // zero while no full cycle has succeeded
	Stocks    []domain.Quote    `json:"stocks"`
	Bonds     []domain.Quote    `json:"bonds"`
	Corp      []domain.Quote    `json:"corp"`
	MEP       []domain.MEPQuote `json:"mep"`
	MEPAmount string            `json:"mep_amount"`
	MEPCalc   domain.MEPResult  `json:"mep_calc"`
	Favorites []Favorite        `json:"favorites"`
	Portfolio []domain.Holding  `json:"portfolio"`
	TotalARS  float64           `json:"total_ars"`
	TotalUSD  float64           `json:"total_usd"`
}

// SnapshotSink receives each merged cycle. Publish must not block the
// poll loop; slow consumers drop data, they do not delay it.
type SnapshotSink interface {
	Publish(snap Snapshot)
}
