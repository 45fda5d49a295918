package domain

// Holding is one user-entered portfolio line. Unit prices are resolved
// once, when the line is created; bond and note prices are stored
// already divided by face value, so valuation is a plain multiply.
type Holding struct {
	ID       string  `json:"id"`
	Class    Class   `json:"type"`
	Quantity float64 `json:"quantity"`
	PriceARS float64 `json:"price_ars"`
	PriceUSD float64 `json:"price_usd"`
	Last     float64 `json:"last"` // last trade at add time
}

// TotalARS is the line's ARS value.
func (h Holding) TotalARS() float64 { return h.Quantity * h.PriceARS }

// TotalUSD is the line's USD value.
func (h Holding) TotalUSD() float64 { return h.Quantity * h.PriceUSD }
