package domain

import "strings"

// Class identifies the panel an instrument trades on.
type Class string

const (
	ClassStock Class = "stock" // equities
	ClassBond  Class = "bond"  // sovereign bonds
	ClassCorp  Class = "corp"  // corporate notes (ONs)
	ClassMEP   Class = "mep"   // MEP exchange rate panel
)

// FaceValue is the quoted face amount for bonds and corporate notes:
// prices arrive per 100 units of face value.
const FaceValue = 100

// Quote is the latest feed record for an equity, sovereign bond or
// corporate note. Feeds may omit any field; nil means unknown, not zero.
type Quote struct {
	Symbol    string   `json:"symbol"`
	Bid       *float64 `json:"px_bid"`
	Ask       *float64 `json:"px_ask"`
	Last      *float64 `json:"c"`
	PctChange *float64 `json:"pct_change"`
	BidQty    *float64 `json:"q_bid"`
	AskQty    *float64 `json:"q_ask"`
	Trades    *float64 `json:"q_op"`
	Volume    *float64 `json:"v"`
}

// PriceARS resolves the quote to a single ARS price: last trade, else
// best ask, else best bid. The first field the feed carried wins.
func (q Quote) PriceARS() float64 {
	switch {
	case q.Last != nil:
		return *q.Last
	case q.Ask != nil:
		return *q.Ask
	case q.Bid != nil:
		return *q.Bid
	}
	return 0
}

// LastTrade returns the last trade price or zero when the feed omitted it.
func (q Quote) LastTrade() float64 {
	if q.Last == nil {
		return 0
	}
	return *q.Last
}

// MEPQuote is a record from the MEP panel. It is keyed by ticker, a
// namespace distinct from the symbol namespace of the other panels.
type MEPQuote struct {
	Ticker string  `json:"ticker"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Close  float64 `json:"close"`
	TMark  float64 `json:"tmark"`
	VolARS float64 `json:"v_ars"`
	VolUSD float64 `json:"v_usd"`
	QtyARS float64 `json:"q_ars"`
	QtyUSD float64 `json:"q_usd"`
	ARSBid float64 `json:"ars_bid"`
	ARSAsk float64 `json:"ars_ask"`
	USDBid float64 `json:"usd_bid"`
	USDAsk float64 `json:"usd_ask"`
	Panel  string  `json:"panel"`
}

// PriceARS resolves a MEP record to a single rate: implied ask, else
// implied bid.
func (q MEPQuote) PriceARS() float64 {
	if q.Ask > 0 {
		return q.Ask
	}
	if q.Bid > 0 {
		return q.Bid
	}
	return 0
}

// USDSibling returns the identifier of the USD-settled counterpart,
// formed by appending "D". Identifiers that already end in D are USD
// denominated and have no further sibling.
func USDSibling(id string) string {
	if id == "" || strings.HasSuffix(id, "D") {
		return ""
	}
	return id + "D"
}

// UnitPrice converts a quoted price into a per-unit price. Bonds and
// notes are quoted per 100 face value; other classes quote directly.
func UnitPrice(class Class, price float64) float64 {
	if class == ClassBond || class == ClassCorp {
		return price / FaceValue
	}
	return price
}
