package domain

import (
	"math"
	"strconv"
	"strings"
)

var notionalCleaner = strings.NewReplacer("$", "", ".", "", " ", "", " ", "")

// ParseNotional converts es-AR formatted currency text ("$ 100.000,50")
// into a number. Currency symbols and thousands dots are stripped and
// the decimal comma converted; anything non-numeric parses as zero.
// ParseFloat accepts "NaN" and "Inf" spellings, which are not amounts.
func ParseNotional(text string) float64 {
	s := notionalCleaner.Replace(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, ",", ".")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// MEPResult is the outcome of converting an ARS notional through a bond
// that trades in both currencies.
type MEPResult struct {
	Notional  float64 `json:"notional"`   // parsed ARS amount
	Nominals  float64 `json:"nominals"`   // whole bond units purchasable
	USDAmount float64 `json:"usd_amount"` // proceeds from selling the D variant
	Estimated float64 `json:"estimated"`  // notional / USD proceeds
	BondRatio float64 `json:"bond_ratio"` // askARS / askUSD
}

// ConvertMEP prices an ARS notional through the bond pair. Both legs are
// quoted per 100 face value. Non-positive asks or proceeds leave the
// dependent figures at zero rather than dividing by zero.
func ConvertMEP(notional, askARS, askUSD float64) MEPResult {
	r := MEPResult{Notional: notional}
	if askARS > 0 {
		r.Nominals = math.Floor(notional / (askARS / FaceValue))
	}
	r.USDAmount = r.Nominals * (askUSD / FaceValue)
	if r.USDAmount > 0 {
		r.Estimated = notional / r.USDAmount
	}
	if askUSD > 0 {
		r.BondRatio = askARS / askUSD
	}
	return r
}
