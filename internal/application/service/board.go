package service

import (
	"sort"
	"sync"
	"time"

	"merval/internal/domain"
)

// Board holds the latest quote per identifier across the four panels.
// The poller swaps whole panels under the lock, so readers always see a
// fully formed segment, never a half-replaced one.
type Board struct {
	mu      sync.RWMutex
	stocks  map[string]domain.Quote
	bonds   map[string]domain.Quote
	corp    map[string]domain.Quote
	mep     map[string]domain.MEPQuote
	updated time.Time
}

func NewBoard() *Board {
	return &Board{
		stocks: map[string]domain.Quote{},
		bonds:  map[string]domain.Quote{},
		corp:   map[string]domain.Quote{},
		mep:    map[string]domain.MEPQuote{},
	}
}

func quoteMap(list []domain.Quote) map[string]domain.Quote {
	m := make(map[string]domain.Quote, len(list))
	for _, q := range list {
		if q.Symbol == "" {
			continue
		}
		m[q.Symbol] = q
	}
	return m
}

// ReplaceStocks swaps the equities panel wholesale.
func (b *Board) ReplaceStocks(list []domain.Quote) {
	m := quoteMap(list)
	b.mu.Lock()
	b.stocks = m
	b.mu.Unlock()
}

// ReplaceBonds swaps the sovereign bond panel wholesale.
func (b *Board) ReplaceBonds(list []domain.Quote) {
	m := quoteMap(list)
	b.mu.Lock()
	b.bonds = m
	b.mu.Unlock()
}

// ReplaceCorp swaps the corporate note panel wholesale.
func (b *Board) ReplaceCorp(list []domain.Quote) {
	m := quoteMap(list)
	b.mu.Lock()
	b.corp = m
	b.mu.Unlock()
}

// ReplaceMEP swaps the MEP panel wholesale. Records are keyed by ticker.
func (b *Board) ReplaceMEP(list []domain.MEPQuote) {
	m := make(map[string]domain.MEPQuote, len(list))
	for _, q := range list {
		if q.Ticker == "" {
			continue
		}
		m[q.Ticker] = q
	}
	b.mu.Lock()
	b.mep = m
	b.mu.Unlock()
}

// SetUpdated stamps the last fully successful cycle.
func (b *Board) SetUpdated(t time.Time) {
	b.mu.Lock()
	b.updated = t
	b.mu.Unlock()
}

// LastUpdated returns when the last fully successful cycle completed,
// or the zero time if none has yet.
func (b *Board) LastUpdated() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updated
}

func sortedQuotes(m map[string]domain.Quote) []domain.Quote {
	out := make([]domain.Quote, 0, len(m))
	for _, q := range m {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Stocks returns a copy of the equities panel, sorted by symbol.
func (b *Board) Stocks() []domain.Quote {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedQuotes(b.stocks)
}

// Bonds returns a copy of the sovereign bond panel, sorted by symbol.
func (b *Board) Bonds() []domain.Quote {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedQuotes(b.bonds)
}

// Corp returns a copy of the corporate note panel, sorted by symbol.
func (b *Board) Corp() []domain.Quote {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedQuotes(b.corp)
}

// MEP returns a copy of the MEP panel, sorted by ticker.
func (b *Board) MEP() []domain.MEPQuote {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.MEPQuote, 0, len(b.mep))
	for _, q := range b.mep {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// View is the class-tagged result of a union lookup. For ClassMEP the
// record is in MEP; for every other class it is in Quote.
type View struct {
	Class domain.Class
	Quote domain.Quote
	MEP   domain.MEPQuote
}

// PriceARS resolves the view to a single ARS price for its class.
func (v View) PriceARS() float64 {
	if v.Class == domain.ClassMEP {
		return v.MEP.PriceARS()
	}
	return v.Quote.PriceARS()
}

// Lookup resolves an identifier against the union of the four panels.
// The symbol panels are checked first; the MEP panel is keyed by ticker
// and consulted last, keeping the two namespaces distinct.
func (b *Board) Lookup(id string) (View, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if q, ok := b.stocks[id]; ok {
		return View{Class: domain.ClassStock, Quote: q}, true
	}
	if q, ok := b.bonds[id]; ok {
		return View{Class: domain.ClassBond, Quote: q}, true
	}
	if q, ok := b.corp[id]; ok {
		return View{Class: domain.ClassCorp, Quote: q}, true
	}
	if q, ok := b.mep[id]; ok {
		return View{Class: domain.ClassMEP, MEP: q}, true
	}
	return View{}, false
}

// BondAsk returns the best ask for a symbol on the sovereign bond
// panel, or zero when the symbol or the ask is absent.
func (b *Board) BondAsk(symbol string) float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q, ok := b.bonds[symbol]
	if !ok || q.Ask == nil {
		return 0
	}
	return *q.Ask
}

// LastIn returns the last trade price for symbol within the given
// panels, zero when no panel carries it.
func (b *Board) LastIn(symbol string, classes ...domain.Class) float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, class := range classes {
		var m map[string]domain.Quote
		switch class {
		case domain.ClassStock:
			m = b.stocks
		case domain.ClassBond:
			m = b.bonds
		case domain.ClassCorp:
			m = b.corp
		default:
			continue
		}
		if q, ok := m[symbol]; ok && q.Last != nil {
			return *q.Last
		}
	}
	return 0
}
