package service

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"merval/internal/domain"
)

// Portfolio values ad-hoc user holdings in both currencies. Prices are
// resolved against the board once, when a line is added; changing a
// line means removing and re-adding it.
type Portfolio struct {
	mu    sync.Mutex
	board *Board
	lines []domain.Holding
}

func NewPortfolio(board *Board) *Portfolio {
	return &Portfolio{board: board}
}

// parseQuantity accepts an es-AR decimal comma. ParseFloat also accepts
// "NaN" and "Inf" spellings; neither is a quantity.
func parseQuantity(text string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// Add resolves id against the union of the four panels and appends a
// line. Unknown identifiers and non-positive quantities are a no-op.
//
// ARS unit price follows the class preference order; the USD unit price
// is the last trade of the D-suffixed sibling among bonds and notes
// (zero for D-suffixed identifiers, which already settle in USD). Bond
// and note prices are divided by face value here, once.
func (p *Portfolio) Add(id, quantity string) {
	qty := parseQuantity(quantity)
	if qty <= 0 {
		return
	}
	view, ok := p.board.Lookup(id)
	if !ok {
		return
	}

	var usd float64
	if sib := domain.USDSibling(id); sib != "" {
		usd = p.board.LastIn(sib, domain.ClassBond, domain.ClassCorp)
	}

	line := domain.Holding{
		ID:       id,
		Class:    view.Class,
		Quantity: qty,
		PriceARS: domain.UnitPrice(view.Class, view.PriceARS()),
		PriceUSD: domain.UnitPrice(view.Class, usd),
		Last:     view.Quote.LastTrade(),
	}

	p.mu.Lock()
	p.lines = append(p.lines, line)
	p.mu.Unlock()
}

// Remove drops every line matching id. Removing an unknown identifier
// leaves the portfolio unchanged.
func (p *Portfolio) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.lines[:0]
	for _, l := range p.lines {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	p.lines = kept
}

// Lines returns a copy of the current holdings.
func (p *Portfolio) Lines() []domain.Holding {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Holding, len(p.lines))
	copy(out, p.lines)
	return out
}

// Valuate sums the holdings. Unit prices were stored already divided
// for bonds and notes, so no further face-value division applies here.
func (p *Portfolio) Valuate() (totalARS, totalUSD float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, l := range p.lines {
		totalARS += l.TotalARS()
		totalUSD += l.TotalUSD()
	}
	return totalARS, totalUSD
}
