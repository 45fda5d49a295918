package service

import (
	"sync"

	"merval/internal/domain"
)

// MEPCalculator converts a user-entered ARS notional through a bond
// pair quoted in both currencies. The state is recomputed wholesale
// whenever the amount text or the board's asks change; recomputation is
// idempotent and has no other side effects.
type MEPCalculator struct {
	mu      sync.Mutex
	board   *Board
	bond    string // ARS leg, e.g. AL30
	bondUSD string // USD leg, e.g. AL30D
	amount  string
	result  domain.MEPResult
}

func NewMEPCalculator(board *Board, bond, bondUSD string) *MEPCalculator {
	return &MEPCalculator{board: board, bond: bond, bondUSD: bondUSD}
}

// SetAmount stores the raw currency text and recomputes.
func (c *MEPCalculator) SetAmount(text string) {
	c.mu.Lock()
	c.amount = text
	c.mu.Unlock()
	c.Refresh()
}

// Refresh recomputes from the current board asks. The poller calls this
// after every merge.
func (c *MEPCalculator) Refresh() {
	askARS := c.board.BondAsk(c.bond)
	askUSD := c.board.BondAsk(c.bondUSD)

	c.mu.Lock()
	c.result = domain.ConvertMEP(domain.ParseNotional(c.amount), askARS, askUSD)
	c.mu.Unlock()
}

// State returns the raw amount text and the latest computation.
func (c *MEPCalculator) State() (string, domain.MEPResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.amount, c.result
}
