package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"merval/internal/application/port"
	"merval/internal/domain"
)

// PollerDeps wires the poller to everything it drives per cycle.
type PollerDeps struct {
	Feed      port.QuoteFeed
	Board     *Board
	History   *HistoryTracker
	Calc      *MEPCalculator
	Favorites *Favorites
	Portfolio *Portfolio
	Repo      port.Repository
	Sinks     []port.SnapshotSink
	Calendar  *domain.TradingCalendar
	Interval  time.Duration
}

// Poller drives the refresh cycle: on every tick it fetches the four
// panels concurrently, swaps each successful list into the board, and
// fans the merged result out to history, the MEP calculator, the
// archive repository and the snapshot sinks.
type Poller struct {
	deps PollerDeps
	now  Clock
}

func NewPoller(deps PollerDeps) *Poller {
	if deps.Interval <= 0 {
		deps.Interval = 20 * time.Second
	}
	if deps.Repo == nil {
		deps.Repo = NewNoopRepo()
	}
	return &Poller{deps: deps, now: time.Now}
}

// Run polls once immediately and then on every tick until ctx ends.
// Ticks are fixed wall-clock intervals, not chained to cycle
// completion: a slow cycle keeps running and races the next one, and
// the board resolves that race last-write-wins per panel.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.deps.Interval)
	defer ticker.Stop()

	go p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			go p.Poll(ctx)
		}
	}
}

// Poll runs one fetch/merge cycle. Each panel failure is logged and
// leaves the previous segment in place; the last-updated stamp moves
// only when all four fetches of the cycle succeeded.
func (p *Poller) Poll(ctx context.Context) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fails int
	)
	run := func(panel string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				log.Warn().Str("panel", panel).Err(err).Msg("fetch failed")
				mu.Lock()
				fails++
				mu.Unlock()
			}
		}()
	}

	run("stocks", func() error {
		list, err := p.deps.Feed.FetchStocks(ctx)
		if err != nil {
			return err
		}
		p.deps.Board.ReplaceStocks(list)
		return nil
	})
	run("bonds", func() error {
		list, err := p.deps.Feed.FetchBonds(ctx)
		if err != nil {
			return err
		}
		p.deps.Board.ReplaceBonds(list)
		return nil
	})
	run("corp", func() error {
		list, err := p.deps.Feed.FetchCorp(ctx)
		if err != nil {
			return err
		}
		p.deps.Board.ReplaceCorp(list)
		return nil
	})
	run("mep", func() error {
		list, err := p.deps.Feed.FetchMEP(ctx)
		if err != nil {
			return err
		}
		p.deps.Board.ReplaceMEP(list)
		return nil
	})
	wg.Wait()

	if fails == 0 {
		p.deps.Board.SetUpdated(p.now())
	} else {
		log.Debug().Int("fails", fails).Msg("cycle incomplete, last-updated unchanged")
	}

	p.afterMerge(ctx)
}

// afterMerge runs the synchronous consumers of a merged cycle.
func (p *Poller) afterMerge(ctx context.Context) {
	snap := p.buildSnapshot()
	open := p.deps.Calendar.IsOpen(p.now())
	ts := p.now().UnixMilli()

	record := func(class domain.Class, id string, price float64) {
		if id == "" || price <= 0 {
			return
		}
		p.deps.History.Record(id, price, open)
		if err := p.deps.Repo.UpsertLatestQuote(ctx, string(class), id, price, ts); err != nil {
			log.Warn().Str("symbol", id).Err(err).Msg("archive quote failed")
		}
	}
	for _, q := range snap.Stocks {
		record(domain.ClassStock, q.Symbol, q.PriceARS())
	}
	for _, q := range snap.Bonds {
		record(domain.ClassBond, q.Symbol, q.PriceARS())
	}
	for _, q := range snap.Corp {
		record(domain.ClassCorp, q.Symbol, q.PriceARS())
	}
	for _, q := range snap.MEP {
		record(domain.ClassMEP, q.Ticker, q.PriceARS())
	}

	p.deps.Calc.Refresh()
	snap.MEPAmount, snap.MEPCalc = p.deps.Calc.State()

	if payload, err := json.Marshal(snap); err == nil {
		if err := p.deps.Repo.InsertSnapshot(ctx, ts, string(payload)); err != nil {
			log.Warn().Err(err).Msg("archive snapshot failed")
		}
	}
	for _, sink := range p.deps.Sinks {
		sink.Publish(snap)
	}
}

func (p *Poller) buildSnapshot() port.Snapshot {
	snap := port.Snapshot{
		Updated: p.deps.Board.LastUpdated(),
		Stocks:  p.deps.Board.Stocks(),
		Bonds:   p.deps.Board.Bonds(),
		Corp:    p.deps.Board.Corp(),
		MEP:     p.deps.Board.MEP(),
	}
	if p.deps.Favorites != nil {
		snap.Favorites = p.deps.Favorites.List()
	}
	if p.deps.Portfolio != nil {
		snap.Portfolio = p.deps.Portfolio.Lines()
		snap.TotalARS, snap.TotalUSD = p.deps.Portfolio.Valuate()
	}
	return snap
}
