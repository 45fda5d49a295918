package service

import (
	"sync"
	"time"

	"merval/internal/domain"
)

// Clock lets tests pin the notion of now.
type Clock func() time.Time

// HistoryTracker owns one bounded series per identifier. While the
// market is open it appends changed prices; while it is closed an
// unknown identifier gets a flat backfilled line and existing series
// are frozen until the next open.
type HistoryTracker struct {
	mu     sync.Mutex
	series map[string]*domain.Series
	now    Clock
}

func NewHistoryTracker() *HistoryTracker {
	return &HistoryTracker{
		series: map[string]*domain.Series{},
		now:    time.Now,
	}
}

// Record applies one observation for id under the given market state.
func (t *HistoryTracker) Record(id string, price float64, open bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.series[id]
	if !open {
		if s != nil {
			return
		}
		s = &domain.Series{}
		s.Backfill(t.now(), price)
		t.series[id] = s
		return
	}
	if s == nil {
		s = &domain.Series{}
		t.series[id] = s
	}
	s.Append(t.now(), price)
}

// Series returns a copy of the history for id, nil when none exists.
func (t *HistoryTracker) Series(id string) []domain.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.series[id]
	if s == nil {
		return nil
	}
	return s.Points()
}
