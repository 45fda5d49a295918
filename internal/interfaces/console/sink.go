package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"merval/internal/application/port"
)

const (
	ansiDim      = "\033[2m"
	ansiReset    = "\033[0m"
	ansiClearEOL = "\033[K"
)

// Sink renders a live status line on stdout: wall clock in the exchange
// timezone, last full update, seconds until the next refresh and the
// panel sizes. Redrawn once per second by Run; Publish only stores the
// latest cycle.
type Sink struct {
	mu        sync.Mutex
	interval  time.Duration
	loc       *time.Location
	last      port.Snapshot
	countdown int
	seen      bool
}

func New(interval time.Duration, loc *time.Location) *Sink {
	if loc == nil {
		loc = time.Local
	}
	return &Sink{
		interval:  interval,
		loc:       loc,
		countdown: int(interval / time.Second),
	}
}

func (s *Sink) Publish(snap port.Snapshot) {
	s.mu.Lock()
	s.last = snap
	s.countdown = int(s.interval / time.Second)
	s.seen = true
	s.mu.Unlock()
}

// Run drives the one-second clock and countdown redraw until ctx ends.
func (s *Sink) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Print("\n")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Sink) tick() {
	s.mu.Lock()
	if s.countdown > 0 {
		s.countdown--
	}
	line := s.render()
	s.mu.Unlock()

	fmt.Print(line)
}

func (s *Sink) render() string {
	now := time.Now().In(s.loc)

	updated := "--:--:--"
	if !s.last.Updated.IsZero() {
		updated = s.last.Updated.In(s.loc).Format("15:04:05")
	}

	counts := "stocks -- bonds -- corp -- mep --"
	if s.seen {
		counts = fmt.Sprintf("stocks %d bonds %d corp %d mep %d",
			len(s.last.Stocks), len(s.last.Bonds), len(s.last.Corp), len(s.last.MEP))
	}

	return fmt.Sprintf("\r%s[MERVAL]%s %s %supdated%s %s %srefresh in%s %2ds %s%s%s%s",
		ansiDim, ansiReset, now.Format("15:04:05"),
		ansiDim, ansiReset, updated,
		ansiDim, ansiReset, s.countdown,
		ansiDim, counts, ansiReset, ansiClearEOL)
}

var _ port.SnapshotSink = (*Sink)(nil)
