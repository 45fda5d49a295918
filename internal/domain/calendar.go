package domain

import "time"

// TradingCalendar decides whether the exchange is open at a given
// instant. The window is a fixed local-time range on weekdays; market
// holidays are intentionally not consulted.
type TradingCalendar struct {
	loc   *time.Location
	open  int // HHMM, e.g. 1100
	close int // HHMM, e.g. 1700 (inclusive)
}

func NewTradingCalendar(tz string, open, close int) (*TradingCalendar, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return &TradingCalendar{loc: loc, open: open, close: close}, nil
}

// IsOpen reports whether t falls inside the trading window, inclusive
// at both ends, in the exchange timezone.
func (c *TradingCalendar) IsOpen(t time.Time) bool {
	t = t.In(c.loc)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	tod := t.Hour()*100 + t.Minute()
	return tod >= c.open && tod <= c.close
}

// Location returns the exchange timezone, for display timestamps.
func (c *TradingCalendar) Location() *time.Location {
	return c.loc
}
