package domain

import "time"

// HistoryCap bounds every price series; the oldest point is evicted
// when a series overflows.
const HistoryCap = 30

// Point is one observed price.
type Point struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// Series is an ordered, bounded price history for a single identifier.
// Timestamps increase monotonically.
type Series struct {
	points []Point
}

// Append records an observation. Unchanged prices are dropped so a
// stagnant quote does not flood the series with flat segments. Reports
// whether a point was added.
func (s *Series) Append(t time.Time, price float64) bool {
	if n := len(s.points); n > 0 && s.points[n-1].Price == price {
		return false
	}
	s.points = append(s.points, Point{Time: t, Price: price})
	if len(s.points) > HistoryCap {
		s.points = s.points[len(s.points)-HistoryCap:]
	}
	return true
}

// Backfill replaces the series with a flat line: HistoryCap points one
// minute apart ending at t, all at price. Used when an identifier is
// first seen while the market is closed, so the display has a reference
// line immediately.
func (s *Series) Backfill(t time.Time, price float64) {
	pts := make([]Point, HistoryCap)
	for i := range pts {
		pts[i] = Point{Time: t.Add(-time.Duration(HistoryCap-1-i) * time.Minute), Price: price}
	}
	s.points = pts
}

func (s *Series) Len() int { return len(s.points) }

// Points returns a copy of the series.
func (s *Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}
