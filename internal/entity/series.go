package entity

import "time"

// PricePoint is one daily bar. Moving averages and RSI are nil until the
// backend has enough history to compute them.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	SMA20  *float64
	SMA50  *float64
	RSI    *float64
}

// SeriesSnapshot is the ascending-by-date price history of exactly one symbol.
type SeriesSnapshot struct {
	Symbol Symbol
	Points []PricePoint
}

func (s *SeriesSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Last returns the most recent point.
func (s *SeriesSnapshot) Last() (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Tail returns up to n most recent points.
func (s *SeriesSnapshot) Tail(n int) []PricePoint {
	if s.Len() == 0 || n <= 0 {
		return nil
	}
	if n > len(s.Points) {
		n = len(s.Points)
	}
	return s.Points[len(s.Points)-n:]
}
