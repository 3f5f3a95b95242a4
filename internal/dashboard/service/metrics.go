package service

import "golang-stock-dashboard/internal/entity"

// Metrics are the headline numbers derived from a price series.
type Metrics struct {
	CurrentPrice       float64
	PriceChange        float64
	PriceChangePercent float64
}

// CalculateMetrics derives the current price and the change against the
// previous close. The percentage is expressed relative to the current close,
// so closes 100 then 110 give 10 and 9.09%. Fewer than two points yield no
// change, and a zero close on either side yields a zero percentage.
func CalculateMetrics(points []entity.PricePoint) Metrics {
	switch len(points) {
	case 0:
		return Metrics{}
	case 1:
		return Metrics{CurrentPrice: points[0].Close}
	}

	last := points[len(points)-1].Close
	prev := points[len(points)-2].Close
	change := last - prev

	m := Metrics{CurrentPrice: last, PriceChange: change}
	if prev != 0 && last != 0 {
		m.PriceChangePercent = change / last * 100
	}
	return m
}
