package service

import (
	"testing"

	"golang-stock-dashboard/internal/entity"

	"github.com/stretchr/testify/assert"
)

func closes(values ...float64) []entity.PricePoint {
	points := make([]entity.PricePoint, len(values))
	for i, v := range values {
		points[i] = entity.PricePoint{Close: v}
	}
	return points
}

func TestCalculateMetrics(t *testing.T) {
	tests := []struct {
		name        string
		points      []entity.PricePoint
		wantPrice   float64
		wantChange  float64
		wantPercent float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single point", closes(100), 100, 0, 0},
		{"two points", closes(100, 110), 110, 10, 9.0909},
		{"uses last two only", closes(50, 200, 100, 90), 90, -10, -11.1111},
		{"zero current close", closes(5, 0), 0, -5, 0},
		{"zero previous close", closes(0, 5), 5, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CalculateMetrics(tt.points)
			assert.Equal(t, tt.wantPrice, m.CurrentPrice)
			assert.InDelta(t, tt.wantChange, m.PriceChange, 1e-9)
			assert.InDelta(t, tt.wantPercent, m.PriceChangePercent, 1e-4)
		})
	}
}

func TestState_SetSeriesRecomputesMetrics(t *testing.T) {
	st := State{Symbol: "TCS.NS"}
	st.setSeries(&entity.SeriesSnapshot{Symbol: "TCS.NS", Points: closes(100, 110)}, SeriesReady)
	assert.Equal(t, 110.0, st.Metrics.CurrentPrice)

	st.setSeries(nil, SeriesLoading)
	assert.Equal(t, Metrics{}, st.Metrics)
	assert.Equal(t, SeriesLoading, st.SeriesStatus)
}
