package service

import (
	"golang-stock-dashboard/internal/entity"
)

// SeriesStatus describes what the price panel is showing.
type SeriesStatus string

const (
	SeriesIdle    SeriesStatus = "idle"
	SeriesLoading SeriesStatus = "loading"
	SeriesReady   SeriesStatus = "ready"
	SeriesFailed  SeriesStatus = "failed"
)

// Loading holds the independent in-flight flag of each backend operation.
type Loading struct {
	Series   bool
	Analysis bool
	Chat     bool
	Trending bool
}

// State is the whole client session. It is only mutated on the store loop;
// subscribers receive copies and must treat the referenced values as read-only.
type State struct {
	Symbol       entity.Symbol
	Series       *entity.SeriesSnapshot
	SeriesStatus SeriesStatus
	Metrics      Metrics
	Analysis     *entity.AnalysisResult
	Chat         *entity.ChatResult
	Trending     []entity.TrendingEntry
	Tab          Tab
	Loading      Loading
	Notices      []Notice
}

// setSeries replaces the snapshot and recomputes the derived metrics with it.
func (st *State) setSeries(series *entity.SeriesSnapshot, status SeriesStatus) {
	st.Series = series
	st.SeriesStatus = status
	if series == nil {
		st.Metrics = CalculateMetrics(nil)
		return
	}
	st.Metrics = CalculateMetrics(series.Points)
}
