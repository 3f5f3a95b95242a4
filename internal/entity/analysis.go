package entity

import (
	"sort"
	"strings"
)

type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

// ParseRiskLevel maps the backend's risk label case-insensitively; anything unrecognised is RiskUnknown.
func ParseRiskLevel(s string) RiskLevel {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow
	case RiskMedium:
		return RiskMedium
	case RiskHigh:
		return RiskHigh
	default:
		return RiskUnknown
	}
}

const (
	IndicatorCurrentPrice   = "current_price"
	IndicatorSMA20          = "sma_20"
	IndicatorSMA50          = "sma_50"
	IndicatorRSI            = "rsi"
	IndicatorMACD           = "macd"
	IndicatorVolume         = "volume"
	IndicatorPriceChangePct = "price_change_pct"
)

// Indicators holds the technical indicators that are available. An indicator
// the backend omitted or sent as null is simply absent.
type Indicators map[string]float64

// Get reports the indicator value and whether it is available.
func (i Indicators) Get(name string) (float64, bool) {
	v, ok := i[name]
	return v, ok
}

// Names returns the available indicator names in sorted order.
func (i Indicators) Names() []string {
	names := make([]string, 0, len(i))
	for name := range i {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AnalysisResult is the backend's AI analysis for one symbol.
type AnalysisResult struct {
	Symbol              Symbol
	Timeframe           string
	TechnicalIndicators Indicators
	RiskLevel           RiskLevel
	ConfidenceScore     float64
	Recommendations     []string
	Analysis            string
}

// ChatResult answers a free-text query about one symbol.
type ChatResult struct {
	Symbol          Symbol
	Query           string
	Analysis        string
	Recommendations []string
}
