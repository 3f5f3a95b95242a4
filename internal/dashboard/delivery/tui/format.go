package tui

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// formatPrice renders v with two decimals and thousands separators.
func formatPrice(v float64) string {
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return humanize.FormatFloat("#,###.##", rounded)
}

// formatChange renders a signed absolute change.
func formatChange(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

// formatPercent renders a signed percentage.
func formatPercent(v float64) string {
	return formatChange(v) + "%"
}

func formatVolume(v int64) string {
	return humanize.Comma(v)
}

func formatAge(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
