package entity

// TrendingEntry is one row of the market-wide trending feed. Its symbol is
// the backend's own ticker and is not tied to the selected Symbol.
type TrendingEntry struct {
	Symbol        string
	Name          string
	Price         float64
	Change        float64
	ChangePercent float64
}
