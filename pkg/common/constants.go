package common

const (
	DefaultExchangeSuffix = ".NS"
	DefaultTimeframe      = "1y"

	PathTrending = "/market/trending"
	PathSeries   = "/stock/%s/data"
	PathAnalyze  = "/analyze"
	PathChat     = "/chat"

	DateLayout = "2006-01-02"
)
